// FILE: internal/controller/http_error.go
package controller

import (
	"errors"

	"financial-assistant-be/internal/service"
	"financial-assistant-be/pkg/edgar"
	"financial-assistant-be/pkg/exports"

	"github.com/gofiber/fiber/v2"
)

// httpError translates the service sentinels into status-carrying errors for
// the error middleware. Anything unrecognized stays a 500.
func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrJobNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrFileNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrPathOutsideCache):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnknownTarget):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotDownloadable):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, exports.ErrInvalidResponse):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, edgar.ErrIncomplete):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return err
	}
}
