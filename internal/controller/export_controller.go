// FILE: internal/controller/export_controller.go
package controller

import (
	"bytes"
	"encoding/json"
	"fmt"

	"financial-assistant-be/internal/dto"
	"financial-assistant-be/internal/pkg/serverutils"
	"financial-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IExportController interface {
	RegisterRoutes(r fiber.Router)
	SaveOutput(ctx *fiber.Ctx) error
	SaveHistoricalPrice(ctx *fiber.Ctx) error
	Download(ctx *fiber.Ctx) error
}

type exportController struct {
	service service.IExportService
}

func NewExportController(service service.IExportService) IExportController {
	return &exportController{service: service}
}

func (c *exportController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/export/v1")
	h.Use(serverutils.SessionMiddleware)
	h.Post("/outputs", c.SaveOutput)
	h.Post("/historical-price", c.SaveHistoricalPrice)
	h.Get("/download", c.Download)
}

func (c *exportController) SaveOutput(ctx *fiber.Ctx) error {
	sessionIdStr := ctx.Locals("session_id").(string)
	sessionId, _ := uuid.Parse(sessionIdStr)

	// Decode with UseNumber so integral values keep their JSON spelling;
	// float64 would turn a plain 7 into 7.0 in the saved file.
	var req dto.SaveOutputRequest
	dec := json.NewDecoder(bytes.NewReader(ctx.Body()))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SaveOutput(ctx.Context(), sessionId, &req)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save output", res))
}

func (c *exportController) SaveHistoricalPrice(ctx *fiber.Ctx) error {
	sessionIdStr := ctx.Locals("session_id").(string)
	sessionId, _ := uuid.Parse(sessionIdStr)

	var req dto.SaveHistoricalPriceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SaveHistoricalPrice(ctx.Context(), sessionId, &req)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success save historical price", res))
}

func (c *exportController) Download(ctx *fiber.Ctx) error {
	sessionIdStr := ctx.Locals("session_id").(string)
	sessionId, _ := uuid.Parse(sessionIdStr)

	data, mime, name, err := c.service.Download(ctx.Context(), sessionId, ctx.Query("path"))
	if err != nil {
		return httpError(err)
	}

	ctx.Set(fiber.HeaderContentType, mime)
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return ctx.Send(data)
}
