// FILE: internal/controller/session_controller.go
package controller

import (
	"financial-assistant-be/internal/dto"
	"financial-assistant-be/internal/pkg/serverutils"
	"financial-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Initialize(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	SubmitEdgarDetails(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
}

type sessionController struct {
	service service.ISessionService
}

func NewSessionController(service service.ISessionService) ISessionController {
	return &sessionController{service: service}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Post("/initialize", c.Initialize) // public, mints the session token
	h.Use(serverutils.SessionMiddleware)
	h.Get("", c.Show)
	h.Post("/edgar-details", c.SubmitEdgarDetails)
	h.Post("/close", c.Close)
}

func (c *sessionController) Initialize(ctx *fiber.Ctx) error {
	var req dto.InitializeSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	// Initialize is idempotent: a valid token on the request returns the
	// stored session instead of minting a new one. An invalid or stale
	// token just means a fresh session.
	var existingId *uuid.UUID
	if auth := ctx.Get("Authorization"); len(auth) > 7 && auth[:7] == "Bearer " {
		if id, err := serverutils.ParseSessionToken(auth[7:]); err == nil {
			existingId = &id
		}
	}

	res, err := c.service.Initialize(ctx.Context(), existingId, &req)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Session initialized successfully", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	sessionIdStr := ctx.Locals("session_id").(string)
	sessionId, _ := uuid.Parse(sessionIdStr)

	res, err := c.service.Show(ctx.Context(), sessionId)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) SubmitEdgarDetails(ctx *fiber.Ctx) error {
	sessionIdStr := ctx.Locals("session_id").(string)
	sessionId, _ := uuid.Parse(sessionIdStr)

	var req dto.SubmitEdgarDetailsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SubmitEdgarDetails(ctx.Context(), sessionId, &req)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("SEC EDGAR details saved successfully!", res))
}

func (c *sessionController) Close(ctx *fiber.Ctx) error {
	sessionIdStr := ctx.Locals("session_id").(string)
	sessionId, _ := uuid.Parse(sessionIdStr)

	var req dto.CloseSessionRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	if err := c.service.Close(ctx.Context(), sessionId, req.DeleteRoot); err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Session closed successfully", nil))
}
