// FILE: internal/controller/workspace_controller.go
package controller

import (
	"financial-assistant-be/internal/dto"
	"financial-assistant-be/internal/pkg/serverutils"
	"financial-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IWorkspaceController interface {
	RegisterRoutes(r fiber.Router)
	Browse(ctx *fiber.Ctx) error
	ClearCache(ctx *fiber.Ctx) error
	ScheduleDeletion(ctx *fiber.Ctx) error
	CancelDeletion(ctx *fiber.Ctx) error
	ListJobs(ctx *fiber.Ctx) error
	PruneSubdirectories(ctx *fiber.Ctx) error
	CreateTempDir(ctx *fiber.Ctx) error
	DeleteTempDir(ctx *fiber.Ctx) error
}

type workspaceController struct {
	service service.IWorkspaceService
}

func NewWorkspaceController(service service.IWorkspaceService) IWorkspaceController {
	return &workspaceController{service: service}
}

func (c *workspaceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/workspace/v1")
	h.Use(serverutils.SessionMiddleware)
	h.Get("/browse", c.Browse)
	h.Post("/clear-cache", c.ClearCache)
	h.Get("/deletion-jobs", c.ListJobs)
	h.Post("/deletion-jobs", c.ScheduleDeletion)
	h.Post("/deletion-jobs/cancel", c.CancelDeletion)
	h.Post("/prune-subdirectories", c.PruneSubdirectories)
	h.Post("/temp-dirs", c.CreateTempDir)
	h.Delete("/temp-dirs", c.DeleteTempDir)
}

func (c *workspaceController) Browse(ctx *fiber.Ctx) error {
	sessionIdStr := ctx.Locals("session_id").(string)
	sessionId, _ := uuid.Parse(sessionIdStr)

	res, err := c.service.Browse(ctx.Context(), sessionId, ctx.Query("path"))
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success browse directory", res))
}

func (c *workspaceController) ClearCache(ctx *fiber.Ctx) error {
	sessionIdStr := ctx.Locals("session_id").(string)
	sessionId, _ := uuid.Parse(sessionIdStr)

	var req dto.ClearCacheRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	if err := c.service.ClearCache(ctx.Context(), sessionId, &req); err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success clear cache", nil))
}

func (c *workspaceController) ScheduleDeletion(ctx *fiber.Ctx) error {
	sessionIdStr := ctx.Locals("session_id").(string)
	sessionId, _ := uuid.Parse(sessionIdStr)

	var req dto.ScheduleDeletionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ScheduleDeletion(ctx.Context(), sessionId, &req)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success schedule deletion", res))
}

func (c *workspaceController) CancelDeletion(ctx *fiber.Ctx) error {
	sessionIdStr := ctx.Locals("session_id").(string)
	sessionId, _ := uuid.Parse(sessionIdStr)

	var req dto.CancelDeletionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.CancelDeletion(ctx.Context(), sessionId, req.Path); err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success cancel deletion", nil))
}

func (c *workspaceController) ListJobs(ctx *fiber.Ctx) error {
	sessionIdStr := ctx.Locals("session_id").(string)
	sessionId, _ := uuid.Parse(sessionIdStr)

	res, err := c.service.ListJobs(ctx.Context(), sessionId)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list deletion jobs", res))
}

func (c *workspaceController) PruneSubdirectories(ctx *fiber.Ctx) error {
	sessionIdStr := ctx.Locals("session_id").(string)
	sessionId, _ := uuid.Parse(sessionIdStr)

	var req dto.PruneSubdirectoriesRequest
	if len(ctx.Body()) > 0 {
		if err := ctx.BodyParser(&req); err != nil {
			return err
		}
	}

	if err := c.service.PruneSubdirectories(ctx.Context(), sessionId, &req); err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success prune subdirectories", nil))
}

func (c *workspaceController) CreateTempDir(ctx *fiber.Ctx) error {
	sessionIdStr := ctx.Locals("session_id").(string)
	sessionId, _ := uuid.Parse(sessionIdStr)

	var req dto.CreateTempDirRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateTempDir(ctx.Context(), sessionId, &req)
	if err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create temp directory", res))
}

func (c *workspaceController) DeleteTempDir(ctx *fiber.Ctx) error {
	sessionIdStr := ctx.Locals("session_id").(string)
	sessionId, _ := uuid.Parse(sessionIdStr)

	var req dto.DeleteTempDirRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.DeleteTempDir(ctx.Context(), sessionId, &req); err != nil {
		return httpError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete temp directory", nil))
}
