package controller

import (
	"ai-writeassist-be/internal/pkg/serverutils"
	"ai-writeassist-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IReferenceController interface {
	RegisterRoutes(r fiber.Router)
	GetLedger(ctx *fiber.Ctx) error
	DeleteEntry(ctx *fiber.Ctx) error
}

type referenceController struct {
	service service.IReferenceService
}

func NewReferenceController(service service.IReferenceService) IReferenceController {
	return &referenceController{service: service}
}

func (c *referenceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/reference/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get(":document_id", c.GetLedger)
	h.Delete(":document_id/:entry_id", c.DeleteEntry)
}

func (c *referenceController) GetLedger(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	documentId, _ := uuid.Parse(ctx.Params("document_id"))

	res, err := c.service.GetLedger(ctx.Context(), userId, documentId)
	if err != nil {
		return err
	}
	if res == nil {
		return fiber.NewError(fiber.StatusNotFound, "Document not found")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get reference ledger", res))
}

func (c *referenceController) DeleteEntry(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	documentId, _ := uuid.Parse(ctx.Params("document_id"))
	entryId, _ := uuid.Parse(ctx.Params("entry_id"))

	if err := c.service.DeleteEntry(ctx.Context(), userId, documentId, entryId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success delete reference entry", nil))
}
