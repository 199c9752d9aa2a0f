package email

import (
	"context"
	"time"

	"go-transfer/internal/common/api"
	"go-transfer/internal/common/errs"
	"go-transfer/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type EmailController struct {
	Service EmailService
}

func NewEmailController(service EmailService) *EmailController {
	return &EmailController{Service: service}
}

type draftRequest struct {
	StepID   string `json:"step_id"`
	Language string `json:"language"`
}

type sendRequest struct {
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// ComposeDraft godoc
// @Summary Compose an email draft for a process step
// @Tags email
// @Accept json
// @Produce json
// @Param id path string true "Process ID"
// @Success 200 {object} EmailDraft
// @Failure 409 {object} map[string]string "superseded by a newer request"
// @Router /api/processes/{id}/email-draft [post]
func (c *EmailController) ComposeDraft(ctx *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return api.ErrorResponse(ctx, errs.Invalid("invalid process id"))
	}
	var req draftRequest
	if err := ctx.BodyParser(&req); err != nil {
		return api.ErrorResponse(ctx, errs.Invalid("invalid request body"))
	}

	senderContact := ""
	if claims, ok := utils.ClaimsFromContext(ctx.UserContext()); ok {
		senderContact = claims.Email
	}

	ctxt, cancel := context.WithTimeout(ctx.UserContext(), 90*time.Second)
	defer cancel()

	draft, err := c.Service.Draft(ctxt, id, req.StepID, ParseLanguage(req.Language), senderContact)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.JSON(draft)
}

func (c *EmailController) GetDraft(ctx *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return api.ErrorResponse(ctx, errs.Invalid("invalid process id"))
	}
	draft, ok := c.Service.CurrentDraft(id, ctx.Query("step_id"))
	if !ok {
		return api.ErrorResponse(ctx, errs.ErrNotFound)
	}
	return ctx.JSON(draft)
}

// SendDraft godoc
// @Summary Send an edited draft
// @Tags email
// @Accept json
// @Produce json
// @Param id path string true "Process ID"
// @Router /api/processes/{id}/email-draft/send [post]
func (c *EmailController) SendDraft(ctx *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return api.ErrorResponse(ctx, errs.Invalid("invalid process id"))
	}
	var req sendRequest
	if err := ctx.BodyParser(&req); err != nil {
		return api.ErrorResponse(ctx, errs.Invalid("invalid request body"))
	}

	from := ""
	if claims, ok := utils.ClaimsFromContext(ctx.UserContext()); ok {
		from = claims.Email
	}

	ctxt, cancel := context.WithTimeout(ctx.UserContext(), 60*time.Second)
	defer cancel()

	record, err := c.Service.SendDraft(ctxt, id, from, req.To, EmailDraft{Subject: req.Subject, Body: req.Body, Status: DraftReady})
	if err != nil {
		if record != nil {
			return ctx.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error(), "email": record})
		}
		return api.ErrorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(record)
}

func (c *EmailController) ListSent(ctx *fiber.Ctx) error {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return api.ErrorResponse(ctx, errs.Invalid("invalid process id"))
	}
	emails, err := c.Service.ListSent(ctx.UserContext(), id)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.JSON(emails)
}
