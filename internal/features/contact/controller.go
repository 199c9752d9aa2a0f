package contact

import (
	"context"
	"strings"
	"time"

	"go-transfer/internal/common/api"
	"go-transfer/internal/common/errs"

	"github.com/gofiber/fiber/v2"
)

type ContactController struct {
	Repo ContactRepository
}

func NewContactController(repo ContactRepository) *ContactController {
	return &ContactController{Repo: repo}
}

func (c *ContactController) ListPersons(ctx *fiber.Ctx) error {
	persons, err := c.Repo.ListPersons(ctx.UserContext(), int64(ctx.QueryInt("limit", 200)))
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.JSON(persons)
}

func (c *ContactController) CreatePerson(ctx *fiber.Ctx) error {
	var p Person
	if err := ctx.BodyParser(&p); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if strings.TrimSpace(p.LastName) == "" {
		return api.ErrorResponse(ctx, errs.Invalid("last_name is required"))
	}

	ctxt, cancel := context.WithTimeout(ctx.UserContext(), 10*time.Second)
	defer cancel()

	if err := c.Repo.CreatePerson(ctxt, &p); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(p)
}

func (c *ContactController) ListOrganizations(ctx *fiber.Ctx) error {
	orgs, err := c.Repo.ListOrganizations(ctx.UserContext(), int64(ctx.QueryInt("limit", 200)))
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.JSON(orgs)
}

func (c *ContactController) CreateOrganization(ctx *fiber.Ctx) error {
	var o Organization
	if err := ctx.BodyParser(&o); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if strings.TrimSpace(o.Name) == "" {
		return api.ErrorResponse(ctx, errs.Invalid("name is required"))
	}

	ctxt, cancel := context.WithTimeout(ctx.UserContext(), 10*time.Second)
	defer cancel()

	if err := c.Repo.CreateOrganization(ctxt, &o); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(o)
}
