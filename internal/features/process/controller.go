package process

import (
	"context"
	"time"

	"go-transfer/internal/common/api"
	"go-transfer/internal/common/errs"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProcessController struct {
	Service ProcessService
}

func NewProcessController(service ProcessService) *ProcessController {
	return &ProcessController{Service: service}
}

// ListProcesses godoc
// @Summary List processes
// @Description List loaded processes sorted by priority, optionally filtered
// @Tags processes
// @Produce json
// @Param priority query string false "low, medium, high or unclassified"
// @Param assignee query string false "Assignee ID"
// @Success 200 {array} View
// @Router /api/processes [get]
func (c *ProcessController) ListProcesses(ctx *fiber.Ctx) error {
	filter, err := parseListFilter(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.JSON(NewViews(c.Service.List(filter)))
}

// ExportProcesses godoc
// @Summary Export processes
// @Tags processes
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /api/processes/export [get]
func (c *ProcessController) ExportProcesses(ctx *fiber.Ctx) error {
	filter, err := parseListFilter(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	data, err := ExportToExcel(c.Service.List(filter))
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="processes.xlsx"`)
	return ctx.Send(data)
}

// ReloadProcesses godoc
// @Summary Reload the working set from the store
// @Tags processes
// @Router /api/processes/reload [post]
func (c *ProcessController) ReloadProcesses(ctx *fiber.Ctx) error {
	ctxt, cancel := context.WithTimeout(ctx.UserContext(), 30*time.Second)
	defer cancel()

	if err := c.Service.Load(ctxt); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"count": len(c.Service.Snapshot())})
}

// CreateProcess godoc
// @Summary Create process
// @Tags processes
// @Accept json
// @Produce json
// @Param process body NewProcess true "Process"
// @Success 201 {object} View
// @Router /api/processes [post]
func (c *ProcessController) CreateProcess(ctx *fiber.Ctx) error {
	var input NewProcess
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ctxt, cancel := context.WithTimeout(ctx.UserContext(), 10*time.Second)
	defer cancel()

	p, err := c.Service.CreateProcess(ctxt, input)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(NewView(p))
}

// GetProcess godoc
// @Summary Get process
// @Tags processes
// @Produce json
// @Param id path string true "Process ID"
// @Success 200 {object} View
// @Router /api/processes/{id} [get]
func (c *ProcessController) GetProcess(ctx *fiber.Ctx) error {
	id, err := processID(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	p, err := c.Service.Get(id)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.JSON(NewView(p))
}

// DeleteProcess godoc
// @Summary Delete process
// @Tags processes
// @Param id path string true "Process ID"
// @Success 204
// @Router /api/processes/{id} [delete]
func (c *ProcessController) DeleteProcess(ctx *fiber.Ctx) error {
	id, err := processID(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	ctxt, cancel := context.WithTimeout(ctx.UserContext(), 10*time.Second)
	defer cancel()

	if err := c.Service.DeleteProcess(ctxt, id); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

// UpsertStep godoc
// @Summary Add or replace a step
// @Tags processes
// @Accept json
// @Param id path string true "Process ID"
// @Param step body Step true "Step"
// @Success 200 {object} View
// @Router /api/processes/{id}/steps [put]
func (c *ProcessController) UpsertStep(ctx *fiber.Ctx) error {
	var step Step
	return c.withBody(ctx, &step, func(ctxt context.Context, id primitive.ObjectID) (Process, error) {
		return c.Service.UpsertStep(ctxt, id, step)
	})
}

func (c *ProcessController) RemoveStep(ctx *fiber.Ctx) error {
	return c.with(ctx, func(ctxt context.Context, id primitive.ObjectID) (Process, error) {
		return c.Service.RemoveStep(ctxt, id, ctx.Params("itemId"))
	})
}

// UpsertReminder godoc
// @Summary Add or replace a reminder
// @Tags processes
// @Accept json
// @Param id path string true "Process ID"
// @Param reminder body Reminder true "Reminder"
// @Success 200 {object} View
// @Router /api/processes/{id}/reminders [put]
func (c *ProcessController) UpsertReminder(ctx *fiber.Ctx) error {
	var r Reminder
	return c.withBody(ctx, &r, func(ctxt context.Context, id primitive.ObjectID) (Process, error) {
		return c.Service.UpsertReminder(ctxt, id, r)
	})
}

func (c *ProcessController) RemoveReminder(ctx *fiber.Ctx) error {
	return c.with(ctx, func(ctxt context.Context, id primitive.ObjectID) (Process, error) {
		return c.Service.RemoveReminder(ctxt, id, ctx.Params("itemId"))
	})
}

func (c *ProcessController) UpsertNote(ctx *fiber.Ctx) error {
	var n Note
	return c.withBody(ctx, &n, func(ctxt context.Context, id primitive.ObjectID) (Process, error) {
		return c.Service.UpsertNote(ctxt, id, n)
	})
}

func (c *ProcessController) RemoveNote(ctx *fiber.Ctx) error {
	return c.with(ctx, func(ctxt context.Context, id primitive.ObjectID) (Process, error) {
		return c.Service.RemoveNote(ctxt, id, ctx.Params("itemId"))
	})
}

// SetTransferDetails godoc
// @Summary Set transfer details
// @Tags processes
// @Accept json
// @Param id path string true "Process ID"
// @Param details body TransferDetails true "Transfer details"
// @Success 200 {object} View
// @Router /api/processes/{id}/transfer-details [put]
func (c *ProcessController) SetTransferDetails(ctx *fiber.Ctx) error {
	var td TransferDetails
	return c.withBody(ctx, &td, func(ctxt context.Context, id primitive.ObjectID) (Process, error) {
		return c.Service.SetTransferDetails(ctxt, id, &td)
	})
}

func (c *ProcessController) ClearTransferDetails(ctx *fiber.Ctx) error {
	return c.with(ctx, func(ctxt context.Context, id primitive.ObjectID) (Process, error) {
		return c.Service.SetTransferDetails(ctxt, id, nil)
	})
}

type statusRequest struct {
	Status Status `json:"status"`
}

// SetStatus godoc
// @Summary Change process status
// @Tags processes
// @Accept json
// @Param id path string true "Process ID"
// @Success 200 {object} View
// @Router /api/processes/{id}/status [put]
func (c *ProcessController) SetStatus(ctx *fiber.Ctx) error {
	var req statusRequest
	return c.withBody(ctx, &req, func(ctxt context.Context, id primitive.ObjectID) (Process, error) {
		return c.Service.SetStatus(ctxt, id, req.Status)
	})
}

type priorityRequest struct {
	Priority *int `json:"priority"`
}

func (c *ProcessController) SetPriority(ctx *fiber.Ctx) error {
	var req priorityRequest
	return c.withBody(ctx, &req, func(ctxt context.Context, id primitive.ObjectID) (Process, error) {
		return c.Service.SetPriority(ctxt, id, req.Priority)
	})
}

type assigneeRequest struct {
	AssigneeID *string `json:"assignee_id"`
}

func (c *ProcessController) SetAssignee(ctx *fiber.Ctx) error {
	var req assigneeRequest
	return c.withBody(ctx, &req, func(ctxt context.Context, id primitive.ObjectID) (Process, error) {
		return c.Service.SetAssignee(ctxt, id, req.AssigneeID)
	})
}

func (c *ProcessController) withBody(ctx *fiber.Ctx, body any, fn func(context.Context, primitive.ObjectID) (Process, error)) error {
	if err := ctx.BodyParser(body); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	return c.with(ctx, fn)
}

func (c *ProcessController) with(ctx *fiber.Ctx, fn func(context.Context, primitive.ObjectID) (Process, error)) error {
	id, err := processID(ctx)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	ctxt, cancel := context.WithTimeout(ctx.UserContext(), 10*time.Second)
	defer cancel()

	p, err := fn(ctxt, id)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.JSON(NewView(p))
}

func processID(ctx *fiber.Ctx) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(ctx.Params("id"))
	if err != nil {
		return primitive.NilObjectID, errs.Invalid("process id %q", ctx.Params("id"))
	}
	return id, nil
}

func parseListFilter(ctx *fiber.Ctx) (ListFilter, error) {
	var f ListFilter
	if v := ctx.Query("priority"); v != "" {
		cat, ok := ParsePriorityCategory(v)
		if !ok {
			return f, errs.Invalid("priority filter %q", v)
		}
		f.Priority = &cat
	}
	if v := ctx.Query("assignee"); v != "" {
		f.Assignee = &v
	}
	return f, nil
}
