package reminder

import (
	"context"
	"time"

	"go-transfer/internal/common/api"
	"go-transfer/internal/common/errs"
	"go-transfer/internal/features/process"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ReminderController struct {
	Scheduler *Scheduler
	Processes process.ProcessService
}

func NewReminderController(scheduler *Scheduler, processes process.ProcessService) *ReminderController {
	return &ReminderController{Scheduler: scheduler, Processes: processes}
}

// ListDue godoc
// @Summary Due reminders
// @Description Reminders due today or earlier, oldest first
// @Tags reminders
// @Produce json
// @Success 200 {array} DueReminder
// @Router /api/reminders/due [get]
func (c *ReminderController) ListDue(ctx *fiber.Ctx) error {
	return ctx.JSON(c.Scheduler.DueReminders())
}

// ExportToCalendar godoc
// @Summary Export a reminder to the calendar
// @Tags reminders
// @Param processId path string true "Process ID"
// @Param reminderId path string true "Reminder ID"
// @Success 201
// @Failure 403 {object} map[string]interface{}
// @Router /api/reminders/{processId}/{reminderId}/calendar [post]
func (c *ReminderController) ExportToCalendar(ctx *fiber.Ctx) error {
	pid, err := primitive.ObjectIDFromHex(ctx.Params("processId"))
	if err != nil {
		return api.ErrorResponse(ctx, errs.Invalid("process id %q", ctx.Params("processId")))
	}
	p, err := c.Processes.Get(pid)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	var reminder *process.Reminder
	for i := range p.Reminders {
		if p.Reminders[i].ID == ctx.Params("reminderId") {
			reminder = &p.Reminders[i]
			break
		}
	}
	if reminder == nil {
		return api.ErrorResponse(ctx, errs.ErrNotFound)
	}

	ctxt, cancel := context.WithTimeout(ctx.UserContext(), 15*time.Second)
	defer cancel()

	if err := c.Scheduler.ExportToCalendar(ctxt, *reminder, p); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusCreated)
}
