package calendar

import (
	"time"

	"go-transfer/internal/common/api"
	"go-transfer/internal/common/errs"

	"github.com/gofiber/fiber/v2"
)

type CalendarController struct {
	Service CalendarService
}

func NewCalendarController(service CalendarService) *CalendarController {
	return &CalendarController{Service: service}
}

// ListEvents returns exported events in [from, to). Both default to the
// coming 30 days.
func (c *CalendarController) ListEvents(ctx *fiber.Ctx) error {
	from := time.Now()
	to := from.AddDate(0, 0, 30)

	if v := ctx.Query("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return api.ErrorResponse(ctx, errs.Invalid("from must be RFC3339"))
		}
		from = t
	}
	if v := ctx.Query("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return api.ErrorResponse(ctx, errs.Invalid("to must be RFC3339"))
		}
		to = t
	}

	events, err := c.Service.ListEvents(ctx.UserContext(), from, to)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.JSON(events)
}
