package system

import (
	"go-transfer/internal/common/errs"

	"github.com/gofiber/fiber/v2"
)

// AlertController hands queued user-visible failures to the client one at
// a time, oldest first.
type AlertController struct {
	alerts *errs.Queue
}

func NewAlertController(alerts *errs.Queue) *AlertController {
	return &AlertController{alerts: alerts}
}

// NextAlert godoc
// @Summary Pop the oldest pending alert
// @Tags alerts
// @Produce json
// @Success 200 {object} errs.Alert
// @Success 204 "no pending alert"
// @Router /api/alerts/next [get]
func (c *AlertController) NextAlert(ctx *fiber.Ctx) error {
	alert, ok := c.alerts.Next()
	if !ok {
		return ctx.SendStatus(fiber.StatusNoContent)
	}
	return ctx.JSON(fiber.Map{
		"alert":   alert,
		"pending": c.alerts.Pending(),
	})
}

func (c *AlertController) Pending(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"pending": c.alerts.Pending()})
}
