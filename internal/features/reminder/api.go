package reminder

import (
	"go-transfer/internal/common/api"
	"go-transfer/internal/config"
	"go-transfer/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ReminderApi struct {
	controller *ReminderController
	config     *config.Config
}

func NewReminderApi(controller *ReminderController, config *config.Config) api.Route {
	return &ReminderApi{controller: controller, config: config}
}

func (h *ReminderApi) Setup(app *fiber.App) {
	reminders := app.Group("/api/reminders", middleware.AuthMiddleware(h.config.SkipAuth))

	reminders.Get("/due", h.controller.ListDue)
	reminders.Post("/:processId/:reminderId/calendar", h.controller.ExportToCalendar)
}
