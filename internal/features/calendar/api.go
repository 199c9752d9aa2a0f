package calendar

import (
	"go-transfer/internal/common/api"
	"go-transfer/internal/config"
	"go-transfer/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type CalendarApi struct {
	controller *CalendarController
	config     *config.Config
}

func NewCalendarApi(controller *CalendarController, config *config.Config) api.Route {
	return &CalendarApi{controller: controller, config: config}
}

func (h *CalendarApi) Setup(app *fiber.App) {
	group := app.Group("/api/calendar", middleware.AuthMiddleware(h.config.SkipAuth))
	group.Get("/events", h.controller.ListEvents)
}
