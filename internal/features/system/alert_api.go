package system

import (
	"go-transfer/internal/common/api"
	"go-transfer/internal/config"
	"go-transfer/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type AlertApi struct {
	controller *AlertController
	config     *config.Config
}

func NewAlertApi(controller *AlertController, config *config.Config) api.Route {
	return &AlertApi{controller: controller, config: config}
}

func (h *AlertApi) Setup(app *fiber.App) {
	alerts := app.Group("/api/alerts", middleware.AuthMiddleware(h.config.SkipAuth))
	alerts.Get("/next", h.controller.NextAlert)
	alerts.Get("/", h.controller.Pending)
}
