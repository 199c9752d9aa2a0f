package email

import (
	"go-transfer/internal/common/api"
	"go-transfer/internal/config"
	"go-transfer/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type EmailApi struct {
	controller *EmailController
	config     *config.Config
}

func NewEmailApi(controller *EmailController, config *config.Config) api.Route {
	return &EmailApi{
		controller: controller,
		config:     config,
	}
}

func (h *EmailApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	app.Post("/api/processes/:id/email-draft", auth, h.controller.ComposeDraft)
	app.Get("/api/processes/:id/email-draft", auth, h.controller.GetDraft)
	app.Post("/api/processes/:id/email-draft/send", auth, h.controller.SendDraft)
	app.Get("/api/processes/:id/emails", auth, h.controller.ListSent)
}
