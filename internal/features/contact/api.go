package contact

import (
	"go-transfer/internal/common/api"
	"go-transfer/internal/config"
	"go-transfer/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ContactApi struct {
	controller *ContactController
	config     *config.Config
}

func NewContactApi(controller *ContactController, config *config.Config) api.Route {
	return &ContactApi{controller: controller, config: config}
}

func (h *ContactApi) Setup(app *fiber.App) {
	auth := middleware.AuthMiddleware(h.config.SkipAuth)

	persons := app.Group("/api/persons", auth)
	persons.Get("/", h.controller.ListPersons)
	persons.Post("/", h.controller.CreatePerson)

	orgs := app.Group("/api/organizations", auth)
	orgs.Get("/", h.controller.ListOrganizations)
	orgs.Post("/", h.controller.CreateOrganization)
}
