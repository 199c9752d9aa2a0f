package process

import (
	"go-transfer/internal/common/api"
	"go-transfer/internal/config"
	"go-transfer/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

type ProcessApi struct {
	controller *ProcessController
	config     *config.Config
}

func NewProcessApi(controller *ProcessController, config *config.Config) api.Route {
	return &ProcessApi{
		controller: controller,
		config:     config,
	}
}

func (h *ProcessApi) Setup(app *fiber.App) {
	processes := app.Group("/api/processes", middleware.AuthMiddleware(h.config.SkipAuth))

	processes.Get("/", h.controller.ListProcesses)
	processes.Post("/", h.controller.CreateProcess)
	processes.Get("/export", h.controller.ExportProcesses)
	processes.Post("/reload", middleware.RequireRole(middleware.RoleAdmin), h.controller.ReloadProcesses)
	processes.Get("/:id", h.controller.GetProcess)
	processes.Delete("/:id", middleware.RequireRole(middleware.RoleAdmin), h.controller.DeleteProcess)

	processes.Put("/:id/steps", h.controller.UpsertStep)
	processes.Delete("/:id/steps/:itemId", h.controller.RemoveStep)
	processes.Put("/:id/reminders", h.controller.UpsertReminder)
	processes.Delete("/:id/reminders/:itemId", h.controller.RemoveReminder)
	processes.Put("/:id/notes", h.controller.UpsertNote)
	processes.Delete("/:id/notes/:itemId", h.controller.RemoveNote)
	processes.Put("/:id/transfer-details", h.controller.SetTransferDetails)
	processes.Delete("/:id/transfer-details", h.controller.ClearTransferDetails)
	processes.Put("/:id/status", h.controller.SetStatus)
	processes.Put("/:id/priority", h.controller.SetPriority)
	processes.Put("/:id/assignee", h.controller.SetAssignee)
}
