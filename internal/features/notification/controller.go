package notification

import (
	"context"
	"strconv"
	"time"

	"go-transfer/internal/common/api"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type NotificationController struct {
	service NotificationService
	hub     *Hub
	logger  *zap.Logger
}

func NewNotificationController(service NotificationService, hub *Hub, logger *zap.Logger) *NotificationController {
	return &NotificationController{
		service: service,
		hub:     hub,
		logger:  logger.Named("notification"),
	}
}

// List godoc
// @Summary List reminder notifications
// @Tags notifications
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Router /api/notifications [get]
func (c *NotificationController) List(ctx *fiber.Ctx) error {
	reqCtx, cancel := context.WithTimeout(ctx.UserContext(), 10*time.Second)
	defer cancel()

	page, _ := strconv.ParseInt(ctx.Query("page", "1"), 10, 64)
	limit, _ := strconv.ParseInt(ctx.Query("limit", "10"), 10, 64)

	notifications, total, err := c.service.List(reqCtx, page, limit)
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"data":  notifications,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (c *NotificationController) GetUnreadCount(ctx *fiber.Ctx) error {
	count, err := c.service.GetUnreadCount(ctx.UserContext())
	if err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"count": count})
}

func (c *NotificationController) MarkAsRead(ctx *fiber.Ctx) error {
	if err := c.service.MarkAsRead(ctx.UserContext(), ctx.Params("id")); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

func (c *NotificationController) MarkAllAsRead(ctx *fiber.Ctx) error {
	if err := c.service.MarkAllAsRead(ctx.UserContext()); err != nil {
		return api.ErrorResponse(ctx, err)
	}
	return ctx.JSON(fiber.Map{"status": "success"})
}

// HandleWebSocket keeps the connection registered until the client goes away.
// Incoming messages are ignored.
func (c *NotificationController) HandleWebSocket(conn *websocket.Conn) {
	c.hub.Register(conn)
	defer c.hub.Unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			c.logger.Debug("Websocket closed", zap.Error(err))
			return
		}
	}
}
