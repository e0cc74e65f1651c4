package handlers

import (
	"care4pets/internal/services"

	"github.com/gofiber/fiber/v2"
)

type NotificationHandler struct {
	service *services.NotificationService
}

func NewNotificationHandler(service *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	notifications := router.Group("/notifications", auth)
	notifications.Get("/", h.HandleList)
	notifications.Get("/unread-count", h.HandleUnreadCount)
	notifications.Patch("/read-all", h.HandleMarkAllRead)
	notifications.Patch("/:id/read", h.HandleMarkRead)
	notifications.Delete("/:id", h.HandleDelete)
}

func (h *NotificationHandler) HandleList(c *fiber.Ctx) error {
	p := pagination(c)
	items, total, err := h.service.List(actor(c).UserID, p)
	if err != nil {
		return err
	}
	return page(c, items, total, p)
}

// HandleUnreadCount is polled by the client every 30 seconds.
func (h *NotificationHandler) HandleUnreadCount(c *fiber.Ctx) error {
	n, err := h.service.UnreadCount(c.UserContext(), actor(c).UserID)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, fiber.Map{"count": n})
}

func (h *NotificationHandler) HandleMarkRead(c *fiber.Ctx) error {
	if err := h.service.MarkRead(c.UserContext(), actor(c).UserID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *NotificationHandler) HandleMarkAllRead(c *fiber.Ctx) error {
	n, err := h.service.MarkAllRead(c.UserContext(), actor(c).UserID)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, fiber.Map{"updated": n})
}

func (h *NotificationHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), actor(c).UserID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
