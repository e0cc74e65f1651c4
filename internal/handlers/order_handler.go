package handlers

import (
	"care4pets/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService, validate *validator.Validate) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: validate,
	}
}

// RegisterRoutes registers the customer order routes and the admin order routes.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	orderRoutes := router.Group("/orders", auth)
	orderRoutes.Post("/", h.HandleCheckout)
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)

	adminRoutes := router.Group("/admin/orders", auth, admin)
	adminRoutes.Get("/", h.HandleGetAllOrders)
	adminRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
}

// HandleCheckout turns the caller's cart into an order.
func (h *OrderHandler) HandleCheckout(c *fiber.Ctx) error {
	var in services.CheckoutInput
	if err := parse(c, h.validate, &in); err != nil {
		return err
	}

	order, err := h.service.Checkout(c.UserContext(), actor(c).UserID, in)
	if err != nil {
		return err
	}

	body := fiber.Map{"data": order}
	if next := services.NextAction(order.PaymentMethod); next != "" {
		body["nextAction"] = next
	}
	return c.Status(fiber.StatusCreated).JSON(body)
}

// HandleGetOrders lists the caller's own orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	p := pagination(c)
	orders, total, err := h.service.ListOrders(actor(c).UserID, c.Query("status"), p)
	if err != nil {
		return err
	}
	return page(c, orders, total, p)
}

// HandleGetOrderByID retrieves a single order by its ID.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, order)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	var req cancelRequest
	if err := parse(c, h.validate, &req); err != nil {
		return err
	}
	order, err := h.service.CancelOrder(c.UserContext(), actor(c), c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, order)
}

func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	p := pagination(c)
	orders, total, err := h.service.ListAllOrders(c.Query("status"), p)
	if err != nil {
		return err
	}
	return page(c, orders, total, p)
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
	Note   string `json:"note" validate:"max=500"`
}

// HandleUpdateOrderStatus moves an order along its lifecycle.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := parse(c, h.validate, &req); err != nil {
		return err
	}
	order, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status, req.Note)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, order)
}
