package handlers

import (
	"care4pets/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

func NewCartHandler(service *services.CartService, validate *validator.Validate) *CartHandler {
	return &CartHandler{service: service, validate: validate}
}

func (h *CartHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	cart := router.Group("/cart", auth)
	cart.Get("/", h.HandleGetCart)
	cart.Post("/items", h.HandleAddItem)
	cart.Patch("/items/:productId", h.HandleUpdateItem)
	cart.Delete("/items/:productId", h.HandleRemoveItem)
	cart.Delete("/", h.HandleClear)
}

type addItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(actor(c).UserID)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, cart)
}

func (h *CartHandler) HandleAddItem(c *fiber.Ctx) error {
	var req addItemRequest
	if err := parse(c, h.validate, &req); err != nil {
		return err
	}
	cart, err := h.service.AddItem(actor(c).UserID, req.ProductID, req.Quantity)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, cart)
}

func (h *CartHandler) HandleUpdateItem(c *fiber.Ctx) error {
	var req updateItemRequest
	if err := parse(c, h.validate, &req); err != nil {
		return err
	}
	cart, err := h.service.UpdateItem(actor(c).UserID, c.Params("productId"), req.Quantity)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, cart)
}

func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	cart, err := h.service.RemoveItem(actor(c).UserID, c.Params("productId"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, cart)
}

func (h *CartHandler) HandleClear(c *fiber.Ctx) error {
	if err := h.service.Clear(actor(c).UserID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
