package handlers

import (
	"net/url"

	"care4pets/internal/apperrors"
	"care4pets/internal/gateways"
	"care4pets/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PaymentHandler serves bank transfer, e-wallet and admin verification endpoints.
type PaymentHandler struct {
	service  *services.PaymentService
	validate *validator.Validate
}

func NewPaymentHandler(service *services.PaymentService, validate *validator.Validate) *PaymentHandler {
	return &PaymentHandler{service: service, validate: validate}
}

// RegisterRoutes must run before the order routes so that
// /orders/awaiting-payment is not captured by /orders/:id.
func (h *PaymentHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	orders := router.Group("/orders")
	orders.Get("/awaiting-payment", auth, admin, h.HandleAwaitingPayment)
	orders.Post("/:id/qr-payment", auth, h.HandleQRPayment)
	orders.Post("/:id/confirm-transfer", auth, h.HandleConfirmTransfer)
	orders.Post("/:id/confirm-payment", auth, admin, h.HandleConfirmPayment)

	payments := router.Group("/payments")
	payments.Get("/e-wallets", auth, h.HandleEWallets)
	payments.Get("/vnpay/return", h.HandleVNPayReturn)
	payments.Post("/momo/ipn", h.HandleMoMoIPN)
	payments.Post("/:wallet/create-payment-url", auth, h.HandleCreatePaymentURL)
}

func (h *PaymentHandler) HandleQRPayment(c *fiber.Ctx) error {
	qr, err := h.service.QRPayment(c.UserContext(), actor(c).UserID, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, qr)
}

func (h *PaymentHandler) HandleConfirmTransfer(c *fiber.Ctx) error {
	order, err := h.service.ConfirmTransfer(c.UserContext(), actor(c).UserID, c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, order)
}

func (h *PaymentHandler) HandleAwaitingPayment(c *fiber.Ctx) error {
	p := pagination(c)
	orders, total, err := h.service.ListAwaitingPayment(p)
	if err != nil {
		return err
	}
	return page(c, orders, total, p)
}

type confirmPaymentRequest struct {
	Note string `json:"note" validate:"max=500"`
}

func (h *PaymentHandler) HandleConfirmPayment(c *fiber.Ctx) error {
	var req confirmPaymentRequest
	if len(c.Body()) > 0 {
		if err := parse(c, h.validate, &req); err != nil {
			return err
		}
	}
	order, err := h.service.ConfirmPayment(c.UserContext(), c.Params("id"), req.Note)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, order)
}

func (h *PaymentHandler) HandleEWallets(c *fiber.Ctx) error {
	return data(c, fiber.StatusOK, h.service.EWallets())
}

type paymentURLRequest struct {
	OrderID string `json:"orderId" validate:"required"`
}

func (h *PaymentHandler) HandleCreatePaymentURL(c *fiber.Ctx) error {
	var req paymentURLRequest
	if err := parse(c, h.validate, &req); err != nil {
		return err
	}
	paymentURL, err := h.service.CreatePaymentURL(c.UserContext(), actor(c).UserID, c.Params("wallet"), req.OrderID, c.IP())
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, fiber.Map{"paymentUrl": paymentURL})
}

// HandleVNPayReturn is where VNPay sends the browser back. The client renders
// the outcome from the JSON.
func (h *PaymentHandler) HandleVNPayReturn(c *fiber.Ctx) error {
	query, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return apperrors.BadRequest("Invalid callback query")
	}
	order, success, err := h.service.HandleVNPayReturn(c.UserContext(), query)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, fiber.Map{
		"success":       success,
		"orderId":       order.ID,
		"orderNumber":   order.OrderNumber,
		"paymentStatus": order.PaymentStatus,
	})
}

// HandleMoMoIPN acknowledges a verified MoMo notification with 204.
func (h *PaymentHandler) HandleMoMoIPN(c *fiber.Ctx) error {
	var ipn gateways.MoMoIPN
	if err := c.BodyParser(&ipn); err != nil {
		return apperrors.New(fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := h.service.HandleMoMoIPN(c.UserContext(), ipn); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
