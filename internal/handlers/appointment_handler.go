package handlers

import (
	"care4pets/internal/apperrors"
	"care4pets/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type AppointmentHandler struct {
	service  *services.AppointmentService
	validate *validator.Validate
}

func NewAppointmentHandler(service *services.AppointmentService, validate *validator.Validate) *AppointmentHandler {
	return &AppointmentHandler{service: service, validate: validate}
}

func (h *AppointmentHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	appointments := router.Group("/appointments", auth)
	appointments.Get("/available-slots", h.HandleAvailableSlots)
	appointments.Post("/", h.HandleCreate)
	appointments.Get("/", h.HandleList)
	appointments.Get("/:id", h.HandleGet)
	appointments.Post("/:id/cancel", h.HandleCancel)

	adminRoutes := router.Group("/admin/appointments", auth, admin)
	adminRoutes.Get("/", h.HandleListAll)
	adminRoutes.Patch("/:id/status", h.HandleUpdateStatus)
}

func (h *AppointmentHandler) HandleAvailableSlots(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return apperrors.Validation(map[string]string{"date": "date is required"})
	}
	slots, err := h.service.AvailableSlots(date)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, slots)
}

func (h *AppointmentHandler) HandleCreate(c *fiber.Ctx) error {
	var in services.CreateAppointmentInput
	if err := parse(c, h.validate, &in); err != nil {
		return err
	}
	appointment, err := h.service.Create(c.UserContext(), actor(c).UserID, in)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, appointment)
}

func (h *AppointmentHandler) HandleList(c *fiber.Ctx) error {
	p := pagination(c)
	items, total, err := h.service.List(actor(c).UserID, c.Query("status"), c.Query("date"), p)
	if err != nil {
		return err
	}
	return page(c, items, total, p)
}

func (h *AppointmentHandler) HandleGet(c *fiber.Ctx) error {
	appointment, err := h.service.Get(actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, appointment)
}

func (h *AppointmentHandler) HandleCancel(c *fiber.Ctx) error {
	var req cancelRequest
	if err := parse(c, h.validate, &req); err != nil {
		return err
	}
	appointment, err := h.service.Cancel(c.UserContext(), actor(c), c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, appointment)
}

func (h *AppointmentHandler) HandleListAll(c *fiber.Ctx) error {
	p := pagination(c)
	items, total, err := h.service.List("", c.Query("status"), c.Query("date"), p)
	if err != nil {
		return err
	}
	return page(c, items, total, p)
}

func (h *AppointmentHandler) HandleUpdateStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := parse(c, h.validate, &req); err != nil {
		return err
	}
	appointment, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status, req.Note)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, appointment)
}
