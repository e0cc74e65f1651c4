package handlers

import (
	"care4pets/internal/models"
	"care4pets/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PetHandler serves pets and their nested vaccination and medical records.
type PetHandler struct {
	service  *services.PetService
	validate *validator.Validate
}

func NewPetHandler(service *services.PetService, validate *validator.Validate) *PetHandler {
	return &PetHandler{service: service, validate: validate}
}

func (h *PetHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	pets := router.Group("/pets", auth)
	pets.Get("/", h.HandleList)
	pets.Post("/", h.HandleCreate)
	pets.Get("/:id", h.HandleGet)
	pets.Put("/:id", h.HandleUpdate)
	pets.Delete("/:id", h.HandleDelete)

	pets.Get("/:id/vaccinations", h.HandleListVaccinations)
	pets.Post("/:id/vaccinations", h.HandleAddVaccination)
	pets.Put("/:id/vaccinations/:recordId", h.HandleUpdateVaccination)
	pets.Delete("/:id/vaccinations/:recordId", h.HandleDeleteVaccination)

	pets.Get("/:id/medical-history", h.HandleListMedicalHistory)
	pets.Post("/:id/medical-history", h.HandleAddMedicalRecord)
	pets.Put("/:id/medical-history/:recordId", h.HandleUpdateMedicalRecord)
	pets.Delete("/:id/medical-history/:recordId", h.HandleDeleteMedicalRecord)
}

func (h *PetHandler) HandleList(c *fiber.Ctx) error {
	pets, err := h.service.List(actor(c).UserID)
	if err != nil {
		return err
	}
	if pets == nil {
		pets = []models.Pet{}
	}
	return data(c, fiber.StatusOK, pets)
}

func (h *PetHandler) HandleCreate(c *fiber.Ctx) error {
	var pet models.Pet
	if err := parse(c, h.validate, &pet); err != nil {
		return err
	}
	if err := h.service.Create(actor(c).UserID, &pet); err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, pet)
}

func (h *PetHandler) HandleGet(c *fiber.Ctx) error {
	pet, err := h.service.Get(actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, pet)
}

func (h *PetHandler) HandleUpdate(c *fiber.Ctx) error {
	var changes models.Pet
	if err := parse(c, h.validate, &changes); err != nil {
		return err
	}
	pet, err := h.service.Update(actor(c), c.Params("id"), &changes)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, pet)
}

func (h *PetHandler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(actor(c), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PetHandler) HandleListVaccinations(c *fiber.Ctx) error {
	items, err := h.service.ListVaccinations(actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, items)
}

func (h *PetHandler) HandleAddVaccination(c *fiber.Ctx) error {
	var v models.Vaccination
	if err := parse(c, h.validate, &v); err != nil {
		return err
	}
	if err := h.service.AddVaccination(actor(c), c.Params("id"), &v); err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, v)
}

func (h *PetHandler) HandleUpdateVaccination(c *fiber.Ctx) error {
	var changes models.Vaccination
	if err := parse(c, h.validate, &changes); err != nil {
		return err
	}
	v, err := h.service.UpdateVaccination(actor(c), c.Params("id"), c.Params("recordId"), &changes)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, v)
}

func (h *PetHandler) HandleDeleteVaccination(c *fiber.Ctx) error {
	if err := h.service.DeleteVaccination(actor(c), c.Params("id"), c.Params("recordId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PetHandler) HandleListMedicalHistory(c *fiber.Ctx) error {
	items, err := h.service.ListMedicalHistory(actor(c), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, items)
}

func (h *PetHandler) HandleAddMedicalRecord(c *fiber.Ctx) error {
	var m models.MedicalRecord
	if err := parse(c, h.validate, &m); err != nil {
		return err
	}
	if err := h.service.AddMedicalRecord(actor(c), c.Params("id"), &m); err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, m)
}

func (h *PetHandler) HandleUpdateMedicalRecord(c *fiber.Ctx) error {
	var changes models.MedicalRecord
	if err := parse(c, h.validate, &changes); err != nil {
		return err
	}
	m, err := h.service.UpdateMedicalRecord(actor(c), c.Params("id"), c.Params("recordId"), &changes)
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, m)
}

func (h *PetHandler) HandleDeleteMedicalRecord(c *fiber.Ctx) error {
	if err := h.service.DeleteMedicalRecord(actor(c), c.Params("id"), c.Params("recordId")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
