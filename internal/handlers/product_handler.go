package handlers

import (
	"care4pets/internal/models"
	"care4pets/internal/repositories"
	"care4pets/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ProductHandler serves the catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

func NewProductHandler(service *services.ProductService, validate *validator.Validate) *ProductHandler {
	return &ProductHandler{service: service, validate: validate}
}

// RegisterRoutes exposes reads publicly; writes need an admin.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, auth, admin fiber.Handler) {
	products := router.Group("/products")
	products.Get("/", h.HandleGetProducts)
	products.Get("/:id", h.HandleGetProduct)
	products.Post("/", auth, admin, h.HandleCreateProduct)
	products.Put("/:id", auth, admin, h.HandleUpdateProduct)
	products.Delete("/:id", auth, admin, h.HandleDeleteProduct)
}

// HandleGetProducts lists the catalog, optionally narrowed by ?category,
// ?search and ?inStock=true.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	p := pagination(c)
	products, total, err := h.service.ListProducts(repositories.ProductFilter{
		Category:   c.Query("category"),
		Search:     c.Query("search"),
		InStock:    c.QueryBool("inStock"),
		Pagination: p,
	})
	if err != nil {
		return err
	}
	return page(c, products, total, p)
}

func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductByID(c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, fiber.StatusOK, product)
}

func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := parse(c, h.validate, &product); err != nil {
		return err
	}
	product.ID = ""
	if err := h.service.CreateProduct(&product); err != nil {
		return err
	}
	return data(c, fiber.StatusCreated, product)
}

func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := parse(c, h.validate, &product); err != nil {
		return err
	}
	product.ID = c.Params("id")
	if err := h.service.UpdateProduct(&product); err != nil {
		return err
	}
	return data(c, fiber.StatusOK, product)
}

func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	if err := h.service.DeleteProduct(c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
