package repositories

import (
	"care4pets/internal/models"
)

// ProductFilter narrows a catalog listing. Search matches the product name
// case-insensitively.
type ProductFilter struct {
	Category string
	Search   string
	InStock  bool
	Pagination
}

// ProductRepository is the catalog store.
type ProductRepository interface {
	List(filter ProductFilter) ([]models.Product, int64, error)
	GetByID(id string) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id string) error
	// AdjustStock adds delta to the stock, failing with ErrInsufficientStock
	// instead of going below zero.
	AdjustStock(id string, delta int) error
}
