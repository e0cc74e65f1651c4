package repositories

import (
	"care4pets/internal/models"
)

// OrderFilter narrows an order listing. Zero values mean "no constraint".
type OrderFilter struct {
	UserID           string
	Status           string
	AwaitingTransfer bool
	Pagination
}

// OrderGuard is the state an order must still be in for a conditional update to apply.
type OrderGuard struct {
	Status        string
	PaymentStatus string
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	List(filter OrderFilter) ([]models.Order, int64, error)
	GetByID(id string) (*models.Order, error)
	GetByOrderNumber(orderNumber string) (*models.Order, error)
	// Create persists the order with its items and history and reserves stock
	// for every item, failing with ErrInsufficientStock without side effects.
	Create(order *models.Order) error
	// Update writes the order's mutable fields if it still matches guard,
	// appends entry to the timeline when non-nil and returns item stock when
	// restock is set. A guard mismatch yields ErrStaleUpdate.
	Update(order *models.Order, guard OrderGuard, entry *models.OrderStatusEntry, restock bool) error
}
