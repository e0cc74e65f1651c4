package repositories

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"care4pets/internal/models"

	"github.com/google/uuid"
)

// MockOrderRepository is an in-memory implementation of OrderRepository.
// Stock is reserved against the given product repository when one is set.
type MockOrderRepository struct {
	orders   map[string]models.Order
	products *MockProductRepository
	mu       sync.RWMutex
}

func NewMockOrderRepository(products *MockProductRepository) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[string]models.Order),
		products: products,
	}
}

func (r *MockOrderRepository) List(filter OrderFilter) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Order, 0)
	for _, order := range r.orders {
		if filter.UserID != "" && order.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if filter.AwaitingTransfer && !order.AwaitsBankTransfer() {
			continue
		}
		matched = append(matched, order)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	start, end := filter.window(len(matched))
	return matched[start:end], int64(len(matched)), nil
}

func (r *MockOrderRepository) GetByID(id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return &order, nil
}

func (r *MockOrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.orders {
		if order.OrderNumber == orderNumber {
			return &order, nil
		}
	}
	return nil, fmt.Errorf("order %s: %w", orderNumber, ErrNotFound)
}

func (r *MockOrderRepository) Create(order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.products != nil {
		for i, item := range order.Items {
			if err := r.products.AdjustStock(item.ProductID, -item.Quantity); err != nil {
				for _, done := range order.Items[:i] {
					_ = r.products.AdjustStock(done.ProductID, done.Quantity)
				}
				return err
			}
		}
	}

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		order.Items[i].ID = uuid.New().String()
		order.Items[i].OrderID = order.ID
	}
	for i := range order.StatusHistory {
		order.StatusHistory[i].ID = uuid.New().String()
		order.StatusHistory[i].OrderID = order.ID
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	order.UpdatedAt = order.CreatedAt
	r.orders[order.ID] = cloneOrder(*order)
	return nil
}

func (r *MockOrderRepository) Update(order *models.Order, guard OrderGuard, entry *models.OrderStatusEntry, restock bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return fmt.Errorf("order %s: %w", order.ID, ErrNotFound)
	}
	if (guard.Status != "" && stored.Status != guard.Status) ||
		(guard.PaymentStatus != "" && stored.PaymentStatus != guard.PaymentStatus) {
		return fmt.Errorf("order %s: %w", order.ID, ErrStaleUpdate)
	}

	stored.Status = order.Status
	stored.PaymentStatus = order.PaymentStatus
	stored.CancelReason = order.CancelReason
	stored.PaidAt = order.PaidAt
	stored.CancelledAt = order.CancelledAt
	stored.DeliveredAt = order.DeliveredAt
	stored.UpdatedAt = time.Now()
	if entry != nil {
		entry.ID = uuid.New().String()
		entry.OrderID = order.ID
		stored.StatusHistory = append(stored.StatusHistory, *entry)
	}
	if restock && r.products != nil {
		for _, item := range stored.Items {
			_ = r.products.AdjustStock(item.ProductID, item.Quantity)
		}
	}
	r.orders[order.ID] = stored

	order.UpdatedAt = stored.UpdatedAt
	order.StatusHistory = append([]models.OrderStatusEntry(nil), stored.StatusHistory...)
	return nil
}

func cloneOrder(order models.Order) models.Order {
	order.Items = append([]models.OrderItem(nil), order.Items...)
	order.StatusHistory = append([]models.OrderStatusEntry(nil), order.StatusHistory...)
	return order
}
