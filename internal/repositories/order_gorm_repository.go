package repositories

import (
	"errors"
	"fmt"
	"time"

	"care4pets/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (f OrderFilter) scope(db *gorm.DB) *gorm.DB {
	if f.UserID != "" {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.AwaitingTransfer {
		db = db.Where("payment_method = ? AND payment_status IN ? AND status <> ?",
			models.PaymentMethodBankTransfer,
			[]string{models.PaymentStatusPending, models.PaymentStatusAwaitingConfirmation},
			models.OrderStatusCancelled)
	}
	return db
}

func preloadTimeline(db *gorm.DB) *gorm.DB {
	return db.Order("changed_at ASC")
}

func (r *GORMOrderRepository) List(filter OrderFilter) ([]models.Order, int64, error) {
	var total int64
	if err := r.db.Model(&models.Order{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}
	orders := make([]models.Order, 0)
	if total == 0 {
		return orders, 0, nil
	}

	err := r.db.Scopes(filter.scope).
		Preload("Items").
		Preload("StatusHistory", preloadTimeline).
		Order("created_at DESC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	return r.first("id = ?", id)
}

func (r *GORMOrderRepository) GetByOrderNumber(orderNumber string) (*models.Order, error) {
	return r.first("order_number = ?", orderNumber)
}

func (r *GORMOrderRepository) first(query, arg string) (*models.Order, error) {
	var order models.Order
	err := r.db.Preload("Items").Preload("StatusHistory", preloadTimeline).First(&order, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", arg, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", arg, err)
	}
	return &order, nil
}

func (r *GORMOrderRepository) Create(order *models.Order) error {
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

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return fmt.Errorf("failed to reserve stock for %s: %w", item.ProductID, res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("product %s: %w", item.ProductID, ErrInsufficientStock)
			}
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		return nil
	})
}

func (r *GORMOrderRepository) Update(order *models.Order, guard OrderGuard, entry *models.OrderStatusEntry, restock bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.Order{}).Where("id = ?", order.ID)
		if guard.Status != "" {
			q = q.Where("status = ?", guard.Status)
		}
		if guard.PaymentStatus != "" {
			q = q.Where("payment_status = ?", guard.PaymentStatus)
		}
		order.UpdatedAt = time.Now()
		res := q.Updates(map[string]interface{}{
			"status":         order.Status,
			"payment_status": order.PaymentStatus,
			"cancel_reason":  order.CancelReason,
			"paid_at":        order.PaidAt,
			"cancelled_at":   order.CancelledAt,
			"delivered_at":   order.DeliveredAt,
			"updated_at":     order.UpdatedAt,
		})
		if res.Error != nil {
			return fmt.Errorf("failed to update order %s: %w", order.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %s: %w", order.ID, ErrStaleUpdate)
		}

		if entry != nil {
			entry.ID = uuid.New().String()
			entry.OrderID = order.ID
			if err := tx.Create(entry).Error; err != nil {
				return fmt.Errorf("failed to append order history: %w", err)
			}
			order.StatusHistory = append(order.StatusHistory, *entry)
		}

		if restock {
			for _, item := range order.Items {
				err := tx.Model(&models.Product{}).
					Where("id = ?", item.ProductID).
					UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error
				if err != nil {
					return fmt.Errorf("failed to restock %s: %w", item.ProductID, err)
				}
			}
		}
		return nil
	})
}
