package repositories

import (
	"errors"
	"fmt"

	"care4pets/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment attempt records.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByReference(gateway, reference string) (*models.Payment, error)
	ListByOrder(orderID string) ([]models.Payment, error)
	Update(payment *models.Payment) error
}

// GORMPaymentRepository is a GORM implementation of PaymentRepository.
type GORMPaymentRepository struct {
	db *gorm.DB
}

func NewGORMPaymentRepository(db *gorm.DB) *GORMPaymentRepository {
	return &GORMPaymentRepository{db: db}
}

func (r *GORMPaymentRepository) Create(payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	if err := r.db.Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

func (r *GORMPaymentRepository) GetByReference(gateway, reference string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.Where("gateway = ? AND reference = ?", gateway, reference).Order("created_at DESC").First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("payment %s/%s: %w", gateway, reference, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get payment %s/%s: %w", gateway, reference, err)
	}
	return &payment, nil
}

func (r *GORMPaymentRepository) ListByOrder(orderID string) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Where("order_id = ?", orderID).Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments for order %s: %w", orderID, err)
	}
	return payments, nil
}

func (r *GORMPaymentRepository) Update(payment *models.Payment) error {
	res := r.db.Model(&models.Payment{}).Where("id = ?", payment.ID).Updates(map[string]interface{}{
		"status":                 payment.Status,
		"amount":                 payment.Amount,
		"payment_url":            payment.PaymentURL,
		"gateway_transaction_id": payment.GatewayTransactionID,
		"paid_at":                payment.PaidAt,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update payment %s: %w", payment.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("payment %s: %w", payment.ID, ErrNotFound)
	}
	return nil
}
