package models

import (
	"encoding/json"
	"time"
)

const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipping   = "shipping"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

const (
	PaymentMethodCOD          = "cod"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodEWallet      = "e_wallet"
	PaymentMethodCreditCard   = "credit_card"
)

const (
	PaymentStatusUnpaid               = "unpaid"
	PaymentStatusPending              = "pending"
	PaymentStatusAwaitingConfirmation = "awaiting_confirmation"
	PaymentStatusPaid                 = "paid"
	PaymentStatusRefunded             = "refunded"
)

// ShippingAddress is the delivery destination captured at checkout.
type ShippingAddress struct {
	FullName string `json:"fullName" gorm:"type:varchar(120)" validate:"notblank"`
	Phone    string `json:"phone" gorm:"type:varchar(20)" validate:"notblank,vnphone"`
	Address  string `json:"address" gorm:"type:varchar(255)" validate:"notblank"`
	Ward     string `json:"ward" gorm:"type:varchar(100)"`
	District string `json:"district" gorm:"type:varchar(100)"`
	City     string `json:"city" gorm:"type:varchar(100)"`
	Note     string `json:"note" gorm:"type:varchar(500)"`
}

// OrderItem is a product snapshot taken when the order was placed.
type OrderItem struct {
	ID        string `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string `json:"-" gorm:"type:varchar(36);index"`
	ProductID string `json:"productId" gorm:"type:varchar(36)"`
	Name      string `json:"name"`
	Price     int64  `json:"price"` // Price at the time of order
	Quantity  int    `json:"quantity"`
	Image     string `json:"image"`
}

// OrderStatusEntry is one append-only line of an order's timeline.
type OrderStatusEntry struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string    `json:"-" gorm:"type:varchar(36);index"`
	Status    string    `json:"status" gorm:"type:varchar(20)"`
	Note      string    `json:"note"`
	Timestamp time.Time `json:"timestamp" gorm:"column:changed_at"`
}

func (OrderStatusEntry) TableName() string {
	return "order_status_history"
}

// Order represents a customer order.
type Order struct {
	ID              string             `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber     string             `json:"orderNumber" gorm:"uniqueIndex;type:varchar(32)"`
	UserID          string             `json:"userId" gorm:"type:varchar(36);index"`
	Status          string             `json:"status" gorm:"type:varchar(20);index"`
	PaymentMethod   string             `json:"paymentMethod" gorm:"type:varchar(20)"`
	PaymentStatus   string             `json:"paymentStatus" gorm:"type:varchar(30);index"`
	Items           []OrderItem        `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress ShippingAddress    `json:"shippingAddress" gorm:"embedded;embeddedPrefix:shipping_"`
	Note            string             `json:"note"`
	Subtotal        int64              `json:"subtotal"`
	ShippingFee     int64              `json:"shippingFee"`
	Discount        int64              `json:"discount"`
	Total           int64              `json:"total"`
	StatusHistory   []OrderStatusEntry `json:"statusHistory" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CancelReason    string             `json:"cancelReason,omitempty"`
	PaidAt          *time.Time         `json:"paidAt,omitempty"`
	CancelledAt     *time.Time         `json:"cancelledAt,omitempty"`
	DeliveredAt     *time.Time         `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time          `json:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt"`
}

// CanCancel reports whether the customer may still cancel the order.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// AwaitsBankTransfer reports whether an admin still has to confirm a transfer.
func (o *Order) AwaitsBankTransfer() bool {
	if o.PaymentMethod != PaymentMethodBankTransfer || o.Status == OrderStatusCancelled {
		return false
	}
	return o.PaymentStatus == PaymentStatusPending || o.PaymentStatus == PaymentStatusAwaitingConfirmation
}

func (o Order) MarshalJSON() ([]byte, error) {
	type alias Order
	return json.Marshal(struct {
		alias
		CanCancel bool `json:"canCancel"`
	}{alias(o), o.CanCancel()})
}
