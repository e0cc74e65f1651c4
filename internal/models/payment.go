package models

import "time"

const (
	GatewayBankTransfer = "bank_transfer"
	GatewayVNPay        = "vnpay"
	GatewayMoMo         = "momo"
	GatewayZaloPay      = "zalopay"
)

const (
	PaymentRecordPending   = "pending"
	PaymentRecordSucceeded = "succeeded"
	PaymentRecordFailed    = "failed"
)

// Payment records one payment attempt for an order through a given gateway.
type Payment struct {
	ID                   string     `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	OrderID              string     `json:"orderId" gorm:"type:varchar(36);index"`
	UserID               string     `json:"userId" gorm:"type:varchar(36);index"`
	Gateway              string     `json:"gateway" gorm:"type:varchar(20)"`
	Amount               int64      `json:"amount"`
	Status               string     `json:"status" gorm:"type:varchar(20)"`
	Reference            string     `json:"reference" gorm:"type:varchar(100);index"`
	PaymentURL           string     `json:"paymentUrl,omitempty" gorm:"type:varchar(2048)"`
	GatewayTransactionID string     `json:"gatewayTransactionId,omitempty" gorm:"type:varchar(100)"`
	PaidAt               *time.Time `json:"paidAt,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}
