package models

import "time"

const (
	NotificationOrder       = "order"
	NotificationPayment     = "payment"
	NotificationAppointment = "appointment"
)

// Notification is an in-app message shown in the user's notification bell.
type Notification struct {
	ID        string    `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"userId" gorm:"type:varchar(36);index"`
	Type      string    `json:"type" gorm:"type:varchar(20)"`
	Title     string    `json:"title" gorm:"type:varchar(200)"`
	Message   string    `json:"message" gorm:"type:varchar(1000)"`
	Link      string    `json:"link" gorm:"type:varchar(255)"`
	Read      bool      `json:"read" gorm:"column:is_read;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// AllModels is the set of tables managed by migrations.
func AllModels() []interface{} {
	return []interface{}{
		&User{}, &Product{}, &CartItem{},
		&Order{}, &OrderItem{}, &OrderStatusEntry{}, &Payment{},
		&Pet{}, &Vaccination{}, &MedicalRecord{}, &Appointment{},
		&Notification{},
	}
}
