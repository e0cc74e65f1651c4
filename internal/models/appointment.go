package models

import "time"

const (
	AppointmentStatusPending    = "pending"
	AppointmentStatusConfirmed  = "confirmed"
	AppointmentStatusInProgress = "in_progress"
	AppointmentStatusCompleted  = "completed"
	AppointmentStatusCancelled  = "cancelled"
)

const (
	ServiceGrooming    = "grooming"
	ServiceBathing     = "bathing"
	ServiceVaccination = "vaccination"
	ServiceHealthCheck = "health_check"
	ServiceSpa         = "spa"
)

// ServiceTypes lists the bookable service categories.
var ServiceTypes = []string{ServiceGrooming, ServiceBathing, ServiceVaccination, ServiceHealthCheck, ServiceSpa}

// TimeSlots are the bookable slots of a day.
var TimeSlots = []string{
	"08:00-09:00", "09:00-10:00", "10:00-11:00", "11:00-12:00",
	"13:30-14:30", "14:30-15:30", "15:30-16:30", "16:30-17:30",
}

// Appointment is a booked service for one pet on a date and time slot.
type Appointment struct {
	ID                 string     `json:"_id" gorm:"primaryKey;type:varchar(36)"`
	UserID             string     `json:"userId" gorm:"type:varchar(36);index"`
	PetID              string     `json:"petId" gorm:"type:varchar(36);index"`
	Pet                *Pet       `json:"pet,omitempty" gorm:"foreignKey:PetID"`
	ServiceType        string     `json:"serviceType" gorm:"type:varchar(30)"`
	AppointmentDate    string     `json:"appointmentDate" gorm:"type:varchar(10);index:idx_appointment_slot"`
	TimeSlot           string     `json:"timeSlot" gorm:"type:varchar(11);index:idx_appointment_slot"`
	Status             string     `json:"status" gorm:"type:varchar(20);index"`
	Note               string     `json:"note"`
	CancellationReason string     `json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `json:"cancelledAt,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

// SlotAvailability is the remaining capacity of one time slot.
type SlotAvailability struct {
	TimeSlot  string `json:"timeSlot"`
	Booked    int64  `json:"booked"`
	Remaining int64  `json:"remaining"`
	Available bool   `json:"available"`
}
