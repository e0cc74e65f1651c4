package repositories

import (
	"errors"
	"fmt"
	"time"

	"care4pets/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppointmentFilter narrows an appointment listing.
type AppointmentFilter struct {
	UserID string
	Status string
	Date   string
	Pagination
}

// AppointmentRepository defines the interface for appointment data access.
type AppointmentRepository interface {
	Create(appointment *models.Appointment) error
	GetByID(id string) (*models.Appointment, error)
	List(filter AppointmentFilter) ([]models.Appointment, int64, error)
	// Update writes status fields if the stored status still equals expectedStatus.
	Update(appointment *models.Appointment, expectedStatus string) error
	// CountActiveBySlot returns the number of non-cancelled bookings per time slot on date.
	CountActiveBySlot(date string) (map[string]int64, error)
	HasActiveForPet(petID, date, timeSlot string) (bool, error)
}

// GORMAppointmentRepository is a GORM implementation of AppointmentRepository.
type GORMAppointmentRepository struct {
	db *gorm.DB
}

func NewGORMAppointmentRepository(db *gorm.DB) *GORMAppointmentRepository {
	return &GORMAppointmentRepository{db: db}
}

func (f AppointmentFilter) scope(db *gorm.DB) *gorm.DB {
	if f.UserID != "" {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.Date != "" {
		db = db.Where("appointment_date = ?", f.Date)
	}
	return db
}

func (r *GORMAppointmentRepository) Create(appointment *models.Appointment) error {
	if appointment.ID == "" {
		appointment.ID = uuid.New().String()
	}
	if err := r.db.Omit("Pet").Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *GORMAppointmentRepository) GetByID(id string) (*models.Appointment, error) {
	var appointment models.Appointment
	if err := r.db.Preload("Pet").First(&appointment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("appointment %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get appointment %s: %w", id, err)
	}
	return &appointment, nil
}

func (r *GORMAppointmentRepository) List(filter AppointmentFilter) ([]models.Appointment, int64, error) {
	var total int64
	if err := r.db.Model(&models.Appointment{}).Scopes(filter.scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	appointments := make([]models.Appointment, 0)
	if total == 0 {
		return appointments, 0, nil
	}
	err := r.db.Scopes(filter.scope).
		Preload("Pet").
		Order("appointment_date DESC, time_slot ASC").
		Offset(filter.Offset()).
		Limit(filter.Limit).
		Find(&appointments).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, total, nil
}

func (r *GORMAppointmentRepository) Update(appointment *models.Appointment, expectedStatus string) error {
	appointment.UpdatedAt = time.Now()
	res := r.db.Model(&models.Appointment{}).
		Where("id = ? AND status = ?", appointment.ID, expectedStatus).
		Updates(map[string]interface{}{
			"status":              appointment.Status,
			"cancellation_reason": appointment.CancellationReason,
			"cancelled_at":        appointment.CancelledAt,
			"completed_at":        appointment.CompletedAt,
			"updated_at":          appointment.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update appointment %s: %w", appointment.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("appointment %s: %w", appointment.ID, ErrStaleUpdate)
	}
	return nil
}

func (r *GORMAppointmentRepository) CountActiveBySlot(date string) (map[string]int64, error) {
	var rows []struct {
		TimeSlot string
		Count    int64
	}
	err := r.db.Model(&models.Appointment{}).
		Select("time_slot, COUNT(*) AS count").
		Where("appointment_date = ? AND status <> ?", date, models.AppointmentStatusCancelled).
		Group("time_slot").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count appointments on %s: %w", date, err)
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.TimeSlot] = row.Count
	}
	return counts, nil
}

func (r *GORMAppointmentRepository) HasActiveForPet(petID, date, timeSlot string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Appointment{}).
		Where("pet_id = ? AND appointment_date = ? AND time_slot = ? AND status <> ?",
			petID, date, timeSlot, models.AppointmentStatusCancelled).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check pet bookings: %w", err)
	}
	return count > 0, nil
}
