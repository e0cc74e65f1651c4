package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"care4pets/internal/apperrors"
	"care4pets/internal/events"
	"care4pets/internal/models"
	"care4pets/internal/repositories"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// CreateAppointmentInput is the body of a booking request.
type CreateAppointmentInput struct {
	PetID           string `json:"petId" validate:"required"`
	ServiceType     string `json:"serviceType" validate:"required,oneof=grooming bathing vaccination health_check spa"`
	AppointmentDate string `json:"appointmentDate" validate:"required,datetime=2006-01-02"`
	TimeSlot        string `json:"timeSlot" validate:"required"`
	Note            string `json:"note" validate:"max=500"`
}

// AppointmentService books and manages grooming and care appointments.
type AppointmentService struct {
	appointments repositories.AppointmentRepository
	pets         repositories.PetRepository
	publisher    events.Publisher
	capacity     int
	log          *zap.Logger
	now          func() time.Time
}

func NewAppointmentService(
	appointments repositories.AppointmentRepository,
	pets repositories.PetRepository,
	publisher events.Publisher,
	slotCapacity int,
	log *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		pets:         pets,
		publisher:    publisher,
		capacity:     slotCapacity,
		log:          log,
		now:          time.Now,
	}
}

// parseSlot checks an "HH:MM-HH:MM" slot and returns it in the zero-padded
// form used by models.TimeSlots, so "9:00-10:00" and "09:00-10:00" are the
// same slot.
func parseSlot(slot string) (string, error) {
	parts := strings.Split(slot, "-")
	if len(parts) != 2 {
		return "", fmt.Errorf("time slot must look like HH:MM-HH:MM")
	}
	start, err := time.Parse("15:04", strings.TrimSpace(parts[0]))
	if err != nil {
		return "", fmt.Errorf("invalid start time %q", parts[0])
	}
	end, err := time.Parse("15:04", strings.TrimSpace(parts[1]))
	if err != nil {
		return "", fmt.Errorf("invalid end time %q", parts[1])
	}
	if !start.Before(end) {
		return "", fmt.Errorf("time slot must start before it ends")
	}
	normalized := start.Format("15:04") + "-" + end.Format("15:04")
	for _, known := range models.TimeSlots {
		if known == normalized {
			return normalized, nil
		}
	}
	return "", fmt.Errorf("%s is not a bookable time slot", normalized)
}

// slotStarted reports whether slot on date has already begun at now.
func slotStarted(date, slot string, now time.Time) bool {
	start, err := time.ParseInLocation(dateLayout+" 15:04", date+" "+slot[:5], now.Location())
	if err != nil {
		return false
	}
	return !start.After(now)
}

func (s *AppointmentService) today() string {
	return s.now().Format(dateLayout)
}

// Create books a slot for one of the user's pets.
func (s *AppointmentService) Create(ctx context.Context, userID string, in CreateAppointmentInput) (*models.Appointment, error) {
	in.TimeSlot = strings.TrimSpace(in.TimeSlot)
	fields := map[string]string{}
	if _, err := time.Parse(dateLayout, in.AppointmentDate); err != nil {
		fields["appointmentDate"] = "Date must be in YYYY-MM-DD format"
	} else if in.AppointmentDate < s.today() {
		fields["appointmentDate"] = "Date cannot be in the past"
	}
	if slot, err := parseSlot(in.TimeSlot); err != nil {
		fields["timeSlot"] = err.Error()
	} else {
		in.TimeSlot = slot
		if fields["appointmentDate"] == "" && slotStarted(in.AppointmentDate, slot, s.now()) {
			fields["timeSlot"] = "This time slot has already started"
		}
	}
	if len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	pet, err := s.pets.GetByID(in.PetID)
	if err != nil {
		return nil, repoError(err, "Pet not found")
	}
	if pet.OwnerID != userID {
		return nil, apperrors.NotFound("Pet not found")
	}

	busy, err := s.appointments.HasActiveForPet(pet.ID, in.AppointmentDate, in.TimeSlot)
	if err != nil {
		return nil, repoError(err, "Appointment not found")
	}
	if busy {
		return nil, apperrors.Conflict(fmt.Sprintf("%s already has an appointment in this slot", pet.Name))
	}

	counts, err := s.appointments.CountActiveBySlot(in.AppointmentDate)
	if err != nil {
		return nil, repoError(err, "Appointment not found")
	}
	if counts[in.TimeSlot] >= int64(s.capacity) {
		return nil, apperrors.Conflict("This time slot is fully booked")
	}

	appointment := &models.Appointment{
		UserID:          userID,
		PetID:           pet.ID,
		ServiceType:     in.ServiceType,
		AppointmentDate: in.AppointmentDate,
		TimeSlot:        in.TimeSlot,
		Status:          models.AppointmentStatusPending,
		Note:            strings.TrimSpace(in.Note),
	}
	if err := s.appointments.Create(appointment); err != nil {
		return nil, repoError(err, "Appointment not found")
	}
	appointment.Pet = pet

	s.log.Info("Appointment booked",
		zap.String("appointment_id", appointment.ID),
		zap.String("date", appointment.AppointmentDate),
		zap.String("slot", appointment.TimeSlot))
	s.emit(ctx, events.AppointmentCreated, appointment, "")
	return appointment, nil
}

// Get returns an appointment visible to the actor.
func (s *AppointmentService) Get(actor Actor, id string) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(id)
	if err != nil {
		return nil, repoError(err, "Appointment not found")
	}
	if !actor.owns(appointment.UserID) {
		return nil, apperrors.NotFound("Appointment not found")
	}
	return appointment, nil
}

// List returns the user's appointments; an empty userID lists everyone's.
func (s *AppointmentService) List(userID, status, date string, p repositories.Pagination) ([]models.Appointment, int64, error) {
	if status != "" && !models.IsAppointmentStatus(status) {
		return nil, 0, apperrors.Validation(map[string]string{"status": "Invalid appointment status"})
	}
	items, total, err := s.appointments.List(repositories.AppointmentFilter{
		UserID:     userID,
		Status:     status,
		Date:       date,
		Pagination: p,
	})
	if err != nil {
		return nil, 0, repoError(err, "Appointments not found")
	}
	return items, total, nil
}

// Cancel lets the owner call off a booking that has not started.
func (s *AppointmentService) Cancel(ctx context.Context, actor Actor, id, reason string) (*models.Appointment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperrors.Validation(map[string]string{"reason": "Please give a reason for cancelling"})
	}
	appointment, err := s.Get(actor, id)
	if err != nil {
		return nil, err
	}
	if !models.CanTransitionAppointment(appointment.Status, models.AppointmentStatusCancelled) {
		return nil, apperrors.BadRequest(fmt.Sprintf("Appointment in status %s can no longer be cancelled", appointment.Status))
	}
	appointment.CancellationReason = reason
	return s.transition(ctx, appointment, models.AppointmentStatusCancelled, reason)
}

// UpdateStatus moves an appointment along its state machine on behalf of an admin.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id, status, note string) (*models.Appointment, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if !models.IsAppointmentStatus(status) {
		return nil, apperrors.Validation(map[string]string{"status": "Invalid appointment status"})
	}
	appointment, err := s.appointments.GetByID(id)
	if err != nil {
		return nil, repoError(err, "Appointment not found")
	}
	if !models.CanTransitionAppointment(appointment.Status, status) {
		return nil, apperrors.BadRequest(fmt.Sprintf("Cannot change appointment status from %s to %s", appointment.Status, status))
	}
	if status == models.AppointmentStatusCancelled {
		appointment.CancellationReason = strings.TrimSpace(note)
	}
	return s.transition(ctx, appointment, status, note)
}

func (s *AppointmentService) transition(ctx context.Context, appointment *models.Appointment, status, note string) (*models.Appointment, error) {
	now := s.now()
	prev := appointment.Status
	appointment.Status = status
	switch status {
	case models.AppointmentStatusCancelled:
		appointment.CancelledAt = &now
	case models.AppointmentStatusCompleted:
		appointment.CompletedAt = &now
	}
	if err := s.appointments.Update(appointment, prev); err != nil {
		return nil, repoError(err, "Appointment not found")
	}

	s.log.Info("Appointment status changed",
		zap.String("appointment_id", appointment.ID),
		zap.String("from", prev),
		zap.String("to", status))
	s.emit(ctx, events.AppointmentStatusChanged, appointment, note)
	return appointment, nil
}

func (s *AppointmentService) emit(ctx context.Context, eventType string, appointment *models.Appointment, note string) {
	events.Emit(ctx, s.publisher, s.log, events.Event{
		Type:      eventType,
		UserID:    appointment.UserID,
		SubjectID: appointment.ID,
		Reference: appointment.AppointmentDate + " " + appointment.TimeSlot,
		Status:    appointment.Status,
		Note:      note,
	})
}

// AvailableSlots reports the remaining capacity of every slot on date.
func (s *AppointmentService) AvailableSlots(date string) ([]models.SlotAvailability, error) {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, apperrors.Validation(map[string]string{"date": "Date must be in YYYY-MM-DD format"})
	}
	counts, err := s.appointments.CountActiveBySlot(date)
	if err != nil {
		return nil, repoError(err, "Appointments not found")
	}

	now := s.now()
	slots := make([]models.SlotAvailability, 0, len(models.TimeSlots))
	for _, slot := range models.TimeSlots {
		past := slotStarted(date, slot, now)
		booked := counts[slot]
		remaining := int64(s.capacity) - booked
		if remaining < 0 {
			remaining = 0
		}
		slots = append(slots, models.SlotAvailability{
			TimeSlot:  slot,
			Booked:    booked,
			Remaining: remaining,
			Available: remaining > 0 && !past,
		})
	}
	return slots, nil
}
