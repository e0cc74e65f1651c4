package services

import "time"

// SetClock replaces the time source of the appointment service.
func (s *AppointmentService) SetClock(now func() time.Time) {
	s.now = now
}
