package models

import "strings"

var orderTransitions = map[string][]string{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled, OrderStatusRefunded},
	OrderStatusProcessing: {OrderStatusShipping, OrderStatusRefunded},
	OrderStatusShipping:   {OrderStatusDelivered, OrderStatusRefunded},
	OrderStatusDelivered:  {OrderStatusRefunded},
	OrderStatusCancelled:  {OrderStatusRefunded},
}

var orderStatusAliases = map[string]string{
	"in_progress": OrderStatusShipping,
	"shipped":     OrderStatusShipping,
	"completed":   OrderStatusDelivered,
	"canceled":    OrderStatusCancelled,
}

// NormalizeOrderStatus maps accepted aliases onto canonical order statuses.
func NormalizeOrderStatus(status string) string {
	status = strings.ToLower(strings.TrimSpace(status))
	if canonical, ok := orderStatusAliases[status]; ok {
		return canonical
	}
	return status
}

// IsOrderStatus reports whether status is a canonical order status.
func IsOrderStatus(status string) bool {
	if status == OrderStatusRefunded {
		return true
	}
	_, ok := orderTransitions[status]
	return ok
}

// CanTransitionOrder reports whether an order may move from one status to another.
func CanTransitionOrder(from, to string) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

var appointmentTransitions = map[string][]string{
	AppointmentStatusPending:    {AppointmentStatusConfirmed, AppointmentStatusCancelled},
	AppointmentStatusConfirmed:  {AppointmentStatusInProgress, AppointmentStatusCancelled},
	AppointmentStatusInProgress: {AppointmentStatusCompleted},
}

// IsAppointmentStatus reports whether status is a known appointment status.
func IsAppointmentStatus(status string) bool {
	switch status {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusInProgress,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// CanTransitionAppointment reports whether an appointment may move between statuses.
func CanTransitionAppointment(from, to string) bool {
	for _, next := range appointmentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
