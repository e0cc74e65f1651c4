package services

import "care4pets/internal/models"

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// owns reports whether the actor may see a record belonging to ownerID.
func (a Actor) owns(ownerID string) bool {
	return a.IsAdmin() || a.UserID == ownerID
}
