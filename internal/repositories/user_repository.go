package repositories

import "care4pets/internal/models"

// UserRepository is the account store. Lookups return ErrNotFound when no
// account matches.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
	// UpdateProfile writes the contact fields a customer may edit themselves.
	UpdateProfile(user *models.User) error
}
