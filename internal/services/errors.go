package services

import (
	"errors"
	"net/http"

	"care4pets/internal/apperrors"
	"care4pets/internal/repositories"
)

// repoError turns a repository error into the application error a caller
// should see. Errors that are already *apperrors.Error pass through.
func repoError(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		return apperrors.NotFound(notFound)
	case errors.Is(err, repositories.ErrStaleUpdate):
		return apperrors.New(http.StatusConflict, "The record was changed by someone else, please reload and retry", err)
	case errors.Is(err, repositories.ErrInsufficientStock):
		return apperrors.New(http.StatusBadRequest, "Not enough stock for one of the products", err)
	}
	return apperrors.Internal("Internal server error", err)
}
