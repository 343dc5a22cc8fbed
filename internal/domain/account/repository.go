package account

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/restaurant-app/internal/models"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Repository interface {
	Create(ctx context.Context, u *models.User) error

	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// List returns every user when role is empty.
	List(ctx context.Context, role Role) ([]models.User, error)

	Update(ctx context.Context, u *models.User) error

	// Delete removes the user together with their orders and bookings.
	Delete(ctx context.Context, id uint) error
}
