package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	domain "github.com/BruksfildServices01/restaurant-app/internal/domain/account"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
)

type LoginInput struct {
	Email    string
	Password string

	// RequireRole restricts the login to one role (admin console).
	RequireRole domain.Role
}

type Login struct {
	users domain.Repository
}

func NewLogin(users domain.Repository) *Login {
	return &Login{users: users}
}

// Execute answers invalid_credentials for every failure so callers cannot
// tell unknown emails from wrong passwords.
func (uc *Login) Execute(
	ctx context.Context,
	in LoginInput,
) (*models.User, error) {

	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, httperr.ErrBusiness("invalid_credentials")
	}

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("invalid_credentials")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, httperr.ErrBusiness("invalid_credentials")
	}

	if in.RequireRole != "" && domain.Role(user.Role) != in.RequireRole {
		return nil, httperr.ErrBusiness("invalid_credentials")
	}

	return user, nil
}
