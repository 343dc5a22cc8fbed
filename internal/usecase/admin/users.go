package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/BruksfildServices01/restaurant-app/internal/audit"
	domain "github.com/BruksfildServices01/restaurant-app/internal/domain/account"
	"github.com/BruksfildServices01/restaurant-app/internal/dto"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
	"github.com/BruksfildServices01/restaurant-app/internal/validators"
)

// UpdateUserInput leaves nil fields untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
}

type Users struct {
	users domain.Repository
	audit Auditor
}

func NewUsers(
	users domain.Repository,
	auditor Auditor,
) *Users {
	return &Users{users: users, audit: auditorOrNop(auditor)}
}

func (uc *Users) List(ctx context.Context, role string) ([]models.User, error) {
	var r domain.Role
	if strings.TrimSpace(role) != "" {
		parsed, err := domain.ParseRole(role)
		if err != nil {
			return nil, err
		}
		r = parsed
	}
	return uc.users.List(ctx, r)
}

func (uc *Users) Update(
	ctx context.Context,
	actorID uint,
	userID uint,
	in UpdateUserInput,
) (*models.User, error) {

	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("user_not_found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	var changed []string

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, httperr.ErrBusiness("invalid_name")
		}
		u.Name = name
		changed = append(changed, "name")
	}

	if in.Email != nil {
		email := domain.NormalizeEmail(*in.Email)
		if !validators.IsEmailFormatValid(email) {
			return nil, httperr.ErrBusiness("invalid_email")
		}
		if email != u.Email {
			if other, err := uc.users.FindByEmail(ctx, email); err == nil && other.ID != u.ID {
				return nil, httperr.ErrBusiness("email_already_registered")
			} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("lookup email: %w", err)
			}
			u.Email = email
			changed = append(changed, "email")
		}
	}

	if in.Password != nil {
		if *in.Password == "" {
			return nil, httperr.ErrBusiness("invalid_password")
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hashed)
		changed = append(changed, "password")
	}

	if len(changed) == 0 {
		return u, nil
	}

	if err := uc.users.Update(ctx, u); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, httperr.ErrBusiness("email_already_registered")
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  ptr(actorID),
		Action:   "user_updated",
		Entity:   "user",
		EntityID: ptr(u.ID),
		Metadata: map[string]any{"fields": changed},
	})
	return u, nil
}

func (uc *Users) Delete(
	ctx context.Context,
	actorID uint,
	userID uint,
) error {

	if err := domain.CanDelete(actorID, userID); err != nil {
		return err
	}

	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusiness("user_not_found")
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	if err := uc.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusiness("user_not_found")
		}
		return fmt.Errorf("delete user: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  ptr(actorID),
		Action:   "user_deleted",
		Entity:   "user",
		EntityID: ptr(u.ID),
		Metadata: map[string]string{"email": u.Email, "role": u.Role},
		Snapshot: dto.NewUserDTO(u),
	})
	return nil
}
