package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/restaurant-app/internal/audit"
	domain "github.com/BruksfildServices01/restaurant-app/internal/domain/account"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
)

type SetRole struct {
	users domain.Repository
	audit Auditor
}

func NewSetRole(
	users domain.Repository,
	auditor Auditor,
) *SetRole {
	return &SetRole{users: users, audit: auditorOrNop(auditor)}
}

// Promote and Demote are the two directions admins use.
func (uc *SetRole) Promote(ctx context.Context, actorID, userID uint) (*models.User, error) {
	return uc.Execute(ctx, actorID, userID, domain.RoleAdmin)
}

func (uc *SetRole) Demote(ctx context.Context, actorID, userID uint) (*models.User, error) {
	return uc.Execute(ctx, actorID, userID, domain.RoleCustomer)
}

func (uc *SetRole) Execute(
	ctx context.Context,
	actorID uint,
	userID uint,
	role domain.Role,
) (*models.User, error) {

	if _, err := domain.ParseRole(string(role)); err != nil {
		return nil, err
	}
	if err := domain.CanChangeRole(actorID, userID, role); err != nil {
		return nil, err
	}

	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("user_not_found")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	previous := u.Role
	if previous == string(role) {
		return u, nil
	}

	u.Role = string(role)
	if err := uc.users.Update(ctx, u); err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}

	action := "user_promoted"
	if role != domain.RoleAdmin {
		action = "user_demoted"
	}
	uc.audit.Dispatch(audit.Event{
		ActorID:  ptr(actorID),
		Action:   action,
		Entity:   "user",
		EntityID: ptr(u.ID),
		Metadata: map[string]string{"from": previous, "to": u.Role},
	})

	return u, nil
}
