package account

import (
	"strings"

	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
)

// ===============================
// Roles
// ===============================

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", httperr.ErrBusiness("invalid_role")
}

// Home is where a freshly authenticated user of this role lands.
func (r Role) Home() string {
	if r == RoleAdmin {
		return "/admin/dashboard"
	}
	return "/customer/"
}

// ===============================
// Guards
// ===============================

// CanChangeRole blocks an admin from removing their own admin role.
func CanChangeRole(actorID, targetID uint, to Role) error {
	if actorID == targetID && to != RoleAdmin {
		return httperr.ErrBusiness("cannot_demote_self")
	}
	return nil
}

func CanDelete(actorID, targetID uint) error {
	if actorID == targetID {
		return httperr.ErrBusiness("cannot_delete_self")
	}
	return nil
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
