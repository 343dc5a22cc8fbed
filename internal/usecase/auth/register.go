package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	domain "github.com/BruksfildServices01/restaurant-app/internal/domain/account"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
	"github.com/BruksfildServices01/restaurant-app/internal/validators"
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type Register struct {
	users       domain.Repository
	checkDomain validators.DomainChecker
}

func NewRegister(
	users domain.Repository,
	checkDomain validators.DomainChecker,
) *Register {
	if checkDomain == nil {
		checkDomain = validators.AcceptAnyDomain
	}
	return &Register{
		users:       users,
		checkDomain: checkDomain,
	}
}

func (uc *Register) Execute(
	ctx context.Context,
	in RegisterInput,
) (*models.User, error) {

	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)

	// --------------------------------------------------
	// Validation
	// --------------------------------------------------
	if email == "" || in.Password == "" {
		return nil, httperr.ErrBusiness("missing_fields")
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}
	if !validators.IsEmailFormatValid(email) {
		return nil, httperr.ErrBusiness("invalid_email")
	}

	// --------------------------------------------------
	// Uniqueness (the unique index still guards races)
	// --------------------------------------------------
	if _, err := uc.users.FindByEmail(ctx, email); err == nil {
		return nil, httperr.ErrBusiness("email_already_registered")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !uc.checkDomain(ctx, email) {
		return nil, httperr.ErrBusiness("invalid_email_domain")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         string(domain.RoleCustomer),
	}

	if err := uc.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, httperr.ErrBusiness("email_already_registered")
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}
