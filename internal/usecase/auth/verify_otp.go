package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/BruksfildServices01/restaurant-app/internal/domain/account"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
	"github.com/BruksfildServices01/restaurant-app/internal/otp"
)

type VerifyOTP struct {
	users domain.Repository
	store otp.Store
}

func NewVerifyOTP(
	users domain.Repository,
	store otp.Store,
) *VerifyOTP {
	return &VerifyOTP{users: users, store: store}
}

func (uc *VerifyOTP) Execute(
	ctx context.Context,
	email string,
	code string,
) (*models.User, error) {

	email = domain.NormalizeEmail(email)
	code = strings.TrimSpace(code)
	if email == "" || len(code) != otp.CodeLength {
		return nil, httperr.ErrBusiness("invalid_otp")
	}

	ok, err := uc.store.Consume(ctx, email, code)
	if err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}
	if !ok {
		return nil, httperr.ErrBusiness("invalid_otp")
	}

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// account removed while the code was live
			return nil, httperr.ErrBusiness("invalid_otp")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	return user, nil
}
