package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	domain "github.com/BruksfildServices01/restaurant-app/internal/domain/account"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/logger"
	"github.com/BruksfildServices01/restaurant-app/internal/notify"
	"github.com/BruksfildServices01/restaurant-app/internal/otp"
)

// DeliveryPolicy decides what a failed OTP delivery means for the caller.
type DeliveryPolicy struct {
	// FailOpen keeps the code alive, logs it, and reports success.
	FailOpen bool
}

type OTPResult struct {
	Delivered bool
}

type RequestOTP struct {
	users    domain.Repository
	store    otp.Store
	notifier notify.Notifier
	policy   DeliveryPolicy
	log      *slog.Logger

	generate func() (string, error)
}

func NewRequestOTP(
	users domain.Repository,
	store otp.Store,
	notifier notify.Notifier,
	policy DeliveryPolicy,
	log *slog.Logger,
) *RequestOTP {
	if log == nil {
		log = slog.Default()
	}
	return &RequestOTP{
		users:    users,
		store:    store,
		notifier: notifier,
		policy:   policy,
		log:      log,
		generate: otp.Generate,
	}
}

func (uc *RequestOTP) Execute(
	ctx context.Context,
	email string,
) (*OTPResult, error) {

	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil, httperr.ErrBusiness("email_not_registered")
	}

	if _, err := uc.users.FindByEmail(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("email_not_registered")
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	code, err := uc.generate()
	if err != nil {
		return nil, err
	}

	if err := uc.store.Put(ctx, email, code); err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}

	log := logger.WithContext(ctx, uc.log)

	sendErr := uc.notifier.SendOTP(ctx, email, code)
	if sendErr == nil {
		return &OTPResult{Delivered: true}, nil
	}

	// --------------------------------------------------
	// Delivery failed
	// --------------------------------------------------
	if uc.policy.FailOpen {
		log.Warn("otp delivery failed, code logged instead",
			slog.String("email", email),
			slog.String("code", code),
			slog.Any("err", sendErr),
		)
		return &OTPResult{Delivered: false}, nil
	}

	if err := uc.store.Discard(ctx, email); err != nil {
		log.Error("discard undelivered otp failed", slog.String("email", email), slog.Any("err", err))
	}
	log.Error("otp delivery failed", slog.String("email", email), slog.Any("err", sendErr))
	return nil, httperr.ErrBusiness("otp_delivery_failed")
}
