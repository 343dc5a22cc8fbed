package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/BruksfildServices01/restaurant-app/internal/audit"
	domain "github.com/BruksfildServices01/restaurant-app/internal/domain/order"
	"github.com/BruksfildServices01/restaurant-app/internal/events"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
)

type CompleteOrder struct {
	repo      domain.Repository
	audit     Auditor
	publisher events.Publisher
	log       *slog.Logger
}

func NewCompleteOrder(
	repo domain.Repository,
	auditor Auditor,
	publisher events.Publisher,
	log *slog.Logger,
) *CompleteOrder {
	return &CompleteOrder{
		repo:      repo,
		audit:     auditorOrNop(auditor),
		publisher: publisher,
		log:       log,
	}
}

func (uc *CompleteOrder) Execute(
	ctx context.Context,
	actorID uint,
	orderID uint,
) (*models.Order, error) {

	o, err := uc.repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrBusiness("order_not_found")
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	if err := domain.CanComplete(domain.Status(o.Status)); err != nil {
		return nil, err
	}

	o.Status = string(domain.StatusCompleted)
	if err := uc.repo.UpdateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  ptr(actorID),
		Action:   "order_completed",
		Entity:   "order",
		EntityID: ptr(o.ID),
	})
	notify(ctx, uc.publisher, uc.log, events.OrderCompleted, events.OrderStatusEvent{
		OrderID: o.ID,
		ActorID: actorID,
		At:      time.Now().UTC(),
	})

	return o, nil
}

func notify(ctx context.Context, p events.Publisher, log *slog.Logger, subject string, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, subject, data); err != nil && log != nil {
		log.Warn("event publish failed", slog.String("subject", subject), slog.Any("err", err))
	}
}
