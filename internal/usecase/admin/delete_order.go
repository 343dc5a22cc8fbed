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
)

type DeleteOrder struct {
	repo      domain.Repository
	audit     Auditor
	publisher events.Publisher
	log       *slog.Logger
}

func NewDeleteOrder(
	repo domain.Repository,
	auditor Auditor,
	publisher events.Publisher,
	log *slog.Logger,
) *DeleteOrder {
	return &DeleteOrder{
		repo:      repo,
		audit:     auditorOrNop(auditor),
		publisher: publisher,
		log:       log,
	}
}

func (uc *DeleteOrder) Execute(
	ctx context.Context,
	actorID uint,
	orderID uint,
) error {

	o, err := uc.repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusiness("order_not_found")
		}
		return fmt.Errorf("get order: %w", err)
	}

	if err := uc.repo.DeleteOrder(ctx, orderID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrBusiness("order_not_found")
		}
		return fmt.Errorf("delete order: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  ptr(actorID),
		Action:   "order_deleted",
		Entity:   "order",
		EntityID: ptr(o.ID),
		Metadata: map[string]any{"customer_id": o.CustomerID, "total": o.Total, "status": o.Status},
		Snapshot: o,
	})
	notify(ctx, uc.publisher, uc.log, events.OrderDeleted, events.OrderStatusEvent{
		OrderID: o.ID,
		ActorID: actorID,
		At:      time.Now().UTC(),
	})

	return nil
}
