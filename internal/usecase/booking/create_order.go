package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/restaurant-app/internal/domain/order"
	"github.com/BruksfildServices01/restaurant-app/internal/events"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/logger"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
)

type CreateOrderInput struct {
	Items           []models.OrderItem
	Total           float64
	Method          string
	Address         string
	SpecialRequests string
}

type CreateOrder struct {
	repo      domain.Repository
	publisher events.Publisher
	log       *slog.Logger
}

func NewCreateOrder(
	repo domain.Repository,
	publisher events.Publisher,
	log *slog.Logger,
) *CreateOrder {
	return &CreateOrder{repo: repo, publisher: publisher, log: log}
}

func (uc *CreateOrder) Execute(
	ctx context.Context,
	customerID uint,
	in CreateOrderInput,
) (*models.Order, error) {

	if customerID == 0 {
		return nil, httperr.ErrBusiness("login_required")
	}
	if in.Total < 0 {
		return nil, httperr.ErrBusiness("invalid_total")
	}
	for _, it := range in.Items {
		if it.Quantity < 0 || it.Price < 0 {
			return nil, httperr.ErrBusiness("invalid_items")
		}
	}

	method := strings.TrimSpace(in.Method)
	if method == "" {
		method = domain.DefaultMethod
	}

	o := &models.Order{
		CustomerID:      customerID,
		Items:           in.Items,
		Total:           in.Total,
		Method:          method,
		Address:         strings.TrimSpace(in.Address),
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		Status:          string(domain.InitialStatus()),
	}
	if o.Items == nil {
		o.Items = []models.OrderItem{}
	}

	if err := uc.repo.CreateOrder(ctx, o); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	publish(ctx, uc.publisher, uc.log, events.OrderCreated, events.OrderCreatedEvent{
		OrderID:    o.ID,
		CustomerID: customerID,
		Total:      o.Total,
		Method:     o.Method,
		Items:      len(o.Items),
		CreatedAt:  o.CreatedAt,
	})

	return o, nil
}

// publish is fire-and-forget: the record is already committed.
func publish(ctx context.Context, p events.Publisher, log *slog.Logger, subject string, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, subject, data); err != nil {
		logger.WithContext(ctx, log).Warn("event publish failed",
			slog.String("subject", subject),
			slog.Any("err", err),
		)
	}
}

func nowUTC() time.Time { return time.Now().UTC() }
