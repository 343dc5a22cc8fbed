package booking

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domain "github.com/BruksfildServices01/restaurant-app/internal/domain/order"
	"github.com/BruksfildServices01/restaurant-app/internal/events"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
)

type EventInput struct {
	Name      string
	Email     string
	EventType string
	Guests    int
	Date      string
	Message   string
}

type ReserveEvent struct {
	repo      domain.Repository
	publisher events.Publisher
	log       *slog.Logger
}

func NewReserveEvent(
	repo domain.Repository,
	publisher events.Publisher,
	log *slog.Logger,
) *ReserveEvent {
	return &ReserveEvent{repo: repo, publisher: publisher, log: log}
}

func (uc *ReserveEvent) Execute(
	ctx context.Context,
	customerID uint,
	in EventInput,
) (*models.Event, error) {

	if customerID == 0 {
		return nil, httperr.ErrBusiness("login_required")
	}
	if in.Guests < 0 {
		return nil, httperr.ErrBusiness("invalid_guests")
	}

	e := &models.Event{
		CustomerID: customerID,
		Name:       orDefault(in.Name, anonymousName),
		Email:      strings.TrimSpace(in.Email),
		EventType:  strings.TrimSpace(in.EventType),
		Guests:     in.Guests,
		Date:       strings.TrimSpace(in.Date),
		Message:    strings.TrimSpace(in.Message),
	}

	if err := uc.repo.CreateEvent(ctx, e); err != nil {
		return nil, fmt.Errorf("create event reservation: %w", err)
	}

	publish(ctx, uc.publisher, uc.log, events.EventReserved, events.BookingEvent{
		BookingID:  e.ID,
		CustomerID: customerID,
		Kind:       "event",
		Date:       e.Date,
		Guests:     e.Guests,
		CreatedAt:  nowUTC(),
	})

	return e, nil
}
