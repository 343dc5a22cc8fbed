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

const anonymousName = "Anonymous"

type PrivateRoomInput struct {
	Name    string
	Email   string
	Date    string
	Time    string
	Message string
}

type BookPrivateRoom struct {
	repo      domain.Repository
	publisher events.Publisher
	log       *slog.Logger
}

func NewBookPrivateRoom(
	repo domain.Repository,
	publisher events.Publisher,
	log *slog.Logger,
) *BookPrivateRoom {
	return &BookPrivateRoom{repo: repo, publisher: publisher, log: log}
}

func (uc *BookPrivateRoom) Execute(
	ctx context.Context,
	customerID uint,
	in PrivateRoomInput,
) (*models.PrivateRoom, error) {

	if customerID == 0 {
		return nil, httperr.ErrBusiness("login_required")
	}

	b := &models.PrivateRoom{
		CustomerID: customerID,
		Name:       orDefault(in.Name, anonymousName),
		Email:      strings.TrimSpace(in.Email),
		Date:       strings.TrimSpace(in.Date),
		Time:       strings.TrimSpace(in.Time),
		Message:    strings.TrimSpace(in.Message),
	}

	if err := uc.repo.CreatePrivateRoom(ctx, b); err != nil {
		return nil, fmt.Errorf("create private room booking: %w", err)
	}

	publish(ctx, uc.publisher, uc.log, events.PrivateRoomBooked, events.BookingEvent{
		BookingID:  b.ID,
		CustomerID: customerID,
		Kind:       "private_room",
		Date:       b.Date,
		CreatedAt:  nowUTC(),
	})

	return b, nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
