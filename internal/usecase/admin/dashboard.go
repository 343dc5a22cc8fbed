package admin

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/BruksfildServices01/restaurant-app/internal/domain/order"
	"github.com/BruksfildServices01/restaurant-app/internal/dto"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
)

type Dashboard struct {
	repo domain.Repository
}

func NewDashboard(repo domain.Repository) *Dashboard {
	return &Dashboard{repo: repo}
}

func (uc *Dashboard) Execute(ctx context.Context) (*dto.AdminDashboardDTO, error) {
	orders, err := uc.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	rooms, err := uc.repo.ListPrivateRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list private rooms: %w", err)
	}
	evts, err := uc.repo.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	counts, err := uc.repo.CountOrdersByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	out := &dto.AdminDashboardDTO{
		Orders:          orders,
		PrivateBookings: rooms,
		EventBookings:   evts,
		Summary: dto.OrderSummaryDTO{
			Pending:   counts[domain.StatusPending],
			Completed: counts[domain.StatusCompleted],
		},
	}
	for _, n := range counts {
		out.Summary.Total += n
	}
	if out.Orders == nil {
		out.Orders = []models.Order{}
	}
	if out.PrivateBookings == nil {
		out.PrivateBookings = []models.PrivateRoom{}
	}
	if out.EventBookings == nil {
		out.EventBookings = []models.Event{}
	}
	return out, nil
}

// ======================================================
// Detail views
// ======================================================

type Details struct {
	repo domain.Repository
}

func NewDetails(repo domain.Repository) *Details {
	return &Details{repo: repo}
}

func (uc *Details) Order(ctx context.Context, id uint) (*models.Order, error) {
	o, err := uc.repo.GetOrder(ctx, id)
	return o, notFoundAs(err, "order_not_found")
}

func (uc *Details) PrivateRoom(ctx context.Context, id uint) (*models.PrivateRoom, error) {
	b, err := uc.repo.GetPrivateRoom(ctx, id)
	return b, notFoundAs(err, "booking_not_found")
}

func (uc *Details) Event(ctx context.Context, id uint) (*models.Event, error) {
	e, err := uc.repo.GetEvent(ctx, id)
	return e, notFoundAs(err, "event_not_found")
}

func notFoundAs(err error, code string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(code)
	}
	return err
}
