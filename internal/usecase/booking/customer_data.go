package booking

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/restaurant-app/internal/domain/order"
	"github.com/BruksfildServices01/restaurant-app/internal/dto"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
)

type CustomerData struct {
	repo domain.Repository
}

func NewCustomerData(repo domain.Repository) *CustomerData {
	return &CustomerData{repo: repo}
}

func (uc *CustomerData) Execute(
	ctx context.Context,
	customerID uint,
	email string,
) (*dto.CustomerDataDTO, error) {

	if customerID == 0 {
		return nil, httperr.ErrBusiness("login_required")
	}

	orders, err := uc.repo.ListOrdersByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	rooms, err := uc.repo.ListPrivateRoomsByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list private rooms: %w", err)
	}
	evts, err := uc.repo.ListEventsByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	out := &dto.CustomerDataDTO{
		Email:        email,
		Orders:       orders,
		PrivateRooms: rooms,
		Events:       evts,
	}
	// empty lists render as [] rather than null
	if out.Orders == nil {
		out.Orders = []models.Order{}
	}
	if out.PrivateRooms == nil {
		out.PrivateRooms = []models.PrivateRoom{}
	}
	if out.Events == nil {
		out.Events = []models.Event{}
	}
	return out, nil
}
