package order

import (
	"context"
	"errors"

	"github.com/BruksfildServices01/restaurant-app/internal/models"
)

var ErrNotFound = errors.New("record not found")

// Repository covers orders plus the two booking kinds; they share the
// same lifecycle owner (the customer) and the same admin views.
type Repository interface {
	// -------- Orders --------
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	UpdateOrder(ctx context.Context, o *models.Order) error
	DeleteOrder(ctx context.Context, id uint) error
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uint) ([]models.Order, error)
	CountOrdersByStatus(ctx context.Context) (map[Status]int64, error)

	// -------- Private rooms --------
	CreatePrivateRoom(ctx context.Context, b *models.PrivateRoom) error
	GetPrivateRoom(ctx context.Context, id uint) (*models.PrivateRoom, error)
	ListPrivateRooms(ctx context.Context) ([]models.PrivateRoom, error)
	ListPrivateRoomsByCustomer(ctx context.Context, customerID uint) ([]models.PrivateRoom, error)

	// -------- Events --------
	CreateEvent(ctx context.Context, e *models.Event) error
	GetEvent(ctx context.Context, id uint) (*models.Event, error)
	ListEvents(ctx context.Context) ([]models.Event, error)
	ListEventsByCustomer(ctx context.Context, customerID uint) ([]models.Event, error)
}
