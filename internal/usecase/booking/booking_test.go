package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/BruksfildServices01/restaurant-app/internal/db/dbtest"
	"github.com/BruksfildServices01/restaurant-app/internal/events"
	"github.com/BruksfildServices01/restaurant-app/internal/httperr"
	"github.com/BruksfildServices01/restaurant-app/internal/infra/repository"
	"github.com/BruksfildServices01/restaurant-app/internal/logger"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
)

func TestCreateOrderDefaultsAndPublishes(t *testing.T) {
	repo := repository.NewBookingGormRepository(dbtest.New(t))
	rec := &events.Recorder{}
	uc := NewCreateOrder(repo, rec, logger.Discard())

	o, err := uc.Execute(context.Background(), 5, CreateOrderInput{
		Items: []models.OrderItem{{Name: "Lasagna", Price: 12, Quantity: 1}},
		Total: 12,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if o.ID == 0 || o.Method != "Pickup" || o.Status != "Pending" || o.CustomerID != 5 {
		t.Fatalf("unexpected order: %+v", o)
	}

	if subj := rec.Subjects(); len(subj) != 1 || subj[0] != events.OrderCreated {
		t.Fatalf("published = %v", subj)
	}
}

func TestBookingsRequireCustomer(t *testing.T) {
	gdb := dbtest.New(t)
	repo := repository.NewBookingGormRepository(gdb)
	rec := &events.Recorder{}
	ctx := context.Background()

	if _, err := NewCreateOrder(repo, rec, logger.Discard()).Execute(ctx, 0, CreateOrderInput{Total: 1}); !httperr.IsBusiness(err, "login_required") {
		t.Fatalf("order: expected login_required, got %v", err)
	}
	if _, err := NewBookPrivateRoom(repo, rec, logger.Discard()).Execute(ctx, 0, PrivateRoomInput{}); !httperr.IsBusiness(err, "login_required") {
		t.Fatalf("room: expected login_required, got %v", err)
	}
	if _, err := NewReserveEvent(repo, rec, logger.Discard()).Execute(ctx, 0, EventInput{}); !httperr.IsBusiness(err, "login_required") {
		t.Fatalf("event: expected login_required, got %v", err)
	}

	for _, m := range []any{&models.Order{}, &models.PrivateRoom{}, &models.Event{}} {
		var n int64
		gdb.Model(m).Count(&n)
		if n != 0 {
			t.Fatalf("%T persisted without a session", m)
		}
	}
	if len(rec.Subjects()) != 0 {
		t.Fatalf("events published without a session")
	}
}

func TestCreateOrderRejectsNegativeAmounts(t *testing.T) {
	uc := NewCreateOrder(repository.NewBookingGormRepository(dbtest.New(t)), nil, logger.Discard())
	ctx := context.Background()

	if _, err := uc.Execute(ctx, 1, CreateOrderInput{Total: -1}); !httperr.IsBusiness(err, "invalid_total") {
		t.Fatalf("expected invalid_total, got %v", err)
	}
	if _, err := uc.Execute(ctx, 1, CreateOrderInput{Items: []models.OrderItem{{Quantity: -2}}}); !httperr.IsBusiness(err, "invalid_items") {
		t.Fatalf("expected invalid_items, got %v", err)
	}
}

func TestPrivateRoomAndEventDefaults(t *testing.T) {
	repo := repository.NewBookingGormRepository(dbtest.New(t))
	ctx := context.Background()

	room, err := NewBookPrivateRoom(repo, events.Nop{}, logger.Discard()).Execute(ctx, 2, PrivateRoomInput{
		Date: "2025-06-01", Time: "19:00", Message: "window seat",
	})
	if err != nil {
		t.Fatalf("room: %v", err)
	}
	if room.Name != "Anonymous" || room.Message != "window seat" {
		t.Fatalf("unexpected room: %+v", room)
	}

	ev, err := NewReserveEvent(repo, events.Nop{}, logger.Discard()).Execute(ctx, 2, EventInput{
		Name: "Ana", EventType: "Birthday", Guests: 20, Date: "2025-07-01",
	})
	if err != nil {
		t.Fatalf("event: %v", err)
	}
	if ev.Guests != 20 || ev.Name != "Ana" {
		t.Fatalf("unexpected event: %+v", ev)
	}

	if _, err := NewReserveEvent(repo, nil, logger.Discard()).Execute(ctx, 2, EventInput{Guests: -1}); !httperr.IsBusiness(err, "invalid_guests") {
		t.Fatalf("expected invalid_guests, got %v", err)
	}
}

func TestPublishFailureDoesNotFailOrder(t *testing.T) {
	repo := repository.NewBookingGormRepository(dbtest.New(t))
	rec := &events.Recorder{Err: errors.New("nats down")}

	if _, err := NewCreateOrder(repo, rec, logger.Discard()).Execute(context.Background(), 1, CreateOrderInput{}); err != nil {
		t.Fatalf("order should survive a broker outage: %v", err)
	}
}

func TestCustomerDataScopesToCustomer(t *testing.T) {
	repo := repository.NewBookingGormRepository(dbtest.New(t))
	ctx := context.Background()
	create := NewCreateOrder(repo, nil, logger.Discard())

	_, _ = create.Execute(ctx, 1, CreateOrderInput{Total: 10})
	_, _ = create.Execute(ctx, 2, CreateOrderInput{Total: 20})

	data, err := NewCustomerData(repo).Execute(ctx, 1, "one@example.com")
	if err != nil {
		t.Fatalf("customer data: %v", err)
	}
	if data.Email != "one@example.com" || len(data.Orders) != 1 || data.Orders[0].Total != 10 {
		t.Fatalf("unexpected data: %+v", data)
	}
	if data.PrivateRooms == nil || data.Events == nil {
		t.Fatalf("empty collections must not be nil")
	}
}
