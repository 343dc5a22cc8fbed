package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/restaurant-app/internal/domain/order"
	"github.com/BruksfildServices01/restaurant-app/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Orders
// --------------------------------------------------

func (r *BookingGormRepository) CreateOrder(
	ctx context.Context,
	o *models.Order,
) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *BookingGormRepository) GetOrder(
	ctx context.Context,
	id uint,
) (*models.Order, error) {

	var o models.Order
	if err := r.db.WithContext(ctx).First(&o, id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *BookingGormRepository) UpdateOrder(
	ctx context.Context,
	o *models.Order,
) error {
	return r.db.WithContext(ctx).Save(o).Error
}

func (r *BookingGormRepository) DeleteOrder(
	ctx context.Context,
	id uint,
) error {

	res := r.db.WithContext(ctx).Delete(&models.Order{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *BookingGormRepository) ListOrders(
	ctx context.Context,
) ([]models.Order, error) {

	var orders []models.Order
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *BookingGormRepository) ListOrdersByCustomer(
	ctx context.Context,
	customerID uint,
) ([]models.Order, error) {

	var orders []models.Order
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *BookingGormRepository) CountOrdersByStatus(
	ctx context.Context,
) (map[domain.Status]int64, error) {

	var rows []struct {
		Status string
		Total  int64
	}

	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		out[domain.Status(row.Status)] = row.Total
	}
	return out, nil
}

// --------------------------------------------------
// Private rooms
// --------------------------------------------------

func (r *BookingGormRepository) CreatePrivateRoom(
	ctx context.Context,
	b *models.PrivateRoom,
) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingGormRepository) GetPrivateRoom(
	ctx context.Context,
	id uint,
) (*models.PrivateRoom, error) {

	var b models.PrivateRoom
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookingGormRepository) ListPrivateRooms(
	ctx context.Context,
) ([]models.PrivateRoom, error) {

	var rooms []models.PrivateRoom
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&rooms).Error
	return rooms, err
}

func (r *BookingGormRepository) ListPrivateRoomsByCustomer(
	ctx context.Context,
	customerID uint,
) ([]models.PrivateRoom, error) {

	var rooms []models.PrivateRoom
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&rooms).Error
	return rooms, err
}

// --------------------------------------------------
// Events
// --------------------------------------------------

func (r *BookingGormRepository) CreateEvent(
	ctx context.Context,
	e *models.Event,
) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *BookingGormRepository) GetEvent(
	ctx context.Context,
	id uint,
) (*models.Event, error) {

	var e models.Event
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		if isNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *BookingGormRepository) ListEvents(
	ctx context.Context,
) ([]models.Event, error) {

	var events []models.Event
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&events).Error
	return events, err
}

func (r *BookingGormRepository) ListEventsByCustomer(
	ctx context.Context,
	customerID uint,
) ([]models.Event, error) {

	var events []models.Event
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC, id DESC").
		Find(&events).Error
	return events, err
}

var _ domain.Repository = (*BookingGormRepository)(nil)
