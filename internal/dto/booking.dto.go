package dto

import "github.com/BruksfildServices01/restaurant-app/internal/models"

type CustomerDataDTO struct {
	Email        string               `json:"email"`
	Orders       []models.Order       `json:"orders"`
	PrivateRooms []models.PrivateRoom `json:"private_rooms"`
	Events       []models.Event       `json:"events"`
}

type OrderSummaryDTO struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Completed int64 `json:"completed"`
}

type AdminDashboardDTO struct {
	Orders          []models.Order       `json:"orders"`
	PrivateBookings []models.PrivateRoom `json:"private_bookings"`
	EventBookings   []models.Event       `json:"event_bookings"`
	Summary         OrderSummaryDTO      `json:"summary"`
}

type UserDTO struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
