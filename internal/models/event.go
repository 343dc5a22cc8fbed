package models

import "time"

type Event struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint `gorm:"index;not null" json:"customer_id"`

	Name      string `gorm:"size:100" json:"name"`
	Email     string `gorm:"size:120" json:"email"`
	EventType string `gorm:"size:100" json:"event_type"`
	Guests    int    `json:"guests"`
	Date      string `gorm:"size:50" json:"date"`
	Message   string `gorm:"type:text" json:"message"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
