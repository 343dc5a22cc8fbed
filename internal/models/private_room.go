package models

import "time"

// Date and Time are kept as submitted by the booking form.
type PrivateRoom struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint `gorm:"index;not null" json:"customer_id"`

	Name    string `gorm:"size:100" json:"name"`
	Email   string `gorm:"size:120" json:"email"`
	Date    string `gorm:"size:50" json:"date"`
	Time    string `gorm:"size:50" json:"time"`
	Message string `gorm:"type:text" json:"message"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
