package models

import "time"

type OrderItem struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Order struct {
	ID uint `gorm:"primaryKey" json:"id"`

	CustomerID uint `gorm:"index;not null" json:"customer_id"`

	Items           []OrderItem `gorm:"serializer:json;type:text" json:"items"`
	Total           float64     `gorm:"not null;default:0" json:"total"`
	Method          string      `gorm:"size:50;default:'Pickup'" json:"method"`
	Address         string      `gorm:"size:255" json:"address"`
	SpecialRequests string      `gorm:"type:text" json:"special_requests"`
	Status          string      `gorm:"size:20;not null;default:'Pending';index" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
