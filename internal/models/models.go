package models

import (
	"time"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string    `gorm:"uniqueIndex;not null"     json:"email"`
	Username     string    `gorm:"uniqueIndex;not null"     json:"username"`
	FullName     string    `json:"full_name"`
	PasswordHash string    `gorm:"not null"                 json:"-"`
	IsDispatcher bool      `gorm:"not null;default:false"   json:"is_dispatcher"`
	IsActive     bool      `gorm:"not null;default:true"    json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type Trip struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Origin        string    `gorm:"not null;index"           json:"origin"`
	Destination   string    `gorm:"not null;index"           json:"destination"`
	DepartureTime time.Time `gorm:"not null;index"           json:"departure_time"`
	ArrivalTime   time.Time `gorm:"not null"                 json:"arrival_time"`
	Price         float64   `gorm:"not null"                 json:"price"`
	IsActive      bool      `gorm:"not null;default:true"    json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Ticket price is a snapshot taken at purchase time, not a live reference
// to the trip's current price.
type Ticket struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TripID       uint      `gorm:"not null;index"           json:"trip_id"`
	FullName     string    `gorm:"not null"                 json:"full_name"`
	Email        string    `gorm:"not null;index"           json:"email"`
	Price        float64   `gorm:"not null"                 json:"price"`
	TicketNumber string    `gorm:"uniqueIndex;not null"     json:"ticket_number"`
	IsPaid       bool      `gorm:"not null;default:false"   json:"is_paid"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
