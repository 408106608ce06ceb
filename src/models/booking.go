package models

import (
	"descubre/src/types"
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	ID           uuid.UUID           `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	EventID      uint                `json:"event_id,omitempty"`
	TicketTypeID *uuid.UUID          `gorm:"type:uuid" json:"ticket_type_id,omitempty"`
	UserID       uint                `json:"user_id,omitempty"`
	UserName     string              `json:"user_name,omitempty"`
	UserEmail    string              `json:"user_email,omitempty"`
	Tickets      uint                `gorm:"column:number_of_tickets" json:"number_of_tickets,omitempty"`
	TotalPrice   float64             `json:"total_price"`
	Status       types.BookingStatus `gorm:"column:booking_status;default:'pending'" json:"booking_status,omitempty"`
	BookingDate  time.Time           `json:"booking_date,omitempty"`

	Event      *Event      `json:"event,omitempty"`
	TicketType *TicketType `json:"ticket_type,omitempty"`
	User       *User       `json:"user,omitempty"`

	types.Timestamps
}
