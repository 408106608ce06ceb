package models

import (
	"descubre/src/types"

	"github.com/google/uuid"
)

type TicketType struct {
	ID          uuid.UUID `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	EventID     uint      `json:"event_id,omitempty"`
	Name        string    `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       float64   `json:"price"`
	MaxQuantity *uint     `json:"max_quantity,omitempty"`
	Quantity    uint      `gorm:"column:available_quantity" json:"available_quantity"`
	Active      bool      `gorm:"column:is_active;default:true" json:"is_active"`

	Event Event `json:"event,omitempty"`

	types.Timestamps
}
