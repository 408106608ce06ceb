package models

import (
	"descubre/src/types"
	"time"
)

type Event struct {
	ID          uint              `gorm:"primarykey" json:"id"`
	Title       string            `json:"title,omitempty"`
	Slug        string            `gorm:"index" json:"slug,omitempty"`
	Description string            `json:"description,omitempty"`
	CategoryID  string            `json:"category_id,omitempty"`
	Location    string            `json:"location,omitempty"`
	Latitude    float64           `json:"latitude,omitempty"`
	Longitude   float64           `json:"longitude,omitempty"`
	Date        time.Time         `json:"date,omitempty"`
	ImageURL    string            `json:"image_url,omitempty"`
	Price       float64           `json:"price"`
	Highlights  *types.JSONBArray `gorm:"type:jsonb" json:"highlights,omitempty"`
	Spots       uint              `gorm:"column:available_spots" json:"available_spots"`

	Category    *Category    `gorm:"foreignKey:category_id" json:"event_categories,omitempty"`
	TicketTypes []TicketType `gorm:"foreignKey:event_id" json:"ticket_types,omitempty"`
	Reviews     []Review     `gorm:"foreignKey:event_id" json:"reviews,omitempty"`

	types.Timestamps
}
