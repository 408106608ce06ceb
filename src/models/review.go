package models

import "descubre/src/types"

type Review struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	EventID      uint   `json:"event_id,omitempty"`
	AuthorName   string `json:"author_name,omitempty"`
	Rating       uint   `json:"rating"`
	Comment      string `json:"comment,omitempty"`
	HelpfulCount uint   `json:"helpful_count"`

	Event Event `json:"-"`

	types.Timestamps
}
