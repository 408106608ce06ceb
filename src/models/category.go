package models

import "descubre/src/types"

type Category struct {
	ID    string `gorm:"primarykey" json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon,omitempty"`
	Color string `json:"color,omitempty"`

	Events []Event `gorm:"foreignKey:category_id" json:"events,omitempty"`

	types.Timestamps
}
