package models

import "descubre/src/types"

type User struct {
	ID           uint   `gorm:"primarykey" json:"id"`
	Name         string `json:"name,omitempty"`
	Email        string `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash string `json:"-"`
	// Generated marks accounts provisioned automatically during checkout
	// with a random credential, as opposed to explicit signups.
	Generated bool `json:"-"`

	Bookings []Booking `gorm:"foreignKey:user_id" json:"bookings,omitempty"`

	types.Timestamps
}
