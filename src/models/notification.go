package models

import (
	"descubre/src/types"

	"github.com/google/uuid"
)

type Notification struct {
	ID       uuid.UUID      `gorm:"primarykey;type:uuid;default:gen_random_uuid()" json:"id"`
	Message  string         `json:"message"`
	Severity types.Severity `json:"severity"`
	// Duration is the suggested auto-dismiss time in milliseconds; zero
	// means the client default.
	Duration int64 `json:"duration,omitempty"`

	types.Timestamps
}
