package models

import (
	"time"

	"github.com/google/uuid"
)

// RSVP records that a user is attending an event. At most one row exists per
// (user, event) pair.
type RSVP struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"userId" db:"user_id"`
	EventID   uuid.UUID  `json:"eventId" db:"event_id"`
	Status    RSVPStatus `json:"status" db:"status"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`

	// Related entities
	Event *Event `json:"-"`
}

// ToggleAction describes what a toggle did
type ToggleAction string

const (
	ToggleCreated ToggleAction = "created"
	ToggleRemoved ToggleAction = "removed"
)

// ToggleResult is the outcome of flipping attendance
type ToggleResult struct {
	Action        ToggleAction
	Attending     bool
	AttendeeCount int
}
