package models

import (
	"time"

	"github.com/google/uuid"
)

// Event is a campus event created by an admin
type Event struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	Title               string    `json:"title" db:"title"`
	Description         string    `json:"description" db:"description"`
	DetailedDescription string    `json:"detailedDescription" db:"detailed_description"`
	Date                time.Time `json:"date" db:"date"`
	Location            string    `json:"location" db:"location"`
	ImageURL            string    `json:"imageUrl" db:"image_url"`
	Category            Category  `json:"category" db:"category"`
	Tags                []string  `json:"tags" db:"tags"`
	CreatedBy           uuid.UUID `json:"createdBy" db:"created_by"`
	// AttendeeCount mirrors the number of rsvps rows for this event and is
	// only written inside the RSVP transactions or by the reconciler.
	AttendeeCount int       `json:"attendeeCount" db:"attendee_count"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`

	// Related entities
	Creator *User `json:"-"`
}

// Summary returns the longest available description
func (e *Event) Summary() string {
	if e.DetailedDescription != "" {
		return e.DetailedDescription
	}
	return e.Description
}

// EventFilter narrows event listings
type EventFilter struct {
	Category  *Category
	CreatedBy *uuid.UUID
}

// CounterDrift records an event whose stored attendee count disagreed with its RSVP rows
type CounterDrift struct {
	EventID  uuid.UUID
	Stored   int
	Actual   int
	Repaired bool
}
