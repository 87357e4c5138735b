// Package services holds the business logic behind the HTTP handlers
package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
)

// UserStore is the user persistence the services depend on
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// EventStore is the event persistence the services depend on
type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)
}

// RSVPStore is the RSVP persistence the services depend on
type RSVPStore interface {
	Toggle(ctx context.Context, userID, eventID uuid.UUID) (models.ToggleResult, error)
	Create(ctx context.Context, userID, eventID uuid.UUID) (*models.RSVP, error)
	Exists(ctx context.Context, userID, eventID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.RSVP, error)
}

// EventNotifier schedules the new-event announcement
type EventNotifier interface {
	NewEventCreated(event *models.Event) error
}

// Publisher pushes messages to the live feed
type Publisher interface {
	Publish(msgType, eventID string, payload interface{})
}

// Services defined in this package:
// - AuthService: registration and login
// - EventService: event creation and the event directory
// - RSVPService: attendance toggling and listings
type Services struct {
	Auth  *AuthService
	Event *EventService
	RSVP  *RSVPService
}
