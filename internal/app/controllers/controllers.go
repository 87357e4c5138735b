// Package controllers handles HTTP request handling
package controllers

import (
	"context"

	appauth "github.com/Karthik-kushal/finalmini/internal/app/auth"
	"github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/Karthik-kushal/finalmini/internal/app/models/dto"
	"github.com/Karthik-kushal/finalmini/internal/pkg/notify"
)

// AuthService is implemented by services.AuthService
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

// EventService is implemented by services.EventService
type EventService interface {
	CreateEvent(ctx context.Context, actor *appauth.Actor, req *dto.CreateEventRequest) (*models.Event, error)
	ListEvents(ctx context.Context, req dto.EventFilterRequest) ([]*models.Event, error)
	GetEvent(ctx context.Context, rawID string) (*models.Event, error)
}

// RSVPService is implemented by services.RSVPService
type RSVPService interface {
	Toggle(ctx context.Context, actor *appauth.Actor, rawEventID, rawUserID string) (models.ToggleResult, error)
	Create(ctx context.Context, actor *appauth.Actor, req *dto.CreateRSVPRequest) (*models.RSVP, error)
	Status(ctx context.Context, rawEventID, rawUserID string) (bool, error)
	ListByUser(ctx context.Context, rawUserID string) ([]*models.RSVP, error)
}

// HealthReporter is implemented by notify.Notifier
type HealthReporter interface {
	Health(ctx context.Context) notify.Health
}
