package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	appauth "github.com/Karthik-kushal/finalmini/internal/app/auth"
	"github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/Karthik-kushal/finalmini/internal/app/models/dto"
	"github.com/Karthik-kushal/finalmini/internal/pkg/apperrors"
	"github.com/Karthik-kushal/finalmini/internal/pkg/helpers"
	"github.com/Karthik-kushal/finalmini/internal/pkg/websocket"
)

var (
	ErrRSVPFieldsRequired = apperrors.NewBadRequestError("userId and eventId are required")
	ErrUserIDRequired     = apperrors.NewBadRequestError("userId is required")
)

// RSVPService handles attendance
type RSVPService struct {
	rsvps     RSVPStore
	publisher Publisher
	logger    zerolog.Logger
}

// NewRSVPService creates a new RSVPService
func NewRSVPService(rsvps RSVPStore, publisher Publisher, logger zerolog.Logger) *RSVPService {
	return &RSVPService{
		rsvps:     rsvps,
		publisher: publisher,
		logger:    logger,
	}
}

// Toggle flips the attendance of userID for the event
func (s *RSVPService) Toggle(ctx context.Context, actor *appauth.Actor, rawEventID, rawUserID string) (models.ToggleResult, error) {
	eventID, userID, err := s.resolvePair(rawEventID, rawUserID)
	if err != nil {
		return models.ToggleResult{}, err
	}

	if err := appauth.RequireSelfOrAdmin(actor, userID); err != nil {
		return models.ToggleResult{}, err
	}

	result, err := s.rsvps.Toggle(ctx, userID, eventID)
	if err != nil {
		return models.ToggleResult{}, passClientError(err, "error toggling rsvp")
	}

	s.logger.Info().
		Str("eventId", eventID.String()).
		Str("userId", userID.String()).
		Str("action", string(result.Action)).
		Int("attendeeCount", result.AttendeeCount).
		Msg("RSVP toggled")

	s.publisher.Publish(websocket.TypeRSVPToggled, eventID.String(), dto.NewToggleRSVPResponse(result))

	return result, nil
}

// Create records attendance without toggling. A second call for the same
// pair fails with apperrors.ErrAlreadyRSVPed.
func (s *RSVPService) Create(ctx context.Context, actor *appauth.Actor, req *dto.CreateRSVPRequest) (*models.RSVP, error) {
	if strings.TrimSpace(req.EventID) == "" || strings.TrimSpace(req.UserID) == "" {
		return nil, ErrRSVPFieldsRequired
	}

	eventID, userID, err := s.resolvePair(req.EventID, req.UserID)
	if err != nil {
		return nil, err
	}

	if err := appauth.RequireSelfOrAdmin(actor, userID); err != nil {
		return nil, err
	}

	rsvp, err := s.rsvps.Create(ctx, userID, eventID)
	if err != nil {
		return nil, passClientError(err, "error creating rsvp")
	}

	s.publisher.Publish(websocket.TypeRSVPToggled, eventID.String(), dto.ToggleRSVPResponse{
		Action:    string(models.ToggleCreated),
		Attending: true,
	})

	return rsvp, nil
}

// Status reports whether the user attends the event
func (s *RSVPService) Status(ctx context.Context, rawEventID, rawUserID string) (bool, error) {
	eventID, err := helpers.ParseID(rawEventID)
	if err != nil {
		return false, err
	}
	userID, err := helpers.ParseID(rawUserID)
	if err != nil {
		return false, err
	}

	attending, err := s.rsvps.Exists(ctx, userID, eventID)
	if err != nil {
		return false, fmt.Errorf("error checking rsvp: %w", err)
	}
	return attending, nil
}

// ListByUser returns the user's RSVPs with their events, newest first
func (s *RSVPService) ListByUser(ctx context.Context, rawUserID string) ([]*models.RSVP, error) {
	userID, err := helpers.ParseID(rawUserID)
	if err != nil {
		return nil, err
	}

	rsvps, err := s.rsvps.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing rsvps: %w", err)
	}
	return rsvps, nil
}

func (s *RSVPService) resolvePair(rawEventID, rawUserID string) (uuid.UUID, uuid.UUID, error) {
	if strings.TrimSpace(rawUserID) == "" {
		return uuid.Nil, uuid.Nil, ErrUserIDRequired
	}

	eventID, err := helpers.ParseID(rawEventID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}

	userID, err := helpers.ParseID(rawUserID)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return eventID, userID, nil
}

// passClientError returns classified errors untouched and wraps the rest
func passClientError(err error, msg string) error {
	if apperrors.Is(err, apperrors.ErrResourceNotFound, apperrors.ErrConflict, apperrors.ErrBadRequest) {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
