package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	appauth "github.com/Karthik-kushal/finalmini/internal/app/auth"
	"github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/Karthik-kushal/finalmini/internal/app/models/dto"
	"github.com/Karthik-kushal/finalmini/internal/pkg/apperrors"
	"github.com/Karthik-kushal/finalmini/internal/pkg/helpers"
	"github.com/Karthik-kushal/finalmini/internal/pkg/websocket"
)

// Event validation errors
var (
	ErrEventFieldsRequired = apperrors.NewBadRequestError("Title, date and createdBy fields are required.")
	ErrInvalidCreatorID    = apperrors.NewBadRequestError("Invalid createdBy user ID.")
	ErrInvalidEventDate    = apperrors.NewBadRequestError("Invalid date format.")
	ErrInvalidCategory     = apperrors.NewBadRequestError("Invalid category. Must be one of: Tech, Cultural, Sports, Academic, Social, Others")
)

// EventService handles event creation and lookups
type EventService struct {
	events    EventStore
	users     UserStore
	notifier  EventNotifier
	publisher Publisher
	logger    zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(events EventStore, users UserStore, notifier EventNotifier, publisher Publisher, logger zerolog.Logger) *EventService {
	return &EventService{
		events:    events,
		users:     users,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateEvent persists a new event and schedules its announcement. Failing to
// schedule the announcement does not fail the request.
func (s *EventService) CreateEvent(ctx context.Context, actor *appauth.Actor, req *dto.CreateEventRequest) (*models.Event, error) {
	if err := appauth.RequireAdmin(actor); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	rawDate := strings.TrimSpace(req.Date)
	rawCreator := strings.TrimSpace(req.CreatedBy)
	if title == "" || rawDate == "" || rawCreator == "" {
		return nil, ErrEventFieldsRequired
	}

	creatorID, err := helpers.ParseID(rawCreator)
	if err != nil {
		return nil, ErrInvalidCreatorID
	}

	date, err := helpers.ParseEventDate(rawDate)
	if err != nil {
		return nil, ErrInvalidEventDate
	}

	category, ok := models.ParseCategory(req.Category)
	if !ok {
		return nil, ErrInvalidCategory
	}

	creator, err := s.users.GetByID(ctx, creatorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrCreatorNotFound
		}
		return nil, fmt.Errorf("error loading creator: %w", err)
	}

	event := &models.Event{
		Title:               title,
		Description:         strings.TrimSpace(req.Description),
		DetailedDescription: strings.TrimSpace(req.DetailedDescription),
		Date:                date,
		Location:            strings.TrimSpace(req.Location),
		ImageURL:            strings.TrimSpace(req.ImageURL),
		Category:            category,
		Tags:                normalizeTags(req.Tags),
		CreatedBy:           creator.ID,
	}

	if err := s.events.Create(ctx, event); err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating event: %w", err)
	}
	event.Creator = creator

	s.logger.Info().
		Str("eventId", event.ID.String()).
		Str("createdBy", creator.ID.String()).
		Str("category", string(event.Category)).
		Msg("Event created")

	if err := s.notifier.NewEventCreated(event); err != nil {
		s.logger.Warn().Err(err).Str("eventId", event.ID.String()).Msg("Could not schedule event announcement")
	}

	s.publisher.Publish(websocket.TypeEventCreated, event.ID.String(), dto.NewEventResponse(event))

	return event, nil
}

// ListEvents returns events ordered by date, optionally filtered
func (s *EventService) ListEvents(ctx context.Context, req dto.EventFilterRequest) ([]*models.Event, error) {
	var filter models.EventFilter

	if raw := strings.TrimSpace(req.Category); raw != "" {
		category, ok := models.ParseCategory(raw)
		if !ok {
			return nil, ErrInvalidCategory
		}
		filter.Category = &category
	}

	createdBy, err := helpers.ParseOptionalID(req.CreatedBy)
	if err != nil {
		return nil, ErrInvalidCreatorID
	}
	filter.CreatedBy = createdBy

	events, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing events: %w", err)
	}
	return events, nil
}

// GetEvent returns a single event with its creator
func (s *EventService) GetEvent(ctx context.Context, rawID string) (*models.Event, error) {
	id, err := helpers.ParseID(rawID)
	if err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error loading event: %w", err)
	}
	return event, nil
}

// normalizeTags trims tags, strips a leading '#', and drops blanks and
// case-insensitive duplicates
func normalizeTags(raw []string) []string {
	tags := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, tag := range raw {
		tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		tags = append(tags, tag)
	}
	return tags
}
