package dto

import (
	"time"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
)

// --- Request DTOs ---

// CreateEventRequest represents event creation data. Date accepts RFC 3339 as
// well as the "YYYY-MM-DDTHH:MM" form produced by datetime-local inputs.
type CreateEventRequest struct {
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	DetailedDescription string   `json:"detailedDescription"`
	Date                string   `json:"date"`
	Location            string   `json:"location"`
	ImageURL            string   `json:"imageUrl" binding:"omitempty,url"`
	CreatedBy           string   `json:"createdBy"`
	Category            string   `json:"category" binding:"omitempty,eventcategory"`
	Tags                []string `json:"tags" binding:"omitempty,max=20,dive,max=40"`
}

// EventFilterRequest represents event list filters
type EventFilterRequest struct {
	Category  string `form:"category"`
	CreatedBy string `form:"createdBy"`
}

// --- Response DTOs ---

// CreatorResponse is the minimal creator view embedded in events
type CreatorResponse struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// EventResponse represents an event with its creator
type EventResponse struct {
	ID                  string           `json:"id"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	DetailedDescription string           `json:"detailedDescription"`
	Date                time.Time        `json:"date"`
	Location            string           `json:"location"`
	ImageURL            string           `json:"imageUrl"`
	Category            string           `json:"category"`
	Tags                []string         `json:"tags"`
	CreatedBy           *CreatorResponse `json:"createdBy"`
	AttendeeCount       int              `json:"attendeeCount"`
	CreatedAt           time.Time        `json:"createdAt"`
	UpdatedAt           time.Time        `json:"updatedAt"`
}

// NewEventResponse converts a model into its response view. The creator is
// taken from event.Creator when loaded, otherwise only the id is exposed.
func NewEventResponse(event *models.Event) EventResponse {
	if event == nil {
		return EventResponse{}
	}

	tags := event.Tags
	if tags == nil {
		tags = []string{}
	}

	creator := &CreatorResponse{ID: event.CreatedBy.String()}
	if event.Creator != nil {
		creator.FullName = event.Creator.FullName
		creator.Email = event.Creator.Email
	}

	return EventResponse{
		ID:                  event.ID.String(),
		Title:               event.Title,
		Description:         event.Description,
		DetailedDescription: event.DetailedDescription,
		Date:                event.Date,
		Location:            event.Location,
		ImageURL:            event.ImageURL,
		Category:            string(event.Category),
		Tags:                tags,
		CreatedBy:           creator,
		AttendeeCount:       event.AttendeeCount,
		CreatedAt:           event.CreatedAt,
		UpdatedAt:           event.UpdatedAt,
	}
}

// NewEventListResponse converts a slice of events, never returning nil
func NewEventListResponse(events []*models.Event) []EventResponse {
	out := make([]EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, NewEventResponse(e))
	}
	return out
}
