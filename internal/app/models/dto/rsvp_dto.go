package dto

import (
	"time"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
)

// ToggleRSVPRequest is the body of POST /events/{id}/rsvp
type ToggleRSVPRequest struct {
	UserID string `json:"userId"`
}

// CreateRSVPRequest is the body of the legacy POST /rsvps
type CreateRSVPRequest struct {
	UserID  string `json:"userId"`
	EventID string `json:"eventId"`
}

// ToggleRSVPResponse reports the outcome of a toggle
type ToggleRSVPResponse struct {
	Action        string `json:"action" example:"created"`
	Attending     bool   `json:"attending"`
	AttendeeCount int    `json:"attendeeCount"`
}

// RSVPStatusResponse reports whether a user attends an event
type RSVPStatusResponse struct {
	Attending bool `json:"attending"`
}

// RSVPResponse represents a single RSVP
type RSVPResponse struct {
	ID        string                `json:"id"`
	UserID    string                `json:"userId"`
	EventID   string                `json:"eventId"`
	Status    string                `json:"status"`
	CreatedAt time.Time             `json:"createdAt"`
	Event     *EventSummaryResponse `json:"event,omitempty"`
}

// EventSummaryResponse is the event display data joined into RSVP listings
type EventSummaryResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Date          time.Time `json:"date"`
	Location      string    `json:"location"`
	ImageURL      string    `json:"imageUrl"`
	Category      string    `json:"category"`
	AttendeeCount int       `json:"attendeeCount"`
}

// NewToggleRSVPResponse converts a toggle result
func NewToggleRSVPResponse(result models.ToggleResult) ToggleRSVPResponse {
	return ToggleRSVPResponse{
		Action:        string(result.Action),
		Attending:     result.Attending,
		AttendeeCount: result.AttendeeCount,
	}
}

// NewRSVPResponse converts a model, including the joined event when loaded
func NewRSVPResponse(rsvp *models.RSVP) RSVPResponse {
	if rsvp == nil {
		return RSVPResponse{}
	}
	resp := RSVPResponse{
		ID:        rsvp.ID.String(),
		UserID:    rsvp.UserID.String(),
		EventID:   rsvp.EventID.String(),
		Status:    string(rsvp.Status),
		CreatedAt: rsvp.CreatedAt,
	}
	if e := rsvp.Event; e != nil {
		resp.Event = &EventSummaryResponse{
			ID:            e.ID.String(),
			Title:         e.Title,
			Description:   e.Description,
			Date:          e.Date,
			Location:      e.Location,
			ImageURL:      e.ImageURL,
			Category:      string(e.Category),
			AttendeeCount: e.AttendeeCount,
		}
	}
	return resp
}

// NewRSVPListResponse converts a slice of RSVPs, never returning nil
func NewRSVPListResponse(rsvps []*models.RSVP) []RSVPResponse {
	out := make([]RSVPResponse, 0, len(rsvps))
	for _, r := range rsvps {
		out = append(out, NewRSVPResponse(r))
	}
	return out
}
