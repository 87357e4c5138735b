package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Karthik-kushal/finalmini/internal/app/models/dto"
	"github.com/Karthik-kushal/finalmini/internal/middleware"
)

// EventController handles event endpoints
type EventController struct {
	eventService EventService
	logger       zerolog.Logger
}

// NewEventController creates a new EventController
func NewEventController(eventService EventService, logger zerolog.Logger) *EventController {
	return &EventController{
		eventService: eventService,
		logger:       logger,
	}
}

// CreateEvent handles event creation
// @Summary Create an event
// @Description Creates an event and announces it to every student by email. Admin only.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event information"
// @Success 201 {object} dto.APIResponse{data=dto.EventResponse} "Event created"
// @Failure 400 {object} dto.ErrorResponse "Missing or invalid fields"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Admin only"
// @Failure 404 {object} dto.ErrorResponse "Creator not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events [post]
func (c *EventController) CreateEvent(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Warn().Err(err).Msg("Invalid event request payload")
		middleware.HandleBindError(ctx, err)
		return
	}

	event, err := c.eventService.CreateEvent(ctx.Request.Context(), middleware.ActorFromContext(ctx), &req)
	if err != nil {
		middleware.HandleAPIErrorWithMessage(ctx, err, "Server error")
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewMessageResponse("Event created", dto.NewEventResponse(event)))
}

// ListEvents handles the event listing
// @Summary List events
// @Description Lists events by date, optionally filtered by category or creator
// @Tags events
// @Produce json
// @Param category query string false "Category (Tech, Cultural, Sports, Academic, Social, Others)"
// @Param createdBy query string false "Creator user ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.EventResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events [get]
func (c *EventController) ListEvents(ctx *gin.Context) {
	var req dto.EventFilterRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	events, err := c.eventService.ListEvents(ctx.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIErrorWithMessage(ctx, err, "Server error")
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewEventListResponse(events)))
}

// GetEvent handles fetching a single event
// @Summary Get an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.APIResponse{data=dto.EventResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid event ID"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id} [get]
func (c *EventController) GetEvent(ctx *gin.Context) {
	event, err := c.eventService.GetEvent(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIErrorWithMessage(ctx, err, "Server error")
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewEventResponse(event)))
}
