package controllers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/Karthik-kushal/finalmini/internal/app/models/dto"
	"github.com/Karthik-kushal/finalmini/internal/middleware"
)

// RSVPController handles attendance endpoints
type RSVPController struct {
	rsvpService RSVPService
	logger      zerolog.Logger
}

// NewRSVPController creates a new RSVPController
func NewRSVPController(rsvpService RSVPService, logger zerolog.Logger) *RSVPController {
	return &RSVPController{
		rsvpService: rsvpService,
		logger:      logger,
	}
}

// ToggleRSVP handles attendance toggling
// @Summary Toggle attendance
// @Description Creates the caller's RSVP for an event, or removes it when one exists. The event's attendee count moves with it atomically.
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body dto.ToggleRSVPRequest false "User to toggle"
// @Success 200 {object} dto.APIResponse{data=dto.ToggleRSVPResponse} "RSVP removed"
// @Success 201 {object} dto.APIResponse{data=dto.ToggleRSVPResponse} "RSVP created"
// @Failure 400 {object} dto.ErrorResponse "Invalid event or user ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Acting for another user"
// @Failure 404 {object} dto.ErrorResponse "Event or user not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to toggle RSVP"
// @Router /events/{id}/rsvp [post]
func (c *RSVPController) ToggleRSVP(ctx *gin.Context) {
	var req dto.ToggleRSVPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.HandleBindError(ctx, err)
		return
	}

	result, err := c.rsvpService.Toggle(ctx.Request.Context(), middleware.ActorFromContext(ctx), ctx.Param("id"), req.UserID)
	if err != nil {
		middleware.HandleAPIErrorWithMessage(ctx, err, "Failed to toggle RSVP")
		return
	}

	status, message := http.StatusOK, "RSVP removed"
	if result.Action == models.ToggleCreated {
		status, message = http.StatusCreated, "RSVP created"
	}

	ctx.JSON(status, dto.NewMessageResponse(message, dto.NewToggleRSVPResponse(result)))
}

// GetRSVPStatus handles attendance lookups
// @Summary Attendance status
// @Tags rsvps
// @Produce json
// @Param id path string true "Event ID"
// @Param userId path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=dto.RSVPStatusResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid event or user ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /events/{id}/rsvp/{userId} [get]
func (c *RSVPController) GetRSVPStatus(ctx *gin.Context) {
	attending, err := c.rsvpService.Status(ctx.Request.Context(), ctx.Param("id"), ctx.Param("userId"))
	if err != nil {
		middleware.HandleAPIErrorWithMessage(ctx, err, "Failed to check RSVP status")
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.RSVPStatusResponse{Attending: attending}))
}

// CreateRSVP handles the non-toggling RSVP endpoint
// @Summary Create an RSVP
// @Description Records attendance. Fails when the user already attends the event.
// @Tags rsvps
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRSVPRequest true "RSVP"
// @Success 201 {object} dto.APIResponse{data=dto.RSVPResponse}
// @Failure 400 {object} dto.ErrorResponse "Already RSVPed or invalid IDs"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Acting for another user"
// @Failure 404 {object} dto.ErrorResponse "Event or user not found"
// @Failure 500 {object} dto.ErrorResponse "Failed to RSVP"
// @Router /rsvps [post]
func (c *RSVPController) CreateRSVP(ctx *gin.Context) {
	var req dto.CreateRSVPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	rsvp, err := c.rsvpService.Create(ctx.Request.Context(), middleware.ActorFromContext(ctx), &req)
	if err != nil {
		middleware.HandleAPIErrorWithMessage(ctx, err, "Failed to RSVP")
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewMessageResponse("RSVP created", dto.NewRSVPResponse(rsvp)))
}

// ListUserRSVPs handles the user's attendance listing
// @Summary List a user's RSVPs
// @Tags rsvps
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.RSVPResponse}
// @Failure 400 {object} dto.ErrorResponse "Invalid user ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /rsvps/{userId} [get]
func (c *RSVPController) ListUserRSVPs(ctx *gin.Context) {
	rsvps, err := c.rsvpService.ListByUser(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		middleware.HandleAPIErrorWithMessage(ctx, err, "Failed to fetch RSVPs")
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewRSVPListResponse(rsvps)))
}
