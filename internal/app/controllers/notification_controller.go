package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Karthik-kushal/finalmini/internal/app/models/dto"
)

// NotificationController exposes the mail transport health
type NotificationController struct {
	health  HealthReporter
	timeout time.Duration
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(health HealthReporter, timeout time.Duration) *NotificationController {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &NotificationController{health: health, timeout: timeout}
}

// Health handles the notification health check
// @Summary Notification health
// @Description Verifies the SMTP transport and reports queue counters and the last announcement summary
// @Tags notifications
// @Produce json
// @Success 200 {object} dto.APIResponse{data=notify.Health}
// @Router /notifications/health [get]
func (c *NotificationController) Health(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), c.timeout)
	defer cancel()

	h := c.health.Health(checkCtx)
	ctx.JSON(http.StatusOK, dto.NewMessageResponse(h.Message, h))
}
