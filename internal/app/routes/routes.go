package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Karthik-kushal/finalmini/internal/app/controllers"
	"github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/Karthik-kushal/finalmini/internal/middleware"
	"github.com/Karthik-kushal/finalmini/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	rsvpController *controllers.RSVPController,
	notificationController *controllers.NotificationController,
	feedHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	api := router.Group("/api")

	// --- Public auth routes ---
	api.POST("/users", authController.Register)
	api.POST("/register", authController.Register)
	api.POST("/sessions", authController.Login)
	api.POST("/login", authController.Login)

	// --- Events ---
	events := api.Group("/events")
	{
		events.GET("", eventController.ListEvents)
		events.GET("/:id", eventController.GetEvent)
		events.POST("", authMiddleware.JWTAuth(), authMiddleware.RoleRequired(models.RoleAdmin), eventController.CreateEvent)

		events.POST("/:id/rsvp", authMiddleware.JWTAuth(), rsvpController.ToggleRSVP)
		events.GET("/:id/rsvp/:userId", rsvpController.GetRSVPStatus)
	}

	// --- RSVPs ---
	rsvps := api.Group("/rsvps")
	{
		rsvps.POST("", authMiddleware.JWTAuth(), rsvpController.CreateRSVP)
		rsvps.GET("/:userId", rsvpController.ListUserRSVPs)
	}

	api.GET("/notifications/health", notificationController.Health)
	api.GET("/ws", feedHandler.HandleConnection)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})
}
