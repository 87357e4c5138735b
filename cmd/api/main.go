package main

import (
	"os"

	"github.com/Karthik-kushal/finalmini/internal/pkg/logger"
	"github.com/Karthik-kushal/finalmini/internal/server"
)

// @title Campus Connect API
// @version 1.0
// @description API for campus events, attendance and new-event announcements

// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token for authorization

func main() {
	srv, err := server.NewServer()
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
