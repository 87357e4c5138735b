package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/Karthik-kushal/finalmini/internal/app/controllers"
	appJobs "github.com/Karthik-kushal/finalmini/internal/app/jobs"
	appMigrations "github.com/Karthik-kushal/finalmini/internal/app/migrations"
	appRepos "github.com/Karthik-kushal/finalmini/internal/app/repositories"
	appRoutes "github.com/Karthik-kushal/finalmini/internal/app/routes"
	appServices "github.com/Karthik-kushal/finalmini/internal/app/services"
	"github.com/Karthik-kushal/finalmini/internal/config"
	"github.com/Karthik-kushal/finalmini/internal/db"
	appMiddleware "github.com/Karthik-kushal/finalmini/internal/middleware"
	pkgAuth "github.com/Karthik-kushal/finalmini/internal/pkg/auth"
	"github.com/Karthik-kushal/finalmini/internal/pkg/email"
	"github.com/Karthik-kushal/finalmini/internal/pkg/helpers"
	"github.com/Karthik-kushal/finalmini/internal/pkg/logger"
	"github.com/Karthik-kushal/finalmini/internal/pkg/notify"
	"github.com/Karthik-kushal/finalmini/internal/pkg/websocket"
	"github.com/Karthik-kushal/finalmini/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos    *appRepos.Repositories
	Services appServices.Services

	JWTService     *pkgAuth.JWTService
	AuthMiddleware *appMiddleware.AuthMiddleware

	Queue      *notify.Queue
	Notifier   *notify.Notifier
	Hub        *websocket.Hub
	Reconciler *appJobs.Reconciler

	AuthController         *appControllers.AuthController
	EventController        *appControllers.EventController
	RSVPController         *appControllers.RSVPController
	NotificationController *appControllers.NotificationController
	FeedHandler            *websocket.Handler

	Logger zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default admin.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(cfg.GetPostgresConnectionString(), lgr)
	if err := migrator.Up(); err != nil {
		database.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	adminSeed := seed.AdminConfig{
		Email:    cfg.Seed.AdminEmail,
		Password: cfg.Seed.AdminPassword,
		FullName: cfg.Seed.AdminName,
	}
	if err := seed.CreateDefaultData(ctx, appRepos.NewUserRepository(database.Pool), adminSeed, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// BuildDependencies initializes repositories, background workers, services
// and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 24*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	// Notifications
	perRecipient := helpers.ParseDuration(cfg.Notification.PerRecipientTimeout, 15*time.Second)
	sender := email.NewSMTPSender(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		TLSPolicy: cfg.SMTP.TLSPolicy,
		Timeout:   perRecipient,
	}, lgr)
	if !sender.Configured() {
		lgr.Warn().Msg("Email credentials not set, new-event announcements are disabled")
	}

	renderer := email.NewTemplateRenderer(cfg.App.FrontendURL, time.UTC)
	fanout := notify.NewFanout(sender, renderer, notify.FanoutConfig{
		Concurrency:         cfg.Notification.Concurrency,
		PerRecipientTimeout: perRecipient,
	}, lgr)

	deps.Queue = notify.NewQueue(notify.QueueConfig{
		Workers:    cfg.Notification.Workers,
		Size:       cfg.Notification.QueueSize,
		JobTimeout: helpers.ParseDuration(cfg.Notification.JobTimeout, 5*time.Minute),
	}, lgr)
	deps.Notifier = notify.NewNotifier(deps.Queue, fanout, deps.Repos.UserRepository, lgr)

	// Live feed
	deps.Hub = websocket.NewHub(lgr)
	deps.FeedHandler = websocket.NewHandler(deps.Hub, cfg.CORS.AllowedOrigins, lgr)

	if cfg.Reconcile.Enabled {
		reconciler, err := appJobs.NewReconciler(deps.Repos.EventRepository, cfg.Reconcile.Schedule, lgr)
		if err != nil {
			return nil, err
		}
		deps.Reconciler = reconciler
	}

	deps.Services = appServices.Services{
		Auth: appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr),
		Event: appServices.NewEventService(
			deps.Repos.EventRepository,
			deps.Repos.UserRepository,
			deps.Notifier,
			deps.Hub,
			lgr,
		),
		RSVP: appServices.NewRSVPService(deps.Repos.RSVPRepository, deps.Hub, lgr),
	}

	deps.AuthController = appControllers.NewAuthController(deps.Services.Auth, lgr)
	deps.EventController = appControllers.NewEventController(deps.Services.Event, lgr)
	deps.RSVPController = appControllers.NewRSVPController(deps.Services.RSVP, lgr)
	deps.NotificationController = appControllers.NewNotificationController(deps.Notifier, perRecipient)

	return deps, nil
}

// StartBackground launches the notification workers, the live feed hub and
// the reconciler
func (d *Dependencies) StartBackground() {
	d.Queue.Start()
	go d.Hub.Run()
	if d.Reconciler != nil {
		d.Reconciler.Start()
	}
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("failed to register validators: %w", err)
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr), appMiddleware.Recovery(lgr))

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.EventController,
		deps.RSVPController,
		deps.NotificationController,
		deps.FeedHandler,
		deps.AuthMiddleware,
	)

	return router, nil
}

// NewCORS builds the CORS policy that wraps the router
func NewCORS(cfg *config.Config) *cors.Cors {
	origins := cfg.CORS.AllowedOrigins
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}

	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: !allowAll,
		MaxAge:           600,
	})
}
