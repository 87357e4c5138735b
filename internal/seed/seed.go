package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	appModels "github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/Karthik-kushal/finalmini/internal/pkg/apperrors"
	"github.com/Karthik-kushal/finalmini/internal/pkg/auth"
)

// AdminConfig describes the default admin account
type AdminConfig struct {
	Email    string
	Password string
	FullName string
}

// UserStore is the subset of the user repository seeding needs
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*appModels.User, error)
	Create(ctx context.Context, user *appModels.User) error
}

// CreateDefaultData creates the default admin user if it doesn't exist. It is
// a no-op when no admin email or password is configured.
func CreateDefaultData(ctx context.Context, users UserStore, admin AdminConfig, lgr zerolog.Logger) error {
	email := strings.ToLower(strings.TrimSpace(admin.Email))
	if email == "" || admin.Password == "" {
		lgr.Debug().Msg("No default admin configured, skipping seed")
		return nil
	}

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != appModels.RoleAdmin {
			lgr.Warn().Str("email", email).Msg("Seed admin email belongs to a non-admin account")
		} else {
			lgr.Info().Msg("Admin user already exists, skipping creation")
		}
		return nil
	case !errors.Is(err, apperrors.ErrResourceNotFound):
		return fmt.Errorf("error checking admin user: %w", err)
	}

	hashedPassword, err := auth.HashPassword(admin.Password)
	if err != nil {
		return fmt.Errorf("error hashing admin password: %w", err)
	}

	name := strings.TrimSpace(admin.FullName)
	if name == "" {
		name = "Campus Admin"
	}

	user := &appModels.User{
		FullName: name,
		Email:    email,
		Password: hashedPassword,
		Role:     appModels.RoleAdmin,
	}
	if err := users.Create(ctx, user); err != nil {
		// Another instance may have seeded concurrently
		if errors.Is(err, apperrors.ErrConflict) {
			return nil
		}
		return fmt.Errorf("error creating admin user: %w", err)
	}

	lgr.Info().Str("adminId", user.ID.String()).Msg("Default admin user created successfully")
	return nil
}
