package auth

import (
	"github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/Karthik-kushal/finalmini/internal/pkg/apperrors"
	"github.com/google/uuid"
)

// Authorization errors
var (
	ErrNotAdmin       = apperrors.NewForbiddenError("Only admins can perform this action")
	ErrNotOwnResource = apperrors.NewForbiddenError("You can only manage your own RSVPs")
	ErrNoActor        = apperrors.NewCustomError(apperrors.ErrTokenInvalid, "Authentication required")
)

// Actor is the authenticated principal behind a request
type Actor struct {
	UserID uuid.UUID
	Role   models.RoleType
}

// IsAdmin reports whether the actor holds the admin role
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.RoleAdmin
}

// RequireAdmin rejects anyone but an admin
func RequireAdmin(actor *Actor) error {
	if actor == nil {
		return ErrNoActor
	}
	if !actor.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}

// RequireSelfOrAdmin allows an actor to act on behalf of userID only when it
// is their own id, unless they are an admin.
func RequireSelfOrAdmin(actor *Actor, userID uuid.UUID) error {
	if actor == nil {
		return ErrNoActor
	}
	if actor.IsAdmin() || actor.UserID == userID {
		return nil
	}
	return ErrNotOwnResource
}
