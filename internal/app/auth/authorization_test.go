package auth

import (
	"errors"
	"testing"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/Karthik-kushal/finalmini/internal/pkg/apperrors"
	"github.com/google/uuid"
)

func TestRequireSelfOrAdmin(t *testing.T) {
	self := uuid.New()
	other := uuid.New()
	student := &Actor{UserID: self, Role: models.RoleStudent}
	admin := &Actor{UserID: uuid.New(), Role: models.RoleAdmin}

	if err := RequireSelfOrAdmin(student, self); err != nil {
		t.Fatalf("student acting for self: %v", err)
	}
	if err := RequireSelfOrAdmin(student, other); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("student acting for other: err = %v", err)
	}
	if err := RequireSelfOrAdmin(admin, other); err != nil {
		t.Fatalf("admin acting for other: %v", err)
	}
	if err := RequireSelfOrAdmin(nil, self); !errors.Is(err, apperrors.ErrTokenInvalid) {
		t.Fatalf("nil actor: err = %v", err)
	}
}

func TestRequireAdmin(t *testing.T) {
	if err := RequireAdmin(&Actor{UserID: uuid.New(), Role: models.RoleAdmin}); err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
	if err := RequireAdmin(&Actor{UserID: uuid.New(), Role: models.RoleStudent}); !errors.Is(err, apperrors.ErrPermissionDenied) {
		t.Fatalf("student: err = %v", err)
	}
}
