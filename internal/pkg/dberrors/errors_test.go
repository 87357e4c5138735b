package dberrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsDuplicateConstraintError(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "rsvps_user_event_key"}
	wrapped := fmt.Errorf("insert rsvp: %w", pgErr)

	if !IsDuplicateConstraintError(wrapped, "rsvps_user_event_key") {
		t.Fatalf("expected wrapped unique violation to match")
	}
	if !IsDuplicateConstraintError(wrapped, "") {
		t.Fatalf("expected empty constraint name to match any unique violation")
	}
	if IsDuplicateConstraintError(wrapped, "users_email_key") {
		t.Fatalf("expected different constraint not to match")
	}
	if IsDuplicateConstraintError(errors.New("boom"), "") {
		t.Fatalf("plain errors must not match")
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23503", ConstraintName: "rsvps_user_id_fkey"}
	if !IsForeignKeyViolation(pgErr, "rsvps_user_id_fkey") {
		t.Fatalf("expected foreign key violation to match")
	}
	if IsDuplicateConstraintError(pgErr, "") {
		t.Fatalf("foreign key violation is not a unique violation")
	}
	if !IsCheckViolation(&pgconn.PgError{Code: "23514"}, "") {
		t.Fatalf("expected check violation to match")
	}
}
