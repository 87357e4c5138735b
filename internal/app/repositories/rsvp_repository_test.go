package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/Karthik-kushal/finalmini/internal/pkg/apperrors"
)

const (
	lockSQL   = "SELECT id FROM events WHERE id = $1 FOR UPDATE"
	deleteSQL = "DELETE FROM rsvps WHERE event_id = $1 AND user_id = $2 RETURNING id"
	insertSQL = "INSERT INTO rsvps (user_id,event_id,status) VALUES ($1,$2,$3) ON CONFLICT (user_id, event_id) DO NOTHING RETURNING id, created_at"
	adjustSQL = "UPDATE events SET attendee_count = attendee_count + $1 WHERE id = $2 RETURNING attendee_count"
)

func expectLock(mock pgxmock.PgxPoolIface, eventID uuid.UUID) {
	mock.ExpectQuery(q(lockSQL)).
		WithArgs(eventID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(eventID))
}

func TestRSVPRepositoryToggleCreates(t *testing.T) {
	mock := newMock(t)
	repo := NewRSVPRepository(mock)
	userID, eventID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLock(mock, eventID)
	mock.ExpectQuery(q(deleteSQL)).
		WithArgs(eventID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectQuery(q(insertSQL)).
		WithArgs(userID, eventID, "yes").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.New(), time.Now()))
	mock.ExpectQuery(q(adjustSQL)).
		WithArgs(1, eventID).
		WillReturnRows(pgxmock.NewRows([]string{"attendee_count"}).AddRow(1))
	mock.ExpectCommit()

	result, err := repo.Toggle(context.Background(), userID, eventID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if result.Action != models.ToggleCreated || !result.Attending || result.AttendeeCount != 1 {
		t.Fatalf("result = %+v", result)
	}
}

func TestRSVPRepositoryToggleRemoves(t *testing.T) {
	mock := newMock(t)
	repo := NewRSVPRepository(mock)
	userID, eventID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLock(mock, eventID)
	mock.ExpectQuery(q(deleteSQL)).
		WithArgs(eventID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectQuery(q(adjustSQL)).
		WithArgs(-1, eventID).
		WillReturnRows(pgxmock.NewRows([]string{"attendee_count"}).AddRow(0))
	mock.ExpectCommit()

	result, err := repo.Toggle(context.Background(), userID, eventID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if result.Action != models.ToggleRemoved || result.Attending || result.AttendeeCount != 0 {
		t.Fatalf("result = %+v", result)
	}
}

func TestRSVPRepositoryToggleMissingEventRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewRSVPRepository(mock)
	userID, eventID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockSQL)).
		WithArgs(eventID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.Toggle(context.Background(), userID, eventID)
	if !errors.Is(err, apperrors.ErrEventNotFound) {
		t.Fatalf("err = %v, want ErrEventNotFound", err)
	}
}

func TestRSVPRepositoryToggleUnknownUser(t *testing.T) {
	mock := newMock(t)
	repo := NewRSVPRepository(mock)
	userID, eventID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLock(mock, eventID)
	mock.ExpectQuery(q(deleteSQL)).
		WithArgs(eventID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectQuery(q(insertSQL)).
		WithArgs(userID, eventID, "yes").
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "rsvps_user_id_fkey"})
	mock.ExpectRollback()

	_, err := repo.Toggle(context.Background(), userID, eventID)
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestRSVPRepositoryToggleCounterFailureRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewRSVPRepository(mock)
	userID, eventID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLock(mock, eventID)
	mock.ExpectQuery(q(deleteSQL)).
		WithArgs(eventID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectQuery(q(insertSQL)).
		WithArgs(userID, eventID, "yes").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(uuid.New(), time.Now()))
	mock.ExpectQuery(q(adjustSQL)).
		WithArgs(1, eventID).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	if _, err := repo.Toggle(context.Background(), userID, eventID); err == nil {
		t.Fatal("expected error")
	}
}

func TestRSVPRepositoryCreateDuplicate(t *testing.T) {
	mock := newMock(t)
	repo := NewRSVPRepository(mock)
	userID, eventID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	expectLock(mock, eventID)
	mock.ExpectQuery(q(insertSQL)).
		WithArgs(userID, eventID, "yes").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), userID, eventID)
	if !errors.Is(err, apperrors.ErrAlreadyRSVPed) {
		t.Fatalf("err = %v, want ErrAlreadyRSVPed", err)
	}
}

func TestRSVPRepositoryCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewRSVPRepository(mock)
	userID, eventID := uuid.New(), uuid.New()
	id := uuid.New()

	mock.ExpectBegin()
	expectLock(mock, eventID)
	mock.ExpectQuery(q(insertSQL)).
		WithArgs(userID, eventID, "yes").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, time.Now()))
	mock.ExpectQuery(q(adjustSQL)).
		WithArgs(1, eventID).
		WillReturnRows(pgxmock.NewRows([]string{"attendee_count"}).AddRow(5))
	mock.ExpectCommit()

	rsvp, err := repo.Create(context.Background(), userID, eventID)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rsvp.ID != id || rsvp.Status != models.RSVPStatusYes {
		t.Fatalf("rsvp = %+v", rsvp)
	}
}

func TestRSVPRepositoryCreateMissingEventRollsBack(t *testing.T) {
	mock := newMock(t)
	repo := NewRSVPRepository(mock)
	userID, eventID := uuid.New(), uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(q(lockSQL)).
		WithArgs(eventID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), userID, eventID)
	if !errors.Is(err, apperrors.ErrEventNotFound) {
		t.Fatalf("err = %v, want ErrEventNotFound", err)
	}
}

func TestRSVPRepositoryExists(t *testing.T) {
	mock := newMock(t)
	repo := NewRSVPRepository(mock)
	userID, eventID := uuid.New(), uuid.New()

	mock.ExpectQuery(q("SELECT EXISTS ( SELECT 1 FROM rsvps WHERE event_id = $1 AND user_id = $2 )")).
		WithArgs(eventID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))

	ok, err := repo.Exists(context.Background(), userID, eventID)
	if err != nil || ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
}

func TestRSVPRepositoryListByUser(t *testing.T) {
	mock := newMock(t)
	repo := NewRSVPRepository(mock)
	userID, eventID := uuid.New(), uuid.New()
	now := time.Now()

	mock.ExpectQuery(q("FROM rsvps r JOIN events e ON e.id = r.event_id WHERE r.user_id = $1 ORDER BY r.created_at DESC")).
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "event_id", "status", "created_at",
			"title", "description", "date", "location", "image_url", "category", "attendee_count",
		}).AddRow(uuid.New(), userID, eventID, "yes", now, "Hack Night", "short", now, "Lab", "", "Tech", 3))

	rsvps, err := repo.ListByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(rsvps) != 1 || rsvps[0].Event == nil || rsvps[0].Event.ID != eventID || rsvps[0].Event.Category != models.CategoryTech {
		t.Fatalf("rsvps = %+v", rsvps)
	}
}
