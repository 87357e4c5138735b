package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Karthik-kushal/finalmini/internal/app/models"
	"github.com/Karthik-kushal/finalmini/internal/db"
	"github.com/Karthik-kushal/finalmini/internal/pkg/apperrors"
	"github.com/Karthik-kushal/finalmini/internal/pkg/dberrors"
)

// RSVPRepository handles database operations for RSVPs. Every write also
// moves events.attendee_count inside the same transaction.
type RSVPRepository struct {
	db db.TxBeginner
}

// NewRSVPRepository creates a new RSVPRepository
func NewRSVPRepository(conn db.TxBeginner) *RSVPRepository {
	return &RSVPRepository{db: conn}
}

// Toggle flips the user's attendance of an event: an existing RSVP is removed,
// otherwise one is created
func (r *RSVPRepository) Toggle(ctx context.Context, userID, eventID uuid.UUID) (models.ToggleResult, error) {
	var result models.ToggleResult

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := lockEvent(ctx, tx, eventID); err != nil {
			return err
		}

		removed, err := deleteRSVP(ctx, tx, userID, eventID)
		if err != nil {
			return err
		}

		if removed {
			count, err := adjustAttendeeCount(ctx, tx, eventID, -1)
			if err != nil {
				return err
			}
			result = models.ToggleResult{Action: models.ToggleRemoved, Attending: false, AttendeeCount: count}
			return nil
		}

		if _, err := insertRSVP(ctx, tx, userID, eventID); err != nil {
			return err
		}
		count, err := adjustAttendeeCount(ctx, tx, eventID, 1)
		if err != nil {
			return err
		}
		result = models.ToggleResult{Action: models.ToggleCreated, Attending: true, AttendeeCount: count}
		return nil
	})
	if err != nil {
		return models.ToggleResult{}, err
	}

	return result, nil
}

// Create adds an RSVP and increments the counter. An existing RSVP for the
// pair yields apperrors.ErrAlreadyRSVPed.
func (r *RSVPRepository) Create(ctx context.Context, userID, eventID uuid.UUID) (*models.RSVP, error) {
	var rsvp *models.RSVP

	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := lockEvent(ctx, tx, eventID); err != nil {
			return err
		}

		created, err := insertRSVP(ctx, tx, userID, eventID)
		if err != nil {
			return err
		}
		if _, err := adjustAttendeeCount(ctx, tx, eventID, 1); err != nil {
			return err
		}
		rsvp = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	return rsvp, nil
}

// Exists reports whether the user has an RSVP for the event
func (r *RSVPRepository) Exists(ctx context.Context, userID, eventID uuid.UUID) (bool, error) {
	sql, args, err := psql.Select("1").
		Prefix("SELECT EXISTS (").
		From("rsvps").
		Where(squirrel.Eq{"user_id": userID, "event_id": eventID}).
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var exists bool
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking rsvp: %w", err)
	}
	return exists, nil
}

// ListByUser returns the user's RSVPs joined with their events, newest first
func (r *RSVPRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.RSVP, error) {
	sql, args, err := psql.Select(
		"r.id", "r.user_id", "r.event_id", "r.status", "r.created_at",
		"e.title", "e.description", "e.date", "e.location", "e.image_url", "e.category", "e.attendee_count",
	).
		From("rsvps r").
		Join("events e ON e.id = r.event_id").
		Where(squirrel.Eq{"r.user_id": userID}).
		OrderBy("r.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	rsvps := []*models.RSVP{}
	for rows.Next() {
		var (
			rsvp     models.RSVP
			event    models.Event
			status   string
			category string
		)
		err := rows.Scan(
			&rsvp.ID, &rsvp.UserID, &rsvp.EventID, &status, &rsvp.CreatedAt,
			&event.Title, &event.Description, &event.Date, &event.Location, &event.ImageURL, &category, &event.AttendeeCount,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		rsvp.Status = models.RSVPStatus(status)
		event.ID = rsvp.EventID
		event.Category = models.Category(category)
		rsvp.Event = &event
		rsvps = append(rsvps, &rsvp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return rsvps, nil
}

func deleteRSVP(ctx context.Context, tx db.DBTX, userID, eventID uuid.UUID) (bool, error) {
	sql, args, err := psql.Delete("rsvps").
		Where(squirrel.Eq{"user_id": userID, "event_id": eventID}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var id uuid.UUID
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("error deleting rsvp: %w", err)
	}
	return true, nil
}

func insertRSVP(ctx context.Context, tx db.DBTX, userID, eventID uuid.UUID) (*models.RSVP, error) {
	sql, args, err := psql.Insert("rsvps").
		Columns("user_id", "event_id", "status").
		Values(userID, eventID, string(models.RSVPStatusYes)).
		Suffix("ON CONFLICT (user_id, event_id) DO NOTHING RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rsvp := &models.RSVP{UserID: userID, EventID: eventID, Status: models.RSVPStatusYes}
	if err := tx.QueryRow(ctx, sql, args...).Scan(&rsvp.ID, &rsvp.CreatedAt); err != nil {
		switch {
		case isNoRows(err):
			return nil, apperrors.ErrAlreadyRSVPed
		case dberrors.IsForeignKeyViolation(err, "rsvps_user_id_fkey"):
			return nil, apperrors.ErrUserNotFound
		case dberrors.IsForeignKeyViolation(err, "rsvps_event_id_fkey"):
			return nil, apperrors.ErrEventNotFound
		default:
			return nil, fmt.Errorf("error creating rsvp: %w", err)
		}
	}
	return rsvp, nil
}
