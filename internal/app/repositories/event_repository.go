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

// eventColumns are selected from events e joined with its creator u
var eventColumns = []string{
	"e.id", "e.title", "e.description", "e.detailed_description", "e.date", "e.location",
	"e.image_url", "e.category", "e.tags", "e.created_by", "e.attendee_count",
	"e.created_at", "e.updated_at", "u.full_name", "u.email",
}

// EventRepository handles database operations for events
type EventRepository struct {
	db db.TxBeginner
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(conn db.TxBeginner) *EventRepository {
	return &EventRepository{db: conn}
}

// Create inserts event and fills in its generated fields. A createdBy that
// does not reference a user yields apperrors.ErrCreatorNotFound.
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	tags := event.Tags
	if tags == nil {
		tags = []string{}
	}

	query := psql.Insert("events").
		Columns("title", "description", "detailed_description", "date", "location",
			"image_url", "category", "tags", "created_by").
		Values(event.Title, event.Description, event.DetailedDescription, event.Date, event.Location,
			event.ImageURL, string(event.Category), tags, event.CreatedBy).
		Suffix("RETURNING id, attendee_count, created_at, updated_at")

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&event.ID, &event.AttendeeCount, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err, "events_created_by_fkey") {
			return apperrors.ErrCreatorNotFound
		}
		return fmt.Errorf("error creating event: %w", err)
	}

	event.Tags = tags
	return nil
}

// GetByID retrieves an event with its creator
func (r *EventRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	sql, args, err := r.baseSelect().Where(squirrel.Eq{"e.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	event, err := scanEvent(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, fmt.Errorf("error getting event: %w", err)
	}
	return event, nil
}

// List returns events matching filter ordered by date, soonest first
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]*models.Event, error) {
	query := r.baseSelect().OrderBy("e.date ASC", "e.created_at ASC")
	if filter.Category != nil {
		query = query.Where(squirrel.Eq{"e.category": string(*filter.Category)})
	}
	if filter.CreatedBy != nil {
		query = query.Where(squirrel.Eq{"e.created_by": *filter.CreatedBy})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	events := []*models.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return events, nil
}

// FindCounterDrift lists events whose attendee_count differs from their RSVP rows
func (r *EventRepository) FindCounterDrift(ctx context.Context) ([]models.CounterDrift, error) {
	sql, args, err := psql.Select("e.id", "e.attendee_count", "COUNT(r.id)").
		From("events e").
		LeftJoin("rsvps r ON r.event_id = e.id").
		GroupBy("e.id", "e.attendee_count").
		Having("e.attendee_count <> COUNT(r.id)").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var drifts []models.CounterDrift
	for rows.Next() {
		var (
			d      models.CounterDrift
			actual int64
		)
		if err := rows.Scan(&d.EventID, &d.Stored, &actual); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		d.Actual = int(actual)
		drifts = append(drifts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return drifts, nil
}

// RepairAttendeeCount recomputes one event's counter from its RSVP rows under
// the same row lock the RSVP operations take
func (r *EventRepository) RepairAttendeeCount(ctx context.Context, eventID uuid.UUID) (int, error) {
	var count int
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := lockEvent(ctx, tx, eventID); err != nil {
			return err
		}

		sql, args, err := psql.Update("events").
			Set("attendee_count", squirrel.Expr("(SELECT COUNT(*) FROM rsvps WHERE event_id = ?)", eventID)).
			Where(squirrel.Eq{"id": eventID}).
			Suffix("RETURNING attendee_count").
			ToSql()
		if err != nil {
			return fmt.Errorf("error building SQL: %w", err)
		}

		if err := tx.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
			return fmt.Errorf("error repairing attendee count: %w", err)
		}
		return nil
	})
	return count, err
}

func (r *EventRepository) baseSelect() squirrel.SelectBuilder {
	return psql.Select(eventColumns...).
		From("events e").
		Join("users u ON u.id = e.created_by")
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var (
		event    models.Event
		category string
		creator  models.User
	)
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.DetailedDescription,
		&event.Date,
		&event.Location,
		&event.ImageURL,
		&category,
		&event.Tags,
		&event.CreatedBy,
		&event.AttendeeCount,
		&event.CreatedAt,
		&event.UpdatedAt,
		&creator.FullName,
		&creator.Email,
	)
	if err != nil {
		return nil, err
	}

	event.Category = models.Category(category)
	creator.ID = event.CreatedBy
	event.Creator = &creator
	return &event, nil
}

// lockEvent takes the row lock that serializes every attendee_count change
func lockEvent(ctx context.Context, tx db.DBTX, eventID uuid.UUID) error {
	sql, args, err := psql.Select("id").
		From("events").
		Where(squirrel.Eq{"id": eventID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	var id uuid.UUID
	if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		if isNoRows(err) {
			return apperrors.ErrEventNotFound
		}
		return fmt.Errorf("error locking event: %w", err)
	}
	return nil
}

// adjustAttendeeCount applies delta and returns the new count
func adjustAttendeeCount(ctx context.Context, tx db.DBTX, eventID uuid.UUID, delta int) (int, error) {
	sql, args, err := psql.Update("events").
		Set("attendee_count", squirrel.Expr("attendee_count + ?", delta)).
		Where(squirrel.Eq{"id": eventID}).
		Suffix("RETURNING attendee_count").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int
	if err := tx.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		if dberrors.IsCheckViolation(err, "") {
			return 0, fmt.Errorf("attendee count would become negative for event %s: %w", eventID, err)
		}
		return 0, fmt.Errorf("error updating attendee count: %w", err)
	}
	return count, nil
}
