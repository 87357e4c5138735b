package repositories

import (
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/Karthik-kushal/finalmini/internal/db"
)

// psql builds Postgres statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository  *UserRepository
	EventRepository *EventRepository
	RSVPRepository  *RSVPRepository
}

// NewRepositories initializes all repositories
func NewRepositories(conn db.TxBeginner) *Repositories {
	return &Repositories{
		UserRepository:  NewUserRepository(conn),
		EventRepository: NewEventRepository(conn),
		RSVPRepository:  NewRSVPRepository(conn),
	}
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
