package dberrors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes we branch on.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// IsDuplicateConstraintError checks if the error is a PostgreSQL unique violation.
// An empty constraintName matches any unique constraint.
func IsDuplicateConstraintError(err error, constraintName string) bool {
	return matches(err, codeUniqueViolation, constraintName)
}

// IsForeignKeyViolation checks if the error is a PostgreSQL foreign key violation.
// An empty constraintName matches any foreign key.
func IsForeignKeyViolation(err error, constraintName string) bool {
	return matches(err, codeForeignKeyViolation, constraintName)
}

// IsCheckViolation checks if the error is a PostgreSQL CHECK constraint violation.
func IsCheckViolation(err error, constraintName string) bool {
	return matches(err, codeCheckViolation, constraintName)
}

func matches(err error, code, constraintName string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != code {
		return false
	}
	return constraintName == "" || pgErr.ConstraintName == constraintName
}
