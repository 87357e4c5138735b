package helpers

import (
	"strings"

	"github.com/Karthik-kushal/finalmini/internal/pkg/apperrors"
	"github.com/google/uuid"
)

// ParseID parses an identifier from a path, query or body. A malformed value
// yields apperrors.ErrInvalidID.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperrors.ErrInvalidID
	}
	return id, nil
}

// ParseOptionalID parses raw when it is not blank
func ParseOptionalID(raw string) (*uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := ParseID(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
