package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/baharkarakas/event-hub/internal/apperr"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	invalidTextRep      = "22P02" // e.g. a non-uuid id
)

// wrap translates driver errors into the apperr taxonomy. onUnique is used for 23505.
// Malformed ids and dangling references resolve nothing, so both read as not found.
func wrap(op string, err error, onUnique error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == uniqueViolation && onUnique != nil:
			return fmt.Errorf("%s: %w", op, onUnique)
		case pgErr.Code == invalidTextRep, pgErr.Code == foreignKeyViolation:
			return fmt.Errorf("%s: %w", op, apperr.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
