package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// isID reports whether id has the canonical UUID form every primary key uses.
// Anything else cannot match a row, and Postgres would reject it with 22P02
// instead of returning no rows.
func isID(id string) bool {
	u, err := uuid.Parse(id)
	return err == nil && u.String() == strings.ToLower(id)
}

const pgUniqueViolation = "23505"

// ErrDuplicate is returned when an insert hits a unique constraint.
var ErrDuplicate = errors.New("duplicate record")

// DuplicateError names the constraint that rejected the write.
type DuplicateError struct {
	Constraint string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDuplicate, e.Constraint)
}

func (e *DuplicateError) Unwrap() error { return ErrDuplicate }

// translateError turns Postgres unique violations into *DuplicateError and
// leaves every other error untouched.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return &DuplicateError{Constraint: pgErr.ConstraintName}
	}
	return err
}

// DuplicateConstraint returns the violated constraint name, or "" if err is not
// a duplicate.
func DuplicateConstraint(err error) string {
	var dup *DuplicateError
	if errors.As(err, &dup) {
		return dup.Constraint
	}
	return ""
}
