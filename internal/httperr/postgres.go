package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation      = "23505"
	pgExclusionViolation   = "23P01"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsExclusionConflict reports whether err came from the reservation overlap
// exclusion constraint (or any other EXCLUDE constraint).
func IsExclusionConflict(err error) bool {
	return pgCode(err) == pgExclusionViolation
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

// IsRetryable reports a transaction Postgres aborted because of concurrent
// work (serialization failure or deadlock). Running it again may succeed.
func IsRetryable(err error) bool {
	switch pgCode(err) {
	case pgSerializationFailure, pgDeadlockDetected:
		return true
	}
	return false
}
