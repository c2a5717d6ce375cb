package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint violation.
// constraint filters the match when set: postgres compares the constraint
// name (users_email_key), sqlite the table.column it reports (users.email).
func IsUniqueViolation(err error, constraint string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == pgUniqueViolation && matchesConstraint(pgxErr.ConstraintName, constraint)
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation && matchesConstraint(pqErr.Constraint, constraint)
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		if liteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
			return false
		}
		// "UNIQUE constraint failed: users.email"
		return constraint == "" || strings.Contains(liteErr.Error(), constraint)
	}
	return false
}

func matchesConstraint(actual, want string) bool {
	return want == "" || actual == want
}
