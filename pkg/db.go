package pkg

import (
	"errors"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
	pgCodeCheckViolation      = "23514"
)

// postgrest (REST backend) errors only carry text, e.g.:
//
//	(23514) new row for relation "workouts" violates check constraint "workouts_status_check"
var (
	restErrCodeRegex    = regexp.MustCompile(`^\((\w{5})\)`)
	constraintNameRegex = regexp.MustCompile(`constraint "([^"]+)"`)
)

// IsUniqueViolationError checks if the error is a unique violation error
func IsUniqueViolationError(err error) bool {
	if err == nil {
		return false
	}
	if errCode(err) == pgCodeUniqueViolation {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}

// IsForeignKeyViolationError checks if the error is a foreign key violation error
func IsForeignKeyViolationError(err error) bool {
	return err != nil && errCode(err) == pgCodeForeignKeyViolation
}

// IsCheckViolationError checks if the error is a check constraint violation error
func IsCheckViolationError(err error) bool {
	if err == nil {
		return false
	}
	if errCode(err) == pgCodeCheckViolation {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "violates check constraint")
}

// ConstraintName returns the name of the violated constraint, or empty string if unknown.
func ConstraintName(err error) string {
	if err == nil {
		return ""
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	if m := constraintNameRegex.FindStringSubmatch(err.Error()); len(m) == 2 {
		return m[1]
	}
	return ""
}

func errCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	if m := restErrCodeRegex.FindStringSubmatch(err.Error()); len(m) == 2 {
		return m[1]
	}
	return ""
}
