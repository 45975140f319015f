package httperr

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode returns the code of a BusinessError anywhere in err's chain.
func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}

// Postgres SQLSTATE codes.
const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

// IsExclusionConflict reports whether err comes from an exclusion constraint,
// which is how overlapping appointments surface when two requests race.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation
	}
	return false
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

func isNotFoundCode(code string) bool {
	return strings.HasSuffix(code, "_not_found")
}

var conflictCodes = map[string]bool{
	"time_conflict":               true,
	"invalid_state":               true,
	"cash_register_already_open":  true,
	"cash_register_closed":        true,
	"insufficient_stock":          true,
	"slug_already_exists":         true,
	"email_already_exists":        true,
	"nothing_to_pay":              true,
	"critical_difference_no_note": true,
}
