package postgres

import (
	"fmt"
	"regexp"

	"github.com/xy-planning-network/junction"
)

var (
	// errSQLSyntax is a very loose aggregation of error codes
	// originating from PostgreSQL itself
	// that are some sort of syntax issue in the statement or datatype mismatch.
	//
	// Cf., https://www.postgresql.org/docs/current/errcodes-appendix.html
	errSQLSyntax = regexp.MustCompile(`SQLSTATE (42601|22P02)`)

	errConstraintViolation = regexp.MustCompile(`SQLSTATE (23502|23505)`)
)

// wrap classifies err from PostgreSQL under a junction sentinel error.
func wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}

	msg := fmt.Sprintf(format, args...)
	switch {
	case errSQLSyntax.MatchString(err.Error()), errConstraintViolation.MatchString(err.Error()):
		return fmt.Errorf("%w: %s: %s", junction.ErrNotValid, msg, err)
	default:
		return fmt.Errorf("%w: %s: %s", junction.ErrUnexpected, msg, err)
	}
}
