package persistence

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"

	"github.com/2beens/pacelink/pkg"
)

// PersistenceError is terminal for a save: either every candidate combination
// was rejected, or the backend failed with an error that is not retried.
type PersistenceError struct {
	Attempts  int
	Exhausted bool
	// Err is the last error the backend returned.
	Err error

	all error
}

func (e *PersistenceError) Error() string {
	if e.Exhausted {
		return fmt.Sprintf("save workout: all %d candidates rejected, last: %s", e.Attempts, e.Err)
	}
	return fmt.Sprintf("save workout (attempt %d): %s", e.Attempts, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Errors returns every backend error observed during the save, in order.
func (e *PersistenceError) Errors() []error {
	return multierr.Errors(e.all)
}

// BackendMessage is the raw backend message, the way it is shown to the user.
func (e *PersistenceError) BackendMessage() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// IsConstraintMismatch reports whether err is a check violation on one of the
// enum columns, i.e. a rejected candidate spelling.
func IsConstraintMismatch(err error, constraintNames []string) bool {
	if err == nil {
		return false
	}

	if name := pkg.ConstraintName(err); name != "" {
		for _, known := range constraintNames {
			if name == known {
				return true
			}
		}
		return false
	}

	msg := err.Error()
	for _, known := range constraintNames {
		if strings.Contains(msg, known) {
			return true
		}
	}

	return pkg.IsCheckViolationError(err)
}
