package leads

import "errors"

var (
	// ErrTableNotFound indicates the backing lead table does not exist.
	ErrTableNotFound = errors.New("leads: table not found")

	// ErrAccessDenied indicates the store rejected the caller's credentials.
	ErrAccessDenied = errors.New("leads: access denied")

	// ErrDuplicateID indicates a record with the same id already exists.
	// Each submission mints a fresh id, so hitting this means a generator bug.
	ErrDuplicateID = errors.New("leads: duplicate id")

	// ErrLeadNotFound is returned when a lead is not found.
	ErrLeadNotFound = errors.New("leads: lead not found")
)

// ValidationError reports every unusable field in one pass so callers can
// render the complete list, plus a shape failure for a present email.
type ValidationError struct {
	MissingFields []string
	EmailInvalid  bool
}

func (e *ValidationError) Error() string {
	if len(e.MissingFields) > 0 {
		msg := "missing required fields:"
		for _, f := range e.MissingFields {
			msg += " " + f
		}
		return msg
	}
	if e.EmailInvalid {
		return "invalid email format"
	}
	return "invalid submission"
}
