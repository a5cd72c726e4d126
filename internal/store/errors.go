package store

import "errors"

// ErrNotFound is returned when a referenced document does not exist. Handlers
// map it to 404.
var ErrNotFound = errors.New("not found")

// ValidationError marks missing or malformed input. Handlers map it to 400.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
