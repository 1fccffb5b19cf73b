package prefs

import "errors"

var (
	// ErrUnknownKey is returned when a field operation names a key that has
	// no field binding.
	ErrUnknownKey = errors.New("unknown preference key")

	// ErrClosed is returned when an editor is used after it was confirmed
	// or canceled.
	ErrClosed = errors.New("preferences editor is closed")

	// ErrNotText is returned when a value is committed to a field that is
	// only set through a chooser or a checkbox of another kind.
	ErrNotText = errors.New("preference is not edited as text")
)

// ValidationError reports a rejected field edit. Message is suitable for
// showing to the user as is.
type ValidationError struct {
	Key     string
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
