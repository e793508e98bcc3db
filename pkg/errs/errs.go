package errs

import "errors"

// Err represents an expected error. Handlers return it when the failure is caused
// by the user input rather than by the bot, so it's reported at info level.
type Err struct { //nolint:errname
	Message string `json:"message"`
}

var _ error = (*Err)(nil)

// New creates a new expected error with the given message.
func New(message string) *Err {
	return &Err{Message: message}
}

func (e *Err) Error() string {
	return e.Message
}

// IsExpected checks if the given error or any error it wraps is of Err type.
func IsExpected(err error) bool {
	var expected *Err
	return errors.As(err, &expected)
}

// Message returns the message of the expected error from the chain or empty string.
func Message(err error) string {
	var expected *Err
	if errors.As(err, &expected) {
		return expected.Message
	}

	return ""
}
