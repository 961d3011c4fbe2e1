package document

import "errors"

var (
	// ErrUnsupportedFormat is returned for file extensions no format handles.
	ErrUnsupportedFormat = errors.New("unsupported file type")

	// ErrNoText is returned when a document yields no chapter text at all.
	ErrNoText = errors.New("no text found")
)

// ParseError is a parse failure whose Message is safe to show to a user.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseError(msg string, err error) error {
	return &ParseError{Message: msg, Err: err}
}

// UserMessage returns the text to show the user for this failure.
func (e *ParseError) UserMessage() string { return e.Message }
