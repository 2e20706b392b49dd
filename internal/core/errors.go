package core

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptyQuestion is returned by Submit when there is nothing to ask.
	ErrEmptyQuestion = errors.New("empty question")
	// ErrQueryInFlight is returned by Submit while another submission is pending.
	ErrQueryInFlight = errors.New("a query is already in flight")
	// ErrCorruptPersistedState marks an unreadable history payload. It is
	// only ever logged.
	ErrCorruptPersistedState = errors.New("corrupt persisted history")
)

// ServerError is a non-2xx reply from the generation endpoint.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body)
}

// TransportError wraps a failure to reach the generation endpoint.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport failure: " + e.Err.Error() }
func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError means the reply body could not be parsed at all.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return "decode failure: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }

// FailureKind names the taxonomy bucket of err, for logging.
func FailureKind(err error) string {
	var (
		serverErr    *ServerError
		transportErr *TransportError
		decodeErr    *DecodeError
	)
	switch {
	case errors.As(err, &serverErr):
		return "ServerError"
	case errors.As(err, &transportErr):
		return "TransportFailure"
	case errors.As(err, &decodeErr):
		return "DecodeFailure"
	case errors.Is(err, ErrCorruptPersistedState):
		return "CorruptPersistedState"
	default:
		return "Unknown"
	}
}
