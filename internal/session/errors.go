package session

import (
	"errors"
	"fmt"
)

// ErrEmptyKeyword is matched by the ValidationError returned for a blank
// keyword.
var ErrEmptyKeyword = errors.New("search keyword is empty")

// ConnectionLostMessage is the user-facing text for transport failures.
const ConnectionLostMessage = "connection to search server lost"

// ValidationError rejects a Start call before any connection is opened.
type ValidationError struct {
	Keyword string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid keyword %q: %v", e.Keyword, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// TransportError records a connection-level failure of a search stream.
type TransportError struct {
	Op      string // "dial" or "read"
	Keyword string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s search stream for %q: %v", e.Op, e.Keyword, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ErrClosed is returned by Start after the controller was closed.
var ErrClosed = errors.New("session controller closed")
