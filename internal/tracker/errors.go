package tracker

import "fmt"

// NetworkError is a transport-level failure: the request never produced an
// HTTP response.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ProtocolError is a non-2xx response or a malformed body.
type ProtocolError struct {
	Op         string
	StatusCode int // zero when the body was unreadable rather than the status wrong
	Msg        string
}

func (e *ProtocolError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("protocol error during %s: status %d: %s", e.Op, e.StatusCode, e.Msg)
	}
	return fmt.Sprintf("protocol error during %s: %s", e.Op, e.Msg)
}

// ValidationError is a client-side rejection raised before any network call.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Msg
}
