package grocy

import (
	"errors"
	"fmt"
	"net"
	"net/http"
)

// NetworkError means the request never produced an HTTP response: the host
// was unreachable, the connection dropped, or the timeout expired.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Timeout reports whether the failure was a timeout.
func (e *NetworkError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// RemoteError is a response grocy answered with an error status. Message is
// the server's error_message when it sent one.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("grocy returned %d: %s", e.Status, e.Message)
}

// ServerSide reports whether grocy blamed itself (5xx) rather than the request.
func (e *RemoteError) ServerSide() bool {
	return e.Status >= http.StatusInternalServerError
}

// UnrecognizedResponseError is a chore execution answered with a status that
// is neither success nor one of grocy's documented error statuses. Whether
// the chore was tracked is unknown.
type UnrecognizedResponseError struct {
	Status int
}

func (e *UnrecognizedResponseError) Error() string {
	return fmt.Sprintf("unrecognized grocy response: %d", e.Status)
}
