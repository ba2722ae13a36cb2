package protocols

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	ErrScratchAlloc = errors.New("scratch file allocation failed")
	ErrTransport    = errors.New("transport failure")
)

// StatusError is returned for any response other than 200 OK.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.Code, http.StatusText(e.Code))
}

// requestError ties a failure to the order that produced it while keeping
// both the kind and the cause visible to errors.Is.
type requestError struct {
	kind  error
	order string
	err   error
}

func newRequestError(kind error, order string, err error) error {
	return &requestError{kind: kind, order: order, err: err}
}

func (e *requestError) Error() string {
	return fmt.Sprintf("%s for order %s: %v", e.kind, e.order, e.err)
}

func (e *requestError) Unwrap() []error { return []error{e.kind, e.err} }

// Kind classifies a request error for reporting.
func Kind(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &se):
		return "status"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, ErrScratchAlloc):
		return "scratch"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "internal"
	}
}
