package catalog

import (
	"errors"
	"fmt"
	"net"
)

// UpstreamError reports a failed catalog call: transport failure or
// timeout (Err set, StatusCode zero), a non-2xx status (StatusCode and Body
// set), or an undecodable payload (both StatusCode and Err set).
type UpstreamError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("catalog %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("catalog %s: %v", e.Op, e.Err)
	case e.Body != "":
		return fmt.Sprintf("catalog %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
	default:
		return fmt.Sprintf("catalog %s: unexpected status %d", e.Op, e.StatusCode)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Timeout reports whether the call failed because a deadline expired.
func (e *UpstreamError) Timeout() bool {
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}
