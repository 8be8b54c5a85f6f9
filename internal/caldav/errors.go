package caldav

import "fmt"

// TransportError reports a failed HTTP round trip: either the connection
// itself failed or the server answered with a non-2xx status. Both are
// fatal for the run.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int // zero when the request never got a response
	Err        error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("caldav: %s %s: %v", e.Method, e.URL, e.Err)
	}
	return fmt.Sprintf("caldav: %s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DiscoveryError reports a failed step of the calendar discovery walk.
// Without a resolved collection no sync can proceed, so it is fatal.
type DiscoveryError struct {
	Step   string // "principal", "home-set", "listing" or "selection"
	Reason string
}

func (e *DiscoveryError) Error() string {
	return fmt.Sprintf("caldav discovery (%s): %s", e.Step, e.Reason)
}
