package caldav

import (
	"context"
	"io"
	"net/http"
	"strings"
)

const (
	userAgent = "curl/7.37.0"

	// Query bodies go out with this content type; the target server
	// rejects the more correct application/xml.
	queryContentType = "application/x-www-form-urlencoded"

	// Event bodies are iCalendar text.
	calendarContentType = "text/calendar"
)

// execute performs one authenticated extended-HTTP request and returns
// the raw response body. depth controls collection traversal ("0" for
// the target itself, "1" to include immediate children); an empty depth
// omits the header. A connection failure or non-2xx status returns a
// *TransportError.
func (c *Client) execute(ctx context.Context, method, url, body, contentType, depth string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, strings.NewReader(body))
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}

	req.SetBasicAuth(c.username, c.password)
	// The server additionally wants the raw username as a second
	// Authorization value.
	req.Header.Add("Authorization", c.username)
	req.Header.Set("User-Agent", userAgent)
	if depth != "" {
		req.Header.Set("Depth", depth)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Method: method, URL: url, StatusCode: resp.StatusCode}
	}

	return data, nil
}

// CreateEvent stores a new event resource named after its UID inside the
// collection. PUT semantics make this create-or-replace.
func (c *Client) CreateEvent(ctx context.Context, col Collection, uid, body string) error {
	_, err := c.execute(ctx, http.MethodPut, col.EventURL(uid), body, calendarContentType, "")
	return err
}

// UpdateEvent unconditionally overwrites the event at its already-known
// location, preserving its UID.
func (c *Client) UpdateEvent(ctx context.Context, evt Event, body string) error {
	_, err := c.execute(ctx, http.MethodPut, c.absoluteURL(evt.Location), body, calendarContentType, "")
	return err
}
