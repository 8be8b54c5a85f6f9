package caldav

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/xml"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds every single request against the server.
	DefaultTimeout = 30 * time.Second
)

// Client talks to one CalDAV server on behalf of one user. Construct it
// once per run and pass it to the discovery, query and sync steps.
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
}

// NewClient creates a client for the given server endpoint and basic
// credentials. A non-positive timeout falls back to DefaultTimeout.
func NewClient(baseURL, username, password string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		username: username,
		password: password,
		http:     &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the server endpoint the client was built for.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// absoluteURL resolves a server-relative location like
// "/calendars/user/dynamo/abc.ics" against the base endpoint.
func (c *Client) absoluteURL(location string) string {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return location
	}
	if !strings.HasPrefix(location, "/") {
		location = "/" + location
	}
	return c.baseURL + location
}

// Collection is a resolved calendar collection, the target of all reads
// and writes of one run.
type Collection struct {
	URL string `json:"url"`
}

// EventURL returns the resource URL for an event with the given UID
// inside the collection.
func (col Collection) EventURL(uid string) string {
	return strings.TrimSuffix(col.URL, "/") + "/" + uid + ".ics"
}

// Event is an existing remote event as far as the sync cares about it:
// where it lives, which fixture it describes and its protocol-level id.
type Event struct {
	// Location is the resource path relative to the server root.
	Location    string `json:"location"`
	Description string `json:"description"`
	UID         string `json:"uid"`
}

// NewUID generates a fresh protocol-level event id: the unpadded URL-safe
// base64 encoding of 128 random bits.
func NewUID() string {
	buf := make([]byte, 16)
	_, _ = rand.Read(buf) // never fails as of go1.24
	return base64.RawURLEncoding.EncodeToString(buf)
}

// Wire structs for WebDAV multistatus responses. Field tags match local
// element names only, so servers may use whatever namespace prefixes
// they like.
type multistatus struct {
	XMLName   xml.Name     `xml:"multistatus"`
	Responses []wsResponse `xml:"response"`
}

type wsResponse struct {
	Href     string       `xml:"href"`
	Propstat []wsPropstat `xml:"propstat"`
}

type wsPropstat struct {
	Status string `xml:"status"`
	Prop   wsProp `xml:"prop"`
}

type wsProp struct {
	CurrentUserPrincipal *wsHref `xml:"current-user-principal"`
	CalendarHomeSet      *wsHref `xml:"calendar-home-set"`
	DisplayName          *string `xml:"displayname"`
	CalendarData         string  `xml:"calendar-data"`
}

type wsHref struct {
	Href string `xml:"href"`
}

// isSuccess reports whether a DAV status line like "HTTP/1.1 200 OK"
// carries a success code.
func isSuccess(status string) bool {
	fields := strings.Fields(status)
	return len(fields) >= 2 && strings.HasPrefix(fields[1], "2")
}
