package caldav

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"
)

const (
	propfindPrincipal = `<propfind xmlns='DAV:'><prop><current-user-principal/></prop></propfind>`
	propfindHomeSet   = `<propfind xmlns='DAV:' xmlns:cd='urn:ietf:params:xml:ns:caldav'><prop><cd:calendar-home-set/></prop></propfind>`
	propfindListing   = `<propfind xmlns='DAV:'><prop><displayname/><getctag/></prop></propfind>`
)

// calendarEntry is one child collection of the user's calendar home set.
type calendarEntry struct {
	Name string
	Href string
}

// FindCalendar resolves the calendar collection whose display name
// exactly equals name. It walks principal -> calendar home set ->
// collection listing, three round trips, each depending on the prior
// response. Anything short of a unique match is a *DiscoveryError.
func (c *Client) FindCalendar(ctx context.Context, name string) (Collection, error) {
	principal, err := c.findPrincipal(ctx)
	if err != nil {
		return Collection{}, err
	}

	homeSet, err := c.findHomeSet(ctx, principal)
	if err != nil {
		return Collection{}, err
	}

	var entries []calendarEntry
	if homeSet != "" {
		entries, err = c.listCalendars(ctx, homeSet)
		if err != nil {
			return Collection{}, err
		}
	}

	var matches []calendarEntry
	for _, entry := range entries {
		if entry.Name == name {
			matches = append(matches, entry)
		}
	}
	switch len(matches) {
	case 1:
		return Collection{URL: c.absoluteURL(matches[0].Href)}, nil
	case 0:
		return Collection{}, &DiscoveryError{Step: "selection", Reason: fmt.Sprintf("calendar %q not found", name)}
	default:
		return Collection{}, &DiscoveryError{Step: "selection", Reason: fmt.Sprintf("calendar %q matches %d collections", name, len(matches))}
	}
}

// findPrincipal asks the base endpoint for the current user principal.
func (c *Client) findPrincipal(ctx context.Context) (string, error) {
	ps, err := c.propfindSingle(ctx, c.baseURL, propfindPrincipal, "principal")
	if err != nil {
		return "", err
	}

	if ps.Prop.CurrentUserPrincipal == nil || strings.TrimSpace(ps.Prop.CurrentUserPrincipal.Href) == "" {
		return "", &DiscoveryError{Step: "principal", Reason: "no principal reference in response"}
	}
	return strings.TrimSpace(ps.Prop.CurrentUserPrincipal.Href), nil
}

// findHomeSet asks the principal for its calendar home set. A missing
// home-set element means the user simply has no calendars; only a
// missing or non-success status is an error.
func (c *Client) findHomeSet(ctx context.Context, principal string) (string, error) {
	ps, err := c.propfindSingle(ctx, c.absoluteURL(principal), propfindHomeSet, "home-set")
	if err != nil {
		return "", err
	}

	if ps.Prop.CalendarHomeSet == nil {
		return "", nil
	}
	return strings.TrimSpace(ps.Prop.CalendarHomeSet.Href), nil
}

// listCalendars lists the home set's immediate children. Entries whose
// own status is not success, or that carry no display name, are skipped.
func (c *Client) listCalendars(ctx context.Context, homeSet string) ([]calendarEntry, error) {
	data, err := c.execute(ctx, "PROPFIND", c.absoluteURL(homeSet), propfindListing, queryContentType, "1")
	if err != nil {
		return nil, err
	}

	var ms multistatus
	if err := xml.Unmarshal(data, &ms); err != nil {
		return nil, &DiscoveryError{Step: "listing", Reason: fmt.Sprintf("malformed response: %v", err)}
	}

	var entries []calendarEntry
	for _, resp := range ms.Responses {
		for _, ps := range resp.Propstat {
			if !isSuccess(ps.Status) || ps.Prop.DisplayName == nil {
				continue
			}
			entries = append(entries, calendarEntry{
				Name: *ps.Prop.DisplayName,
				Href: strings.TrimSpace(resp.Href),
			})
		}
	}
	return entries, nil
}

// propfindSingle issues a Depth 0 PROPFIND and returns the first propstat
// of the first response, requiring its status to be success.
func (c *Client) propfindSingle(ctx context.Context, url, body, step string) (*wsPropstat, error) {
	data, err := c.execute(ctx, "PROPFIND", url, body, queryContentType, "0")
	if err != nil {
		return nil, err
	}

	var ms multistatus
	if err := xml.Unmarshal(data, &ms); err != nil {
		return nil, &DiscoveryError{Step: step, Reason: fmt.Sprintf("malformed response: %v", err)}
	}

	if len(ms.Responses) == 0 || len(ms.Responses[0].Propstat) == 0 {
		return nil, &DiscoveryError{Step: step, Reason: "no status in response"}
	}

	ps := ms.Responses[0].Propstat[0]
	if !isSuccess(ps.Status) {
		return nil, &DiscoveryError{Step: step, Reason: fmt.Sprintf("status %q", strings.TrimSpace(ps.Status))}
	}
	return &ps, nil
}
