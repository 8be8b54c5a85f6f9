package caldav

import (
	"context"
	"encoding/xml"
	"fmt"
	"time"
)

const calendarQueryBody = `<c:calendar-query xmlns:d='DAV:' xmlns:c='urn:ietf:params:xml:ns:caldav'>` +
	`<d:prop><d:getetag /><c:calendar-data /></d:prop>` +
	`<c:filter><c:comp-filter name='VCALENDAR'><c:comp-filter name='VEVENT'>` +
	`<c:time-range start='%s' end='%s'/>` +
	`</c:comp-filter></c:comp-filter></c:filter></c:calendar-query>`

// QueryEvents retrieves the events of the collection whose start falls
// inside [start, end], both normalized to UTC on the wire. Entries whose
// embedded calendar data is missing any of the fields the sync needs are
// dropped silently; they just never enter the match pool.
func (c *Client) QueryEvents(ctx context.Context, col Collection, start, end time.Time) ([]Event, error) {
	body := fmt.Sprintf(calendarQueryBody,
		start.UTC().Format(icsTimeLayout),
		end.UTC().Format(icsTimeLayout))

	data, err := c.execute(ctx, "REPORT", col.URL, body, queryContentType, "1")
	if err != nil {
		return nil, err
	}

	var ms multistatus
	if err := xml.Unmarshal(data, &ms); err != nil {
		return nil, &TransportError{Method: "REPORT", URL: col.URL, Err: fmt.Errorf("malformed report response: %w", err)}
	}

	events := make([]Event, 0, len(ms.Responses))
	for _, resp := range ms.Responses {
		for _, ps := range resp.Propstat {
			if !isSuccess(ps.Status) || ps.Prop.CalendarData == "" {
				continue
			}
			// The href carries the resource location the decoder
			// extracts; the calendar data carries the rest.
			evt, ok := DecodeEvent(resp.Href + "\n" + ps.Prop.CalendarData)
			if !ok {
				continue
			}
			events = append(events, evt)
		}
	}
	return events, nil
}
