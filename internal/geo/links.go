package geo

import (
	"net/url"

	"golang.org/x/text/language"

	"direktmap/internal/station"
	"direktmap/internal/upstream"
)

const DefaultCalendarBaseURL = "https://bahn.guru/calendar"

// CalendarLink returns the price calendar URL for a connection. The URL
// supplied by the connections API wins; otherwise a calendar query for the
// two station names is built. Unset time windows are left out of the query.
func CalendarLink(base string, origin station.Station, c upstream.Connection) string {
	if c.CalendarURL != "" {
		return c.CalendarURL
	}
	if base == "" {
		base = DefaultCalendarBaseURL
	}
	q := url.Values{}
	q.Set("origin", origin.Name)
	q.Set("destination", c.Name)
	q.Set("submit", "Suchen")
	q.Set("class", "2")
	q.Set("bc", "0")
	q.Set("maxChanges", "0")
	q.Set("weeks", "4")
	return base + "?" + q.Encode()
}

// DBLink returns the timetable URL in the viewer's language, falling back to
// whichever variant the API supplied.
func DBLink(c upstream.Connection, lang language.Tag) string {
	base, _ := lang.Base()
	german, _ := language.German.Base()
	if base == german {
		if c.DBURLGerman != "" {
			return c.DBURLGerman
		}
		return c.DBURLEnglish
	}
	if c.DBURLEnglish != "" {
		return c.DBURLEnglish
	}
	return c.DBURLGerman
}
