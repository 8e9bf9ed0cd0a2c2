package domain

import (
	"context"
	"time"
)

// CalendarEntry is one event's appearance on a single calendar day. A
// multi-day event appears once per day it spans, tagged for rendering.
type CalendarEntry struct {
	Event      *Event    `json:"event"`
	Date       time.Time `json:"date"`
	IsFirstDay bool      `json:"is_first_day"`
	IsLastDay  bool      `json:"is_last_day"`
	IsMultiDay bool      `json:"is_multi_day"`
}

// CalendarDay groups the entries for one day.
type CalendarDay struct {
	Date    time.Time        `json:"date"`
	Entries []*CalendarEntry `json:"entries"`
}

// CalendarService answers schedule queries and produces calendar exports.
// Conflict results are advisory: they are computed at call time with no
// transactional guarantee against a concurrent save.
type CalendarService interface {
	CheckScheduleConflicts(ctx context.Context, start, end time.Time, excludeEventID string) ([]*Event, error)
	GetMonthEvents(ctx context.Context, year int, month time.Month) ([]*CalendarDay, error)
	GetDateRangeEvents(ctx context.Context, from, to time.Time) ([]*CalendarDay, error)
	// GenerateICalendar renders the events as an iCalendar payload (CRLF
	// line endings, one VEVENT per event).
	GenerateICalendar(events ...*Event) ([]byte, error)
	GoogleCalendarLink(event *Event) string
	OutlookCalendarLink(event *Event) string
}
