package services

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"advisorycms/internal/domain"
)

const (
	icsProdID         = "-//advisorycms//events//EN"
	icsMaxDescription = 1000
	icsLineLimit      = 75
)

type calendarService struct {
	eventRepo      domain.EventRepository
	organizerName  string
	organizerEmail string
	contextTimeout time.Duration
}

// NewCalendarService creates a CalendarService backed by the event repository.
// Organizer name and email are stamped into generated calendar files.
func NewCalendarService(eventRepo domain.EventRepository, organizerName, organizerEmail string, timeout time.Duration) domain.CalendarService {
	return &calendarService{
		eventRepo:      eventRepo,
		organizerName:  organizerName,
		organizerEmail: organizerEmail,
		contextTimeout: timeout,
	}
}

// CheckScheduleConflicts returns every other event overlapping [start,end).
// The result is advisory: there is no guard against a save racing the check.
func (s *calendarService) CheckScheduleConflicts(ctx context.Context, start, end time.Time, excludeEventID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !end.After(start) {
		return nil, fmt.Errorf("end must be after start: %w", domain.ErrInvalidInput)
	}
	events, err := s.eventRepo.ListOverlapping(ctx, start, end, excludeEventID)
	if err != nil {
		return nil, fmt.Errorf("list overlapping events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *calendarService) GetMonthEvents(ctx context.Context, year int, month time.Month) ([]*domain.CalendarDay, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("invalid month %d: %w", month, domain.ErrInvalidInput)
	}
	from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	return s.GetDateRangeEvents(ctx, from, to)
}

// GetDateRangeEvents buckets overlapping events by calendar day. A multi-day
// event appears once per day it spans inside the range, tagged so the caller
// can render continuation rows.
func (s *calendarService) GetDateRangeEvents(ctx context.Context, from, to time.Time) ([]*domain.CalendarDay, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !to.After(from) {
		return nil, fmt.Errorf("range end must be after start: %w", domain.ErrInvalidInput)
	}
	events, err := s.eventRepo.ListOverlapping(ctx, from, to, "")
	if err != nil {
		return nil, fmt.Errorf("list overlapping events: %w", err)
	}

	days := make(map[time.Time][]*domain.CalendarEntry)
	for _, event := range events {
		firstDay := truncateToDay(event.Schedule.StartDate)
		lastDay := truncateToDay(event.Schedule.EndDate)
		multiDay := lastDay.After(firstDay)
		for day := firstDay; !day.After(lastDay); day = day.AddDate(0, 0, 1) {
			if day.Before(truncateToDay(from)) || !day.Before(to) {
				continue
			}
			days[day] = append(days[day], &domain.CalendarEntry{
				Event:      event,
				Date:       day,
				IsFirstDay: day.Equal(firstDay),
				IsLastDay:  day.Equal(lastDay),
				IsMultiDay: multiDay,
			})
		}
	}

	result := make([]*domain.CalendarDay, 0, len(days))
	for day, entries := range days {
		result = append(result, &domain.CalendarDay{Date: day, Entries: entries})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func truncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GenerateICalendar renders the events as an iCalendar payload: CRLF line
// endings, lines folded at 75 octets, one VEVENT per event with an
// HTML-stripped description truncated to 1000 characters.
func (s *calendarService) GenerateICalendar(events ...*domain.Event) ([]byte, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("no events to render: %w", domain.ErrInvalidInput)
	}
	var b strings.Builder
	writeICSLine(&b, "BEGIN:VCALENDAR")
	writeICSLine(&b, "VERSION:2.0")
	writeICSLine(&b, "PRODID:"+icsProdID)
	writeICSLine(&b, "CALSCALE:GREGORIAN")
	writeICSLine(&b, "METHOD:PUBLISH")

	now := time.Now().UTC()
	for _, event := range events {
		writeICSLine(&b, "BEGIN:VEVENT")
		writeICSLine(&b, "UID:"+uuid.NewString()+"@advisorycms")
		writeICSLine(&b, "DTSTAMP:"+now.Format(icsTimeLayout))
		writeICSLine(&b, "DTSTART:"+event.Schedule.StartDate.UTC().Format(icsTimeLayout))
		writeICSLine(&b, "DTEND:"+event.Schedule.EndDate.UTC().Format(icsTimeLayout))
		writeICSLine(&b, "SUMMARY:"+escapeICSText(event.Title))

		desc := stripHTML(event.Content.Description)
		if runes := []rune(desc); len(runes) > icsMaxDescription {
			desc = string(runes[:icsMaxDescription])
		}
		if desc != "" {
			writeICSLine(&b, "DESCRIPTION:"+escapeICSText(desc))
		}
		if loc := icsLocation(event); loc != "" {
			writeICSLine(&b, "LOCATION:"+escapeICSText(loc))
		}
		if s.organizerEmail != "" {
			writeICSLine(&b, fmt.Sprintf("ORGANIZER;CN=%s:mailto:%s", s.organizerName, s.organizerEmail))
		}
		switch event.Status {
		case domain.EventStatusCancelled:
			writeICSLine(&b, "STATUS:CANCELLED")
		default:
			writeICSLine(&b, "STATUS:CONFIRMED")
		}
		writeICSLine(&b, "END:VEVENT")
	}
	writeICSLine(&b, "END:VCALENDAR")
	return []byte(b.String()), nil
}

const icsTimeLayout = "20060102T150405Z"

func icsLocation(event *domain.Event) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{event.Location.Venue, event.Location.Address, event.Location.City} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return event.Location.VirtualURL
	}
	return strings.Join(parts, ", ")
}

// writeICSLine appends the line with CRLF, folding at 75 octets with a
// leading space on continuation lines per RFC 5545. A fold never lands inside
// a multi-octet UTF-8 sequence, so the cut backs off to the nearest rune start.
func writeICSLine(b *strings.Builder, line string) {
	for len(line) > icsLineLimit {
		cut := icsLineLimit
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		b.WriteString(line[:cut])
		b.WriteString("\r\n ")
		line = line[cut:]
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

// escapeICSText escapes backslash, semicolon, comma, and newlines per RFC 5545.
func escapeICSText(s string) string {
	r := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
	)
	return r.Replace(s)
}

var htmlTagRe = regexp.MustCompile(`<[^>]*>`)

// stripHTML drops tags and collapses the remaining whitespace.
func stripHTML(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// GoogleCalendarLink builds an add-to-calendar URL for Google Calendar.
func (s *calendarService) GoogleCalendarLink(event *domain.Event) string {
	v := url.Values{}
	v.Set("action", "TEMPLATE")
	v.Set("text", event.Title)
	v.Set("dates", event.Schedule.StartDate.UTC().Format(icsTimeLayout)+"/"+event.Schedule.EndDate.UTC().Format(icsTimeLayout))
	if desc := stripHTML(event.Content.Description); desc != "" {
		v.Set("details", desc)
	}
	if loc := icsLocation(event); loc != "" {
		v.Set("location", loc)
	}
	return "https://calendar.google.com/calendar/render?" + v.Encode()
}

// OutlookCalendarLink builds an add-to-calendar URL for Outlook on the web.
func (s *calendarService) OutlookCalendarLink(event *domain.Event) string {
	v := url.Values{}
	v.Set("path", "/calendar/action/compose")
	v.Set("subject", event.Title)
	v.Set("startdt", event.Schedule.StartDate.UTC().Format(time.RFC3339))
	v.Set("enddt", event.Schedule.EndDate.UTC().Format(time.RFC3339))
	if desc := stripHTML(event.Content.Description); desc != "" {
		v.Set("body", desc)
	}
	if loc := icsLocation(event); loc != "" {
		v.Set("location", loc)
	}
	return "https://outlook.live.com/calendar/0/deeplink/compose?" + v.Encode()
}
