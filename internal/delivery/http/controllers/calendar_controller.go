package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"advisorycms/internal/delivery/http/helpers"
	"advisorycms/internal/domain"
)

// MonthCalendarSuccessResponse is the success envelope for GET /api/calendar/{year}/{month} (200).
type MonthCalendarSuccessResponse struct {
	Data  []*domain.CalendarDay `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ConflictsResponse is the data payload for GET /api/calendar/conflicts (200).
type ConflictsResponse struct {
	Conflicts []*domain.Event `json:"conflicts"`
}

// ConflictsSuccessResponse is the success envelope for GET /api/calendar/conflicts (200).
type ConflictsSuccessResponse struct {
	Data  ConflictsResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CalendarLinksResponse is the data payload for GET /api/events/{eventID}/calendar-links (200).
type CalendarLinksResponse struct {
	Google  string `json:"google"`
	Outlook string `json:"outlook"`
}

// CalendarLinksSuccessResponse is the success envelope for GET /api/events/{eventID}/calendar-links (200).
type CalendarLinksSuccessResponse struct {
	Data  CalendarLinksResponse `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

type CalendarController struct {
	Logger  *slog.Logger
	Service domain.CalendarService
	Events  domain.EventService
}

func NewCalendarController(logger *slog.Logger, svc domain.CalendarService, events domain.EventService) *CalendarController {
	return &CalendarController{
		Logger:  logger,
		Service: svc,
		Events:  events,
	}
}

func (c *CalendarController) writeCalendarError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// ExportICS godoc
// @Summary Download an event as an iCalendar file
// @Description Returns the event as a text/calendar (.ics) attachment suitable for importing into calendar apps.
// @Tags calendar
// @Produce text/calendar
// @Param eventID path string true "Event ID"
// @Success 200 {string} string "iCalendar payload"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/calendar.ics [get]
func (c *CalendarController) ExportICS(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Events.GetEvent(r.Context(), eventID)
	if err != nil {
		c.writeCalendarError(w, r, err)
		return
	}
	payload, err := c.Service.GenerateICalendar(event)
	if err != nil {
		c.writeCalendarError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", event.Slug+".ics"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(payload)
}

// CalendarLinks godoc
// @Summary Get add-to-calendar links for an event
// @Description Returns prefilled Google Calendar and Outlook web links for the event.
// @Tags calendar
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.CalendarLinksSuccessResponse "data contains the links"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/calendar-links [get]
func (c *CalendarController) CalendarLinks(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Events.GetEvent(r.Context(), eventID)
	if err != nil {
		c.writeCalendarError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, CalendarLinksResponse{
		Google:  c.Service.GoogleCalendarLink(event),
		Outlook: c.Service.OutlookCalendarLink(event),
	})
}

// MonthCalendar godoc
// @Summary Get the event calendar for a month
// @Description Returns published events grouped by day for the given month. Multi-day events appear on every day they span, tagged with first/last day markers.
// @Tags calendar
// @Produce json
// @Param year path int true "Year (e.g. 2026)"
// @Param month path int true "Month (1-12)"
// @Success 200 {object} controllers.MonthCalendarSuccessResponse "data is an array of calendar days"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/{year}/{month} [get]
func (c *CalendarController) MonthCalendar(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.PathValue("year"))
	if err != nil || year < 1 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid year")
		return
	}
	month, err := strconv.Atoi(r.PathValue("month"))
	if err != nil || month < 1 || month > 12 {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "month must be between 1 and 12")
		return
	}
	days, err := c.Service.GetMonthEvents(r.Context(), year, time.Month(month))
	if err != nil {
		c.writeCalendarError(w, r, err)
		return
	}
	if days == nil {
		days = []*domain.CalendarDay{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, days)
}

// CheckConflicts godoc
// @Summary Check a time range for schedule conflicts
// @Description Returns events overlapping the given [start, end) range. Results are advisory; a concurrent save can still introduce an overlap.
// @Tags calendar
// @Produce json
// @Security BearerAuth
// @Param start query string true "Range start (RFC3339)"
// @Param end query string true "Range end (RFC3339)"
// @Param exclude query string false "Event ID to exclude (when rescheduling an existing event)"
// @Success 200 {object} controllers.ConflictsSuccessResponse "data contains the overlapping events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /calendar/conflicts [get]
func (c *CalendarController) CheckConflicts(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "start must be RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "end must be RFC3339")
		return
	}
	if !end.After(start) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "end must be after start")
		return
	}
	conflicts, err := c.Service.CheckScheduleConflicts(r.Context(), start, end, r.URL.Query().Get("exclude"))
	if err != nil {
		c.writeCalendarError(w, r, err)
		return
	}
	if conflicts == nil {
		conflicts = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ConflictsResponse{Conflicts: conflicts})
}
