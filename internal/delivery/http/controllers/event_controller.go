package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"advisorycms/internal/delivery/http/helpers"
	"advisorycms/internal/delivery/http/middleware"
	"advisorycms/internal/domain"
)

// ScheduleDTO is the schedule part of event create requests.
type ScheduleDTO struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Timezone  string    `json:"timezone"`
}

// LocationDTO is the location part of event create requests.
type LocationDTO struct {
	Type       string `json:"type"`
	Venue      string `json:"venue"`
	Address    string `json:"address"`
	City       string `json:"city"`
	VirtualURL string `json:"virtual_url"`
}

// RegistrationPolicyDTO is the registration part of event create requests.
type RegistrationPolicyDTO struct {
	Required        bool       `json:"required"`
	MaxAttendees    *int       `json:"max_attendees"`
	WaitlistEnabled bool       `json:"waitlist_enabled"`
	WaitlistMaxSize *int       `json:"waitlist_max_size"`
	OpensAt         *time.Time `json:"opens_at"`
	ClosesAt        *time.Time `json:"closes_at"`
}

// PricingDTO is the pricing part of event create requests.
type PricingDTO struct {
	Free              bool             `json:"free"`
	Currency          string           `json:"currency"`
	Standard          *decimal.Decimal `json:"standard"`
	EarlyBird         *decimal.Decimal `json:"early_bird"`
	EarlyBirdDeadline *time.Time       `json:"early_bird_deadline"`
}

// ContentDTO is the editorial part of event create requests.
type ContentDTO struct {
	Summary     string `json:"summary"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// NotificationsDTO is the notification settings part of event create requests.
type NotificationsDTO struct {
	ConfirmationEnabled bool `json:"confirmation_enabled"`
	RemindersEnabled    bool `json:"reminders_enabled"`
}

// CreateEventRequest is the request body for POST /api/events.
type CreateEventRequest struct {
	Title         string                 `json:"title"`
	Slug          string                 `json:"slug"`
	Schedule      ScheduleDTO            `json:"schedule"`
	Location      *LocationDTO           `json:"location"`
	Registration  *RegistrationPolicyDTO `json:"registration"`
	Pricing       *PricingDTO            `json:"pricing"`
	Content       *ContentDTO            `json:"content"`
	Notifications *NotificationsDTO      `json:"notifications"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Title == "" {
		errs = append(errs, "title is required")
	}
	if c.Schedule.StartDate.IsZero() {
		errs = append(errs, "schedule.start_date is required")
	}
	if c.Schedule.EndDate.IsZero() {
		errs = append(errs, "schedule.end_date is required")
	}
	if !c.Schedule.StartDate.IsZero() && !c.Schedule.EndDate.IsZero() &&
		!c.Schedule.EndDate.After(c.Schedule.StartDate) {
		errs = append(errs, "schedule.end_date must be after schedule.start_date")
	}
	if c.Registration != nil && c.Registration.MaxAttendees != nil && *c.Registration.MaxAttendees < 1 {
		errs = append(errs, "registration.max_attendees must be positive")
	}
	if c.Registration != nil && c.Registration.WaitlistMaxSize != nil && *c.Registration.WaitlistMaxSize < 1 {
		errs = append(errs, "registration.waitlist_max_size must be positive")
	}
	return errs
}

func (c CreateEventRequest) toDomain() *domain.Event {
	event := &domain.Event{
		Title: c.Title,
		Slug:  c.Slug,
		Schedule: domain.Schedule{
			StartDate: c.Schedule.StartDate,
			EndDate:   c.Schedule.EndDate,
			Timezone:  c.Schedule.Timezone,
		},
	}
	if c.Location != nil {
		event.Location = domain.Location{
			Type:       c.Location.Type,
			Venue:      c.Location.Venue,
			Address:    c.Location.Address,
			City:       c.Location.City,
			VirtualURL: c.Location.VirtualURL,
		}
	}
	if c.Registration != nil {
		event.Registration = domain.RegistrationPolicy{
			Required:     c.Registration.Required,
			MaxAttendees: c.Registration.MaxAttendees,
			Waitlist: domain.Waitlist{
				Enabled: c.Registration.WaitlistEnabled,
				MaxSize: c.Registration.WaitlistMaxSize,
			},
			OpensAt:  c.Registration.OpensAt,
			ClosesAt: c.Registration.ClosesAt,
		}
	}
	if c.Pricing != nil {
		event.Pricing = domain.Pricing{
			Free:              c.Pricing.Free,
			Currency:          c.Pricing.Currency,
			EarlyBird:         c.Pricing.EarlyBird,
			EarlyBirdDeadline: c.Pricing.EarlyBirdDeadline,
		}
		if c.Pricing.Standard != nil {
			event.Pricing.Standard = *c.Pricing.Standard
		}
	} else {
		event.Pricing.Free = true
	}
	if c.Content != nil {
		event.Content = domain.Content{
			Summary:     c.Content.Summary,
			Description: c.Content.Description,
			ImageURL:    c.Content.ImageURL,
		}
	}
	if c.Notifications != nil {
		event.Notifications = domain.NotificationSettings{
			ConfirmationEnabled: c.Notifications.ConfirmationEnabled,
			RemindersEnabled:    c.Notifications.RemindersEnabled,
		}
	} else {
		event.Notifications.ConfirmationEnabled = true
	}
	return event
}

// EventSuccessResponse is the success envelope for endpoints returning a single event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsResponse is the data payload for GET /api/events.
type ListEventsResponse struct {
	Items      []*domain.Event        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventsSuccessResponse is the success envelope for GET /api/events (200).
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// writeEventError maps domain sentinel errors to HTTP responses. Unknown errors
// are logged and turn into 500s.
func (c *EventController) writeEventError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition),
		errors.Is(err, domain.ErrDuplicateSlug),
		errors.Is(err, domain.ErrHasRegistrations),
		errors.Is(err, domain.ErrScheduleConflict),
		errors.Is(err, domain.ErrEventEnded):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

// CreateEvent godoc
// @Summary Create a new event
// @Description Create a new event in draft status. The authenticated user becomes the event owner. Slug is derived from the title when omitted.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (slug taken)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event := req.toDomain()
	if err := c.Service.CreateEvent(r.Context(), event, userID); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// GetEvent godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// GetEventBySlug godoc
// @Summary Get an event by slug
// @Description Public read path; bumps the event view counter.
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/slug/{slug} [get]
func (c *EventController) GetEventBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing slug")
		return
	}
	event, err := c.Service.GetEventBySlug(r.Context(), slug)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListEvents godoc
// @Summary List events
// @Description Returns a paginated list of events, optionally filtered by status and date range.
// @Tags events
// @Produce json
// @Param status query string false "Filter by lifecycle status"
// @Param from query string false "Only events ending after this RFC3339 time"
// @Param to query string false "Only events starting before this RFC3339 time"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	var filter domain.ListEventsFilter
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.EventStatus(s)
		if !status.Valid() {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "unknown status")
			return
		}
		filter.Status = status
	}
	if s := r.URL.Query().Get("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "from must be RFC3339")
			return
		}
		filter.From = &t
	}
	if s := r.URL.Query().Get("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "to must be RFC3339")
			return
		}
		filter.To = &t
	}
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), filter, params)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	meta := helpers.NewPaginationMeta(params.Page, params.PageSize, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{Items: events, Pagination: meta})
}

// UpdateEventRequest is the request body for PATCH /api/events/{eventID}.
// All fields are optional; omitted fields are unchanged. Set check_conflicts
// to have a schedule change rejected when it overlaps another event.
type UpdateEventRequest struct {
	Title          *string                      `json:"title"`
	Schedule       *SchedulePatchDTO            `json:"schedule"`
	Location       *LocationPatchDTO            `json:"location"`
	Registration   *RegistrationPolicyPatchDTO  `json:"registration"`
	Pricing        *PricingPatchDTO             `json:"pricing"`
	Content        *ContentPatchDTO             `json:"content"`
	Notifications  *NotificationSettingsPatchDTO `json:"notifications"`
	CheckConflicts bool                          `json:"check_conflicts"`
}

type SchedulePatchDTO struct {
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	Timezone  *string    `json:"timezone"`
}

type LocationPatchDTO struct {
	Type       *string `json:"type"`
	Venue      *string `json:"venue"`
	Address    *string `json:"address"`
	City       *string `json:"city"`
	VirtualURL *string `json:"virtual_url"`
}

type RegistrationPolicyPatchDTO struct {
	Required        *bool      `json:"required"`
	MaxAttendees    *int       `json:"max_attendees"`
	WaitlistEnabled *bool      `json:"waitlist_enabled"`
	WaitlistMaxSize *int       `json:"waitlist_max_size"`
	OpensAt         *time.Time `json:"opens_at"`
	ClosesAt        *time.Time `json:"closes_at"`
}

type PricingPatchDTO struct {
	Free              *bool            `json:"free"`
	Currency          *string          `json:"currency"`
	Standard          *decimal.Decimal `json:"standard"`
	EarlyBird         *decimal.Decimal `json:"early_bird"`
	EarlyBirdDeadline *time.Time       `json:"early_bird_deadline"`
}

type ContentPatchDTO struct {
	Summary     *string `json:"summary"`
	Description *string `json:"description"`
	ImageURL    *string `json:"image_url"`
}

type NotificationSettingsPatchDTO struct {
	ConfirmationEnabled *bool `json:"confirmation_enabled"`
	RemindersEnabled    *bool `json:"reminders_enabled"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && *u.Title == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Registration != nil && u.Registration.MaxAttendees != nil && *u.Registration.MaxAttendees < 1 {
		errs = append(errs, "registration.max_attendees must be positive")
	}
	return errs
}

func (u UpdateEventRequest) toPatch() *domain.EventPatch {
	patch := &domain.EventPatch{
		Title:          u.Title,
		CheckConflicts: u.CheckConflicts,
	}
	if u.Schedule != nil {
		patch.Schedule = &domain.SchedulePatch{
			StartDate: u.Schedule.StartDate,
			EndDate:   u.Schedule.EndDate,
			Timezone:  u.Schedule.Timezone,
		}
	}
	if u.Location != nil {
		patch.Location = &domain.LocationPatch{
			Type:       u.Location.Type,
			Venue:      u.Location.Venue,
			Address:    u.Location.Address,
			City:       u.Location.City,
			VirtualURL: u.Location.VirtualURL,
		}
	}
	if u.Registration != nil {
		patch.Registration = &domain.RegistrationPolicyPatch{
			Required:        u.Registration.Required,
			MaxAttendees:    u.Registration.MaxAttendees,
			WaitlistEnabled: u.Registration.WaitlistEnabled,
			WaitlistMaxSize: u.Registration.WaitlistMaxSize,
			OpensAt:         u.Registration.OpensAt,
			ClosesAt:        u.Registration.ClosesAt,
		}
	}
	if u.Pricing != nil {
		patch.Pricing = &domain.PricingPatch{
			Free:              u.Pricing.Free,
			Currency:          u.Pricing.Currency,
			Standard:          u.Pricing.Standard,
			EarlyBird:         u.Pricing.EarlyBird,
			EarlyBirdDeadline: u.Pricing.EarlyBirdDeadline,
		}
	}
	if u.Content != nil {
		patch.Content = &domain.ContentPatch{
			Summary:     u.Content.Summary,
			Description: u.Content.Description,
			ImageURL:    u.Content.ImageURL,
		}
	}
	if u.Notifications != nil {
		patch.Notifications = &domain.NotificationSettingsPatch{
			ConfirmationEnabled: u.Notifications.ConfirmationEnabled,
			RemindersEnabled:    u.Notifications.RemindersEnabled,
		}
	}
	return patch
}

// UpdateEvent godoc
// @Summary Update event details
// @Description Partially updates an event. Only the event owner can update. A schedule change notifies active registrants with a refreshed calendar file; with check_conflicts set it is rejected when it overlaps another event.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body UpdateEventRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (schedule overlap)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), eventID, req.toPatch(), userID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEventResponse is the data payload for DELETE /api/events/{eventID} (200).
type DeleteEventResponse struct {
	Status string `json:"status"`
}

// DeleteEventSuccessResponse is the success envelope for DELETE /api/events/{eventID} (200).
type DeleteEventSuccessResponse struct {
	Data  DeleteEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Hard-deletes an event. Rejected with 409 while any registrations exist; cancel the event instead. Only the event owner can delete.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.DeleteEventSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (has registrations)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, userID); err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteEventResponse{Status: "deleted"})
}

// ChangeEventStatusRequest is the request body for POST /api/events/{eventID}/status.
// Reason is used only when moving to cancelled and is included in the
// cancellation email sent to registrants.
type ChangeEventStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Validate implements Validator.
func (c ChangeEventStatusRequest) Validate() []string {
	if c.Status == "" {
		return []string{"status is required"}
	}
	return nil
}

// ChangeEventStatus godoc
// @Summary Change event lifecycle status
// @Description Moves the event through its lifecycle (draft, published, cancelled, completed, archived). Moving to cancelled cancels all active registrations and emails each registrant with the given reason. Only the event owner can change status.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body ChangeEventStatusRequest true "Target status and optional cancellation reason"
// @Success 200 {object} controllers.EventSuccessResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (unknown status)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (invalid transition or event already started)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/status [post]
func (c *EventController) ChangeEventStatus(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req ChangeEventStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	event, err := c.Service.ChangeEventStatus(r.Context(), eventID, domain.EventStatus(req.Status), req.Reason, userID)
	if err != nil {
		c.writeEventError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}
