package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
	EventStatusArchived  EventStatus = "archived"
)

// Valid reports whether s is one of the five known lifecycle states.
func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusDraft, EventStatusPublished, EventStatusCancelled,
		EventStatusCompleted, EventStatusArchived:
		return true
	}
	return false
}

// eventTransitions is the lifecycle transition table. Archived is reachable
// from every non-archived state; completed only from published; cancelled from
// any state not already terminal, draft included. The extra guard on
// cancellation (future start date) lives in Event.CanBeCancelled.
var eventTransitions = map[EventStatus][]EventStatus{
	EventStatusDraft:     {EventStatusPublished, EventStatusCancelled, EventStatusArchived},
	EventStatusPublished: {EventStatusDraft, EventStatusCancelled, EventStatusCompleted, EventStatusArchived},
	EventStatusCancelled: {EventStatusArchived},
	EventStatusCompleted: {EventStatusArchived},
	EventStatusArchived:  {},
}

// CanTransitionTo reports whether the lifecycle table allows moving from s to target.
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	for _, t := range eventTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Schedule holds the time bounds of an event. EndDate must be after StartDate;
// that invariant is enforced by the event service on create and update.
type Schedule struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Timezone  string    `json:"timezone"`
}

// Duration is derived from the schedule bounds and never stored.
func (s Schedule) Duration() time.Duration {
	return s.EndDate.Sub(s.StartDate)
}

// Location describes where an event takes place.
type Location struct {
	Type       string `json:"type"` // venue, virtual, hybrid
	Venue      string `json:"venue,omitempty"`
	Address    string `json:"address,omitempty"`
	City       string `json:"city,omitempty"`
	VirtualURL string `json:"virtual_url,omitempty"`
}

// Waitlist is the capacity-overflow configuration of an event.
// MaxSize nil means the waitlist is unbounded.
type Waitlist struct {
	Enabled     bool `json:"enabled"`
	MaxSize     *int `json:"max_size,omitempty"`
	CurrentSize int  `json:"current_size"`
}

// RegistrationPolicy configures whether and how attendees register.
// MaxAttendees nil means unlimited capacity. If OpensAt/ClosesAt are absent,
// registration is open until the event starts.
type RegistrationPolicy struct {
	Required            bool       `json:"required"`
	MaxAttendees        *int       `json:"max_attendees,omitempty"`
	RegisteredAttendees int        `json:"registered_attendees"`
	Waitlist            Waitlist   `json:"waitlist"`
	OpensAt             *time.Time `json:"opens_at,omitempty"`
	ClosesAt            *time.Time `json:"closes_at,omitempty"`
}

// Pricing holds ticket pricing. EarlyBird applies only before its deadline and
// never to waitlist admissions.
type Pricing struct {
	Free              bool             `json:"free"`
	Currency          string           `json:"currency,omitempty"`
	Standard          decimal.Decimal  `json:"standard"`
	EarlyBird         *decimal.Decimal `json:"early_bird,omitempty"`
	EarlyBirdDeadline *time.Time       `json:"early_bird_deadline,omitempty"`
}

// Content is the editorial body of an event page.
type Content struct {
	Summary     string `json:"summary,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Engagement tracks read-side counters.
type Engagement struct {
	Views         int64 `json:"views"`
	FeedbackCount int   `json:"feedback_count"`
}

// NotificationSettings controls which attendee emails an event sends.
type NotificationSettings struct {
	ConfirmationEnabled bool `json:"confirmation_enabled"`
	RemindersEnabled    bool `json:"reminders_enabled"`
}

// Event represents a scheduled event on the site.
// swagger:model Event
type Event struct {
	ID            string               `json:"id"`
	Title         string               `json:"title"`
	Slug          string               `json:"slug"`
	Status        EventStatus          `json:"status"`
	Schedule      Schedule             `json:"schedule"`
	Location      Location             `json:"location"`
	Registration  RegistrationPolicy   `json:"registration"`
	Pricing       Pricing              `json:"pricing"`
	Content       Content              `json:"content"`
	Engagement    Engagement           `json:"engagement"`
	Notifications NotificationSettings `json:"notifications"`
	CreatedBy     string               `json:"created_by"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// IsPast reports whether the event ended before now.
func (e *Event) IsPast(now time.Time) bool {
	return e.Schedule.EndDate.Before(now)
}

// IsOngoing reports whether now falls inside the event's schedule.
func (e *Event) IsOngoing(now time.Time) bool {
	return !e.Schedule.StartDate.After(now) && e.Schedule.EndDate.After(now)
}

// RegistrationWindowOpen checks only the time window: after OpensAt (if set)
// and before ClosesAt, which defaults to the event start.
func (e *Event) RegistrationWindowOpen(now time.Time) bool {
	if e.Registration.OpensAt != nil && now.Before(*e.Registration.OpensAt) {
		return false
	}
	closes := e.Schedule.StartDate
	if e.Registration.ClosesAt != nil {
		closes = *e.Registration.ClosesAt
	}
	return now.Before(closes)
}

// IsRegistrationOpen is the full derived rule: published, registration
// required, and the window is open.
func (e *Event) IsRegistrationOpen(now time.Time) bool {
	return e.Status == EventStatusPublished && e.Registration.Required && e.RegistrationWindowOpen(now)
}

// IsAtCapacity reports whether the attendee counter has reached MaxAttendees.
// Unlimited events are never at capacity.
func (e *Event) IsAtCapacity() bool {
	return e.Registration.MaxAttendees != nil &&
		e.Registration.RegisteredAttendees >= *e.Registration.MaxAttendees
}

// AvailableSpots returns the remaining capacity, or nil when unlimited.
func (e *Event) AvailableSpots() *int {
	if e.Registration.MaxAttendees == nil {
		return nil
	}
	n := *e.Registration.MaxAttendees - e.Registration.RegisteredAttendees
	if n < 0 {
		n = 0
	}
	return &n
}

// WaitlistHasRoom reports whether another waitlist admission fits.
func (e *Event) WaitlistHasRoom() bool {
	if !e.Registration.Waitlist.Enabled {
		return false
	}
	if e.Registration.Waitlist.MaxSize == nil {
		return true
	}
	return e.Registration.Waitlist.CurrentSize < *e.Registration.Waitlist.MaxSize
}

// CanBeCancelled reports whether the event may move to cancelled: not already
// terminal and the start date still in the future.
func (e *Event) CanBeCancelled(now time.Time) bool {
	switch e.Status {
	case EventStatusCancelled, EventStatusCompleted, EventStatusArchived:
		return false
	}
	return e.Schedule.StartDate.After(now)
}

// PriceFor resolves the amount a registration of the given type pays at the
// given time: zero for free events, the early-bird price before its deadline
// for non-waitlist types, the standard price otherwise.
func (e *Event) PriceFor(regType RegistrationType, now time.Time) decimal.Decimal {
	if e.Pricing.Free {
		return decimal.Zero
	}
	if regType != RegistrationTypeWaitlist &&
		e.Pricing.EarlyBird != nil &&
		e.Pricing.EarlyBirdDeadline != nil &&
		now.Before(*e.Pricing.EarlyBirdDeadline) {
		return *e.Pricing.EarlyBird
	}
	return e.Pricing.Standard
}

// EventPatch is a partial update: only non-nil sub-objects are touched, and
// within each sub-object only non-nil keys overwrite the stored value.
type EventPatch struct {
	Title         *string
	Schedule      *SchedulePatch
	Location      *LocationPatch
	Registration  *RegistrationPolicyPatch
	Pricing       *PricingPatch
	Content       *ContentPatch
	Notifications *NotificationSettingsPatch
	// CheckConflicts requests an overlap check before committing a schedule
	// change.
	CheckConflicts bool
}

type SchedulePatch struct {
	StartDate *time.Time
	EndDate   *time.Time
	Timezone  *string
}

type LocationPatch struct {
	Type       *string
	Venue      *string
	Address    *string
	City       *string
	VirtualURL *string
}

type RegistrationPolicyPatch struct {
	Required        *bool
	MaxAttendees    *int
	WaitlistEnabled *bool
	WaitlistMaxSize *int
	OpensAt         *time.Time
	ClosesAt        *time.Time
}

type PricingPatch struct {
	Free              *bool
	Currency          *string
	Standard          *decimal.Decimal
	EarlyBird         *decimal.Decimal
	EarlyBirdDeadline *time.Time
}

type ContentPatch struct {
	Summary     *string
	Description *string
	ImageURL    *string
}

type NotificationSettingsPatch struct {
	ConfirmationEnabled *bool
	RemindersEnabled    *bool
}

// ListEventsFilter narrows event listings.
type ListEventsFilter struct {
	Status EventStatus
	From   *time.Time
	To     *time.Time
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context, filter ListEventsFilter, params PaginationParams) ([]*Event, int, error)
	// Update persists the full event row. Counter changes ride along with the
	// rest of the document, so concurrent registrations can race the capacity
	// check.
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id string) error
	// ListOverlapping returns events whose [start,end) interval overlaps the
	// given one, excluding excludeID when non-empty.
	ListOverlapping(ctx context.Context, start, end time.Time, excludeID string) ([]*Event, error)
	IncrementViews(ctx context.Context, id string) error
}

// EventService defines event lifecycle and content operations.
type EventService interface {
	CreateEvent(ctx context.Context, event *Event, creatorID string) error
	GetEvent(ctx context.Context, id string) (*Event, error)
	// GetEventBySlug is the public read path; it bumps the view counter.
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	ListEvents(ctx context.Context, filter ListEventsFilter, params PaginationParams) ([]*Event, int, error)
	UpdateEvent(ctx context.Context, eventID string, patch *EventPatch, userID string) (*Event, error)
	// DeleteEvent hard-deletes an event, rejected while registrations exist.
	DeleteEvent(ctx context.Context, eventID, userID string) error
	// ChangeEventStatus drives the lifecycle state machine. Moving to
	// cancelled cascades a bulk cancellation over active registrations and
	// notifies each registrant with the given reason.
	ChangeEventStatus(ctx context.Context, eventID string, newStatus EventStatus, reason, userID string) (*Event, error)
}
