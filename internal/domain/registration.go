package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RegistrationType classifies a registration. Waitlist is assigned by the
// service when an event is at capacity; callers cannot request it directly.
type RegistrationType string

const (
	RegistrationTypeStandard  RegistrationType = "standard"
	RegistrationTypeVIP       RegistrationType = "vip"
	RegistrationTypeEarlyBird RegistrationType = "earlyBird"
	RegistrationTypeSpeaker   RegistrationType = "speaker"
	RegistrationTypeSponsor   RegistrationType = "sponsor"
	RegistrationTypeWaitlist  RegistrationType = "waitlist"
)

// Valid reports whether t is a known registration type.
func (t RegistrationType) Valid() bool {
	switch t {
	case RegistrationTypeStandard, RegistrationTypeVIP, RegistrationTypeEarlyBird,
		RegistrationTypeSpeaker, RegistrationTypeSponsor, RegistrationTypeWaitlist:
		return true
	}
	return false
}

// RegistrationStatus is the state of a single registration.
type RegistrationStatus string

const (
	RegistrationStatusPending   RegistrationStatus = "pending"
	RegistrationStatusConfirmed RegistrationStatus = "confirmed"
	RegistrationStatusCancelled RegistrationStatus = "cancelled"
	RegistrationStatusAttended  RegistrationStatus = "attended"
	RegistrationStatusNoShow    RegistrationStatus = "no-show"
)

// ActiveRegistrationStatuses are the states that count toward the one-active-
// registration-per-event invariant.
var ActiveRegistrationStatuses = []RegistrationStatus{
	RegistrationStatusPending,
	RegistrationStatusConfirmed,
	RegistrationStatusAttended,
}

// Active reports whether s counts as an active registration.
func (s RegistrationStatus) Active() bool {
	switch s {
	case RegistrationStatusPending, RegistrationStatusConfirmed, RegistrationStatusAttended:
		return true
	}
	return false
}

// ContactInfo identifies the registrant. Email is the dedup key for guest
// registrations and is compared case-insensitively.
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Payment records the resolved amount for a registration.
type Payment struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency,omitempty"`
}

// Attendance holds check-in/check-out timestamps.
type Attendance struct {
	CheckInTime  *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
}

// Duration is derived from the check-in/check-out pair; zero while either is unset.
func (a Attendance) Duration() time.Duration {
	if a.CheckInTime == nil || a.CheckOutTime == nil {
		return 0
	}
	return a.CheckOutTime.Sub(*a.CheckInTime)
}

// Feedback is a one-shot rating; Submitted gates resubmission.
type Feedback struct {
	Submitted   bool       `json:"submitted"`
	Rating      int        `json:"rating,omitempty"`
	Comment     string     `json:"comment,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
}

// Registration is one attendee's registration for an event. Registrations are
// never hard-deleted; cancellation is a status change. UserID is nil for
// guest registrations.
// swagger:model Registration
type Registration struct {
	ID               string             `json:"id"`
	EventID          string             `json:"event_id"`
	UserID           *string            `json:"user_id,omitempty"`
	Contact          ContactInfo        `json:"contact"`
	Type             RegistrationType   `json:"type"`
	Status           RegistrationStatus `json:"status"`
	ConfirmationCode string             `json:"confirmation_code"`
	Payment          Payment            `json:"payment"`
	Attendance       Attendance         `json:"attendance"`
	Feedback         Feedback           `json:"feedback"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`
}

// RegistrationInput is the caller-supplied part of a new registration.
type RegistrationInput struct {
	Name  string
	Email string
	Phone string
	Type  RegistrationType
}

// RegistrationRepository defines storage operations for registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByConfirmationCode(ctx context.Context, code string) (*Registration, error)
	// GetActiveByEventAndUser returns the pending/confirmed/attended
	// registration for (event, user), or ErrNotFound.
	GetActiveByEventAndUser(ctx context.Context, eventID, userID string) (*Registration, error)
	// GetActiveByEventAndEmail is the guest dedup lookup; email comparison is
	// case-insensitive.
	GetActiveByEventAndEmail(ctx context.Context, eventID, email string) (*Registration, error)
	ListByEventID(ctx context.Context, eventID string, params PaginationParams) ([]*Registration, int, error)
	// ListActiveByEventID returns pending and confirmed registrations, used
	// by the cancellation cascade and schedule-change notifications.
	ListActiveByEventID(ctx context.Context, eventID string) ([]*Registration, error)
	// ListWaitlisted returns up to limit non-cancelled waitlist registrations
	// ordered by creation time ascending (FIFO).
	ListWaitlisted(ctx context.Context, eventID string, limit int) ([]*Registration, error)
	Update(ctx context.Context, reg *Registration) error
	// CancelActiveByEventID bulk-moves pending/confirmed registrations to
	// cancelled and returns the number affected.
	CancelActiveByEventID(ctx context.Context, eventID string) (int, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
}

// RegistrationService orchestrates admission, the waitlist, and attendance.
type RegistrationService interface {
	// RegisterForEvent admits a registrant. userID is empty for guests.
	// Preconditions are checked in order: event exists, published,
	// registration required, window open, capacity/waitlist, no duplicate.
	RegisterForEvent(ctx context.Context, eventID string, input RegistrationInput, userID string) (*Registration, error)
	// CancelRegistration is owner-only and rejected for past events. Freed
	// capacity triggers waitlist promotion.
	CancelRegistration(ctx context.Context, registrationID, actingUserID string) (*Registration, error)
	// ProcessWaitlist promotes the FIFO-oldest waitlisted registrations into
	// freed capacity and returns how many were promoted.
	ProcessWaitlist(ctx context.Context, eventID string) (int, error)
	CheckIn(ctx context.Context, confirmationCode string) (*Registration, error)
	CheckOut(ctx context.Context, confirmationCode string) (*Registration, error)
	SubmitFeedback(ctx context.Context, registrationID, userID string, rating int, comment string) (*Registration, error)
	ListEventRegistrations(ctx context.Context, eventID, callerID string, params PaginationParams) ([]*Registration, int, error)
}
