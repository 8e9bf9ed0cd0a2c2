package domain

import "errors"

// Sentinel errors shared across services. Services wrap storage errors with
// fmt.Errorf("...: %w", err) and return these unwrapped so controllers can map
// them to HTTP status codes with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition is returned when an event status change is not
	// allowed by the lifecycle transition table.
	ErrInvalidTransition = errors.New("invalid status transition")

	// Registration admission failures, one per precondition so callers can
	// tell them apart.
	ErrRegistrationNotAvailable = errors.New("registration is not available")
	ErrRegistrationNotRequired  = errors.New("event does not take registrations")
	ErrRegistrationWindowClosed = errors.New("registration window is closed")
	ErrEventAtCapacity          = errors.New("event is at capacity")
	ErrWaitlistFull             = errors.New("waitlist is full")
	ErrDuplicateRegistration    = errors.New("already registered for this event")

	// ErrEventEnded is returned when an operation is attempted on an event
	// that is already in the past.
	ErrEventEnded = errors.New("event has ended")

	// ErrFeedbackAlreadySubmitted gates the one-shot feedback submission.
	ErrFeedbackAlreadySubmitted = errors.New("feedback already submitted")

	// ErrScheduleConflict is returned by updates that requested an explicit
	// conflict check and overlap another event.
	ErrScheduleConflict = errors.New("schedule conflicts with another event")

	// ErrHasRegistrations is returned when deleting an event that still has
	// registrations attached.
	ErrHasRegistrations = errors.New("event has registrations")

	ErrDuplicateEmail = errors.New("email already in use")
	ErrDuplicateSlug  = errors.New("slug already in use")
)
