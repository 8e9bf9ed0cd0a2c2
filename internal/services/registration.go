package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"advisorycms/internal/domain"
	"advisorycms/internal/monitoring"
)

const confirmationCodeLength = 8

type registrationService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	emailService     domain.EmailService
	notify           *notifier
	contextTimeout   time.Duration
}

// NewRegistrationService creates a RegistrationService with the given collaborators.
func NewRegistrationService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		emailService:     emailService,
		notify:           &notifier{logger: logger},
		contextTimeout:   timeout,
	}
}

// RegisterForEvent runs the admission chain in order, each precondition with
// its own failure mode. The capacity check and the counter increment are two
// separate store operations; concurrent registrations can race past the check.
func (s *registrationService) RegisterForEvent(ctx context.Context, eventID string, input domain.RegistrationInput, userID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// The event lookup leads the chain so an unknown event reports not-found
	// even when the body is also bad.
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, fmt.Errorf("email is required: %w", domain.ErrInvalidInput)
	}
	regType := input.Type
	if regType == "" {
		regType = domain.RegistrationTypeStandard
	}
	if !regType.Valid() || regType == domain.RegistrationTypeWaitlist {
		return nil, fmt.Errorf("unknown registration type %q: %w", input.Type, domain.ErrInvalidInput)
	}

	now := time.Now()
	if event.Status != domain.EventStatusPublished {
		return nil, domain.ErrRegistrationNotAvailable
	}
	if !event.Registration.Required {
		return nil, domain.ErrRegistrationNotRequired
	}
	if !event.RegistrationWindowOpen(now) {
		return nil, domain.ErrRegistrationWindowClosed
	}

	if event.IsAtCapacity() {
		if !event.Registration.Waitlist.Enabled {
			return nil, domain.ErrEventAtCapacity
		}
		if !event.WaitlistHasRoom() {
			return nil, domain.ErrWaitlistFull
		}
		regType = domain.RegistrationTypeWaitlist
	}

	if userID != "" {
		_, err = s.registrationRepo.GetActiveByEventAndUser(ctx, eventID, userID)
	} else {
		_, err = s.registrationRepo.GetActiveByEventAndEmail(ctx, eventID, email)
	}
	if err == nil {
		return nil, domain.ErrDuplicateRegistration
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check existing registration: %w", err)
	}

	code, err := generateCode(confirmationCodeLength)
	if err != nil {
		return nil, fmt.Errorf("generate confirmation code: %w", err)
	}

	status := domain.RegistrationStatusPending
	if userID != "" {
		status = domain.RegistrationStatusConfirmed
	}
	reg := &domain.Registration{
		EventID: eventID,
		Contact: domain.ContactInfo{
			Name:  strings.TrimSpace(input.Name),
			Email: email,
			Phone: strings.TrimSpace(input.Phone),
		},
		Type:             regType,
		Status:           status,
		ConfirmationCode: code,
		Payment: domain.Payment{
			Amount:   event.PriceFor(regType, now),
			Currency: event.Pricing.Currency,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if userID != "" {
		reg.UserID = &userID
	}
	if err := s.registrationRepo.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}

	if regType == domain.RegistrationTypeWaitlist {
		event.Registration.Waitlist.CurrentSize++
	} else {
		event.Registration.RegisteredAttendees++
	}
	event.UpdatedAt = now
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event counters: %w", err)
	}
	monitoring.RegistrationCreated(string(regType))

	if event.Notifications.ConfirmationEnabled {
		data := s.emailData(reg, event)
		if regType == domain.RegistrationTypeWaitlist {
			s.notify.dispatch("waitlist_joined", func(ctx context.Context) error {
				return s.emailService.SendWaitlistJoined(ctx, data)
			})
		} else {
			s.notify.dispatch("registration_confirmed", func(ctx context.Context) error {
				return s.emailService.SendRegistrationConfirmation(ctx, data)
			})
		}
	}
	return reg, nil
}

func (s *registrationService) emailData(reg *domain.Registration, event *domain.Event) *domain.RegistrationEmailData {
	location := event.Location.Venue
	if location == "" {
		location = event.Location.VirtualURL
	}
	return &domain.RegistrationEmailData{
		Email:            reg.Contact.Email,
		Name:             reg.Contact.Name,
		EventTitle:       event.Title,
		EventStart:       event.Schedule.StartDate.Format(time.RFC1123),
		EventLocation:    location,
		ConfirmationCode: reg.ConfirmationCode,
		Waitlisted:       reg.Type == domain.RegistrationTypeWaitlist,
	}
}

func (s *registrationService) CancelRegistration(ctx context.Context, registrationID, actingUserID string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	// Only the owning authenticated user may cancel; there is no admin
	// override on this path.
	if reg.UserID == nil || *reg.UserID != actingUserID {
		return nil, domain.ErrForbidden
	}
	if reg.Status == domain.RegistrationStatusCancelled {
		return nil, fmt.Errorf("registration already cancelled: %w", domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, reg.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	now := time.Now()
	if event.IsPast(now) {
		return nil, domain.ErrEventEnded
	}

	wasActive := reg.Status == domain.RegistrationStatusConfirmed || reg.Status == domain.RegistrationStatusPending
	reg.Status = domain.RegistrationStatusCancelled
	reg.UpdatedAt = now
	if err := s.registrationRepo.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("update registration: %w", err)
	}

	if wasActive {
		if reg.Type == domain.RegistrationTypeWaitlist {
			if event.Registration.Waitlist.CurrentSize > 0 {
				event.Registration.Waitlist.CurrentSize--
			}
		} else if event.Registration.RegisteredAttendees > 0 {
			event.Registration.RegisteredAttendees--
		}
		event.UpdatedAt = now
		if err := s.eventRepo.Update(ctx, event); err != nil {
			return nil, fmt.Errorf("update event counters: %w", err)
		}
	}
	monitoring.RegistrationCancelled()

	data := s.emailData(reg, event)
	s.notify.dispatch("registration_cancelled", func(ctx context.Context) error {
		return s.emailService.SendRegistrationCancelled(ctx, data)
	})

	if event.Registration.Waitlist.CurrentSize > 0 {
		if _, err := s.ProcessWaitlist(ctx, event.ID); err != nil {
			// Promotion is retried only by the administrative trigger; a
			// failure here must not undo the committed cancellation.
			s.notify.logger.Error("waitlist promotion after cancel", "event_id", event.ID, "err", err)
		}
	}
	return reg, nil
}

// ProcessWaitlist promotes the oldest non-cancelled waitlist registrations
// into available capacity, FIFO by creation time. Each promoted registration
// becomes a confirmed standard one and gets its own notification.
func (s *registrationService) ProcessWaitlist(ctx context.Context, eventID string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get event: %w", err)
	}
	if !event.Registration.Waitlist.Enabled || event.Registration.Waitlist.CurrentSize == 0 {
		return 0, nil
	}

	limit := event.Registration.Waitlist.CurrentSize
	if spots := event.AvailableSpots(); spots != nil {
		if *spots <= 0 {
			return 0, nil
		}
		if *spots < limit {
			limit = *spots
		}
	}

	waitlisted, err := s.registrationRepo.ListWaitlisted(ctx, eventID, limit)
	if err != nil {
		return 0, fmt.Errorf("list waitlisted: %w", err)
	}

	now := time.Now()
	promoted := 0
	for _, reg := range waitlisted {
		reg.Type = domain.RegistrationTypeStandard
		reg.Status = domain.RegistrationStatusConfirmed
		reg.UpdatedAt = now
		if err := s.registrationRepo.Update(ctx, reg); err != nil {
			return promoted, fmt.Errorf("promote registration %s: %w", reg.ID, err)
		}
		event.Registration.RegisteredAttendees++
		if event.Registration.Waitlist.CurrentSize > 0 {
			event.Registration.Waitlist.CurrentSize--
		}
		promoted++
		monitoring.WaitlistPromoted()

		data := s.emailData(reg, event)
		data.Waitlisted = false
		s.notify.dispatch("waitlist_promoted", func(ctx context.Context) error {
			return s.emailService.SendWaitlistPromoted(ctx, data)
		})
	}

	if promoted > 0 {
		event.UpdatedAt = now
		if err := s.eventRepo.Update(ctx, event); err != nil {
			return promoted, fmt.Errorf("update event counters: %w", err)
		}
	}
	return promoted, nil
}

func (s *registrationService) CheckIn(ctx context.Context, confirmationCode string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.registrationRepo.GetByConfirmationCode(ctx, strings.ToUpper(strings.TrimSpace(confirmationCode)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	switch reg.Status {
	case domain.RegistrationStatusConfirmed, domain.RegistrationStatusPending:
	case domain.RegistrationStatusAttended:
		return nil, fmt.Errorf("already checked in: %w", domain.ErrInvalidInput)
	default:
		return nil, fmt.Errorf("registration is %s: %w", reg.Status, domain.ErrInvalidInput)
	}

	now := time.Now()
	reg.Status = domain.RegistrationStatusAttended
	reg.Attendance.CheckInTime = &now
	reg.UpdatedAt = now
	if err := s.registrationRepo.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("update registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) CheckOut(ctx context.Context, confirmationCode string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	reg, err := s.registrationRepo.GetByConfirmationCode(ctx, strings.ToUpper(strings.TrimSpace(confirmationCode)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if reg.Status != domain.RegistrationStatusAttended || reg.Attendance.CheckInTime == nil {
		return nil, fmt.Errorf("not checked in: %w", domain.ErrInvalidInput)
	}
	if reg.Attendance.CheckOutTime != nil {
		return nil, fmt.Errorf("already checked out: %w", domain.ErrInvalidInput)
	}

	now := time.Now()
	reg.Attendance.CheckOutTime = &now
	reg.UpdatedAt = now
	if err := s.registrationRepo.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("update registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) SubmitFeedback(ctx context.Context, registrationID, userID string, rating int, comment string) (*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", domain.ErrInvalidInput)
	}
	reg, err := s.registrationRepo.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if reg.UserID == nil || *reg.UserID != userID {
		return nil, domain.ErrForbidden
	}
	if reg.Feedback.Submitted {
		return nil, domain.ErrFeedbackAlreadySubmitted
	}

	now := time.Now()
	reg.Feedback = domain.Feedback{
		Submitted:   true,
		Rating:      rating,
		Comment:     strings.TrimSpace(comment),
		SubmittedAt: &now,
	}
	reg.UpdatedAt = now
	if err := s.registrationRepo.Update(ctx, reg); err != nil {
		return nil, fmt.Errorf("update registration: %w", err)
	}

	// Engagement counter is best-effort.
	if event, err := s.eventRepo.GetByID(ctx, reg.EventID); err == nil {
		event.Engagement.FeedbackCount++
		if err := s.eventRepo.Update(ctx, event); err != nil {
			s.notify.logger.Warn("update feedback count", "event_id", event.ID, "err", err)
		}
	}
	return reg, nil
}

func (s *registrationService) ListEventRegistrations(ctx context.Context, eventID, callerID string, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, 0, domain.ErrNotFound
		}
		return nil, 0, fmt.Errorf("get event: %w", err)
	}
	if event.CreatedBy != callerID {
		return nil, 0, domain.ErrForbidden
	}
	regs, total, err := s.registrationRepo.ListByEventID(ctx, eventID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	if regs == nil {
		regs = []*domain.Registration{}
	}
	return regs, total, nil
}
