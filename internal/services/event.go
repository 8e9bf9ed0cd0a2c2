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

const defaultCancellationReason = "No reason provided"

type eventService struct {
	eventRepo        domain.EventRepository
	registrationRepo domain.RegistrationRepository
	calendar         domain.CalendarService
	emailService     domain.EmailService
	notify           *notifier
	contextTimeout   time.Duration
}

// NewEventService creates an EventService with the given collaborators.
func NewEventService(
	eventRepo domain.EventRepository,
	registrationRepo domain.RegistrationRepository,
	calendar domain.CalendarService,
	emailService domain.EmailService,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		calendar:         calendar,
		emailService:     emailService,
		notify:           &notifier{logger: logger},
		contextTimeout:   timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, event *domain.Event, creatorID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if creatorID == "" {
		return fmt.Errorf("event creator is required: %w", domain.ErrInvalidInput)
	}
	if event.Title == "" {
		return fmt.Errorf("event title is required: %w", domain.ErrInvalidInput)
	}
	if !event.Schedule.EndDate.After(event.Schedule.StartDate) {
		return fmt.Errorf("end date must be after start date: %w", domain.ErrInvalidInput)
	}
	if event.Status == "" {
		event.Status = domain.EventStatusDraft
	}
	if !event.Status.Valid() {
		return fmt.Errorf("unknown status %q: %w", event.Status, domain.ErrInvalidInput)
	}

	slug, err := s.resolveSlug(ctx, event)
	if err != nil {
		return err
	}
	event.Slug = slug

	event.CreatedBy = creatorID
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	return nil
}

// resolveSlug derives a slug from the title when absent. A derived slug that
// collides gets a random suffix; an explicitly supplied slug that collides is
// rejected.
func (s *eventService) resolveSlug(ctx context.Context, event *domain.Event) (string, error) {
	explicit := event.Slug != ""
	slug := event.Slug
	if !explicit {
		slug = slugify(event.Title)
	}
	if slug == "" {
		return "", fmt.Errorf("cannot derive slug from title: %w", domain.ErrInvalidInput)
	}

	_, err := s.eventRepo.GetBySlug(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return slug, nil
	}
	if err != nil {
		return "", fmt.Errorf("check slug: %w", err)
	}
	if explicit {
		return "", domain.ErrDuplicateSlug
	}
	suffix, err := generateCode(slugSuffixLength)
	if err != nil {
		return "", fmt.Errorf("generate slug suffix: %w", err)
	}
	return slug + "-" + strings.ToLower(suffix), nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	// View counting is best-effort; a failed increment never fails the read.
	if err := s.eventRepo.IncrementViews(ctx, event.ID); err != nil {
		s.notify.logger.Warn("increment event views", "event_id", event.ID, "err", err)
	} else {
		event.Engagement.Views++
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.ListEventsFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if filter.Status != "" && !filter.Status.Valid() {
		return nil, 0, fmt.Errorf("unknown status %q: %w", filter.Status, domain.ErrInvalidInput)
	}
	events, total, err := s.eventRepo.List(ctx, filter, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, eventID string, patch *domain.EventPatch, userID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.CreatedBy != userID {
		return nil, domain.ErrForbidden
	}

	scheduleChanged := applyEventPatch(event, patch)
	if !event.Schedule.EndDate.After(event.Schedule.StartDate) {
		return nil, fmt.Errorf("end date must be after start date: %w", domain.ErrInvalidInput)
	}

	if scheduleChanged && patch.CheckConflicts {
		conflicts, err := s.calendar.CheckScheduleConflicts(ctx, event.Schedule.StartDate, event.Schedule.EndDate, event.ID)
		if err != nil {
			return nil, fmt.Errorf("check schedule conflicts: %w", err)
		}
		if len(conflicts) > 0 {
			return nil, domain.ErrScheduleConflict
		}
	}

	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	if scheduleChanged {
		s.notifyScheduleChange(ctx, event)
	}
	return event, nil
}

// notifyScheduleChange emails every pending/confirmed registrant a freshly
// generated calendar attachment. Best-effort: listing or rendering failures
// are logged and the update stands.
func (s *eventService) notifyScheduleChange(ctx context.Context, event *domain.Event) {
	regs, err := s.registrationRepo.ListActiveByEventID(ctx, event.ID)
	if err != nil {
		s.notify.logger.Error("list registrants for schedule change", "event_id", event.ID, "err", err)
		return
	}
	ics, err := s.calendar.GenerateICalendar(event)
	if err != nil {
		s.notify.logger.Error("generate calendar for schedule change", "event_id", event.ID, "err", err)
		ics = nil
	}
	for _, reg := range regs {
		data := &domain.ScheduleChangeEmailData{
			Email:      reg.Contact.Email,
			Name:       reg.Contact.Name,
			EventTitle: event.Title,
			NewStart:   event.Schedule.StartDate.Format(time.RFC1123),
			NewEnd:     event.Schedule.EndDate.Format(time.RFC1123),
		}
		s.notify.dispatch("schedule_change", func(ctx context.Context) error {
			return s.emailService.SendScheduleChange(ctx, data, ics)
		})
	}
}

// applyEventPatch overwrites only the keys present in the patch and reports
// whether the schedule bounds changed.
func applyEventPatch(event *domain.Event, patch *domain.EventPatch) (scheduleChanged bool) {
	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if p := patch.Schedule; p != nil {
		if p.StartDate != nil && !p.StartDate.Equal(event.Schedule.StartDate) {
			event.Schedule.StartDate = *p.StartDate
			scheduleChanged = true
		}
		if p.EndDate != nil && !p.EndDate.Equal(event.Schedule.EndDate) {
			event.Schedule.EndDate = *p.EndDate
			scheduleChanged = true
		}
		if p.Timezone != nil {
			event.Schedule.Timezone = *p.Timezone
		}
	}
	if p := patch.Location; p != nil {
		if p.Type != nil {
			event.Location.Type = *p.Type
		}
		if p.Venue != nil {
			event.Location.Venue = *p.Venue
		}
		if p.Address != nil {
			event.Location.Address = *p.Address
		}
		if p.City != nil {
			event.Location.City = *p.City
		}
		if p.VirtualURL != nil {
			event.Location.VirtualURL = *p.VirtualURL
		}
	}
	if p := patch.Registration; p != nil {
		if p.Required != nil {
			event.Registration.Required = *p.Required
		}
		if p.MaxAttendees != nil {
			event.Registration.MaxAttendees = p.MaxAttendees
		}
		if p.WaitlistEnabled != nil {
			event.Registration.Waitlist.Enabled = *p.WaitlistEnabled
		}
		if p.WaitlistMaxSize != nil {
			event.Registration.Waitlist.MaxSize = p.WaitlistMaxSize
		}
		if p.OpensAt != nil {
			event.Registration.OpensAt = p.OpensAt
		}
		if p.ClosesAt != nil {
			event.Registration.ClosesAt = p.ClosesAt
		}
	}
	if p := patch.Pricing; p != nil {
		if p.Free != nil {
			event.Pricing.Free = *p.Free
		}
		if p.Currency != nil {
			event.Pricing.Currency = *p.Currency
		}
		if p.Standard != nil {
			event.Pricing.Standard = *p.Standard
		}
		if p.EarlyBird != nil {
			event.Pricing.EarlyBird = p.EarlyBird
		}
		if p.EarlyBirdDeadline != nil {
			event.Pricing.EarlyBirdDeadline = p.EarlyBirdDeadline
		}
	}
	if p := patch.Content; p != nil {
		if p.Summary != nil {
			event.Content.Summary = *p.Summary
		}
		if p.Description != nil {
			event.Content.Description = *p.Description
		}
		if p.ImageURL != nil {
			event.Content.ImageURL = *p.ImageURL
		}
	}
	if p := patch.Notifications; p != nil {
		if p.ConfirmationEnabled != nil {
			event.Notifications.ConfirmationEnabled = *p.ConfirmationEnabled
		}
		if p.RemindersEnabled != nil {
			event.Notifications.RemindersEnabled = *p.RemindersEnabled
		}
	}
	return scheduleChanged
}

func (s *eventService) DeleteEvent(ctx context.Context, eventID, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if event.CreatedBy != userID {
		return domain.ErrForbidden
	}
	count, err := s.registrationRepo.CountByEventID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("count registrations: %w", err)
	}
	if count > 0 {
		return domain.ErrHasRegistrations
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *eventService) ChangeEventStatus(ctx context.Context, eventID string, newStatus domain.EventStatus, reason, userID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if !newStatus.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", newStatus, domain.ErrInvalidInput)
	}

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.CreatedBy != userID {
		return nil, domain.ErrForbidden
	}
	if !event.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("%s -> %s: %w", event.Status, newStatus, domain.ErrInvalidTransition)
	}

	if newStatus == domain.EventStatusCancelled {
		return s.cancelEvent(ctx, event, reason)
	}

	event.Status = newStatus
	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	monitoring.EventStatusChanged(string(newStatus))
	return event, nil
}

// cancelEvent moves the event to cancelled and cascades: every pending or
// confirmed registration is bulk-cancelled and each registrant is emailed the
// cancellation reason.
func (s *eventService) cancelEvent(ctx context.Context, event *domain.Event, reason string) (*domain.Event, error) {
	if !event.Schedule.StartDate.After(time.Now()) {
		return nil, domain.ErrEventEnded
	}
	if reason == "" {
		reason = defaultCancellationReason
	}

	// List before the bulk update so the notification targets are known.
	regs, err := s.registrationRepo.ListActiveByEventID(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list active registrations: %w", err)
	}
	if _, err := s.registrationRepo.CancelActiveByEventID(ctx, event.ID); err != nil {
		return nil, fmt.Errorf("cancel registrations: %w", err)
	}

	event.Status = domain.EventStatusCancelled
	event.Registration.RegisteredAttendees = 0
	event.Registration.Waitlist.CurrentSize = 0
	event.UpdatedAt = time.Now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	monitoring.EventStatusChanged(string(domain.EventStatusCancelled))

	for _, reg := range regs {
		data := &domain.EventCancelledEmailData{
			Email:      reg.Contact.Email,
			Name:       reg.Contact.Name,
			EventTitle: event.Title,
			Reason:     reason,
		}
		s.notify.dispatch("event_cancelled", func(ctx context.Context) error {
			return s.emailService.SendEventCancelled(ctx, data)
		})
	}
	return event, nil
}
