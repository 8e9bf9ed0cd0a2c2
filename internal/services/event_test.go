package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"advisorycms/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID   map[string]*domain.Event
	nextID int
	err    error // if set, every method returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) add(e *domain.Event) *domain.Event {
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", f.nextID)
		f.nextID++
	}
	f.byID[e.ID] = e
	return e
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	f.add(e)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.byID {
		if e.Slug == slug {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.ListEventsFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	out := make([]*domain.Event, 0, len(f.byID))
	for _, e := range f.byID {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Schedule.StartDate.Before(out[j].Schedule.StartDate) })
	return out, len(out), nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[e.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) ListOverlapping(ctx context.Context, start, end time.Time, excludeID string) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.Event, 0)
	for _, e := range f.byID {
		if e.ID == excludeID {
			continue
		}
		if e.Status == domain.EventStatusCancelled || e.Status == domain.EventStatusArchived {
			continue
		}
		if e.Schedule.StartDate.Before(end) && e.Schedule.EndDate.After(start) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Schedule.StartDate.Before(out[j].Schedule.StartDate) })
	return out, nil
}

func (f *fakeEventRepo) IncrementViews(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Engagement.Views++
	return nil
}

// fakeRegistrationRepo is an in-memory RegistrationRepository for tests.
type fakeRegistrationRepo struct {
	byID   map[string]*domain.Registration
	nextID int
	err    error
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{
		byID:   make(map[string]*domain.Registration),
		nextID: 1,
	}
}

func (f *fakeRegistrationRepo) add(reg *domain.Registration) *domain.Registration {
	if reg.ID == "" {
		reg.ID = fmt.Sprintf("reg-%d", f.nextID)
		f.nextID++
	}
	f.byID[reg.ID] = reg
	return reg
}

func (f *fakeRegistrationRepo) Create(ctx context.Context, reg *domain.Registration) error {
	if f.err != nil {
		return f.err
	}
	f.add(reg)
	return nil
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	if reg, ok := f.byID[id]; ok {
		return reg, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) GetByConfirmationCode(ctx context.Context, code string) (*domain.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, reg := range f.byID {
		if reg.ConfirmationCode == code {
			return reg, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) GetActiveByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, reg := range f.byID {
		if reg.EventID == eventID && reg.UserID != nil && *reg.UserID == userID && reg.Status.Active() {
			return reg, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) GetActiveByEventAndEmail(ctx context.Context, eventID, email string) (*domain.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, reg := range f.byID {
		if reg.EventID == eventID && reg.Contact.Email == email && reg.Status.Active() {
			return reg, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	out := f.sortedByEvent(eventID, func(reg *domain.Registration) bool { return true })
	return out, len(out), nil
}

func (f *fakeRegistrationRepo) ListActiveByEventID(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sortedByEvent(eventID, func(reg *domain.Registration) bool {
		return reg.Status == domain.RegistrationStatusPending || reg.Status == domain.RegistrationStatusConfirmed
	}), nil
}

func (f *fakeRegistrationRepo) ListWaitlisted(ctx context.Context, eventID string, limit int) ([]*domain.Registration, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := f.sortedByEvent(eventID, func(reg *domain.Registration) bool {
		return reg.Type == domain.RegistrationTypeWaitlist && reg.Status != domain.RegistrationStatusCancelled
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRegistrationRepo) sortedByEvent(eventID string, keep func(*domain.Registration) bool) []*domain.Registration {
	out := make([]*domain.Registration, 0)
	for _, reg := range f.byID {
		if reg.EventID == eventID && keep(reg) {
			out = append(out, reg)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func (f *fakeRegistrationRepo) Update(ctx context.Context, reg *domain.Registration) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byID[reg.ID]; !ok {
		return domain.ErrNotFound
	}
	f.byID[reg.ID] = reg
	return nil
}

func (f *fakeRegistrationRepo) CancelActiveByEventID(ctx context.Context, eventID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, reg := range f.byID {
		if reg.EventID == eventID &&
			(reg.Status == domain.RegistrationStatusPending || reg.Status == domain.RegistrationStatusConfirmed) {
			reg.Status = domain.RegistrationStatusCancelled
			n++
		}
	}
	return n, nil
}

func (f *fakeRegistrationRepo) CountByEventID(ctx context.Context, eventID string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, reg := range f.byID {
		if reg.EventID == eventID {
			n++
		}
	}
	return n, nil
}

// fakeEmailService records sends. Services dispatch emails on their own
// goroutines, so the recorder is mutex-protected and tests never assert on
// delivery counts.
type fakeEmailService struct {
	mu    sync.Mutex
	sends []string
}

func (f *fakeEmailService) record(template string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends = append(f.sends, template)
}

func (f *fakeEmailService) SendRegistrationConfirmation(ctx context.Context, data *domain.RegistrationEmailData) error {
	f.record("registration_confirmed")
	return nil
}

func (f *fakeEmailService) SendWaitlistJoined(ctx context.Context, data *domain.RegistrationEmailData) error {
	f.record("waitlist_joined")
	return nil
}

func (f *fakeEmailService) SendWaitlistPromoted(ctx context.Context, data *domain.RegistrationEmailData) error {
	f.record("waitlist_promoted")
	return nil
}

func (f *fakeEmailService) SendRegistrationCancelled(ctx context.Context, data *domain.RegistrationEmailData) error {
	f.record("registration_cancelled")
	return nil
}

func (f *fakeEmailService) SendEventCancelled(ctx context.Context, data *domain.EventCancelledEmailData) error {
	f.record("event_cancelled")
	return nil
}

func (f *fakeEmailService) SendScheduleChange(ctx context.Context, data *domain.ScheduleChangeEmailData, calendar []byte) error {
	f.record("schedule_change")
	return nil
}

func newTestEventService(eventRepo *fakeEventRepo, regRepo *fakeRegistrationRepo) *eventService {
	return &eventService{
		eventRepo:        eventRepo,
		registrationRepo: regRepo,
		calendar: &calendarService{
			eventRepo:      eventRepo,
			organizerName:  "Advisory CMS",
			organizerEmail: "events@example.com",
			contextTimeout: time.Second,
		},
		emailService:   &fakeEmailService{},
		notify:         &notifier{logger: discardLogger()},
		contextTimeout: time.Second,
	}
}

func futureEvent(status domain.EventStatus) *domain.Event {
	start := time.Now().Add(48 * time.Hour)
	return &domain.Event{
		Title:  "Leadership Offsite",
		Slug:   "leadership-offsite",
		Status: status,
		Schedule: domain.Schedule{
			StartDate: start,
			EndDate:   start.Add(8 * time.Hour),
			Timezone:  "UTC",
		},
		Registration: domain.RegistrationPolicy{Required: true},
		CreatedBy:    "user-1",
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		event   *domain.Event
		creator string
		setup   func(repo *fakeEventRepo)
		wantErr error
		check   func(t *testing.T, e *domain.Event)
	}{
		{
			name:    "success derives slug and defaults to draft",
			event:   &domain.Event{Title: "Annual Strategy Day!", Slug: "", Schedule: schedule(1, 2)},
			creator: "user-1",
			check: func(t *testing.T, e *domain.Event) {
				assert.Equal(t, "annual-strategy-day", e.Slug)
				assert.Equal(t, domain.EventStatusDraft, e.Status)
				assert.Equal(t, "user-1", e.CreatedBy)
				assert.NotEmpty(t, e.ID)
			},
		},
		{
			name:    "derived slug collision gets a suffix",
			event:   &domain.Event{Title: "Annual Strategy Day", Schedule: schedule(1, 2)},
			creator: "user-1",
			setup: func(repo *fakeEventRepo) {
				repo.add(&domain.Event{Slug: "annual-strategy-day"})
			},
			check: func(t *testing.T, e *domain.Event) {
				assert.NotEqual(t, "annual-strategy-day", e.Slug)
				assert.Contains(t, e.Slug, "annual-strategy-day-")
			},
		},
		{
			name:    "explicit slug collision is rejected",
			event:   &domain.Event{Title: "Other", Slug: "annual-strategy-day", Schedule: schedule(1, 2)},
			creator: "user-1",
			setup: func(repo *fakeEventRepo) {
				repo.add(&domain.Event{Slug: "annual-strategy-day"})
			},
			wantErr: domain.ErrDuplicateSlug,
		},
		{
			name:    "missing title",
			event:   &domain.Event{Schedule: schedule(1, 2)},
			creator: "user-1",
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "missing creator",
			event:   &domain.Event{Title: "X", Schedule: schedule(1, 2)},
			creator: "",
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "end before start",
			event:   &domain.Event{Title: "X", Schedule: schedule(2, 1)},
			creator: "user-1",
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown status",
			event:   &domain.Event{Title: "X", Status: "bogus", Schedule: schedule(1, 2)},
			creator: "user-1",
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeEventRepo()
			if tt.setup != nil {
				tt.setup(repo)
			}
			svc := newTestEventService(repo, newFakeRegistrationRepo())

			err := svc.CreateEvent(ctx, tt.event, tt.creator)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, tt.event)
			}
		})
	}
}

// schedule returns a schedule starting startDays from now and ending endDays
// from now.
func schedule(startDays, endDays int) domain.Schedule {
	now := time.Now()
	return domain.Schedule{
		StartDate: now.AddDate(0, 0, startDays),
		EndDate:   now.AddDate(0, 0, endDays),
		Timezone:  "UTC",
	}
}

func TestEventService_GetEventBySlug_bumpsViews(t *testing.T) {
	repo := newFakeEventRepo()
	repo.add(futureEvent(domain.EventStatusPublished))
	svc := newTestEventService(repo, newFakeRegistrationRepo())

	got, err := svc.GetEventBySlug(context.Background(), "leadership-offsite")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Engagement.Views)

	got, err = svc.GetEventBySlug(context.Background(), "leadership-offsite")
	require.NoError(t, err)
	assert.EqualValues(t, 2, got.Engagement.Views)
}

func TestEventService_UpdateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("only owner may update", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.add(futureEvent(domain.EventStatusDraft))
		svc := newTestEventService(repo, newFakeRegistrationRepo())

		_, err := svc.UpdateEvent(ctx, "ev-1", &domain.EventPatch{}, "someone-else")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("patch overwrites only present keys", func(t *testing.T) {
		repo := newFakeEventRepo()
		event := futureEvent(domain.EventStatusDraft)
		event.Location = domain.Location{Type: "venue", Venue: "HQ", City: "Berlin"}
		repo.add(event)
		svc := newTestEventService(repo, newFakeRegistrationRepo())

		title := "Renamed Offsite"
		city := "Hamburg"
		got, err := svc.UpdateEvent(ctx, "ev-1", &domain.EventPatch{
			Title:    &title,
			Location: &domain.LocationPatch{City: &city},
		}, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "Renamed Offsite", got.Title)
		assert.Equal(t, "Hamburg", got.Location.City)
		assert.Equal(t, "HQ", got.Location.Venue)
	})

	t.Run("schedule patch with conflict check rejects overlap", func(t *testing.T) {
		repo := newFakeEventRepo()
		event := futureEvent(domain.EventStatusDraft)
		repo.add(event)
		other := futureEvent(domain.EventStatusPublished)
		other.Slug = "other"
		other.Schedule.StartDate = event.Schedule.StartDate.Add(100 * time.Hour)
		other.Schedule.EndDate = other.Schedule.StartDate.Add(2 * time.Hour)
		repo.add(other)
		svc := newTestEventService(repo, newFakeRegistrationRepo())

		newStart := other.Schedule.StartDate.Add(time.Hour)
		newEnd := newStart.Add(4 * time.Hour)
		_, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{
			Schedule:       &domain.SchedulePatch{StartDate: &newStart, EndDate: &newEnd},
			CheckConflicts: true,
		}, "user-1")
		require.ErrorIs(t, err, domain.ErrScheduleConflict)
	})

	t.Run("same overlap passes without the check flag", func(t *testing.T) {
		repo := newFakeEventRepo()
		event := futureEvent(domain.EventStatusDraft)
		repo.add(event)
		other := futureEvent(domain.EventStatusPublished)
		other.Slug = "other"
		other.Schedule.StartDate = event.Schedule.StartDate.Add(100 * time.Hour)
		other.Schedule.EndDate = other.Schedule.StartDate.Add(2 * time.Hour)
		repo.add(other)
		svc := newTestEventService(repo, newFakeRegistrationRepo())

		newStart := other.Schedule.StartDate.Add(time.Hour)
		newEnd := newStart.Add(4 * time.Hour)
		_, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{
			Schedule: &domain.SchedulePatch{StartDate: &newStart, EndDate: &newEnd},
		}, "user-1")
		require.NoError(t, err)
	})

	t.Run("patch cannot invert the schedule", func(t *testing.T) {
		repo := newFakeEventRepo()
		event := futureEvent(domain.EventStatusDraft)
		repo.add(event)
		svc := newTestEventService(repo, newFakeRegistrationRepo())

		newEnd := event.Schedule.StartDate.Add(-time.Hour)
		_, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{
			Schedule: &domain.SchedulePatch{EndDate: &newEnd},
		}, "user-1")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestEventService_DeleteEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("success with no registrations", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.add(futureEvent(domain.EventStatusDraft))
		svc := newTestEventService(repo, newFakeRegistrationRepo())

		require.NoError(t, svc.DeleteEvent(ctx, "ev-1", "user-1"))
		_, err := repo.GetByID(ctx, "ev-1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("rejected while registrations exist", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.add(futureEvent(domain.EventStatusPublished))
		regRepo := newFakeRegistrationRepo()
		regRepo.add(&domain.Registration{EventID: "ev-1", Status: domain.RegistrationStatusCancelled})
		svc := newTestEventService(repo, regRepo)

		err := svc.DeleteEvent(ctx, "ev-1", "user-1")
		require.ErrorIs(t, err, domain.ErrHasRegistrations)
	})

	t.Run("only owner may delete", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.add(futureEvent(domain.EventStatusDraft))
		svc := newTestEventService(repo, newFakeRegistrationRepo())

		err := svc.DeleteEvent(ctx, "ev-1", "someone-else")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("not found", func(t *testing.T) {
		svc := newTestEventService(newFakeEventRepo(), newFakeRegistrationRepo())
		err := svc.DeleteEvent(ctx, "missing", "user-1")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventService_ChangeEventStatus(t *testing.T) {
	ctx := context.Background()

	transitions := []struct {
		from    domain.EventStatus
		to      domain.EventStatus
		allowed bool
	}{
		{domain.EventStatusDraft, domain.EventStatusPublished, true},
		{domain.EventStatusDraft, domain.EventStatusCancelled, true},
		{domain.EventStatusDraft, domain.EventStatusArchived, true},
		{domain.EventStatusDraft, domain.EventStatusCompleted, false},
		{domain.EventStatusPublished, domain.EventStatusDraft, true},
		{domain.EventStatusPublished, domain.EventStatusCompleted, true},
		{domain.EventStatusCompleted, domain.EventStatusArchived, true},
		{domain.EventStatusCompleted, domain.EventStatusPublished, false},
		{domain.EventStatusCancelled, domain.EventStatusArchived, true},
		{domain.EventStatusCancelled, domain.EventStatusPublished, false},
		{domain.EventStatusArchived, domain.EventStatusDraft, false},
	}

	for _, tc := range transitions {
		name := fmt.Sprintf("%s to %s", tc.from, tc.to)
		t.Run(name, func(t *testing.T) {
			repo := newFakeEventRepo()
			repo.add(futureEvent(tc.from))
			svc := newTestEventService(repo, newFakeRegistrationRepo())

			got, err := svc.ChangeEventStatus(ctx, "ev-1", tc.to, "", "user-1")
			if !tc.allowed {
				require.ErrorIs(t, err, domain.ErrInvalidTransition)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.to, got.Status)
		})
	}

	t.Run("unknown status", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.add(futureEvent(domain.EventStatusDraft))
		svc := newTestEventService(repo, newFakeRegistrationRepo())

		_, err := svc.ChangeEventStatus(ctx, "ev-1", "bogus", "", "user-1")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("only owner may change status", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.add(futureEvent(domain.EventStatusDraft))
		svc := newTestEventService(repo, newFakeRegistrationRepo())

		_, err := svc.ChangeEventStatus(ctx, "ev-1", domain.EventStatusPublished, "", "someone-else")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestEventService_CancelEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades over active registrations and zeroes counters", func(t *testing.T) {
		repo := newFakeEventRepo()
		event := futureEvent(domain.EventStatusPublished)
		event.Registration.RegisteredAttendees = 2
		event.Registration.Waitlist = domain.Waitlist{Enabled: true, CurrentSize: 1}
		repo.add(event)

		regRepo := newFakeRegistrationRepo()
		regRepo.add(&domain.Registration{EventID: event.ID, Status: domain.RegistrationStatusConfirmed, Contact: domain.ContactInfo{Email: "a@example.com"}})
		regRepo.add(&domain.Registration{EventID: event.ID, Status: domain.RegistrationStatusPending, Contact: domain.ContactInfo{Email: "b@example.com"}})
		regRepo.add(&domain.Registration{EventID: event.ID, Status: domain.RegistrationStatusCancelled, Contact: domain.ContactInfo{Email: "c@example.com"}})
		svc := newTestEventService(repo, regRepo)

		got, err := svc.ChangeEventStatus(ctx, event.ID, domain.EventStatusCancelled, "venue flooded", "user-1")
		require.NoError(t, err)
		assert.Equal(t, domain.EventStatusCancelled, got.Status)
		assert.Zero(t, got.Registration.RegisteredAttendees)
		assert.Zero(t, got.Registration.Waitlist.CurrentSize)

		for _, reg := range regRepo.byID {
			assert.Equal(t, domain.RegistrationStatusCancelled, reg.Status)
		}
	})

	t.Run("past event cannot be cancelled", func(t *testing.T) {
		repo := newFakeEventRepo()
		event := futureEvent(domain.EventStatusPublished)
		event.Schedule.StartDate = time.Now().Add(-48 * time.Hour)
		event.Schedule.EndDate = time.Now().Add(-40 * time.Hour)
		repo.add(event)
		svc := newTestEventService(repo, newFakeRegistrationRepo())

		_, err := svc.ChangeEventStatus(ctx, event.ID, domain.EventStatusCancelled, "", "user-1")
		require.ErrorIs(t, err, domain.ErrEventEnded)
	})
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Annual Strategy Day", "annual-strategy-day"},
		{"  Q1 -- Review!  ", "q1-review"},
		{"Émigré Sessions", "émigré-sessions"},
		{"!!!", ""},
		{"already-a-slug", "already-a-slug"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in), "slugify(%q)", tt.in)
	}
}

func TestGenerateCode(t *testing.T) {
	code, err := generateCode(8)
	require.NoError(t, err)
	require.Len(t, code, 8)
	for _, r := range code {
		assert.Contains(t, string(codeAlphabet), string(r))
	}

	other, err := generateCode(8)
	require.NoError(t, err)
	assert.NotEqual(t, code, other, "two codes should almost never collide")
}
