package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"advisorycms/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, title, slug, status, start_date, end_date, timezone,
	location_type, venue, address, city, virtual_url,
	registration_required, max_attendees, registered_attendees,
	waitlist_enabled, waitlist_max_size, waitlist_current_size,
	registration_opens_at, registration_closes_at,
	is_free, currency, standard_price, early_bird_price, early_bird_deadline,
	summary, description, image_url, views, feedback_count,
	confirmation_enabled, reminders_enabled,
	created_by, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var (
		maxAttendees    sql.NullInt64
		waitlistMaxSize sql.NullInt64
		opensAt         sql.NullTime
		closesAt        sql.NullTime
		earlyBird       decimal.NullDecimal
		earlyBirdDL     sql.NullTime
	)
	err := row.Scan(
		&e.ID, &e.Title, &e.Slug, &e.Status,
		&e.Schedule.StartDate, &e.Schedule.EndDate, &e.Schedule.Timezone,
		&e.Location.Type, &e.Location.Venue, &e.Location.Address, &e.Location.City, &e.Location.VirtualURL,
		&e.Registration.Required, &maxAttendees, &e.Registration.RegisteredAttendees,
		&e.Registration.Waitlist.Enabled, &waitlistMaxSize, &e.Registration.Waitlist.CurrentSize,
		&opensAt, &closesAt,
		&e.Pricing.Free, &e.Pricing.Currency, &e.Pricing.Standard, &earlyBird, &earlyBirdDL,
		&e.Content.Summary, &e.Content.Description, &e.Content.ImageURL,
		&e.Engagement.Views, &e.Engagement.FeedbackCount,
		&e.Notifications.ConfirmationEnabled, &e.Notifications.RemindersEnabled,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if maxAttendees.Valid {
		n := int(maxAttendees.Int64)
		e.Registration.MaxAttendees = &n
	}
	if waitlistMaxSize.Valid {
		n := int(waitlistMaxSize.Int64)
		e.Registration.Waitlist.MaxSize = &n
	}
	if opensAt.Valid {
		e.Registration.OpensAt = &opensAt.Time
	}
	if closesAt.Valid {
		e.Registration.ClosesAt = &closesAt.Time
	}
	if earlyBird.Valid {
		e.Pricing.EarlyBird = &earlyBird.Decimal
	}
	if earlyBirdDL.Valid {
		e.Pricing.EarlyBirdDeadline = &earlyBirdDL.Time
	}
	return e, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullTime(v *time.Time) sql.NullTime {
	if v == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *v, Valid: true}
}

func nullDecimal(v *decimal.Decimal) decimal.NullDecimal {
	if v == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *v, Valid: true}
}

func eventArgs(e *domain.Event) []any {
	return []any{
		e.Title, e.Slug, e.Status,
		e.Schedule.StartDate, e.Schedule.EndDate, e.Schedule.Timezone,
		e.Location.Type, e.Location.Venue, e.Location.Address, e.Location.City, e.Location.VirtualURL,
		e.Registration.Required, nullInt(e.Registration.MaxAttendees), e.Registration.RegisteredAttendees,
		e.Registration.Waitlist.Enabled, nullInt(e.Registration.Waitlist.MaxSize), e.Registration.Waitlist.CurrentSize,
		nullTime(e.Registration.OpensAt), nullTime(e.Registration.ClosesAt),
		e.Pricing.Free, e.Pricing.Currency, e.Pricing.Standard, nullDecimal(e.Pricing.EarlyBird), nullTime(e.Pricing.EarlyBirdDeadline),
		e.Content.Summary, e.Content.Description, e.Content.ImageURL,
		e.Engagement.Views, e.Engagement.FeedbackCount,
		e.Notifications.ConfirmationEnabled, e.Notifications.RemindersEnabled,
		e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, slug, status, start_date, end_date, timezone,
			location_type, venue, address, city, virtual_url,
			registration_required, max_attendees, registered_attendees,
			waitlist_enabled, waitlist_max_size, waitlist_current_size,
			registration_opens_at, registration_closes_at,
			is_free, currency, standard_price, early_bird_price, early_bird_deadline,
			summary, description, image_url, views, feedback_count,
			confirmation_enabled, reminders_enabled,
			created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
			$16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29,
			$30, $31, $32, $33, $34)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, eventArgs(e)...).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE slug = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, slug))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) List(ctx context.Context, filter domain.ListEventsFilter, params domain.PaginationParams) ([]*domain.Event, int, error) {
	where := []string{"1=1"}
	args := []any{}
	n := 1
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", n))
		args = append(args, filter.Status)
		n++
	}
	if filter.From != nil {
		where = append(where, fmt.Sprintf("end_date > $%d", n))
		args = append(args, *filter.From)
		n++
	}
	if filter.To != nil {
		where = append(where, fmt.Sprintf("start_date < $%d", n))
		args = append(args, *filter.To)
		n++
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM events WHERE ` + whereClause
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY start_date ASC LIMIT $%d OFFSET $%d`,
		eventColumns, whereClause, n, n+1)
	args = append(args, params.PageSize, params.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events SET title = $1, slug = $2, status = $3,
			start_date = $4, end_date = $5, timezone = $6,
			location_type = $7, venue = $8, address = $9, city = $10, virtual_url = $11,
			registration_required = $12, max_attendees = $13, registered_attendees = $14,
			waitlist_enabled = $15, waitlist_max_size = $16, waitlist_current_size = $17,
			registration_opens_at = $18, registration_closes_at = $19,
			is_free = $20, currency = $21, standard_price = $22, early_bird_price = $23, early_bird_deadline = $24,
			summary = $25, description = $26, image_url = $27, views = $28, feedback_count = $29,
			confirmation_enabled = $30, reminders_enabled = $31,
			created_by = $32, created_at = $33, updated_at = $34
		WHERE id = $35
	`
	args := append(eventArgs(e), e.ID)
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListOverlapping uses the standard interval test: an event conflicts when it
// starts before the queried end and ends after the queried start.
func (r *eventRepository) ListOverlapping(ctx context.Context, start, end time.Time, excludeID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events
		WHERE start_date < $2 AND end_date > $1 AND status NOT IN ('cancelled', 'archived')`
	args := []any{start, end}
	if excludeID != "" {
		query += ` AND id <> $3`
		args = append(args, excludeID)
	}
	query += ` ORDER BY start_date ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *eventRepository) IncrementViews(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `UPDATE events SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
