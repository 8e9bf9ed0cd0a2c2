package postgres

import (
	"context"
	"database/sql"
	"errors"

	"advisorycms/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

const registrationColumns = `id, event_id, user_id, contact_name, contact_email, contact_phone,
	type, status, confirmation_code, payment_amount, payment_currency,
	check_in_time, check_out_time,
	feedback_submitted, feedback_rating, feedback_comment, feedback_submitted_at,
	created_at, updated_at`

const activeStatuses = `('pending', 'confirmed', 'attended')`

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var (
		userID       sql.NullString
		checkIn      sql.NullTime
		checkOut     sql.NullTime
		rating       sql.NullInt64
		comment      sql.NullString
		feedbackAt   sql.NullTime
	)
	err := row.Scan(
		&reg.ID, &reg.EventID, &userID,
		&reg.Contact.Name, &reg.Contact.Email, &reg.Contact.Phone,
		&reg.Type, &reg.Status, &reg.ConfirmationCode,
		&reg.Payment.Amount, &reg.Payment.Currency,
		&checkIn, &checkOut,
		&reg.Feedback.Submitted, &rating, &comment, &feedbackAt,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if userID.Valid {
		reg.UserID = &userID.String
	}
	if checkIn.Valid {
		reg.Attendance.CheckInTime = &checkIn.Time
	}
	if checkOut.Valid {
		reg.Attendance.CheckOutTime = &checkOut.Time
	}
	if rating.Valid {
		reg.Feedback.Rating = int(rating.Int64)
	}
	if comment.Valid {
		reg.Feedback.Comment = comment.String
	}
	if feedbackAt.Valid {
		reg.Feedback.SubmittedAt = &feedbackAt.Time
	}
	return reg, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (event_id, user_id, contact_name, contact_email, contact_phone,
			type, status, confirmation_code, payment_amount, payment_currency,
			check_in_time, check_out_time,
			feedback_submitted, feedback_rating, feedback_comment, feedback_submitted_at,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`
	var rating sql.NullInt64
	if reg.Feedback.Rating != 0 {
		rating = sql.NullInt64{Int64: int64(reg.Feedback.Rating), Valid: true}
	}
	return r.DB.QueryRowContext(ctx, query,
		reg.EventID, nullString(reg.UserID),
		reg.Contact.Name, reg.Contact.Email, reg.Contact.Phone,
		reg.Type, reg.Status, reg.ConfirmationCode,
		reg.Payment.Amount, reg.Payment.Currency,
		nullTime(reg.Attendance.CheckInTime), nullTime(reg.Attendance.CheckOutTime),
		reg.Feedback.Submitted, rating, nullFeedbackComment(reg), nullTime(reg.Feedback.SubmittedAt),
		reg.CreatedAt, reg.UpdatedAt,
	).Scan(&reg.ID)
}

func nullFeedbackComment(reg *domain.Registration) sql.NullString {
	if !reg.Feedback.Submitted {
		return sql.NullString{}
	}
	return sql.NullString{String: reg.Feedback.Comment, Valid: true}
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) GetByConfirmationCode(ctx context.Context, code string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE confirmation_code = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) GetActiveByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations
		WHERE event_id = $1 AND user_id = $2 AND status IN ` + activeStatuses + `
		LIMIT 1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) GetActiveByEventAndEmail(ctx context.Context, eventID, email string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations
		WHERE event_id = $1 AND LOWER(contact_email) = LOWER($2) AND status IN ` + activeStatuses + `
		LIMIT 1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Registration, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + registrationColumns + ` FROM registrations
		WHERE event_id = $1
		ORDER BY created_at ASC
		LIMIT $2 OFFSET $3`
	rows, err := r.DB.QueryContext(ctx, query, eventID, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, err
		}
		regs = append(regs, reg)
	}
	return regs, total, rows.Err()
}

func (r *registrationRepository) ListActiveByEventID(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations
		WHERE event_id = $1 AND status IN ('pending', 'confirmed')
		ORDER BY created_at ASC`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *registrationRepository) ListWaitlisted(ctx context.Context, eventID string, limit int) ([]*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations
		WHERE event_id = $1 AND type = 'waitlist' AND status <> 'cancelled'
		ORDER BY created_at ASC
		LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, eventID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *registrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	query := `
		UPDATE registrations SET
			type = $1, status = $2,
			contact_name = $3, contact_email = $4, contact_phone = $5,
			payment_amount = $6, payment_currency = $7,
			check_in_time = $8, check_out_time = $9,
			feedback_submitted = $10, feedback_rating = $11, feedback_comment = $12, feedback_submitted_at = $13,
			updated_at = $14
		WHERE id = $15
	`
	var rating sql.NullInt64
	if reg.Feedback.Rating != 0 {
		rating = sql.NullInt64{Int64: int64(reg.Feedback.Rating), Valid: true}
	}
	result, err := r.DB.ExecContext(ctx, query,
		reg.Type, reg.Status,
		reg.Contact.Name, reg.Contact.Email, reg.Contact.Phone,
		reg.Payment.Amount, reg.Payment.Currency,
		nullTime(reg.Attendance.CheckInTime), nullTime(reg.Attendance.CheckOutTime),
		reg.Feedback.Submitted, rating, nullFeedbackComment(reg), nullTime(reg.Feedback.SubmittedAt),
		reg.UpdatedAt, reg.ID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *registrationRepository) CancelActiveByEventID(ctx context.Context, eventID string) (int, error) {
	query := `
		UPDATE registrations SET status = 'cancelled', updated_at = NOW()
		WHERE event_id = $1 AND status IN ('pending', 'confirmed')
	`
	result, err := r.DB.ExecContext(ctx, query, eventID)
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

func (r *registrationRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var count int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID).Scan(&count)
	return count, err
}
