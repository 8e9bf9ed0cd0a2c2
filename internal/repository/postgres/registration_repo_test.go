package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"advisorycms/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var registrationColumnNames = []string{
	"id", "event_id", "user_id", "contact_name", "contact_email", "contact_phone",
	"type", "status", "confirmation_code", "payment_amount", "payment_currency",
	"check_in_time", "check_out_time",
	"feedback_submitted", "feedback_rating", "feedback_comment", "feedback_submitted_at",
	"created_at", "updated_at",
}

func sampleRegistration() *domain.Registration {
	ts := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	userID := "user-1"
	return &domain.Registration{
		ID:               "reg-1",
		EventID:          "ev-1",
		UserID:           &userID,
		Contact:          domain.ContactInfo{Name: "Ada", Email: "ada@example.com"},
		Type:             domain.RegistrationTypeStandard,
		Status:           domain.RegistrationStatusConfirmed,
		ConfirmationCode: "AB12CD34",
		Payment:          domain.Payment{Amount: decimal.New(2500, -2), Currency: "EUR"},
		CreatedAt:        ts,
		UpdatedAt:        ts,
	}
}

func registrationRow(reg *domain.Registration) *sqlmock.Rows {
	return sqlmock.NewRows(registrationColumnNames).AddRow(
		reg.ID, reg.EventID, nullString(reg.UserID),
		reg.Contact.Name, reg.Contact.Email, reg.Contact.Phone,
		string(reg.Type), string(reg.Status), reg.ConfirmationCode,
		reg.Payment.Amount.StringFixed(2), reg.Payment.Currency,
		nullTime(reg.Attendance.CheckInTime), nullTime(reg.Attendance.CheckOutTime),
		reg.Feedback.Submitted, nil, nil, nullTime(reg.Feedback.SubmittedAt),
		reg.CreatedAt, reg.UpdatedAt,
	)
}

func TestRegistrationRepository_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantID  string
		wantErr bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("reg-new"))
			},
			wantID: "reg-new",
		},
		{
			name: "db error",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO registrations`).
					WillReturnError(sql.ErrConnDone)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			reg := sampleRegistration()
			reg.ID = ""
			repo := NewRegistrationRepository(db)
			err = repo.Create(ctx, reg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, reg.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		id         string
		mock       func(mock sqlmock.Sqlmock)
		want       *domain.Registration
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "success",
			id:   "reg-1",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM registrations WHERE id = \$1`).
					WithArgs("reg-1").
					WillReturnRows(registrationRow(sampleRegistration()))
			},
			want: sampleRegistration(),
		},
		{
			name: "not found",
			id:   "reg-missing",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM registrations WHERE id = \$1`).
					WithArgs("reg-missing").
					WillReturnError(sql.ErrNoRows)
			},
			wantErr:    true,
			isNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			got, err := repo.GetByID(ctx, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				if tt.isNotFound {
					require.True(t, errors.Is(err, domain.ErrNotFound))
				}
				require.Nil(t, got)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_GetByConfirmationCode(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT (.+) FROM registrations WHERE confirmation_code = \$1`).
		WithArgs("AB12CD34").
		WillReturnRows(registrationRow(sampleRegistration()))

	repo := NewRegistrationRepository(db)
	got, err := repo.GetByConfirmationCode(ctx, "AB12CD34")
	require.NoError(t, err)
	require.Equal(t, sampleRegistration(), got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_GetActiveByEventAndUser(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE event_id = \$1 AND user_id = \$2 AND status IN`).
			WithArgs("ev-1", "user-1").
			WillReturnRows(registrationRow(sampleRegistration()))

		repo := NewRegistrationRepository(db)
		got, err := repo.GetActiveByEventAndUser(ctx, "ev-1", "user-1")
		require.NoError(t, err)
		require.Equal(t, "reg-1", got.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`WHERE event_id = \$1 AND user_id = \$2 AND status IN`).
			WithArgs("ev-1", "user-2").
			WillReturnError(sql.ErrNoRows)

		repo := NewRegistrationRepository(db)
		got, err := repo.GetActiveByEventAndUser(ctx, "ev-1", "user-2")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
	})
}

func TestRegistrationRepository_GetActiveByEventAndEmail(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`LOWER\(contact_email\) = LOWER\(\$2\)`).
		WithArgs("ev-1", "Ada@Example.com").
		WillReturnRows(registrationRow(sampleRegistration()))

	repo := NewRegistrationRepository(db)
	got, err := repo.GetActiveByEventAndEmail(ctx, "ev-1", "Ada@Example.com")
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", got.Contact.Email)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_ListByEventID(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM registrations WHERE event_id = \$1`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	mock.ExpectQuery(`ORDER BY created_at ASC\s+LIMIT \$2 OFFSET \$3`).
		WithArgs("ev-1", 20, 20).
		WillReturnRows(registrationRow(sampleRegistration()))

	repo := NewRegistrationRepository(db)
	got, total, err := repo.ListByEventID(ctx, "ev-1", domain.PaginationParams{Page: 2, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 25, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_ListWaitlisted(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	first := sampleRegistration()
	second := sampleRegistration()
	second.ID = "reg-2"
	second.CreatedAt = second.CreatedAt.Add(time.Minute)

	rows := registrationRow(first)
	rows.AddRow(
		second.ID, second.EventID, nullString(second.UserID),
		second.Contact.Name, second.Contact.Email, second.Contact.Phone,
		string(second.Type), string(second.Status), second.ConfirmationCode,
		second.Payment.Amount.StringFixed(2), second.Payment.Currency,
		nil, nil, false, nil, nil, nil,
		second.CreatedAt, second.UpdatedAt,
	)

	mock.ExpectQuery(`type = 'waitlist' AND status <> 'cancelled'\s+ORDER BY created_at ASC\s+LIMIT \$2`).
		WithArgs("ev-1", 2).
		WillReturnRows(rows)

	repo := NewRegistrationRepository(db)
	got, err := repo.ListWaitlisted(ctx, "ev-1", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "reg-1", got[0].ID)
	require.Equal(t, "reg-2", got[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_Update(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		mock       func(mock sqlmock.Sqlmock)
		wantErr    bool
		isNotFound bool
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE registrations SET`).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "not found",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE registrations SET`).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
			wantErr:    true,
			isNotFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewRegistrationRepository(db)
			err = repo.Update(ctx, sampleRegistration())
			if tt.wantErr {
				require.Error(t, err)
				if tt.isNotFound {
					require.True(t, errors.Is(err, domain.ErrNotFound))
				}
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRegistrationRepository_CancelActiveByEventID(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE registrations SET status = 'cancelled'`).
		WithArgs("ev-1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	repo := NewRegistrationRepository(db)
	n, err := repo.CancelActiveByEventID(ctx, "ev-1")
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRegistrationRepository_CountByEventID(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM registrations WHERE event_id = \$1`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	repo := NewRegistrationRepository(db)
	n, err := repo.CountByEventID(ctx, "ev-1")
	require.NoError(t, err)
	require.Equal(t, 7, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
