package repository

import (
	"regexp"
	"testing"
	"time"

	"clinic-booking-api/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

var appointmentColumns = []string{"id", "user_id", "doctor_id", "date", "time", "status"}

// The user-slot lookup must exclude cancelled rows in SQL, not in Go:
// the status filter is what makes a cancelled slot rebookable.
func TestFindActiveByUserSlot_QueryShape(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()

	userID := uuid.New()
	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "appointments" WHERE user_id = $1 AND date = $2 AND time = $3 AND status <> $4`)).
		WithArgs(userID, date, "10:00 AM", string(entity.AppointmentStatusCancelled), 1).
		WillReturnRows(sqlmock.NewRows(appointmentColumns).
			AddRow(7, userID.String(), 1, date, "10:00 AM", "pending"))

	got, err := repo.FindActiveByUserSlot(db, userID, date, "10:00 AM")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 7, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveByUserSlot_EmptySlot(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "appointments" WHERE user_id = $1 AND date = $2 AND time = $3 AND status <> $4`)).
		WillReturnRows(sqlmock.NewRows(appointmentColumns))

	got, err := repo.FindActiveByUserSlot(db, uuid.New(), time.Now(), "10:00 AM")
	require.NoError(t, err, "no active row is not an error")
	assert.Nil(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveByDoctorSlot_QueryShape(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta(
		`SELECT * FROM "appointments" WHERE doctor_id = $1 AND date = $2 AND time = $3 AND status <> $4`)).
		WithArgs(1, date, "10:00 AM", string(entity.AppointmentStatusCancelled), 1).
		WillReturnRows(sqlmock.NewRows(appointmentColumns).
			AddRow(9, uuid.New().String(), 1, date, "10:00 AM", "confirmed"))

	got, err := repo.FindActiveByDoctorSlot(db, 1, date, "10:00 AM")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 9, got.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// CancelOwned is the enforcement point for ownership: the update is
// keyed on (id, user_id) and skips already-cancelled rows, all in one
// statement.
func TestCancelOwned_QueryShape(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()
	userID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE "appointments" SET "status"=$1,"updated_at"=$2 WHERE id = $3 AND user_id = $4 AND status <> $5`)).
		WithArgs(string(entity.AppointmentStatusCancelled), sqlmock.AnyArg(), 3, userID, string(entity.AppointmentStatusCancelled)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	affected, err := repo.CancelOwned(db, 3, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A foreign user's id, a missing row and an already-cancelled row all
// surface as 0 affected rows, leaving the data untouched.
func TestCancelOwned_NoMatchingRow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE "appointments" SET "status"=$1,"updated_at"=$2 WHERE id = $3 AND user_id = $4 AND status <> $5`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	affected, err := repo.CancelOwned(db, 3, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_QueryShape(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(
		`UPDATE "appointments" SET "status"=$1,"updated_at"=$2 WHERE id = $3`)).
		WithArgs(string(entity.AppointmentStatusConfirmed), sqlmock.AnyArg(), 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	affected, err := repo.UpdateStatus(db, 3, entity.AppointmentStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
