package usecase

import (
	"context"
	"testing"

	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/domain/entity"
	"clinic-booking-api/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingFixture struct {
	usecase         AppointmentUsecase
	appointmentRepo *fakeAppointmentRepo
	doctorRepo      *fakeDoctorRepo
	auditRepo       *fakeAuditRepo
	userID          uuid.UUID
	ctx             context.Context
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	db := newTestDB(t)
	log := newTestLogger()
	userID := uuid.New()

	appointmentRepo := &fakeAppointmentRepo{}
	doctorRepo := &fakeDoctorRepo{doctors: map[int]*entity.Doctor{
		1: {ID: 1, Name: "Dr. Sarah Wilson", Specialization: "Cardiologist"},
	}}
	auditRepo := &fakeAuditRepo{}

	uc := NewAppointmentUsecase(
		db, log,
		appointmentRepo,
		doctorRepo,
		service.NewSlotArbiter(log, appointmentRepo),
		newTestNotifier(t),
		service.NewAuditService(log, auditRepo),
	)

	return &bookingFixture{
		usecase:         uc,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		auditRepo:       auditRepo,
		userID:          userID,
		ctx:             authedContext(userID, "patient@example.com"),
	}
}

func TestBookAppointment_Success(t *testing.T) {
	f := newBookingFixture(t)

	resp, err := f.usecase.BookAppointment(f.ctx, &dto.BookAppointmentRequest{
		DoctorID: 1,
		Date:     "2026-03-10",
		Time:     "10:00 am",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.DoctorID)
	assert.Equal(t, "2026-03-10", resp.Date)
	assert.Equal(t, "10:00 AM", resp.Time, "time must be stored canonical")
	assert.Equal(t, string(entity.AppointmentStatusPending), resp.Status)
	assert.Equal(t, "Dr. Sarah Wilson", resp.DoctorName)

	require.Len(t, f.appointmentRepo.created, 1)
	assert.Equal(t, f.userID, f.appointmentRepo.created[0].UserID)
	assert.Contains(t, f.auditRepo.actions(), entity.AuditActionAppointmentBook)
}

func TestBookAppointment_MalformedTime(t *testing.T) {
	f := newBookingFixture(t)

	for _, bad := range []string{"25:00", "10 o'clock", "10:60 AM", ""} {
		_, err := f.usecase.BookAppointment(f.ctx, &dto.BookAppointmentRequest{
			DoctorID: 1,
			Date:     "2026-03-10",
			Time:     bad,
		})
		assert.ErrorIs(t, err, ErrMalformedTime, "time %q", bad)
	}

	// Rejected before any write
	assert.Empty(t, f.appointmentRepo.created)
}

func TestBookAppointment_InvalidDate(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.usecase.BookAppointment(f.ctx, &dto.BookAppointmentRequest{
		DoctorID: 1,
		Date:     "10-03-2026",
		Time:     "10:00 AM",
	})
	assert.ErrorIs(t, err, ErrInvalidDateFormat)
}

func TestBookAppointment_DoctorNotFound(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.usecase.BookAppointment(f.ctx, &dto.BookAppointmentRequest{
		DoctorID: 99,
		Date:     "2026-03-10",
		Time:     "10:00 AM",
	})
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestBookAppointment_UserDoubleBooked(t *testing.T) {
	f := newBookingFixture(t)
	f.appointmentRepo.userSlot = &entity.Appointment{ID: 5}

	_, err := f.usecase.BookAppointment(f.ctx, &dto.BookAppointmentRequest{
		DoctorID: 1,
		Date:     "2026-03-10",
		Time:     "10:00 AM",
	})
	assert.ErrorIs(t, err, ErrUserDoubleBooked)
	assert.Empty(t, f.appointmentRepo.created)
}

// When the user is double-booked AND the doctor slot is taken, the
// self-conflict answer wins: the checks are ordered.
func TestBookAppointment_SelfConflictReportedFirst(t *testing.T) {
	f := newBookingFixture(t)
	f.appointmentRepo.userSlot = &entity.Appointment{ID: 5}
	f.appointmentRepo.doctorSlot = &entity.Appointment{ID: 6}

	_, err := f.usecase.BookAppointment(f.ctx, &dto.BookAppointmentRequest{
		DoctorID: 1,
		Date:     "2026-03-10",
		Time:     "10:00 AM",
	})
	assert.ErrorIs(t, err, ErrUserDoubleBooked)
}

func TestBookAppointment_SlotTaken(t *testing.T) {
	f := newBookingFixture(t)
	f.appointmentRepo.doctorSlot = &entity.Appointment{ID: 6}

	_, err := f.usecase.BookAppointment(f.ctx, &dto.BookAppointmentRequest{
		DoctorID: 1,
		Date:     "2026-03-10",
		Time:     "10:00 AM",
	})
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.Empty(t, f.appointmentRepo.created)
}

// Two racing requests can both pass the advisory checks; the loser hits
// the partial unique index at insert time and must see the same
// slot-taken outcome as if the advisory check had caught it.
func TestBookAppointment_RaceLoserGetsSlotTaken(t *testing.T) {
	f := newBookingFixture(t)
	f.appointmentRepo.createErr = slotIndexViolation()

	_, err := f.usecase.BookAppointment(f.ctx, &dto.BookAppointmentRequest{
		DoctorID: 1,
		Date:     "2026-03-10",
		Time:     "10:00 AM",
	})
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestBookAppointment_NormalizesBeforeConflictChecks(t *testing.T) {
	f := newBookingFixture(t)

	// 24-hour and 12-hour spellings of the same slot book as one value
	resp, err := f.usecase.BookAppointment(f.ctx, &dto.BookAppointmentRequest{
		DoctorID: 1,
		Date:     "2026-03-10",
		Time:     "14:30",
	})
	require.NoError(t, err)
	assert.Equal(t, "02:30 PM", resp.Time)
}

// A cancelled appointment frees the slot: the identical (doctor, date,
// time) books again immediately, for the same user and for another one.
func TestBookAppointment_CancelledSlotIsRebookable(t *testing.T) {
	f := newBookingFixture(t)
	req := &dto.BookAppointmentRequest{
		DoctorID: 1,
		Date:     "2026-03-10",
		Time:     "10:00 AM",
	}

	first, err := f.usecase.BookAppointment(f.ctx, req)
	require.NoError(t, err)

	// While active the slot blocks both the holder and other patients
	_, err = f.usecase.BookAppointment(f.ctx, req)
	require.ErrorIs(t, err, ErrUserDoubleBooked)

	otherCtx := authedContext(uuid.New(), "other@example.com")
	_, err = f.usecase.BookAppointment(otherCtx, req)
	require.ErrorIs(t, err, ErrSlotTaken)

	require.NoError(t, f.usecase.CancelAppointment(f.ctx, first.ID))

	// Same user rebooks the freed slot
	rebooked, err := f.usecase.BookAppointment(f.ctx, req)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, rebooked.ID)

	// And after cancelling again, a different patient takes it
	require.NoError(t, f.usecase.CancelAppointment(f.ctx, rebooked.ID))
	_, err = f.usecase.BookAppointment(otherCtx, req)
	require.NoError(t, err)
}

func TestGetMyAppointments(t *testing.T) {
	f := newBookingFixture(t)
	f.appointmentRepo.byUser = []entity.Appointment{
		{ID: 2, UserID: f.userID, Status: entity.AppointmentStatusPending},
		{ID: 1, UserID: f.userID, Status: entity.AppointmentStatusCancelled},
	}

	resp, err := f.usecase.GetMyAppointments(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 2, resp.Appointments[0].ID)
}

func TestCancelAppointment_Success(t *testing.T) {
	f := newBookingFixture(t)
	f.appointmentRepo.cancelAffected = 1

	err := f.usecase.CancelAppointment(f.ctx, 3)
	require.NoError(t, err)
	assert.Contains(t, f.auditRepo.actions(), entity.AuditActionAppointmentCancel)
}

// 0 affected rows covers a foreign id, someone else's appointment, and
// an already-cancelled one; the caller cannot tell these apart.
func TestCancelAppointment_NotOwnedOrMissing(t *testing.T) {
	f := newBookingFixture(t)
	f.appointmentRepo.cancelAffected = 0

	err := f.usecase.CancelAppointment(f.ctx, 3)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.Empty(t, f.auditRepo.entries)
}

func TestBookAppointment_RequiresAuthContext(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.usecase.BookAppointment(context.Background(), &dto.BookAppointmentRequest{
		DoctorID: 1,
		Date:     "2026-03-10",
		Time:     "10:00 AM",
	})
	assert.Error(t, err)
}
