package usecase

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"clinic-booking-api/internal/domain/entity"
	"clinic-booking-api/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportAppointmentsCSV(t *testing.T) {
	log := newTestLogger()
	auditRepo := &fakeAuditRepo{}
	appointmentRepo := &fakeAppointmentRepo{all: []entity.Appointment{
		{
			ID:       1,
			UserID:   uuid.New(),
			DoctorID: 1,
			Date:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			Time:     "10:00 AM",
			Status:   entity.AppointmentStatusConfirmed,
			User:     entity.User{FullName: "Pat Example", Email: "pat@example.com"},
			Doctor:   entity.Doctor{ID: 1, Name: "Dr. Sarah Wilson", Specialization: "Cardiologist"},
		},
		{
			ID:       2,
			UserID:   uuid.New(),
			DoctorID: 2,
			Date:     time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
			Time:     "02:30 PM",
			Status:   entity.AppointmentStatusCancelled,
			User:     entity.User{FullName: "Sam Example", Email: "sam@example.com"},
			Doctor:   entity.Doctor{ID: 2, Name: "Dr. Michael Chen", Specialization: "Dentist"},
		},
	}}

	uc := NewReportUsecase(newTestDB(t), log, appointmentRepo, service.NewAuditService(log, auditRepo))

	var buf bytes.Buffer
	require.NoError(t, uc.ExportAppointmentsCSV(authedContext(uuid.New(), "admin@clinic.example"), &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"id", "user", "email", "doctor", "specialization", "date", "time", "status", "created_at"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Dr. Sarah Wilson", rows[1][3])
	assert.Equal(t, "2026-03-10", rows[1][5])
	assert.Equal(t, "10:00 AM", rows[1][6])
	// Cancelled appointments are part of the export
	assert.Equal(t, "cancelled", rows[2][7])

	assert.Contains(t, auditRepo.actions(), entity.AuditActionAppointmentsExport)
}

func TestExportAppointmentsCSV_Empty(t *testing.T) {
	log := newTestLogger()
	uc := NewReportUsecase(newTestDB(t), log, &fakeAppointmentRepo{}, service.NewAuditService(log, &fakeAuditRepo{}))

	var buf bytes.Buffer
	require.NoError(t, uc.ExportAppointmentsCSV(authedContext(uuid.New(), "admin@clinic.example"), &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
