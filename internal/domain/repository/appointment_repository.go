package repository

import (
	"time"

	"clinic-booking-api/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id int) (*entity.Appointment, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) ([]entity.Appointment, error)
	FindRecent(db *gorm.DB, limit int) ([]entity.Appointment, error)
	FindAll(db *gorm.DB) ([]entity.Appointment, error)

	// FindActiveByUserSlot returns the user's non-cancelled appointment at
	// (date, time) with any doctor, or nil.
	FindActiveByUserSlot(db *gorm.DB, userID uuid.UUID, date time.Time, timeOfDay string) (*entity.Appointment, error)

	// FindActiveByDoctorSlot returns the doctor's non-cancelled appointment
	// at (date, time) held by any user, or nil.
	FindActiveByDoctorSlot(db *gorm.DB, doctorID int, date time.Time, timeOfDay string) (*entity.Appointment, error)

	UpdateStatus(db *gorm.DB, id int, status entity.AppointmentStatus) (int64, error)

	// CancelOwned sets status=cancelled scoped to (id, userID); returns
	// affected rows so callers can distinguish a no-op from a cancel.
	CancelOwned(db *gorm.DB, id int, userID uuid.UUID) (int64, error)

	Count(db *gorm.DB) (int64, error)
	CountByStatus(db *gorm.DB, status entity.AppointmentStatus) (int64, error)
}
