package entity

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// ValidStatus reports whether s is one of the known appointment statuses
func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// UniqueSlotIndex is the partial unique index enforcing the one-active-
// booking-per-slot invariant. Cancelled rows are excluded so a freed slot
// becomes bookable again immediately. The index, not the advisory checks,
// is the authority when concurrent requests race for the same slot.
const UniqueSlotIndex = "uniq_appointment_slot"

// Appointment represents a booked (doctor, date, time) slot.
// Time holds the canonical hh:mm AM/PM string produced by pkg/timeslot.
type Appointment struct {
	ID        int               `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"user_id"`
	DoctorID  int               `gorm:"not null;uniqueIndex:uniq_appointment_slot,where:status <> 'cancelled'" json:"doctor_id"`
	Date      time.Time         `gorm:"type:date;not null;uniqueIndex:uniq_appointment_slot,where:status <> 'cancelled'" json:"date"`
	Time      string            `gorm:"type:varchar(8);not null;uniqueIndex:uniq_appointment_slot,where:status <> 'cancelled'" json:"time"`
	Status    AppointmentStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User   User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Doctor Doctor `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// IsCancelled checks if the appointment is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status == AppointmentStatusCancelled
}
