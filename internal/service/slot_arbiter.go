package service

import (
	"context"
	"time"

	"clinic-booking-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SlotDecision is the outcome of the advisory slot check.
type SlotDecision string

const (
	// SlotAllowed means neither conflict check matched; the insert may proceed.
	SlotAllowed SlotDecision = "allowed"

	// SlotUserDoubleBooked means the requesting user already holds an
	// active appointment at the same (date, time) with some doctor.
	SlotUserDoubleBooked SlotDecision = "user_double_booked"

	// SlotTaken means the target doctor already has an active appointment
	// at the requested (date, time).
	SlotTaken SlotDecision = "slot_taken"
)

// SlotArbiter decides whether a booking request for a (doctor, date, time)
// slot may proceed, before any write is attempted.
//
// The checks run ordered and the first match wins:
//  1. self-conflict: the user cannot attend two appointments at once,
//     whichever doctors are involved;
//  2. doctor-conflict: the doctor cannot see two patients in one slot.
//
// The decision is advisory only. Two racing requests can both observe an
// empty slot here; the partial unique index on appointments settles the
// race at insert time, and the loser's constraint violation is remapped
// to the same slot-taken outcome by the booking usecase.
type SlotArbiter struct {
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
}

func NewSlotArbiter(log *logrus.Logger, appointmentRepo repository.AppointmentRepository) *SlotArbiter {
	return &SlotArbiter{
		log:             log,
		appointmentRepo: appointmentRepo,
	}
}

// Decide runs the advisory checks against the current store state.
// timeOfDay must already be in canonical form (pkg/timeslot.Normalize);
// malformed input is rejected by the caller before any lookup happens.
func (a *SlotArbiter) Decide(ctx context.Context, db *gorm.DB, userID uuid.UUID, doctorID int, date time.Time, timeOfDay string) (SlotDecision, error) {
	own, err := a.appointmentRepo.FindActiveByUserSlot(db.WithContext(ctx), userID, date, timeOfDay)
	if err != nil {
		a.log.Warnf("Failed self-conflict lookup for user %s: %+v", userID, err)
		return "", err
	}
	if own != nil {
		return SlotUserDoubleBooked, nil
	}

	held, err := a.appointmentRepo.FindActiveByDoctorSlot(db.WithContext(ctx), doctorID, date, timeOfDay)
	if err != nil {
		a.log.Warnf("Failed doctor-conflict lookup for doctor %d: %+v", doctorID, err)
		return "", err
	}
	if held != nil {
		return SlotTaken, nil
	}

	return SlotAllowed, nil
}
