package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clinic-booking-api/internal/converter"
	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/delivery/http/middleware"
	"clinic-booking-api/internal/domain/entity"
	"clinic-booking-api/internal/domain/repository"
	"clinic-booking-api/internal/service"
	"clinic-booking-api/pkg/timeslot"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrMalformedTime       = errors.New("time must be hh:mm with AM/PM or 24-hour hh:mm")
	ErrInvalidDateFormat   = errors.New("invalid date format, use YYYY-MM-DD")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrUserDoubleBooked    = errors.New("you already have an appointment at this date and time")
	ErrSlotTaken           = errors.New("this slot is already booked")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

type AppointmentUsecase interface {
	BookAppointment(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	CancelAppointment(ctx context.Context, appointmentID int) error
}

type appointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	arbiter         *service.SlotArbiter
	notifier        *service.NotificationService
	auditService    service.AuditService
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	arbiter *service.SlotArbiter,
	notifier *service.NotificationService,
	auditService service.AuditService,
) AppointmentUsecase {
	return &appointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		arbiter:         arbiter,
		notifier:        notifier,
		auditService:    auditService,
	}
}

// BookAppointment drives one booking attempt to completion.
//
// Flow:
//  1. Normalize the requested time; malformed text stops before any lookup
//  2. Resolve the doctor
//  3. Advisory slot arbitration (self-conflict, then doctor-conflict)
//  4. Insert with status pending; a unique violation on the slot index
//     means another request won the race and is surfaced as ErrSlotTaken,
//     the same outcome the advisory check produces
//  5. Fire-and-forget confirmation mail; its failure never affects the result
//
// The advisory phase is deliberately not wrapped in a transaction with the
// insert: the partial unique index is the single source of correctness.
func (u *appointmentUsecase) BookAppointment(ctx context.Context, req *dto.BookAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	// Step 1: normalize time text before touching the store
	canonTime, err := timeslot.Normalize(req.Time)
	if err != nil {
		return nil, ErrMalformedTime
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	// Step 2: the doctor must exist
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), req.DoctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", req.DoctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	// Step 3: advisory checks, first match wins
	decision, err := u.arbiter.Decide(ctx, u.db, userID, req.DoctorID, date, canonTime)
	if err != nil {
		return nil, err
	}
	switch decision {
	case service.SlotUserDoubleBooked:
		return nil, ErrUserDoubleBooked
	case service.SlotTaken:
		return nil, ErrSlotTaken
	}

	// Step 4: insert; the slot index settles concurrent races
	appointment := &entity.Appointment{
		UserID:   userID,
		DoctorID: req.DoctorID,
		Date:     date,
		Time:     canonTime,
		Status:   entity.AppointmentStatusPending,
	}

	if err := u.appointmentRepo.Create(u.db.WithContext(ctx), appointment); err != nil {
		if isDuplicateKeyError(err, entity.UniqueSlotIndex) {
			u.log.Infof("Lost slot race for doctor=%d date=%s time=%s", req.DoctorID, req.Date, canonTime)
			return nil, ErrSlotTaken
		}
		if isForeignKeyError(err, "doctor") {
			return nil, ErrDoctorNotFound
		}
		u.log.Warnf("Failed to insert appointment: %+v", err)
		return nil, err
	}

	if err := u.auditService.Log(u.db.WithContext(ctx), &userID, entity.AuditActionAppointmentBook, entity.JSON{
		"appointment_id": appointment.ID,
		"doctor_id":      req.DoctorID,
		"date":           req.Date,
		"time":           canonTime,
	}); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	// Step 5: best-effort notification
	u.notifyUser(ctx, "Appointment requested",
		fmt.Sprintf("Your appointment with %s on %s at %s was received and is pending confirmation.",
			doctor.Name, req.Date, canonTime))

	appointment.Doctor = *doctor
	u.log.Infof("Appointment booked: id=%d, user=%s, doctor=%d, date=%s, time=%s",
		appointment.ID, userID, req.DoctorID, req.Date, canonTime)
	return converter.AppointmentToResponse(appointment), nil
}

// GetMyAppointments returns the logged-in user's appointments, newest first
func (u *appointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, errors.New("user not found in context")
	}

	appointments, err := u.appointmentRepo.FindByUserID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// CancelAppointment sets the appointment to cancelled, scoped to the
// owning user. A user cannot cancel another user's appointment: the
// update is keyed on (id, user_id) and 0 affected rows is reported as
// not found, leaving foreign rows untouched.
func (u *appointmentUsecase) CancelAppointment(ctx context.Context, appointmentID int) error {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return errors.New("user not found in context")
	}

	affected, err := u.appointmentRepo.CancelOwned(u.db.WithContext(ctx), appointmentID, userID)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %d: %+v", appointmentID, err)
		return err
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}

	if err := u.auditService.Log(u.db.WithContext(ctx), &userID, entity.AuditActionAppointmentCancel, entity.JSON{
		"appointment_id": appointmentID,
	}); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	u.notifyUser(ctx, "Appointment cancelled",
		fmt.Sprintf("Your appointment #%d has been cancelled. The slot is available again.", appointmentID))

	u.log.Infof("Appointment cancelled: id=%d, user=%s", appointmentID, userID)
	return nil
}

func (u *appointmentUsecase) notifyUser(ctx context.Context, subject, body string) {
	email, _ := middleware.GetUserEmailFromContext(ctx)
	if email == "" {
		return
	}
	u.notifier.Dispatch(service.Notification{
		To:      email,
		Subject: subject,
		Body:    body,
	})
}
