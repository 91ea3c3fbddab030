package usecase

import (
	"context"
	"errors"
	"fmt"

	"clinic-booking-api/internal/converter"
	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/delivery/http/middleware"
	"clinic-booking-api/internal/domain/entity"
	"clinic-booking-api/internal/domain/repository"
	"clinic-booking-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrInvalidStatus = errors.New("invalid appointment status")

// recentAppointmentsLimit bounds the admin dashboard listing
const recentAppointmentsLimit = 20

type AppointmentAdminUsecase interface {
	GetRecentAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	UpdateStatus(ctx context.Context, appointmentID int, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error)
	GetDashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error)
}

type appointmentAdminUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	doctorRepo      repository.DoctorRepository
	userRepo        repository.UserRepository
	notifier        *service.NotificationService
	auditService    service.AuditService
}

func NewAppointmentAdminUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	doctorRepo repository.DoctorRepository,
	userRepo repository.UserRepository,
	notifier *service.NotificationService,
	auditService service.AuditService,
) AppointmentAdminUsecase {
	return &appointmentAdminUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		doctorRepo:      doctorRepo,
		userRepo:        userRepo,
		notifier:        notifier,
		auditService:    auditService,
	}
}

// GetRecentAppointments returns the latest appointments with user and
// doctor names for the admin dashboard
func (u *appointmentAdminUsecase) GetRecentAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	appointments, err := u.appointmentRepo.FindRecent(u.db.WithContext(ctx), recentAppointmentsLimit)
	if err != nil {
		u.log.Warnf("Failed to find recent appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// UpdateStatus moves an appointment to any of the known statuses. No
// transition table is enforced: an administrator may move any status to
// any other, matching the clinic's correction workflows. Reactivating a
// cancelled appointment re-enters the slot index and can therefore
// collide; that surfaces as ErrSlotTaken just like a booking race.
func (u *appointmentAdminUsecase) UpdateStatus(ctx context.Context, appointmentID int, req *dto.UpdateAppointmentStatusRequest) (*dto.AppointmentResponse, error) {
	status := entity.AppointmentStatus(req.Status)
	if !entity.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %d: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}

	oldStatus := appointment.Status

	affected, err := u.appointmentRepo.UpdateStatus(u.db.WithContext(ctx), appointmentID, status)
	if err != nil {
		if isDuplicateKeyError(err, entity.UniqueSlotIndex) {
			return nil, ErrSlotTaken
		}
		u.log.Warnf("Failed to update appointment %d status: %+v", appointmentID, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAppointmentNotFound
	}

	adminID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogChange(u.db.WithContext(ctx), &adminID, entity.AuditActionAppointmentStatus,
		"appointment", fmt.Sprint(appointmentID), string(oldStatus), string(status)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	// Notification on every transition, best effort
	if appointment.User.Email != "" {
		u.notifier.Dispatch(service.Notification{
			To:      appointment.User.Email,
			ToName:  appointment.User.FullName,
			Subject: fmt.Sprintf("Appointment %s", status),
			Body: fmt.Sprintf("Your appointment with %s on %s at %s is now %s.",
				appointment.Doctor.Name, appointment.Date.Format("2006-01-02"), appointment.Time, status),
		})
	}

	appointment.Status = status
	u.log.Infof("Appointment status updated: id=%d, %s -> %s", appointmentID, oldStatus, status)
	return converter.AppointmentToResponse(appointment), nil
}

// GetDashboardStats returns the admin dashboard counters
func (u *appointmentAdminUsecase) GetDashboardStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	db := u.db.WithContext(ctx)

	users, err := u.userRepo.CountByRole(db, entity.RoleIDUser)
	if err != nil {
		u.log.Warnf("Failed to count users: %+v", err)
		return nil, err
	}

	doctors, err := u.doctorRepo.Count(db)
	if err != nil {
		u.log.Warnf("Failed to count doctors: %+v", err)
		return nil, err
	}

	appointments, err := u.appointmentRepo.Count(db)
	if err != nil {
		u.log.Warnf("Failed to count appointments: %+v", err)
		return nil, err
	}

	byStatus := make(map[string]int64, 4)
	for _, status := range []entity.AppointmentStatus{
		entity.AppointmentStatusPending,
		entity.AppointmentStatusConfirmed,
		entity.AppointmentStatusCompleted,
		entity.AppointmentStatusCancelled,
	} {
		count, err := u.appointmentRepo.CountByStatus(db, status)
		if err != nil {
			u.log.Warnf("Failed to count %s appointments: %+v", status, err)
			return nil, err
		}
		byStatus[string(status)] = count
	}

	return &dto.DashboardStatsResponse{
		Users:        users,
		Doctors:      doctors,
		Appointments: appointments,
		ByStatus:     byStatus,
	}, nil
}
