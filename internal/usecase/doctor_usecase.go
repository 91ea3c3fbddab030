package usecase

import (
	"context"
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

type DoctorUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID int) (*dto.DoctorResponse, error)
	GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, doctorID int, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID int) error
}

type doctorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	doctorRepo   repository.DoctorRepository
	auditService service.AuditService
}

func NewDoctorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	doctorRepo repository.DoctorRepository,
	auditService service.AuditService,
) DoctorUsecase {
	return &doctorUsecase{
		db:           db,
		log:          log,
		doctorRepo:   doctorRepo,
		auditService: auditService,
	}
}

// CreateDoctor adds a directory entry. AvailableDays and TimeSlots are
// stored as-is; nothing validates them against bookings.
func (u *doctorUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor := &entity.Doctor{
		Name:           req.Name,
		Specialization: req.Specialization,
		AvailableDays:  req.AvailableDays,
		TimeSlots:      req.TimeSlots,
	}

	if err := u.doctorRepo.Create(u.db.WithContext(ctx), doctor); err != nil {
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	adminID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogChange(u.db.WithContext(ctx), &adminID, entity.AuditActionDoctorCreate,
		"doctor", fmt.Sprint(doctor.ID), nil, converter.DoctorToResponse(doctor)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	u.log.Infof("Doctor created: id=%d, name=%s", doctor.ID, doctor.Name)
	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetDoctor(ctx context.Context, doctorID int) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) GetAllDoctors(ctx context.Context) (*dto.DoctorListResponse, error) {
	doctors, err := u.doctorRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to find all doctors: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorsToResponses(doctors),
		Total:   len(doctors),
	}, nil
}

func (u *doctorUsecase) UpdateDoctor(ctx context.Context, doctorID int, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	oldValue := converter.DoctorToResponse(doctor)

	if req.Name != "" {
		doctor.Name = req.Name
	}
	if req.Specialization != "" {
		doctor.Specialization = req.Specialization
	}
	if req.AvailableDays != "" {
		doctor.AvailableDays = req.AvailableDays
	}
	if req.TimeSlots != "" {
		doctor.TimeSlots = req.TimeSlots
	}

	if err := u.doctorRepo.Update(u.db.WithContext(ctx), doctor); err != nil {
		u.log.Warnf("Failed to update doctor %d: %+v", doctorID, err)
		return nil, err
	}

	adminID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogChange(u.db.WithContext(ctx), &adminID, entity.AuditActionDoctorUpdate,
		"doctor", fmt.Sprint(doctorID), oldValue, converter.DoctorToResponse(doctor)); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return converter.DoctorToResponse(doctor), nil
}

func (u *doctorUsecase) DeleteDoctor(ctx context.Context, doctorID int) error {
	doctor, err := u.doctorRepo.FindByID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %d: %+v", doctorID, err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	affected, err := u.doctorRepo.Delete(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to delete doctor %d: %+v", doctorID, err)
		return err
	}
	if affected == 0 {
		return ErrDoctorNotFound
	}

	adminID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.LogChange(u.db.WithContext(ctx), &adminID, entity.AuditActionDoctorDelete,
		"doctor", fmt.Sprint(doctorID), converter.DoctorToResponse(doctor), nil); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	u.log.Infof("Doctor deleted: id=%d", doctorID)
	return nil
}
