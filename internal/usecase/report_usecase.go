package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"clinic-booking-api/internal/delivery/http/middleware"
	"clinic-booking-api/internal/domain/entity"
	"clinic-booking-api/internal/domain/repository"
	"clinic-booking-api/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ReportUsecase interface {
	ExportAppointmentsCSV(ctx context.Context, w io.Writer) error
}

type reportUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	auditService    service.AuditService
}

func NewReportUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	auditService service.AuditService,
) ReportUsecase {
	return &reportUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		auditService:    auditService,
	}
}

// ExportAppointmentsCSV streams all appointments as CSV rows
func (u *reportUsecase) ExportAppointmentsCSV(ctx context.Context, w io.Writer) error {
	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to load appointments for export: %+v", err)
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "user", "email", "doctor", "specialization", "date", "time", "status", "created_at"}); err != nil {
		return err
	}

	for _, a := range appointments {
		row := []string{
			fmt.Sprint(a.ID),
			a.User.FullName,
			a.User.Email,
			a.Doctor.Name,
			a.Doctor.Specialization,
			a.Date.Format("2006-01-02"),
			a.Time,
			string(a.Status),
			a.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}

	adminID, _ := middleware.GetUserIDFromContext(ctx)
	if err := u.auditService.Log(u.db.WithContext(ctx), &adminID, entity.AuditActionAppointmentsExport, entity.JSON{
		"rows": len(appointments),
	}); err != nil {
		u.log.Warnf("Failed to create audit log: %+v", err)
	}

	return nil
}
