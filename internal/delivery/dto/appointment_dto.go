package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type BookAppointmentRequest struct {
	DoctorID int    `json:"doctor_id" validate:"required,min=1"`
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time" validate:"required"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

// Response DTOs

type AppointmentResponse struct {
	ID                   int       `json:"id"`
	UserID               uuid.UUID `json:"user_id"`
	UserName             string    `json:"user_name,omitempty"`
	DoctorID             int       `json:"doctor_id"`
	DoctorName           string    `json:"doctor_name,omitempty"`
	DoctorSpecialization string    `json:"doctor_specialization,omitempty"`
	Date                 string    `json:"date"`
	Time                 string    `json:"time"`
	Status               string    `json:"status"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type DashboardStatsResponse struct {
	Users        int64            `json:"users"`
	Doctors      int64            `json:"doctors"`
	Appointments int64            `json:"appointments"`
	ByStatus     map[string]int64 `json:"by_status,omitempty"`
}
