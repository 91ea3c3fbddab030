package dto

import "time"

// Request DTOs

type CreateDoctorRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=255"`
	Specialization string `json:"specialization" validate:"required,min=2,max=100"`
	AvailableDays  string `json:"available_days" validate:"required,max=255"`
	TimeSlots      string `json:"time_slots" validate:"required,max=255"`
}

type UpdateDoctorRequest struct {
	Name           string `json:"name" validate:"omitempty,min=2,max=255"`
	Specialization string `json:"specialization" validate:"omitempty,min=2,max=100"`
	AvailableDays  string `json:"available_days" validate:"omitempty,max=255"`
	TimeSlots      string `json:"time_slots" validate:"omitempty,max=255"`
}

// Response DTOs

type DoctorResponse struct {
	ID             int       `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	AvailableDays  string    `json:"available_days"`
	TimeSlots      string    `json:"time_slots"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
