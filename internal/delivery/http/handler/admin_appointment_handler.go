package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-booking-api/internal/delivery/dto"
	"clinic-booking-api/internal/usecase"
	"clinic-booking-api/pkg/response"
	"clinic-booking-api/pkg/validator"

	"github.com/gorilla/mux"
)

type AdminAppointmentHandler struct {
	adminUsecase usecase.AppointmentAdminUsecase
	validator    *validator.CustomValidator
}

func NewAdminAppointmentHandler(adminUsecase usecase.AppointmentAdminUsecase, validator *validator.CustomValidator) *AdminAppointmentHandler {
	return &AdminAppointmentHandler{
		adminUsecase: adminUsecase,
		validator:    validator,
	}
}

func (h *AdminAppointmentHandler) GetRecentAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.adminUsecase.GetRecentAppointments(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AdminAppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentID, err := strconv.Atoi(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.adminUsecase.UpdateStatus(r.Context(), appointmentID, &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidStatus:
			response.Error(w, http.StatusBadRequest, "Invalid status", nil)
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrSlotTaken:
			response.Conflict(w, "Reactivating this appointment collides with an existing booking")
		default:
			response.InternalServerError(w, "Failed to update status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Status updated successfully", appointment)
}

func (h *AdminAppointmentHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminUsecase.GetDashboardStats(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get dashboard stats")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard stats retrieved successfully", stats)
}
