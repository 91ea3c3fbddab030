package handler

import (
	"net/http"

	"clinic-booking-api/internal/usecase"
	"clinic-booking-api/pkg/response"
)

type ReportHandler struct {
	reportUsecase usecase.ReportUsecase
}

func NewReportHandler(reportUsecase usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{
		reportUsecase: reportUsecase,
	}
}

func (h *ReportHandler) ExportAppointments(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="appointments.csv"`)

	if err := h.reportUsecase.ExportAppointmentsCSV(r.Context(), w); err != nil {
		// Headers may already be written; best we can do is log-side failure
		response.InternalServerError(w, "Failed to export appointments")
		return
	}
}
