package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dentalos/clinic-backend/internal/appointment"
	"github.com/dentalos/clinic-backend/internal/clinic"
	redisclient "github.com/dentalos/clinic-backend/internal/redis"
	"github.com/dentalos/clinic-backend/internal/scheduling"
	"github.com/dentalos/clinic-backend/internal/treatment"
)

// handleDomainError maps service errors onto HTTP responses. Booking
// rejections keep their rule engine reason code so clients can branch on it.
func handleDomainError(w http.ResponseWriter, err error) {
	var rejection *appointment.RejectionError
	if errors.As(err, &rejection) {
		writeRejection(w, rejection)
		return
	}

	switch {
	case errors.Is(err, clinic.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, clinic.ErrDoctorNotFound):
		writeError(w, http.StatusNotFound, "doctor_not_found", err.Error())
	case errors.Is(err, appointment.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, treatment.ErrTreatmentNotFound):
		writeError(w, http.StatusNotFound, "treatment_not_found", err.Error())
	case errors.Is(err, treatment.ErrPlanNotFound):
		writeError(w, http.StatusNotFound, "treatment_plan_not_found", err.Error())
	case errors.Is(err, clinic.ErrSettingsNotFound):
		writeError(w, http.StatusConflict, "settings_not_configured", "appointment settings have not been created yet")
	case errors.Is(err, clinic.ErrSettingsExist):
		writeError(w, http.StatusConflict, "settings_already_exist", err.Error())
	case errors.Is(err, clinic.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "duplicate_email", err.Error())
	case errors.Is(err, appointment.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, appointment.ErrDoctorBusy),
		errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "doctor_busy", "doctor calendar is currently being booked, please retry shortly")
	case errors.Is(err, scheduling.ErrInvalidCalendar):
		writeError(w, http.StatusBadRequest, "invalid_calendar", err.Error())
	case errors.Is(err, treatment.ErrInvalidPlanDates):
		writeError(w, http.StatusBadRequest, "invalid_plan_dates", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func writeRejection(w http.ResponseWriter, rejection *appointment.RejectionError) {
	decision := rejection.Decision

	// Conflicts with other appointments are 409, calendar rule failures 422.
	status := http.StatusUnprocessableEntity
	if decision.Reason == scheduling.ReasonDirectConflict || decision.Reason == scheduling.ReasonBufferConflict {
		status = http.StatusConflict
	}

	resp := RejectionResponse{
		Error:   strings.ToLower(string(decision.Reason)),
		Details: rejectionDetails(decision.Reason),
	}
	if decision.ConflictingAppointmentID != uuid.Nil {
		id := decision.ConflictingAppointmentID
		resp.ConflictingAppointmentID = &id
	}

	writeJSON(w, status, resp)
}

func rejectionDetails(reason scheduling.ReasonCode) string {
	switch reason {
	case scheduling.ReasonOutsideWorkingDay:
		return "the requested date is not a clinic working day"
	case scheduling.ReasonOutsideWorkingHours:
		return "the requested time falls outside clinic working hours"
	case scheduling.ReasonDurationMismatch:
		return "the requested duration does not match the configured slot duration"
	case scheduling.ReasonTooFarInAdvance:
		return "the requested date is in the past or beyond the advance booking horizon"
	case scheduling.ReasonDirectConflict:
		return "the requested time overlaps an existing appointment"
	case scheduling.ReasonBufferConflict:
		return "the requested time falls inside the buffer around an existing appointment"
	default:
		return ""
	}
}
