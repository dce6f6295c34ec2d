package api

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dentalos/clinic-backend/internal/appointment"
	"github.com/dentalos/clinic-backend/internal/clinic"
	"github.com/dentalos/clinic-backend/internal/treatment"
)

var validate = validator.New()

// Appointments

type CreateAppointmentRequest struct {
	PatientID string    `json:"patient_id" validate:"required,uuid"`
	DoctorID  string    `json:"doctor_id" validate:"required,uuid"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Reason    string    `json:"reason" validate:"required"`
	Notes     string    `json:"notes"`
}

type UpdateAppointmentRequest struct {
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Reason    *string    `json:"reason"`
	Notes     *string    `json:"notes"`
}

type RescheduleAppointmentRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Reason    *string   `json:"reason"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason" validate:"required"`
}

type AppointmentResponse struct {
	ID              uuid.UUID `json:"id"`
	PatientID       uuid.UUID `json:"patient_id"`
	DoctorID        uuid.UUID `json:"doctor_id"`
	PatientName     string    `json:"patient_name,omitempty"`
	DoctorName      string    `json:"doctor_name,omitempty"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Reason          string    `json:"reason"`
	Notes           string    `json:"notes,omitempty"`
	Status          string    `json:"status"`
	CancelledReason *string   `json:"cancelled_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func toAppointmentResponse(d *appointment.Detail) AppointmentResponse {
	resp := AppointmentResponse{
		ID:              d.ID,
		PatientID:       d.PatientID,
		DoctorID:        d.DoctorID,
		StartTime:       d.StartTime,
		EndTime:         d.EndTime,
		Reason:          d.Reason,
		Notes:           d.Notes,
		Status:          string(d.Status),
		CancelledReason: d.CancelledReason,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
	if d.Patient != nil {
		resp.PatientName = d.Patient.FirstName + " " + d.Patient.LastName
	}
	if d.Doctor != nil {
		resp.DoctorName = d.Doctor.FirstName + " " + d.Doctor.LastName
	}
	return resp
}

// RejectionResponse reports why a booking was refused. The error field holds
// the lowercased rule engine reason code.
type RejectionResponse struct {
	Error                    string     `json:"error"`
	Details                  string     `json:"details,omitempty"`
	ConflictingAppointmentID *uuid.UUID `json:"conflicting_appointment_id,omitempty"`
}

type SlotResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Patients

type CreatePatientRequest struct {
	FirstName     string     `json:"first_name" validate:"required"`
	LastName      string     `json:"last_name" validate:"required"`
	Email         *string    `json:"email" validate:"omitempty,email"`
	ContactNumber string     `json:"contact_number" validate:"required"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	Address       string     `json:"address"`
}

type UpdatePatientRequest struct {
	FirstName     *string    `json:"first_name"`
	LastName      *string    `json:"last_name"`
	Email         *string    `json:"email" validate:"omitempty,email"`
	ContactNumber *string    `json:"contact_number"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	Address       *string    `json:"address"`
}

type PatientResponse struct {
	ID            uuid.UUID  `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         *string    `json:"email,omitempty"`
	ContactNumber string     `json:"contact_number"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	Address       string     `json:"address,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toPatientResponse(p *clinic.Patient) PatientResponse {
	return PatientResponse{
		ID:            p.ID,
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Email:         p.Email,
		ContactNumber: p.ContactNumber,
		DateOfBirth:   p.DateOfBirth,
		Address:       p.Address,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// Doctors

type CreateDoctorRequest struct {
	FirstName      string              `json:"first_name" validate:"required"`
	LastName       string              `json:"last_name" validate:"required"`
	Email          string              `json:"email" validate:"required,email"`
	ContactNumber  string              `json:"contact_number" validate:"required"`
	Specialization string              `json:"specialization" validate:"required"`
	WorkingHours   []clinic.DayHours   `json:"working_hours" validate:"required,min=1"`
	BreakHours     []clinic.BreakHours `json:"break_hours"`
}

type UpdateDoctorRequest struct {
	FirstName      *string              `json:"first_name"`
	LastName       *string              `json:"last_name"`
	Email          *string              `json:"email" validate:"omitempty,email"`
	ContactNumber  *string              `json:"contact_number"`
	Specialization *string              `json:"specialization"`
	WorkingHours   *[]clinic.DayHours   `json:"working_hours"`
	BreakHours     *[]clinic.BreakHours `json:"break_hours"`
}

type DoctorResponse struct {
	ID             uuid.UUID           `json:"id"`
	FirstName      string              `json:"first_name"`
	LastName       string              `json:"last_name"`
	Email          string              `json:"email"`
	ContactNumber  string              `json:"contact_number"`
	Specialization string              `json:"specialization"`
	WorkingHours   []clinic.DayHours   `json:"working_hours"`
	BreakHours     []clinic.BreakHours `json:"break_hours,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

func toDoctorResponse(d *clinic.Doctor) DoctorResponse {
	return DoctorResponse{
		ID:             d.ID,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Email:          d.Email,
		ContactNumber:  d.ContactNumber,
		Specialization: d.Specialization,
		WorkingHours:   d.WorkingHours,
		BreakHours:     d.BreakHours,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// Settings

type CreateSettingsRequest struct {
	SlotDuration       int      `json:"slot_duration" validate:"required,min=1"`
	BufferTime         int      `json:"buffer_time" validate:"min=0"`
	AdvanceBookingDays int      `json:"advance_booking_days" validate:"required,min=1"`
	WorkingDays        []string `json:"working_days" validate:"required,min=1"`
	WorkingHoursStart  string   `json:"working_hours_start" validate:"required"`
	WorkingHoursEnd    string   `json:"working_hours_end" validate:"required"`
}

type UpdateSettingsRequest struct {
	SlotDuration       *int      `json:"slot_duration"`
	BufferTime         *int      `json:"buffer_time"`
	AdvanceBookingDays *int      `json:"advance_booking_days"`
	WorkingDays        *[]string `json:"working_days"`
	WorkingHoursStart  *string   `json:"working_hours_start"`
	WorkingHoursEnd    *string   `json:"working_hours_end"`
}

type SettingsResponse struct {
	ID                 uuid.UUID `json:"id"`
	SlotDuration       int       `json:"slot_duration"`
	BufferTime         int       `json:"buffer_time"`
	AdvanceBookingDays int       `json:"advance_booking_days"`
	WorkingDays        []string  `json:"working_days"`
	WorkingHoursStart  string    `json:"working_hours_start"`
	WorkingHoursEnd    string    `json:"working_hours_end"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toSettingsResponse(s *clinic.Settings) SettingsResponse {
	return SettingsResponse{
		ID:                 s.ID,
		SlotDuration:       s.SlotDuration,
		BufferTime:         s.BufferTime,
		AdvanceBookingDays: s.AdvanceBookingDays,
		WorkingDays:        s.WorkingDays,
		WorkingHoursStart:  s.WorkingHoursStart,
		WorkingHoursEnd:    s.WorkingHoursEnd,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// Treatments

type CreateTreatmentRequest struct {
	PatientID        string     `json:"patient_id" validate:"required,uuid"`
	DoctorID         string     `json:"doctor_id" validate:"required,uuid"`
	Date             *time.Time `json:"date"`
	ChiefComplaint   string     `json:"chief_complaint" validate:"required"`
	Diagnosis        string     `json:"diagnosis"`
	ClinicalFindings string     `json:"clinical_findings"`
	TreatmentNotes   string     `json:"treatment_notes"`
	TeethInvolved    []string   `json:"teeth_involved"`
	Attachments      []string   `json:"attachments"`
}

type TreatmentResponse struct {
	ID               uuid.UUID `json:"id"`
	PatientID        uuid.UUID `json:"patient_id"`
	DoctorID         uuid.UUID `json:"doctor_id"`
	Date             time.Time `json:"date"`
	ChiefComplaint   string    `json:"chief_complaint"`
	Diagnosis        string    `json:"diagnosis,omitempty"`
	ClinicalFindings string    `json:"clinical_findings,omitempty"`
	TreatmentNotes   string    `json:"treatment_notes,omitempty"`
	TeethInvolved    []string  `json:"teeth_involved,omitempty"`
	Attachments      []string  `json:"attachments,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toTreatmentResponse(t *treatment.Treatment) TreatmentResponse {
	return TreatmentResponse{
		ID:               t.ID,
		PatientID:        t.PatientID,
		DoctorID:         t.DoctorID,
		Date:             t.Date,
		ChiefComplaint:   t.ChiefComplaint,
		Diagnosis:        t.Diagnosis,
		ClinicalFindings: t.ClinicalFindings,
		TreatmentNotes:   t.TreatmentNotes,
		TeethInvolved:    t.TeethInvolved,
		Attachments:      t.Attachments,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

type CreatePrescriptionRequest struct {
	Medications []treatment.Medication `json:"medications" validate:"required,min=1,dive"`
	Date        *time.Time             `json:"date"`
}

type PrescriptionResponse struct {
	ID          uuid.UUID              `json:"id"`
	TreatmentID uuid.UUID              `json:"treatment_id"`
	Medications []treatment.Medication `json:"medications"`
	Date        time.Time              `json:"date"`
	CreatedAt   time.Time              `json:"created_at"`
}

func toPrescriptionResponse(p *treatment.Prescription) PrescriptionResponse {
	return PrescriptionResponse{
		ID:          p.ID,
		TreatmentID: p.TreatmentID,
		Medications: p.Medications,
		Date:        p.Date,
		CreatedAt:   p.CreatedAt,
	}
}

type CreatePlanRequest struct {
	PatientID  string                `json:"patient_id" validate:"required,uuid"`
	Procedures []treatment.Procedure `json:"procedures" validate:"required,min=1,dive"`
	StartDate  time.Time             `json:"start_date" validate:"required"`
	EndDate    *time.Time            `json:"end_date"`
}

type PlanResponse struct {
	ID         uuid.UUID             `json:"id"`
	PatientID  uuid.UUID             `json:"patient_id"`
	Procedures []treatment.Procedure `json:"procedures"`
	StartDate  time.Time             `json:"start_date"`
	EndDate    *time.Time            `json:"end_date,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

func toPlanResponse(p *treatment.Plan) PlanResponse {
	return PlanResponse{
		ID:         p.ID,
		PatientID:  p.PatientID,
		Procedures: p.Procedures,
		StartDate:  p.StartDate,
		EndDate:    p.EndDate,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type CreateCatalogItemRequest struct {
	Type     string `json:"type" validate:"required,oneof=issue treatment"`
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
	IsCommon bool   `json:"is_common"`
}

type CatalogItemResponse struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"`
	IsCommon  bool      `json:"is_common"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toCatalogItemResponse(item *treatment.CatalogItem) CatalogItemResponse {
	return CatalogItemResponse{
		ID:        item.ID,
		Type:      string(item.Type),
		Name:      item.Name,
		Category:  item.Category,
		IsCommon:  item.IsCommon,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
}
