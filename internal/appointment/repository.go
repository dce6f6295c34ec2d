package appointment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dentalos/clinic-backend/internal/clinic"
	"github.com/dentalos/clinic-backend/internal/scheduling"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	CreateAppointment(ctx context.Context, a Appointment) (*Appointment, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetAppointmentDetail(ctx context.Context, id uuid.UUID) (*Detail, error)
	ListAppointments(ctx context.Context, f Filter) ([]Detail, error)
	UpdateAppointment(ctx context.Context, a Appointment) (*Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to Status, cancelledReason *string) (*Appointment, error)

	// ListConflictCandidates returns the live (scheduled or completed)
	// intervals of a doctor overlapping [from, to), start ascending,
	// excluding excludeID when non-nil. The caller widens the window by the
	// clinic buffer so every potentially blocking interval is included.
	ListConflictCandidates(ctx context.Context, doctorID uuid.UUID, from, to time.Time, excludeID uuid.UUID) ([]scheduling.Existing, error)

	// No-show worker
	FindOverdueScheduled(ctx context.Context, before time.Time) ([]Appointment, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}

// Directory resolves booking participants. Implemented by the clinic
// repository.
type Directory interface {
	GetPatientByID(ctx context.Context, id uuid.UUID) (*clinic.Patient, error)
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*clinic.Doctor, error)
}

// CalendarSource yields the clinic calendar for one request cycle.
// Implemented by the clinic service.
type CalendarSource interface {
	Calendar(ctx context.Context) (scheduling.CalendarConfig, error)
}
