package appointment

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// LiveStatuses are the statuses that block a doctor's time. Cancelled and
// no-show appointments never count as conflict candidates.
var LiveStatuses = []Status{StatusScheduled, StatusCompleted}

type Appointment struct {
	ID              uuid.UUID
	PatientID       uuid.UUID
	DoctorID        uuid.UUID
	StartTime       time.Time
	EndTime         time.Time
	Reason          string
	Notes           string
	Status          Status
	CancelledReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Participant is the slim patient/doctor view embedded in responses.
type Participant struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
}

type Detail struct {
	Appointment
	Patient *Participant
	Doctor  *Participant
}

type Filter struct {
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Status    *Status
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
