package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// ReasonCode explains a scheduling decision. OK means the slot was accepted.
type ReasonCode string

const (
	ReasonOK                  ReasonCode = "OK"
	ReasonOutsideWorkingDay   ReasonCode = "OUTSIDE_WORKING_DAY"
	ReasonOutsideWorkingHours ReasonCode = "OUTSIDE_WORKING_HOURS"
	ReasonDurationMismatch    ReasonCode = "DURATION_MISMATCH"
	ReasonBufferConflict      ReasonCode = "BUFFER_CONFLICT"
	ReasonDirectConflict      ReasonCode = "DIRECT_CONFLICT"
	ReasonTooFarInAdvance     ReasonCode = "TOO_FAR_IN_ADVANCE"
)

// Request is a proposed booking for a doctor.
type Request struct {
	DoctorID  uuid.UUID
	PatientID uuid.UUID
	Start     time.Time
	End       time.Time
	Reason    string
	Notes     string
}

// Existing is a persisted appointment interval that blocks a doctor's time.
// Callers pass only live candidates (scheduled or completed); cancelled and
// no-show appointments never block, and on reschedule the appointment being
// edited is filtered out by id before the check.
type Existing struct {
	ID    uuid.UUID
	Start time.Time
	End   time.Time
}

// ValidateSlot checks a request against the clinic calendar. Checks run in a
// fixed order and the first failure wins:
//
//  1. start falls on a working day
//  2. start and end time of day fall inside the working hours
//  3. duration equals the configured slot duration exactly
//  4. start is not in the past and not beyond the advance booking horizon
//
// Pure function of its inputs; now is passed explicitly so callers control
// the clock.
func ValidateSlot(req Request, cal CalendarConfig, now time.Time) ReasonCode {
	if !cal.IsWorkingDay(req.Start) {
		return ReasonOutsideWorkingDay
	}
	if !cal.WithinWorkingHours(req.Start) || !cal.WithinWorkingHours(req.End) {
		return ReasonOutsideWorkingHours
	}
	if req.End.Sub(req.Start) != cal.SlotDuration {
		return ReasonDurationMismatch
	}
	if req.Start.Before(now) {
		return ReasonTooFarInAdvance
	}
	// Horizon is compared by calendar date: booking the last allowed day is
	// fine regardless of time of day.
	horizon := dateOnly(now).AddDate(0, 0, cal.AdvanceBookingDays)
	if dateOnly(req.Start).After(horizon) {
		return ReasonTooFarInAdvance
	}
	return ReasonOK
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
