package scheduling

import (
	"time"

	"github.com/google/uuid"
)

// Decision is the outcome of one scheduling check. It carries no persistence
// side effects: the caller commits the appointment only on Accepted and must
// re-run the same check under its own serialization point (lock or
// transaction) to close the check-then-act race.
type Decision struct {
	Accepted                 bool
	Reason                   ReasonCode
	ConflictingAppointmentID uuid.UUID
}

// Schedule validates a booking request against the clinic calendar and the
// doctor's existing appointments. Slot validation runs first and
// short-circuits; conflict detection only runs for otherwise valid slots.
// Deterministic and side-effect free: identical inputs yield identical
// decisions.
func Schedule(req Request, cal CalendarConfig, existing []Existing, now time.Time) Decision {
	if reason := ValidateSlot(req, cal, now); reason != ReasonOK {
		return Decision{Reason: reason}
	}

	reason, conflictID := FindConflict(req, cal, existing)
	if reason != ReasonOK {
		return Decision{Reason: reason, ConflictingAppointmentID: conflictID}
	}

	return Decision{Accepted: true, Reason: ReasonOK}
}
