package scheduling

import (
	"github.com/google/uuid"
)

// FindConflict checks the candidate interval against a doctor's existing
// appointments. Every existing interval is expanded by the configured buffer
// on both ends; the candidate conflicts when its half-open [start, end)
// interval overlaps any expanded interval. A candidate that touches an
// expanded boundary exactly does not conflict.
//
// When several appointments conflict, the earliest-starting one is reported.
// Overlap with the raw appointment interval is a DIRECT_CONFLICT; overlap
// only with the buffer expansion is a BUFFER_CONFLICT. The input slice is
// never mutated and need not be sorted.
func FindConflict(req Request, cal CalendarConfig, existing []Existing) (ReasonCode, uuid.UUID) {
	reason := ReasonOK
	var conflictID uuid.UUID
	var conflict Existing

	for _, appt := range existing {
		blockedStart := appt.Start.Add(-cal.Buffer)
		blockedEnd := appt.End.Add(cal.Buffer)

		if !req.Start.Before(blockedEnd) || !req.End.After(blockedStart) {
			continue
		}

		if reason != ReasonOK && !appt.Start.Before(conflict.Start) {
			continue
		}

		conflict = appt
		conflictID = appt.ID
		if req.Start.Before(appt.End) && req.End.After(appt.Start) {
			reason = ReasonDirectConflict
		} else {
			reason = ReasonBufferConflict
		}
	}

	return reason, conflictID
}
