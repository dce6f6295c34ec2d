package clinic

import (
	"time"

	"github.com/google/uuid"

	"github.com/dentalos/clinic-backend/internal/scheduling"
)

type Patient struct {
	ID            uuid.UUID
	FirstName     string
	LastName      string
	Email         *string
	ContactNumber string
	DateOfBirth   *time.Time
	Address       string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// DayHours is one weekday entry of a doctor's weekly availability.
type DayHours struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsWorking bool   `json:"is_working"`
}

// BreakHours is a recurring break inside a doctor's working day.
type BreakHours struct {
	Day       string `json:"day"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

type Doctor struct {
	ID             uuid.UUID
	FirstName      string
	LastName       string
	Email          string
	ContactNumber  string
	Specialization string
	WorkingHours   []DayHours
	BreakHours     []BreakHours
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HoursFor returns the doctor's working window for a weekday, or false when
// the doctor does not work that day.
func (d *Doctor) HoursFor(day time.Weekday) (scheduling.TimeRange, bool) {
	name := day.String()
	for _, wh := range d.WorkingHours {
		if wh.IsWorking && equalDay(wh.Day, name) {
			return scheduling.TimeRange{Start: wh.StartTime, End: wh.EndTime}, true
		}
	}
	return scheduling.TimeRange{}, false
}

// BreaksFor returns the doctor's breaks for a weekday.
func (d *Doctor) BreaksFor(day time.Weekday) []scheduling.TimeRange {
	name := day.String()
	var out []scheduling.TimeRange
	for _, bh := range d.BreakHours {
		if equalDay(bh.Day, name) {
			out = append(out, scheduling.TimeRange{Start: bh.StartTime, End: bh.EndTime})
		}
	}
	return out
}

func equalDay(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if 'A' <= ca && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if 'A' <= cb && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// Settings is the clinic-wide appointment configuration. A single row exists
// per clinic; every scheduling decision reads it through Calendar.
type Settings struct {
	ID                 uuid.UUID
	SlotDuration       int // minutes
	BufferTime         int // minutes
	AdvanceBookingDays int
	WorkingDays        []string
	WorkingHoursStart  string // HH:MM
	WorkingHoursEnd    string // HH:MM
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Calendar builds the immutable calendar value the rule engine consumes.
func (s *Settings) Calendar() (scheduling.CalendarConfig, error) {
	return scheduling.NewCalendarConfig(
		s.SlotDuration,
		s.BufferTime,
		s.AdvanceBookingDays,
		s.WorkingDays,
		s.WorkingHoursStart,
		s.WorkingHoursEnd,
	)
}
