package scheduling

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidCalendar marks clinic settings that can never produce a valid
// scheduling decision. Callers must surface it to an operator, not a patient.
var ErrInvalidCalendar = errors.New("invalid calendar configuration")

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// CalendarConfig is the clinic-wide booking calendar: slot length, buffer
// between appointments, booking horizon and the working week. It is an
// immutable value constructed once per request cycle and threaded through
// every scheduling call.
type CalendarConfig struct {
	SlotDuration       time.Duration
	Buffer             time.Duration
	AdvanceBookingDays int

	workingDays [7]bool
	dayStart    int // minutes from midnight
	dayEnd      int
}

// NewCalendarConfig validates and builds a CalendarConfig from persisted
// settings. Working hours are "HH:MM" clock strings, working days lowercase
// weekday names.
func NewCalendarConfig(slotMinutes, bufferMinutes, advanceDays int, workingDays []string, startClock, endClock string) (CalendarConfig, error) {
	if slotMinutes <= 0 {
		return CalendarConfig{}, fmt.Errorf("%w: slot duration must be positive, got %d", ErrInvalidCalendar, slotMinutes)
	}
	if bufferMinutes < 0 {
		return CalendarConfig{}, fmt.Errorf("%w: buffer time must not be negative, got %d", ErrInvalidCalendar, bufferMinutes)
	}
	if advanceDays < 1 {
		return CalendarConfig{}, fmt.Errorf("%w: advance booking window must be at least one day, got %d", ErrInvalidCalendar, advanceDays)
	}
	if len(workingDays) == 0 {
		return CalendarConfig{}, fmt.Errorf("%w: at least one working day required", ErrInvalidCalendar)
	}

	cfg := CalendarConfig{
		SlotDuration:       time.Duration(slotMinutes) * time.Minute,
		Buffer:             time.Duration(bufferMinutes) * time.Minute,
		AdvanceBookingDays: advanceDays,
	}

	for _, name := range workingDays {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return CalendarConfig{}, fmt.Errorf("%w: unknown working day %q", ErrInvalidCalendar, name)
		}
		cfg.workingDays[wd] = true
	}

	start, err := ParseClock(startClock)
	if err != nil {
		return CalendarConfig{}, fmt.Errorf("%w: working hours start: %v", ErrInvalidCalendar, err)
	}
	end, err := ParseClock(endClock)
	if err != nil {
		return CalendarConfig{}, fmt.Errorf("%w: working hours end: %v", ErrInvalidCalendar, err)
	}
	if start >= end {
		return CalendarConfig{}, fmt.Errorf("%w: working hours start %s must be before end %s", ErrInvalidCalendar, startClock, endClock)
	}
	if end-start < slotMinutes {
		return CalendarConfig{}, fmt.Errorf("%w: slot duration %dm exceeds working hours span %dm", ErrInvalidCalendar, slotMinutes, end-start)
	}

	cfg.dayStart = start
	cfg.dayEnd = end
	return cfg, nil
}

// IsWorkingDay reports whether the clinic is open on t's weekday.
func (c CalendarConfig) IsWorkingDay(t time.Time) bool {
	return c.workingDays[t.Weekday()]
}

// WithinWorkingHours reports whether t's time of day falls inside the working
// window. Both bounds are inclusive so an appointment may end exactly at
// closing time.
func (c CalendarConfig) WithinWorkingHours(t time.Time) bool {
	m := t.Hour()*60 + t.Minute()
	return m >= c.dayStart && m <= c.dayEnd
}

// ParseClock parses an "HH:MM" clock string into minutes from midnight.
func ParseClock(s string) (int, error) {
	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, fmt.Errorf("clock %q is not HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("clock %q has invalid hour", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock %q has invalid minute", s)
	}
	return h*60 + m, nil
}
