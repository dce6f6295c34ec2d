package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	// 2025-03-03 is a Monday, 2025-03-08 a Saturday.
	monday   = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	saturday = time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	// Clock used by every test: Monday 08:00, before opening.
	testNow = monday.Add(8 * time.Hour)
)

func at(day time.Time, clock string, t *testing.T) time.Time {
	t.Helper()
	m, err := ParseClock(clock)
	require.NoError(t, err)
	return day.Add(time.Duration(m) * time.Minute)
}

func request(day time.Time, start, end string, t *testing.T) Request {
	t.Helper()
	return Request{
		DoctorID:  uuid.New(),
		PatientID: uuid.New(),
		Start:     at(day, start, t),
		End:       at(day, end, t),
		Reason:    "checkup",
	}
}

func TestScheduleAcceptsOpenSlot(t *testing.T) {
	cal := weekdayCalendar(t)
	req := request(monday, "10:00", "10:30", t)

	d := Schedule(req, cal, nil, testNow)
	assert.True(t, d.Accepted)
	assert.Equal(t, ReasonOK, d.Reason)
	assert.Equal(t, uuid.Nil, d.ConflictingAppointmentID)
}

func TestScheduleRejectsNonWorkingDay(t *testing.T) {
	cal := weekdayCalendar(t)
	req := request(saturday, "10:00", "10:30", t)

	d := Schedule(req, cal, nil, testNow)
	assert.False(t, d.Accepted)
	assert.Equal(t, ReasonOutsideWorkingDay, d.Reason)
}

func TestScheduleRejectsOutsideWorkingHours(t *testing.T) {
	cal := weekdayCalendar(t)

	// Extends past the 17:00 close.
	d := Schedule(request(monday, "16:45", "17:15", t), cal, nil, testNow)
	assert.False(t, d.Accepted)
	assert.Equal(t, ReasonOutsideWorkingHours, d.Reason)

	// Ends exactly at close: allowed.
	d = Schedule(request(monday, "16:30", "17:00", t), cal, nil, testNow)
	assert.True(t, d.Accepted)
}

func TestScheduleRejectsDurationMismatch(t *testing.T) {
	cal := weekdayCalendar(t)

	d := Schedule(request(monday, "10:00", "10:45", t), cal, nil, testNow)
	assert.False(t, d.Accepted)
	assert.Equal(t, ReasonDurationMismatch, d.Reason)

	d = Schedule(request(monday, "10:00", "10:15", t), cal, nil, testNow)
	assert.Equal(t, ReasonDurationMismatch, d.Reason)
}

func TestScheduleRejectsBookingHorizon(t *testing.T) {
	cal := weekdayCalendar(t)

	// In the past relative to now.
	past := request(monday, "10:00", "10:30", t)
	d := Schedule(past, cal, nil, at(monday, "11:00", t))
	assert.False(t, d.Accepted)
	assert.Equal(t, ReasonTooFarInAdvance, d.Reason)

	// Beyond the 14-day horizon: Monday three weeks out.
	far := request(monday.AddDate(0, 0, 21), "10:00", "10:30", t)
	d = Schedule(far, cal, nil, testNow)
	assert.False(t, d.Accepted)
	assert.Equal(t, ReasonTooFarInAdvance, d.Reason)

	// The last day inside the horizon is bookable.
	edge := request(monday.AddDate(0, 0, 14), "10:00", "10:30", t)
	d = Schedule(edge, cal, nil, testNow)
	assert.True(t, d.Accepted)
}

func TestScheduleReportsBufferConflict(t *testing.T) {
	cal := weekdayCalendar(t)
	booked := Existing{ID: uuid.New(), Start: at(monday, "10:00", t), End: at(monday, "10:30", t)}

	d := Schedule(request(monday, "10:35", "11:05", t), cal, []Existing{booked}, testNow)
	assert.False(t, d.Accepted)
	assert.Equal(t, ReasonBufferConflict, d.Reason)
	assert.Equal(t, booked.ID, d.ConflictingAppointmentID)
}

func TestScheduleValidationWinsOverConflict(t *testing.T) {
	cal := weekdayCalendar(t)
	booked := Existing{ID: uuid.New(), Start: at(saturday, "10:00", t), End: at(saturday, "10:30", t)}

	// Saturday request overlaps an existing appointment but the working-day
	// check fires first.
	d := Schedule(request(saturday, "10:00", "10:30", t), cal, []Existing{booked}, testNow)
	assert.Equal(t, ReasonOutsideWorkingDay, d.Reason)
	assert.Equal(t, uuid.Nil, d.ConflictingAppointmentID)
}

func TestScheduleIsIdempotent(t *testing.T) {
	cal := weekdayCalendar(t)
	existing := []Existing{
		{ID: uuid.New(), Start: at(monday, "09:00", t), End: at(monday, "09:30", t)},
		{ID: uuid.New(), Start: at(monday, "11:00", t), End: at(monday, "11:30", t)},
	}
	req := request(monday, "09:35", "10:05", t)

	first := Schedule(req, cal, existing, testNow)
	second := Schedule(req, cal, existing, testNow)
	assert.Equal(t, first, second)
}
