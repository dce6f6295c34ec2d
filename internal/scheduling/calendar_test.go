package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weekdayCalendar(t *testing.T) CalendarConfig {
	t.Helper()
	cal, err := NewCalendarConfig(30, 10, 14,
		[]string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		"09:00", "17:00")
	require.NoError(t, err)
	return cal
}

func TestNewCalendarConfig(t *testing.T) {
	cal := weekdayCalendar(t)
	assert.Equal(t, 30*time.Minute, cal.SlotDuration)
	assert.Equal(t, 10*time.Minute, cal.Buffer)
	assert.Equal(t, 14, cal.AdvanceBookingDays)
}

func TestNewCalendarConfigRejectsBadSettings(t *testing.T) {
	days := []string{"monday"}

	cases := []struct {
		name       string
		slot       int
		buffer     int
		advance    int
		days       []string
		start, end string
	}{
		{"zero slot duration", 0, 10, 14, days, "09:00", "17:00"},
		{"negative buffer", 30, -1, 14, days, "09:00", "17:00"},
		{"zero advance window", 30, 10, 0, days, "09:00", "17:00"},
		{"no working days", 30, 10, 14, nil, "09:00", "17:00"},
		{"unknown weekday", 30, 10, 14, []string{"moonday"}, "09:00", "17:00"},
		{"start after end", 30, 10, 14, days, "17:00", "09:00"},
		{"start equals end", 30, 10, 14, days, "09:00", "09:00"},
		{"slot longer than span", 90, 10, 14, days, "09:00", "10:00"},
		{"malformed clock", 30, 10, 14, days, "9am", "17:00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCalendarConfig(tc.slot, tc.buffer, tc.advance, tc.days, tc.start, tc.end)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCalendar)
		})
	}
}

func TestCalendarPredicates(t *testing.T) {
	cal := weekdayCalendar(t)

	monday := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 3, 8, 10, 0, 0, 0, time.UTC)

	assert.True(t, cal.IsWorkingDay(monday))
	assert.False(t, cal.IsWorkingDay(saturday))

	assert.True(t, cal.WithinWorkingHours(time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)))
	assert.True(t, cal.WithinWorkingHours(time.Date(2025, 3, 3, 17, 0, 0, 0, time.UTC)))
	assert.False(t, cal.WithinWorkingHours(time.Date(2025, 3, 3, 8, 59, 0, 0, time.UTC)))
	assert.False(t, cal.WithinWorkingHours(time.Date(2025, 3, 3, 17, 1, 0, 0, time.UTC)))
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, 570, m)

	for _, bad := range []string{"", "9", "25:00", "09:60", "ab:cd"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, "clock %q", bad)
	}
}
