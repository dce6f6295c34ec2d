package scheduling

import (
	"fmt"
	"time"
)

// TimeRange is a clock interval within a single day, "HH:MM" bounds.
type TimeRange struct {
	Start string
	End   string
}

// SlotWindow is one bookable interval on a concrete date.
type SlotWindow struct {
	Start time.Time
	End   time.Time
}

// DaySlots expands a doctor's working window on the given date into bookable
// slots. Slots are laid out back to back with the clinic buffer between them
// and a slot whose start falls inside a break is skipped. The returned slots
// are candidates only; the caller still subtracts booked intervals.
func DaySlots(date time.Time, hours TimeRange, breaks []TimeRange, cal CalendarConfig) ([]SlotWindow, error) {
	startMin, err := ParseClock(hours.Start)
	if err != nil {
		return nil, fmt.Errorf("working hours: %w", err)
	}
	endMin, err := ParseClock(hours.End)
	if err != nil {
		return nil, fmt.Errorf("working hours: %w", err)
	}

	type span struct{ start, end int }
	blocked := make([]span, 0, len(breaks))
	for _, b := range breaks {
		bs, err := ParseClock(b.Start)
		if err != nil {
			return nil, fmt.Errorf("break hours: %w", err)
		}
		be, err := ParseClock(b.End)
		if err != nil {
			return nil, fmt.Errorf("break hours: %w", err)
		}
		blocked = append(blocked, span{bs, be})
	}

	slotMin := int(cal.SlotDuration / time.Minute)
	stride := slotMin + int(cal.Buffer/time.Minute)

	y, m, d := date.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, date.Location())

	var slots []SlotWindow
	for cur := startMin; cur+slotMin <= endMin; cur += stride {
		inBreak := false
		for _, b := range blocked {
			if cur >= b.start && cur <= b.end {
				inBreak = true
				break
			}
		}
		if inBreak {
			continue
		}
		slots = append(slots, SlotWindow{
			Start: midnight.Add(time.Duration(cur) * time.Minute),
			End:   midnight.Add(time.Duration(cur+slotMin) * time.Minute),
		})
	}

	return slots, nil
}
