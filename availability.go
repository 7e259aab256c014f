package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// overlapWindow is one intersection of two same-day availability slots.
type overlapWindow struct {
	DayOfWeek   int
	StartMinute int
	EndMinute   int
}

func (w overlapWindow) minutes() int { return w.EndMinute - w.StartMinute }

// overlapMinutes returns the length of the intersection of two slots on the
// same day, in minutes. Zero when they do not touch.
func overlapMinutes(a, b AvailabilitySlot) int {
	start := a.StartMinute
	if b.StartMinute > start {
		start = b.StartMinute
	}
	end := a.EndMinute
	if b.EndMinute < end {
		end = b.EndMinute
	}
	if end <= start {
		return 0
	}
	return end - start
}

// findOverlapWindows intersects every same-day slot pair of two
// availability sets and keeps the windows at least minMinutes long, sorted
// by day of week then start time.
//
// Slots are compared in naive day/minute terms; each side's timezone label
// is ignored here. That is a known limitation carried over from the
// member-facing scheduling flow, not an oversight.
func findOverlapWindows(a, b []AvailabilitySlot, minMinutes int) []overlapWindow {
	var windows []overlapWindow
	for _, slotA := range a {
		for _, slotB := range b {
			if slotA.DayOfWeek != slotB.DayOfWeek {
				continue
			}
			if overlapMinutes(slotA, slotB) < minMinutes {
				continue
			}
			start := slotA.StartMinute
			if slotB.StartMinute > start {
				start = slotB.StartMinute
			}
			end := slotA.EndMinute
			if slotB.EndMinute < end {
				end = slotB.EndMinute
			}
			windows = append(windows, overlapWindow{
				DayOfWeek:   slotA.DayOfWeek,
				StartMinute: start,
				EndMinute:   end,
			})
		}
	}

	sort.Slice(windows, func(i, j int) bool {
		if windows[i].DayOfWeek != windows[j].DayOfWeek {
			return windows[i].DayOfWeek < windows[j].DayOfWeek
		}
		return windows[i].StartMinute < windows[j].StartMinute
	})
	return windows
}

// proposeMeetingSlots turns the best overlap windows of a matched pair into
// dated suggestions. Each slot carries the date of the next occurrence of
// its weekday (counted from now, today excluded) and the timezone label of
// the first participant, passed through unconverted.
func proposeMeetingSlots(a, b []AvailabilitySlot, timezone string, now time.Time, cfg MatchConfig) []ProposedSlot {
	windows := findOverlapWindows(a, b, cfg.MinOverlapMinutes)
	if len(windows) > cfg.MaxProposedSlots {
		windows = windows[:cfg.MaxProposedSlots]
	}

	slots := make([]ProposedSlot, 0, len(windows))
	for _, w := range windows {
		slots = append(slots, ProposedSlot{
			Date:      nextWeekday(now, w.DayOfWeek).Format("2006-01-02"),
			StartTime: minutesToClock(w.StartMinute),
			EndTime:   minutesToClock(w.EndMinute),
			Timezone:  timezone,
		})
	}
	return slots
}

// nextWeekday returns the next calendar date falling on day (0 = Sunday).
// The current day rolls over a full week so members are never proposed a
// same-day meeting.
func nextWeekday(now time.Time, day int) time.Time {
	ahead := (day - int(now.Weekday()) + 7) % 7
	if ahead == 0 {
		ahead = 7
	}
	return now.AddDate(0, 0, ahead)
}

// validSlot checks the structural invariants of a stored slot: day in
// range, start before end, and at least the minimum span. Invalid slots are
// dropped when the snapshot is loaded.
func validSlot(s AvailabilitySlot, minSpanMinutes int) bool {
	if s.DayOfWeek < 0 || s.DayOfWeek > 6 {
		return false
	}
	if s.StartMinute < 0 || s.EndMinute > 24*60 {
		return false
	}
	return s.EndMinute-s.StartMinute >= minSpanMinutes
}

func minutesToClock(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// clockToMinutes parses an "HH:MM" string into minute-of-day.
func clockToMinutes(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q", s)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock time %q out of range", s)
	}
	return hours*60 + minutes, nil
}
