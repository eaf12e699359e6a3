package availability

import (
	"slices"
	"time"
)

type FreeSlot struct {
	Start           time.Time
	DurationInHours int
}

type RoomFreeSlots struct {
	RoomCode  string
	FreeSlots []FreeSlot
}

// FreeSlots returns the gaps of [dayStart, dayEnd) not covered by busy, in
// ascending order. Busy intervals are clipped to the window first, so spill
// over from the previous day suppresses the leading gap and a booking ending
// at dayEnd leaves no trailing gap.
func FreeSlots(dayStart, dayEnd time.Time, busy []Interval) []FreeSlot {
	sorted := slices.Clone(busy)
	slices.SortFunc(sorted, func(a, b Interval) int { return a.Start.Compare(b.Start) })

	slots := make([]FreeSlot, 0, len(sorted)+1)
	cursor := dayStart
	for _, b := range sorted {
		iv, ok := Clip(b, dayStart, dayEnd)
		if !ok {
			continue
		}
		if hours, ok := Gap(cursor, iv.Start); ok {
			slots = append(slots, FreeSlot{Start: cursor, DurationInHours: hours})
		}
		if iv.End.After(cursor) {
			cursor = iv.End
		}
	}
	if hours, ok := Gap(cursor, dayEnd); ok {
		slots = append(slots, FreeSlot{Start: cursor, DurationInHours: hours})
	}
	return slots
}
