package meeting

// FreeSlots returns the gaps between sorted, disjoint busy ranges that last at least
// duration minutes. Gaps inside the day are half-open; the gap reaching the end of
// the day is closed at EndOfDay.
func FreeSlots(busy []TimeRange, duration int) []TimeRange {
	if len(busy) == 0 {
		return []TimeRange{WholeDay}
	}

	slots := make([]TimeRange, 0, len(busy)+1)
	if busy[0].Start()-StartOfDay >= duration {
		slots = append(slots, FromStartEnd(StartOfDay, busy[0].Start(), false))
	}

	previousEnd := busy[0].End()
	for _, r := range busy[1:] {
		if r.Start()-previousEnd >= duration {
			slots = append(slots, FromStartEnd(previousEnd, r.Start(), false))
		}
		previousEnd = r.End()
	}

	if EndOfDay-previousEnd >= duration {
		slots = append(slots, FromStartEnd(previousEnd, EndOfDay, true))
	}
	return slots
}
