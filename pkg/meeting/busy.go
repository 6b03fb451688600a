package meeting

import "slices"

// BusyRanges returns the sorted, disjoint ranges during which at least one of the
// attendees takes part in an event.
func BusyRanges(events []Event, attendees AttendeeSet) []TimeRange {
	busy := make([]TimeRange, 0, len(events))
	for _, event := range events {
		if attendees.Intersects(event.Attendees) {
			busy = insertBusy(busy, event.When)
		}
	}
	slices.SortFunc(busy, TimeRange.Compare)
	return busy
}

// Consolidate reduces arbitrary ranges to the sorted set of disjoint ranges covering them.
func Consolidate(ranges []TimeRange) []TimeRange {
	busy := make([]TimeRange, 0, len(ranges))
	for _, r := range ranges {
		busy = insertBusy(busy, r)
	}
	slices.SortFunc(busy, TimeRange.Compare)
	return busy
}

// insertBusy adds added to busy, dropping it when already covered, absorbing the
// ranges it contains and merging the ones it overlaps. Each absorption shrinks
// busy, so the scan restarts until added is either covered or appended.
func insertBusy(busy []TimeRange, added TimeRange) []TimeRange {
scan:
	for {
		for i, existing := range busy {
			if existing.Contains(added) {
				return busy
			}
			if added.Contains(existing) {
				busy = slices.Delete(busy, i, i+1)
				continue scan
			}
			if existing.Overlaps(added) {
				added = merge(existing, added)
				busy = slices.Delete(busy, i, i+1)
				continue scan
			}
		}
		return append(busy, added)
	}
}
