package meeting

// Query returns, in ascending order, the ranges of the day long enough to hold the
// requested meeting while none of its attendees is busy. A request without
// attendees fits the whole day; a request longer than a day fits nowhere.
// It keeps no state and is safe for concurrent use.
func Query(events []Event, request Request) []TimeRange {
	attendees := NewAttendeeSet(request)
	if len(attendees) == 0 {
		return []TimeRange{WholeDay}
	}
	if request.Duration > WholeDay.Duration() {
		return []TimeRange{}
	}
	return FreeSlots(BusyRanges(events, attendees), request.Duration)
}
