package meeting

// AttendeeSet is a deduplicated set of attendee identifiers.
type AttendeeSet map[string]struct{}

// NewAttendeeSet collects the identifiers of a request into a set.
func NewAttendeeSet(request Request) AttendeeSet {
	set := make(AttendeeSet, len(request.Attendees))
	for _, attendee := range request.Attendees {
		set[attendee] = struct{}{}
	}
	return set
}

func (s AttendeeSet) Contains(attendee string) bool {
	_, ok := s[attendee]
	return ok
}

// Intersects reports whether any of the attendees belongs to the set.
func (s AttendeeSet) Intersects(attendees []string) bool {
	for _, attendee := range attendees {
		if s.Contains(attendee) {
			return true
		}
	}
	return false
}
