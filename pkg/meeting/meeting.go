// Package meeting finds the times of day at which every requested attendee is free.
package meeting

// Event is an occurrence during the day that keeps its attendees busy.
type Event struct {
	Title     string
	When      TimeRange
	Attendees []string
}

// Request asks for a meeting of Duration minutes with all Attendees present.
type Request struct {
	Attendees []string
	Duration  int
}
