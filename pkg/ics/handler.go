package ics

import (
	"errors"
	"net/http"
	"time"

	"github.com/klokku/meetingfinder/internal/rest"
	"github.com/klokku/meetingfinder/pkg/calendar"
)

const maxCalendarSize = 10 << 20

type Handler struct {
	calendar *calendar.Service
	location *time.Location
}

// NewHandler resolves floating and all-day times of imported feeds in location.
func NewHandler(calendarService *calendar.Service, location *time.Location) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{calendar: calendarService, location: location}
}

// Import godoc
// @Summary Import an iCalendar feed
// @Description Stores every event of the feed overlapping the window; recurring events are expanded.
// @Tags Calendar
// @Accept text/calendar
// @Produce json
// @Param from query string true "RFC3339 window start"
// @Param to query string true "RFC3339 window end"
// @Param timezone query string false "IANA zone for floating and all-day times"
// @Success 201 {array} calendar.EventDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/calendar/import [post]
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid from (date) format", "'from' must be in RFC3339 format")
		return
	}
	to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to"))
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid to (date) format", "'to' must be in RFC3339 format")
		return
	}

	location := h.location
	if name := r.URL.Query().Get("timezone"); name != "" {
		location, err = time.LoadLocation(name)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid timezone", err.Error())
			return
		}
	}

	events, err := Parse(http.MaxBytesReader(w, r.Body, maxCalendarSize), from, to, location)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid calendar", err.Error())
		return
	}

	stored, err := h.calendar.AddEvents(r.Context(), events)
	if err != nil {
		if errors.Is(err, calendar.ErrInvalidEvent) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid event", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, calendar.EventsToDTO(stored))
}
