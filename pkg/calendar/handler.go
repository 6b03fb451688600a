package calendar

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/klokku/meetingfinder/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	calendar *Service
}

type EventDTO struct {
	UID       string    `json:"uid"`
	Summary   string    `json:"summary"`
	StartTime time.Time `json:"start" validate:"required"`
	EndTime   time.Time `json:"end" validate:"required,gtefield=StartTime"`
	Attendees []string  `json:"attendees" validate:"dive,required"`
}

func NewHandler(s *Service) *Handler {
	return &Handler{s}
}

// GetEvents godoc
// @Summary List calendar events
// @Tags Calendar
// @Produce json
// @Param from query string true "RFC3339 window start"
// @Param to query string true "RFC3339 window end"
// @Param attendee query []string false "Attendee filter"
// @Success 200 {array} EventDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/calendar/event [get]
func (h *Handler) GetEvents(w http.ResponseWriter, r *http.Request) {
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

	events, err := h.calendar.GetEvents(r.Context(), from, to, r.URL.Query()["attendee"])
	if err != nil {
		if errors.Is(err, ErrInvalidEvent) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid time window", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rest.WriteJSON(w, http.StatusOK, EventsToDTO(events))
}

// CreateEvent godoc
// @Summary Create a calendar event
// @Tags Calendar
// @Accept json
// @Produce json
// @Param event body EventDTO true "Event"
// @Success 201 {object} EventDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/calendar/event [post]
func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var eventDTO EventDTO
	if err := json.NewDecoder(r.Body).Decode(&eventDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := rest.Validate(eventDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid event", err.Error())
		return
	}

	event, err := h.calendar.AddEvent(r.Context(), Event{
		Summary:   eventDTO.Summary,
		StartTime: eventDTO.StartTime,
		EndTime:   eventDTO.EndTime,
		Attendees: eventDTO.Attendees,
	})
	if err != nil {
		if errors.Is(err, ErrInvalidEvent) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid event", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rest.WriteJSON(w, http.StatusCreated, EventToDTO(event))
}

// DeleteEvent godoc
// @Summary Delete a calendar event
// @Tags Calendar
// @Param eventUid path string true "Event UID"
// @Success 204
// @Failure 404 {object} rest.ErrorResponse
// @Router /api/calendar/event/{eventUid} [delete]
func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventUid, err := uuid.Parse(mux.Vars(r)["eventUid"])
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid event uid", err.Error())
		return
	}

	if err := h.calendar.DeleteEvent(r.Context(), eventUid); err != nil {
		if errors.Is(err, ErrEventNotFound) {
			rest.WriteError(w, http.StatusNotFound, "Event not found", eventUid.String())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	log.Debugf("Deleted calendar event %s", eventUid)
	w.WriteHeader(http.StatusNoContent)
}

func EventToDTO(e Event) EventDTO {
	return EventDTO{
		UID:       e.UID.String(),
		Summary:   e.Summary,
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Attendees: e.Attendees,
	}
}

func EventsToDTO(events []Event) []EventDTO {
	dtos := make([]EventDTO, 0, len(events))
	for _, e := range events {
		dtos = append(dtos, EventToDTO(e))
	}
	return dtos
}
