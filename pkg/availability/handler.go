package availability

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/klokku/meetingfinder/internal/rest"
)

type QueryDTO struct {
	Date            string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Timezone        string   `json:"timezone" validate:"omitempty,timezone"`
	Attendees       []string `json:"attendees" validate:"dive,required"`
	DurationMinutes int      `json:"durationMinutes" validate:"min=0"`
}

type SlotDTO struct {
	Start     int       `json:"start"`
	End       int       `json:"end"`
	Duration  int       `json:"duration"`
	Inclusive bool      `json:"inclusive"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type Handler struct {
	availability *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{s}
}

// FindSlots godoc
// @Summary Find free meeting slots
// @Description Returns the ranges of the day where none of the attendees is busy and the meeting fits.
// @Tags Availability
// @Accept json
// @Produce json
// @Param query body QueryDTO true "Query"
// @Success 200 {array} SlotDTO
// @Failure 400 {object} rest.ErrorResponse
// @Router /api/availability [post]
func (h *Handler) FindSlots(w http.ResponseWriter, r *http.Request) {
	var queryDTO QueryDTO
	if err := json.NewDecoder(r.Body).Decode(&queryDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if err := rest.Validate(queryDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid availability query", err.Error())
		return
	}

	query, err := toQuery(queryDTO)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "Invalid availability query", err.Error())
		return
	}

	slots, err := h.availability.FindSlots(r.Context(), query)
	if err != nil {
		if errors.Is(err, ErrInvalidQuery) {
			rest.WriteError(w, http.StatusBadRequest, "Invalid availability query", err.Error())
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rest.WriteJSON(w, http.StatusOK, SlotsToDTO(slots))
}

func toQuery(dto QueryDTO) (Query, error) {
	query := Query{
		Attendees: dto.Attendees,
		Duration:  dto.DurationMinutes,
	}
	if dto.Timezone != "" {
		loc, err := time.LoadLocation(dto.Timezone)
		if err != nil {
			return Query{}, err
		}
		query.Location = loc
	}
	if dto.Date != "" {
		date, err := time.Parse(time.DateOnly, dto.Date)
		if err != nil {
			return Query{}, err
		}
		query.Date = date
	}
	return query, nil
}

func SlotToDTO(slot Slot) SlotDTO {
	return SlotDTO{
		Start:     slot.Range.Start(),
		End:       slot.Range.End(),
		Duration:  slot.Range.Duration(),
		Inclusive: slot.Range.Inclusive(),
		StartTime: slot.Start,
		EndTime:   slot.End,
	}
}

func SlotsToDTO(slots []Slot) []SlotDTO {
	dtos := make([]SlotDTO, 0, len(slots))
	for _, slot := range slots {
		dtos = append(dtos, SlotToDTO(slot))
	}
	return dtos
}
