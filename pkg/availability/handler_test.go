package availability

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/klokku/meetingfinder/internal/rest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupHandlerTest(t *testing.T) *mux.Router {
	service, calendarService, _, ctx := setupServiceTest(t)
	loc := berlin(t)
	addEvent(t, ctx, calendarService, time.Date(2026, 3, 10, 9, 0, 0, 0, loc), time.Date(2026, 3, 10, 10, 0, 0, 0, loc), "alice")

	r := mux.NewRouter()
	r.HandleFunc("/api/availability", NewHandler(service).FindSlots).Methods("POST")
	return r
}

func postQuery(router *mux.Router, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/availability", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_FindSlots(t *testing.T) {
	router := setupHandlerTest(t)

	w := postQuery(router, `{"date":"2026-03-10","timezone":"Europe/Berlin","attendees":["alice"],"durationMinutes":30}`)

	require.Equal(t, http.StatusOK, w.Code)
	var slots []SlotDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&slots))
	require.Len(t, slots, 2)
	assert.Equal(t, SlotDTO{
		Start:     0,
		End:       540,
		Duration:  540,
		Inclusive: false,
		StartTime: slots[0].StartTime,
		EndTime:   slots[0].EndTime,
	}, slots[0])
	assert.Equal(t, 600, slots[1].Start)
	assert.Equal(t, 1440, slots[1].End)
	assert.True(t, slots[1].Inclusive)
	assert.True(t, slots[0].EndTime.Equal(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)))
}

func TestHandler_FindSlots_Defaults(t *testing.T) {
	router := setupHandlerTest(t)

	// the clock is at March 10th and the service defaults to Berlin
	w := postQuery(router, `{"attendees":["alice"],"durationMinutes":30}`)

	require.Equal(t, http.StatusOK, w.Code)
	var slots []SlotDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&slots))
	require.Len(t, slots, 2)
	assert.Equal(t, 540, slots[0].End)
}

func TestHandler_FindSlots_BadRequests(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		details string
	}{
		{"malformed json", `{"attendees":`, ""},
		{"negative duration", `{"attendees":["alice"],"durationMinutes":-5}`, "durationminutes must be at least 0"},
		{"bad date", `{"date":"10/03/2026","attendees":["alice"]}`, "date must match the layout 2006-01-02"},
		{"unknown timezone", `{"timezone":"Mars/Olympus","attendees":["alice"]}`, "timezone must be an IANA time zone"},
		{"empty attendee", `{"attendees":["alice",""]}`, "attendees[1] is required"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := setupHandlerTest(t)

			w := postQuery(router, tc.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var errResponse rest.ErrorResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&errResponse))
			assert.Contains(t, errResponse.Details, tc.details)
		})
	}
}
