package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name     string   `validate:"required"`
	Count    int      `validate:"min=1,max=10"`
	Date     string   `validate:"omitempty,datetime=2006-01-02"`
	Timezone string   `validate:"omitempty,timezone"`
	Tags     []string `validate:"dive,required"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   sample
		wantErr string
	}{
		{"valid", sample{Name: "a", Count: 1, Date: "2026-01-02", Timezone: "Europe/Warsaw", Tags: []string{"x"}}, ""},
		{"missing name", sample{Count: 1}, "name is required"},
		{"count too small", sample{Name: "a", Count: 0}, "count must be at least 1"},
		{"count too big", sample{Name: "a", Count: 11}, "count must be at most 10"},
		{"bad date", sample{Name: "a", Count: 1, Date: "02/01/2026"}, "date must match the layout 2006-01-02"},
		{"bad timezone", sample{Name: "a", Count: 1, Timezone: "Mars/Olympus"}, "timezone must be an IANA time zone"},
		{"empty tag", sample{Name: "a", Count: 1, Tags: []string{""}}, "tags[0] is required"},
		{"several errors", sample{}, "name is required; count must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusBadRequest, "Invalid request", "details here")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"Invalid request","details":"details here"}`, w.Body.String())
}
