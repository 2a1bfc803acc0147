package webpush

import (
	"net/http"
	"testing"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Outcome
	}{
		{http.StatusCreated, OutcomeDelivered},
		{http.StatusOK, OutcomeDelivered},
		{http.StatusNoContent, OutcomeDelivered},
		{http.StatusNotFound, OutcomeGone},
		{http.StatusGone, OutcomeGone},
		{http.StatusTooManyRequests, OutcomeTransient},
		{http.StatusBadRequest, OutcomeTransient},
		{http.StatusRequestEntityTooLarge, OutcomeTransient},
		{http.StatusInternalServerError, OutcomeTransient},
		{http.StatusBadGateway, OutcomeTransient},
	}

	for _, tt := range tests {
		if got := ClassifyStatus(tt.status); got != tt.want {
			t.Errorf("ClassifyStatus(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestOutcomeString(t *testing.T) {
	for outcome, want := range map[Outcome]string{
		OutcomeDelivered: "delivered",
		OutcomeGone:      "gone",
		OutcomeTransient: "transient",
	} {
		if got := outcome.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", outcome, got, want)
		}
	}
}
