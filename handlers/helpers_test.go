package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Dosada05/scoremaster/rules"
	"github.com/Dosada05/scoremaster/scoring"
	"github.com/Dosada05/scoremaster/services"
	"github.com/Dosada05/scoremaster/standings"
	"github.com/Dosada05/scoremaster/state"
	"github.com/stretchr/testify/assert"
)

func TestMapServiceErrorToHTTP(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: chess", state.ErrGameNotFound), http.StatusNotFound},
		{state.ErrNoActiveSession, http.StatusNotFound},
		{scoring.ErrParticipantNotFound, http.StatusNotFound},
		{state.ErrSessionActive, http.StatusConflict},
		{fmt.Errorf("%w: active session", state.ErrGameInUse), http.StatusConflict},
		{scoring.ErrAlreadyScored, http.StatusConflict},
		{fmt.Errorf("%w: s1", standings.ErrAlreadyLinked), http.StatusConflict},
		{state.ErrAdvanceNotAllowed, http.StatusConflict},
		{standings.ErrGameMismatch, http.StatusUnprocessableEntity},
		{rules.ErrInvalidWinningScore, http.StatusUnprocessableEntity},
		{scoring.ErrNoParticipants, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: a", scoring.ErrMemberInTwoTeams), http.StatusUnprocessableEntity},
		{services.ErrInvalidScore, http.StatusUnprocessableEntity},
		{services.ErrScoreRequired, http.StatusUnprocessableEntity},
		{services.ErrInvalidPIN, http.StatusUnauthorized},
		{services.ErrAuthDisabled, http.StatusBadRequest},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestServerErrorsHideDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	mapServiceErrorToHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("password=hunter2"))
	assert.NotContains(t, rec.Body.String(), "hunter2")
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://app.test"})

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, check(req), "same-origin requests carry no Origin header")

	req.Header.Set("Origin", "http://app.test")
	assert.True(t, check(req))
	req.Header.Set("Origin", "http://evil.test")
	assert.False(t, check(req))

	assert.True(t, originChecker([]string{"*"})(req))
}
