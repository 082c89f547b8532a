package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Dosada05/scoremaster/services"
	"github.com/Dosada05/scoremaster/state"
)

type SessionHandler struct {
	store *services.Store
}

func NewSessionHandler(store *services.Store) *SessionHandler {
	return &SessionHandler{store: store}
}

// GetSession godoc
// @Summary Current game session
// @Description Returns the active session with its resolved rules and the allScored / winConditionMet flags.
// @Tags session
// @Produce json
// @Success 200 {object} map[string]interface{} "session view"
// @Failure 404 {object} map[string]string "No active session"
// @Router /session [get]
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.store.Session()
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// StartSession godoc
// @Summary Start a game session
// @Tags session
// @Accept json
// @Produce json
// @Param session body state.StartSessionInput true "Game, saved player ids and optional teams"
// @Success 201 {object} map[string]interface{} "session view"
// @Failure 404 {object} map[string]string "Game, player or tournament not found"
// @Failure 409 {object} map[string]string "A session is already active"
// @Failure 422 {object} map[string]string "Invalid participants"
// @Security BearerAuth
// @Router /session [post]
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	var input state.StartSessionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if strings.TrimSpace(input.GameID) == "" {
		failedValidationResponse(w, r, errors.New("gameId is required"))
		return
	}

	view, err := h.store.StartSession(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type submitScoreInput struct {
	ParticipantID string   `json:"participantId"`
	Score         *float64 `json:"score"`
}

// SubmitScore godoc
// @Summary Record a score
// @Description In numeric games the score is appended for the participant's current round.
// @Description In winner-takes-all games the participant wins the round, the score value is ignored and the round advances.
// @Tags session
// @Accept json
// @Produce json
// @Param score body submitScoreInput true "Participant (player or team) and score"
// @Success 200 {object} services.SubmitResult
// @Failure 404 {object} map[string]string "No active session or unknown participant"
// @Failure 409 {object} map[string]string "Participant already scored this round"
// @Failure 422 {object} map[string]string "Score missing in a numeric game"
// @Security BearerAuth
// @Router /session/scores [post]
func (h *SessionHandler) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var input submitScoreInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.ParticipantID == "" {
		failedValidationResponse(w, r, errors.New("participantId is required"))
		return
	}

	result, err := h.store.SubmitScore(r.Context(), input.ParticipantID, input.Score)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, result, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AdvanceRound godoc
// @Summary Move to the next round
// @Description Allowed at any time in numeric games, even before everyone has scored.
// @Tags session
// @Produce json
// @Success 200 {object} map[string]interface{} "session view"
// @Failure 409 {object} map[string]string "Winner-takes-all games advance on their own"
// @Security BearerAuth
// @Router /session/advance [post]
func (h *SessionHandler) AdvanceRound(w http.ResponseWriter, r *http.Request) {
	view, err := h.store.AdvanceRound(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, view, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// FinishSession godoc
// @Summary Finish the session and archive it
// @Tags session
// @Produce json
// @Success 200 {object} map[string]interface{} "finished session"
// @Failure 404 {object} map[string]string "No active session"
// @Security BearerAuth
// @Router /session/finish [post]
func (h *SessionHandler) FinishSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.store.FinishSession(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// QuitSession discards the active session without archiving it.
func (h *SessionHandler) QuitSession(w http.ResponseWriter, r *http.Request) {
	if err := h.store.QuitSession(r.Context()); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
