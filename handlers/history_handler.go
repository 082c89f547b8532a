package handlers

import (
	"net/http"

	"github.com/Dosada05/scoremaster/services"
)

type HistoryHandler struct {
	store *services.Store
}

func NewHistoryHandler(store *services.Store) *HistoryHandler {
	return &HistoryHandler{store: store}
}

func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"sessions": h.store.History()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *HistoryHandler) GetHistorySession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getParam(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	session, err := h.store.HistorySession(sessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"session": session}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHistorySession removes an archived session. Tournament standings
// that already counted it are left as they are.
func (h *HistoryHandler) DeleteHistorySession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := getParam(r, "sessionID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.store.DeleteHistorySession(r.Context(), sessionID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
