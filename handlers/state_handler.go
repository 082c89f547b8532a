package handlers

import (
	"net/http"

	"github.com/Dosada05/scoremaster/services"
)

type StateHandler struct {
	store *services.Store
}

func NewStateHandler(store *services.Store) *StateHandler {
	return &StateHandler{store: store}
}

// GetState godoc
// @Summary Full application state
// @Tags state
// @Produce json
// @Success 200 {object} map[string]interface{} "state"
// @Router /state [get]
func (h *StateHandler) GetState(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"state": h.store.Snapshot()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ToggleDarkMode godoc
// @Summary Toggle the dark mode preference
// @Tags preferences
// @Produce json
// @Success 200 {object} map[string]bool
// @Security BearerAuth
// @Router /preferences/dark-mode [post]
func (h *StateHandler) ToggleDarkMode(w http.ResponseWriter, r *http.Request) {
	darkMode := h.store.ToggleDarkMode(r.Context())
	if err := writeJSON(w, http.StatusOK, jsonResponse{"darkMode": darkMode}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *StateHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
