package handlers

import (
	"net/http"

	"github.com/Dosada05/scoremaster/models"
	"github.com/Dosada05/scoremaster/services"
	"github.com/Dosada05/scoremaster/state"
)

type PlayerHandler struct {
	store *services.Store
}

func NewPlayerHandler(store *services.Store) *PlayerHandler {
	return &PlayerHandler{store: store}
}

func (h *PlayerHandler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"players": h.store.Players()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreatePlayer godoc
// @Summary Add a player to the saved roster
// @Tags players
// @Accept json
// @Produce json
// @Param player body models.SavedPlayer true "Player; id is generated when empty"
// @Success 201 {object} map[string]interface{} "player"
// @Failure 409 {object} map[string]string "Id already in use"
// @Failure 422 {object} map[string]string "Name is required"
// @Security BearerAuth
// @Router /players [post]
func (h *PlayerHandler) CreatePlayer(w http.ResponseWriter, r *http.Request) {
	var input models.SavedPlayer
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.store.AddPlayer(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdatePlayer edits the roster entry. Sessions already started keep the
// name and color they were started with.
func (h *PlayerHandler) UpdatePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var patch state.PlayerPatch
	if err := readJSON(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	player, err := h.store.UpdatePlayer(r.Context(), playerID, patch)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"player": player}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *PlayerHandler) DeletePlayer(w http.ResponseWriter, r *http.Request) {
	playerID, err := getParam(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.store.RemovePlayer(r.Context(), playerID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
