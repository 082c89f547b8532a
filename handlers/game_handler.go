package handlers

import (
	"net/http"

	"github.com/Dosada05/scoremaster/models"
	"github.com/Dosada05/scoremaster/services"
)

type GameHandler struct {
	store *services.Store
}

func NewGameHandler(store *services.Store) *GameHandler {
	return &GameHandler{store: store}
}

// ListGames godoc
// @Summary Effective rule sets in the user's order
// @Tags games
// @Produce json
// @Success 200 {object} map[string]interface{} "games"
// @Router /games [get]
func (h *GameHandler) ListGames(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": h.store.Games()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getParam(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.store.Game(gameID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateGame godoc
// @Summary Create a custom game
// @Tags games
// @Accept json
// @Produce json
// @Param game body models.GameRuleSet true "Rule set; id is generated when empty"
// @Success 201 {object} map[string]interface{} "game"
// @Failure 409 {object} map[string]string "Id already in use"
// @Failure 422 {object} map[string]string "Invalid rule set"
// @Security BearerAuth
// @Router /games [post]
func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	var input models.GameRuleSet
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.store.AddCustomGame(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// UpdateGame godoc
// @Summary Patch a game's rules
// @Description Built-in games accumulate the patch as an override; custom games are edited in place.
// @Tags games
// @Accept json
// @Produce json
// @Param gameID path string true "Game ID"
// @Param patch body models.RuleOverride true "Fields to change"
// @Success 200 {object} map[string]interface{} "game"
// @Security BearerAuth
// @Router /games/{gameID} [patch]
func (h *GameHandler) UpdateGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getParam(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var patch models.RuleOverride
	if err := readJSON(w, r, &patch); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	game, err := h.store.UpdateGame(r.Context(), gameID, patch)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"game": game}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteGame отклоняет встроенные игры и игры, которые ещё используются.
func (h *GameHandler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	gameID, err := getParam(r, "gameID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.store.DeleteGame(r.Context(), gameID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type gameOrderInput struct {
	Order []string `json:"order"`
}

// ReorderGames godoc
// @Summary Set the display order of games
// @Tags games
// @Accept json
// @Produce json
// @Param order body gameOrderInput true "Game ids, unknown ids are ignored"
// @Success 200 {object} map[string]interface{} "games"
// @Security BearerAuth
// @Router /games/order [put]
func (h *GameHandler) ReorderGames(w http.ResponseWriter, r *http.Request) {
	var input gameOrderInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	games := h.store.SetGameOrder(r.Context(), input.Order)
	if err := writeJSON(w, http.StatusOK, jsonResponse{"games": games}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
