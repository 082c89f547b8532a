package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/scoremaster/services"
	"github.com/Dosada05/scoremaster/state"
)

type TournamentHandler struct {
	store *services.Store
}

func NewTournamentHandler(store *services.Store) *TournamentHandler {
	return &TournamentHandler{store: store}
}

func (h *TournamentHandler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": h.store.Tournaments()}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// CreateTournament godoc
// @Summary Создать турнир
// @Tags tournaments
// @Accept json
// @Produce json
// @Param tournament body state.CreateTournamentInput true "Название, игра и id сохранённых игроков"
// @Success 201 {object} map[string]interface{} "турнир"
// @Failure 404 {object} map[string]string "Игра или игрок не найдены"
// @Failure 422 {object} map[string]string "Не указано название"
// @Security BearerAuth
// @Router /tournaments [post]
func (h *TournamentHandler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	var input state.CreateTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.store.CreateTournament(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) GetTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.store.Tournament(tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetStandings godoc
// @Summary Турнирная таблица
// @Description Строки отсортированы по сумме очков, затем по победам, места начинаются с 1.
// @Tags tournaments
// @Produce json
// @Param tournamentID path string true "ID турнира"
// @Success 200 {object} map[string]interface{} "таблица"
// @Failure 404 {object} map[string]string "Турнир не найден"
// @Router /tournaments/{tournamentID}/standings [get]
func (h *TournamentHandler) GetStandings(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	rows, err := h.store.Standings(tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": rows}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type linkSessionInput struct {
	SessionID string `json:"sessionId"`
}

// LinkSession godoc
// @Summary Засчитать завершённую игру в турнир
// @Tags tournaments
// @Accept json
// @Produce json
// @Param tournamentID path string true "ID турнира"
// @Param session body linkSessionInput true "id завершённой сессии из истории"
// @Success 200 {object} map[string]interface{} "турнир"
// @Failure 404 {object} map[string]string "Турнир или сессия не найдены"
// @Failure 409 {object} map[string]string "Сессия уже засчитана или турнир завершён"
// @Failure 422 {object} map[string]string "Сессия сыграна в другую игру"
// @Security BearerAuth
// @Router /tournaments/{tournamentID}/sessions [post]
func (h *TournamentHandler) LinkSession(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input linkSessionInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if input.SessionID == "" {
		failedValidationResponse(w, r, errors.New("sessionId is required"))
		return
	}

	tournament, err := h.store.LinkSession(r.Context(), tournamentID, input.SessionID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) FinishTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.store.FinishTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TournamentHandler) DeleteTournament(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getParam(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.store.DeleteTournament(r.Context(), tournamentID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
