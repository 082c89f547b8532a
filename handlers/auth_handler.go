package handlers

import (
	"net/http"

	"github.com/Dosada05/scoremaster/services"
)

type AuthHandler struct {
	authService services.AuthService
}

func NewAuthHandler(authService services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type tokenInput struct {
	PIN string `json:"pin"`
}

// IssueToken godoc
// @Summary Exchange the household PIN for a token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body tokenInput true "PIN"
// @Success 200 {object} map[string]interface{} "token and expiresAt"
// @Failure 400 {object} map[string]string "PIN missing or authentication disabled"
// @Failure 401 {object} map[string]string "Wrong PIN"
// @Router /auth/token [post]
func (h *AuthHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var input tokenInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	token, expiresAt, err := h.authService.IssueToken(r.Context(), input.PIN)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	response := jsonResponse{
		"token":     token,
		"expiresAt": expiresAt,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
