package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/scoremaster/rules"
	"github.com/Dosada05/scoremaster/scoring"
	"github.com/Dosada05/scoremaster/services"
	"github.com/Dosada05/scoremaster/standings"
	"github.com/Dosada05/scoremaster/state"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case errors.As(err, &maxBytesError):
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err) // ошибка программиста: передан не указатель
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	env := jsonResponse{"error": message}
	if err := writeJSON(w, status, env, nil); err != nil {
		slog.ErrorContext(r.Context(), "failed to write error response", slog.Any("error", err))
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "internal server error",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("error", err))
	message := "the server encountered a problem and could not process your request"
	errorResponse(w, r, http.StatusInternalServerError, message)
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusNotFound, err.Error())
}

func conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusConflict, err.Error())
}

func unauthorizedResponse(w http.ResponseWriter, r *http.Request, message string) {
	errorResponse(w, r, http.StatusUnauthorized, message)
}

// mapServiceErrorToHTTP преобразует ошибки доменного слоя в HTTP-ответы
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	// Не найдено
	case errors.Is(err, state.ErrGameNotFound),
		errors.Is(err, state.ErrPlayerNotFound),
		errors.Is(err, state.ErrHistoryNotFound),
		errors.Is(err, state.ErrTournamentNotFound),
		errors.Is(err, state.ErrNoActiveSession),
		errors.Is(err, scoring.ErrParticipantNotFound):
		notFoundResponse(w, r, err)

	// Конфликты с текущим состоянием
	case errors.Is(err, state.ErrSessionActive),
		errors.Is(err, state.ErrGameConflict),
		errors.Is(err, state.ErrGameInUse),
		errors.Is(err, state.ErrPlayerConflict),
		errors.Is(err, state.ErrBuiltinGame),
		errors.Is(err, state.ErrAdvanceNotAllowed),
		errors.Is(err, state.ErrTournamentFinished),
		errors.Is(err, scoring.ErrAlreadyScored),
		errors.Is(err, scoring.ErrSessionNotActive),
		errors.Is(err, standings.ErrAlreadyLinked),
		errors.Is(err, standings.ErrSessionNotFinished),
		errors.Is(err, standings.ErrTournamentFinished):
		conflictResponse(w, r, err)

	// Невалидные данные
	case errors.Is(err, rules.ErrRuleSetNameRequired),
		errors.Is(err, rules.ErrInvalidVictoryCondition),
		errors.Is(err, rules.ErrInvalidScoringMode),
		errors.Is(err, rules.ErrInvalidWinningScore),
		errors.Is(err, state.ErrGameIDRequired),
		errors.Is(err, state.ErrPlayerNameRequired),
		errors.Is(err, state.ErrTournamentNameRequired),
		errors.Is(err, state.ErrTournamentGameMismatch),
		errors.Is(err, standings.ErrGameMismatch),
		errors.Is(err, scoring.ErrNoParticipants),
		errors.Is(err, scoring.ErrDuplicateParticipant),
		errors.Is(err, scoring.ErrTeamMemberUnknown),
		errors.Is(err, scoring.ErrMemberInTwoTeams),
		errors.Is(err, scoring.ErrTeamWithoutMembers),
		errors.Is(err, services.ErrInvalidScore),
		errors.Is(err, services.ErrScoreRequired):
		failedValidationResponse(w, r, err)

	// Аутентификация
	case errors.Is(err, services.ErrInvalidPIN):
		unauthorizedResponse(w, r, err.Error())
	case errors.Is(err, services.ErrPINRequired),
		errors.Is(err, services.ErrAuthDisabled):
		badRequestResponse(w, r, err)

	default:
		serverErrorResponse(w, r, err)
	}
}

func getParam(r *http.Request, name string) (string, error) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		return "", fmt.Errorf("missing %s in URL path", name)
	}
	return value, nil
}
