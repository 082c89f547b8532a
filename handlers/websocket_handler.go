package handlers

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Dosada05/scoremaster/live"
	"github.com/Dosada05/scoremaster/models"
	"github.com/Dosada05/scoremaster/services"
	"github.com/Dosada05/scoremaster/standings"
	"github.com/Dosada05/scoremaster/state"
	"github.com/gorilla/websocket"
)

type WebSocketHandler struct {
	hub      *live.Hub
	store    *services.Store
	upgrader websocket.Upgrader
}

// NewWebSocketHandler accepts connections from allowedOrigins; "*" allows
// any origin.
func NewWebSocketHandler(hub *live.Hub, store *services.Store, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		hub:   hub,
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}
		return false
	}
}

// ServeWs streams state changes. Without parameters the client joins the
// state room and first receives the full state; ?tournament={id} joins that
// tournament's standings room instead.
func (h *WebSocketHandler) ServeWs(w http.ResponseWriter, r *http.Request) {
	tournamentID := r.URL.Query().Get("tournament")
	room := live.RoomState
	if tournamentID != "" {
		if _, err := h.store.Tournament(tournamentID); err != nil {
			mapServiceErrorToHTTP(w, r, err)
			return
		}
		room = live.TournamentRoom(tournamentID)
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade уже ответил клиенту ошибкой.
		slog.WarnContext(r.Context(), "websocket upgrade failed", slog.String("room", room), slog.Any("error", err))
		return
	}

	// Снимок и регистрация под одной блокировкой: изменение между ними не потеряется.
	h.store.WithSnapshot(func(st models.AppState) {
		data, err := initialMessage(st, room, tournamentID)
		if err != nil {
			slog.WarnContext(r.Context(), "websocket initial message failed", slog.String("room", room), slog.Any("error", err))
			conn.Close()
			return
		}
		h.hub.Attach(conn, room, data)
	})
}

func initialMessage(st models.AppState, room, tournamentID string) ([]byte, error) {
	if tournamentID == "" {
		return json.Marshal(live.Message{
			Type:    live.MessageStateUpdated,
			Payload: services.StateEvent{Op: "snapshot", State: st},
			Room:    room,
		})
	}
	t, ok := state.Tournament(st, tournamentID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", state.ErrTournamentNotFound, tournamentID)
	}
	return json.Marshal(live.Message{
		Type:    live.MessageStandingsUpdated,
		Payload: services.StandingsEvent{Tournament: t, Standings: standings.Standings(t)},
		Room:    room,
	})
}
