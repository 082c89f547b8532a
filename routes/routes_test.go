package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/scoremaster/handlers"
	"github.com/Dosada05/scoremaster/live"
	"github.com/Dosada05/scoremaster/middleware"
	"github.com/Dosada05/scoremaster/repositories"
	"github.com/Dosada05/scoremaster/services"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPIN = "2468"

func newTestServer(t *testing.T, withAuth bool) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	hub := live.NewHub(logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	store, err := services.NewStore(ctx, repositories.NewMemoryStateRepository(nil), logger, services.WithBroadcaster(hub))
	require.NoError(t, err)

	pin := ""
	if withAuth {
		pin = testPIN
	}
	auth, err := services.NewAuthService(pin, "test-secret", time.Hour)
	require.NoError(t, err)
	var requireAuth func(http.Handler) http.Handler
	if auth.Enabled() {
		requireAuth = middleware.Authenticate(auth)
	}

	router := chi.NewRouter()
	SetupRoutes(router, Handlers{
		State:      handlers.NewStateHandler(store),
		Game:       handlers.NewGameHandler(store),
		Player:     handlers.NewPlayerHandler(store),
		Session:    handlers.NewSessionHandler(store),
		History:    handlers.NewHistoryHandler(store),
		Tournament: handlers.NewTournamentHandler(store),
		Auth:       handlers.NewAuthHandler(auth),
		WebSocket:  handlers.NewWebSocketHandler(hub, store, []string{"*"}),
	}, requireAuth, []string{"*"})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

type apiClient struct {
	t     *testing.T
	base  string
	token string
}

func (c *apiClient) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(c.t, err)
			reader = bytes.NewReader(data)
		}
	}
	req, err := http.NewRequest(method, c.base+"/api/v1"+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	var out map[string]any
	if len(data) > 0 {
		require.NoError(c.t, json.Unmarshal(data, &out), string(data))
	}
	return resp.StatusCode, out
}

func TestGameNightOverHTTP(t *testing.T) {
	srv := newTestServer(t, false)
	c := &apiClient{t: t, base: srv.URL}

	for _, name := range []string{"ana", "ben"} {
		status, body := c.do(http.MethodPost, "/players", map[string]any{"id": name, "name": name})
		require.Equal(t, http.StatusCreated, status, body)
	}

	status, body := c.do(http.MethodGet, "/session", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "no active game session", body["error"])

	status, _ = c.do(http.MethodPost, "/session", map[string]any{"gameId": "chess", "playerIds": []string{"ana"}})
	assert.Equal(t, http.StatusNotFound, status)

	status, body = c.do(http.MethodPost, "/session", map[string]any{"gameId": "skyjo", "playerIds": []string{"ana", "ben"}})
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "skyjo", body["rules"].(map[string]any)["id"])

	status, _ = c.do(http.MethodPost, "/session", map[string]any{"gameId": "skyjo", "playerIds": []string{"ana"}})
	assert.Equal(t, http.StatusConflict, status)

	status, body = c.do(http.MethodPost, "/session/scores", map[string]any{"participantId": "ana"})
	assert.Equal(t, http.StatusUnprocessableEntity, status, body)

	status, body = c.do(http.MethodPost, "/session/scores", map[string]any{"participantId": "ana", "score": 40})
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, false, body["allScored"])
	assert.Equal(t, false, body["roundAdvanced"])

	status, _ = c.do(http.MethodPost, "/session/scores", map[string]any{"participantId": "ana", "score": 1})
	assert.Equal(t, http.StatusConflict, status)

	status, body = c.do(http.MethodPost, "/session/scores", map[string]any{"participantId": "ben", "score": 7})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["allScored"])

	status, body = c.do(http.MethodPost, "/session/advance", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(2), body["session"].(map[string]any)["currentRound"])

	status, body = c.do(http.MethodPost, "/session/scores", map[string]any{"participantId": "ana", "score": 61})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["winConditionMet"])

	status, body = c.do(http.MethodPost, "/session/finish", nil)
	require.Equal(t, http.StatusOK, status)
	session := body["session"].(map[string]any)
	assert.Equal(t, "finished", session["status"])
	sessionID := session["id"].(string)

	status, body = c.do(http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["sessions"], 1)

	status, _ = c.do(http.MethodGet, "/history/"+sessionID, nil)
	assert.Equal(t, http.StatusOK, status)

	status, body = c.do(http.MethodPost, "/tournaments", map[string]any{"name": "Spring", "gameId": "skyjo", "playerIds": []string{"ana", "ben"}})
	require.Equal(t, http.StatusCreated, status, body)
	tournamentID := body["tournament"].(map[string]any)["id"].(string)

	status, body = c.do(http.MethodPost, "/tournaments/"+tournamentID+"/sessions", map[string]any{"sessionId": sessionID})
	require.Equal(t, http.StatusOK, status, body)
	status, _ = c.do(http.MethodPost, "/tournaments/"+tournamentID+"/sessions", map[string]any{"sessionId": sessionID})
	assert.Equal(t, http.StatusConflict, status)

	status, body = c.do(http.MethodGet, "/tournaments/"+tournamentID+"/standings", nil)
	require.Equal(t, http.StatusOK, status)
	rows := body["standings"].([]any)
	require.Len(t, rows, 2)
	first := rows[0].(map[string]any)
	assert.Equal(t, "ana", first["playerId"])
	assert.Equal(t, float64(101), first["totalPoints"])
	assert.Equal(t, float64(1), first["rank"])
	assert.Equal(t, float64(1), rows[1].(map[string]any)["wins"])

	status, _ = c.do(http.MethodDelete, "/history/"+sessionID, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = c.do(http.MethodGet, "/history/"+sessionID, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestGamesOverHTTP(t *testing.T) {
	srv := newTestServer(t, false)
	c := &apiClient{t: t, base: srv.URL}

	status, body := c.do(http.MethodGet, "/games", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["games"], 5)

	status, body = c.do(http.MethodPatch, "/games/uno", map[string]any{"winningScore": 300})
	require.Equal(t, http.StatusOK, status, body)
	game := body["game"].(map[string]any)
	assert.Equal(t, float64(300), game["winningScore"])
	assert.Equal(t, "winner_takes_all", game["scoringMode"])

	status, _ = c.do(http.MethodPatch, "/games/uno", map[string]any{"winningScore": -1})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, body = c.do(http.MethodPost, "/games", map[string]any{"id": "yahtzee", "name": "Yahtzee", "victoryCondition": "highest_score", "roundBased": true})
	require.Equal(t, http.StatusCreated, status, body)
	status, _ = c.do(http.MethodPost, "/games", map[string]any{"id": "yahtzee", "name": "Again", "victoryCondition": "highest_score"})
	assert.Equal(t, http.StatusConflict, status)
	status, _ = c.do(http.MethodPost, "/games", map[string]any{"name": "Broken", "victoryCondition": "closest"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, body = c.do(http.MethodPut, "/games/order", map[string]any{"order": []string{"yahtzee"}})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "yahtzee", body["games"].([]any)[0].(map[string]any)["id"])

	status, _ = c.do(http.MethodDelete, "/games/skyjo", nil)
	assert.Equal(t, http.StatusConflict, status)
	status, _ = c.do(http.MethodDelete, "/games/yahtzee", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = c.do(http.MethodGet, "/games/yahtzee", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMalformedBodies(t *testing.T) {
	srv := newTestServer(t, false)
	c := &apiClient{t: t, base: srv.URL}

	status, body := c.do(http.MethodPost, "/players", `{"name": "ana", "nickname": "x"}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["error"], "unknown key")

	status, _ = c.do(http.MethodPost, "/players", `{"name": `)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = c.do(http.MethodPost, "/players", `{"name": 5}`)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestWritesRequireTokenWhenPINIsSet(t *testing.T) {
	srv := newTestServer(t, true)
	c := &apiClient{t: t, base: srv.URL}

	status, _ := c.do(http.MethodGet, "/players", nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = c.do(http.MethodPost, "/players", map[string]any{"name": "ana"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = c.do(http.MethodPost, "/auth/token", map[string]any{"pin": "0000"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := c.do(http.MethodPost, "/auth/token", map[string]any{"pin": testPIN})
	require.Equal(t, http.StatusOK, status)
	c.token = body["token"].(string)

	status, _ = c.do(http.MethodPost, "/players", map[string]any{"name": "ana"})
	assert.Equal(t, http.StatusCreated, status)

	status, body = c.do(http.MethodPost, "/preferences/dark-mode", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, false, body["darkMode"])
}

func TestTokenEndpointWithoutPIN(t *testing.T) {
	srv := newTestServer(t, false)
	c := &apiClient{t: t, base: srv.URL}
	status, _ := c.do(http.MethodPost, "/auth/token", map[string]any{"pin": "1234"})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestHealthAndSwagger(t *testing.T) {
	srv := newTestServer(t, false)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/swagger/doc.json")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var doc map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&doc))
	assert.Contains(t, doc["paths"], "/session/scores")
}

func TestLiveStateStream(t *testing.T) {
	srv := newTestServer(t, false)
	c := &apiClient{t: t, base: srv.URL}

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/api/v1/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() map[string]any {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg map[string]any
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	msg := read()
	assert.Equal(t, live.MessageStateUpdated, msg["type"])
	assert.Equal(t, "snapshot", msg["payload"].(map[string]any)["op"])

	status, _ := c.do(http.MethodPost, "/players", map[string]any{"name": "ana"})
	require.Equal(t, http.StatusCreated, status)

	msg = read()
	payload := msg["payload"].(map[string]any)
	assert.Equal(t, "player.created", payload["op"])
	players := payload["state"].(map[string]any)["savedPlayers"].([]any)
	assert.Len(t, players, 1)
}

func TestTournamentStreamRequiresExistingTournament(t *testing.T) {
	srv := newTestServer(t, false)
	resp, err := http.Get(srv.URL + "/api/v1/ws?tournament=missing")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
