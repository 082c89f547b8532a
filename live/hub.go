// Package live pushes state changes to connected browsers over websockets.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// RoomState receives every state change.
	RoomState = "state"

	MessageStateUpdated     = "STATE_UPDATED"
	MessageStandingsUpdated = "STANDINGS_UPDATED"
)

// TournamentRoom is the room that receives standings for one tournament.
func TournamentRoom(tournamentID string) string {
	return "tournament_" + tournamentID
}

type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
	Room    string `json:"room,omitempty"`
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

type Client struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	room       string
	registered chan struct{}
	mu         sync.Mutex
	closed     bool
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	rooms      map[string]map[*Client]bool
	mu         sync.RWMutex
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rooms:      make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run serves registrations until ctx is cancelled, then disconnects every
// client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.logger.Debug("websocket client registered",
				slog.String("room", client.room),
				slog.Int("clients", len(h.rooms[client.room])))
			h.mu.Unlock()
			close(client.registered)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.rooms[client.room][client]; ok {
				client.close()
				delete(h.rooms[client.room], client)
				if len(h.rooms[client.room]) == 0 {
					delete(h.rooms, client.room)
				}
				h.logger.Debug("websocket client unregistered", slog.String("room", client.room))
			}
			h.mu.Unlock()

		case <-ctx.Done():
			h.mu.Lock()
			for room, clients := range h.rooms {
				for client := range clients {
					client.close()
				}
				delete(h.rooms, room)
			}
			h.mu.Unlock()
			h.logger.Info("websocket hub stopped")
			return nil
		}
	}
}

// BroadcastToRoom отправляет сообщение всем клиентам комнаты. Клиент с
// переполненным буфером пропускает сообщение, следующее несёт полное состояние.
func (h *Hub) BroadcastToRoom(room string, msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.rooms[room]
	if !ok {
		return
	}

	msg.Room = room
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to marshal websocket message", slog.String("room", room), slog.Any("error", err))
		return
	}

	for client := range clients {
		client.mu.Lock()
		if !client.closed {
			select {
			case client.send <- data:
			default:
				h.logger.Warn("websocket client buffer full, message dropped", slog.String("room", room))
			}
		}
		client.mu.Unlock()
	}
}

// ClientCount reports how many clients are subscribed to room.
func (h *Hub) ClientCount(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Attach registers conn in room and starts its pumps. initial, when not nil,
// is delivered before any broadcast. Attach returns once the client is in the
// room, so every later broadcast reaches it.
func (h *Hub) Attach(conn *websocket.Conn, room string, initial []byte) {
	client := &Client{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		room:       room,
		registered: make(chan struct{}),
	}
	if initial != nil {
		client.send <- initial
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}
	select {
	case <-client.registered:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (c *Client) close() {
	c.mu.Lock()
	if !c.closed {
		close(c.send)
		c.closed = true
	}
	c.mu.Unlock()
}

// readPump only watches for disconnects; clients never send commands.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket closed unexpectedly", slog.String("room", c.room), slog.Any("error", err))
			}
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.logger.Debug("websocket write failed", slog.String("room", c.room), slog.Any("error", err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
