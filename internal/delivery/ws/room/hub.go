package ws_room

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/humanbelnik/columns/core/internal/model"
)

const sendBuffer = 256

// Envelope is the wire frame in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte

	// guarded by Hub.mu
	rooms  map[model.RoomID]struct{}
	closed bool
}

func NewClient(id string, conn *websocket.Conn) *Client {
	return &Client{
		ID:    id,
		Conn:  conn,
		Send:  make(chan []byte, sendBuffer),
		rooms: make(map[model.RoomID]struct{}),
	}
}

// Hub keeps every live connection and the room groups they belong to.
// Sends never block: a client whose buffer is full is evicted.
type Hub struct {
	mu sync.RWMutex

	clients map[string]*Client
	rooms   map[model.RoomID]map[string]*Client

	logger *slog.Logger
}

type HubOption func(*Hub)

func WithHubLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[model.RoomID]map[string]*Client),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client
	h.logger.Info("client registered", "conn_id", client.ID)
}

func (h *Hub) RemoveClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(client)
	h.logger.Info("client unregistered", "conn_id", client.ID)
}

func (h *Hub) removeLocked(client *Client) {
	if client.closed {
		return
	}
	for roomID := range client.rooms {
		if group, ok := h.rooms[roomID]; ok {
			delete(group, client.ID)
			if len(group) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}
	delete(h.clients, client.ID)
	client.closed = true
	close(client.Send)
}

func (h *Hub) Join(connID string, roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[connID]
	if !ok {
		return
	}
	group, ok := h.rooms[roomID]
	if !ok {
		group = make(map[string]*Client)
		h.rooms[roomID] = group
	}
	group[connID] = client
	client.rooms[roomID] = struct{}{}
}

func (h *Hub) Leave(connID string, roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if group, ok := h.rooms[roomID]; ok {
		delete(group, connID)
		if len(group) == 0 {
			delete(h.rooms, roomID)
		}
	}
	if client, ok := h.clients[connID]; ok {
		delete(client.rooms, roomID)
	}
}

func (h *Hub) EmitTo(connID string, event string, payload any) {
	msg, ok := h.encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	client, found := h.clients[connID]
	var slow []*Client
	if found && !h.trySend(client, msg) {
		slow = append(slow, client)
	}
	h.mu.RUnlock()

	h.evict(slow)
}

func (h *Hub) EmitToRoom(roomID model.RoomID, event string, payload any) {
	msg, ok := h.encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	var slow []*Client
	for _, client := range h.rooms[roomID] {
		if !h.trySend(client, msg) {
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	h.evict(slow)
}

func (h *Hub) BroadcastAll(event string, payload any) {
	msg, ok := h.encode(event, payload)
	if !ok {
		return
	}

	h.mu.RLock()
	var slow []*Client
	for _, client := range h.clients {
		if !h.trySend(client, msg) {
			slow = append(slow, client)
		}
	}
	h.mu.RUnlock()

	h.evict(slow)
}

func (h *Hub) trySend(client *Client, msg []byte) bool {
	select {
	case client.Send <- msg:
		return true
	default:
		return false
	}
}

func (h *Hub) evict(slow []*Client) {
	if len(slow) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range slow {
		h.logger.Warn("dropping slow client", "conn_id", client.ID)
		h.removeLocked(client)
	}
}

func (h *Hub) encode(event string, payload any) ([]byte, bool) {
	msg, err := json.Marshal(outbound{Event: event, Data: payload})
	if err != nil {
		h.logger.Error("failed to encode event", "event", event, "error", err)
		return nil, false
	}
	return msg, true
}
