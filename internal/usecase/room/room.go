package usecase_room

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/humanbelnik/columns/core/internal/model"
	usecase_game "github.com/humanbelnik/columns/core/internal/usecase/game"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrRoomNotFound     = errors.New("room not found")
	ErrRoomFull         = errors.New("room is full")
	ErrRoomNotAvailable = errors.New("room is not accepting players")
	ErrNotInRoom        = errors.New("not in room")
	ErrNotAPlayer       = errors.New("not a player")
	ErrAlreadyInRoom    = errors.New("already in a room")
	ErrGameNotActive    = errors.New("game is not active")
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrInternal         = errors.New("internal error")
)

const (
	maxPlayers            = 2
	defaultReconnectGrace = 60 * time.Second
	reasonAbandoned       = "Player did not reconnect"
	reasonNoPlayers       = "All players left"
)

//go:generate mockery --name=Store --output=./mocks --filename=store.go
type Store interface {
	CreateGameRoom(ctx context.Context, name string, ownerID model.UserID) (model.RoomID, error)
	JoinGameRoom(ctx context.Context, roomID model.RoomID, userID model.UserID) error
}

// Broadcaster delivers events to single connections, to room groups and to
// every connected client.
type Broadcaster interface {
	usecase_game.Emitter
	BroadcastAll(event string, payload any)
	Join(connID string, roomID model.RoomID)
	Leave(connID string, roomID model.RoomID)
}

//go:generate mockery --name=GameController --output=./mocks --filename=game_controller.go
type GameController interface {
	Start()
	Stop()
	HandlePlayerCommand(userID model.UserID, cmd model.Command)
	TogglePause(hasViewers bool)
	SendInit(connID string)
}

// GameFactory builds the controller for a room whose players are both ready.
type GameFactory func(roomID model.RoomID, p1, p2 usecase_game.Player, onGameOver func(usecase_game.Result)) GameController

type room struct {
	id      model.RoomID
	name    string
	status  model.RoomStatus
	players []*model.Player
	viewers []*model.Viewer
	game    GameController

	grace    *time.Timer
	graceSeq int
}

// Manager is the registry of live rooms and authenticated connections.
// Every method takes the single mutex, so catalog reads and broadcasts see a
// consistent view.
type Manager struct {
	store   Store
	bc      Broadcaster
	newGame GameFactory

	reconnectGrace time.Duration
	now            func() time.Time
	logger         *slog.Logger

	mu       sync.Mutex
	rooms    map[model.RoomID]*room
	sessions map[string]*model.Session
}

type Option func(*Manager)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithReconnectGrace sets how long a mid-game room waits for a disconnected
// player. Zero closes the room immediately.
func WithReconnectGrace(d time.Duration) Option {
	return func(m *Manager) {
		m.reconnectGrace = d
	}
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

func New(store Store, bc Broadcaster, newGame GameFactory, opts ...Option) *Manager {
	m := &Manager{
		store:          store,
		bc:             bc,
		newGame:        newGame,
		reconnectGrace: defaultReconnectGrace,
		now:            time.Now,
		logger:         slog.Default(),
		rooms:          make(map[model.RoomID]*room),
		sessions:       make(map[string]*model.Session),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Authenticate(connID string, userID model.UserID, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[connID]; ok {
		s.UserID = userID
		s.Username = username
	} else {
		m.sessions[connID] = &model.Session{
			ConnID:   connID,
			UserID:   userID,
			Username: username,
		}
	}
	m.logger.Info("user authenticated", "conn_id", connID, "user_id", userID, "username", username)
}

// Disconnect leaves the connection's current room and forgets the session.
func (m *Manager) Disconnect(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[connID]
	if !ok {
		return
	}
	if s.CurrentRoom != model.EmptyRoomID {
		m.leaveLocked(s, s.CurrentRoom)
	}
	delete(m.sessions, connID)
	m.logger.Info("user disconnected", "conn_id", connID, "user_id", s.UserID)
}

func (m *Manager) CreateRoom(ctx context.Context, connID string, name string) (model.RoomData, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.RoomData{}, ErrInvalidPayload
	}

	m.mu.Lock()
	s, err := m.freeSessionLocked(connID)
	if err != nil {
		m.mu.Unlock()
		return model.RoomData{}, err
	}
	owner := *s
	m.mu.Unlock()

	roomID, err := m.store.CreateGameRoom(ctx, name, owner.UserID)
	if err != nil {
		return model.RoomData{}, errors.Join(ErrInternal, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// the connection may have joined elsewhere or gone away while the store was busy
	s, err = m.freeSessionLocked(connID)
	if err != nil {
		return model.RoomData{}, err
	}

	r := &room{
		id:     roomID,
		name:   name,
		status: model.StatusWaiting,
		players: []*model.Player{{
			ConnID:    connID,
			UserID:    s.UserID,
			Username:  s.Username,
			Connected: true,
		}},
	}
	m.rooms[roomID] = r
	s.CurrentRoom = roomID
	s.IsViewer = false
	m.bc.Join(connID, roomID)

	m.logger.Info("room created", "room_id", roomID, "name", name, "user_id", s.UserID)
	m.broadcastRoomsLocked()
	return r.data(), nil
}

func (m *Manager) JoinAsPlayer(ctx context.Context, connID string, roomID model.RoomID) (model.RoomData, error) {
	m.mu.Lock()
	s, ok := m.sessions[connID]
	if !ok {
		m.mu.Unlock()
		return model.RoomData{}, ErrNotAuthenticated
	}
	if r, ok := m.rooms[roomID]; ok {
		if p := r.playerByUser(s.UserID); p != nil {
			defer m.mu.Unlock()
			return m.rejoinLocked(s, r, p)
		}
	}
	if err := m.canJoinAsPlayerLocked(s, roomID); err != nil {
		m.mu.Unlock()
		return model.RoomData{}, err
	}
	userID := s.UserID
	m.mu.Unlock()

	if err := m.store.JoinGameRoom(ctx, roomID, userID); err != nil {
		return model.RoomData{}, errors.Join(ErrInternal, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok = m.sessions[connID]
	if !ok {
		return model.RoomData{}, ErrNotAuthenticated
	}
	if err := m.canJoinAsPlayerLocked(s, roomID); err != nil {
		return model.RoomData{}, err
	}

	r := m.rooms[roomID]
	p := &model.Player{
		ConnID:    connID,
		UserID:    s.UserID,
		Username:  s.Username,
		Connected: true,
	}
	r.players = append(r.players, p)
	s.CurrentRoom = roomID
	s.IsViewer = false
	m.bc.Join(connID, roomID)

	data := r.data()
	m.bc.EmitToRoom(roomID, model.EventPlayerJoined, PlayerJoined{Player: *p, RoomData: data})
	m.logger.Info("player joined", "room_id", roomID, "user_id", s.UserID)
	m.broadcastRoomsLocked()
	return data, nil
}

func (m *Manager) canJoinAsPlayerLocked(s *model.Session, roomID model.RoomID) error {
	if s.CurrentRoom != model.EmptyRoomID {
		return ErrAlreadyInRoom
	}
	r, ok := m.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	if len(r.players) >= maxPlayers {
		return ErrRoomFull
	}
	if r.status != model.StatusWaiting {
		return ErrRoomNotAvailable
	}
	return nil
}

// rejoinLocked binds an existing player slot to a new connection.
func (m *Manager) rejoinLocked(s *model.Session, r *room, p *model.Player) (model.RoomData, error) {
	if s.CurrentRoom != model.EmptyRoomID && s.CurrentRoom != r.id {
		return model.RoomData{}, ErrAlreadyInRoom
	}

	if s.IsViewer {
		r.removeViewer(s.ConnID)
	}
	if p.ConnID != s.ConnID {
		if old, ok := m.sessions[p.ConnID]; ok && old.CurrentRoom == r.id {
			old.CurrentRoom = model.EmptyRoomID
			m.bc.Leave(old.ConnID, r.id)
		}
	}
	p.ConnID = s.ConnID
	p.Connected = true
	s.CurrentRoom = r.id
	s.IsViewer = false
	m.bc.Join(s.ConnID, r.id)

	if r.allConnected() {
		r.stopGrace()
	}
	if r.game != nil {
		r.game.SendInit(s.ConnID)
	}

	data := r.data()
	m.bc.EmitToRoom(r.id, model.EventPlayerJoined, PlayerJoined{Player: *p, RoomData: data})
	m.logger.Info("player reconnected", "room_id", r.id, "user_id", p.UserID)
	m.broadcastRoomsLocked()
	return data, nil
}

func (m *Manager) JoinAsViewer(connID string, roomID model.RoomID) (model.RoomData, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.freeSessionLocked(connID)
	if err != nil {
		return model.RoomData{}, err
	}
	r, ok := m.rooms[roomID]
	if !ok {
		return model.RoomData{}, ErrRoomNotFound
	}

	v := &model.Viewer{ConnID: connID, UserID: s.UserID, Username: s.Username}
	r.viewers = append(r.viewers, v)
	s.CurrentRoom = roomID
	s.IsViewer = true
	m.bc.Join(connID, roomID)

	m.bc.EmitToRoom(roomID, model.EventViewerJoined, ViewerJoined{Viewer: *v, ViewersCount: len(r.viewers)})
	if r.game != nil {
		r.game.SendInit(connID)
		r.game.TogglePause(true)
	}

	m.logger.Info("viewer joined", "room_id", roomID, "user_id", s.UserID)
	m.broadcastRoomsLocked()
	return r.data(), nil
}

func (m *Manager) Leave(connID string, roomID model.RoomID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[connID]
	if !ok {
		return ErrNotAuthenticated
	}
	if s.CurrentRoom == model.EmptyRoomID || s.CurrentRoom != roomID {
		return ErrNotInRoom
	}
	m.leaveLocked(s, roomID)
	return nil
}

func (m *Manager) leaveLocked(s *model.Session, roomID model.RoomID) {
	s.CurrentRoom = model.EmptyRoomID
	wasViewer := s.IsViewer
	s.IsViewer = false
	m.bc.Leave(s.ConnID, roomID)

	r, ok := m.rooms[roomID]
	if !ok {
		return
	}

	switch {
	case wasViewer:
		r.removeViewer(s.ConnID)
		if r.game != nil {
			r.game.TogglePause(len(r.viewers) > 0)
		}
	case r.status == model.StatusPlaying:
		p := r.playerByConn(s.ConnID)
		if p == nil {
			return
		}
		p.Connected = false
		m.logger.Info("player disconnected mid-game", "room_id", roomID, "user_id", p.UserID)
		if m.reconnectGrace <= 0 {
			m.closeRoomLocked(r, reasonAbandoned)
			m.broadcastRoomsLocked()
			return
		}
		m.startGraceLocked(r)
	default:
		r.removePlayer(s.ConnID)
		if len(r.players) == 0 {
			m.closeRoomLocked(r, reasonNoPlayers)
			m.broadcastRoomsLocked()
			return
		}
	}

	m.bc.EmitToRoom(roomID, model.EventUserLeft, UserLeft{Username: s.Username, RoomData: r.data()})
	m.logger.Info("user left room", "room_id", roomID, "user_id", s.UserID, "viewer", wasViewer)
	m.broadcastRoomsLocked()
}

func (m *Manager) startGraceLocked(r *room) {
	if r.grace != nil {
		return
	}
	r.graceSeq++
	seq := r.graceSeq
	r.grace = time.AfterFunc(m.reconnectGrace, func() {
		m.expireRoom(r.id, seq)
	})
}

func (m *Manager) expireRoom(roomID model.RoomID, seq int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok || r.grace == nil || r.graceSeq != seq {
		return
	}
	r.grace = nil
	m.logger.Info("reconnect grace expired", "room_id", roomID)
	m.closeRoomLocked(r, reasonAbandoned)
	m.broadcastRoomsLocked()
}

// closeRoomLocked notifies every remaining member and drops the room.
func (m *Manager) closeRoomLocked(r *room, reason string) {
	m.bc.EmitToRoom(r.id, model.EventRoomClosed, RoomClosed{RoomID: r.id, Reason: reason})
	for _, s := range m.sessions {
		if s.CurrentRoom == r.id {
			s.CurrentRoom = model.EmptyRoomID
			s.IsViewer = false
			m.bc.Leave(s.ConnID, r.id)
		}
	}
	m.deleteRoomLocked(r)
}

func (m *Manager) deleteRoomLocked(r *room) {
	r.stopGrace()
	if r.game != nil {
		r.game.Stop()
		r.game = nil
	}
	r.status = model.StatusFinished
	delete(m.rooms, r.id)
	m.logger.Info("room deleted", "room_id", r.id)
}

func (m *Manager) SetReady(connID string, ready bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, r, err := m.roomOfLocked(connID)
	if err != nil {
		return err
	}
	p := r.playerByConn(connID)
	if s.IsViewer || p == nil {
		return ErrNotAPlayer
	}
	if r.status != model.StatusWaiting {
		return ErrRoomNotAvailable
	}

	p.IsReady = ready
	m.bc.EmitToRoom(r.id, model.EventPlayerReady, PlayerReady{Username: p.Username, IsReady: ready})

	if len(r.players) == maxPlayers && r.players[0].IsReady && r.players[1].IsReady {
		m.startGameLocked(r)
	}
	m.broadcastRoomsLocked()
	return nil
}

func (m *Manager) startGameLocked(r *room) {
	p1, p2 := r.players[0], r.players[1]
	roomID := r.id

	r.status = model.StatusPlaying
	r.game = m.newGame(roomID,
		usecase_game.Player{UserID: p1.UserID, Username: p1.Username},
		usecase_game.Player{UserID: p2.UserID, Username: p2.Username},
		func(res usecase_game.Result) { m.onGameOver(roomID, res) },
	)
	r.game.Start()
	r.game.TogglePause(len(r.viewers) > 0)

	m.bc.EmitToRoom(roomID, model.EventGameStarted, GameStarted{
		RoomID:  roomID,
		Players: []model.Player{*p1, *p2},
	})
	m.logger.Info("game started", "room_id", roomID, "viewers", len(r.viewers))
}

func (m *Manager) onGameOver(roomID model.RoomID, res usecase_game.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rooms[roomID]
	if !ok || r.status != model.StatusPlaying {
		return
	}
	r.status = model.StatusGameOver
	m.logger.Info("room game over", "room_id", roomID, "winner_id", res.WinnerID)
	m.broadcastRoomsLocked()
}

func (m *Manager) HandleCommand(connID string, cmd model.Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, r, err := m.roomOfLocked(connID)
	if err != nil {
		return err
	}
	if s.IsViewer || r.playerByConn(connID) == nil {
		return ErrNotAPlayer
	}
	if r.game == nil || r.status != model.StatusPlaying {
		return ErrGameNotActive
	}
	r.game.HandlePlayerCommand(s.UserID, cmd)
	return nil
}

func (m *Manager) Chat(connID string, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrInvalidPayload
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	s, r, err := m.roomOfLocked(connID)
	if err != nil {
		return err
	}
	m.bc.EmitToRoom(r.id, model.EventChatMessage, ChatMessage{
		Username:  s.Username,
		Message:   message,
		Timestamp: m.now().UnixMilli(),
	})
	return nil
}

// Rooms returns the live room catalog ordered by id.
func (m *Manager) Rooms() []model.RoomSummary {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.catalogLocked()
}

// Session returns a copy of the connection's session.
func (m *Manager) Session(connID string) (model.Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[connID]
	if !ok {
		return model.Session{}, false
	}
	return *s, true
}

// Shutdown stops every running game and pending grace timer.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, r := range m.rooms {
		r.stopGrace()
		if r.game != nil {
			r.game.Stop()
		}
	}
	m.logger.Info("room manager stopped", "rooms", len(m.rooms))
}

func (m *Manager) freeSessionLocked(connID string) (*model.Session, error) {
	s, ok := m.sessions[connID]
	if !ok {
		return nil, ErrNotAuthenticated
	}
	if s.CurrentRoom != model.EmptyRoomID {
		return nil, ErrAlreadyInRoom
	}
	return s, nil
}

func (m *Manager) roomOfLocked(connID string) (*model.Session, *room, error) {
	s, ok := m.sessions[connID]
	if !ok {
		return nil, nil, ErrNotAuthenticated
	}
	if s.CurrentRoom == model.EmptyRoomID {
		return nil, nil, ErrNotInRoom
	}
	r, ok := m.rooms[s.CurrentRoom]
	if !ok {
		return nil, nil, ErrRoomNotFound
	}
	return s, r, nil
}

func (m *Manager) broadcastRoomsLocked() {
	m.bc.BroadcastAll(model.EventRoomsList, m.catalogLocked())
}

func (m *Manager) catalogLocked() []model.RoomSummary {
	rooms := make([]model.RoomSummary, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r.summary())
	}
	sort.Slice(rooms, func(i, j int) bool {
		return rooms[i].ID < rooms[j].ID
	})
	return rooms
}

func (r *room) data() model.RoomData {
	d := model.RoomData{
		ID:      r.id,
		Name:    r.name,
		Status:  r.status,
		Players: make([]model.Player, 0, len(r.players)),
		Viewers: make([]model.Viewer, 0, len(r.viewers)),
	}
	for _, p := range r.players {
		d.Players = append(d.Players, *p)
	}
	for _, v := range r.viewers {
		d.Viewers = append(d.Viewers, *v)
	}
	return d
}

func (r *room) summary() model.RoomSummary {
	s := model.RoomSummary{
		ID:           r.id,
		Name:         r.name,
		Status:       r.status,
		PlayersCount: len(r.players),
		ViewersCount: len(r.viewers),
		Players:      make([]model.PlayerSummary, 0, len(r.players)),
	}
	for _, p := range r.players {
		s.Players = append(s.Players, model.PlayerSummary{Username: p.Username, IsReady: p.IsReady})
	}
	return s
}

func (r *room) playerByConn(connID string) *model.Player {
	for _, p := range r.players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (r *room) playerByUser(userID model.UserID) *model.Player {
	for _, p := range r.players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

func (r *room) allConnected() bool {
	for _, p := range r.players {
		if !p.Connected {
			return false
		}
	}
	return true
}

func (r *room) removePlayer(connID string) {
	for i, p := range r.players {
		if p.ConnID == connID {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return
		}
	}
}

func (r *room) removeViewer(connID string) {
	for i, v := range r.viewers {
		if v.ConnID == connID {
			r.viewers = append(r.viewers[:i], r.viewers[i+1:]...)
			return
		}
	}
}

func (r *room) stopGrace() {
	if r.grace != nil {
		r.grace.Stop()
		r.grace = nil
	}
	r.graceSeq++
}
