package ws_room

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/humanbelnik/columns/core/internal/model"
	usecase_account "github.com/humanbelnik/columns/core/internal/usecase/account"
	usecase_room "github.com/humanbelnik/columns/core/internal/usecase/room"
)

const (
	CodeServerNotReady   = "SERVER_NOT_READY"
	CodeInvalidPayload   = "INVALID_PAYLOAD"
	CodeInvalidCommand   = "INVALID_COMMAND"
	CodeNotAuthenticated = "NOT_AUTHENTICATED"
	CodeRoomNotFound     = "ROOM_NOT_FOUND"
	CodeRoomFull         = "ROOM_FULL"
	CodeRoomNotAvailable = "ROOM_NOT_AVAILABLE"
	CodeNotInRoom        = "NOT_IN_ROOM"
	CodeNotAPlayer       = "NOT_A_PLAYER"
	CodeAlreadyInRoom    = "ALREADY_IN_ROOM"
	CodeGameNotActive    = "GAME_NOT_ACTIVE"
	CodeUnknownEvent     = "UNKNOWN_EVENT"
	CodeInternal         = "INTERNAL"
)

const defaultOpTimeout = 5 * time.Second

var (
	errServerNotReady = errors.New("server is initializing, try again shortly")
	errUnknownEvent   = errors.New("unknown event")
	errInvalidCommand = errors.New("invalid command")
)

// RoomManager is the session and room registry the dispatcher drives.
type RoomManager interface {
	Authenticate(connID string, userID model.UserID, username string)
	Disconnect(connID string)
	CreateRoom(ctx context.Context, connID string, name string) (model.RoomData, error)
	JoinAsPlayer(ctx context.Context, connID string, roomID model.RoomID) (model.RoomData, error)
	JoinAsViewer(connID string, roomID model.RoomID) (model.RoomData, error)
	Leave(connID string, roomID model.RoomID) error
	SetReady(connID string, ready bool) error
	HandleCommand(connID string, cmd model.Command) error
	Chat(connID string, message string) error
	Rooms() []model.RoomSummary
	Session(connID string) (model.Session, bool)
}

type TokenResolver interface {
	ResolveToken(token string) (usecase_account.Identity, error)
}

type ErrorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type Authenticated struct {
	Status   string       `json:"status"`
	Message  string       `json:"message"`
	UserID   model.UserID `json:"userId"`
	Username string       `json:"username"`
}

type RoomReply struct {
	Status   string          `json:"status"`
	RoomID   model.RoomID    `json:"roomId,omitempty"`
	RoomData *model.RoomData `json:"roomData,omitempty"`
	Message  string          `json:"message,omitempty"`
	Code     string          `json:"code,omitempty"`
}

type StatusReply struct {
	Status string `json:"status"`
}

// Dispatcher routes inbound events to the room manager and answers the
// sender. Until a manager is installed every event is refused with
// SERVER_NOT_READY.
type Dispatcher struct {
	hub    *Hub
	tokens TokenResolver

	opTimeout time.Duration
	logger    *slog.Logger

	mu      sync.RWMutex
	manager RoomManager
}

type DispatcherOption func(*Dispatcher)

func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithOpTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		d.opTimeout = timeout
	}
}

// NewDispatcher builds a dispatcher. tokens may be nil, then authenticate
// trusts the identity sent by the client.
func NewDispatcher(hub *Hub, tokens TokenResolver, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		hub:       hub,
		tokens:    tokens,
		opTimeout: defaultOpTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) SetManager(m RoomManager) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.manager = m
}

func (d *Dispatcher) Ready() bool {
	return d.current() != nil
}

func (d *Dispatcher) current() RoomManager {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.manager
}

func (d *Dispatcher) Disconnect(connID string) {
	if m := d.current(); m != nil {
		m.Disconnect(connID)
	}
}

// Handle processes one inbound event. Panics are logged and reported to the
// sender as INTERNAL.
func (d *Dispatcher) Handle(connID string, env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("event handler panic",
				"conn_id", connID,
				"event", env.Event,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			d.replyError(connID, ErrorPayload{Message: "internal error", Code: CodeInternal})
		}
	}()

	m := d.current()
	if m == nil {
		d.replyError(connID, ErrorPayload{Message: errServerNotReady.Error(), Code: CodeServerNotReady})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.opTimeout)
	defer cancel()

	var err error
	switch env.Event {
	case model.EventAuthenticate:
		err = d.authenticate(m, connID, env.Data)
	case model.EventCreateRoom:
		d.createRoom(ctx, m, connID, env.Data)
	case model.EventJoinRoomAsPlayer:
		d.joinRoom(connID, env.Data, func(roomID model.RoomID) (model.RoomData, error) {
			return m.JoinAsPlayer(ctx, connID, roomID)
		})
	case model.EventJoinRoomAsViewer:
		d.joinRoom(connID, env.Data, func(roomID model.RoomID) (model.RoomData, error) {
			return m.JoinAsViewer(connID, roomID)
		})
	case model.EventLeaveRoom:
		err = d.leaveRoom(m, connID, env.Data)
	case model.EventGetRooms:
		d.hub.EmitTo(connID, model.EventRoomsList, m.Rooms())
	case model.EventSetReady:
		var p setReadyPayload
		if err = decode(env.Data, &p); err == nil {
			err = m.SetReady(connID, p.IsReady)
		}
	case model.EventGameCommand:
		err = d.gameCommand(m, connID, env.Data)
	case model.EventChatMessage:
		var p chatPayload
		if err = decode(env.Data, &p); err == nil {
			err = m.Chat(connID, p.Message)
		}
	default:
		err = errUnknownEvent
	}

	if err != nil {
		d.logger.Debug("event rejected", "conn_id", connID, "event", env.Event, "error", err)
		d.replyError(connID, errorPayload(err))
	}
}

type authenticatePayload struct {
	UserID   model.UserID `json:"userId"`
	Username string       `json:"username"`
	Token    string       `json:"token"`
}

type createRoomPayload struct {
	RoomName string `json:"roomName"`
}

type roomPayload struct {
	RoomID roomRef `json:"roomId"`
}

type setReadyPayload struct {
	IsReady bool `json:"isReady"`
}

type gameCommandPayload struct {
	Command string `json:"command"`
}

type chatPayload struct {
	Message string `json:"message"`
}

// roomRef accepts a room id sent either as a number or as a numeric string.
type roomRef model.RoomID

func (r *roomRef) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*r = 0
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*r = roomRef(id)
	return nil
}

func decode(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return usecase_room.ErrInvalidPayload
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Join(usecase_room.ErrInvalidPayload, err)
	}
	return nil
}

func (d *Dispatcher) authenticate(m RoomManager, connID string, data json.RawMessage) error {
	var p authenticatePayload
	if err := decode(data, &p); err != nil {
		return err
	}

	if p.Token != "" && d.tokens != nil {
		identity, err := d.tokens.ResolveToken(p.Token)
		if err != nil {
			return err
		}
		p.UserID, p.Username = identity.UserID, identity.Username
	}
	p.Username = strings.TrimSpace(p.Username)
	if p.UserID <= 0 || p.Username == "" {
		return usecase_room.ErrInvalidPayload
	}

	m.Authenticate(connID, p.UserID, p.Username)
	d.hub.EmitTo(connID, model.EventAuthenticated, Authenticated{
		Status:   model.StatusSuccess,
		Message:  "Authenticated successfully",
		UserID:   p.UserID,
		Username: p.Username,
	})
	d.hub.EmitTo(connID, model.EventRoomsList, m.Rooms())
	return nil
}

func (d *Dispatcher) createRoom(ctx context.Context, m RoomManager, connID string, data json.RawMessage) {
	var p createRoomPayload
	err := decode(data, &p)
	var room model.RoomData
	if err == nil {
		room, err = m.CreateRoom(ctx, connID, p.RoomName)
	}
	if err != nil {
		d.logger.Debug("create room rejected", "conn_id", connID, "error", err)
		d.hub.EmitTo(connID, model.EventRoomCreated, roomError(err))
		return
	}
	d.hub.EmitTo(connID, model.EventRoomCreated, RoomReply{
		Status:   model.StatusSuccess,
		RoomID:   room.ID,
		RoomData: &room,
	})
}

func (d *Dispatcher) joinRoom(connID string, data json.RawMessage, join func(model.RoomID) (model.RoomData, error)) {
	var p roomPayload
	err := decode(data, &p)
	if err == nil && p.RoomID <= 0 {
		err = usecase_room.ErrInvalidPayload
	}
	var room model.RoomData
	if err == nil {
		room, err = join(model.RoomID(p.RoomID))
	}
	if err != nil {
		d.logger.Debug("join rejected", "conn_id", connID, "error", err)
		d.hub.EmitTo(connID, model.EventRoomJoined, roomError(err))
		return
	}
	d.hub.EmitTo(connID, model.EventRoomJoined, RoomReply{
		Status:   model.StatusSuccess,
		RoomID:   room.ID,
		RoomData: &room,
	})
}

// leaveRoom defaults to the session's current room when no id is sent.
func (d *Dispatcher) leaveRoom(m RoomManager, connID string, data json.RawMessage) error {
	var p roomPayload
	if len(data) > 0 {
		if err := decode(data, &p); err != nil {
			return err
		}
	}
	roomID := model.RoomID(p.RoomID)
	if roomID == model.EmptyRoomID {
		s, ok := m.Session(connID)
		if !ok {
			return usecase_room.ErrNotAuthenticated
		}
		roomID = s.CurrentRoom
	}

	if err := m.Leave(connID, roomID); err != nil {
		return err
	}
	d.hub.EmitTo(connID, model.EventRoomLeft, StatusReply{Status: model.StatusSuccess})
	return nil
}

func (d *Dispatcher) gameCommand(m RoomManager, connID string, data json.RawMessage) error {
	var p gameCommandPayload
	if err := decode(data, &p); err != nil {
		return err
	}
	cmd, err := model.ParseCommand(p.Command)
	if err != nil {
		return errors.Join(errInvalidCommand, err)
	}
	return m.HandleCommand(connID, cmd)
}

func (d *Dispatcher) replyError(connID string, p ErrorPayload) {
	d.hub.EmitTo(connID, model.EventError, p)
}

func roomError(err error) RoomReply {
	p := errorPayload(err)
	return RoomReply{
		Status:  model.StatusError,
		Message: p.Message,
		Code:    p.Code,
	}
}

var errorCodes = []struct {
	err  error
	code string
}{
	{errInvalidCommand, CodeInvalidCommand},
	{errUnknownEvent, CodeUnknownEvent},
	{usecase_room.ErrInvalidPayload, CodeInvalidPayload},
	{usecase_room.ErrNotAuthenticated, CodeNotAuthenticated},
	{usecase_account.ErrInvalidToken, CodeNotAuthenticated},
	{usecase_room.ErrRoomNotFound, CodeRoomNotFound},
	{usecase_room.ErrRoomFull, CodeRoomFull},
	{usecase_room.ErrRoomNotAvailable, CodeRoomNotAvailable},
	{usecase_room.ErrNotInRoom, CodeNotInRoom},
	{usecase_room.ErrNotAPlayer, CodeNotAPlayer},
	{usecase_room.ErrAlreadyInRoom, CodeAlreadyInRoom},
	{usecase_room.ErrGameNotActive, CodeGameNotActive},
}

func errorPayload(err error) ErrorPayload {
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return ErrorPayload{Message: e.err.Error(), Code: e.code}
		}
	}
	return ErrorPayload{Message: "internal error", Code: CodeInternal}
}
