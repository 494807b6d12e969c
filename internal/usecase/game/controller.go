package usecase_game

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/humanbelnik/columns/core/internal/game"
	"github.com/humanbelnik/columns/core/internal/model"
)

type State string

const (
	StateStarting State = "starting"
	StatePlaying  State = "playing"
	StateGameOver State = "gameOver"
	StateFinished State = "finished"
)

const (
	pausedReason       = "No viewers connected"
	defaultSaveTimeout = 10 * time.Second
	inboxSize          = 64
)

//go:generate mockery --name=Emitter --output=./mocks --filename=emitter.go
type Emitter interface {
	EmitToRoom(roomID model.RoomID, event string, payload any)
	EmitTo(connID string, event string, payload any)
}

//go:generate mockery --name=ReplaySaver --output=./mocks --filename=replay_saver.go
type ReplaySaver interface {
	Save(ctx context.Context, r model.Replay) (model.ReplayID, error)
}

type Player struct {
	UserID   model.UserID
	Username string
}

// Result is handed to the game-over handler once a player tops out.
type Result struct {
	RoomID   model.RoomID
	WinnerID model.UserID
	LoserID  model.UserID
	Scores   map[model.UserID]int
}

type playerState struct {
	info  Player
	grid  *game.Grid
	piece *game.Piece
	score int
}

type messageKind int

const (
	msgCommand messageKind = iota
	msgPause
	msgInit
)

type message struct {
	kind       messageKind
	userID     model.UserID
	command    model.Command
	hasViewers bool
	connID     string
}

// Controller runs one room's simulation. All game state is owned by the
// goroutine started in Start; the exported methods only enqueue messages.
type Controller struct {
	roomID  model.RoomID
	players []*playerState

	state      State
	paused     bool
	hasViewers bool
	tickRate   time.Duration
	history    []model.HistoryEvent

	emitter     Emitter
	replays     ReplaySaver
	onGameOver  func(Result)
	rng         game.Rand
	now         func() time.Time
	saveTimeout time.Duration
	logger      *slog.Logger

	inbox    chan message
	ticker   *time.Ticker
	cancel   context.CancelFunc
	done     chan struct{}
	started  bool
	stopOnce sync.Once
}

type Option func(*Controller)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func WithReplaySaver(s ReplaySaver) Option {
	return func(c *Controller) {
		c.replays = s
	}
}

func WithGameOverHandler(fn func(Result)) Option {
	return func(c *Controller) {
		c.onGameOver = fn
	}
}

func WithRand(r game.Rand) Option {
	return func(c *Controller) {
		c.rng = r
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func WithSaveTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.saveTimeout = d
	}
}

func New(roomID model.RoomID, p1, p2 Player, emitter Emitter, opts ...Option) *Controller {
	c := &Controller{
		roomID:      roomID,
		state:       StateStarting,
		tickRate:    game.InitialTickRate,
		emitter:     emitter,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		now:         time.Now,
		saveTimeout: defaultSaveTimeout,
		logger:      slog.Default(),
		inbox:       make(chan message, inboxSize),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("room_id", roomID)

	for _, p := range []Player{p1, p2} {
		c.players = append(c.players, &playerState{
			info:  p,
			grid:  game.NewGrid(p.UserID, p.Username, game.WithGridLogger(c.logger)),
			piece: game.NewPiece(c.rng),
		})
	}

	c.logger.Info("game controller created",
		"player1", p1.Username,
		"player2", p2.Username)
	return c
}

// Start launches the room loop. Calling it more than once has no effect.
func (c *Controller) Start() {
	if c.started {
		return
	}
	c.started = true

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	go c.run(ctx)
}

// Stop finishes the game and cancels the loop permanently.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		if c.cancel != nil {
			c.cancel()
			return
		}
		c.state = StateFinished
		close(c.done)
	})
}

// Done is closed once the loop has exited.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) HandlePlayerCommand(userID model.UserID, cmd model.Command) {
	c.send(message{kind: msgCommand, userID: userID, command: cmd})
}

func (c *Controller) TogglePause(hasViewers bool) {
	c.send(message{kind: msgPause, hasViewers: hasViewers})
}

// SendInit sends gameInit to one connection followed by a room-wide snapshot.
func (c *Controller) SendInit(connID string) {
	c.send(message{kind: msgInit, connID: connID})
}

func (c *Controller) send(m message) {
	select {
	case c.inbox <- m:
	case <-c.done:
	}
}

func (c *Controller) run(ctx context.Context) {
	defer close(c.done)

	c.start()

	c.ticker = time.NewTicker(c.tickRate)
	defer c.ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.state = StateFinished
			c.logger.Info("game controller stopped")
			return
		case <-c.ticker.C:
			c.tick()
		case m := <-c.inbox:
			c.handle(m)
		}
	}
}

func (c *Controller) handle(m message) {
	switch m.kind {
	case msgCommand:
		c.applyCommand(m.userID, m.command)
	case msgPause:
		c.togglePause(m.hasViewers)
	case msgInit:
		c.sendInit(m.connID)
	}
}

func (c *Controller) start() {
	c.state = StatePlaying
	c.emitter.EmitToRoom(c.roomID, model.EventGameInit, c.initPayload())
	c.broadcastState()
	c.logEvent("game_started", nil)
	c.logger.Info("game started")
}

func (c *Controller) tick() {
	if c.state != StatePlaying || c.paused {
		return
	}
	for _, p := range c.players {
		c.movePieceDown(p)
		if c.state != StatePlaying {
			break
		}
	}
	c.broadcastState()
}

func (c *Controller) applyCommand(userID model.UserID, cmd model.Command) {
	if c.state != StatePlaying || c.paused {
		return
	}
	p := c.player(userID)
	if p == nil {
		c.logger.Warn("command from unknown player", "user_id", userID)
		return
	}

	switch cmd {
	case model.CommandMoveLeft:
		if p.piece.CanMove(p.grid, game.DirLeft) {
			p.piece.Move(game.DirLeft)
		}
	case model.CommandMoveRight:
		if p.piece.CanMove(p.grid, game.DirRight) {
			p.piece.Move(game.DirRight)
		}
	case model.CommandMoveDown:
		c.movePieceDown(p)
	case model.CommandRotate:
		p.piece.Rotate()
		if !p.piece.CanMoveDown(p.grid) {
			p.piece.Rotate()
			p.piece.Rotate()
		}
	case model.CommandFastDrop:
		c.fastDrop(p)
	default:
		c.logger.Warn("unknown command", "user_id", userID, "command", cmd)
		return
	}

	c.logEvent("player_command", map[string]any{
		"playerId": userID,
		"command":  cmd,
	})
	c.broadcastState()
}

func (c *Controller) movePieceDown(p *playerState) {
	if p.piece.CanMoveDown(p.grid) {
		p.piece.MoveDown()
		return
	}
	c.placePiece(p)
}

func (c *Controller) fastDrop(p *playerState) {
	for p.piece.CanMoveDown(p.grid) {
		p.piece.MoveDown()
	}
	c.placePiece(p)
}

func (c *Controller) placePiece(p *playerState) {
	before := p.grid.Clone()
	p.piece.PlaceInGrid(p.grid)
	c.resolveCascade(p)

	p.piece = game.NewPiece(c.rng)
	c.logEvent("piece_placed", map[string]any{
		"playerId": p.info.UserID,
		"changes":  p.grid.ChangedNodes(before),
	})

	if !p.piece.IsValidSpawn(p.grid) {
		c.gameOver(p)
	}
}

// resolveCascade repeats match, gravity and scoring until the grid is stable.
// Each level scores points * (1 + combo*0.5).
func (c *Controller) resolveCascade(p *playerState) {
	combo := 0
	for {
		res := game.ProcessMatches(p.grid)
		if !res.MatchesFound {
			return
		}
		combo++
		p.grid.ApplyGravityUntilStable()

		gained := game.ComboPoints(res.Points, combo)
		p.score += gained
		c.logEvent("matches_found", map[string]any{
			"playerId":   p.info.UserID,
			"matchCount": res.MatchCount,
			"points":     gained,
			"combo":      combo,
		})

		// Only exact multiples speed the game up; a cascade that jumps over a
		// threshold skips it.
		if p.score > 0 && p.score%game.SpeedUpThreshold == 0 {
			c.speedUp()
		}
	}
}

func (c *Controller) speedUp() {
	if c.tickRate <= game.MinTickRate {
		return
	}
	c.tickRate = max(c.tickRate-game.SpeedUpAmount, game.MinTickRate)
	if c.ticker != nil {
		c.ticker.Reset(c.tickRate)
	}
	c.logger.Info("game sped up", "tick_rate_ms", c.tickRate.Milliseconds())
}

func (c *Controller) gameOver(loser *playerState) {
	c.state = StateGameOver
	if c.ticker != nil {
		c.ticker.Stop()
	}

	var winner *playerState
	for _, p := range c.players {
		if p != loser {
			winner = p
		}
	}

	scores := c.scores()
	c.logEvent("game_over", map[string]any{
		"winnerId": winner.info.UserID,
		"loserId":  loser.info.UserID,
		"scores":   scores,
	})
	c.emitter.EmitToRoom(c.roomID, model.EventGameOver, GameOver{
		WinnerID: winner.info.UserID,
		LoserID:  loser.info.UserID,
		Scores:   scores,
	})
	c.logger.Info("game over",
		"winner_id", winner.info.UserID,
		"loser_id", loser.info.UserID)

	if replay, err := c.buildReplay(winner.info.UserID); err != nil {
		c.logger.Error("failed to build replay", "error", err)
	} else if c.replays != nil {
		go c.saveReplay(replay)
	}

	if c.onGameOver != nil {
		result := Result{
			RoomID:   c.roomID,
			WinnerID: winner.info.UserID,
			LoserID:  loser.info.UserID,
			Scores:   make(map[model.UserID]int, len(c.players)),
		}
		for _, p := range c.players {
			result.Scores[p.info.UserID] = p.score
		}
		go c.onGameOver(result)
	}
}

func (c *Controller) buildReplay(winnerID model.UserID) (model.Replay, error) {
	var duration time.Duration
	if len(c.history) > 0 {
		duration = c.now().Sub(time.UnixMilli(c.history[0].Timestamp))
	}

	data, err := json.Marshal(model.GameplayData{
		History:     c.history,
		FinalScores: c.scores(),
		DurationMs:  duration.Milliseconds(),
	})
	if err != nil {
		return model.Replay{}, err
	}

	return model.Replay{
		RoomID:          c.roomID,
		Player1ID:       c.players[0].info.UserID,
		Player2ID:       c.players[1].info.UserID,
		WinnerID:        winnerID,
		GameplayData:    data,
		DurationSeconds: int(duration.Seconds()),
	}, nil
}

func (c *Controller) saveReplay(r model.Replay) {
	ctx, cancel := context.WithTimeout(context.Background(), c.saveTimeout)
	defer cancel()

	id, err := c.replays.Save(ctx, r)
	if err != nil {
		c.logger.Error("failed to save replay", "error", err)
		return
	}
	c.logger.Info("replay saved", "replay_id", id)
}

func (c *Controller) togglePause(hasViewers bool) {
	c.hasViewers = hasViewers

	switch {
	case !hasViewers && !c.paused:
		c.paused = true
		c.logger.Info("game paused, no viewers")
		c.emitter.EmitToRoom(c.roomID, model.EventGamePaused, GamePaused{Reason: pausedReason})
	case hasViewers && c.paused:
		c.paused = false
		c.logger.Info("game resumed")
		c.emitter.EmitToRoom(c.roomID, model.EventGameResumed, nil)
	}
}

func (c *Controller) sendInit(connID string) {
	c.emitter.EmitTo(connID, model.EventGameInit, c.initPayload())
	c.broadcastState()
}

func (c *Controller) initPayload() GameInit {
	init := GameInit{
		RoomID:     c.roomID,
		GridConfig: GridConfig{Width: game.Width, Height: game.Height},
	}
	for _, p := range c.players {
		init.Players = append(init.Players, InitPlayer{
			UserID:   p.info.UserID,
			Username: p.info.Username,
		})
	}
	return init
}

func (c *Controller) broadcastState() {
	c.emitter.EmitToRoom(c.roomID, model.EventGameState, c.snapshot())
}

func (c *Controller) snapshot() GameState {
	s := GameState{
		RoomID:    c.roomID,
		State:     c.state,
		IsPaused:  c.paused,
		TickRate:  c.tickRate.Milliseconds(),
		Timestamp: c.now().UnixMilli(),
		Players:   make([]PlayerState, 0, len(c.players)),
	}
	for _, p := range c.players {
		s.Players = append(s.Players, PlayerState{
			PlayerID:     p.info.UserID,
			Username:     p.info.Username,
			Score:        p.score,
			Grid:         p.grid.Nodes(),
			CurrentPiece: p.piece.Positions(),
		})
	}
	return s
}

func (c *Controller) scores() map[string]int {
	scores := make(map[string]int, len(c.players))
	for _, p := range c.players {
		scores[strconv.FormatInt(p.info.UserID, 10)] = p.score
	}
	return scores
}

func (c *Controller) player(userID model.UserID) *playerState {
	for _, p := range c.players {
		if p.info.UserID == userID {
			return p
		}
	}
	return nil
}

func (c *Controller) logEvent(eventType string, data any) {
	c.history = append(c.history, model.HistoryEvent{
		Type:      eventType,
		Data:      data,
		Timestamp: c.now().UnixMilli(),
	})
}
