package usecase_game

import (
	"github.com/humanbelnik/columns/core/internal/game"
	"github.com/humanbelnik/columns/core/internal/model"
)

type GridConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type InitPlayer struct {
	UserID   model.UserID `json:"userId"`
	Username string       `json:"username"`
}

type GameInit struct {
	RoomID     model.RoomID `json:"roomId"`
	GridConfig GridConfig   `json:"gridConfig"`
	Players    []InitPlayer `json:"players"`
}

type PlayerState struct {
	PlayerID     model.UserID `json:"playerId"`
	Username     string       `json:"username"`
	Score        int          `json:"score"`
	Grid         []game.Node  `json:"grid"`
	CurrentPiece []game.Node  `json:"currentPiece"`
}

type GameState struct {
	RoomID    model.RoomID  `json:"roomId"`
	State     State         `json:"state"`
	IsPaused  bool          `json:"isPaused"`
	TickRate  int64         `json:"tickRate"`
	Timestamp int64         `json:"timestamp"`
	Players   []PlayerState `json:"players"`
}

type GameOver struct {
	WinnerID model.UserID   `json:"winnerId"`
	LoserID  model.UserID   `json:"loserId"`
	Scores   map[string]int `json:"scores"`
}

type GamePaused struct {
	Reason string `json:"reason"`
}
