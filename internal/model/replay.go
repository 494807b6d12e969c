package model

import (
	"encoding/json"
	"time"
)

type ReplayID = int64

type HistoryEvent struct {
	Type      string `json:"type"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// GameplayData is the event log stored with a replay.
type GameplayData struct {
	History     []HistoryEvent `json:"history"`
	FinalScores map[string]int `json:"finalScores"`
	DurationMs  int64          `json:"duration"`
}

type Replay struct {
	ID              ReplayID        `json:"id" db:"id"`
	RoomID          RoomID          `json:"roomId" db:"room_id"`
	Player1ID       UserID          `json:"player1Id" db:"player1_id"`
	Player2ID       UserID          `json:"player2Id" db:"player2_id"`
	WinnerID        UserID          `json:"winnerId" db:"winner_id"`
	GameplayData    json.RawMessage `json:"gameplayData,omitempty" db:"gameplay_data"`
	DurationSeconds int             `json:"durationSeconds" db:"duration_seconds"`
	ArchiveKey      string          `json:"archiveKey,omitempty" db:"archive_key"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

type ReplaySummary struct {
	ID              ReplayID  `json:"id" db:"id"`
	RoomID          RoomID    `json:"roomId" db:"room_id"`
	Player1Name     string    `json:"player1" db:"player1_name"`
	Player2Name     string    `json:"player2" db:"player2_name"`
	WinnerName      string    `json:"winner" db:"winner_name"`
	DurationSeconds int       `json:"durationSeconds" db:"duration_seconds"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}
