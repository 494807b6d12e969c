package usecase_room

import "github.com/humanbelnik/columns/core/internal/model"

type PlayerJoined struct {
	Player   model.Player   `json:"player"`
	RoomData model.RoomData `json:"roomData"`
}

type PlayerReady struct {
	Username string `json:"username"`
	IsReady  bool   `json:"isReady"`
}

type ViewerJoined struct {
	Viewer       model.Viewer `json:"viewer"`
	ViewersCount int          `json:"viewersCount"`
}

type UserLeft struct {
	Username string         `json:"username"`
	RoomData model.RoomData `json:"roomData"`
}

type RoomClosed struct {
	RoomID model.RoomID `json:"roomId"`
	Reason string       `json:"reason"`
}

type GameStarted struct {
	RoomID  model.RoomID   `json:"roomId"`
	Players []model.Player `json:"players"`
}

type ChatMessage struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}
