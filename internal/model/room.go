package model

type RoomID = int64

type UserID = int64

const EmptyRoomID RoomID = 0

type RoomStatus string

const (
	StatusWaiting  RoomStatus = "waiting"
	StatusPlaying  RoomStatus = "playing"
	StatusGameOver RoomStatus = "gameOver"
	StatusFinished RoomStatus = "finished"
)

type Player struct {
	ConnID    string `json:"socketId"`
	UserID    UserID `json:"userId"`
	Username  string `json:"username"`
	IsReady   bool   `json:"isReady"`
	Connected bool   `json:"connected"`
}

type Viewer struct {
	ConnID   string `json:"socketId"`
	UserID   UserID `json:"userId"`
	Username string `json:"username"`
}

// RoomData is the full room view sent with roomCreated, roomJoined and
// membership events.
type RoomData struct {
	ID      RoomID     `json:"id"`
	Name    string     `json:"name"`
	Status  RoomStatus `json:"status"`
	Players []Player   `json:"players"`
	Viewers []Viewer   `json:"viewers"`
}

type PlayerSummary struct {
	Username string `json:"username"`
	IsReady  bool   `json:"isReady"`
}

// RoomSummary is one entry of the roomsList catalog.
type RoomSummary struct {
	ID           RoomID          `json:"id"`
	Name         string          `json:"name"`
	Status       RoomStatus      `json:"status"`
	PlayersCount int             `json:"playersCount"`
	ViewersCount int             `json:"viewersCount"`
	Players      []PlayerSummary `json:"players"`
}

// StoredRoom is a row of the persistent room catalog.
type StoredRoom struct {
	ID        RoomID  `json:"id" db:"id"`
	Name      string  `json:"name" db:"name"`
	Status    string  `json:"status" db:"status"`
	Player1ID UserID  `json:"player1Id" db:"player1_id"`
	Player2ID *UserID `json:"player2Id,omitempty" db:"player2_id"`
	Player1   string  `json:"player1" db:"player1_name"`
}
