package model

import "time"

type User struct {
	ID           UserID    `db:"id"`
	Username     string    `db:"username"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Session is the identity bound to a websocket connection.
type Session struct {
	ConnID      string
	UserID      UserID
	Username    string
	CurrentRoom RoomID
	IsViewer    bool
}
