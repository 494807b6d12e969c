package model

// Inbound events.
const (
	EventAuthenticate     = "authenticate"
	EventCreateRoom       = "createRoom"
	EventJoinRoomAsPlayer = "joinRoomAsPlayer"
	EventJoinRoomAsViewer = "joinRoomAsViewer"
	EventLeaveRoom        = "leaveRoom"
	EventGetRooms         = "getRooms"
	EventSetReady         = "setReady"
	EventGameCommand      = "gameCommand"
	EventChatMessage      = "chatMessage"
)

// Outbound events.
const (
	EventAuthenticated = "authenticated"
	EventRoomsList     = "roomsList"
	EventRoomCreated   = "roomCreated"
	EventRoomJoined    = "roomJoined"
	EventRoomLeft      = "roomLeft"
	EventRoomClosed    = "roomClosed"
	EventPlayerJoined  = "playerJoined"
	EventPlayerReady   = "playerReady"
	EventViewerJoined  = "viewerJoined"
	EventUserLeft      = "userLeft"
	EventGameStarted   = "gameStarted"
	EventGameInit      = "gameInit"
	EventGameState     = "gameState"
	EventGamePaused    = "gamePaused"
	EventGameResumed   = "gameResumed"
	EventGameOver      = "gameOver"
	EventError         = "error"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)
