package game

import "time"

type JewelType int

const (
	None JewelType = iota
	Red
	Green
	Blue
	Yellow
	Orange
	Purple
	Shiny
)

var jewelNames = [...]string{"None", "Red", "Green", "Blue", "Yellow", "Orange", "Purple", "Shiny"}

func (j JewelType) String() string {
	if j < None || int(j) >= len(jewelNames) {
		return "Unknown"
	}
	return jewelNames[j]
}

// Grid geometry. Row 0 is the bottom of the board.
const (
	Width     = 6
	Height    = 13
	SpawnRow  = 12
	DeathRow  = 12
	PieceSize = 3

	NoEmptyRow = -1
)

// Playable colors a new piece is drawn from. None and Shiny never spawn.
var SpawnColors = [...]JewelType{Red, Green, Blue, Yellow, Orange, Purple}

const (
	InitialTickRate  = 1000 * time.Millisecond
	MinTickRate      = 200 * time.Millisecond
	SpeedUpAmount    = 50 * time.Millisecond
	SpeedUpThreshold = 100

	MinMatchSize    = 3
	MultiMatchBonus = 25
	ComboStep       = 0.5

	maxGravityPasses = 20
)

const (
	DirLeft  = -1
	DirRight = 1
)
