package game

import (
	"fmt"
	"log/slog"
	"strings"
)

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Node is the wire form of a single cell.
type Node struct {
	X    int       `json:"x"`
	Y    int       `json:"y"`
	Type JewelType `json:"type"`
}

type Grid struct {
	PlayerID   int64
	PlayerName string

	cells  [Width][Height]JewelType
	logger *slog.Logger
}

type GridOption func(*Grid)

func WithGridLogger(logger *slog.Logger) GridOption {
	return func(g *Grid) {
		g.logger = logger
	}
}

func NewGrid(playerID int64, playerName string, opts ...GridOption) *Grid {
	g := &Grid{
		PlayerID:   playerID,
		PlayerName: playerName,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Grid) IsValidPosition(x, y int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height
}

func (g *Grid) Cell(x, y int) JewelType {
	if !g.IsValidPosition(x, y) {
		return None
	}
	return g.cells[x][y]
}

func (g *Grid) SetCell(x, y int, t JewelType) bool {
	if !g.IsValidPosition(x, y) {
		return false
	}
	g.cells[x][y] = t
	return true
}

func (g *Grid) IsEmpty(x, y int) bool {
	return g.Cell(x, y) == None
}

func (g *Grid) IsColumnFull(x int) bool {
	return !g.IsEmpty(x, DeathRow)
}

// LowestEmptyRow returns NoEmptyRow when the column has no empty cell.
func (g *Grid) LowestEmptyRow(x int) int {
	for y := 0; y < Height; y++ {
		if g.IsEmpty(x, y) {
			return y
		}
	}
	return NoEmptyRow
}

// ApplyGravity drops every jewel with an empty cell directly below it by one
// row. It reports whether anything moved.
func (g *Grid) ApplyGravity() bool {
	moved := false
	for x := 0; x < Width; x++ {
		for y := 1; y < Height; y++ {
			if g.cells[x][y] != None && g.cells[x][y-1] == None {
				g.cells[x][y-1] = g.cells[x][y]
				g.cells[x][y] = None
				moved = true
			}
		}
	}
	return moved
}

// ApplyGravityUntilStable returns the number of passes that moved something.
func (g *Grid) ApplyGravityUntilStable() int {
	passes := 0
	for g.ApplyGravity() {
		passes++
		if passes >= maxGravityPasses {
			g.logger.Warn("gravity did not stabilize",
				"player_id", g.PlayerID,
				"passes", passes,
				"grid", g.String())
			break
		}
	}
	return passes
}

func (g *Grid) PlacePieceInColumn(column int, jewels [PieceSize]JewelType) bool {
	startY := g.LowestEmptyRow(column)
	if startY == NoEmptyRow || startY+PieceSize-1 >= Height {
		return false
	}
	for i, j := range jewels {
		g.SetCell(column, startY+i, j)
	}
	return true
}

func (g *Grid) RemoveJewels(positions []Position) {
	for _, p := range positions {
		g.SetCell(p.X, p.Y, None)
	}
}

// Nodes returns every cell, column by column, rows ascending.
func (g *Grid) Nodes() []Node {
	nodes := make([]Node, 0, Width*Height)
	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			nodes = append(nodes, Node{X: x, Y: y, Type: g.cells[x][y]})
		}
	}
	return nodes
}

// ChangedNodes lists cells that differ from prev. A nil prev is treated as an
// empty board.
func (g *Grid) ChangedNodes(prev *Grid) []Node {
	var changed []Node
	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			before := None
			if prev != nil {
				before = prev.cells[x][y]
			}
			if g.cells[x][y] != before {
				changed = append(changed, Node{X: x, Y: y, Type: g.cells[x][y]})
			}
		}
	}
	return changed
}

func (g *Grid) Clone() *Grid {
	c := *g
	return &c
}

func (g *Grid) String() string {
	var b strings.Builder
	for y := Height - 1; y >= 0; y-- {
		fmt.Fprintf(&b, "%02d |", y)
		for x := 0; x < Width; x++ {
			if g.cells[x][y] == None {
				b.WriteString(" . ")
			} else {
				fmt.Fprintf(&b, " %d ", g.cells[x][y])
			}
		}
		b.WriteString("|\n")
	}
	b.WriteString("   +" + strings.Repeat("---", Width) + "+\n")
	b.WriteString("    ")
	for x := 0; x < Width; x++ {
		fmt.Fprintf(&b, " %d ", x)
	}
	b.WriteString("\n")
	return b.String()
}
