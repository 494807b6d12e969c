package game

// Rand is the subset of *math/rand.Rand used to draw piece colors.
type Rand interface {
	Intn(n int) int
}

type Piece struct {
	// Jewels are ordered bottom to top.
	Jewels [PieceSize]JewelType
	X      int
	Y      int
}

func NewPiece(r Rand) *Piece {
	p := &Piece{
		X: Width / 2,
		Y: SpawnRow - 2,
	}
	for i := range p.Jewels {
		p.Jewels[i] = SpawnColors[r.Intn(len(SpawnColors))]
	}
	return p
}

// Rotate moves the top jewel to the bottom.
func (p *Piece) Rotate() {
	top := p.Jewels[PieceSize-1]
	copy(p.Jewels[1:], p.Jewels[:PieceSize-1])
	p.Jewels[0] = top
}

func (p *Piece) Move(dir int) {
	p.X += dir
}

func (p *Piece) MoveDown() {
	p.Y--
}

func (p *Piece) CanMove(g *Grid, dir int) bool {
	x := p.X + dir
	if x < 0 || x >= Width {
		return false
	}
	for i := 0; i < PieceSize; i++ {
		if !g.IsEmpty(x, p.Y+i) {
			return false
		}
	}
	return true
}

func (p *Piece) CanMoveDown(g *Grid) bool {
	y := p.Y - 1
	if y < 0 {
		return false
	}
	return g.IsEmpty(p.X, y)
}

func (p *Piece) PlaceInGrid(g *Grid) {
	for i, j := range p.Jewels {
		g.SetCell(p.X, p.Y+i, j)
	}
}

func (p *Piece) Positions() []Node {
	nodes := make([]Node, 0, PieceSize)
	for i, j := range p.Jewels {
		nodes = append(nodes, Node{X: p.X, Y: p.Y + i, Type: j})
	}
	return nodes
}

func (p *Piece) IsValidSpawn(g *Grid) bool {
	for i := 0; i < PieceSize; i++ {
		if !g.IsEmpty(p.X, p.Y+i) {
			return false
		}
	}
	return true
}
