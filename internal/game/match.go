package game

type Match struct {
	JewelType JewelType  `json:"jewelType"`
	Positions []Position `json:"positions"`
	Size      int        `json:"size"`
}

type MatchResult struct {
	MatchesFound       bool       `json:"matchesFound"`
	MatchCount         int        `json:"matchCount"`
	TotalJewelsRemoved int        `json:"totalJewelsRemoved"`
	Points             int        `json:"points"`
	RemovedPositions   []Position `json:"removedPositions"`
	Matches            []Match    `json:"matches"`
}

// FindMatches returns every 4-connected group of at least MinMatchSize
// jewels of the same type. Each cell is visited once per call.
func FindMatches(g *Grid) []Match {
	var (
		matches []Match
		visited [Width][Height]bool
	)

	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			t := g.Cell(x, y)
			if t == None || visited[x][y] {
				continue
			}
			group := connectedGroup(g, x, y, t, &visited)
			if len(group) >= MinMatchSize {
				matches = append(matches, Match{
					JewelType: t,
					Positions: group,
					Size:      len(group),
				})
			}
		}
	}
	return matches
}

// connectedGroup flood-fills from (startX, startY). Only cells of type t are
// marked visited; neighbors of another type stay available to later scans.
func connectedGroup(g *Grid, startX, startY int, t JewelType, visited *[Width][Height]bool) []Position {
	var group []Position
	queue := []Position{{X: startX, Y: startY}}
	visited[startX][startY] = true

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		group = append(group, p)

		for _, n := range [...]Position{
			{X: p.X - 1, Y: p.Y},
			{X: p.X + 1, Y: p.Y},
			{X: p.X, Y: p.Y - 1},
			{X: p.X, Y: p.Y + 1},
		} {
			if !g.IsValidPosition(n.X, n.Y) || visited[n.X][n.Y] || g.Cell(n.X, n.Y) != t {
				continue
			}
			visited[n.X][n.Y] = true
			queue = append(queue, n)
		}
	}
	return group
}

// ProcessMatches clears all matched jewels in a single pass. It never applies
// gravity.
func ProcessMatches(g *Grid) MatchResult {
	matches := FindMatches(g)
	if len(matches) == 0 {
		return MatchResult{}
	}

	var (
		positions []Position
		total     int
	)
	for _, m := range matches {
		positions = append(positions, m.Positions...)
		total += m.Size
	}
	g.RemoveJewels(positions)

	return MatchResult{
		MatchesFound:       true,
		MatchCount:         len(matches),
		TotalJewelsRemoved: total,
		Points:             CalculatePoints(matches),
		RemovedPositions:   positions,
		Matches:            matches,
	}
}

func CalculatePoints(matches []Match) int {
	total := 0
	for _, m := range matches {
		total += pointsForSize(m.Size)
	}
	if len(matches) > 1 {
		total += MultiMatchBonus * (len(matches) - 1)
	}
	return total
}

func pointsForSize(size int) int {
	switch {
	case size >= 7:
		return 80
	case size == 6:
		return 60
	case size == 5:
		return 40
	case size == 4:
		return 20
	case size == 3:
		return 10
	default:
		return 0
	}
}

// ComboPoints applies the cascade multiplier for the given combo level
// (1-based) and truncates toward zero.
func ComboPoints(points, combo int) int {
	return int(float64(points) * (1 + float64(combo)*ComboStep))
}
