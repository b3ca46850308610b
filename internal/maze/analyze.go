package maze

import "github.com/zyedidia/generic/queue"

// Stats summarises a grid.
type Stats struct {
	Cells       int `json:"cells" yaml:"cells"`
	Passages    int `json:"passages" yaml:"passages"` // open interior edges
	DeadEnds    int `json:"dead_ends" yaml:"dead_ends"`
	PortalPairs int `json:"portal_pairs" yaml:"portal_pairs"`
	// Components counts regions connected through open walls alone.
	Components int `json:"components" yaml:"components"`
}

// Analyze computes Stats for g.
func Analyze(g *Grid) Stats {
	s := Stats{
		Cells:       g.Width * g.Height,
		PortalPairs: len(g.Portals()),
	}

	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := Coord{X: x, Y: y}
			cell := g.At(c)
			if cell.IsDeadEnd() && !g.IsEndpoint(c) {
				s.DeadEnds++
			}
			if x+1 < g.Width && !cell.Walls[East] {
				s.Passages++
			}
			if y+1 < g.Height && !cell.Walls[South] {
				s.Passages++
			}
		}
	}

	seen := make([]bool, s.Cells)
	for i := range seen {
		if seen[i] {
			continue
		}
		s.Components++
		for j, ok := range Reachable(g, g.coord(i)) {
			if ok {
				seen[j] = true
			}
		}
	}
	return s
}

// Reachable floods g from start through open walls only, ignoring portals.
// The result is indexed y*Width+x.
func Reachable(g *Grid, start Coord) []bool {
	reached := make([]bool, g.Width*g.Height)
	if !g.InBounds(start.X, start.Y) {
		return reached
	}

	reached[g.index(start)] = true
	q := queue.New[Coord]()
	q.Enqueue(start)
	for !q.Empty() {
		c := q.Dequeue()
		for _, d := range Directions {
			if g.At(c).Walls[d] {
				continue
			}
			next := c.Step(d)
			if !g.InBounds(next.X, next.Y) || reached[g.index(next)] {
				continue
			}
			reached[g.index(next)] = true
			q.Enqueue(next)
		}
	}
	return reached
}

// Connected reports whether b can be reached from a without portals.
func Connected(g *Grid, a, b Coord) bool {
	if !g.InBounds(b.X, b.Y) {
		return false
	}
	return Reachable(g, a)[g.index(b)]
}
