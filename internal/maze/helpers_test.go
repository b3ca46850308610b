package maze

import (
	"math/rand"
	"testing"
)

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// dirBetween returns the direction from a to the adjacent cell b.
func dirBetween(t *testing.T, a, b Coord) Direction {
	t.Helper()
	for _, d := range Directions {
		if a.Step(d) == b {
			return d
		}
	}
	t.Fatalf("(%d,%d) and (%d,%d) are not adjacent", a.X, a.Y, b.X, b.Y)
	return North
}

// openRoute opens the walls along consecutive adjacent cells.
func openRoute(t *testing.T, g *Grid, route ...Coord) {
	t.Helper()
	for i := 1; i < len(route); i++ {
		g.OpenWall(route[i-1], dirBetween(t, route[i-1], route[i]))
	}
}

func mustGrid(t *testing.T, w, h int) *Grid {
	t.Helper()
	g, err := NewGrid(w, h)
	if err != nil {
		t.Fatalf("NewGrid(%d, %d) failed: %v", w, h, err)
	}
	return g
}

// checkPath fails unless every step of path is an open wall or a portal jump.
func checkPath(t *testing.T, g *Grid, path []Coord) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		if partner, ok := g.PortalPair(a.X, a.Y); ok && partner == b {
			continue
		}
		ok := false
		for _, d := range Directions {
			if a.Step(d) == b && !g.At(a).Walls[d] {
				ok = true
			}
		}
		if !ok {
			t.Fatalf("step %d from (%d,%d) to (%d,%d) is neither a passage nor a portal", i, a.X, a.Y, b.X, b.Y)
		}
	}
}

func checkWallSymmetry(t *testing.T, g *Grid) {
	t.Helper()
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := Coord{X: x, Y: y}
			for _, d := range Directions {
				n := c.Step(d)
				if !g.InBounds(n.X, n.Y) {
					continue
				}
				if g.At(c).Walls[d] != g.At(n).Walls[d.Opposite()] {
					t.Fatalf("wall %s of (%d,%d) does not match its neighbour", d, x, y)
				}
			}
		}
	}
}
