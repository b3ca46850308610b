package maze

import (
	"math/rand"

	"github.com/zyedidia/generic/stack"
)

// region is a half-open rectangle [x0,x1) x [y0,y1) of grid cells.
type region struct {
	x0, y0, x1, y1 int
}

func (r region) contains(c Coord) bool {
	return c.X >= r.x0 && c.X < r.x1 && c.Y >= r.y0 && c.Y < r.y1
}

func (r region) width() int  { return r.x1 - r.x0 }
func (r region) height() int { return r.y1 - r.y0 }
func (r region) area() int   { return r.width() * r.height() }

// Generate carves a perfect maze over a width x height grid using a
// randomized depth-first search. Every cell is reachable from every other.
func Generate(width, height int, rng *rand.Rand) (*Grid, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}

	carve(g, region{0, 0, width, height}, NoSection, rng)
	g.resetVisited()
	return g, nil
}

// carve runs the backtracking DFS inside r only. Neighbours outside r are
// never considered, so separate regions stay disconnected. Carved cells are
// tagged with section unless it is NoSection. Visited flags are left set.
func carve(g *Grid, r region, section int, rng *rand.Rand) {
	if r.area() <= 0 {
		return
	}

	start := Coord{X: r.x0 + rng.Intn(r.width()), Y: r.y0 + rng.Intn(r.height())}
	mark(g, start, section)

	st := stack.New[Coord]()
	st.Push(start)

	// Each cell is pushed and popped once.
	limit := 4 * r.area()
	var open [4]Direction
	for i := 0; st.Size() > 0 && i < limit; i++ {
		cur := st.Peek()

		n := 0
		for _, d := range Directions {
			next := cur.Step(d)
			if r.contains(next) && !g.At(next).Visited {
				open[n] = d
				n++
			}
		}

		if n == 0 {
			st.Pop()
			continue
		}

		d := open[rng.Intn(n)]
		next := cur.Step(d)
		g.OpenWall(cur, d)
		mark(g, next, section)
		st.Push(next)
	}
}

func mark(g *Grid, c Coord, section int) {
	cell := g.At(c)
	cell.Visited = true
	if section != NoSection {
		cell.Section = section
	}
}
