package maze

import (
	"fmt"

	"github.com/zyedidia/generic/queue"
)

// Solution is a shortest route through a grid.
type Solution struct {
	Path []Coord
	// PortalSteps holds the indices into Path of cells that were entered
	// through a portal rather than an open wall.
	PortalSteps []int
}

// Found reports whether a route exists.
func (s *Solution) Found() bool {
	return len(s.Path) > 0
}

// FindPath returns a shortest path from start to goal. A step is either a
// move through an open wall or a jump between the two ends of a portal;
// both cost one. The path is empty when goal cannot be reached.
func FindPath(g *Grid, start, goal Coord) ([]Coord, error) {
	sol, err := search(g, start, goal)
	if err != nil {
		return nil, err
	}
	return sol.Path, nil
}

// Solve finds a shortest path from the entrance to the exit.
func Solve(g *Grid) (*Solution, error) {
	if g == nil {
		return nil, ErrInvalidDimensions
	}
	return search(g, g.Entrance(), g.Exit())
}

func search(g *Grid, start, goal Coord) (*Solution, error) {
	if err := g.checkShape(); err != nil {
		return nil, err
	}
	if !g.InBounds(start.X, start.Y) {
		return nil, fmt.Errorf("%w: start (%d,%d)", ErrOutOfBounds, start.X, start.Y)
	}
	if !g.InBounds(goal.X, goal.Y) {
		return nil, fmt.Errorf("%w: goal (%d,%d)", ErrOutOfBounds, goal.X, goal.Y)
	}

	n := g.Width * g.Height
	partners := g.portalPartners()
	visited := make([]bool, n)
	parent := make([]int, n)
	viaPortal := make([]bool, n)

	from, to := g.index(start), g.index(goal)
	visited[from] = true
	parent[from] = -1

	q := queue.New[int]()
	q.Enqueue(from)

	found := false
	for !q.Empty() {
		cur := q.Dequeue()
		if cur == to {
			found = true
			break
		}

		c := g.coord(cur)
		cell := g.At(c)
		for _, d := range Directions {
			if cell.Walls[d] {
				continue
			}
			next := c.Step(d)
			if !g.InBounds(next.X, next.Y) {
				continue
			}
			i := g.index(next)
			if visited[i] {
				continue
			}
			visited[i] = true
			parent[i] = cur
			q.Enqueue(i)
		}

		if p := partners[cur]; p >= 0 && !visited[p] {
			visited[p] = true
			parent[p] = cur
			viaPortal[p] = true
			q.Enqueue(p)
		}
	}

	if !found {
		return &Solution{}, nil
	}

	var rev []int
	for i := to; i != -1; i = parent[i] {
		rev = append(rev, i)
	}

	sol := &Solution{Path: make([]Coord, len(rev))}
	for k := range rev {
		i := rev[len(rev)-1-k]
		sol.Path[k] = g.coord(i)
		if viaPortal[i] {
			sol.PortalSteps = append(sol.PortalSteps, k)
		}
	}
	return sol, nil
}
