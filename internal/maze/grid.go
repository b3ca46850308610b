// Package maze generates perfect mazes, links disconnected sections with
// portal pairs and solves the result with a breadth-first search.
//
// Every function that needs randomness takes a *rand.Rand so a fixed seed
// reproduces the same maze.
package maze

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrInvalidDimensions = errors.New("maze: invalid grid dimensions")
	ErrOutOfBounds       = errors.New("maze: coordinate out of bounds")
	ErrPortalPairing     = errors.New("maze: portal pairing broken")
	ErrWallMismatch      = errors.New("maze: walls not symmetric")
)

// NoSection marks a cell that was not produced by the sectioned generator.
const NoSection = -1

// Portal tags one endpoint of a portal pair.
type Portal struct {
	ID        int `json:"id" yaml:"id"`
	PairIndex int `json:"pair_index" yaml:"pair_index"` // 0 or 1
}

// Cell is one square of the grid. Walls[d] is true when the side facing d
// is closed.
type Cell struct {
	Walls   [4]bool
	Visited bool // generation bookkeeping only, false on returned grids
	Portal  *Portal
	Section int
}

// WallCount returns how many of the four sides are closed.
func (c *Cell) WallCount() int {
	n := 0
	for _, w := range c.Walls {
		if w {
			n++
		}
	}
	return n
}

// IsDeadEnd reports whether exactly one side is open.
func (c *Cell) IsDeadEnd() bool {
	return c.WallCount() == 3
}

// Grid is a rectangular maze addressed Cells[y][x].
type Grid struct {
	Width  int
	Height int
	Cells  [][]Cell
}

// NewGrid returns a fully walled grid with no portals and no sections.
func NewGrid(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	g := &Grid{
		Width:  width,
		Height: height,
		Cells:  make([][]Cell, height),
	}
	for y := 0; y < height; y++ {
		row := make([]Cell, width)
		for x := range row {
			row[x] = Cell{
				Walls:   [4]bool{true, true, true, true},
				Section: NoSection,
			}
		}
		g.Cells[y] = row
	}
	return g, nil
}

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// At returns the cell at c. It panics when c is off the grid.
func (g *Grid) At(c Coord) *Cell {
	return &g.Cells[c.Y][c.X]
}

// Entrance is the fixed start cell (0,0).
func (g *Grid) Entrance() Coord {
	return Coord{X: 0, Y: 0}
}

// Exit is the fixed goal cell in the bottom right corner.
func (g *Grid) Exit() Coord {
	return Coord{X: g.Width - 1, Y: g.Height - 1}
}

// IsEndpoint reports whether c is the entrance or the exit.
func (g *Grid) IsEndpoint(c Coord) bool {
	return c == g.Entrance() || c == g.Exit()
}

// OpenWall removes the wall on side d of c and the matching wall of the
// neighbour. On the outer boundary only c is touched.
func (g *Grid) OpenWall(c Coord, d Direction) {
	g.setWall(c, d, false)
}

// CloseWall is the inverse of OpenWall.
func (g *Grid) CloseWall(c Coord, d Direction) {
	g.setWall(c, d, true)
}

func (g *Grid) setWall(c Coord, d Direction, closed bool) {
	g.Cells[c.Y][c.X].Walls[d] = closed
	n := c.Step(d)
	if g.InBounds(n.X, n.Y) {
		g.Cells[n.Y][n.X].Walls[d.Opposite()] = closed
	}
}

// Clone returns a deep copy. Portals are copied, not shared.
func (g *Grid) Clone() *Grid {
	out := &Grid{
		Width:  g.Width,
		Height: g.Height,
		Cells:  make([][]Cell, g.Height),
	}
	for y, row := range g.Cells {
		cp := make([]Cell, len(row))
		copy(cp, row)
		for x := range cp {
			if p := cp[x].Portal; p != nil {
				dup := *p
				cp[x].Portal = &dup
			}
		}
		out.Cells[y] = cp
	}
	return out
}

func (g *Grid) resetVisited() {
	for y := range g.Cells {
		for x := range g.Cells[y] {
			g.Cells[y][x].Visited = false
		}
	}
}

func (g *Grid) index(c Coord) int {
	return c.Y*g.Width + c.X
}

func (g *Grid) coord(i int) Coord {
	return Coord{X: i % g.Width, Y: i / g.Width}
}

// HasPortal reports whether the cell at (x, y) carries a portal.
func (g *Grid) HasPortal(x, y int) bool {
	return g.InBounds(x, y) && g.Cells[y][x].Portal != nil
}

// PortalPair returns the other endpoint of the portal at (x, y).
func (g *Grid) PortalPair(x, y int) (Coord, bool) {
	if !g.HasPortal(x, y) {
		return Coord{}, false
	}
	p := g.Cells[y][x].Portal
	for py := range g.Cells {
		for px := range g.Cells[py] {
			if px == x && py == y {
				continue
			}
			other := g.Cells[py][px].Portal
			if other != nil && other.ID == p.ID && other.PairIndex != p.PairIndex {
				return Coord{X: px, Y: py}, true
			}
		}
	}
	return Coord{}, false
}

// PortalLink is a complete portal pair. A is the PairIndex 0 endpoint.
type PortalLink struct {
	ID int
	A  Coord
	B  Coord
}

// Portals returns every complete pair ordered by ID. Half pairs are skipped.
func (g *Grid) Portals() []PortalLink {
	type ends struct {
		a, b       Coord
		hasA, hasB bool
	}
	byID := make(map[int]*ends)
	for y := range g.Cells {
		for x := range g.Cells[y] {
			p := g.Cells[y][x].Portal
			if p == nil {
				continue
			}
			e := byID[p.ID]
			if e == nil {
				e = &ends{}
				byID[p.ID] = e
			}
			c := Coord{X: x, Y: y}
			if p.PairIndex == 0 {
				e.a, e.hasA = c, true
			} else {
				e.b, e.hasB = c, true
			}
		}
	}

	links := make([]PortalLink, 0, len(byID))
	for id, e := range byID {
		if e.hasA && e.hasB {
			links = append(links, PortalLink{ID: id, A: e.a, B: e.b})
		}
	}
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })
	return links
}

// portalPartners maps every cell index to the index of its portal partner,
// or -1.
func (g *Grid) portalPartners() []int {
	partners := make([]int, g.Width*g.Height)
	for i := range partners {
		partners[i] = -1
	}
	for _, l := range g.Portals() {
		a, b := g.index(l.A), g.index(l.B)
		partners[a] = b
		partners[b] = a
	}
	return partners
}

func (g *Grid) nextPortalID() int {
	id := 1
	for y := range g.Cells {
		for x := range g.Cells[y] {
			if p := g.Cells[y][x].Portal; p != nil && p.ID >= id {
				id = p.ID + 1
			}
		}
	}
	return id
}

// checkShape reports whether Cells really is Height rows of Width cells.
func (g *Grid) checkShape() error {
	if g == nil || g.Width < 1 || g.Height < 1 {
		return ErrInvalidDimensions
	}
	if len(g.Cells) != g.Height {
		return fmt.Errorf("%w: %d rows for height %d", ErrInvalidDimensions, len(g.Cells), g.Height)
	}
	for y, row := range g.Cells {
		if len(row) != g.Width {
			return fmt.Errorf("%w: row %d has %d cells", ErrInvalidDimensions, y, len(row))
		}
	}
	return nil
}

// Validate checks the structural invariants of g: consistent dimensions,
// symmetric walls and complete portal pairs.
func (g *Grid) Validate() error {
	if err := g.checkShape(); err != nil {
		return err
	}
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			// East and South cover every interior edge once.
			if x+1 < g.Width && g.Cells[y][x].Walls[East] != g.Cells[y][x+1].Walls[West] {
				return fmt.Errorf("%w: (%d,%d) east", ErrWallMismatch, x, y)
			}
			if y+1 < g.Height && g.Cells[y][x].Walls[South] != g.Cells[y+1][x].Walls[North] {
				return fmt.Errorf("%w: (%d,%d) south", ErrWallMismatch, x, y)
			}
		}
	}
	return CheckPortals(g)
}

// CheckPortals verifies that every portal has exactly one partner with the
// same ID and the other pair index.
func CheckPortals(g *Grid) error {
	seen := make(map[int][2]int)
	for y := range g.Cells {
		for x := range g.Cells[y] {
			p := g.Cells[y][x].Portal
			if p == nil {
				continue
			}
			if p.PairIndex != 0 && p.PairIndex != 1 {
				return fmt.Errorf("%w: portal %d at (%d,%d) has pair index %d", ErrPortalPairing, p.ID, x, y, p.PairIndex)
			}
			counts := seen[p.ID]
			counts[p.PairIndex]++
			seen[p.ID] = counts
		}
	}
	for id, counts := range seen {
		if counts[0] != 1 || counts[1] != 1 {
			return fmt.Errorf("%w: portal %d has %d+%d endpoints", ErrPortalPairing, id, counts[0], counts[1])
		}
	}
	return nil
}
