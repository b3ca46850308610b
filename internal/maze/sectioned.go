package maze

import (
	"math/rand"
)

// Axis is the direction along which a sectioned grid is cut into bands.
type Axis int

const (
	// Horizontal bands stack top to bottom (the height is split).
	Horizontal Axis = iota
	// Vertical bands sit side by side (the width is split).
	Vertical
)

func (a Axis) String() string {
	if a == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// minBandThickness is the smallest band that still holds a useful sub-maze.
const minBandThickness = 3

// Sectioned is the output of GenerateSectioned.
type Sectioned struct {
	Grid     *Grid
	Sections int
	Axis     Axis
	// Bounds has Sections+1 entries; band i spans [Bounds[i], Bounds[i+1])
	// along the split axis.
	Bounds []int
	// DeadEnds[i] lists the dead-end cells of section i.
	DeadEnds [][]Coord
}

// MaxSections returns how many bands a width x height grid supports.
func MaxSections(width, height int) int {
	return max(2, min(width/minBandThickness, height/minBandThickness))
}

// ClampSections limits requested to [2, MaxSections(width, height)].
func ClampSections(width, height, requested int) int {
	return min(max(requested, 2), MaxSections(width, height))
}

// GenerateSectioned cuts the grid into contiguous bands and carves an
// independent perfect maze inside each one. No passage crosses a band
// boundary; the only way between sections is a portal added later.
//
// The section count is clamped with ClampSections.
func GenerateSectioned(width, height, sections int, rng *rand.Rand) (*Sectioned, error) {
	g, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}

	sections = ClampSections(width, height, sections)
	axis, length := Horizontal, height
	if height < width {
		axis, length = Vertical, width
	}

	bounds := make([]int, sections+1)
	for i := range bounds {
		bounds[i] = i * length / sections
	}
	bounds[sections] = length

	for i := 0; i < sections; i++ {
		band := region{0, bounds[i], width, bounds[i+1]}
		if axis == Vertical {
			band = region{bounds[i], 0, bounds[i+1], height}
		}
		carve(g, band, i, rng)
	}

	entrance, exit := g.Entrance(), g.Exit()
	g.At(entrance).Section = 0
	g.At(exit).Section = sections - 1

	// Only the outer boundary is opened here, never a band edge.
	g.OpenWall(entrance, pick(rng, North, West))
	g.OpenWall(exit, pick(rng, South, East))

	g.resetVisited()

	deadEnds := FindDeadEnds(g, sections)
	repaired := false
	for i, ends := range deadEnds {
		if len(ends) == 0 && repairSection(g, i, rng) {
			repaired = true
		}
	}
	if repaired {
		deadEnds = FindDeadEnds(g, sections)
	}

	return &Sectioned{
		Grid:     g,
		Sections: sections,
		Axis:     axis,
		Bounds:   bounds,
		DeadEnds: deadEnds,
	}, nil
}

func pick(rng *rand.Rand, a, b Direction) Direction {
	if rng.Intn(2) == 0 {
		return a
	}
	return b
}

// FindDeadEnds groups the cells with exactly three walls by section, in
// row-major order. The entrance and exit never count. Cells whose section
// is outside [0, sections) are ignored.
func FindDeadEnds(g *Grid, sections int) [][]Coord {
	deadEnds := make([][]Coord, sections)
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := Coord{X: x, Y: y}
			cell := g.At(c)
			if g.IsEndpoint(c) || !cell.IsDeadEnd() {
				continue
			}
			if cell.Section < 0 || cell.Section >= sections {
				continue
			}
			deadEnds[cell.Section] = append(deadEnds[cell.Section], c)
		}
	}
	return deadEnds
}

// repairSection turns one cell of the section into a dead end by closing
// all but one of its open walls. Cells are tried in random order and the
// first with two or more openings is used. It reports whether a cell was
// changed.
func repairSection(g *Grid, section int, rng *rand.Rand) bool {
	var cells []Coord
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			c := Coord{X: x, Y: y}
			if g.At(c).Section == section && !g.IsEndpoint(c) {
				cells = append(cells, c)
			}
		}
	}
	rng.Shuffle(len(cells), func(i, j int) {
		cells[i], cells[j] = cells[j], cells[i]
	})

	for _, c := range cells {
		var open []Direction
		for _, d := range Directions {
			if !g.At(c).Walls[d] {
				open = append(open, d)
			}
		}
		if len(open) < 2 {
			continue
		}

		keep := rng.Intn(len(open))
		for i, d := range open {
			if i != keep {
				g.CloseWall(c, d)
			}
		}
		return true
	}
	return false
}
