package maze

import (
	"fmt"
	"math/rand"
)

// DefaultMaxPortalPairs is the largest portal count offered by default.
const DefaultMaxPortalPairs = 3

// Engine turns a size name and a portal count into a solved maze.
type Engine struct {
	Sizes          SizeTable
	MaxPortalPairs int
}

// NewEngine returns an Engine over sizes. A nil table uses DefaultSizes and
// a negative maxPairs uses DefaultMaxPortalPairs.
func NewEngine(sizes SizeTable, maxPairs int) *Engine {
	if sizes == nil {
		sizes = DefaultSizes()
	}
	if maxPairs < 0 {
		maxPairs = DefaultMaxPortalPairs
	}
	return &Engine{Sizes: sizes, MaxPortalPairs: maxPairs}
}

// Result is a generated maze together with its solution.
type Result struct {
	Size           Size
	Width          int
	Height         int
	Grid           *Grid
	Path           []Coord
	PortalSteps    []int
	RequestedPairs int
	PlacedPairs    int
	// Sections is 0 for a plain maze.
	Sections int
}

// GenerateWithPortals builds a maze of the named size. With no portals it
// is a single perfect maze. Otherwise the grid is cut into pairs+1 sections
// that are only joined by portals. The result always carries the shortest
// path from the entrance to the exit.
//
// The portal count is clamped to [0, MaxPortalPairs] and then to what the
// sectioned grid supports; PlacedPairs reports what was actually placed.
func (e *Engine) GenerateWithPortals(size Size, pairs int, rng *rand.Rand) (*Result, error) {
	dims, err := e.Sizes.Resolve(size)
	if err != nil {
		return nil, err
	}

	requested := pairs
	pairs = min(max(pairs, 0), e.MaxPortalPairs)

	res := &Result{
		Size:           size,
		Width:          dims.Width,
		Height:         dims.Height,
		RequestedPairs: requested,
	}

	if pairs == 0 {
		res.Grid, err = Generate(dims.Width, dims.Height, rng)
		if err != nil {
			return nil, fmt.Errorf("generate %s maze: %w", size, err)
		}
	} else {
		sec, err := GenerateSectioned(dims.Width, dims.Height, pairs+1, rng)
		if err != nil {
			return nil, fmt.Errorf("generate sectioned %s maze: %w", size, err)
		}
		res.Sections = sec.Sections
		pairs = min(pairs, sec.Sections-1)
		res.Grid, res.PlacedPairs = AddPortalsToSections(sec.Grid, sec.DeadEnds, pairs, rng)
	}

	sol, err := Solve(res.Grid)
	if err != nil {
		return nil, fmt.Errorf("solve %s maze: %w", size, err)
	}
	res.Path = sol.Path
	res.PortalSteps = sol.PortalSteps
	return res, nil
}
