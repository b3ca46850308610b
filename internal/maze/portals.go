package maze

import (
	"math/rand"

	"github.com/zyedidia/generic/mapset"
)

// AddPortals places up to pairs portal pairs on random cells of a copy of
// g. The entrance, the exit and cells that already hold a portal are never
// used. Reachability between the endpoints is not checked, so this suits
// grids that are already fully connected.
func AddPortals(g *Grid, pairs int, rng *rand.Rand) *Grid {
	out := g.Clone()

	var candidates []Coord
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			c := Coord{X: x, Y: y}
			if out.IsEndpoint(c) || out.At(c).Portal != nil {
				continue
			}
			candidates = append(candidates, c)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	id := out.nextPortalID()
	for i := 0; i < pairs && 2*i+1 < len(candidates); i++ {
		link(out, candidates[2*i], candidates[2*i+1], id)
		id++
	}
	return out
}

// connection is a planned portal between two sections.
type connection struct {
	a, b int
}

// AddPortalsToSections links sections of a copy of g with portal pairs
// placed on dead ends. deadEnds[i] holds the dead ends of section i as
// returned by GenerateSectioned.
//
// Adjacent sections are linked first so every section joins the chain;
// extra pairs go between random non-adjacent sections. A dead end is used
// at most once. The second return value is the number of pairs actually
// placed, which can be lower than requested when dead ends run out.
func AddPortalsToSections(g *Grid, deadEnds [][]Coord, pairs int, rng *rand.Rand) (*Grid, int) {
	out := g.Clone()
	if pairs <= 0 {
		return out, 0
	}

	plan := planConnections(deadEnds, pairs, rng)

	used := mapset.New[Coord]()
	id := out.nextPortalID()
	placed := 0
	for _, conn := range plan {
		a, ok := pickDeadEnd(out, deadEnds[conn.a], used, rng)
		if !ok {
			continue
		}
		b, ok := pickDeadEnd(out, deadEnds[conn.b], used, rng)
		if !ok {
			continue
		}
		used.Put(a)
		used.Put(b)
		link(out, a, b, id)
		id++
		placed++
	}
	return out, placed
}

// planConnections returns at most pairs connections: every adjacent pair
// (i, i+1) with dead ends on both sides, then shuffled non-adjacent pairs.
func planConnections(deadEnds [][]Coord, pairs int, rng *rand.Rand) []connection {
	var plan []connection
	for i := 0; i+1 < len(deadEnds); i++ {
		if len(deadEnds[i]) > 0 && len(deadEnds[i+1]) > 0 {
			plan = append(plan, connection{i, i + 1})
		}
	}

	if pairs > len(plan) {
		var extra []connection
		for i := 0; i < len(deadEnds); i++ {
			for j := i + 2; j < len(deadEnds); j++ {
				if len(deadEnds[i]) > 0 && len(deadEnds[j]) > 0 {
					extra = append(extra, connection{i, j})
				}
			}
		}
		rng.Shuffle(len(extra), func(i, j int) {
			extra[i], extra[j] = extra[j], extra[i]
		})
		need := min(pairs-len(plan), len(extra))
		plan = append(plan, extra[:need]...)
	}

	if len(plan) > pairs {
		plan = plan[:pairs]
	}
	return plan
}

func pickDeadEnd(g *Grid, ends []Coord, used mapset.Set[Coord], rng *rand.Rand) (Coord, bool) {
	free := make([]Coord, 0, len(ends))
	for _, c := range ends {
		if !used.Has(c) && !g.IsEndpoint(c) && g.At(c).Portal == nil {
			free = append(free, c)
		}
	}
	if len(free) == 0 {
		return Coord{}, false
	}
	return free[rng.Intn(len(free))], true
}

func link(g *Grid, a, b Coord, id int) {
	g.At(a).Portal = &Portal{ID: id, PairIndex: 0}
	g.At(b).Portal = &Portal{ID: id, PairIndex: 1}
}
