// Package render draws mazes as plain text for terminals and log output.
package render

import (
	"io"
	"strconv"
	"strings"

	"github.com/gookit/color"

	"github.com/gosuhiman/get-lost/internal/maze"
)

var (
	ColorPath     = color.Style{color.FgGreen, color.OpBold}
	ColorPortal   = color.Style{color.FgMagenta, color.OpBold}
	ColorEndpoint = color.Style{color.FgCyan, color.OpBold}
	ColorWall     = color.Style{color.FgGray}
)

// Options controls Text output.
type Options struct {
	ShowPath bool
	Color    bool
}

// Text draws g with +---+ walls. The entrance is S, the exit E, portals
// show their pair ID in base 36 and path cells a dot.
func Text(w io.Writer, g *maze.Grid, path []maze.Coord, opts Options) error {
	onPath := make(map[maze.Coord]bool, len(path))
	if opts.ShowPath {
		for _, c := range path {
			onPath[c] = true
		}
	}

	paint := func(s color.Style, text string) string {
		if !opts.Color {
			return text
		}
		return s.Sprint(text)
	}

	var b strings.Builder
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			b.WriteString(paint(ColorWall, "+"))
			if g.Cells[y][x].Walls[maze.North] {
				b.WriteString(paint(ColorWall, "---"))
			} else {
				b.WriteString("   ")
			}
		}
		b.WriteString(paint(ColorWall, "+"))
		b.WriteByte('\n')

		for x := 0; x < g.Width; x++ {
			cell := &g.Cells[y][x]
			if cell.Walls[maze.West] {
				b.WriteString(paint(ColorWall, "|"))
			} else {
				b.WriteByte(' ')
			}
			b.WriteString(" ")
			b.WriteString(cellMark(g, maze.Coord{X: x, Y: y}, onPath, paint))
			b.WriteString(" ")
		}
		if g.Cells[y][g.Width-1].Walls[maze.East] {
			b.WriteString(paint(ColorWall, "|"))
		} else {
			b.WriteByte(' ')
		}
		b.WriteByte('\n')
	}

	last := g.Height - 1
	for x := 0; x < g.Width; x++ {
		b.WriteString(paint(ColorWall, "+"))
		if g.Cells[last][x].Walls[maze.South] {
			b.WriteString(paint(ColorWall, "---"))
		} else {
			b.WriteString("   ")
		}
	}
	b.WriteString(paint(ColorWall, "+"))
	b.WriteByte('\n')

	_, err := io.WriteString(w, b.String())
	return err
}

func cellMark(g *maze.Grid, c maze.Coord, onPath map[maze.Coord]bool, paint func(color.Style, string) string) string {
	switch {
	case c == g.Entrance():
		return paint(ColorEndpoint, "S")
	case c == g.Exit():
		return paint(ColorEndpoint, "E")
	case g.At(c).Portal != nil:
		return paint(ColorPortal, portalLabel(g.At(c).Portal.ID))
	case onPath[c]:
		return paint(ColorPath, ".")
	}
	return " "
}

// portalLabel is a single character from 1-9 and a-z. IDs above 35 wrap
// back to 1, so only the first 35 pairs get distinct labels.
func portalLabel(id int) string {
	if id < 1 {
		return "?"
	}
	return strconv.FormatInt(int64((id-1)%35+1), 36)
}

// Width returns the number of columns Text uses for g.
func Width(g *maze.Grid) int {
	return 4*g.Width + 1
}
