// Package export converts generated mazes to and from JSON and YAML
// documents.
package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gosuhiman/get-lost/internal/maze"
)

var ErrUnknownFormat = errors.New("export: unknown format")

// Format is a document encoding.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml in any case.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatForPath picks the format from a file extension.
func FormatForPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Document is the exchange form of a maze. Coordinates are [x, y].
type Document struct {
	Seed           int64       `json:"seed" yaml:"seed"`
	Size           string      `json:"size,omitempty" yaml:"size,omitempty"`
	Width          int         `json:"width" yaml:"width"`
	Height         int         `json:"height" yaml:"height"`
	Sections       int         `json:"sections,omitempty" yaml:"sections,omitempty"`
	RequestedPairs int         `json:"requested_pairs" yaml:"requested_pairs"`
	PlacedPairs    int         `json:"placed_pairs" yaml:"placed_pairs"`
	Cells          [][]CellDoc `json:"cells" yaml:"cells"`
	Portals        []PortalDoc `json:"portals" yaml:"portals"`
	Path           [][2]int    `json:"path,omitempty" yaml:"path,omitempty,flow"`
	PortalSteps    []int       `json:"portal_steps,omitempty" yaml:"portal_steps,omitempty,flow"`
	Stats          maze.Stats  `json:"stats" yaml:"stats"`
}

// CellDoc is one cell. Walls are ordered north, east, south, west.
type CellDoc struct {
	Walls   [4]bool      `json:"walls" yaml:"walls,flow"`
	Portal  *maze.Portal `json:"portal,omitempty" yaml:"portal,omitempty"`
	Section *int         `json:"section_id,omitempty" yaml:"section_id,omitempty"`
}

// PortalDoc lists a portal pair by its endpoints.
type PortalDoc struct {
	ID int    `json:"id" yaml:"id"`
	A  [2]int `json:"a" yaml:"a,flow"`
	B  [2]int `json:"b" yaml:"b,flow"`
}

// FromResult builds a document for res. The path is left out unless
// withPath is set.
func FromResult(res *maze.Result, seed int64, withPath bool) *Document {
	doc := FromGrid(res.Grid)
	doc.Seed = seed
	doc.Size = string(res.Size)
	doc.Sections = res.Sections
	doc.RequestedPairs = res.RequestedPairs
	doc.PlacedPairs = res.PlacedPairs
	if withPath {
		doc.Path = pairs(res.Path)
		doc.PortalSteps = res.PortalSteps
	}
	return doc
}

// FromGrid builds a document holding only the grid.
func FromGrid(g *maze.Grid) *Document {
	doc := &Document{
		Width:  g.Width,
		Height: g.Height,
		Cells:  make([][]CellDoc, g.Height),
		Stats:  maze.Analyze(g),
	}

	for y, row := range g.Cells {
		docRow := make([]CellDoc, len(row))
		for x, cell := range row {
			cd := CellDoc{Walls: cell.Walls}
			if cell.Portal != nil {
				p := *cell.Portal
				cd.Portal = &p
			}
			if cell.Section != maze.NoSection {
				s := cell.Section
				cd.Section = &s
			}
			docRow[x] = cd
		}
		doc.Cells[y] = docRow
	}

	doc.Portals = make([]PortalDoc, 0)
	for _, l := range g.Portals() {
		doc.Portals = append(doc.Portals, PortalDoc{
			ID: l.ID,
			A:  [2]int{l.A.X, l.A.Y},
			B:  [2]int{l.B.X, l.B.Y},
		})
	}
	return doc
}

func pairs(path []maze.Coord) [][2]int {
	out := make([][2]int, len(path))
	for i, c := range path {
		out[i] = [2]int{c.X, c.Y}
	}
	return out
}

// ToGrid rebuilds the grid described by doc and validates it.
// The cell rows are checked against the declared size before anything is
// allocated.
func (d *Document) ToGrid() (*maze.Grid, error) {
	if len(d.Cells) != d.Height {
		return nil, fmt.Errorf("%w: %d rows for height %d", maze.ErrInvalidDimensions, len(d.Cells), d.Height)
	}
	for y, row := range d.Cells {
		if len(row) != d.Width {
			return nil, fmt.Errorf("%w: row %d has %d cells for width %d", maze.ErrInvalidDimensions, y, len(row), d.Width)
		}
	}

	g, err := maze.NewGrid(d.Width, d.Height)
	if err != nil {
		return nil, err
	}

	for y, row := range d.Cells {
		for x, cd := range row {
			cell := &g.Cells[y][x]
			cell.Walls = cd.Walls
			if cd.Portal != nil {
				p := *cd.Portal
				cell.Portal = &p
			}
			if cd.Section != nil {
				cell.Section = *cd.Section
			}
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Write encodes doc to w.
func Write(w io.Writer, doc *Document, f Format) error {
	switch f {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
}

// Read decodes a document from r.
func Read(r io.Reader, f Format) (*Document, error) {
	var doc Document
	var err error
	switch f {
	case JSON:
		err = json.NewDecoder(r).Decode(&doc)
	case YAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s document: %w", f, err)
	}
	return &doc, nil
}

// ReadFile loads a document, picking the format from the extension.
func ReadFile(path string) (*Document, error) {
	f, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Read(file, f)
}
