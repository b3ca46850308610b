package maze

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrUnknownSize = errors.New("maze: unknown size")

// Size names a preset maze size.
type Size string

const (
	Small      Size = "S"
	Medium     Size = "M"
	Large      Size = "L"
	ExtraLarge Size = "XL"
)

// Dimensions is a width and height in cells.
type Dimensions struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// SizeTable resolves size names to dimensions.
type SizeTable map[Size]Dimensions

// DefaultSizes keep the 1:1.414 ratio of an A4 sheet.
func DefaultSizes() SizeTable {
	return SizeTable{
		Small:      {Width: 12, Height: 17},
		Medium:     {Width: 21, Height: 30},
		Large:      {Width: 30, Height: 42},
		ExtraLarge: {Width: 40, Height: 56},
	}
}

// ParseSize normalises a size name. Matching is case-insensitive.
func (t SizeTable) ParseSize(name string) (Size, error) {
	s := Size(strings.ToUpper(strings.TrimSpace(name)))
	if _, ok := t[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSize, name)
	}
	return s, nil
}

// Resolve returns the dimensions for s.
func (t SizeTable) Resolve(s Size) (Dimensions, error) {
	d, ok := t[s]
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: %q", ErrUnknownSize, string(s))
	}
	return d, nil
}

// Names returns the sizes ordered from smallest to largest area.
func (t SizeTable) Names() []Size {
	names := make([]Size, 0, len(t))
	for s := range t {
		names = append(names, s)
	}
	sort.Slice(names, func(i, j int) bool {
		ai := t[names[i]].Width * t[names[i]].Height
		aj := t[names[j]].Width * t[names[j]].Height
		if ai != aj {
			return ai < aj
		}
		return names[i] < names[j]
	})
	return names
}
