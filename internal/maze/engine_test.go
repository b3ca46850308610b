package maze

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaultSizes(t *testing.T) {
	sizes := DefaultSizes()
	tests := []struct {
		size          Size
		width, height int
	}{
		{Small, 12, 17},
		{Medium, 21, 30},
		{Large, 30, 42},
		{ExtraLarge, 40, 56},
	}
	for _, tc := range tests {
		d, err := sizes.Resolve(tc.size)
		if err != nil {
			t.Fatalf("Resolve(%s) failed: %v", tc.size, err)
		}
		if d.Width != tc.width || d.Height != tc.height {
			t.Errorf("%s = %dx%d, want %dx%d", tc.size, d.Width, d.Height, tc.width, tc.height)
		}
	}

	want := []Size{Small, Medium, Large, ExtraLarge}
	if got := sizes.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestParseSize(t *testing.T) {
	sizes := DefaultSizes()
	tests := []struct {
		in      string
		want    Size
		wantErr bool
	}{
		{"S", Small, false},
		{"m", Medium, false},
		{" xl ", ExtraLarge, false},
		{"XXL", "", true},
		{"", "", true},
	}
	for _, tc := range tests {
		got, err := sizes.ParseSize(tc.in)
		if tc.wantErr {
			if !errors.Is(err, ErrUnknownSize) {
				t.Errorf("ParseSize(%q) error = %v, want ErrUnknownSize", tc.in, err)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseSize(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestGenerateWithPortalsPlain(t *testing.T) {
	e := NewEngine(nil, -1)
	res, err := e.GenerateWithPortals(Small, 0, newRand(1))
	if err != nil {
		t.Fatalf("GenerateWithPortals failed: %v", err)
	}

	if res.Width != 12 || res.Height != 17 {
		t.Errorf("size = %dx%d, want 12x17", res.Width, res.Height)
	}
	if res.Sections != 0 || res.PlacedPairs != 0 {
		t.Errorf("Sections = %d, PlacedPairs = %d; want 0, 0", res.Sections, res.PlacedPairs)
	}
	if len(res.Grid.Portals()) != 0 {
		t.Error("plain maze has portals")
	}
	if len(res.Path) == 0 {
		t.Fatal("plain maze has no solution")
	}
	checkPath(t, res.Grid, res.Path)
}

func TestGenerateWithPortals(t *testing.T) {
	e := NewEngine(nil, -1)
	rng := newRand(99)

	for _, size := range DefaultSizes().Names() {
		for pairs := 1; pairs <= 3; pairs++ {
			for trial := 0; trial < 20; trial++ {
				res, err := e.GenerateWithPortals(size, pairs, rng)
				if err != nil {
					t.Fatalf("GenerateWithPortals(%s, %d) failed: %v", size, pairs, err)
				}

				if res.Sections != pairs+1 {
					t.Fatalf("%s/%d: Sections = %d, want %d", size, pairs, res.Sections, pairs+1)
				}
				if res.PlacedPairs != pairs {
					t.Fatalf("%s/%d: PlacedPairs = %d", size, pairs, res.PlacedPairs)
				}
				if err := res.Grid.Validate(); err != nil {
					t.Fatalf("%s/%d: Validate: %v", size, pairs, err)
				}
				if len(res.Path) == 0 {
					t.Fatalf("%s/%d: no solution", size, pairs)
				}
				if res.Path[0] != res.Grid.Entrance() || res.Path[len(res.Path)-1] != res.Grid.Exit() {
					t.Fatalf("%s/%d: path does not run entrance to exit", size, pairs)
				}
				// Every section boundary has to be crossed by a portal.
				if len(res.PortalSteps) < pairs {
					t.Fatalf("%s/%d: path uses %d portals", size, pairs, len(res.PortalSteps))
				}
				checkPath(t, res.Grid, res.Path)
			}
		}
	}
}

func TestGenerateWithPortalsClamps(t *testing.T) {
	e := NewEngine(SizeTable{"T": {Width: 6, Height: 9}}, 5)

	// 6x9 supports two sections, so only one pair fits.
	res, err := e.GenerateWithPortals("T", 4, newRand(3))
	if err != nil {
		t.Fatalf("GenerateWithPortals failed: %v", err)
	}
	if res.RequestedPairs != 4 || res.PlacedPairs != 1 || res.Sections != 2 {
		t.Errorf("requested %d placed %d sections %d; want 4, 1, 2", res.RequestedPairs, res.PlacedPairs, res.Sections)
	}

	capped := NewEngine(nil, 1)
	res, err = capped.GenerateWithPortals(Large, 3, newRand(3))
	if err != nil {
		t.Fatalf("GenerateWithPortals failed: %v", err)
	}
	if res.PlacedPairs != 1 {
		t.Errorf("PlacedPairs = %d, want 1 with MaxPortalPairs 1", res.PlacedPairs)
	}

	res, err = e.GenerateWithPortals("T", -2, newRand(3))
	if err != nil {
		t.Fatalf("GenerateWithPortals failed: %v", err)
	}
	if res.Sections != 0 {
		t.Errorf("negative pair count built %d sections", res.Sections)
	}
}

func TestGenerateWithPortalsDeterministic(t *testing.T) {
	e := NewEngine(nil, -1)
	a, err := e.GenerateWithPortals(Medium, 2, newRand(1234))
	if err != nil {
		t.Fatalf("GenerateWithPortals failed: %v", err)
	}
	b, err := e.GenerateWithPortals(Medium, 2, newRand(1234))
	if err != nil {
		t.Fatalf("GenerateWithPortals failed: %v", err)
	}
	if !reflect.DeepEqual(a.Path, b.Path) || !reflect.DeepEqual(a.Grid.Portals(), b.Grid.Portals()) {
		t.Error("same seed produced different mazes")
	}
}

func TestGenerateWithPortalsUnknownSize(t *testing.T) {
	_, err := NewEngine(nil, -1).GenerateWithPortals("XXL", 1, newRand(1))
	if !errors.Is(err, ErrUnknownSize) {
		t.Errorf("error = %v, want ErrUnknownSize", err)
	}
}

func TestAnalyze(t *testing.T) {
	g := mustGrid(t, 3, 2)
	openRoute(t, g, Coord{0, 0}, Coord{1, 0}, Coord{2, 0})
	g.At(Coord{0, 1}).Portal = &Portal{ID: 1, PairIndex: 0}
	g.At(Coord{2, 0}).Portal = &Portal{ID: 1, PairIndex: 1}

	s := Analyze(g)
	want := Stats{Cells: 6, Passages: 2, DeadEnds: 1, PortalPairs: 1, Components: 4}
	if s != want {
		t.Errorf("Analyze = %+v, want %+v", s, want)
	}
}
