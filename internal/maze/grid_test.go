package maze

import (
	"errors"
	"testing"
)

func TestNewGrid(t *testing.T) {
	g := mustGrid(t, 4, 3)

	if g.Width != 4 || g.Height != 3 {
		t.Fatalf("size = %dx%d, want 4x3", g.Width, g.Height)
	}
	if len(g.Cells) != 3 || len(g.Cells[0]) != 4 {
		t.Fatalf("cells = %dx%d, want 3 rows of 4", len(g.Cells), len(g.Cells[0]))
	}
	for y := range g.Cells {
		for x, cell := range g.Cells[y] {
			if cell.WallCount() != 4 {
				t.Errorf("(%d,%d) WallCount = %d, want 4", x, y, cell.WallCount())
			}
			if cell.Visited || cell.Portal != nil || cell.Section != NoSection {
				t.Errorf("(%d,%d) not pristine: %+v", x, y, cell)
			}
		}
	}
}

func TestNewGridInvalid(t *testing.T) {
	tests := []struct{ w, h int }{
		{0, 5}, {5, 0}, {-1, 3}, {0, 0},
	}
	for _, tc := range tests {
		g, err := NewGrid(tc.w, tc.h)
		if !errors.Is(err, ErrInvalidDimensions) {
			t.Errorf("NewGrid(%d, %d) error = %v, want ErrInvalidDimensions", tc.w, tc.h, err)
		}
		if g != nil {
			t.Errorf("NewGrid(%d, %d) returned a grid", tc.w, tc.h)
		}
	}
}

func TestDirection(t *testing.T) {
	tests := []struct {
		d        Direction
		opposite Direction
		dx, dy   int
	}{
		{North, South, 0, -1},
		{East, West, 1, 0},
		{South, North, 0, 1},
		{West, East, -1, 0},
	}
	for i, tc := range tests {
		if int(tc.d) != i {
			t.Errorf("%s = %d, want %d", tc.d, tc.d, i)
		}
		if got := tc.d.Opposite(); got != tc.opposite {
			t.Errorf("%s.Opposite() = %s, want %s", tc.d, got, tc.opposite)
		}
		if x, y := tc.d.Delta(); x != tc.dx || y != tc.dy {
			t.Errorf("%s.Delta() = (%d,%d), want (%d,%d)", tc.d, x, y, tc.dx, tc.dy)
		}
	}
}

func TestOpenWallSymmetric(t *testing.T) {
	g := mustGrid(t, 3, 3)

	g.OpenWall(Coord{1, 1}, East)
	if g.At(Coord{1, 1}).Walls[East] || g.At(Coord{2, 1}).Walls[West] {
		t.Error("OpenWall did not open both sides")
	}

	g.CloseWall(Coord{2, 1}, West)
	if !g.At(Coord{1, 1}).Walls[East] || !g.At(Coord{2, 1}).Walls[West] {
		t.Error("CloseWall did not close both sides")
	}

	// Boundary walls only touch the cell itself.
	g.OpenWall(Coord{0, 0}, North)
	if g.At(Coord{0, 0}).Walls[North] {
		t.Error("boundary wall still closed")
	}
	checkWallSymmetry(t, g)
}

func TestCloneIsDeep(t *testing.T) {
	g := mustGrid(t, 3, 2)
	g.At(Coord{1, 0}).Portal = &Portal{ID: 1, PairIndex: 0}
	g.At(Coord{2, 1}).Portal = &Portal{ID: 1, PairIndex: 1}

	c := g.Clone()
	c.OpenWall(Coord{0, 0}, East)
	c.At(Coord{1, 0}).Portal.ID = 9

	if !g.At(Coord{0, 0}).Walls[East] {
		t.Error("opening a wall on the clone changed the original")
	}
	if g.At(Coord{1, 0}).Portal.ID != 1 {
		t.Error("clone shares portal pointers with the original")
	}
}

func TestPortalPair(t *testing.T) {
	g := mustGrid(t, 4, 4)
	g.At(Coord{1, 1}).Portal = &Portal{ID: 1, PairIndex: 0}
	g.At(Coord{3, 3}).Portal = &Portal{ID: 1, PairIndex: 1}
	g.At(Coord{2, 0}).Portal = &Portal{ID: 2, PairIndex: 0}
	g.At(Coord{0, 2}).Portal = &Portal{ID: 2, PairIndex: 1}

	if !g.HasPortal(1, 1) || g.HasPortal(0, 0) || g.HasPortal(9, 9) {
		t.Error("HasPortal reported the wrong cells")
	}

	got, ok := g.PortalPair(3, 3)
	if !ok || got != (Coord{1, 1}) {
		t.Errorf("PortalPair(3,3) = %v, %v; want (1,1), true", got, ok)
	}
	if _, ok := g.PortalPair(0, 0); ok {
		t.Error("PortalPair(0,0) found a partner for a cell without portal")
	}

	links := g.Portals()
	if len(links) != 2 {
		t.Fatalf("Portals() = %d links, want 2", len(links))
	}
	if links[0].ID != 1 || links[0].A != (Coord{1, 1}) || links[0].B != (Coord{3, 3}) {
		t.Errorf("Portals()[0] = %+v", links[0])
	}
	if links[1].ID != 2 {
		t.Errorf("Portals()[1].ID = %d, want 2", links[1].ID)
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestCheckPortalsBroken(t *testing.T) {
	g := mustGrid(t, 3, 3)
	g.At(Coord{1, 1}).Portal = &Portal{ID: 4, PairIndex: 0}
	if err := CheckPortals(g); !errors.Is(err, ErrPortalPairing) {
		t.Errorf("half pair: CheckPortals = %v, want ErrPortalPairing", err)
	}

	g.At(Coord{2, 2}).Portal = &Portal{ID: 4, PairIndex: 0}
	if err := CheckPortals(g); !errors.Is(err, ErrPortalPairing) {
		t.Errorf("same pair index: CheckPortals = %v, want ErrPortalPairing", err)
	}

	g.At(Coord{2, 2}).Portal.PairIndex = 1
	if err := CheckPortals(g); err != nil {
		t.Errorf("complete pair: CheckPortals = %v", err)
	}
}

func TestValidateWallMismatch(t *testing.T) {
	g := mustGrid(t, 2, 2)
	g.Cells[0][0].Walls[East] = false
	if err := g.Validate(); !errors.Is(err, ErrWallMismatch) {
		t.Errorf("Validate() = %v, want ErrWallMismatch", err)
	}
}
