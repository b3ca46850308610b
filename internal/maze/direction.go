package maze

// Direction indexes a cell's walls. The numeric values are shared with the
// front end and must not change.
type Direction int

const (
	North Direction = iota // dy -1
	East                   // dx +1
	South                  // dy +1
	West                   // dx -1
)

// Directions lists the four directions in wall order.
var Directions = [4]Direction{North, East, South, West}

var (
	dx = [4]int{0, 1, 0, -1}
	dy = [4]int{-1, 0, 1, 0}
)

// Opposite returns the direction pointing back across the same edge.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Delta returns the coordinate offset of one step in this direction.
func (d Direction) Delta() (int, int) {
	return dx[d], dy[d]
}

// String returns the string representation of a Direction
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Coord is a cell position, x is the column and y the row.
type Coord struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// Step returns the neighbouring coordinate in direction d.
// The result may lie outside the grid.
func (c Coord) Step(d Direction) Coord {
	return Coord{X: c.X + dx[d], Y: c.Y + dy[d]}
}
