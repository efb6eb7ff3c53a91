package game

import "fmt"

type Coordinates struct {
	X int
	Y int
}

// CompassDirection counts eighths of a circle clockwise from North.
type CompassDirection int

const (
	North CompassDirection = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

const directionCount = 8

func (d CompassDirection) Valid() bool { return d >= North && d <= NorthWest }

func (d CompassDirection) String() string {
	switch d {
	case North:
		return "North"
	case NorthEast:
		return "NorthEast"
	case East:
		return "East"
	case SouthEast:
		return "SouthEast"
	case South:
		return "South"
	case SouthWest:
		return "SouthWest"
	case West:
		return "West"
	case NorthWest:
		return "NorthWest"
	default:
		return fmt.Sprintf("CompassDirection(%d)", int(d))
	}
}

type CellType string

const (
	CellEmpty          CellType = "empty"
	CellOutOfVision    CellType = "outOfVision"
	CellAudioSignature CellType = "audioSignature"
	CellHitBox         CellType = "hitBox"
	CellShip           CellType = "ship"
	CellProjectile     CellType = "projectile"
)

// CellData is the per-type payload of a Cell. Exactly one implementation
// belongs to each CellType.
type CellData interface{ isCellData() }

// NoData is carried by Empty, OutOfVision and AudioSignature cells.
type NoData struct{}

func (NoData) isCellData() {}

type HitBox struct {
	EntityID string
}

func (HitBox) isCellData() {}

type Entity struct {
	ID        string
	Position  Coordinates
	Direction CompassDirection
}

type Ship struct {
	Entity
	// Health and Heat are only visible for some ships.
	Health *int
	Heat   *int
}

func (Ship) isCellData() {}

type Projectile struct {
	Entity
	Velocity int
	Mass     int
}

func (Projectile) isCellData() {}

type Cell struct {
	Type CellType
	Data CellData
}

// EmptyCell is a convenience for building maps in tests and strategies.
func EmptyCell() Cell { return Cell{Type: CellEmpty, Data: NoData{}} }

// State is one tick's snapshot. Map is indexed Map[y][x].
type State struct {
	TurnNumber int
	Map        [][]Cell
}

// At returns the cell at c, or false when c lies outside the map.
func (s State) At(c Coordinates) (Cell, bool) {
	if c.Y < 0 || c.Y >= len(s.Map) {
		return Cell{}, false
	}
	row := s.Map[c.Y]
	if c.X < 0 || c.X >= len(row) {
		return Cell{}, false
	}
	return row[c.X], true
}
