package game

import "math"

// CoordinateDifference returns the vector pointing from origin to target.
func CoordinateDifference(origin, target Coordinates) Coordinates {
	return Coordinates{X: target.X - origin.X, Y: target.Y - origin.Y}
}

// vectorAngle measures degrees clockwise from North, where North is the
// negative x axis of the map grid.
func vectorAngle(v Coordinates) float64 {
	deg := math.Atan2(float64(v.Y), -float64(v.X)) * 180 / math.Pi
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// ApproximateDirection snaps a vector to the closest of the eight compass
// directions.
func ApproximateDirection(v Coordinates) CompassDirection {
	angle := vectorAngle(v)
	cutoff := 360.0 / 16
	if angle >= 15*cutoff || angle < cutoff {
		return North
	}
	for d := NorthEast; d <= NorthWest; d++ {
		if angle < float64(2*int(d)+1)*cutoff {
			return d
		}
	}
	return NorthWest
}

// EntityCoordinates locates the ship or projectile with the given id.
// Hit boxes sharing the id are skipped.
func EntityCoordinates(id string, m [][]Cell) (Coordinates, bool) {
	for y, row := range m {
		for x, cell := range row {
			var entityID string
			switch data := cell.Data.(type) {
			case Ship:
				entityID = data.ID
			case Projectile:
				entityID = data.ID
			default:
				continue
			}
			if entityID == id {
				return Coordinates{X: x, Y: y}, true
			}
		}
	}
	return Coordinates{}, false
}

// PartialTurn rotates from start toward target by at most maxTurn eighths,
// taking the shorter way round. A half turn goes clockwise.
func PartialTurn(start, target CompassDirection, maxTurn int) CompassDirection {
	turn := mod(int(target)-int(start), directionCount)
	if turn > directionCount/2 {
		turn = max(turn-directionCount, -maxTurn)
	} else {
		turn = min(turn, maxTurn)
	}
	return CompassDirection(mod(int(start)+turn, directionCount))
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
