package strategy

import (
	"context"
	"fmt"

	"github.com/DoyleJ11/shipbot/internal/game"
	"github.com/DoyleJ11/shipbot/internal/session"
)

const (
	maxHeat     = 25
	shotHeat    = 4
	shotMass    = 4
	shotSpeed   = 1
	cruiseSpeed = 1

	keyTarget = "hunter.target"
	keyTicks  = "hunter.ticks"
)

// Hunter turns toward the closest enemy it can see (or hear) and fires once
// lined up. It moves instead of shooting while it is too hot to fire.
type Hunter struct {
	ShipID        string
	MaxTurnRadius int
}

// NewHunter follows the server's ship id convention "ship:<bot>:main".
func NewHunter(botName string, maxTurnRadius int) *Hunter {
	return &Hunter{ShipID: fmt.Sprintf("ship:%s:main", botName), MaxTurnRadius: maxTurnRadius}
}

func (h *Hunter) Decide(_ context.Context, sess *session.Session, state game.State) (*game.Command, error) {
	if sess != nil {
		sess.Update(keyTicks, func(old any, ok bool) any {
			if n, isInt := old.(int); ok && isInt {
				return n + 1
			}
			return 1
		})
	}

	pos, ok := game.EntityCoordinates(h.ShipID, state.Map)
	if !ok {
		return nil, nil
	}
	cell, _ := state.At(pos)
	ship, ok := cell.Data.(game.Ship)
	if !ok {
		return nil, fmt.Errorf("cell at %+v holds %T, not our ship", pos, cell.Data)
	}

	if ship.Heat != nil && maxHeat-*ship.Heat < shotHeat {
		cmd := game.Move(cruiseSpeed)
		return &cmd, nil
	}

	target, ok := h.findTarget(state, pos)
	if !ok {
		cmd := game.Move(cruiseSpeed)
		return &cmd, nil
	}
	if sess != nil {
		sess.Set(keyTarget, target)
	}

	want := game.ApproximateDirection(game.CoordinateDifference(pos, target))
	if ship.Direction == want {
		cmd := game.Shoot(shotMass, shotSpeed)
		return &cmd, nil
	}

	radius := h.MaxTurnRadius
	if sess != nil && sess.TurnRate > 0 {
		radius = sess.TurnRate
	}
	cmd := game.Turn(game.PartialTurn(ship.Direction, want, radius))
	return &cmd, nil
}

// findTarget prefers the nearest visible enemy ship and falls back to the
// nearest audio signature.
func (h *Hunter) findTarget(state game.State, from game.Coordinates) (game.Coordinates, bool) {
	var (
		best      game.Coordinates
		bestDist  = -1
		bestAudio game.Coordinates
		audioDist = -1
	)
	for y, row := range state.Map {
		for x, cell := range row {
			here := game.Coordinates{X: x, Y: y}
			d := manhattan(from, here)
			switch data := cell.Data.(type) {
			case game.Ship:
				if data.ID == h.ShipID {
					continue
				}
				if bestDist < 0 || d < bestDist {
					best, bestDist = here, d
				}
			case game.NoData:
				if cell.Type == game.CellAudioSignature && (audioDist < 0 || d < audioDist) {
					bestAudio, audioDist = here, d
				}
			}
		}
	}
	if bestDist >= 0 {
		return best, true
	}
	return bestAudio, audioDist >= 0
}

func manhattan(a, b game.Coordinates) int {
	d := game.CoordinateDifference(a, b)
	return abs(d.X) + abs(d.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
