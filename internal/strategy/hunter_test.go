package strategy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/shipbot/internal/game"
	"github.com/DoyleJ11/shipbot/internal/session"
)

func intPtr(n int) *int { return &n }

func shipCell(id string, pos game.Coordinates, dir game.CompassDirection, heat *int) game.Cell {
	return game.Cell{Type: game.CellShip, Data: game.Ship{
		Entity: game.Entity{ID: id, Position: pos, Direction: dir},
		Heat:   heat,
	}}
}

// arena puts our ship at x=1,y=1 and, when enemy is set, an enemy at x=1,y=3.
func arena(facing game.CompassDirection, heat int, enemy bool) game.State {
	m := make([][]game.Cell, 4)
	for y := range m {
		m[y] = []game.Cell{game.EmptyCell(), game.EmptyCell(), game.EmptyCell()}
	}
	m[1][1] = shipCell("ship:bot:main", game.Coordinates{X: 1, Y: 1}, facing, intPtr(heat))
	if enemy {
		m[3][1] = shipCell("ship:enemy:main", game.Coordinates{X: 1, Y: 3}, game.North, nil)
	}
	return game.State{TurnNumber: 1, Map: m}
}

func TestHunter(t *testing.T) {
	cases := []struct {
		name  string
		state game.State
		want  *game.Command
	}{
		{
			name:  "shoots when lined up",
			state: arena(game.East, 0, true),
			want:  &game.Command{Action: game.ActionShoot, Payload: game.ShootAction{Mass: shotMass, Speed: shotSpeed}},
		},
		{
			name:  "turns toward enemy within turn rate",
			state: arena(game.North, 0, true),
			want:  &game.Command{Action: game.ActionTurn, Payload: game.TurnAction{Direction: game.NorthEast}},
		},
		{
			name:  "moves to cool down when hot",
			state: arena(game.East, 23, true),
			want:  &game.Command{Action: game.ActionMove, Payload: game.MoveAction{Distance: cruiseSpeed}},
		},
		{
			name:  "cruises with nothing in sight",
			state: arena(game.East, 0, false),
			want:  &game.Command{Action: game.ActionMove, Payload: game.MoveAction{Distance: cruiseSpeed}},
		},
		{
			name:  "no action without our ship",
			state: game.State{Map: [][]game.Cell{{game.EmptyCell()}}},
			want:  nil,
		},
	}

	h := NewHunter("bot", 2)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sess := session.New(100*time.Millisecond, 1)
			got, err := h.Decide(context.Background(), sess, tc.state)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)

			ticks, ok := sess.Get(keyTicks)
			require.True(t, ok)
			assert.Equal(t, 1, ticks)
		})
	}
}

func TestHunter_FollowsAudioSignature(t *testing.T) {
	state := arena(game.North, 0, false)
	state.Map[1][2] = game.Cell{Type: game.CellAudioSignature, Data: game.NoData{}}

	sess := session.New(100*time.Millisecond, 0)
	got, err := NewHunter("bot", 2).Decide(context.Background(), sess, state)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, game.ActionTurn, got.Action)

	target, ok := sess.Get(keyTarget)
	require.True(t, ok)
	assert.Equal(t, game.Coordinates{X: 2, Y: 1}, target)
}

func TestIdle(t *testing.T) {
	got, err := Idle.Decide(context.Background(), nil, game.State{})
	assert.NoError(t, err)
	assert.Nil(t, got)
}
