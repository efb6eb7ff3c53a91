package codec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DoyleJ11/shipbot/internal/game"
)

func decodeOne(t *testing.T, cell string) game.Cell {
	t.Helper()
	raw := json.RawMessage(`{"turnNumber": 1, "gameMap": [[` + cell + `]]}`)
	state, err := JSON{}.DecodeState(raw)
	require.NoError(t, err)
	require.Len(t, state.Map, 1)
	require.Len(t, state.Map[0], 1)
	return state.Map[0][0]
}

func TestDecodeState_NoDataCells(t *testing.T) {
	for _, typ := range []game.CellType{game.CellEmpty, game.CellOutOfVision, game.CellAudioSignature} {
		cell := decodeOne(t, `{"type": "`+string(typ)+`", "data": {}}`)
		assert.Equal(t, typ, cell.Type)
		assert.Equal(t, game.NoData{}, cell.Data)
	}
}

func TestDecodeState_HitBox(t *testing.T) {
	cell := decodeOne(t, `{"type": "hitBox", "data": {"entityId": "myShipId"}}`)
	assert.Equal(t, game.CellHitBox, cell.Type)
	assert.Equal(t, game.HitBox{EntityID: "myShipId"}, cell.Data)
}

func TestDecodeState_Ship(t *testing.T) {
	cell := decodeOne(t, `{"type": "ship", "data": {
		"id": "myShipId", "position": {"x": 1, "y": 2}, "direction": "ne", "health": 10, "heat": 3}}`)
	require.Equal(t, game.CellShip, cell.Type)

	ship, ok := cell.Data.(game.Ship)
	require.True(t, ok, "data is %T", cell.Data)
	assert.Equal(t, "myShipId", ship.ID)
	assert.Equal(t, game.Coordinates{X: 1, Y: 2}, ship.Position)
	assert.Equal(t, game.NorthEast, ship.Direction)
	require.NotNil(t, ship.Health)
	require.NotNil(t, ship.Heat)
	assert.Equal(t, 10, *ship.Health)
	assert.Equal(t, 3, *ship.Heat)
}

func TestDecodeState_ShipWithHiddenStats(t *testing.T) {
	cell := decodeOne(t, `{"type": "ship", "data": {
		"id": "enemy", "position": {"x": 0, "y": 0}, "direction": "s", "health": null, "heat": null}}`)
	ship := cell.Data.(game.Ship)
	assert.Nil(t, ship.Health)
	assert.Nil(t, ship.Heat)
}

func TestDecodeState_Projectile(t *testing.T) {
	cell := decodeOne(t, `{"type": "projectile", "data": {
		"id": "projectileId", "position": {"x": 5, "y": 3}, "direction": "sw", "velocity": 4, "mass": 2}}`)
	require.Equal(t, game.CellProjectile, cell.Type)
	assert.Equal(t, game.Projectile{
		Entity:   game.Entity{ID: "projectileId", Position: game.Coordinates{X: 5, Y: 3}, Direction: game.SouthWest},
		Velocity: 4,
		Mass:     2,
	}, cell.Data)
}

func TestDecodeState_WholeMatrix(t *testing.T) {
	row := make([]map[string]any, 10)
	for i := range row {
		row[i] = map[string]any{"type": "empty", "data": map[string]any{}}
	}
	rows := make([][]map[string]any, 10)
	for i := range rows {
		rows[i] = row
	}
	raw, err := json.Marshal(map[string]any{"turnNumber": 82, "gameMap": rows})
	require.NoError(t, err)

	state, err := JSON{}.DecodeState(raw)
	require.NoError(t, err)
	assert.Equal(t, 82, state.TurnNumber)
	require.Len(t, state.Map, 10)
	for _, r := range state.Map {
		assert.Len(t, r, 10)
	}
}

func TestDecodeState_Errors(t *testing.T) {
	cases := map[string]string{
		"bad json":          `{"turnNumber": `,
		"unknown cell type": `{"turnNumber": 1, "gameMap": [[{"type": "wormhole", "data": {}}]]}`,
		"unknown direction": `{"turnNumber": 1, "gameMap": [[{"type": "ship", "data": {"id": "a", "position": {"x": 0, "y": 0}, "direction": "up"}}]]}`,
		"missing data":      `{"turnNumber": 1, "gameMap": [[{"type": "hitBox"}]]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := JSON{}.DecodeState(json.RawMessage(raw))
			assert.Error(t, err)
		})
	}

	_, err := JSON{}.DecodeState(json.RawMessage(cases["unknown cell type"]))
	assert.ErrorIs(t, err, ErrUnknownCellType)
	_, err = JSON{}.DecodeState(json.RawMessage(cases["unknown direction"]))
	assert.ErrorIs(t, err, ErrUnknownDirection)
}

func TestEncodeCommand_WireShape(t *testing.T) {
	cases := []struct {
		name string
		cmd  game.Command
		want string
	}{
		{"move", game.Move(3), `{"action":"move","payload":{"distance":3}}`},
		{"turn", game.Turn(game.West), `{"action":"turn","payload":{"direction":"w"}}`},
		{"shoot", game.Shoot(2, 5), `{"action":"shoot","payload":{"mass":2,"speed":5}}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := JSON{}.EncodeCommand(tc.cmd)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(raw))
		})
	}
}

func TestCommandRoundTrip(t *testing.T) {
	for _, cmd := range []game.Command{game.Move(3), game.Turn(game.SouthEast), game.Shoot(4, 1)} {
		raw, err := JSON{}.EncodeCommand(cmd)
		require.NoError(t, err)
		got, err := JSON{}.DecodeCommand(raw)
		require.NoError(t, err)
		assert.Equal(t, cmd, got)
	}
}

func TestEncodeCommand_Rejects(t *testing.T) {
	_, err := JSON{}.EncodeCommand(game.Command{Action: game.ActionMove})
	assert.ErrorIs(t, err, ErrUnknownAction)

	_, err = JSON{}.EncodeCommand(game.Turn(game.CompassDirection(12)))
	assert.ErrorIs(t, err, ErrUnknownDirection)
}

func TestDirectionCodes(t *testing.T) {
	codes := []string{"n", "ne", "e", "se", "s", "sw", "w", "nw"}
	for i, code := range codes {
		d, err := ParseDirection(code)
		require.NoError(t, err)
		assert.Equal(t, game.CompassDirection(i), d)

		back, err := DirectionCode(d)
		require.NoError(t, err)
		assert.Equal(t, code, back)
	}
}
