// Package codec translates between the JSON wire shapes of the game server
// and the structured values in package game.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DoyleJ11/shipbot/internal/game"
)

var (
	ErrUnknownCellType  = errors.New("unknown cell type")
	ErrUnknownDirection = errors.New("unknown compass direction")
	ErrUnknownAction    = errors.New("unknown action")
)

// StateDecoder turns a raw gameTick payload into a game state.
type StateDecoder interface {
	DecodeState(raw json.RawMessage) (game.State, error)
}

// ActionEncoder turns a command into a gameAction payload.
type ActionEncoder interface {
	EncodeCommand(cmd game.Command) (json.RawMessage, error)
}

// JSON implements both StateDecoder and ActionEncoder for the server's JSON
// protocol.
type JSON struct{}

var (
	_ StateDecoder  = JSON{}
	_ ActionEncoder = JSON{}
)

var directionCodes = map[game.CompassDirection]string{
	game.North:     "n",
	game.NorthEast: "ne",
	game.East:      "e",
	game.SouthEast: "se",
	game.South:     "s",
	game.SouthWest: "sw",
	game.West:      "w",
	game.NorthWest: "nw",
}

var directionsByCode = func() map[string]game.CompassDirection {
	m := make(map[string]game.CompassDirection, len(directionCodes))
	for d, code := range directionCodes {
		m[code] = d
	}
	return m
}()

func DirectionCode(d game.CompassDirection) (string, error) {
	code, ok := directionCodes[d]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
	}
	return code, nil
}

func ParseDirection(code string) (game.CompassDirection, error) {
	d, ok := directionsByCode[code]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, code)
	}
	return d, nil
}

// Wire shapes.

type wireState struct {
	TurnNumber int          `json:"turnNumber"`
	GameMap    [][]wireCell `json:"gameMap"`
}

type wireCell struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type wirePosition struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type wireHitBox struct {
	EntityID string `json:"entityId"`
}

type wireShip struct {
	ID        string       `json:"id"`
	Position  wirePosition `json:"position"`
	Direction string       `json:"direction"`
	Health    *int         `json:"health"`
	Heat      *int         `json:"heat"`
}

type wireProjectile struct {
	ID        string       `json:"id"`
	Position  wirePosition `json:"position"`
	Direction string       `json:"direction"`
	Velocity  int          `json:"velocity"`
	Mass      int          `json:"mass"`
}

type wireCommand struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

type wireMove struct {
	Distance int `json:"distance"`
}

type wireTurn struct {
	Direction string `json:"direction"`
}

type wireShoot struct {
	Mass  int `json:"mass"`
	Speed int `json:"speed"`
}

func (JSON) DecodeState(raw json.RawMessage) (game.State, error) {
	var ws wireState
	if err := json.Unmarshal(raw, &ws); err != nil {
		return game.State{}, fmt.Errorf("decode game state: %w", err)
	}

	m := make([][]game.Cell, len(ws.GameMap))
	for y, row := range ws.GameMap {
		m[y] = make([]game.Cell, len(row))
		for x, wc := range row {
			cell, err := decodeCell(wc)
			if err != nil {
				return game.State{}, fmt.Errorf("decode cell (%d,%d): %w", x, y, err)
			}
			m[y][x] = cell
		}
	}
	return game.State{TurnNumber: ws.TurnNumber, Map: m}, nil
}

func decodeCell(wc wireCell) (game.Cell, error) {
	cellType := game.CellType(wc.Type)
	switch cellType {
	case game.CellEmpty, game.CellOutOfVision, game.CellAudioSignature:
		return game.Cell{Type: cellType, Data: game.NoData{}}, nil

	case game.CellHitBox:
		var hb wireHitBox
		if err := unmarshalData(wc.Data, &hb); err != nil {
			return game.Cell{}, err
		}
		return game.Cell{Type: cellType, Data: game.HitBox{EntityID: hb.EntityID}}, nil

	case game.CellShip:
		var s wireShip
		if err := unmarshalData(wc.Data, &s); err != nil {
			return game.Cell{}, err
		}
		entity, err := decodeEntity(s.ID, s.Position, s.Direction)
		if err != nil {
			return game.Cell{}, err
		}
		return game.Cell{Type: cellType, Data: game.Ship{Entity: entity, Health: s.Health, Heat: s.Heat}}, nil

	case game.CellProjectile:
		var p wireProjectile
		if err := unmarshalData(wc.Data, &p); err != nil {
			return game.Cell{}, err
		}
		entity, err := decodeEntity(p.ID, p.Position, p.Direction)
		if err != nil {
			return game.Cell{}, err
		}
		return game.Cell{Type: cellType, Data: game.Projectile{Entity: entity, Velocity: p.Velocity, Mass: p.Mass}}, nil

	default:
		return game.Cell{}, fmt.Errorf("%w: %q", ErrUnknownCellType, wc.Type)
	}
}

func unmarshalData(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return errors.New("missing cell data")
	}
	return json.Unmarshal(raw, v)
}

func decodeEntity(id string, pos wirePosition, direction string) (game.Entity, error) {
	d, err := ParseDirection(direction)
	if err != nil {
		return game.Entity{}, err
	}
	return game.Entity{ID: id, Position: game.Coordinates{X: pos.X, Y: pos.Y}, Direction: d}, nil
}

func (JSON) EncodeCommand(cmd game.Command) (json.RawMessage, error) {
	var payload any
	switch p := cmd.Payload.(type) {
	case game.MoveAction:
		payload = wireMove{Distance: p.Distance}
	case game.TurnAction:
		code, err := DirectionCode(p.Direction)
		if err != nil {
			return nil, err
		}
		payload = wireTurn{Direction: code}
	case game.ShootAction:
		payload = wireShoot{Mass: p.Mass, Speed: p.Speed}
	default:
		return nil, fmt.Errorf("%w: payload %T", ErrUnknownAction, cmd.Payload)
	}

	rawPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireCommand{Action: string(cmd.Action), Payload: rawPayload})
}

// DecodeCommand is the inverse of EncodeCommand. The client never receives
// commands; it exists for tooling and tests.
func (JSON) DecodeCommand(raw json.RawMessage) (game.Command, error) {
	var wc wireCommand
	if err := json.Unmarshal(raw, &wc); err != nil {
		return game.Command{}, fmt.Errorf("decode command: %w", err)
	}

	switch game.ActionType(wc.Action) {
	case game.ActionMove:
		var m wireMove
		if err := json.Unmarshal(wc.Payload, &m); err != nil {
			return game.Command{}, err
		}
		return game.Move(m.Distance), nil
	case game.ActionTurn:
		var tr wireTurn
		if err := json.Unmarshal(wc.Payload, &tr); err != nil {
			return game.Command{}, err
		}
		d, err := ParseDirection(tr.Direction)
		if err != nil {
			return game.Command{}, err
		}
		return game.Turn(d), nil
	case game.ActionShoot:
		var s wireShoot
		if err := json.Unmarshal(wc.Payload, &s); err != nil {
			return game.Command{}, err
		}
		return game.Shoot(s.Mass, s.Speed), nil
	default:
		return game.Command{}, fmt.Errorf("%w: %q", ErrUnknownAction, wc.Action)
	}
}
