package game

import (
	"errors"
	"fmt"
)

var ErrInvalidDistance = errors.New("move distance out of range")

type ActionType string

const (
	ActionMove  ActionType = "move"
	ActionTurn  ActionType = "turn"
	ActionShoot ActionType = "shoot"
)

const MaxMoveDistance = 3

type Payload interface{ isPayload() }

type MoveAction struct {
	Distance int
}

func (MoveAction) isPayload() {}

type TurnAction struct {
	Direction CompassDirection
}

func (TurnAction) isPayload() {}

type ShootAction struct {
	Mass  int
	Speed int
}

func (ShootAction) isPayload() {}

// Command is what a strategy returns for a tick. Action always matches the
// concrete Payload type when built through the constructors below.
type Command struct {
	Action  ActionType
	Payload Payload
}

func Move(distance int) Command {
	return Command{Action: ActionMove, Payload: MoveAction{Distance: distance}}
}

func Turn(direction CompassDirection) Command {
	return Command{Action: ActionTurn, Payload: TurnAction{Direction: direction}}
}

func Shoot(mass, speed int) Command {
	return Command{Action: ActionShoot, Payload: ShootAction{Mass: mass, Speed: speed}}
}

// Fallback is sent whenever a tick produced no usable command.
func Fallback() Command { return Move(0) }

func (c Command) Validate() error {
	switch p := c.Payload.(type) {
	case MoveAction:
		if c.Action != ActionMove {
			return fmt.Errorf("action %q with move payload", c.Action)
		}
		if p.Distance < 0 || p.Distance > MaxMoveDistance {
			return fmt.Errorf("%w: %d", ErrInvalidDistance, p.Distance)
		}
	case TurnAction:
		if c.Action != ActionTurn {
			return fmt.Errorf("action %q with turn payload", c.Action)
		}
		if !p.Direction.Valid() {
			return fmt.Errorf("invalid turn direction %d", int(p.Direction))
		}
	case ShootAction:
		if c.Action != ActionShoot {
			return fmt.Errorf("action %q with shoot payload", c.Action)
		}
	case nil:
		return fmt.Errorf("action %q without payload", c.Action)
	default:
		return fmt.Errorf("unsupported payload %T", p)
	}
	return nil
}

func (c Command) String() string {
	switch p := c.Payload.(type) {
	case MoveAction:
		return fmt.Sprintf("move(%d)", p.Distance)
	case TurnAction:
		return fmt.Sprintf("turn(%s)", p.Direction)
	case ShootAction:
		return fmt.Sprintf("shoot(mass=%d, speed=%d)", p.Mass, p.Speed)
	default:
		return string(c.Action)
	}
}
