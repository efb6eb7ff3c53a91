package game

import (
	"errors"
	"testing"
)

func TestCommandValidate(t *testing.T) {
	cases := []struct {
		name    string
		cmd     Command
		wantErr bool
	}{
		{name: "move zero", cmd: Move(0)},
		{name: "move max", cmd: Move(MaxMoveDistance)},
		{name: "move too far", cmd: Move(4), wantErr: true},
		{name: "move backwards", cmd: Move(-1), wantErr: true},
		{name: "turn", cmd: Turn(SouthWest)},
		{name: "turn invalid direction", cmd: Turn(CompassDirection(9)), wantErr: true},
		{name: "shoot", cmd: Shoot(2, 5)},
		{name: "mismatched action", cmd: Command{Action: ActionShoot, Payload: MoveAction{}}, wantErr: true},
		{name: "missing payload", cmd: Command{Action: ActionMove}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cmd.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
		})
	}

	if err := Move(7).Validate(); !errors.Is(err, ErrInvalidDistance) {
		t.Fatalf("want ErrInvalidDistance, got %v", err)
	}
}

func TestFallbackIsMoveZero(t *testing.T) {
	fb := Fallback()
	if fb.Action != ActionMove {
		t.Fatalf("fallback action: got %q", fb.Action)
	}
	if p, ok := fb.Payload.(MoveAction); !ok || p.Distance != 0 {
		t.Fatalf("fallback payload: got %#v", fb.Payload)
	}
}

func TestStateAt(t *testing.T) {
	s := State{Map: [][]Cell{{EmptyCell(), {Type: CellHitBox, Data: HitBox{EntityID: "x"}}}}}
	c, ok := s.At(Coordinates{X: 1, Y: 0})
	if !ok || c.Type != CellHitBox {
		t.Fatalf("got %+v ok=%v", c, ok)
	}
	if _, ok := s.At(Coordinates{X: 2, Y: 0}); ok {
		t.Fatalf("expected out of bounds")
	}
	if _, ok := s.At(Coordinates{X: 0, Y: -1}); ok {
		t.Fatalf("expected out of bounds")
	}
}
