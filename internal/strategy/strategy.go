// Package strategy defines the contract for team AI and ships two
// implementations.
package strategy

import (
	"context"

	"github.com/DoyleJ11/shipbot/internal/game"
	"github.com/DoyleJ11/shipbot/internal/session"
)

// Strategy decides one tick. Returning a nil command means "do nothing" and
// is answered with a zero-distance move.
//
// ctx is cancelled once the tick's deadline passes. The caller does not wait
// for Decide to notice; anything it returns after that point is discarded.
type Strategy interface {
	Decide(ctx context.Context, sess *session.Session, state game.State) (*game.Command, error)
}

type Func func(ctx context.Context, sess *session.Session, state game.State) (*game.Command, error)

func (f Func) Decide(ctx context.Context, sess *session.Session, state game.State) (*game.Command, error) {
	return f(ctx, sess, state)
}

// Idle never acts.
var Idle = Func(func(context.Context, *session.Session, game.State) (*game.Command, error) {
	return nil, nil
})
