// Package client holds the connection state machine and the handlers for
// every inbound event type.
package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/DoyleJ11/shipbot/internal/runner"
	"github.com/DoyleJ11/shipbot/internal/session"
	"github.com/DoyleJ11/shipbot/internal/types"
)

var ErrPrecondition = errors.New("event not valid in current state")

type State int

const (
	Unconnected State = iota
	Unauthorized
	Idle
	InGame
)

func (s State) String() string {
	switch s {
	case Unconnected:
		return "Unconnected"
	case Unauthorized:
		return "Unauthorized"
	case Idle:
		return "Idle"
	case InGame:
		return "InGame"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// PreconditionError reports an event that arrived in the wrong state.
type PreconditionError struct {
	Event    string
	Required State
	Actual   State
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s can only be handled in %s state, state right now is %s", e.Event, e.Required, e.Actual)
}

func (e *PreconditionError) Unwrap() error { return ErrPrecondition }

// Sink is where handlers write outbound envelopes.
type Sink interface {
	Send(ctx context.Context, env types.Envelope) error
}

// Observer is told about state transitions and finished ticks. Calls happen
// on the dispatch goroutine and must not block.
type Observer interface {
	StateChanged(s State)
	TickHandled(res runner.Result)
}

type nopObserver struct{}

func (nopObserver) StateChanged(State)        {}
func (nopObserver) TickHandled(runner.Result) {}

// Client is the per-connection state. It is only touched by the dispatch
// goroutine.
type Client struct {
	state    State
	session  *session.Session
	observer Observer
}

func New(obs Observer) *Client {
	if obs == nil {
		obs = nopObserver{}
	}
	return &Client{state: Unconnected, observer: obs}
}

func (c *Client) State() State { return c.state }

// Session is nil outside of a game.
func (c *Client) Session() *session.Session { return c.session }

func (c *Client) setState(s State) {
	c.state = s
	c.observer.StateChanged(s)
}

func (c *Client) require(event string, want State) error {
	if c.state != want {
		return &PreconditionError{Event: event, Required: want, Actual: c.state}
	}
	return nil
}

// Authorize sends the auth envelope on a fresh connection and moves the
// client to Unauthorized until the server acknowledges it.
func (c *Client) Authorize(ctx context.Context, out Sink, token, botName string) error {
	if err := c.require(types.EventAuth, Unconnected); err != nil {
		return err
	}
	env, err := types.NewEnvelope(types.EventAuth, types.AuthData{Token: token, BotName: botName})
	if err != nil {
		return err
	}
	if err := out.Send(ctx, env); err != nil {
		return fmt.Errorf("send auth: %w", err)
	}
	c.setState(Unauthorized)
	return nil
}
