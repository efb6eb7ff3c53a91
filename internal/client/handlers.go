package client

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/shipbot/internal/logging"
	"github.com/DoyleJ11/shipbot/internal/runner"
	"github.com/DoyleJ11/shipbot/internal/session"
	"github.com/DoyleJ11/shipbot/internal/types"
)

// Handler processes one inbound event.
type Handler func(ctx context.Context, c *Client, data json.RawMessage, out Sink) error

// Handlers maps event types to handlers. It is built once per process and
// is read-only afterwards.
type Handlers map[string]Handler

// TickRunner turns a raw gameTick payload into an encoded action.
type TickRunner interface {
	RunTick(ctx context.Context, sess *session.Session, raw json.RawMessage) (runner.Result, error)
}

func NewHandlers(r TickRunner, logger *zap.Logger) Handlers {
	h := &handlers{runner: r, log: logging.OrNop(logger)}
	return Handlers{
		types.EventAuthAck:   h.authAck,
		types.EventStartGame: h.startGame,
		types.EventGameTick:  h.gameTick,
		types.EventEndGame:   h.endGame,
	}
}

type handlers struct {
	runner TickRunner
	log    *zap.Logger
}

// authAck is a no-op outside Unauthorized so duplicate or late acks are
// harmless.
func (h *handlers) authAck(_ context.Context, c *Client, _ json.RawMessage, _ Sink) error {
	if c.state != Unauthorized {
		return nil
	}
	c.setState(Idle)
	h.log.Info("authorization successful")
	return nil
}

func (h *handlers) startGame(ctx context.Context, c *Client, data json.RawMessage, out Sink) error {
	if err := c.require(types.EventStartGame, Idle); err != nil {
		return err
	}

	// A bad payload still starts the game: the server expects a startAck and
	// a reply to every tick that follows. Zero tick length means no deadline.
	var start types.StartGameData
	if len(data) > 0 {
		if err := json.Unmarshal(data, &start); err != nil {
			h.log.Warn("undecodable startGame payload, starting with defaults", zap.Error(err))
			start = types.StartGameData{}
		}
	}

	c.session = session.New(time.Duration(start.TickLength)*time.Millisecond, start.TurnRate)
	c.setState(InGame)
	h.log.Info("game started",
		zap.Stringer("session", c.session.ID),
		zap.Duration("tick_length", c.session.TickLength),
		zap.Int("turn_rate", c.session.TurnRate))

	return out.Send(ctx, types.Ack(types.EventStartAck))
}

func (h *handlers) gameTick(ctx context.Context, c *Client, data json.RawMessage, out Sink) error {
	if err := c.require(types.EventGameTick, InGame); err != nil {
		return err
	}

	res, err := h.runner.RunTick(ctx, c.session, data)
	if err != nil {
		return err
	}
	c.observer.TickHandled(res)

	return out.Send(ctx, types.Envelope{EventType: types.EventGameAction, Data: res.Payload})
}

func (h *handlers) endGame(ctx context.Context, c *Client, _ json.RawMessage, out Sink) error {
	if err := c.require(types.EventEndGame, InGame); err != nil {
		return err
	}

	h.log.Info("game ended", zap.Stringer("session", c.session.ID))
	c.session = nil
	c.setState(Idle)

	return out.Send(ctx, types.Ack(types.EventEndAck))
}
