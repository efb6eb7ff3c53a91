// Package dispatch runs the read loop: one envelope is read, routed to its
// handler and fully handled before the next one is read.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/DoyleJ11/shipbot/internal/client"
	"github.com/DoyleJ11/shipbot/internal/logging"
	"github.com/DoyleJ11/shipbot/internal/types"
)

// Transport delivers raw inbound frames and accepts outbound envelopes.
type Transport interface {
	client.Sink
	Read(ctx context.Context) ([]byte, error)
}

// ErrorObserver is told about every event whose handling failed.
type ErrorObserver interface {
	EventFailed(eventType string, err error)
}

type Options struct {
	Verbose  bool
	Logger   *zap.Logger
	Observer ErrorObserver
}

type Dispatcher struct {
	client    *client.Client
	handlers  client.Handlers
	transport Transport
	verbose   bool
	observer  ErrorObserver
	log       *zap.Logger
}

func New(c *client.Client, handlers client.Handlers, t Transport, opts Options) *Dispatcher {
	return &Dispatcher{
		client:    c,
		handlers:  handlers,
		transport: t,
		verbose:   opts.Verbose,
		observer:  opts.Observer,
		log:       logging.OrNop(opts.Logger),
	}
}

// Run reads until the transport fails or ctx is cancelled. Handler failures
// are logged and never end the loop.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		frame, err := d.transport.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read: %w", err)
		}

		var env types.Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			d.log.Warn("dropping malformed frame", zap.Error(err), zap.Int("bytes", len(frame)))
			continue
		}

		if err := d.Dispatch(ctx, env); err != nil {
			logging.Fault(d.log, d.verbose, "event handling failed", err,
				zap.String("event", env.EventType),
				zap.Stringer("state", d.client.State()))
			if d.observer != nil {
				d.observer.EventFailed(env.EventType, err)
			}
		}
	}
}

// Dispatch routes a single envelope. Unknown event types are ignored. A
// panicking handler is reported as an error.
func (d *Dispatcher) Dispatch(ctx context.Context, env types.Envelope) (err error) {
	d.log.Debug("received event", zap.String("event", env.EventType))

	handler, ok := d.handlers[env.EventType]
	if !ok {
		d.log.Debug("ignoring unknown event", zap.String("event", env.EventType))
		return nil
	}

	defer func() {
		if perr := logging.Recovered(recover()); perr != nil {
			err = perr
		}
	}()
	return handler(ctx, d.client, env.Data, d.transport)
}
