// Package ws is the websocket transport between the bot and the game server.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/DoyleJ11/shipbot/internal/logging"
	"github.com/DoyleJ11/shipbot/internal/types"
)

const (
	// Game maps are sent whole every tick and easily exceed the library's
	// 32KiB default.
	readLimit    = 4 << 20
	writeTimeout = 3 * time.Second
)

// Conn carries envelopes over a websocket. Read must only be called from
// one goroutine; Send may be called concurrently.
type Conn struct {
	ws  *websocket.Conn
	log *zap.Logger
}

func Dial(ctx context.Context, url string, logger *zap.Logger) (*Conn, error) {
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	c.SetReadLimit(readLimit)
	return &Conn{ws: c, log: logging.OrNop(logger)}, nil
}

// Read blocks for the next frame.
func (c *Conn) Read(ctx context.Context) ([]byte, error) {
	typ, data, err := c.ws.Read(ctx)
	if err != nil {
		return nil, err
	}
	if typ != websocket.MessageText {
		c.log.Debug("received binary frame", zap.Int("bytes", len(data)))
	}
	return data, nil
}

func (c *Conn) Send(ctx context.Context, env types.Envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode %s: %w", env.EventType, err)
	}

	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := c.ws.Write(wctx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("write %s: %w", env.EventType, err)
	}
	c.log.Debug("sent event", zap.String("event", env.EventType))
	return nil
}

func (c *Conn) Close() error {
	err := c.ws.Close(websocket.StatusNormalClosure, "bye")
	if IsNormalClose(err) {
		return nil
	}
	return err
}

// IsNormalClose reports whether err is a clean close from either side.
func IsNormalClose(err error) bool {
	if err == nil {
		return true
	}
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, net.ErrClosed)
}
