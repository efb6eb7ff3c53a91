// Package runner executes a strategy for one tick under a deadline.
//
// The strategy runs on a worker goroutine taken from a bounded pool. When the
// deadline passes first the worker is abandoned, not awaited: it keeps its
// pool slot until it returns and whatever it returns is dropped. Every
// failure mode ends in the same zero-distance move so the server always gets
// an answer.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/DoyleJ11/shipbot/internal/codec"
	"github.com/DoyleJ11/shipbot/internal/game"
	"github.com/DoyleJ11/shipbot/internal/logging"
	"github.com/DoyleJ11/shipbot/internal/session"
	"github.com/DoyleJ11/shipbot/internal/strategy"
)

type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeNoAction      Outcome = "no_action"
	OutcomeTimeout       Outcome = "timeout"
	OutcomeFault         Outcome = "fault"
	OutcomeInvalid       Outcome = "invalid_command"
	OutcomeDecodeError   Outcome = "decode_error"
	OutcomePoolExhausted Outcome = "pool_exhausted"
	OutcomeCancelled     Outcome = "cancelled"
)

// Fallback reports whether the outcome replaced the strategy's answer.
func (o Outcome) Fallback() bool { return o != OutcomeOK }

type Result struct {
	Turn    int
	Command game.Command
	Payload json.RawMessage // encoded Command
	Outcome Outcome
	Elapsed time.Duration
}

type Options struct {
	// Margin is subtracted from the tick length to get the deadline.
	Margin   time.Duration
	PoolSize int64
	// Verbose logs strategy faults with full detail and a stack.
	Verbose bool
	Logger  *zap.Logger
	Decoder codec.StateDecoder
	Encoder codec.ActionEncoder
}

type Runner struct {
	strategy strategy.Strategy
	margin   time.Duration
	verbose  bool
	pool     *semaphore.Weighted
	decoder  codec.StateDecoder
	encoder  codec.ActionEncoder
	log      *zap.Logger
}

func New(s strategy.Strategy, opts Options) *Runner {
	if opts.PoolSize < 1 {
		opts.PoolSize = 1
	}
	if opts.Decoder == nil {
		opts.Decoder = codec.JSON{}
	}
	if opts.Encoder == nil {
		opts.Encoder = codec.JSON{}
	}
	return &Runner{
		strategy: s,
		margin:   opts.Margin,
		verbose:  opts.Verbose,
		pool:     semaphore.NewWeighted(opts.PoolSize),
		decoder:  opts.Decoder,
		encoder:  opts.Encoder,
		log:      logging.OrNop(opts.Logger),
	}
}

// Budget returns how long a strategy may run for the given tick length.
// A zero (or negative) tick length means the server sets no cadence and the
// strategy is not bounded; bounded is false in that case.
func (r *Runner) Budget(tickLength time.Duration) (budget time.Duration, bounded bool) {
	if tickLength <= 0 {
		return 0, false
	}
	return tickLength - r.margin, true
}

type workerResult struct {
	cmd      *game.Command
	err      error
	finished time.Time
}

// RunTick decodes raw, asks the strategy for a command and encodes the
// answer. It returns an error only if not even the fallback command could
// be encoded.
func (r *Runner) RunTick(ctx context.Context, sess *session.Session, raw json.RawMessage) (Result, error) {
	start := time.Now()
	res := r.decide(ctx, sess, raw, start)
	if res.Outcome == OutcomeOK {
		if err := res.Command.Validate(); err != nil {
			r.log.Warn("strategy returned an invalid command",
				zap.Int("turn", res.Turn), zap.Stringer("command", res.Command), zap.Error(err))
			res.Command, res.Outcome = game.Fallback(), OutcomeInvalid
		}
	}

	payload, err := r.encoder.EncodeCommand(res.Command)
	if err != nil && res.Outcome == OutcomeOK {
		r.log.Warn("encode command", zap.Stringer("command", res.Command), zap.Error(err))
		res.Command, res.Outcome = game.Fallback(), OutcomeInvalid
		payload, err = r.encoder.EncodeCommand(res.Command)
	}
	if err != nil {
		return res, fmt.Errorf("encode fallback command: %w", err)
	}

	res.Payload = payload
	res.Elapsed = time.Since(start)
	r.log.Debug("tick handled",
		zap.Int("turn", res.Turn),
		zap.String("outcome", string(res.Outcome)),
		zap.Stringer("command", res.Command),
		zap.Duration("elapsed", res.Elapsed))
	return res, nil
}

func (r *Runner) decide(ctx context.Context, sess *session.Session, raw json.RawMessage, start time.Time) Result {
	fallback := func(turn int, o Outcome) Result {
		return Result{Turn: turn, Command: game.Fallback(), Outcome: o}
	}

	state, err := r.decoder.DecodeState(raw)
	if err != nil {
		r.log.Error("decode game state", zap.Error(err))
		return fallback(0, OutcomeDecodeError)
	}

	var tickLength time.Duration
	if sess != nil {
		tickLength = sess.TickLength
	}
	budget, bounded := r.Budget(tickLength)
	if bounded && budget <= 0 {
		r.log.Warn("tick margin leaves no time for the strategy",
			zap.Duration("tick_length", tickLength), zap.Duration("margin", r.margin))
		return fallback(state.TurnNumber, OutcomeTimeout)
	}

	if !r.pool.TryAcquire(1) {
		r.log.Warn("all strategy workers are still busy with abandoned ticks", zap.Int("turn", state.TurnNumber))
		return fallback(state.TurnNumber, OutcomePoolExhausted)
	}

	var (
		workerCtx context.Context
		cancel    context.CancelFunc
	)
	if bounded {
		workerCtx, cancel = context.WithDeadline(ctx, start.Add(budget))
	} else {
		workerCtx, cancel = context.WithCancel(ctx)
	}

	results := make(chan workerResult, 1)
	go func() {
		defer r.pool.Release(1)
		defer cancel()
		defer func() {
			if err := logging.Recovered(recover()); err != nil {
				results <- workerResult{err: err, finished: time.Now()}
			}
		}()
		cmd, err := r.strategy.Decide(workerCtx, sess, state)
		results <- workerResult{cmd: cmd, err: err, finished: time.Now()}
	}()

	var deadline <-chan time.Time
	if bounded {
		timer := time.NewTimer(time.Until(start.Add(budget)))
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case wr := <-results:
		return r.resolve(state.TurnNumber, start, budget, bounded, wr)

	case <-deadline:
		// The timer and an on-time result can be ready together.
		select {
		case wr := <-results:
			return r.resolve(state.TurnNumber, start, budget, bounded, wr)
		default:
		}
		r.log.Warn("strategy missed the tick deadline",
			zap.Int("turn", state.TurnNumber), zap.Duration("budget", budget))
		return fallback(state.TurnNumber, OutcomeTimeout)

	case <-ctx.Done():
		return fallback(state.TurnNumber, OutcomeCancelled)
	}
}

func (r *Runner) resolve(turn int, start time.Time, budget time.Duration, bounded bool, wr workerResult) Result {
	fallback := func(o Outcome) Result {
		return Result{Turn: turn, Command: game.Fallback(), Outcome: o}
	}
	switch {
	case bounded && lateResult(start, budget, wr.finished):
		r.log.Warn("strategy missed the tick deadline",
			zap.Int("turn", turn), zap.Duration("budget", budget))
		return fallback(OutcomeTimeout)
	case wr.err != nil:
		logging.Fault(r.log, r.verbose, "strategy fault", wr.err, zap.Int("turn", turn))
		return fallback(OutcomeFault)
	case wr.cmd == nil:
		return fallback(OutcomeNoAction)
	default:
		return Result{Turn: turn, Command: *wr.cmd, Outcome: OutcomeOK}
	}
}

// lateResult judges a result by when the strategy finished, not by when the
// runner got around to reading it.
func lateResult(start time.Time, budget time.Duration, finished time.Time) bool {
	return finished.Sub(start) >= budget
}
