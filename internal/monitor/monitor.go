// Package monitor keeps a running summary of the bot for the status
// endpoint. It is an actor: all state lives in one goroutine fed through an
// inbox, so the dispatch loop never waits on it.
package monitor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/DoyleJ11/shipbot/internal/client"
	"github.com/DoyleJ11/shipbot/internal/runner"
)

type Msg interface{ isMonitorMsg() }

type StateChanged struct{ State client.State }

func (StateChanged) isMonitorMsg() {}

type TickHandled struct{ Result runner.Result }

func (TickHandled) isMonitorMsg() {}

type EventFailed struct {
	EventType string
	Err       string
}

func (EventFailed) isMonitorMsg() {}

type GetView struct {
	Reply chan View
}

func (GetView) isMonitorMsg() {}

type Shutdown struct{}

func (Shutdown) isMonitorMsg() {}

// View is a point-in-time copy of the summary.
type View struct {
	State        string         `json:"state"`
	GamesStarted int            `json:"gamesStarted"`
	Ticks        int            `json:"ticks"`
	Fallbacks    int            `json:"fallbacks"`
	Outcomes     map[string]int `json:"outcomes"`
	LastTurn     int            `json:"lastTurn"`
	LastTickMS   int64          `json:"lastTickMs"`
	EventErrors  int            `json:"eventErrors"`
	LastError    string         `json:"lastError,omitempty"`
	Dropped      int64          `json:"dropped"`
	Since        time.Time      `json:"since"`
}

type Monitor struct {
	inbox   chan Msg
	view    View
	dropped atomic.Int64
	ctx     context.Context
	cancel  context.CancelFunc
}

func New(parent context.Context) *Monitor {
	ctx, cancel := context.WithCancel(parent)

	m := &Monitor{
		inbox: make(chan Msg, 64),
		view: View{
			State:    client.Unconnected.String(),
			Outcomes: map[string]int{},
			Since:    time.Now(),
		},
		ctx:    ctx,
		cancel: cancel,
	}

	go m.loop()
	return m
}

func (m *Monitor) loop() {
	for {
		select {
		case <-m.ctx.Done():
			return

		case msg := <-m.inbox:
			switch msg := msg.(type) {
			case StateChanged:
				m.view.State = msg.State.String()
				if msg.State == client.InGame {
					m.view.GamesStarted++
				}

			case TickHandled:
				m.view.Ticks++
				m.view.Outcomes[string(msg.Result.Outcome)]++
				if msg.Result.Outcome.Fallback() {
					m.view.Fallbacks++
				}
				m.view.LastTurn = msg.Result.Turn
				m.view.LastTickMS = msg.Result.Elapsed.Milliseconds()

			case EventFailed:
				m.view.EventErrors++
				m.view.LastError = msg.EventType + ": " + msg.Err

			case GetView:
				msg.Reply <- m.snapshot()

			case Shutdown:
				m.cancel()
				return
			}
		}
	}
}

func (m *Monitor) snapshot() View {
	v := m.view
	v.Outcomes = make(map[string]int, len(m.view.Outcomes))
	for k, n := range m.view.Outcomes {
		v.Outcomes[k] = n
	}
	v.Dropped = m.dropped.Load()
	return v
}

// post never blocks. When the inbox is full the message is counted and
// dropped.
func (m *Monitor) post(msg Msg) {
	select {
	case m.inbox <- msg:
	default:
		m.dropped.Add(1)
	}
}

// Inbox exposes the inbox for tests and callers that want to block.
func (m *Monitor) Inbox() chan<- Msg { return m.inbox }

func (m *Monitor) StateChanged(s client.State) { m.post(StateChanged{State: s}) }

func (m *Monitor) TickHandled(res runner.Result) { m.post(TickHandled{Result: res}) }

func (m *Monitor) EventFailed(eventType string, err error) {
	m.post(EventFailed{EventType: eventType, Err: err.Error()})
}

// View asks the actor for a snapshot.
func (m *Monitor) View(ctx context.Context) (View, error) {
	reply := make(chan View, 1)
	select {
	case m.inbox <- GetView{Reply: reply}:
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-m.ctx.Done():
		return View{}, m.ctx.Err()
	}

	select {
	case v := <-reply:
		return v, nil
	case <-ctx.Done():
		return View{}, ctx.Err()
	case <-m.ctx.Done():
		return View{}, m.ctx.Err()
	}
}

// Close asks the loop to stop. When the inbox is full the loop is cancelled
// directly so Close never blocks.
func (m *Monitor) Close() {
	select {
	case m.inbox <- Shutdown{}:
	case <-m.ctx.Done():
	default:
		m.cancel()
	}
}
