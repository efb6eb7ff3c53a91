// Package session holds the per-game state a strategy carries between ticks.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session lives from startGame to endGame. Its key/value store belongs to
// the strategy; the client never reads it.
//
// A tick whose strategy overran its deadline keeps running after the next
// tick has started, so two invocations may touch the same Session. The
// store is mutex guarded, but a stale invocation can still overwrite values
// written by a newer one.
type Session struct {
	ID         uuid.UUID
	TickLength time.Duration
	TurnRate   int
	StartedAt  time.Time

	mu     sync.Mutex
	values map[string]any
}

func New(tickLength time.Duration, turnRate int) *Session {
	return &Session{
		ID:         uuid.New(),
		TickLength: tickLength,
		TurnRate:   turnRate,
		StartedAt:  time.Now(),
		values:     make(map[string]any),
	}
}

func (s *Session) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Session) Set(key string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = v
}

func (s *Session) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// Update replaces the value under key with fn's result in one step.
func (s *Session) Update(key string, fn func(old any, ok bool) any) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.values[key]
	v := fn(old, ok)
	s.values[key] = v
	return v
}

func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}
