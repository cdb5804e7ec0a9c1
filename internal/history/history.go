// Package history keeps the ordered conversation log shown by front-ends.
package history

import (
	"sync"

	"qabot/internal/domain"
)

// Log is an append-only sequence of turns, safe for concurrent use.
type Log struct {
	mu    sync.RWMutex
	turns []domain.Turn
}

func New() *Log { return &Log{} }

// Append adds turns in order.
func (l *Log) Append(turns ...domain.Turn) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.turns = append(l.turns, turns...)
}

// Exchange records a user message followed by the bot reply.
func (l *Log) Exchange(user, bot string) {
	l.Append(
		domain.Turn{Speaker: domain.SpeakerUser, Message: user},
		domain.Turn{Speaker: domain.SpeakerBot, Message: bot},
	)
}

// Snapshot returns a copy of the turns recorded so far.
func (l *Log) Snapshot() []domain.Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]domain.Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}
