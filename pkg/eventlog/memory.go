package eventlog

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryLog keeps the full event history in memory. It is the reference
// implementation of Log semantics and the default test double; the file and
// Postgres adapters must agree with it observably.
type MemoryLog struct {
	mu     sync.RWMutex
	events []Event
	byPair map[pairKey]int // index of the latest event for each ordered pair
	closed bool
	seq    uint64
}

func NewMemoryLog() *MemoryLog {
	return &MemoryLog{byPair: make(map[pairKey]int)}
}

func (l *MemoryLog) Append(ctx context.Context, event *Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLogClosed
	}

	l.seq++
	event.Seq = l.seq
	if event.EventID == uuid.Nil {
		event.EventID = uuid.New()
	}
	if event.RecordedAt.IsZero() {
		event.RecordedAt = time.Now().UTC()
	}

	l.events = append(l.events, *event)
	l.byPair[pairKey{event.SourceID, event.TargetID}] = len(l.events) - 1
	return nil
}

func (l *MemoryLog) EventsInvolving(ctx context.Context, partID string) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return nil, ErrLogClosed
	}

	var out []Event
	for i := range l.events {
		if l.events[i].Involves(partID) {
			out = append(out, l.events[i])
		}
	}
	return out, nil
}

func (l *MemoryLog) LatestEventForPair(ctx context.Context, sourceID, targetID string) (*Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return nil, ErrLogClosed
	}

	idx, ok := l.byPair[pairKey{sourceID, targetID}]
	if !ok {
		return nil, nil
	}
	event := l.events[idx]
	return &event, nil
}

func (l *MemoryLog) Snapshot(ctx context.Context) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return nil, ErrLogClosed
	}

	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out, nil
}

func (l *MemoryLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}
