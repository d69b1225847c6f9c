package eventlog

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FileLog persists events to a single append-only segment file, fsynced on
// every append. Rows are immutable, so the full history is also kept in
// memory as a read index; the file is replayed once at open.
type FileLog struct {
	mu     sync.RWMutex
	file   *os.File
	writer *bufio.Writer
	events []Event
	byPair map[pairKey]int
	seq    uint64
	size   int64 // file offset past the last durable frame
	closed bool

	compress bool
}

// FileLogOptions tunes the on-disk format.
type FileLogOptions struct {
	// Compress enables snappy compression of row payloads.
	Compress bool
}

// NewFileLog opens (or creates) the event segment under dataDir and replays
// its contents. Replay stops at the first corrupt frame so a torn final
// write never poisons the history before it.
func NewFileLog(dataDir string, opts FileLogOptions) (*FileLog, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create event log directory: %w", err)
	}

	path := filepath.Join(dataDir, "events.log")
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}

	l := &FileLog{
		file:     file,
		writer:   bufio.NewWriter(file),
		byPair:   make(map[pairKey]int),
		compress: opts.Compress,
	}
	if err := l.replay(); err != nil {
		file.Close()
		return nil, fmt.Errorf("replay event log: %w", err)
	}
	return l, nil
}

func (l *FileLog) Append(ctx context.Context, event *Event) error {
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

	frameLen, err := l.writeFrame(event)
	if err != nil {
		l.recoverAppend()
		return fmt.Errorf("%w: %v", ErrAppendFailed, err)
	}
	if err := l.writer.Flush(); err != nil {
		l.recoverAppend()
		return fmt.Errorf("%w: flush: %v", ErrAppendFailed, err)
	}
	if err := l.file.Sync(); err != nil {
		l.recoverAppend()
		return fmt.Errorf("%w: sync: %v", ErrAppendFailed, err)
	}
	l.size += frameLen

	l.events = append(l.events, *event)
	l.byPair[pairKey{event.SourceID, event.TargetID}] = len(l.events) - 1
	return nil
}

// recoverAppend undoes a failed append. The bufio buffer may hold part of
// the frame and the file may hold flushed bytes of it, so both are rolled
// back to the last durable frame boundary. If the file cannot be restored
// the log is closed; appending past a partial frame would corrupt replay.
func (l *FileLog) recoverAppend() {
	l.seq--
	l.writer.Reset(l.file)
	if err := l.file.Truncate(l.size); err != nil {
		log.Printf("WARNING: event log unrecoverable after failed append: %v", err)
		l.closed = true
		l.file.Close()
	}
}

func (l *FileLog) EventsInvolving(ctx context.Context, partID string) ([]Event, error) {
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

func (l *FileLog) LatestEventForPair(ctx context.Context, sourceID, targetID string) (*Event, error) {
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

func (l *FileLog) Snapshot(ctx context.Context) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return nil, ErrLogClosed
	}

	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out, nil
}

func (l *FileLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	if err := l.writer.Flush(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}

// Len returns the number of events currently in the log.
func (l *FileLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.events)
}
