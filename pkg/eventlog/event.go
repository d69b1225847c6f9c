package eventlog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/obsarray/hookup/pkg/parts"
)

// Status is the recorded outcome of a wiring action.
type Status uint8

const (
	Connected Status = iota
	Disconnected
)

func (s Status) String() string {
	switch s {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Event is one immutable row of the connection history. Rows are only ever
// appended; the current state of any pair is derived from its latest row.
type Event struct {
	EventID    uuid.UUID          `json:"eventId"`
	Seq        uint64             `json:"seq"`
	SourceID   string             `json:"sourceId"`
	SourceKind parts.Kind         `json:"sourceKind"`
	SourcePol  parts.Polarization `json:"sourcePol"`
	SourceTime time.Time          `json:"sourceTime"`
	TargetID   string             `json:"targetId"`
	TargetKind parts.Kind         `json:"targetKind"`
	TargetPol  parts.Polarization `json:"targetPol"`
	TargetTime time.Time          `json:"targetTime"`
	Status     Status             `json:"status"`
	RecordedAt time.Time          `json:"recordedAt"`
}

// Involves reports whether the event touches the given part.
func (e *Event) Involves(partID string) bool {
	return e.SourceID == partID || e.TargetID == partID
}

// Common sentinel errors for log adapters.
var (
	ErrLogClosed    = errors.New("event log is closed")
	ErrAppendFailed = errors.New("event log append failed")
)

// Log is the append-only connection event store. Each read method returns a
// point-in-time snapshot: a concurrent append never produces a torn read,
// only a stale-but-consistent one.
type Log interface {
	// Append assigns the event a sequence number and EventID (when unset)
	// and persists it.
	Append(ctx context.Context, event *Event) error

	// EventsInvolving returns all events touching the part in append order.
	EventsInvolving(ctx context.Context, partID string) ([]Event, error)

	// LatestEventForPair returns the most recent event for the exact ordered
	// (source, target) pair, or nil when the pair has no history.
	LatestEventForPair(ctx context.Context, sourceID, targetID string) (*Event, error)

	// Snapshot returns every event in append order.
	Snapshot(ctx context.Context) ([]Event, error)

	Close() error
}

type pairKey struct {
	source string
	target string
}
