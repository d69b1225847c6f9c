package hookup

import (
	"errors"
	"testing"
	"time"

	"github.com/obsarray/hookup/pkg/eventlog"
)

// rawEvent builds a log row directly, bypassing validation, for tests that
// need corrupted or hand-ordered histories.
func rawEvent(seq uint64, source, target string, status eventlog.Status) eventlog.Event {
	now := time.Now().UTC()
	return eventlog.Event{
		Seq:        seq,
		SourceID:   source,
		SourceTime: now,
		TargetID:   target,
		TargetTime: now,
		Status:     status,
	}
}

func TestCurrentEdgesLatestEventWins(t *testing.T) {
	events := []eventlog.Event{
		rawEvent(1, "A", "B", eventlog.Connected),
		rawEvent(2, "A", "B", eventlog.Disconnected),
		rawEvent(3, "A", "B", eventlog.Connected),
		rawEvent(4, "B", "C", eventlog.Connected),
		rawEvent(5, "B", "C", eventlog.Disconnected),
	}

	edges, err := CurrentEdges(events)
	if err != nil {
		t.Fatal(err)
	}
	if edges.Out["A"] != "B" {
		t.Errorf("Out[A] = %q, want B", edges.Out["A"])
	}
	if _, ok := edges.Out["B"]; ok {
		t.Error("B -> C should be inactive after its latest disconnect")
	}
	if edges.In["B"] != "A" {
		t.Errorf("In[B] = %q, want A", edges.In["B"])
	}
}

func TestCurrentEdgesEmptyLog(t *testing.T) {
	edges, err := CurrentEdges(nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(edges.Out) != 0 || len(edges.In) != 0 {
		t.Errorf("empty log produced edges: %+v", edges)
	}
}

func TestCurrentEdgesDetectsFanOut(t *testing.T) {
	// Two active outgoing edges from one source can only come from writes
	// outside the engine; the builder must refuse to pick one.
	events := []eventlog.Event{
		rawEvent(1, "A", "B", eventlog.Connected),
		rawEvent(2, "A", "C", eventlog.Connected),
	}

	_, err := CurrentEdges(events)
	if err == nil {
		t.Fatal("fan-out not detected")
	}
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("error type = %T, want *IntegrityError", err)
	}
	if integrity.PartID != "A" {
		t.Errorf("violating part = %q, want A", integrity.PartID)
	}
}

func TestCurrentEdgesDetectsFanIn(t *testing.T) {
	events := []eventlog.Event{
		rawEvent(1, "A", "C", eventlog.Connected),
		rawEvent(2, "B", "C", eventlog.Connected),
	}

	_, err := CurrentEdges(events)
	var integrity *IntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("fan-in not detected, err = %v", err)
	}
	if integrity.PartID != "C" {
		t.Errorf("violating part = %q, want C", integrity.PartID)
	}
}

func TestCurrentEdgesHistoricalFanOutIsFine(t *testing.T) {
	// A was wired to B, unwired, then wired to C: only the C edge is
	// current, so no violation.
	events := []eventlog.Event{
		rawEvent(1, "A", "B", eventlog.Connected),
		rawEvent(2, "A", "B", eventlog.Disconnected),
		rawEvent(3, "A", "C", eventlog.Connected),
	}

	edges, err := CurrentEdges(events)
	if err != nil {
		t.Fatal(err)
	}
	if edges.Out["A"] != "C" {
		t.Errorf("Out[A] = %q, want C", edges.Out["A"])
	}
}

func TestChainHeads(t *testing.T) {
	events := []eventlog.Event{
		rawEvent(1, "A", "B", eventlog.Connected),
		rawEvent(2, "B", "C", eventlog.Connected),
		rawEvent(3, "X", "Y", eventlog.Connected),
	}

	edges, err := CurrentEdges(events)
	if err != nil {
		t.Fatal(err)
	}

	heads := edges.ChainHeads()
	if len(heads) != 2 {
		t.Fatalf("heads = %v, want two", heads)
	}
	seen := map[string]bool{}
	for _, h := range heads {
		seen[h] = true
	}
	if !seen["A"] || !seen["X"] {
		t.Errorf("heads = %v, want A and X", heads)
	}
}
