package hookup

import (
	"context"
	"testing"
	"time"

	"github.com/obsarray/hookup/pkg/eventlog"
	"github.com/obsarray/hookup/pkg/parts"
	"github.com/obsarray/hookup/pkg/routing"
)

// testRegistry returns a catalog with one full chain's worth of parts for
// both polarizations, plus spares for branch and sequence tests.
func testRegistry(t *testing.T) *parts.MemoryRegistry {
	t.Helper()
	reg := parts.NewMemoryRegistry()
	ids := []string{
		"ANT00001P1", "ANT00001P2", "ANT00002P1",
		"LNA00005P1", "LNA00005P2", "LNA00006P1", "LNA00007P1",
		"CXS00023P1", "CXS00023P2", "CXS00024P1",
		"CXL00023P1", "CXL00023P2", "CXL00024P1",
		"BAC00023P1", "BAC00023P2", "BAC00024P1",
		"SNAP1A05", "SNAP1A06", "SNAP1B00", "SNAP2C11",
	}
	for _, id := range ids {
		if err := reg.Add(id); err != nil {
			t.Fatalf("register %s: %v", id, err)
		}
	}
	return reg
}

// testTable routes chassis 1 of the test boards; SNAP2C11 is deliberately
// left unrouted.
func testTable(t *testing.T) *routing.MemoryTable {
	t.Helper()
	table := routing.NewMemoryTable()
	table.Add(routing.PortEntry{
		Chassis: 1, Slot: "A",
		Serial: "SNP-0042", MAC: "02:00:00:00:10:05", IP: "10.80.1.5",
		RoutingID: 3,
	})
	table.Add(routing.PortEntry{
		Chassis: 1, Slot: "B",
		Serial: "SNP-0043", MAC: "02:00:00:00:10:06", IP: "10.80.1.6",
		RoutingID: 4,
	})
	return table
}

func testEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(testRegistry(t), eventlog.NewMemoryLog(), testTable(t))
}

// mustConnect runs a connect proposal that the test requires to succeed.
func mustConnect(t *testing.T, e *Engine, sourceID, targetID string) {
	t.Helper()
	now := time.Now().UTC()
	result, err := e.ProposeConnection(context.Background(), sourceID, parts.PolNone, now, targetID, parts.PolNone, now)
	if err != nil {
		t.Fatalf("connect %s -> %s: %v", sourceID, targetID, err)
	}
	if !result.Accepted {
		t.Fatalf("connect %s -> %s rejected: %s (%s)", sourceID, targetID, result.Reason, result.Detail)
	}
}

func mustDisconnect(t *testing.T, e *Engine, sourceID, targetID string) {
	t.Helper()
	result, err := e.ProposeDisconnection(context.Background(), sourceID, targetID)
	if err != nil {
		t.Fatalf("disconnect %s -> %s: %v", sourceID, targetID, err)
	}
	if !result.Accepted {
		t.Fatalf("disconnect %s -> %s rejected: %s (%s)", sourceID, targetID, result.Reason, result.Detail)
	}
}

// proposeConnect returns the result of a connect proposal without requiring
// acceptance.
func proposeConnect(t *testing.T, e *Engine, sourceID, targetID string) ValidationResult {
	t.Helper()
	now := time.Now().UTC()
	result, err := e.ProposeConnection(context.Background(), sourceID, parts.PolNone, now, targetID, parts.PolNone, now)
	if err != nil {
		t.Fatalf("connect %s -> %s: %v", sourceID, targetID, err)
	}
	return result
}
