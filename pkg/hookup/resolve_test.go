package hookup

import (
	"testing"

	"github.com/obsarray/hookup/pkg/routing"
)

func chainEdges(pairs ...[2]string) Edges {
	edges := Edges{Out: make(map[string]string), In: make(map[string]string)}
	for _, p := range pairs {
		edges.Out[p[0]] = p[1]
		edges.In[p[1]] = p[0]
	}
	return edges
}

func TestResolveFullChain(t *testing.T) {
	table := routing.NewMemoryTable()
	table.Add(routing.PortEntry{Chassis: 1, Slot: "A", RoutingID: 3})

	edges := chainEdges(
		[2]string{"ANT00001P1", "LNA00005P1"},
		[2]string{"LNA00005P1", "CXS00023P1"},
		[2]string{"CXS00023P1", "CXL00023P1"},
		[2]string{"CXL00023P1", "BAC00023P1"},
		[2]string{"BAC00023P1", "SNAP1A05"},
	)

	chain := Resolve("ANT00001P1", edges, table)
	want := []string{"ANT00001P1", "LNA00005P1", "CXS00023P1", "CXL00023P1", "BAC00023P1", "SNAP1A05"}
	if len(chain.Parts) != len(want) {
		t.Fatalf("chain = %v, want %v", chain.Parts, want)
	}
	for i := range want {
		if chain.Parts[i] != want[i] {
			t.Fatalf("chain[%d] = %s, want %s", i, chain.Parts[i], want[i])
		}
	}

	if chain.Terminal.Kind != TerminalSnap {
		t.Fatalf("terminal = %s, want snap", chain.Terminal.Kind)
	}
	port := chain.Terminal.Snap
	if port == nil {
		t.Fatal("snap terminal carries no resolved port")
	}
	if port.Chassis != 1 || port.Slot != "A" || port.Port != 5 {
		t.Errorf("resolved to chassis %d slot %s port %d, want 1 A 5", port.Chassis, port.Slot, port.Port)
	}
	if port.RoutingIndex != 3*routing.PortsPerBoard+5 {
		t.Errorf("routing index = %d, want %d", port.RoutingIndex, 3*routing.PortsPerBoard+5)
	}
}

func TestResolveOpenChain(t *testing.T) {
	edges := chainEdges(
		[2]string{"ANT00001P1", "LNA00005P1"},
		[2]string{"LNA00005P1", "CXS00023P1"},
	)

	chain := Resolve("ANT00001P1", edges, routing.NewMemoryTable())
	if chain.Terminal.Kind != TerminalOpen {
		t.Fatalf("terminal = %s, want open", chain.Terminal.Kind)
	}
	if chain.Terminal.LastPart != "CXS00023P1" {
		t.Errorf("last part = %s, want CXS00023P1", chain.Terminal.LastPart)
	}
}

func TestResolveMidChainStart(t *testing.T) {
	edges := chainEdges(
		[2]string{"ANT00001P1", "LNA00005P1"},
		[2]string{"LNA00005P1", "CXS00023P1"},
	)

	chain := Resolve("LNA00005P1", edges, routing.NewMemoryTable())
	if len(chain.Parts) != 2 || chain.Parts[0] != "LNA00005P1" {
		t.Errorf("mid-chain traversal = %v", chain.Parts)
	}
}

func TestResolveIsolatedPart(t *testing.T) {
	chain := Resolve("ANT00001P1", Edges{Out: map[string]string{}, In: map[string]string{}}, routing.NewMemoryTable())
	if chain.Terminal.Kind != TerminalOpen || len(chain.Parts) != 1 {
		t.Errorf("isolated part chain = %+v", chain)
	}
}

func TestResolveUnroutedSnap(t *testing.T) {
	edges := chainEdges([2]string{"BAC00023P1", "SNAP2C11"})

	chain := Resolve("BAC00023P1", edges, routing.NewMemoryTable())
	if chain.Terminal.Kind != TerminalBroken {
		t.Fatalf("terminal = %s, want broken", chain.Terminal.Kind)
	}
	if chain.Terminal.Reason != UnroutedTerminal {
		t.Errorf("reason = %s, want UnroutedTerminal", chain.Terminal.Reason)
	}
	if chain.Terminal.LastPart != "SNAP2C11" {
		t.Errorf("last part = %s, want SNAP2C11", chain.Terminal.LastPart)
	}
}

func TestResolveCycleHitsHopBound(t *testing.T) {
	// A cyclic edge set can only come from out-of-band log writes. The
	// traversal must stop at the hop bound, not loop.
	edges := Edges{
		Out: map[string]string{"A": "B", "B": "C", "C": "A"},
		In:  map[string]string{"B": "A", "C": "B", "A": "C"},
	}

	chain := Resolve("A", edges, routing.NewMemoryTable())
	if chain.Terminal.Kind != TerminalBroken {
		t.Fatalf("terminal = %s, want broken", chain.Terminal.Kind)
	}
	if chain.Terminal.Reason != ChainIntegrityError {
		t.Errorf("reason = %s, want ChainIntegrityError", chain.Terminal.Reason)
	}
	if len(chain.Parts) > MaxHops+1 {
		t.Errorf("traversal recorded %d parts past the bound", len(chain.Parts))
	}
}
