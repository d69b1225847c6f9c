package hookup

import (
	"fmt"

	"github.com/obsarray/hookup/pkg/parts"
	"github.com/obsarray/hookup/pkg/routing"
)

// MaxHops bounds chain traversal. A well-formed chain steps through each of
// the six kinds at most once; anything longer means the log holds a cycle.
const MaxHops = parts.KindCount

// TerminalKind says how a chain ended.
type TerminalKind uint8

const (
	// TerminalSnap - the chain reached a routed digitizer port.
	TerminalSnap TerminalKind = iota
	// TerminalOpen - the chain dead-ends at a part with no outgoing edge.
	TerminalOpen
	// TerminalBroken - the chain cannot be resolved: an unrouted Snap board
	// or a corrupt (cyclic) edge set.
	TerminalBroken
)

func (k TerminalKind) String() string {
	switch k {
	case TerminalSnap:
		return "snap"
	case TerminalOpen:
		return "open"
	case TerminalBroken:
		return "broken"
	default:
		return "unknown"
	}
}

// Terminal describes the end of a traversed chain.
type Terminal struct {
	Kind TerminalKind `json:"kind"`
	// Snap is set for TerminalSnap.
	Snap *routing.ResolvedPort `json:"snap,omitempty"`
	// LastPart is the final part reached, for every terminal kind.
	LastPart string `json:"lastPart"`
	// Reason is set for TerminalBroken: UnroutedTerminal or
	// ChainIntegrityError.
	Reason RejectionReason `json:"reason,omitempty"`
	Detail string          `json:"detail,omitempty"`
}

// Chain is the forward path of active edges from a starting part.
type Chain struct {
	Parts    []string `json:"parts"`
	Terminal Terminal `json:"terminal"`
}

// Resolve walks active edges forward from startID until the chain ends. A
// chain ends at a Snap board (resolved against the routing table), at a part
// with no outgoing edge, or - for a corrupted log - at the hop bound.
func Resolve(startID string, edges Edges, table routing.Table) Chain {
	chain := Chain{Parts: []string{startID}}
	current := startID

	for hops := 0; ; hops++ {
		if hops >= MaxHops {
			chain.Terminal = Terminal{
				Kind:     TerminalBroken,
				LastPart: current,
				Reason:   ChainIntegrityError,
				Detail:   fmt.Sprintf("traversal exceeded %d hops; the edge set contains a cycle", MaxHops),
			}
			return chain
		}

		part, err := parts.ParseID(current)
		if err == nil && part.Kind == parts.Snap {
			chain.Terminal = resolveSnapTerminal(part, table)
			return chain
		}

		next, ok := edges.Out[current]
		if !ok {
			chain.Terminal = Terminal{Kind: TerminalOpen, LastPart: current}
			return chain
		}
		chain.Parts = append(chain.Parts, next)
		current = next
	}
}

func resolveSnapTerminal(part parts.Part, table routing.Table) Terminal {
	entry, ok := table.Lookup(part.Snap.Chassis, part.Snap.Slot)
	if !ok {
		return Terminal{
			Kind:     TerminalBroken,
			LastPart: part.ID,
			Reason:   UnroutedTerminal,
			Detail: fmt.Sprintf("no routing entry for chassis %d slot %s",
				part.Snap.Chassis, part.Snap.Slot),
		}
	}
	resolved := entry.Resolve(part.Snap.Port)
	return Terminal{
		Kind:     TerminalSnap,
		Snap:     &resolved,
		LastPart: part.ID,
	}
}
