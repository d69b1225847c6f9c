package hookup

import (
	"fmt"

	"github.com/obsarray/hookup/pkg/eventlog"
)

// Edges is the derived current-connection view of the log: for every part at
// most one outgoing and one incoming active edge. It is a pure function of
// an event snapshot and is rebuilt on every query, never hand-patched.
type Edges struct {
	// Out maps source part id to its current target.
	Out map[string]string
	// In maps target part id to its current source.
	In map[string]string
}

// IntegrityError reports a log that violates the single-edge discipline.
// It can only arise from out-of-band writes and must surface loudly.
type IntegrityError struct {
	PartID string
	Detail string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("chain integrity violated at %s: %s", e.PartID, e.Detail)
}

// CurrentEdges derives the active edge set from an event snapshot. The
// latest event for each ordered (source, target) pair wins; a pair is active
// iff that event's status is connected. A source with two active outgoing
// edges, or a target with two active incoming edges, is a data-integrity
// failure, not something to resolve silently.
func CurrentEdges(events []eventlog.Event) (Edges, error) {
	type pair struct{ source, target string }

	latest := make(map[pair]eventlog.Status)
	order := make([]pair, 0, len(events))
	for i := range events {
		p := pair{events[i].SourceID, events[i].TargetID}
		if _, seen := latest[p]; !seen {
			order = append(order, p)
		}
		latest[p] = events[i].Status
	}

	edges := Edges{
		Out: make(map[string]string),
		In:  make(map[string]string),
	}
	for _, p := range order {
		if latest[p] != eventlog.Connected {
			continue
		}
		if existing, ok := edges.Out[p.source]; ok {
			return Edges{}, &IntegrityError{
				PartID: p.source,
				Detail: fmt.Sprintf("current outgoing edges to both %s and %s", existing, p.target),
			}
		}
		if existing, ok := edges.In[p.target]; ok {
			return Edges{}, &IntegrityError{
				PartID: p.target,
				Detail: fmt.Sprintf("current incoming edges from both %s and %s", existing, p.source),
			}
		}
		edges.Out[p.source] = p.target
		edges.In[p.target] = p.source
	}
	return edges, nil
}

// ChainHeads returns every part that starts a chain: it has an outgoing
// active edge but no incoming one.
func (e Edges) ChainHeads() []string {
	var heads []string
	for source := range e.Out {
		if _, hasIncoming := e.In[source]; !hasIncoming {
			heads = append(heads, source)
		}
	}
	return heads
}
