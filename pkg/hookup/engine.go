package hookup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/obsarray/hookup/pkg/eventlog"
	"github.com/obsarray/hookup/pkg/logging"
	"github.com/obsarray/hookup/pkg/metrics"
	"github.com/obsarray/hookup/pkg/parts"
	"github.com/obsarray/hookup/pkg/routing"
)

// Engine ties the validator, chain builder and resolver to the three
// external collaborators. Proposals are serialized by a single mutex
// spanning read-validate-append; chain queries read a snapshot and run
// without it.
type Engine struct {
	registry  parts.Registry
	log       eventlog.Log
	table     routing.Table
	validator *Validator
	logger    logging.Logger
	metrics   *metrics.Registry

	mu sync.Mutex // guards the validate-then-append critical section
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

func WithMetrics(registry *metrics.Registry) Option {
	return func(e *Engine) { e.metrics = registry }
}

func NewEngine(registry parts.Registry, log eventlog.Log, table routing.Table, opts ...Option) *Engine {
	e := &Engine{
		registry:  registry,
		log:       log,
		table:     table,
		validator: NewValidator(registry, log),
		logger:    logging.NewNopLogger(),
		metrics:   metrics.DefaultRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProposeConnection validates and, on acceptance, records a wiring event.
func (e *Engine) ProposeConnection(ctx context.Context, sourceID string, sourcePol parts.Polarization, sourceTime time.Time, targetID string, targetPol parts.Polarization, targetTime time.Time) (ValidationResult, error) {
	return e.propose(ctx, Proposal{
		SourceID:   sourceID,
		SourcePol:  sourcePol,
		SourceTime: sourceTime,
		TargetID:   targetID,
		TargetPol:  targetPol,
		TargetTime: targetTime,
		Status:     eventlog.Connected,
	})
}

// ProposeDisconnection validates and, on acceptance, records an unwiring
// event for the named pair.
func (e *Engine) ProposeDisconnection(ctx context.Context, sourceID, targetID string) (ValidationResult, error) {
	now := time.Now().UTC()
	return e.propose(ctx, Proposal{
		SourceID:   sourceID,
		SourceTime: now,
		TargetID:   targetID,
		TargetTime: now,
		Status:     eventlog.Disconnected,
	})
}

func (e *Engine) propose(ctx context.Context, prop Proposal) (ValidationResult, error) {
	action := "connect"
	if prop.Status == eventlog.Disconnected {
		action = "disconnect"
	}
	start := time.Now()

	// The no-branch rule reads the current state of both endpoints, so a
	// second proposal touching either must not validate against stale
	// state. One lock spans the whole read-validate-append unit.
	e.mu.Lock()
	defer e.mu.Unlock()

	result, err := e.validator.Validate(ctx, prop)
	if err != nil {
		e.logger.Error("proposal validation failed",
			logging.SourceID(prop.SourceID), logging.TargetID(prop.TargetID), logging.Error(err))
		return ValidationResult{}, err
	}

	if !result.Accepted {
		e.metrics.RecordValidation(action, "rejected", time.Since(start))
		e.metrics.RecordRejection(result.Reason.String())
		if result.Reason == ChainIntegrityError {
			e.metrics.RecordIntegrityError()
		}
		e.logger.Warn("proposal rejected",
			logging.SourceID(prop.SourceID), logging.TargetID(prop.TargetID),
			logging.Reason(result.Reason.String()), logging.String("detail", result.Detail))
		return result, nil
	}

	appendStart := time.Now()
	if err := e.log.Append(ctx, result.Event); err != nil {
		e.metrics.RecordLogAppend("error", time.Since(appendStart))
		e.logger.Error("event append failed",
			logging.SourceID(prop.SourceID), logging.TargetID(prop.TargetID), logging.Error(err))
		return ValidationResult{}, fmt.Errorf("append accepted event: %w", err)
	}
	e.metrics.RecordLogAppend("success", time.Since(appendStart))
	e.metrics.RecordValidation(action, "accepted", time.Since(start))

	e.logger.Info("event recorded",
		logging.SourceID(prop.SourceID), logging.TargetID(prop.TargetID),
		logging.String("status", prop.Status.String()), logging.Seq(result.Event.Seq))
	return result, nil
}

// currentEdges derives the active edge view from a fresh log snapshot.
func (e *Engine) currentEdges(ctx context.Context) (Edges, error) {
	start := time.Now()
	snapshot, err := e.log.Snapshot(ctx)
	if err != nil {
		return Edges{}, fmt.Errorf("event log snapshot: %w", err)
	}
	edges, err := CurrentEdges(snapshot)
	if err != nil {
		e.metrics.RecordIntegrityError()
		return Edges{}, err
	}
	e.metrics.SetLogEvents(len(snapshot))
	e.metrics.RecordChainBuild(time.Since(start), len(edges.Out))
	return edges, nil
}

// GetChain traverses the forward chain from any part. A part with no
// history yields a single-element chain with an open terminal.
func (e *Engine) GetChain(ctx context.Context, partID string) (Chain, error) {
	edges, err := e.currentEdges(ctx)
	if err != nil {
		return Chain{}, err
	}

	start := time.Now()
	chain := Resolve(partID, edges, e.table)
	e.metrics.RecordTraversal(time.Since(start), len(chain.Parts))
	return chain, nil
}

// SnapPortResult is one polarization's resolution outcome.
type SnapPortResult struct {
	Port *routing.ResolvedPort `json:"port,omitempty"`
	// Missing explains the absence of a port: the chain dead-ends before
	// reaching a Snap board, or the board it reaches is unrouted.
	Missing string `json:"missing,omitempty"`
}

// AntennaSnapPorts is the resolution of both polarizations of one antenna.
// The two polarization graphs are fully independent.
type AntennaSnapPorts struct {
	Antenna string         `json:"antenna"`
	Pol1    SnapPortResult `json:"pol1"`
	Pol2    SnapPortResult `json:"pol2"`
}

// GetSnapPortsForAntenna resolves both polarization chains of the antenna
// base identifier (e.g. "ANT00001") to their digitizer ports.
func (e *Engine) GetSnapPortsForAntenna(ctx context.Context, antennaBase string) (AntennaSnapPorts, error) {
	if !parts.IsAntennaBase(antennaBase) {
		return AntennaSnapPorts{}, fmt.Errorf("%w: %q is not an antenna base", parts.ErrMalformedID, antennaBase)
	}

	edges, err := e.currentEdges(ctx)
	if err != nil {
		return AntennaSnapPorts{}, err
	}

	result := AntennaSnapPorts{Antenna: antennaBase}
	for _, pol := range parts.Polarizations {
		partID := parts.AntennaID(antennaBase, pol)
		chain := Resolve(partID, edges, e.table)

		var port SnapPortResult
		switch chain.Terminal.Kind {
		case TerminalSnap:
			port.Port = chain.Terminal.Snap
		case TerminalOpen:
			port.Missing = fmt.Sprintf("chain dead-ends at %s before reaching a SNAP board", chain.Terminal.LastPart)
		case TerminalBroken:
			port.Missing = chain.Terminal.Detail
		}

		if pol == parts.Pol1 {
			result.Pol1 = port
		} else {
			result.Pol2 = port
		}
	}
	return result, nil
}

// PartHistory returns every recorded event touching the part, in append
// order. Disconnected history is included; this is the audit view.
func (e *Engine) PartHistory(ctx context.Context, partID string) ([]eventlog.Event, error) {
	events, err := e.log.EventsInvolving(ctx, partID)
	if err != nil {
		return nil, fmt.Errorf("events involving %s: %w", partID, err)
	}
	return events, nil
}

// BuildAllChains resolves the full chain for every chain head: parts with an
// outgoing active edge and no incoming one. Pure read over the current log.
func (e *Engine) BuildAllChains(ctx context.Context) (map[string]Chain, error) {
	edges, err := e.currentEdges(ctx)
	if err != nil {
		return nil, err
	}

	chains := make(map[string]Chain)
	for _, head := range edges.ChainHeads() {
		chains[head] = Resolve(head, edges, e.table)
	}
	return chains, nil
}
