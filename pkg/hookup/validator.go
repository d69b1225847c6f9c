package hookup

import (
	"context"
	"fmt"
	"time"

	"github.com/obsarray/hookup/pkg/eventlog"
	"github.com/obsarray/hookup/pkg/parts"
)

// Proposal is a wiring or unwiring action as scanned by an operator. The
// polarization fields are the operator's declaration and must agree with the
// catalog; zero values mean "take it from the identifier".
type Proposal struct {
	SourceID   string
	SourcePol  parts.Polarization
	SourceTime time.Time
	TargetID   string
	TargetPol  parts.Polarization
	TargetTime time.Time
	Status     eventlog.Status
}

// Validator decides whether a proposal is legal given the event history. It
// never writes: on acceptance the prepared event is handed back to the
// caller, which owns the append.
type Validator struct {
	registry parts.Registry
	log      eventlog.Log
}

func NewValidator(registry parts.Registry, log eventlog.Log) *Validator {
	return &Validator{registry: registry, log: log}
}

// Validate runs the rule chain in order, short-circuiting on the first
// failure. The returned error is reserved for collaborator I/O failures;
// rule failures come back as a rejection result.
func (v *Validator) Validate(ctx context.Context, prop Proposal) (ValidationResult, error) {
	source, result, err := v.resolveEndpoint(ctx, prop.SourceID)
	if err != nil || !result.Accepted {
		return result, err
	}
	target, result, err := v.resolveEndpoint(ctx, prop.TargetID)
	if err != nil || !result.Accepted {
		return result, err
	}

	// Snap boards receive signal only; antennas emit it only.
	if source.Kind == parts.Snap {
		return reject(DirectionViolation, fmt.Sprintf("%s: SNAP parts cannot be a source", source.ID)), nil
	}
	if target.Kind == parts.Antenna {
		return reject(DirectionViolation, fmt.Sprintf("%s: ANTENNA parts cannot be a target", target.ID)), nil
	}

	if !parts.Follows(source.Kind, target.Kind) {
		return reject(SequenceViolation, fmt.Sprintf("%s (%s) cannot feed %s (%s): target must be exactly one stage after source",
			source.ID, source.Kind, target.ID, target.Kind)), nil
	}

	if result := checkPolarization(source, target, prop); !result.Accepted {
		return result, nil
	}

	switch prop.Status {
	case eventlog.Connected:
		if result, err := v.checkNoBranch(ctx, source.ID, target.ID); err != nil || !result.Accepted {
			return result, err
		}
	case eventlog.Disconnected:
		if result, err := v.checkCurrentlyConnected(ctx, source.ID, target.ID); err != nil || !result.Accepted {
			return result, err
		}
	}

	return ValidationResult{
		Accepted: true,
		Event:    buildEvent(source, target, prop),
	}, nil
}

// resolveEndpoint looks the identifier up in the registry. A well-formed
// Snap identifier that is not catalogued still exists for wiring purposes;
// only its routing resolution can fail later.
func (v *Validator) resolveEndpoint(ctx context.Context, id string) (parts.Part, ValidationResult, error) {
	part, ok, err := v.registry.Lookup(ctx, id)
	if err != nil {
		return parts.Part{}, ValidationResult{}, fmt.Errorf("registry lookup %s: %w", id, err)
	}
	if ok {
		return part, ValidationResult{Accepted: true}, nil
	}
	if parsed, perr := parts.ParseID(id); perr == nil && parsed.Kind == parts.Snap {
		return parsed, ValidationResult{Accepted: true}, nil
	}
	return parts.Part{}, reject(UnknownPart, fmt.Sprintf("%s is not in the part registry", id)), nil
}

func checkPolarization(source, target parts.Part, prop Proposal) ValidationResult {
	if prop.SourcePol != parts.PolNone && prop.SourcePol != source.Polarization {
		return reject(PolarizationMismatch, fmt.Sprintf("declared source polarization %s does not match %s",
			prop.SourcePol, source.ID))
	}
	if target.Kind != parts.Snap && prop.TargetPol != parts.PolNone && prop.TargetPol != target.Polarization {
		return reject(PolarizationMismatch, fmt.Sprintf("declared target polarization %s does not match %s",
			prop.TargetPol, target.ID))
	}
	// Snap boards carry no polarization and accept either path.
	if source.Kind != parts.Snap && target.Kind != parts.Snap &&
		source.Polarization != target.Polarization {
		return reject(PolarizationMismatch, fmt.Sprintf("%s is %s but %s is %s",
			source.ID, source.Polarization, target.ID, target.Polarization))
	}
	return ValidationResult{Accepted: true}
}

// checkNoBranch enforces the fan-out/fan-in prohibition: at most one current
// edge out of any source and into any target. Reconnecting the identical
// pair after a disconnect is fine.
func (v *Validator) checkNoBranch(ctx context.Context, sourceID, targetID string) (ValidationResult, error) {
	snapshot, err := v.log.Snapshot(ctx)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("event log snapshot: %w", err)
	}
	edges, err := CurrentEdges(snapshot)
	if err != nil {
		return reject(ChainIntegrityError, err.Error()), nil
	}

	if existing, ok := edges.Out[sourceID]; ok && existing != targetID {
		return reject(BranchViolation, fmt.Sprintf("%s is already wired to %s", sourceID, existing)), nil
	}
	if existing, ok := edges.In[targetID]; ok && existing != sourceID {
		return reject(BranchViolation, fmt.Sprintf("%s is already fed by %s", targetID, existing)), nil
	}
	return ValidationResult{Accepted: true}, nil
}

func (v *Validator) checkCurrentlyConnected(ctx context.Context, sourceID, targetID string) (ValidationResult, error) {
	latest, err := v.log.LatestEventForPair(ctx, sourceID, targetID)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("latest event for pair: %w", err)
	}
	if latest == nil || latest.Status != eventlog.Connected {
		return reject(NotCurrentlyConnected, fmt.Sprintf("%s and %s are not currently connected", sourceID, targetID)), nil
	}
	return ValidationResult{Accepted: true}, nil
}

func buildEvent(source, target parts.Part, prop Proposal) *eventlog.Event {
	return &eventlog.Event{
		SourceID:   source.ID,
		SourceKind: source.Kind,
		SourcePol:  source.Polarization,
		SourceTime: prop.SourceTime,
		TargetID:   target.ID,
		TargetKind: target.Kind,
		TargetPol:  target.Polarization,
		TargetTime: prop.TargetTime,
		Status:     prop.Status,
	}
}
