package hookup

import (
	"github.com/obsarray/hookup/pkg/eventlog"
)

// RejectionReason classifies why a proposed event was refused. Rejections
// are results, not errors: the caller is always told which rule failed.
type RejectionReason uint8

const (
	ReasonNone RejectionReason = iota

	// UnknownPart - an endpoint identifier does not resolve in the registry.
	UnknownPart
	// SequenceViolation - target kind is not exactly one rank above source.
	SequenceViolation
	// DirectionViolation - Snap used as source, or antenna used as target.
	DirectionViolation
	// PolarizationMismatch - non-Snap endpoints carry differing polarization.
	PolarizationMismatch
	// BranchViolation - an endpoint already has a different current edge.
	BranchViolation
	// NotCurrentlyConnected - disconnect proposed for a pair that is not
	// currently connected.
	NotCurrentlyConnected
	// ChainIntegrityError - the log yields more than one current outgoing
	// edge for a source, or traversal exceeds the hop bound. The log was
	// written outside the engine's discipline.
	ChainIntegrityError
	// UnroutedTerminal - the chain reaches a Snap board with no routing
	// table entry.
	UnroutedTerminal
)

func (r RejectionReason) String() string {
	switch r {
	case ReasonNone:
		return "None"
	case UnknownPart:
		return "UnknownPart"
	case SequenceViolation:
		return "SequenceViolation"
	case DirectionViolation:
		return "DirectionViolation"
	case PolarizationMismatch:
		return "PolarizationMismatch"
	case BranchViolation:
		return "BranchViolation"
	case NotCurrentlyConnected:
		return "NotCurrentlyConnected"
	case ChainIntegrityError:
		return "ChainIntegrityError"
	case UnroutedTerminal:
		return "UnroutedTerminal"
	default:
		return "Unknown"
	}
}

// MarshalText renders the reason by name so JSON payloads stay readable.
func (r RejectionReason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ValidationResult is the outcome of a proposal. When Accepted is true the
// event has been appended to the log and is returned with its assigned
// sequence number; otherwise Reason and Detail explain the refusal.
type ValidationResult struct {
	Accepted bool            `json:"accepted"`
	Reason   RejectionReason `json:"reason"`
	Detail   string          `json:"detail,omitempty"`
	Event    *eventlog.Event `json:"event,omitempty"`
}

func reject(reason RejectionReason, detail string) ValidationResult {
	return ValidationResult{Reason: reason, Detail: detail}
}
