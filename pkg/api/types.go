package api

import (
	"github.com/obsarray/hookup/pkg/eventlog"
	"github.com/obsarray/hookup/pkg/hookup"
)

// ErrorResponse is the error payload shape for every endpoint.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// HealthResponse reports server liveness.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ProposalResponse wraps the engine's validation result. Accepted proposals
// return 201; rejections return 409 with the reason.
type ProposalResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Seq      uint64 `json:"seq,omitempty"`
	EventID  string `json:"eventId,omitempty"`
}

func proposalResponse(result hookup.ValidationResult) ProposalResponse {
	resp := ProposalResponse{Accepted: result.Accepted}
	if result.Accepted {
		resp.Seq = result.Event.Seq
		resp.EventID = result.Event.EventID.String()
		return resp
	}
	resp.Reason = result.Reason.String()
	resp.Detail = result.Detail
	return resp
}

// ChainResponse is a traversed chain.
type ChainResponse struct {
	Start    string          `json:"start"`
	Parts    []string        `json:"parts"`
	Terminal TerminalPayload `json:"terminal"`
}

// TerminalPayload flattens the chain terminal for JSON consumers.
type TerminalPayload struct {
	Kind         string `json:"kind"`
	LastPart     string `json:"lastPart"`
	Reason       string `json:"reason,omitempty"`
	Detail       string `json:"detail,omitempty"`
	Serial       string `json:"serial,omitempty"`
	MAC          string `json:"mac,omitempty"`
	IP           string `json:"ip,omitempty"`
	Chassis      int    `json:"chassis,omitempty"`
	Slot         string `json:"slot,omitempty"`
	Port         int    `json:"port,omitempty"`
	RoutingIndex int    `json:"routingIndex,omitempty"`
	ADCInput     string `json:"adcInput,omitempty"`
}

func chainResponse(start string, chain hookup.Chain) ChainResponse {
	resp := ChainResponse{
		Start: start,
		Parts: chain.Parts,
		Terminal: TerminalPayload{
			Kind:     chain.Terminal.Kind.String(),
			LastPart: chain.Terminal.LastPart,
			Detail:   chain.Terminal.Detail,
		},
	}
	if chain.Terminal.Reason != hookup.ReasonNone {
		resp.Terminal.Reason = chain.Terminal.Reason.String()
	}
	if snap := chain.Terminal.Snap; snap != nil {
		resp.Terminal.Serial = snap.Serial
		resp.Terminal.MAC = snap.MAC
		resp.Terminal.IP = snap.IP
		resp.Terminal.Chassis = snap.Chassis
		resp.Terminal.Slot = snap.Slot
		resp.Terminal.Port = snap.Port
		resp.Terminal.RoutingIndex = snap.RoutingIndex
		resp.Terminal.ADCInput = snap.ADCInput
	}
	return resp
}

// PartHistoryResponse is the full event history touching one part.
type PartHistoryResponse struct {
	PartID string           `json:"partId"`
	Count  int              `json:"count"`
	Events []eventlog.Event `json:"events"`
}

// AllChainsResponse maps every chain head to its chain.
type AllChainsResponse struct {
	Count  int                      `json:"count"`
	Chains map[string]ChainResponse `json:"chains"`
}
