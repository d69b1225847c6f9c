package api

import (
	"errors"
	"net/http"

	"github.com/obsarray/hookup/pkg/hookup"
	"github.com/obsarray/hookup/pkg/parts"
	"github.com/obsarray/hookup/pkg/validation"
)

func (s *Server) handleConnections(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Post(func() { s.proposeConnection(w, r) }).
		NotAllowed()
}

func (s *Server) proposeConnection(w http.ResponseWriter, r *http.Request) {
	var req validation.ConnectionRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).ValidateConnection(&req)
	if decoder.RespondError() {
		return
	}

	result, err := s.engine.ProposeConnection(r.Context(),
		req.SourceID, polFromTag(req.SourcePol), req.SourceTime,
		req.TargetID, polFromTag(req.TargetPol), req.TargetTime)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "propose connection"))
		return
	}

	s.respondProposal(w, result)
}

func (s *Server) handleDisconnections(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Post(func() { s.proposeDisconnection(w, r) }).
		NotAllowed()
}

func (s *Server) proposeDisconnection(w http.ResponseWriter, r *http.Request) {
	var req validation.DisconnectionRequest
	decoder := s.NewRequestDecoder(w, r)
	decoder.DecodeJSON(&req).ValidateDisconnection(&req)
	if decoder.RespondError() {
		return
	}

	result, err := s.engine.ProposeDisconnection(r.Context(), req.SourceID, req.TargetID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, "propose disconnection"))
		return
	}

	s.respondProposal(w, result)
}

func (s *Server) respondProposal(w http.ResponseWriter, result hookup.ValidationResult) {
	if result.Accepted {
		s.respondJSON(w, http.StatusCreated, proposalResponse(result))
		return
	}
	s.respondJSON(w, http.StatusConflict, proposalResponse(result))
}

// respondEngineError distinguishes data-integrity failures, which deserve a
// 500 with their real message, from plain infrastructure errors.
func (s *Server) respondEngineError(w http.ResponseWriter, err error, operation string) {
	var integrity *hookup.IntegrityError
	if errors.As(err, &integrity) {
		s.respondError(w, http.StatusInternalServerError, integrity.Error())
		return
	}
	s.respondError(w, http.StatusInternalServerError, s.sanitizeError(err, operation))
}

func polFromTag(tag string) parts.Polarization {
	switch tag {
	case "P1":
		return parts.Pol1
	case "P2":
		return parts.Pol2
	default:
		return parts.PolNone
	}
}
