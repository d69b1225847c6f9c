package api

import (
	"net/http"

	"github.com/obsarray/hookup/pkg/validation"
)

func (s *Server) handleChains(w http.ResponseWriter, r *http.Request) {
	s.NewMethodRouter(w, r).
		Get(func() { s.getAllChains(w, r) }).
		NotAllowed()
}

func (s *Server) getAllChains(w http.ResponseWriter, r *http.Request) {
	chains, err := s.engine.BuildAllChains(r.Context())
	if err != nil {
		s.respondEngineError(w, err, "build chains")
		return
	}

	resp := AllChainsResponse{
		Count:  len(chains),
		Chains: make(map[string]ChainResponse, len(chains)),
	}
	for head, chain := range chains {
		resp.Chains[head] = chainResponse(head, chain)
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleChain(w http.ResponseWriter, r *http.Request) {
	partID, ok := s.extractPathSegment(w, r.URL.Path, "/chains/", "")
	if !ok {
		return
	}

	s.NewMethodRouter(w, r).
		Get(func() { s.getChain(w, r, partID) }).
		NotAllowed()
}

func (s *Server) getChain(w http.ResponseWriter, r *http.Request, partID string) {
	if err := validation.ValidatePartID(partID); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	chain, err := s.engine.GetChain(r.Context(), partID)
	if err != nil {
		s.respondEngineError(w, err, "get chain")
		return
	}
	s.respondJSON(w, http.StatusOK, chainResponse(partID, chain))
}

func (s *Server) handlePart(w http.ResponseWriter, r *http.Request) {
	partID, ok := s.extractPathSegment(w, r.URL.Path, "/parts/", "/events")
	if !ok {
		return
	}

	s.NewMethodRouter(w, r).
		Get(func() { s.getPartHistory(w, r, partID) }).
		NotAllowed()
}

func (s *Server) getPartHistory(w http.ResponseWriter, r *http.Request, partID string) {
	if err := validation.ValidatePartID(partID); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	events, err := s.engine.PartHistory(r.Context(), partID)
	if err != nil {
		s.respondEngineError(w, err, "part history")
		return
	}
	s.respondJSON(w, http.StatusOK, PartHistoryResponse{
		PartID: partID,
		Count:  len(events),
		Events: events,
	})
}

func (s *Server) handleAntenna(w http.ResponseWriter, r *http.Request) {
	base, ok := s.extractPathSegment(w, r.URL.Path, "/antennas/", "/snap-ports")
	if !ok {
		return
	}

	s.NewMethodRouter(w, r).
		Get(func() { s.getSnapPorts(w, r, base) }).
		NotAllowed()
}

func (s *Server) getSnapPorts(w http.ResponseWriter, r *http.Request, base string) {
	if err := validation.ValidateAntennaBase(base); err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	ports, err := s.engine.GetSnapPortsForAntenna(r.Context(), base)
	if err != nil {
		s.respondEngineError(w, err, "resolve snap ports")
		return
	}
	s.respondJSON(w, http.StatusOK, ports)
}
