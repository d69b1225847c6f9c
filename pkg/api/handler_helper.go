package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/obsarray/hookup/pkg/logging"
	"github.com/obsarray/hookup/pkg/validation"
)

// sanitizeError converts an internal error to a user-safe message.
// Internal details are logged but not exposed to clients.
func (s *Server) sanitizeError(err error, operation string) string {
	if err == nil {
		return ""
	}
	s.logger.Error("handler error", logging.Operation(operation), logging.Error(err))
	return fmt.Sprintf("%s failed", operation)
}

// requestDecoder decodes and validates request bodies.
// It provides a fluent interface for common request handling patterns.
type requestDecoder struct {
	r          *http.Request
	w          http.ResponseWriter
	server     *Server
	err        error
	statusCode int
}

// NewRequestDecoder creates a new request decoder for the given request.
func (s *Server) NewRequestDecoder(w http.ResponseWriter, r *http.Request) *requestDecoder {
	return &requestDecoder{
		r:      r,
		w:      w,
		server: s,
	}
}

// DecodeJSON decodes the request body into the provided struct.
// Returns the decoder for chaining. Check RespondError() after calling.
func (rd *requestDecoder) DecodeJSON(v any) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := json.NewDecoder(rd.r.Body).Decode(v); err != nil {
		rd.err = fmt.Errorf("invalid request body: %w", err)
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// ValidateConnection validates a connection proposal payload.
func (rd *requestDecoder) ValidateConnection(req *validation.ConnectionRequest) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := validation.ValidateConnectionRequest(req); err != nil {
		rd.err = err
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// ValidateDisconnection validates a disconnection proposal payload.
func (rd *requestDecoder) ValidateDisconnection(req *validation.DisconnectionRequest) *requestDecoder {
	if rd.err != nil {
		return rd
	}
	if err := validation.ValidateDisconnectionRequest(req); err != nil {
		rd.err = err
		rd.statusCode = http.StatusBadRequest
	}
	return rd
}

// RespondError sends the error response and returns true if there was an
// error. Returns false if no error occurred.
func (rd *requestDecoder) RespondError() bool {
	if rd.err == nil {
		return false
	}
	rd.server.respondError(rd.w, rd.statusCode, rd.err.Error())
	return true
}

// extractPathSegment pulls the single path segment after prefix, optionally
// requiring a trailing suffix like "/snap-ports". An error response has
// already been sent when ok is false.
func (s *Server) extractPathSegment(w http.ResponseWriter, path, prefix, suffix string) (string, bool) {
	if !strings.HasPrefix(path, prefix) {
		s.respondError(w, http.StatusBadRequest, "Invalid path")
		return "", false
	}
	segment := path[len(prefix):]
	if suffix != "" {
		if !strings.HasSuffix(segment, suffix) {
			s.respondError(w, http.StatusNotFound, "Not found")
			return "", false
		}
		segment = strings.TrimSuffix(segment, suffix)
	}
	if segment == "" || strings.Contains(segment, "/") {
		s.respondError(w, http.StatusBadRequest, "Invalid path")
		return "", false
	}
	return segment, true
}

// methodRouter routes requests based on HTTP method.
// Provides a cleaner alternative to switch statements for method routing.
type methodRouter struct {
	w       http.ResponseWriter
	r       *http.Request
	server  *Server
	handled bool
}

// NewMethodRouter creates a new method router.
func (s *Server) NewMethodRouter(w http.ResponseWriter, r *http.Request) *methodRouter {
	return &methodRouter{
		w:      w,
		r:      r,
		server: s,
	}
}

// Get handles GET requests with the provided handler.
func (mr *methodRouter) Get(handler func()) *methodRouter {
	if !mr.handled && mr.r.Method == http.MethodGet {
		handler()
		mr.handled = true
	}
	return mr
}

// Post handles POST requests with the provided handler.
func (mr *methodRouter) Post(handler func()) *methodRouter {
	if !mr.handled && mr.r.Method == http.MethodPost {
		handler()
		mr.handled = true
	}
	return mr
}

// NotAllowed sends a 405 response if no method matched.
func (mr *methodRouter) NotAllowed() {
	if !mr.handled {
		mr.server.respondError(mr.w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	response := ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	}
	s.respondJSON(w, status, response)
}
