package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"attest-go/internal/attest"
)

type errorBody struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	EntityKey string `json:"entityKey,omitempty"`
}

// statusFor maps an error kind to its HTTP status.
func statusFor(kind attest.Kind) int {
	switch kind {
	case attest.KindInvalidArgument:
		return http.StatusBadRequest
	case attest.KindUpstreamAuth:
		return http.StatusUnauthorized
	case attest.KindNotFound:
		return http.StatusNotFound
	case attest.KindConflict:
		return http.StatusConflict
	case attest.KindUpstream:
		return http.StatusBadGateway
	case attest.KindLedgerUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := attest.KindOf(err)
	status := statusFor(kind)
	body := errorBody{Kind: string(kind), EntityKey: attest.EntityKeyOf(err)}

	var e *attest.Error
	switch {
	case status >= 500 && kind == "":
		body.Error = "internal error"
	case errors.As(err, &e) && e.Message != "":
		body.Error = e.Message
	default:
		body.Error = err.Error()
	}

	if status >= 500 {
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

const maxRequestBody = 1 << 20

// decodeBody reads a JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return attest.NewError(attest.KindInvalidArgument, "decode request", "invalid request body", err)
	}
	return nil
}
