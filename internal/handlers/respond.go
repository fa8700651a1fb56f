// Package handlers adapts the HTTP surface onto the service layer: request
// decoding, principal extraction, and the error-to-status mapping.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/hkm/sadhana/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// respondErr maps the service error taxonomy onto HTTP statuses. Anything
// unrecognized is an internal error and only its presence is disclosed.
func respondErr(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	var pe *services.PolicyError
	var nf *services.NotFoundError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Reason)
	case errors.As(err, &pe):
		writeError(w, http.StatusBadRequest, pe.Reason)
	case errors.As(err, &nf):
		writeError(w, http.StatusNotFound, nf.Reason)
	default:
		log.Printf("internal error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody reads a JSON object body; an empty body decodes to an empty map.
func decodeBody(r *http.Request) (map[string]any, error) {
	body := map[string]any{}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return body, nil
}
