package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hkm/sadhana/internal/services"
)

type QuickEntry struct {
	svc *services.QuickEntry
}

func NewQuickEntry(svc *services.QuickEntry) *QuickEntry {
	return &QuickEntry{svc: svc}
}

// Validate answers the anonymous form-bootstrap request: who the token
// belongs to and which fields today unlocks.
func (h *QuickEntry) Validate(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Validate(chi.URLParam(r, "token"), time.Now())
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *QuickEntry) Submit(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.svc.Submit(chi.URLParam(r, "token"), time.Now(), body)
	if err != nil {
		respondErr(w, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}
