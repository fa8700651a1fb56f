package handlers

import (
	"net/http"
	"time"

	"github.com/hkm/sadhana/internal/auth"
	"github.com/hkm/sadhana/internal/services"
)

type Monthly struct {
	svc *services.Activities
}

func NewMonthly(svc *services.Activities) *Monthly {
	return &Monthly{svc: svc}
}

func (h *Monthly) CurrentMonth(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r.Context())
	res, err := h.svc.CurrentMonth(u.ID, time.Now())
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Monthly) GetMonth(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r.Context())
	q := r.URL.Query()
	res, err := h.svc.MonthActivity(u.ID, q.Get("month"), q.Get("year"))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Monthly) AddOrEdit(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r.Context())
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.svc.AddOrEditMonth(u.ID, body)
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

func (h *Monthly) Filter(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r.Context())
	q := r.URL.Query()
	res, err := h.svc.FilterMonthly(u.ID, q.Get("month"), q.Get("year"))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
