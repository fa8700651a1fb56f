package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hkm/sadhana/internal/services"
)

type Admin struct {
	svc *services.Admin
}

func NewAdmin(svc *services.Admin) *Admin {
	return &Admin{svc: svc}
}

func devoteeID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	return uint(id), err == nil
}

func (h *Admin) Devotees(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ListDevotees(r.URL.Query().Get("search"))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Admin) DevoteeDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := devoteeID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid devotee id")
		return
	}
	res, err := h.svc.DevoteeDetail(id)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Admin) FilterDevoteeActivities(w http.ResponseWriter, r *http.Request) {
	id, ok := devoteeID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid devotee id")
		return
	}
	q := r.URL.Query()
	res, err := h.svc.FilterDevoteeActivities(id, services.ActivityFilterInput{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		WeekID:    q.Get("week_id"),
		Month:     q.Get("month"),
		Year:      q.Get("year"),
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Admin) Analytics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.svc.Analytics(services.AnalyticsInput{
		DevoteeID: q.Get("devotee_id"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		WeekID:    q.Get("week_id"),
		Month:     q.Get("month"),
		Year:      q.Get("year"),
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
