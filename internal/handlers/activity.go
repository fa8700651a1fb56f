package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hkm/sadhana/internal/auth"
	"github.com/hkm/sadhana/internal/services"
)

type Activity struct {
	svc *services.Activities
}

func NewActivity(svc *services.Activities) *Activity {
	return &Activity{svc: svc}
}

func (h *Activity) WeekData(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r.Context())
	view, err := h.svc.WeekData(u.ID, time.Now())
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Activity) AddOrEditDay(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r.Context())
	body, err := decodeBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res, err := h.svc.AddOrEditDay(u.ID, time.Now(), body)
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

func (h *Activity) DeleteDay(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r.Context())
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid activity id")
		return
	}
	if err := h.svc.DeleteDay(u.ID, time.Now(), uint(id)); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Activity deleted successfully."})
}

func (h *Activity) Filter(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r.Context())
	q := r.URL.Query()
	res, err := h.svc.Filter(u.ID, time.Now(), q.Get("week_id"), q.Get("month"), q.Get("year"))
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Activity) ChantingRoundCount(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r.Context())
	total, err := h.svc.ChantingRoundCount(u.ID)
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"total_chanting_rounds": total})
}
