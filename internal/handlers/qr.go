package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/hkm/sadhana/internal/store"
)

type QR struct {
	store *store.Store
}

func NewQR(st *store.Store) *QR {
	return &QR{store: st}
}

// Image serves the PNG a devotee prints or saves. The token must still
// resolve to an active account; stale QR images 404.
func (h *QR) Image(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if _, err := h.store.UserByQRToken(token); err != nil {
		writeError(w, http.StatusNotFound, "invalid QR token")
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	url := scheme + "://" + r.Host + "/quick-entry/" + token

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		respondErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}
