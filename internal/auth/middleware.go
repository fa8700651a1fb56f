package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/hkm/sadhana/internal/models"
	"github.com/hkm/sadhana/internal/store"
)

type ctxKey int

const userKey ctxKey = 0

// CurrentUser returns the authenticated principal placed by RequireUser.
func CurrentUser(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(userKey).(models.User)
	return u, ok
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{"error": msg})
}

// RequireUser authenticates the Bearer token and loads the active principal
// into the request context. Deactivated accounts are rejected even with a
// still-valid token.
func RequireUser(secret string, st *store.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				deny(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
				return
			}
			claims, err := ParseAccess(secret, token)
			if err != nil {
				deny(w, http.StatusUnauthorized, "Invalid or expired token.")
				return
			}
			u, err := st.UserByID(claims.UserID)
			if err != nil || !u.Active {
				deny(w, http.StatusUnauthorized, "Invalid or expired token.")
				return
			}
			ctx := context.WithValue(r.Context(), userKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin gates a subtree to admin principals. Must sit inside
// RequireUser.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := CurrentUser(r.Context())
		if !ok {
			deny(w, http.StatusUnauthorized, "Authentication credentials were not provided.")
			return
		}
		if !u.Admin {
			deny(w, http.StatusForbidden, "Admin access required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}
