package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hkm/sadhana/internal/auth"
	"github.com/hkm/sadhana/internal/models"
	"github.com/hkm/sadhana/internal/store"
)

type Auth struct {
	store    *store.Store
	secret   string
	validate *validator.Validate
}

func NewAuth(st *store.Store, secret string) *Auth {
	return &Auth{store: st, secret: secret, validate: validator.New()}
}

type registerRequest struct {
	Username        string `json:"username" validate:"required,min=8,max=15,numeric"`
	FirstName       string `json:"first_name" validate:"required"`
	LastName        string `json:"last_name" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// Register creates a devotee account. The username is a mobile number and
// must be unique, as must a non-empty email.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid registration data: "+err.Error())
		return
	}

	taken, err := h.store.UsernameTaken(req.Username)
	if err != nil {
		respondErr(w, err)
		return
	}
	if taken {
		writeError(w, http.StatusBadRequest, "a user with this mobile number already exists")
		return
	}
	if req.Email != "" {
		taken, err := h.store.EmailTaken(req.Email)
		if err != nil {
			respondErr(w, err)
			return
		}
		if taken {
			writeError(w, http.StatusBadRequest, "a user with this email already exists")
			return
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondErr(w, err)
		return
	}
	u := models.User{
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		Active:       true,
	}
	if err := h.store.CreateUser(&u); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Registration successful.",
		"user_id": u.ID,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Auth) authenticate(r *http.Request) (models.User, error) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return models.User{}, errors.New("invalid request body")
	}
	u, err := h.store.UserByUsername(req.Username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, errBadCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if !u.Active || !auth.CheckPassword(u.PasswordHash, req.Password) {
		return models.User{}, errBadCredentials
	}
	return u, nil
}

var errBadCredentials = errors.New("invalid username or password")

// Login authenticates a devotee account; admin accounts must use the admin
// endpoint.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	u, err := h.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if u.Admin {
		writeError(w, http.StatusUnauthorized, "use the admin login endpoint")
		return
	}
	h.issue(w, u)
}

// AdminLogin authenticates an admin account only.
func (h *Auth) AdminLogin(w http.ResponseWriter, r *http.Request) {
	u, err := h.authenticate(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	}
	if !u.Admin {
		writeError(w, http.StatusForbidden, "Admin access required.")
		return
	}
	h.issue(w, u)
}

func (h *Auth) issue(w http.ResponseWriter, u models.User) {
	pair, err := auth.IssueTokens(h.secret, u.ID, u.Admin, time.Now())
	if err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access":    pair.Access,
		"refresh":   pair.Refresh,
		"user_id":   u.ID,
		"full_name": u.FullName(),
		"is_admin":  u.Admin,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

func (h *Auth) ChangePassword(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r.Context())

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "new password must be at least 6 characters and match the confirmation")
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.CurrentPassword) {
		writeError(w, http.StatusBadRequest, "current password is incorrect")
		return
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondErr(w, err)
		return
	}
	u.PasswordHash = hash
	if err := h.store.SaveUser(&u); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "Password changed successfully."})
}

// Logout is stateless on the server; clients discard their tokens.
func (h *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"message": "Logged out successfully."})
}

// GenerateQRToken rotates the caller's quick-entry token. The old token stops
// resolving immediately.
func (h *Auth) GenerateQRToken(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r.Context())

	token := uuid.NewString()
	now := time.Now()
	u.QRToken = &token
	u.QRTokenCreatedAt = &now
	if err := h.store.SaveUser(&u); err != nil {
		respondErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "QR token generated successfully.",
		"qr_token":        token,
		"quick_entry_url": "/quick-entry/" + token,
		"qr_image_url":    "/qr/" + token + ".png",
	})
}
