package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hkm/sadhana/internal/calendar"
	"github.com/hkm/sadhana/internal/models"
	"github.com/hkm/sadhana/internal/policy"
	"github.com/hkm/sadhana/internal/store"
)

// tokenMaxAge is the hard expiry on quick-entry tokens.
const tokenMaxAge = 365 * 24 * time.Hour

// QuickEntry serves the anonymous token flow: a QR token substitutes for a
// session, is re-validated from scratch on every call, and can only ever
// write today's record.
type QuickEntry struct {
	store *store.Store
}

func NewQuickEntry(st *store.Store) *QuickEntry {
	return &QuickEntry{store: st}
}

// resolve maps a token to its active principal for exactly one request.
func (q *QuickEntry) resolve(token string, now time.Time) (models.User, error) {
	if token == "" {
		return models.User{}, validationf("token is required")
	}
	u, err := q.store.UserByQRToken(token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.User{}, &NotFoundError{Reason: "invalid or expired QR token, generate a new QR code from your profile"}
	}
	if err != nil {
		return models.User{}, err
	}
	if u.QRTokenCreatedAt != nil && now.Sub(*u.QRTokenCreatedAt) > tokenMaxAge {
		return models.User{}, &PolicyError{Reason: "QR token has expired, generate a new QR code from your profile"}
	}
	return u, nil
}

// Validate checks the token and describes today's editable fields, prefilled
// from any existing record. Read-only; token state is never mutated.
func (q *QuickEntry) Validate(token string, now time.Time) (map[string]any, error) {
	u, err := q.resolve(token, now)
	if err != nil {
		return nil, err
	}

	today := calendar.DateOf(now)
	day := calendar.DayName(today)
	allowed := policy.AllowedFields(day)

	var existing map[string]any
	act, err := q.store.GetDaily(u.ID, today)
	switch {
	case err == nil:
		existing = RenderDaily(act)
	case errors.Is(err, gorm.ErrRecordNotFound):
	default:
		return nil, err
	}

	return map[string]any{
		"valid":             true,
		"user_name":         u.FullName(),
		"today":             calendar.FormatDate(today),
		"day_name":          day,
		"editable_fields":   allowed,
		"field_definitions": FieldDefinitions(allowed, existing),
		"has_existing_data": existing != nil,
	}, nil
}

// Submit writes today's record through the token. Unlike the authenticated
// path, any field outside today's allowlist is a hard rejection; the target
// date is always today, never client-supplied.
func (q *QuickEntry) Submit(token string, now time.Time, body map[string]any) (UpsertResult, error) {
	u, err := q.resolve(token, now)
	if err != nil {
		return UpsertResult{}, err
	}

	today := calendar.DateOf(now)
	day := calendar.DayName(today)
	allowed := policy.AllowedFields(day)

	// "date" may be present for client-side display but is never honored.
	if bad := policy.Disallowed(body, allowed, "date"); len(bad) > 0 {
		return UpsertResult{}, &PolicyError{
			Reason: fmt.Sprintf("invalid fields submitted: %s, only today's fields are allowed", strings.Join(bad, ", ")),
		}
	}

	monday, sunday := calendar.WeekBounds(today)
	wk, _, err := q.store.GetOrCreateWeek(u.ID, monday, sunday)
	if err != nil {
		return UpsertResult{}, err
	}

	update := policy.FilterAllowed(body, allowed)
	rec, created, err := q.store.UpsertDaily(u.ID, today, wk.ID, func(r *models.DailyActivity) error {
		return applyDailyFields(r, update)
	})
	if err != nil {
		return UpsertResult{}, err
	}
	rec.User = u
	rec.Week = wk

	verb := "updated"
	if created {
		verb = "saved"
	}
	return UpsertResult{
		Created:        created,
		Message:        fmt.Sprintf("Today's (%s) activities %s successfully!", day, verb),
		Day:            day,
		EditableFields: allowed,
		Data:           RenderDaily(rec),
	}, nil
}
