package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hkm/sadhana/internal/models"
	"github.com/hkm/sadhana/internal/store"
)

// CurrentMonth gets or creates the owner's record for today's month and
// refreshes its week association from the owner's weeks of that month.
func (a *Activities) CurrentMonth(userID uint, today time.Time) (map[string]any, error) {
	month, year := int(today.Month()), today.Year()

	rec, _, err := a.store.UpsertMonthly(userID, month, year, func(*models.MonthlyActivity) error {
		return nil
	})
	if err != nil {
		return nil, err
	}

	weeks, err := a.store.WeeksForMonth(userID, month, year)
	if err != nil {
		return nil, err
	}
	if err := a.store.ReplaceMonthlyWeeks(&rec, weeks); err != nil {
		return nil, err
	}

	u, err := a.store.UserByID(userID)
	if err != nil {
		return nil, err
	}
	rec.User = u
	return RenderMonthly(rec), nil
}

// MonthActivity fetches an existing record for an explicit month/year.
func (a *Activities) MonthActivity(userID uint, month, year string) (map[string]any, error) {
	if month == "" || year == "" {
		return nil, validationf("month and year are required")
	}
	m, err := parseMonth(month)
	if err != nil {
		return nil, err
	}
	y, err := parseYear(year)
	if err != nil {
		return nil, err
	}

	rec, err := a.store.GetMonthly(userID, m, y)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Reason: "monthly activity not found for this month/year"}
	}
	if err != nil {
		return nil, err
	}
	return RenderMonthly(rec), nil
}

// AddOrEditMonth upserts the (owner, month, year) record. Only recognized
// monthly fields are applied; the week association is replaced wholesale,
// either from the caller's week_ids (filtered to owned weeks) or
// auto-discovered from the owner's weeks of that month.
func (a *Activities) AddOrEditMonth(userID uint, body map[string]any) (UpsertResult, error) {
	month, err := intField("month", body["month"])
	if err != nil {
		return UpsertResult{}, err
	}
	if month < 1 || month > 12 {
		return UpsertResult{}, validationf("invalid month, must be 1-12")
	}
	year, err := intField("year", body["year"])
	if err != nil {
		return UpsertResult{}, err
	}

	rec, created, err := a.store.UpsertMonthly(userID, month, year, func(m *models.MonthlyActivity) error {
		return applyMonthlyFields(m, body)
	})
	if err != nil {
		return UpsertResult{}, err
	}

	weekIDs := weekIDList(body["week_ids"])
	var weeks []models.Week
	if len(weekIDs) > 0 {
		weeks, err = a.store.WeeksOwnedByIDs(userID, weekIDs)
		if err != nil {
			return UpsertResult{}, err
		}
	}
	if len(weeks) == 0 {
		weeks, err = a.store.WeeksForMonth(userID, month, year)
		if err != nil {
			return UpsertResult{}, err
		}
	}
	if err := a.store.ReplaceMonthlyWeeks(&rec, weeks); err != nil {
		return UpsertResult{}, err
	}

	u, err := a.store.UserByID(userID)
	if err != nil {
		return UpsertResult{}, err
	}
	rec.User = u

	verb := "updated"
	if created {
		verb = "created"
	}
	return UpsertResult{
		Created: created,
		Message: fmt.Sprintf("Monthly activity %s successfully.", verb),
		Data:    RenderMonthly(rec),
	}, nil
}

// FilterMonthly lists the owner's monthly records, newest period first.
func (a *Activities) FilterMonthly(userID uint, month, year string) (map[string]any, error) {
	f := store.MonthlyFilter{UserID: userID}
	if month != "" {
		m, err := parseMonth(month)
		if err != nil {
			return nil, err
		}
		f.Month = m
	}
	if year != "" {
		y, err := parseYear(year)
		if err != nil {
			return nil, err
		}
		f.Year = y
	}

	recs, err := a.store.FindMonthly(f)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, RenderMonthly(r))
	}
	return map[string]any{
		"total_count": len(recs),
		"activities":  rows,
	}, nil
}

// weekIDList coerces a JSON week_ids array; anything unusable is ignored so
// the auto-discovery fallback kicks in.
func weekIDList(v any) []uint {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]uint, 0, len(arr))
	for _, e := range arr {
		if id, err := intField("week_ids", e); err == nil && id > 0 {
			out = append(out, uint(id))
		}
	}
	return out
}
