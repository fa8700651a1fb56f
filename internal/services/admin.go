package services

import (
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/hkm/sadhana/internal/calendar"
	"github.com/hkm/sadhana/internal/models"
	"github.com/hkm/sadhana/internal/store"
)

// Admin serves the cross-user read surface. Role gating happens at the
// boundary; these methods assume the caller is already an admin.
type Admin struct {
	store *store.Store
}

func NewAdmin(st *store.Store) *Admin {
	return &Admin{store: st}
}

func renderDevotee(u models.User) map[string]any {
	return map[string]any{
		"id":               u.ID,
		"username":         u.Username,
		"first_name":       u.FirstName,
		"last_name":        u.LastName,
		"full_name":        u.FullName(),
		"email":            u.Email,
		"is_active":        u.Active,
		"is_user_verified": u.Verified,
		"created_at":       u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ListDevotees returns all non-admin users, optionally narrowed by search,
// newest first, each with activity totals.
func (ad *Admin) ListDevotees(search string) (map[string]any, error) {
	users, err := ad.store.Devotees(search)
	if err != nil {
		return nil, err
	}
	rows := make([]map[string]any, 0, len(users))
	for _, u := range users {
		daily, err := ad.store.CountDaily(store.DailyFilter{UserID: u.ID})
		if err != nil {
			return nil, err
		}
		monthly, err := ad.store.CountMonthly(store.MonthlyFilter{UserID: u.ID})
		if err != nil {
			return nil, err
		}
		row := renderDevotee(u)
		row["total_daily_activities"] = daily
		row["total_monthly_activities"] = monthly
		rows = append(rows, row)
	}
	return map[string]any{
		"total_count": len(users),
		"devotees":    rows,
	}, nil
}

// recentDailyLimit caps the daily history bundled into a detail response.
const recentDailyLimit = 50

// DevoteeDetail bundles a devotee's profile with recent daily and all
// monthly activities. The sub-fetches are best-effort: a failed collection
// degrades to empty and is logged, it never fails the whole response.
func (ad *Admin) DevoteeDetail(id uint) (map[string]any, error) {
	dev, err := ad.store.DevoteeByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Reason: "devotee not found"}
	}
	if err != nil {
		return nil, err
	}

	out := renderDevotee(dev)
	out["updated_at"] = dev.UpdatedAt.UTC().Format(time.RFC3339)

	dailyRows := []map[string]any{}
	daily, err := ad.store.FindDaily(store.DailyFilter{UserID: dev.ID}, "date DESC", recentDailyLimit)
	if err != nil {
		log.Printf("devotee %d detail: daily sub-fetch failed: %v", dev.ID, err)
	} else {
		for _, a := range daily {
			dailyRows = append(dailyRows, RenderDailyAdmin(a))
		}
	}
	out["daily_activities"] = dailyRows

	monthlyRows := []map[string]any{}
	monthly, err := ad.store.FindMonthly(store.MonthlyFilter{UserID: dev.ID})
	if err != nil {
		log.Printf("devotee %d detail: monthly sub-fetch failed: %v", dev.ID, err)
	} else {
		for _, m := range monthly {
			monthlyRows = append(monthlyRows, RenderMonthly(m))
		}
	}
	out["monthly_activities"] = monthlyRows

	return out, nil
}

// ActivityFilterInput carries the raw admin query strings; empty means
// unfiltered.
type ActivityFilterInput struct {
	StartDate string
	EndDate   string
	WeekID    string
	Month     string
	Year      string
}

// dailyFilter translates the raw input into store predicates.
func (ad *Admin) dailyFilter(userID uint, in ActivityFilterInput) (store.DailyFilter, store.MonthlyFilter, error) {
	df := store.DailyFilter{UserID: userID}
	mf := store.MonthlyFilter{UserID: userID}

	if in.StartDate != "" && in.EndDate != "" {
		from, err := calendar.ParseDate(in.StartDate)
		if err != nil {
			return df, mf, validationf("invalid date format, use YYYY-MM-DD")
		}
		to, err := calendar.ParseDate(in.EndDate)
		if err != nil {
			return df, mf, validationf("invalid date format, use YYYY-MM-DD")
		}
		df.From, df.To = from, to
	}
	if in.WeekID != "" {
		id, err := parseYear(in.WeekID) // plain integer parse
		if err != nil || id < 1 {
			return df, mf, validationf("invalid week id")
		}
		wk, err := ad.store.WeekByID(uint(id))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return df, mf, &NotFoundError{Reason: "week not found"}
		}
		if err != nil {
			return df, mf, err
		}
		df.WeekID = wk.ID
	}
	if in.Month != "" {
		m, err := parseMonth(in.Month)
		if err != nil {
			return df, mf, err
		}
		df.Month, mf.Month = m, m
	}
	if in.Year != "" {
		y, err := parseYear(in.Year)
		if err != nil {
			return df, mf, err
		}
		df.Year, mf.Year = y, y
	}
	return df, mf, nil
}

// FilterDevoteeActivities returns one devotee's daily and monthly rows under
// the composed filters, with counts.
func (ad *Admin) FilterDevoteeActivities(id uint, in ActivityFilterInput) (map[string]any, error) {
	dev, err := ad.store.DevoteeByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Reason: "devotee not found"}
	}
	if err != nil {
		return nil, err
	}

	df, mf, err := ad.dailyFilter(dev.ID, in)
	if err != nil {
		return nil, err
	}

	daily, err := ad.store.FindDaily(df, "date DESC", 0)
	if err != nil {
		return nil, err
	}
	monthly, err := ad.store.FindMonthly(mf)
	if err != nil {
		return nil, err
	}

	dailyRows := make([]map[string]any, 0, len(daily))
	for _, a := range daily {
		dailyRows = append(dailyRows, RenderDailyAdmin(a))
	}
	monthlyRows := make([]map[string]any, 0, len(monthly))
	for _, m := range monthly {
		monthlyRows = append(monthlyRows, RenderMonthly(m))
	}

	return map[string]any{
		"daily_activities":   dailyRows,
		"monthly_activities": monthlyRows,
		"total_daily":        len(daily),
		"total_monthly":      len(monthly),
	}, nil
}
