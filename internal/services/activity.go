// Package services implements the temporal policy and rollup core over the
// store adapter. Every operation takes "today" (or "now") as an explicit
// parameter instead of reading a clock, so calendar-boundary behavior is
// deterministic under test.
package services

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"github.com/hkm/sadhana/internal/calendar"
	"github.com/hkm/sadhana/internal/models"
	"github.com/hkm/sadhana/internal/policy"
	"github.com/hkm/sadhana/internal/store"
)

type Activities struct {
	store *store.Store
}

func NewActivities(st *store.Store) *Activities {
	return &Activities{store: st}
}

type DayView struct {
	Date           string         `json:"date"`
	Day            string         `json:"day"`
	IsEditable     bool           `json:"is_editable"`
	EditableFields []string       `json:"editable_fields"`
	Activity       map[string]any `json:"activity"`
}

type WeekView struct {
	WeekName  string    `json:"week_name"`
	StartDate string    `json:"start_date"`
	EndDate   string    `json:"end_date"`
	Days      []DayView `json:"days"`
}

// WeekData renders the 7 days of the current Monday-Sunday window. Days after
// today are visible but locked; the Week row is materialized lazily.
func (a *Activities) WeekData(userID uint, today time.Time) (WeekView, error) {
	today = calendar.DateOf(today)
	monday, sunday := calendar.WeekBounds(today)

	wk, _, err := a.store.GetOrCreateWeek(userID, monday, sunday)
	if err != nil {
		return WeekView{}, err
	}

	acts, err := a.store.FindDaily(store.DailyFilter{UserID: userID, From: monday, To: sunday}, "", 0)
	if err != nil {
		return WeekView{}, err
	}
	byDate := make(map[string]models.DailyActivity, len(acts))
	for _, act := range acts {
		byDate[calendar.FormatDate(act.Date)] = act
	}

	view := WeekView{
		WeekName:  wk.Name,
		StartDate: calendar.FormatDate(monday),
		EndDate:   calendar.FormatDate(sunday),
		Days:      make([]DayView, 0, 7),
	}
	for i := 0; i < 7; i++ {
		d := monday.AddDate(0, 0, i)
		day := calendar.DayName(d)
		editable := !d.After(today)

		dv := DayView{
			Date:           calendar.FormatDate(d),
			Day:            day,
			IsEditable:     editable,
			EditableFields: []string{},
		}
		if editable {
			dv.EditableFields = policy.AllowedFields(day)
		}
		if act, ok := byDate[dv.Date]; ok {
			dv.Activity = RenderDaily(act)
		}
		view.Days = append(view.Days, dv)
	}
	return view, nil
}

type UpsertResult struct {
	Created        bool           `json:"created"`
	Message        string         `json:"message"`
	Day            string         `json:"day_name"`
	EditableFields []string       `json:"editable_fields"`
	Data           map[string]any `json:"data"`
}

// AddOrEditDay upserts the (owner, date) record. The write window is
// anchored to today's week: any permitted date attaches to the Week of
// today's Monday, and only fields the target's weekday unlocks survive the
// allowlist filter (extra authenticated input is dropped silently).
func (a *Activities) AddOrEditDay(userID uint, today time.Time, body map[string]any) (UpsertResult, error) {
	dateStr, _ := body["date"].(string)
	if dateStr == "" {
		return UpsertResult{}, validationf("date is required")
	}
	target, err := calendar.ParseDate(dateStr)
	if err != nil {
		return UpsertResult{}, validationf("invalid date format, use YYYY-MM-DD")
	}

	today = calendar.DateOf(today)
	if err := policy.AuthorizeWrite(today, target); err != nil {
		return UpsertResult{}, &PolicyError{Reason: err.Error()}
	}

	monday, sunday := calendar.WeekBounds(today)
	wk, _, err := a.store.GetOrCreateWeek(userID, monday, sunday)
	if err != nil {
		return UpsertResult{}, err
	}

	day := calendar.DayName(target)
	allowed := policy.AllowedFields(day)
	update := policy.FilterAllowed(body, allowed)

	rec, created, err := a.store.UpsertDaily(userID, target, wk.ID, func(r *models.DailyActivity) error {
		return applyDailyFields(r, update)
	})
	if err != nil {
		return UpsertResult{}, err
	}

	u, err := a.store.UserByID(userID)
	if err != nil {
		return UpsertResult{}, err
	}
	rec.User = u
	rec.Week = wk

	verb := "updated"
	if created {
		verb = "created"
	}
	return UpsertResult{
		Created:        created,
		Message:        fmt.Sprintf("%s data %s successfully.", day, verb),
		Day:            day,
		EditableFields: allowed,
		Data:           RenderDaily(rec),
	}, nil
}

// DeleteDay removes a record if its date still falls inside the current
// write window, week start through today.
func (a *Activities) DeleteDay(userID uint, today time.Time, id uint) error {
	rec, err := a.store.GetDailyByID(userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Reason: "activity not found"}
	}
	if err != nil {
		return err
	}
	if !policy.InWindow(today, rec.Date) {
		return &PolicyError{Reason: "cannot delete this date's data"}
	}
	return a.store.DeleteDaily(rec.ID)
}

type WeekGroup struct {
	WeekID        uint             `json:"week_id"`
	WeekName      string           `json:"week_name"`
	StartDate     string           `json:"start_date"`
	EndDate       string           `json:"end_date"`
	Month         int              `json:"month"`
	Year          int              `json:"year"`
	IsCurrentWeek bool             `json:"is_current_week"`
	Activities    []map[string]any `json:"activities"`
}

type FilterResult struct {
	TotalCount int          `json:"total_count"`
	Weeks      []*WeekGroup `json:"weeks"`
}

// Filter returns the owner's records, newest first, grouped by their owning
// week in first-seen order. weekID/month/year are raw query strings; empty
// means unfiltered, anything malformed is rejected.
func (a *Activities) Filter(userID uint, today time.Time, weekID, month, year string) (FilterResult, error) {
	f := store.DailyFilter{UserID: userID}

	if weekID != "" {
		id, err := strconv.ParseUint(weekID, 10, 32)
		if err != nil {
			return FilterResult{}, validationf("invalid week id")
		}
		wk, err := a.store.WeekByID(uint(id))
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && wk.CreatedByID != userID) {
			return FilterResult{}, &NotFoundError{Reason: "week not found"}
		}
		if err != nil {
			return FilterResult{}, err
		}
		f.WeekID = wk.ID
	}
	if month != "" {
		m, err := parseMonth(month)
		if err != nil {
			return FilterResult{}, err
		}
		f.Month = m
	}
	if year != "" {
		y, err := parseYear(year)
		if err != nil {
			return FilterResult{}, err
		}
		f.Year = y
	}

	acts, err := a.store.FindDaily(f, "date DESC", 0)
	if err != nil {
		return FilterResult{}, err
	}

	monday, sunday := calendar.WeekBounds(calendar.DateOf(today))
	result := FilterResult{TotalCount: len(acts), Weeks: []*WeekGroup{}}
	groups := make(map[uint]*WeekGroup)
	for _, act := range acts {
		g, ok := groups[act.WeekID]
		if !ok {
			start := calendar.DateOf(act.Week.StartDate)
			g = &WeekGroup{
				WeekID:        act.WeekID,
				WeekName:      act.Week.Name,
				StartDate:     calendar.FormatDate(act.Week.StartDate),
				EndDate:       calendar.FormatDate(act.Week.EndDate),
				Month:         act.Week.Month,
				Year:          act.Week.Year,
				IsCurrentWeek: !start.Before(monday) && !start.After(sunday),
				Activities:    []map[string]any{},
			}
			groups[act.WeekID] = g
			result.Weeks = append(result.Weeks, g)
		}
		g.Activities = append(g.Activities, RenderDaily(act))
	}
	return result, nil
}

// ChantingRoundCount sums the owner's japa rounds across all records.
func (a *Activities) ChantingRoundCount(userID uint) (int, error) {
	total, err := a.store.AggregateDaily(store.DailyFilter{UserID: userID}, store.OpSum, "daily_chanting")
	if err != nil {
		return 0, err
	}
	return int(total), nil
}
