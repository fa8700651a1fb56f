// Package store is the adapter between the services and the relational
// store. It owns the natural-key upsert semantics: one DailyActivity per
// (user, date), one MonthlyActivity per (user, month, year), one Week per
// owner per Monday. Concurrent writers racing on the same key serialize
// through the unique indexes; a create that loses the race degrades to an
// update instead of surfacing a duplicate.
package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/hkm/sadhana/internal/calendar"
	"github.com/hkm/sadhana/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// ErrNotFound is returned by single-row lookups with no match.
var ErrNotFound = gorm.ErrRecordNotFound

// --- Weeks ---

func weekIdentity(userID uint, monday, sunday time.Time) map[string]any {
	return map[string]any{
		"created_by_id": userID,
		"start_date":    monday,
		"end_date":      sunday,
		"month":         int(monday.Month()),
		"year":          monday.Year(),
	}
}

// GetOrCreateWeek is the idempotent "ensure" for the Week identity key.
func (s *Store) GetOrCreateWeek(userID uint, monday, sunday time.Time) (models.Week, bool, error) {
	var wk models.Week
	err := s.db.Where(weekIdentity(userID, monday, sunday)).First(&wk).Error
	if err == nil {
		return wk, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return wk, false, err
	}

	wk = models.Week{
		Name:        "Week of " + calendar.FormatDate(monday),
		StartDate:   monday,
		EndDate:     sunday,
		Month:       int(monday.Month()),
		Year:        monday.Year(),
		CreatedByID: userID,
	}
	if cerr := s.db.Create(&wk).Error; cerr != nil {
		// Lost the race to a concurrent creator: the identity key
		// guarantees the row now exists, so read it back.
		var again models.Week
		if ferr := s.db.Where(weekIdentity(userID, monday, sunday)).First(&again).Error; ferr == nil {
			return again, false, nil
		}
		return wk, false, cerr
	}
	return wk, true, nil
}

func (s *Store) WeekByID(id uint) (models.Week, error) {
	var wk models.Week
	err := s.db.First(&wk, id).Error
	return wk, err
}

// WeeksOwnedByIDs returns the subset of ids that exist and belong to userID.
func (s *Store) WeeksOwnedByIDs(userID uint, ids []uint) ([]models.Week, error) {
	var out []models.Week
	err := s.db.Where("created_by_id = ? AND id IN ?", userID, ids).Find(&out).Error
	return out, err
}

func (s *Store) WeeksForMonth(userID uint, month, year int) ([]models.Week, error) {
	var out []models.Week
	err := s.db.Where("created_by_id = ? AND month = ? AND year = ?", userID, month, year).
		Order("start_date").Find(&out).Error
	return out, err
}

// --- Daily activities ---

// DailyFilter composes the supported predicates conjunctively. Zero values
// mean "no constraint"; UserID 0 is the admin cross-user scope.
type DailyFilter struct {
	UserID uint
	WeekID uint
	Month  int
	Year   int
	From   time.Time // inclusive, paired with To
	To     time.Time
}

func (f DailyFilter) apply(q *gorm.DB) *gorm.DB {
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.WeekID != 0 {
		q = q.Where("week_id = ?", f.WeekID)
	}
	if f.Month != 0 {
		q = q.Where("CAST(strftime('%m', date) AS INTEGER) = ?", f.Month)
	}
	if f.Year != 0 {
		q = q.Where("CAST(strftime('%Y', date) AS INTEGER) = ?", f.Year)
	}
	if !f.From.IsZero() && !f.To.IsZero() {
		q = q.Where("date BETWEEN ? AND ?", f.From, f.To)
	}
	return q
}

// FindDaily returns matching rows with Week and User preloaded. order is a
// code-supplied ORDER BY expression; empty means ascending by date. limit 0
// means no limit.
func (s *Store) FindDaily(f DailyFilter, order string, limit int) ([]models.DailyActivity, error) {
	if order == "" {
		order = "date"
	}
	q := f.apply(s.db.Preload("Week").Preload("User")).Order(order)
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []models.DailyActivity
	err := q.Find(&out).Error
	return out, err
}

func (s *Store) CountDaily(f DailyFilter) (int64, error) {
	var n int64
	err := f.apply(s.db.Model(&models.DailyActivity{})).Count(&n).Error
	return n, err
}

func (s *Store) GetDaily(userID uint, date time.Time) (models.DailyActivity, error) {
	var rec models.DailyActivity
	err := s.db.Preload("Week").Preload("User").
		Where("user_id = ? AND date = ?", userID, date).First(&rec).Error
	return rec, err
}

func (s *Store) GetDailyByID(userID, id uint) (models.DailyActivity, error) {
	var rec models.DailyActivity
	err := s.db.Where("id = ? AND user_id = ?", id, userID).First(&rec).Error
	return rec, err
}

// UpsertDaily creates or updates the (userID, date) row inside one
// transaction. The week reference is always re-derived by the caller and
// overwritten; apply mutates the record and may veto the write by returning
// an error. The bool result reports whether a new row was created.
func (s *Store) UpsertDaily(userID uint, date time.Time, weekID uint, apply func(*models.DailyActivity) error) (models.DailyActivity, bool, error) {
	var rec models.DailyActivity
	created := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND date = ?", userID, date).First(&rec).Error
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec = models.NewDailyActivity(userID, weekID, date)
			created = true
		default:
			return err
		}
		rec.WeekID = weekID
		if err := apply(&rec); err != nil {
			return err
		}
		if !created {
			return tx.Save(&rec).Error
		}
		if cerr := tx.Create(&rec).Error; cerr != nil {
			// Concurrent insert on the same natural key: treat as update.
			var existing models.DailyActivity
			if ferr := tx.Where("user_id = ? AND date = ?", userID, date).First(&existing).Error; ferr != nil {
				return cerr
			}
			created = false
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
			return tx.Save(&rec).Error
		}
		return nil
	})
	return rec, created, err
}

func (s *Store) DeleteDaily(id uint) error {
	return s.db.Delete(&models.DailyActivity{}, id).Error
}

// AggregateOp is a SQL aggregate applied over a filtered daily set.
type AggregateOp string

const (
	OpSum   AggregateOp = "SUM"
	OpAvg   AggregateOp = "AVG"
	OpMax   AggregateOp = "MAX"
	OpCount AggregateOp = "COUNT"
)

// AggregateDaily computes op over column for the filtered set. An empty set
// yields 0, never an error; column is a code-supplied identifier.
func (s *Store) AggregateDaily(f DailyFilter, op AggregateOp, column string) (float64, error) {
	var v float64
	sel := fmt.Sprintf("COALESCE(%s(%s), 0)", op, column)
	err := f.apply(s.db.Model(&models.DailyActivity{})).Select(sel).Scan(&v).Error
	return v, err
}

// --- Monthly activities ---

type MonthlyFilter struct {
	UserID uint
	Month  int
	Year   int
}

func (f MonthlyFilter) apply(q *gorm.DB) *gorm.DB {
	if f.UserID != 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Month != 0 {
		q = q.Where("month = ?", f.Month)
	}
	if f.Year != 0 {
		q = q.Where("year = ?", f.Year)
	}
	return q
}

// FindMonthly returns matching rows newest period first.
func (s *Store) FindMonthly(f MonthlyFilter) ([]models.MonthlyActivity, error) {
	var out []models.MonthlyActivity
	err := f.apply(s.db.Preload("Weeks").Preload("User")).
		Order("year DESC, month DESC").Find(&out).Error
	return out, err
}

func (s *Store) CountMonthly(f MonthlyFilter) (int64, error) {
	var n int64
	err := f.apply(s.db.Model(&models.MonthlyActivity{})).Count(&n).Error
	return n, err
}

func (s *Store) GetMonthly(userID uint, month, year int) (models.MonthlyActivity, error) {
	var rec models.MonthlyActivity
	err := s.db.Preload("Weeks").Preload("User").
		Where("user_id = ? AND month = ? AND year = ?", userID, month, year).First(&rec).Error
	return rec, err
}

// UpsertMonthly mirrors UpsertDaily for the (userID, month, year) key.
func (s *Store) UpsertMonthly(userID uint, month, year int, apply func(*models.MonthlyActivity) error) (models.MonthlyActivity, bool, error) {
	var rec models.MonthlyActivity
	created := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("user_id = ? AND month = ? AND year = ?", userID, month, year).First(&rec).Error
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec = models.NewMonthlyActivity(userID, month, year)
			created = true
		default:
			return err
		}
		if err := apply(&rec); err != nil {
			return err
		}
		if !created {
			return tx.Save(&rec).Error
		}
		if cerr := tx.Create(&rec).Error; cerr != nil {
			var existing models.MonthlyActivity
			if ferr := tx.Where("user_id = ? AND month = ? AND year = ?", userID, month, year).First(&existing).Error; ferr != nil {
				return cerr
			}
			created = false
			rec.ID = existing.ID
			rec.CreatedAt = existing.CreatedAt
			return tx.Save(&rec).Error
		}
		return nil
	})
	return rec, created, err
}

// ReplaceMonthlyWeeks swaps the informational week association wholesale.
func (s *Store) ReplaceMonthlyWeeks(m *models.MonthlyActivity, weeks []models.Week) error {
	if err := s.db.Model(m).Association("Weeks").Replace(weeks); err != nil {
		return err
	}
	m.Weeks = weeks
	return nil
}
