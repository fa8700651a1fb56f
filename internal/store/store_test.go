package store

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hkm/sadhana/internal/calendar"
	"github.com/hkm/sadhana/internal/models"
)

// openTestDB returns an isolated in-file SQLite database in a temp directory.
func openTestDB(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dsn := filepath.Join(dir, "test.db") + "?_foreign_keys=on"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Week{},
		&models.DailyActivity{},
		&models.MonthlyActivity{},
	); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return New(gdb)
}

func seedUser(t *testing.T, s *Store, username string) models.User {
	t.Helper()
	u := models.User{Username: username, Email: username + "@example.com", FirstName: "Test", LastName: "User", Active: true}
	if err := s.CreateUser(&u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGetOrCreateWeekIdempotent(t *testing.T) {
	s := openTestDB(t)
	u := seedUser(t, s, "0811111111")
	monday, sunday := calendar.WeekBounds(date(2024, time.January, 3))

	wk, created, err := s.GetOrCreateWeek(u.ID, monday, sunday)
	if err != nil {
		t.Fatalf("first GetOrCreateWeek: %v", err)
	}
	if !created {
		t.Error("first call: want created=true")
	}
	if wk.Name != "Week of 2024-01-01" {
		t.Errorf("week name = %q", wk.Name)
	}

	again, created, err := s.GetOrCreateWeek(u.ID, monday, sunday)
	if err != nil {
		t.Fatalf("second GetOrCreateWeek: %v", err)
	}
	if created {
		t.Error("second call: want created=false")
	}
	if again.ID != wk.ID {
		t.Errorf("second call returned week %d, want %d", again.ID, wk.ID)
	}

	// A different owner gets a distinct week for the same span.
	other := seedUser(t, s, "0822222222")
	owk, created, err := s.GetOrCreateWeek(other.ID, monday, sunday)
	if err != nil {
		t.Fatalf("other owner: %v", err)
	}
	if !created || owk.ID == wk.ID {
		t.Errorf("other owner: created=%v id=%d, want a fresh week", created, owk.ID)
	}
}

func TestUpsertDaily(t *testing.T) {
	s := openTestDB(t)
	u := seedUser(t, s, "0811111111")
	monday, sunday := calendar.WeekBounds(date(2024, time.January, 3))
	wk, _, _ := s.GetOrCreateWeek(u.ID, monday, sunday)

	rec, created, err := s.UpsertDaily(u.ID, date(2024, time.January, 3), wk.ID, func(r *models.DailyActivity) error {
		r.DailyChanting = 16
		return nil
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if !created || rec.DailyChanting != 16 {
		t.Errorf("created=%v chanting=%d, want true/16", created, rec.DailyChanting)
	}
	if rec.DailyHearing != models.StatusNotCompleted {
		t.Errorf("default hearing = %q", rec.DailyHearing)
	}

	rec2, created, err := s.UpsertDaily(u.ID, date(2024, time.January, 3), wk.ID, func(r *models.DailyActivity) error {
		r.DailyChanting = 20
		return nil
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Error("second upsert: want created=false")
	}
	if rec2.ID != rec.ID || rec2.DailyChanting != 20 {
		t.Errorf("second upsert: id=%d chanting=%d", rec2.ID, rec2.DailyChanting)
	}

	n, _ := s.CountDaily(DailyFilter{UserID: u.ID})
	if n != 1 {
		t.Errorf("row count = %d, want 1", n)
	}
}

func TestUpsertDailyApplyErrorAborts(t *testing.T) {
	s := openTestDB(t)
	u := seedUser(t, s, "0811111111")
	monday, sunday := calendar.WeekBounds(date(2024, time.January, 3))
	wk, _, _ := s.GetOrCreateWeek(u.ID, monday, sunday)

	_, _, err := s.UpsertDaily(u.ID, date(2024, time.January, 3), wk.ID, func(r *models.DailyActivity) error {
		return gorm.ErrInvalidData
	})
	if err == nil {
		t.Fatal("expected apply error to propagate")
	}
	if n, _ := s.CountDaily(DailyFilter{UserID: u.ID}); n != 0 {
		t.Errorf("row count = %d, want 0 after aborted upsert", n)
	}
}

func TestFindDailyFilters(t *testing.T) {
	s := openTestDB(t)
	u := seedUser(t, s, "0811111111")

	for _, d := range []time.Time{
		date(2024, time.January, 3),
		date(2024, time.January, 10),
		date(2024, time.February, 5),
	} {
		monday, sunday := calendar.WeekBounds(d)
		wk, _, _ := s.GetOrCreateWeek(u.ID, monday, sunday)
		if _, _, err := s.UpsertDaily(u.ID, d, wk.ID, func(r *models.DailyActivity) error { return nil }); err != nil {
			t.Fatalf("seed %s: %v", d, err)
		}
	}

	jan, err := s.FindDaily(DailyFilter{UserID: u.ID, Month: 1}, "", 0)
	if err != nil {
		t.Fatalf("month filter: %v", err)
	}
	if len(jan) != 2 {
		t.Errorf("january rows = %d, want 2", len(jan))
	}

	y2024, err := s.FindDaily(DailyFilter{UserID: u.ID, Year: 2024}, "", 0)
	if err != nil {
		t.Fatalf("year filter: %v", err)
	}
	if len(y2024) != 3 {
		t.Errorf("2024 rows = %d, want 3", len(y2024))
	}

	ranged, err := s.FindDaily(DailyFilter{
		UserID: u.ID,
		From:   date(2024, time.January, 1),
		To:     date(2024, time.January, 7),
	}, "", 0)
	if err != nil {
		t.Fatalf("range filter: %v", err)
	}
	if len(ranged) != 1 {
		t.Errorf("ranged rows = %d, want 1", len(ranged))
	}

	// Default order is ascending by date, Week preloaded.
	all, _ := s.FindDaily(DailyFilter{UserID: u.ID}, "", 0)
	if len(all) != 3 || !all[0].Date.Before(all[2].Date) {
		t.Errorf("default ordering broken: %v", all)
	}
	if all[0].Week.Name == "" {
		t.Error("Week not preloaded")
	}
}

func TestAggregateDaily(t *testing.T) {
	s := openTestDB(t)
	u := seedUser(t, s, "0811111111")

	// Empty set: typed zero, no error.
	v, err := s.AggregateDaily(DailyFilter{UserID: u.ID}, OpSum, "daily_chanting")
	if err != nil {
		t.Fatalf("empty sum: %v", err)
	}
	if v != 0 {
		t.Errorf("empty sum = %v, want 0", v)
	}

	monday, sunday := calendar.WeekBounds(date(2024, time.January, 1))
	wk, _, _ := s.GetOrCreateWeek(u.ID, monday, sunday)
	for i, rounds := range []int{16, 0, 8} {
		d := monday.AddDate(0, 0, i)
		r := rounds
		if _, _, err := s.UpsertDaily(u.ID, d, wk.ID, func(rec *models.DailyActivity) error {
			rec.DailyChanting = r
			return nil
		}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	sum, _ := s.AggregateDaily(DailyFilter{UserID: u.ID}, OpSum, "daily_chanting")
	if sum != 24 {
		t.Errorf("sum = %v, want 24", sum)
	}
	avg, _ := s.AggregateDaily(DailyFilter{UserID: u.ID}, OpAvg, "daily_chanting")
	if avg != 8 {
		t.Errorf("avg = %v, want 8", avg)
	}
	highest, _ := s.AggregateDaily(DailyFilter{UserID: u.ID}, OpMax, "daily_chanting")
	if highest != 16 {
		t.Errorf("max = %v, want 16", highest)
	}
	cnt, _ := s.AggregateDaily(DailyFilter{UserID: u.ID}, OpCount, "id")
	if cnt != 3 {
		t.Errorf("count = %v, want 3", cnt)
	}
}

func TestUpsertMonthlyAndWeeks(t *testing.T) {
	s := openTestDB(t)
	u := seedUser(t, s, "0811111111")

	rec, created, err := s.UpsertMonthly(u.ID, 1, 2024, func(m *models.MonthlyActivity) error {
		m.BookName = "Gita"
		m.BookCompletion = models.BookPartiallyCompleted
		return nil
	})
	if err != nil {
		t.Fatalf("upsert monthly: %v", err)
	}
	if !created || rec.BookName != "Gita" {
		t.Errorf("created=%v book=%q", created, rec.BookName)
	}

	_, created, err = s.UpsertMonthly(u.ID, 1, 2024, func(m *models.MonthlyActivity) error { return nil })
	if err != nil {
		t.Fatalf("second upsert monthly: %v", err)
	}
	if created {
		t.Error("second upsert monthly: want created=false")
	}

	// Association replace is wholesale.
	m1, _, _ := s.GetOrCreateWeek(u.ID, date(2024, time.January, 1), date(2024, time.January, 7))
	m2, _, _ := s.GetOrCreateWeek(u.ID, date(2024, time.January, 8), date(2024, time.January, 14))
	if err := s.ReplaceMonthlyWeeks(&rec, []models.Week{m1, m2}); err != nil {
		t.Fatalf("replace weeks: %v", err)
	}
	got, _ := s.GetMonthly(u.ID, 1, 2024)
	if len(got.Weeks) != 2 {
		t.Fatalf("weeks = %d, want 2", len(got.Weeks))
	}
	if err := s.ReplaceMonthlyWeeks(&got, []models.Week{m2}); err != nil {
		t.Fatalf("second replace: %v", err)
	}
	got, _ = s.GetMonthly(u.ID, 1, 2024)
	if len(got.Weeks) != 1 || got.Weeks[0].ID != m2.ID {
		t.Errorf("weeks after replace = %v", got.Weeks)
	}
}

func TestFindMonthlyOrdering(t *testing.T) {
	s := openTestDB(t)
	u := seedUser(t, s, "0811111111")
	noop := func(m *models.MonthlyActivity) error { return nil }
	s.UpsertMonthly(u.ID, 1, 2024, noop)
	s.UpsertMonthly(u.ID, 12, 2023, noop)
	s.UpsertMonthly(u.ID, 3, 2024, noop)

	out, err := s.FindMonthly(MonthlyFilter{UserID: u.ID})
	if err != nil {
		t.Fatalf("find monthly: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("rows = %d, want 3", len(out))
	}
	if out[0].Month != 3 || out[1].Month != 1 || out[2].Month != 12 {
		t.Errorf("order = %d,%d,%d, want 3,1,12 (year desc, month desc)", out[0].Month, out[1].Month, out[2].Month)
	}
}

func TestDevoteeLookups(t *testing.T) {
	s := openTestDB(t)
	dev := seedUser(t, s, "0811111111")
	adm := models.User{Username: "0899999999", Email: "admin@example.com", FirstName: "Head", LastName: "Admin", Active: true, Admin: true}
	if err := s.CreateUser(&adm); err != nil {
		t.Fatalf("create admin: %v", err)
	}

	all, err := s.Devotees("")
	if err != nil {
		t.Fatalf("devotees: %v", err)
	}
	if len(all) != 1 || all[0].ID != dev.ID {
		t.Errorf("devotees = %v, want only the non-admin", all)
	}

	hits, _ := s.Devotees("0811")
	if len(hits) != 1 {
		t.Errorf("search hits = %d, want 1", len(hits))
	}
	miss, _ := s.Devotees("nobody")
	if len(miss) != 0 {
		t.Errorf("search misses = %d, want 0", len(miss))
	}

	if _, err := s.DevoteeByID(adm.ID); err == nil {
		t.Error("DevoteeByID must not resolve admins")
	}
	n, _ := s.CountDevotees()
	if n != 1 {
		t.Errorf("CountDevotees = %d, want 1", n)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	s := openTestDB(t)
	u := seedUser(t, s, "0811111111")
	monday, sunday := calendar.WeekBounds(date(2024, time.January, 3))
	wk, _, _ := s.GetOrCreateWeek(u.ID, monday, sunday)
	s.UpsertDaily(u.ID, date(2024, time.January, 3), wk.ID, func(r *models.DailyActivity) error { return nil })
	s.UpsertMonthly(u.ID, 1, 2024, func(m *models.MonthlyActivity) error { return nil })

	if err := s.DeleteUser(u.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if n, _ := s.CountDaily(DailyFilter{}); n != 0 {
		t.Errorf("daily rows after cascade = %d, want 0", n)
	}
	if n, _ := s.CountMonthly(MonthlyFilter{}); n != 0 {
		t.Errorf("monthly rows after cascade = %d, want 0", n)
	}
}
