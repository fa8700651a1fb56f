package services

import (
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hkm/sadhana/internal/models"
	"github.com/hkm/sadhana/internal/store"
)

// openTestStore returns an isolated in-file SQLite store in a temp directory.
func openTestStore(t *testing.T) *store.Store {
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
	return store.New(gdb)
}

func seedUser(t *testing.T, s *store.Store, username string) models.User {
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
