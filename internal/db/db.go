package db

import (
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hkm/sadhana/internal/models"
)

var conn *gorm.DB

func Init(path string) error {
	var err error
	conn, err = gorm.Open(sqlite.Open(path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"), &gorm.Config{})
	if err != nil {
		return err
	}

	// SQLite works best with a single writer; cap the pool accordingly.
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := conn.AutoMigrate(
		&models.User{},
		&models.Week{},
		&models.DailyActivity{},
		&models.MonthlyActivity{},
	); err != nil {
		log.Fatalf("auto-migrate failed: %v", err)
	}

	// Lookup indexes that GORM doesn't auto-create from struct tags.
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_daily_week ON daily_activities(week_id)")
	conn.Exec("CREATE INDEX IF NOT EXISTS idx_week_owner ON weeks(created_by_id)")

	log.Println("database ready (sqlite)")
	return nil
}

func Conn() *gorm.DB {
	return conn
}
