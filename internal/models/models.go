package models

import "time"

// Choice values are stored exactly as they appear on the wire.

type Status string

const (
	StatusCompleted    Status = "Completed"
	StatusNotCompleted Status = "Not Completed"
)

type Attendance string

const (
	Attended    Attendance = "Attended"
	NotAttended Attendance = "Not Attended"
)

type SportSession string

const (
	SportAttended    SportSession = "Attended"
	SportNotAttended SportSession = "Not Attended"
	SportNoSession   SportSession = "No Session Today"
)

type Discussion string

const (
	DiscussionOnline      Discussion = "Online"
	DiscussionOffline     Discussion = "Offline"
	DiscussionNotAttended Discussion = "Not Attended"
)

type YesNo string

const (
	Yes YesNo = "Yes"
	No  YesNo = "No"
)

type BookCompletion string

const (
	BookCompleted          BookCompletion = "Completed"
	BookPartiallyCompleted BookCompletion = "Partially Completed"
	BookNotCompleted       BookCompletion = "Not Completed"
)

type User struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Username     string `gorm:"uniqueIndex;not null"` // mobile number
	Email        string `gorm:"uniqueIndex"`
	FirstName    string
	LastName     string
	PasswordHash string
	Verified     bool
	Active       bool
	Admin        bool

	// Opaque quick-entry token; nil until the user generates one.
	QRToken          *string    `gorm:"column:qr_token;uniqueIndex"`
	QRTokenCreatedAt *time.Time `gorm:"column:qr_token_created_at"`
}

func (u User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Week is a persisted Monday-Sunday span scoped to one creator. The five
// tagged columns form its identity key: one Week per owner per Monday.
type Week struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Name      string
	StartDate time.Time `gorm:"uniqueIndex:idx_week_identity"`
	EndDate   time.Time `gorm:"uniqueIndex:idx_week_identity"`
	Month     int       `gorm:"uniqueIndex:idx_week_identity"`
	Year      int       `gorm:"uniqueIndex:idx_week_identity"`

	CreatedByID uint `gorm:"uniqueIndex:idx_week_identity"`
	CreatedBy   User `gorm:"constraint:OnDelete:CASCADE"`
}

// DailyActivity holds one devotee's record for one date. (user_id, date) is
// the natural key; all writes are upserts against it.
type DailyActivity struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	UserID uint `gorm:"uniqueIndex:idx_daily_user_date"`
	User   User `gorm:"constraint:OnDelete:CASCADE"`
	WeekID uint
	Week   Week      `gorm:"constraint:OnDelete:CASCADE"`
	Date   time.Time `gorm:"uniqueIndex:idx_daily_user_date"`

	DailyHearing           Status
	DailyReading           Status
	DailyChanting          int // japa rounds
	SportSessionAttendance SportSession

	ThursdayChantingAttendance     Attendance
	FridayChantingAttendance       Attendance
	SundayOfflineAttendance        Attendance
	SundayTempleChantingAttendance Attendance

	WeeklyDiscussionSession Discussion
	WeeklySlokaAudioPosted  YesNo
	WeeklySeva              YesNo

	Feedback string
}

// NewDailyActivity returns a record with every choice field at its default.
func NewDailyActivity(userID, weekID uint, date time.Time) DailyActivity {
	return DailyActivity{
		UserID:                         userID,
		WeekID:                         weekID,
		Date:                           date,
		DailyHearing:                   StatusNotCompleted,
		DailyReading:                   StatusNotCompleted,
		SportSessionAttendance:         SportNotAttended,
		ThursdayChantingAttendance:     NotAttended,
		FridayChantingAttendance:       NotAttended,
		SundayOfflineAttendance:        NotAttended,
		SundayTempleChantingAttendance: NotAttended,
		WeeklyDiscussionSession:        DiscussionNotAttended,
		WeeklySlokaAudioPosted:         No,
		WeeklySeva:                     No,
	}
}

// MonthlyActivity holds one devotee's record for one calendar month.
// (user_id, month, year) is the natural key. The week association is
// informational and replaced wholesale on every edit.
type MonthlyActivity struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	UserID uint `gorm:"uniqueIndex:idx_monthly_user_period"`
	User   User `gorm:"constraint:OnDelete:CASCADE"`
	Month  int  `gorm:"uniqueIndex:idx_monthly_user_period"`
	Year   int  `gorm:"uniqueIndex:idx_monthly_user_period"`

	Weeks []Week `gorm:"many2many:monthly_activity_weeks"`

	OneToOneMeeting        YesNo
	MorningProgram         Attendance
	BookCompletion         BookCompletion
	BookName               string
	BookDiscussionAttended Attendance
}

func NewMonthlyActivity(userID uint, month, year int) MonthlyActivity {
	return MonthlyActivity{
		UserID:                 userID,
		Month:                  month,
		Year:                   year,
		OneToOneMeeting:        No,
		MorningProgram:         NotAttended,
		BookCompletion:         BookNotCompleted,
		BookDiscussionAttended: NotAttended,
	}
}
