package services

import (
	"time"

	"github.com/hkm/sadhana/internal/calendar"
	"github.com/hkm/sadhana/internal/models"
	"github.com/hkm/sadhana/internal/policy"
)

// dailyFields is the full wire representation of a daily record.
func dailyFields(a models.DailyActivity) map[string]any {
	return map[string]any{
		"id":                                a.ID,
		"user":                              a.User.Username,
		"week":                              a.WeekID,
		"week_name":                         a.Week.Name,
		"date":                              calendar.FormatDate(a.Date),
		"day_name":                          calendar.DayName(a.Date),
		"daily_hearing":                     string(a.DailyHearing),
		"daily_reading":                     string(a.DailyReading),
		"daily_chanting":                    a.DailyChanting,
		"sport_session_attendance":          string(a.SportSessionAttendance),
		"thursday_chanting_attendance":      string(a.ThursdayChantingAttendance),
		"friday_chanting_attendance":        string(a.FridayChantingAttendance),
		"sunday_offline_attendance":         string(a.SundayOfflineAttendance),
		"sunday_temple_chanting_attendance": string(a.SundayTempleChantingAttendance),
		"weekly_discussion_session":         string(a.WeeklyDiscussionSession),
		"weekly_sloka_audio_posted":         string(a.WeeklySlokaAudioPosted),
		"weekly_seva":                       string(a.WeeklySeva),
		"feedback":                          a.Feedback,
		"created_at":                        a.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// RenderDaily is the generic representation: day-conditional fields of other
// weekdays are stripped, whatever is stored.
func RenderDaily(a models.DailyActivity) map[string]any {
	m := dailyFields(a)
	policy.ProjectDayFields(m, calendar.DayName(a.Date))
	return m
}

// RenderDailyAdmin keeps every field; the admin surface sees the raw record.
func RenderDailyAdmin(a models.DailyActivity) map[string]any {
	return dailyFields(a)
}

func RenderWeek(w models.Week) map[string]any {
	return map[string]any{
		"id":         w.ID,
		"name":       w.Name,
		"start_date": calendar.FormatDate(w.StartDate),
		"end_date":   calendar.FormatDate(w.EndDate),
		"month":      w.Month,
		"year":       w.Year,
	}
}

func RenderMonthly(m models.MonthlyActivity) map[string]any {
	weeks := make([]map[string]any, 0, len(m.Weeks))
	for _, w := range m.Weeks {
		weeks = append(weeks, RenderWeek(w))
	}
	return map[string]any{
		"id":                       m.ID,
		"user":                     m.User.Username,
		"month":                    m.Month,
		"year":                     m.Year,
		"weeks":                    weeks,
		"one_to_one_meeting":       string(m.OneToOneMeeting),
		"morning_program":          string(m.MorningProgram),
		"book_completion":          string(m.BookCompletion),
		"book_name":                m.BookName,
		"book_discussion_attended": string(m.BookDiscussionAttended),
		"created_at":               m.CreatedAt.UTC().Format(time.RFC3339),
		"updated_at":               m.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
