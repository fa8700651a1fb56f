package services

import (
	"math"
	"strconv"

	"github.com/hkm/sadhana/internal/models"
	"github.com/hkm/sadhana/internal/policy"
)

// applyDailyFields copies already-allowlisted input values onto the record,
// validating each against its closed choice set.
func applyDailyFields(rec *models.DailyActivity, fields map[string]any) error {
	for name, v := range fields {
		if err := applyDailyField(rec, name, v); err != nil {
			return err
		}
	}
	return nil
}

func applyDailyField(rec *models.DailyActivity, name string, v any) error {
	switch name {
	case policy.FieldDailyHearing:
		s, err := choice(name, v, string(models.StatusCompleted), string(models.StatusNotCompleted))
		if err != nil {
			return err
		}
		rec.DailyHearing = models.Status(s)
	case policy.FieldDailyReading:
		s, err := choice(name, v, string(models.StatusCompleted), string(models.StatusNotCompleted))
		if err != nil {
			return err
		}
		rec.DailyReading = models.Status(s)
	case policy.FieldDailyChanting:
		n, err := rounds(v)
		if err != nil {
			return err
		}
		rec.DailyChanting = n
	case policy.FieldSportSession:
		s, err := choice(name, v, string(models.SportAttended), string(models.SportNotAttended), string(models.SportNoSession))
		if err != nil {
			return err
		}
		rec.SportSessionAttendance = models.SportSession(s)
	case policy.FieldThursdayChanting:
		s, err := attendance(name, v)
		if err != nil {
			return err
		}
		rec.ThursdayChantingAttendance = s
	case policy.FieldFridayChanting:
		s, err := attendance(name, v)
		if err != nil {
			return err
		}
		rec.FridayChantingAttendance = s
	case policy.FieldSundayOffline:
		s, err := attendance(name, v)
		if err != nil {
			return err
		}
		rec.SundayOfflineAttendance = s
	case policy.FieldSundayTempleChanting:
		s, err := attendance(name, v)
		if err != nil {
			return err
		}
		rec.SundayTempleChantingAttendance = s
	case policy.FieldWeeklyDiscussion:
		s, err := choice(name, v, string(models.DiscussionOnline), string(models.DiscussionOffline), string(models.DiscussionNotAttended))
		if err != nil {
			return err
		}
		rec.WeeklyDiscussionSession = models.Discussion(s)
	case policy.FieldWeeklySlokaAudioPosted:
		s, err := yesNo(name, v)
		if err != nil {
			return err
		}
		rec.WeeklySlokaAudioPosted = s
	case policy.FieldWeeklySeva:
		s, err := yesNo(name, v)
		if err != nil {
			return err
		}
		rec.WeeklySeva = s
	default:
		return validationf("unknown field %q", name)
	}
	return nil
}

// monthlyUpdateFields is the recognized monthly input set; anything else in
// the body is ignored.
var monthlyUpdateFields = []string{
	"one_to_one_meeting",
	"morning_program",
	"book_completion",
	"book_name",
	"book_discussion_attended",
}

func applyMonthlyFields(rec *models.MonthlyActivity, fields map[string]any) error {
	for _, name := range monthlyUpdateFields {
		v, ok := fields[name]
		if !ok {
			continue
		}
		switch name {
		case "one_to_one_meeting":
			s, err := yesNo(name, v)
			if err != nil {
				return err
			}
			rec.OneToOneMeeting = s
		case "morning_program":
			s, err := attendance(name, v)
			if err != nil {
				return err
			}
			rec.MorningProgram = s
		case "book_completion":
			s, err := choice(name, v, string(models.BookCompleted), string(models.BookPartiallyCompleted), string(models.BookNotCompleted))
			if err != nil {
				return err
			}
			rec.BookCompletion = models.BookCompletion(s)
		case "book_name":
			s, ok := v.(string)
			if !ok {
				return validationf("book_name must be a string")
			}
			rec.BookName = s
		case "book_discussion_attended":
			s, err := attendance(name, v)
			if err != nil {
				return err
			}
			rec.BookDiscussionAttended = s
		}
	}
	return nil
}

func choice(field string, v any, choices ...string) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", validationf("%s must be a string", field)
	}
	for _, c := range choices {
		if s == c {
			return s, nil
		}
	}
	return "", validationf("invalid value %q for %s", s, field)
}

func attendance(field string, v any) (models.Attendance, error) {
	s, err := choice(field, v, string(models.Attended), string(models.NotAttended))
	return models.Attendance(s), err
}

func yesNo(field string, v any) (models.YesNo, error) {
	s, err := choice(field, v, string(models.Yes), string(models.No))
	return models.YesNo(s), err
}

// rounds coerces a chanting-round count from JSON numbers or digit strings.
func rounds(v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, validationf("daily chanting must be a whole number")
		}
		if n < 0 {
			return 0, validationf("daily chanting rounds cannot be negative")
		}
		return int(n), nil
	case int:
		if n < 0 {
			return 0, validationf("daily chanting rounds cannot be negative")
		}
		return n, nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, validationf("daily chanting must be a valid number")
		}
		if i < 0 {
			return 0, validationf("daily chanting rounds cannot be negative")
		}
		return i, nil
	default:
		return 0, validationf("daily chanting must be a valid number")
	}
}

// intField reads a required integer out of a JSON body value.
func intField(name string, v any) (int, error) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, validationf("invalid %s format", name)
		}
		return int(n), nil
	case int:
		return n, nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, validationf("invalid %s format", name)
		}
		return i, nil
	case nil:
		return 0, validationf("%s is required", name)
	default:
		return 0, validationf("invalid %s format", name)
	}
}

func parseMonth(s string) (int, error) {
	m, err := strconv.Atoi(s)
	if err != nil {
		return 0, validationf("invalid month format")
	}
	if m < 1 || m > 12 {
		return 0, validationf("invalid month, must be 1-12")
	}
	return m, nil
}

func parseYear(s string) (int, error) {
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, validationf("invalid year format")
	}
	return y, nil
}
