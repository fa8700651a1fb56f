package services

import (
	"errors"
	"math"
	"sort"
	"strconv"

	"gorm.io/gorm"

	"github.com/hkm/sadhana/internal/calendar"
)

// AnalyticsInput carries the raw dashboard query strings. DevoteeID narrows
// the rollup to one owner; everything else composes conjunctively.
type AnalyticsInput struct {
	DevoteeID string
	StartDate string
	EndDate   string
	WeekID    string
	Month     string
	Year      string
}

type AnalyticsSummary struct {
	TotalActivities       int     `json:"total_activities"`
	TotalDevotees         int64   `json:"total_devotees"`
	HearingCompletionRate float64 `json:"hearing_completion_rate"`
	ReadingCompletionRate float64 `json:"reading_completion_rate"`
	TotalChantingRounds   int     `json:"total_chanting_rounds"`
	AvgChantingRounds     float64 `json:"avg_chanting_rounds"`
	SportAttendanceRate   float64 `json:"sport_attendance_rate"`
}

type DailyPoint struct {
	Date             string `json:"date"`
	HearingCompleted int    `json:"hearing_completed"`
	ReadingCompleted int    `json:"reading_completed"`
	ChantingRounds   int    `json:"chanting_rounds"`
	ActivitiesCount  int    `json:"activities_count"`
}

type WeeklyPoint struct {
	WeekName         string `json:"week_name"`
	ActivitiesCount  int    `json:"activities_count"`
	HearingCompleted int    `json:"hearing_completed"`
	ReadingCompleted int    `json:"reading_completed"`
	ChantingRounds   int    `json:"chanting_rounds"`
}

type MonthlyPoint struct {
	Month            int `json:"month"`
	Year             int `json:"year"`
	ActivitiesCount  int `json:"activities_count"`
	HearingCompleted int `json:"hearing_completed"`
	ReadingCompleted int `json:"reading_completed"`
	ChantingRounds   int `json:"chanting_rounds"`
}

type AnalyticsResult struct {
	Summary          AnalyticsSummary `json:"summary"`
	DailyChartData   []DailyPoint     `json:"daily_chart_data"`
	WeeklyChartData  []WeeklyPoint    `json:"weekly_chart_data"`
	MonthlyChartData []MonthlyPoint   `json:"monthly_chart_data"`
}

// Analytics rolls the filtered daily set up into dataset totals plus three
// chart groupings. The three groupings are independent reductions over the
// same stream, so everything accumulates in a single O(n) pass instead of
// three store scans. An empty set yields zero rates and empty arrays.
func (ad *Admin) Analytics(in AnalyticsInput) (AnalyticsResult, error) {
	var userID uint
	if in.DevoteeID != "" {
		id, err := strconv.ParseUint(in.DevoteeID, 10, 32)
		if err != nil {
			return AnalyticsResult{}, validationf("invalid devotee id")
		}
		dev, err := ad.store.DevoteeByID(uint(id))
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AnalyticsResult{}, &NotFoundError{Reason: "devotee not found"}
		}
		if err != nil {
			return AnalyticsResult{}, err
		}
		userID = dev.ID
	}

	df, _, err := ad.dailyFilter(userID, ActivityFilterInput{
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		WeekID:    in.WeekID,
		Month:     in.Month,
		Year:      in.Year,
	})
	if err != nil {
		return AnalyticsResult{}, err
	}

	acts, err := ad.store.FindDaily(df, "", 0)
	if err != nil {
		return AnalyticsResult{}, err
	}

	var (
		hearingDone, readingDone int
		chantingSum              int
		sportAttended, sportDue  int

		daily      = make(map[string]*DailyPoint)
		weekly     = make(map[uint]*WeeklyPoint)
		weeklyOrd  []uint
		monthly    = make(map[int]*MonthlyPoint)
		monthlyOrd []int
	)

	for _, a := range acts {
		hearing := a.DailyHearing == "Completed"
		reading := a.DailyReading == "Completed"
		if hearing {
			hearingDone++
		}
		if reading {
			readingDone++
		}
		chantingSum += a.DailyChanting
		switch a.SportSessionAttendance {
		case "Attended":
			sportAttended++
			sportDue++
		case "Not Attended":
			sportDue++
		}

		dateKey := calendar.FormatDate(a.Date)
		dp, ok := daily[dateKey]
		if !ok {
			dp = &DailyPoint{Date: dateKey}
			daily[dateKey] = dp
		}
		dp.ActivitiesCount++
		dp.ChantingRounds += a.DailyChanting
		if hearing {
			dp.HearingCompleted++
		}
		if reading {
			dp.ReadingCompleted++
		}

		wp, ok := weekly[a.WeekID]
		if !ok {
			wp = &WeeklyPoint{WeekName: a.Week.Name}
			weekly[a.WeekID] = wp
			weeklyOrd = append(weeklyOrd, a.WeekID)
		}
		wp.ActivitiesCount++
		wp.ChantingRounds += a.DailyChanting
		if hearing {
			wp.HearingCompleted++
		}
		if reading {
			wp.ReadingCompleted++
		}

		monthKey := a.Date.Year()*100 + int(a.Date.Month())
		mp, ok := monthly[monthKey]
		if !ok {
			mp = &MonthlyPoint{Month: int(a.Date.Month()), Year: a.Date.Year()}
			monthly[monthKey] = mp
			monthlyOrd = append(monthlyOrd, monthKey)
		}
		mp.ActivitiesCount++
		mp.ChantingRounds += a.DailyChanting
		if hearing {
			mp.HearingCompleted++
		}
		if reading {
			mp.ReadingCompleted++
		}
	}

	devotees, err := ad.store.CountDevotees()
	if err != nil {
		return AnalyticsResult{}, err
	}

	total := len(acts)
	avg := 0.0
	if total > 0 {
		avg = float64(chantingSum) / float64(total)
	}
	result := AnalyticsResult{
		Summary: AnalyticsSummary{
			TotalActivities:       total,
			TotalDevotees:         devotees,
			HearingCompletionRate: rate(hearingDone, total),
			ReadingCompletionRate: rate(readingDone, total),
			TotalChantingRounds:   chantingSum,
			AvgChantingRounds:     round2(avg),
			SportAttendanceRate:   rate(sportAttended, sportDue),
		},
		DailyChartData:   make([]DailyPoint, 0, len(daily)),
		WeeklyChartData:  make([]WeeklyPoint, 0, len(weekly)),
		MonthlyChartData: make([]MonthlyPoint, 0, len(monthly)),
	}

	// Daily: ascending by date (ISO strings sort chronologically).
	dateKeys := make([]string, 0, len(daily))
	for k := range daily {
		dateKeys = append(dateKeys, k)
	}
	sort.Strings(dateKeys)
	for _, k := range dateKeys {
		result.DailyChartData = append(result.DailyChartData, *daily[k])
	}

	// Weekly: first-seen grouping order, deliberately unsorted.
	for _, id := range weeklyOrd {
		result.WeeklyChartData = append(result.WeeklyChartData, *weekly[id])
	}

	// Monthly: ascending by (year, month).
	sort.Ints(monthlyOrd)
	for _, k := range monthlyOrd {
		result.MonthlyChartData = append(result.MonthlyChartData, *monthly[k])
	}

	return result, nil
}

// rate is completed/total as a percentage, 0 when the denominator is 0.
func rate(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(n) / float64(total) * 100)
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
