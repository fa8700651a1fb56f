// Package policy is the single source of truth for which activity fields are
// legible and writable on which weekday, and for the temporal write window.
// The day table below is consulted by both the write-side field filter and
// the read-side projection so the two cannot drift apart.
package policy

import "sort"

// Field names as they appear on the wire.
const (
	FieldDailyHearing           = "daily_hearing"
	FieldDailyReading           = "daily_reading"
	FieldDailyChanting          = "daily_chanting"
	FieldSportSession           = "sport_session_attendance"
	FieldThursdayChanting       = "thursday_chanting_attendance"
	FieldFridayChanting         = "friday_chanting_attendance"
	FieldSundayOffline          = "sunday_offline_attendance"
	FieldSundayTempleChanting   = "sunday_temple_chanting_attendance"
	FieldWeeklyDiscussion       = "weekly_discussion_session"
	FieldWeeklySlokaAudioPosted = "weekly_sloka_audio_posted"
	FieldWeeklySeva             = "weekly_seva"
)

// BaseFields are editable every day.
var BaseFields = []string{
	FieldDailyHearing,
	FieldDailyReading,
	FieldDailyChanting,
	FieldSportSession,
}

// daySpecific maps a weekday name to the fields only that day unlocks.
var daySpecific = map[string][]string{
	"Monday":    nil,
	"Tuesday":   nil,
	"Wednesday": nil,
	"Thursday":  {FieldThursdayChanting},
	"Friday":    {FieldFridayChanting},
	"Saturday":  nil,
	"Sunday": {
		FieldSundayOffline,
		FieldSundayTempleChanting,
		FieldWeeklyDiscussion,
		FieldWeeklySlokaAudioPosted,
		FieldWeeklySeva,
	},
}

// AllowedFields returns the editable field set for a weekday name: the base
// fields plus that day's additions. The result is a fresh slice.
func AllowedFields(day string) []string {
	out := make([]string, 0, len(BaseFields)+len(daySpecific[day]))
	out = append(out, BaseFields...)
	out = append(out, daySpecific[day]...)
	return out
}

// FilterAllowed returns the subset of fields whose keys are in allowed.
// Anything else is silently dropped (the authenticated-path contract).
func FilterAllowed(fields map[string]any, allowed []string) map[string]any {
	set := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		set[f] = true
	}
	out := make(map[string]any)
	for k, v := range fields {
		if set[k] {
			out[k] = v
		}
	}
	return out
}

// Disallowed returns, sorted, every key of fields that is neither in allowed
// nor in extra. The anonymous token path hard-rejects on a non-empty result.
func Disallowed(fields map[string]any, allowed []string, extra ...string) []string {
	set := make(map[string]bool, len(allowed)+len(extra))
	for _, f := range allowed {
		set[f] = true
	}
	for _, f := range extra {
		set[f] = true
	}
	var out []string
	for k := range fields {
		if !set[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// ProjectDayFields strips from data every day-conditional field that does not
// belong to the record's own weekday. This is a representation-time
// projection: it decides what a generic rendering shows, not what is stored.
func ProjectDayFields(data map[string]any, day string) {
	keep := make(map[string]bool)
	for _, f := range daySpecific[day] {
		keep[f] = true
	}
	for _, fields := range daySpecific {
		for _, f := range fields {
			if !keep[f] {
				delete(data, f)
			}
		}
	}
}
