package policy

import (
	"reflect"
	"testing"
)

func TestAllowedFieldsPerDay(t *testing.T) {
	base := []string{"daily_hearing", "daily_reading", "daily_chanting", "sport_session_attendance"}

	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Saturday"} {
		if got := AllowedFields(day); !reflect.DeepEqual(got, base) {
			t.Errorf("%s: got %v, want base fields only", day, got)
		}
	}

	thu := AllowedFields("Thursday")
	if !reflect.DeepEqual(thu, append(append([]string{}, base...), "thursday_chanting_attendance")) {
		t.Errorf("Thursday: got %v", thu)
	}

	fri := AllowedFields("Friday")
	if !reflect.DeepEqual(fri, append(append([]string{}, base...), "friday_chanting_attendance")) {
		t.Errorf("Friday: got %v", fri)
	}

	sun := AllowedFields("Sunday")
	if len(sun) != len(base)+5 {
		t.Fatalf("Sunday: got %d fields, want %d", len(sun), len(base)+5)
	}
	for _, f := range []string{
		"sunday_offline_attendance",
		"sunday_temple_chanting_attendance",
		"weekly_discussion_session",
		"weekly_sloka_audio_posted",
		"weekly_seva",
	} {
		if !contains(sun, f) {
			t.Errorf("Sunday missing %s", f)
		}
	}
}

func TestAllowedFieldsReturnsFreshSlice(t *testing.T) {
	a := AllowedFields("Thursday")
	a[0] = "mutated"
	if b := AllowedFields("Thursday"); b[0] != "daily_hearing" {
		t.Error("AllowedFields result aliases internal state")
	}
}

func TestFilterAllowed(t *testing.T) {
	in := map[string]any{
		"daily_chanting": 16,
		"weekly_seva":    "Yes",
		"date":           "2024-01-03",
		"bogus":          true,
	}
	out := FilterAllowed(in, AllowedFields("Wednesday"))
	if len(out) != 1 || out["daily_chanting"] != 16 {
		t.Errorf("FilterAllowed = %v, want only daily_chanting", out)
	}
}

func TestDisallowed(t *testing.T) {
	in := map[string]any{
		"daily_chanting": 16,
		"weekly_seva":    "Yes",
		"date":           "2024-01-03",
		"bogus":          true,
	}
	got := Disallowed(in, AllowedFields("Wednesday"), "date")
	want := []string{"bogus", "weekly_seva"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Disallowed = %v, want %v", got, want)
	}

	if got := Disallowed(in, AllowedFields("Sunday"), "date"); !reflect.DeepEqual(got, []string{"bogus"}) {
		t.Errorf("Sunday Disallowed = %v, want [bogus]", got)
	}
}

func TestProjectDayFields(t *testing.T) {
	render := func() map[string]any {
		return map[string]any{
			"date":                              "x",
			"daily_hearing":                     "Completed",
			"thursday_chanting_attendance":      "Attended",
			"friday_chanting_attendance":        "Attended",
			"sunday_offline_attendance":         "Attended",
			"sunday_temple_chanting_attendance": "Attended",
			"weekly_discussion_session":         "Online",
			"weekly_sloka_audio_posted":         "Yes",
			"weekly_seva":                       "Yes",
		}
	}

	// A Sunday record keeps every Sunday field but loses Thursday/Friday ones.
	sun := render()
	ProjectDayFields(sun, "Sunday")
	if _, ok := sun["weekly_seva"]; !ok {
		t.Error("Sunday projection dropped weekly_seva")
	}
	if _, ok := sun["thursday_chanting_attendance"]; ok {
		t.Error("Sunday projection kept thursday_chanting_attendance")
	}

	// The same data rendered in a Tuesday context loses every day field.
	tue := render()
	ProjectDayFields(tue, "Tuesday")
	for _, f := range []string{
		"thursday_chanting_attendance",
		"friday_chanting_attendance",
		"sunday_offline_attendance",
		"sunday_temple_chanting_attendance",
		"weekly_discussion_session",
		"weekly_sloka_audio_posted",
		"weekly_seva",
	} {
		if _, ok := tue[f]; ok {
			t.Errorf("Tuesday projection kept %s", f)
		}
	}
	if _, ok := tue["daily_hearing"]; !ok {
		t.Error("Tuesday projection dropped a base field")
	}
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
