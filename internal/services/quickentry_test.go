package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/hkm/sadhana/internal/models"
	"github.com/hkm/sadhana/internal/store"
)

func seedToken(t *testing.T, s *store.Store, u *models.User, token string, issued time.Time) {
	t.Helper()
	u.QRToken = &token
	u.QRTokenCreatedAt = &issued
	if err := s.SaveUser(u); err != nil {
		t.Fatalf("save token: %v", err)
	}
}

func TestQuickEntryValidate(t *testing.T) {
	s := openTestStore(t)
	u := seedUser(t, s, "0811111111")
	now := date(2024, time.January, 4) // Thursday
	seedToken(t, s, &u, "tok-valid", now)
	svc := NewQuickEntry(s)

	out, err := svc.Validate("tok-valid", now)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if out["valid"] != true {
		t.Error("want valid=true")
	}
	if out["day_name"] != "Thursday" {
		t.Errorf("day_name = %v", out["day_name"])
	}
	if out["has_existing_data"] != false {
		t.Error("want has_existing_data=false on fresh day")
	}
	fields := out["editable_fields"].([]string)
	found := false
	for _, f := range fields {
		if f == "thursday_chanting_attendance" {
			found = true
		}
	}
	if !found {
		t.Errorf("Thursday fields = %v, missing thursday_chanting_attendance", fields)
	}
	defs := out["field_definitions"].(map[string]FieldDefinition)
	if def, ok := defs["daily_chanting"]; !ok || def.Type != "number" {
		t.Errorf("daily_chanting definition = %+v", def)
	}
}

func TestQuickEntryValidatePrefillsExisting(t *testing.T) {
	s := openTestStore(t)
	u := seedUser(t, s, "0811111111")
	now := date(2024, time.January, 4)
	seedToken(t, s, &u, "tok-valid", now)
	qe := NewQuickEntry(s)

	if _, err := qe.Submit("tok-valid", now, map[string]any{"daily_chanting": float64(12)}); err != nil {
		t.Fatalf("seed submit: %v", err)
	}

	out, err := qe.Validate("tok-valid", now)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if out["has_existing_data"] != true {
		t.Error("want has_existing_data=true")
	}
	defs := out["field_definitions"].(map[string]FieldDefinition)
	if got := defs["daily_chanting"].Value; got != 12 {
		t.Errorf("prefilled value = %v, want 12", got)
	}
}

func TestQuickEntryTokenStates(t *testing.T) {
	s := openTestStore(t)
	now := date(2024, time.January, 4)

	expired := seedUser(t, s, "0811111111")
	seedToken(t, s, &expired, "tok-expired", now.Add(-tokenMaxAge-time.Hour))

	inactive := seedUser(t, s, "0822222222")
	seedToken(t, s, &inactive, "tok-inactive", now)
	inactive.Active = false
	if err := s.SaveUser(&inactive); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	qe := NewQuickEntry(s)

	_, err := qe.Validate("", now)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("empty token err = %v, want ValidationError", err)
	}

	_, err = qe.Validate("tok-unknown", now)
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("unknown token err = %v, want NotFoundError", err)
	}

	// An inactive owner's token is indistinguishable from a missing one.
	_, err = qe.Validate("tok-inactive", now)
	if !errors.As(err, &nf) {
		t.Errorf("inactive token err = %v, want NotFoundError", err)
	}

	_, err = qe.Validate("tok-expired", now)
	var pe *PolicyError
	if !errors.As(err, &pe) {
		t.Errorf("expired token err = %v, want PolicyError", err)
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Errorf("expired reason = %q", err.Error())
	}
}

func TestQuickEntrySubmitWritesToday(t *testing.T) {
	s := openTestStore(t)
	u := seedUser(t, s, "0811111111")
	now := date(2024, time.January, 4) // Thursday
	seedToken(t, s, &u, "tok-valid", now)
	qe := NewQuickEntry(s)

	res, err := qe.Submit("tok-valid", now, map[string]any{
		"date":                         "2024-01-01", // display-only, never honored
		"daily_chanting":               float64(16),
		"thursday_chanting_attendance": "Attended",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !res.Created {
		t.Error("want created=true")
	}
	if res.Message != "Today's (Thursday) activities saved successfully!" {
		t.Errorf("message = %q", res.Message)
	}
	if got := res.Data["date"]; got != "2024-01-04" {
		t.Errorf("stored date = %v, want today regardless of body date", got)
	}

	res, err = qe.Submit("tok-valid", now, map[string]any{"daily_chanting": float64(20)})
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}
	if res.Created {
		t.Error("second submit: want created=false")
	}
	if res.Message != "Today's (Thursday) activities updated successfully!" {
		t.Errorf("message = %q", res.Message)
	}
}

func TestQuickEntrySubmitHardRejectsDisallowedFields(t *testing.T) {
	s := openTestStore(t)
	u := seedUser(t, s, "0811111111")
	now := date(2024, time.January, 2) // Tuesday
	seedToken(t, s, &u, "tok-valid", now)
	qe := NewQuickEntry(s)

	_, err := qe.Submit("tok-valid", now, map[string]any{
		"daily_chanting":               float64(8),
		"thursday_chanting_attendance": "Attended",
		"weekly_seva":                  "Yes",
	})
	var pe *PolicyError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want PolicyError", err)
	}
	if !strings.Contains(pe.Reason, "thursday_chanting_attendance, weekly_seva") {
		t.Errorf("reason = %q, want sorted offending fields", pe.Reason)
	}

	// The rejected submission must not have written anything.
	if _, err := s.GetDaily(u.ID, now); err == nil {
		t.Error("record written despite hard rejection")
	}
}
