package services

import (
	"github.com/hkm/sadhana/internal/models"
	"github.com/hkm/sadhana/internal/policy"
)

type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type FieldDefinition struct {
	Label   string   `json:"label"`
	Type    string   `json:"type"`
	Options []Option `json:"options,omitempty"`
	Min     *int     `json:"min,omitempty"`
	Value   any      `json:"value"`
}

func options(values ...string) []Option {
	out := make([]Option, 0, len(values))
	for _, v := range values {
		out = append(out, Option{Value: v, Label: v})
	}
	return out
}

var zero = 0

// fieldCatalog drives the quick-entry form: one definition per field, with
// the stored default as the initial value.
var fieldCatalog = map[string]FieldDefinition{
	policy.FieldDailyHearing: {
		Label:   "Daily Hearing",
		Type:    "select",
		Options: options(string(models.StatusCompleted), string(models.StatusNotCompleted)),
		Value:   string(models.StatusNotCompleted),
	},
	policy.FieldDailyReading: {
		Label:   "Daily Reading",
		Type:    "select",
		Options: options(string(models.StatusCompleted), string(models.StatusNotCompleted)),
		Value:   string(models.StatusNotCompleted),
	},
	policy.FieldDailyChanting: {
		Label: "Daily Chanting (Rounds)",
		Type:  "number",
		Min:   &zero,
		Value: 0,
	},
	policy.FieldSportSession: {
		Label:   "Sport Session Attendance",
		Type:    "select",
		Options: options(string(models.SportAttended), string(models.SportNotAttended), string(models.SportNoSession)),
		Value:   string(models.SportNotAttended),
	},
	policy.FieldThursdayChanting: {
		Label:   "Thursday Morning Chanting Session",
		Type:    "select",
		Options: options(string(models.Attended), string(models.NotAttended)),
		Value:   string(models.NotAttended),
	},
	policy.FieldFridayChanting: {
		Label:   "Friday Morning Chanting Session",
		Type:    "select",
		Options: options(string(models.Attended), string(models.NotAttended)),
		Value:   string(models.NotAttended),
	},
	policy.FieldSundayOffline: {
		Label:   "Sunday Offline Program Attendance",
		Type:    "select",
		Options: options(string(models.Attended), string(models.NotAttended)),
		Value:   string(models.NotAttended),
	},
	policy.FieldSundayTempleChanting: {
		Label:   "Sunday Temple Chanting Session",
		Type:    "select",
		Options: options(string(models.Attended), string(models.NotAttended)),
		Value:   string(models.NotAttended),
	},
	policy.FieldWeeklyDiscussion: {
		Label:   "Weekly Discussion Session",
		Type:    "select",
		Options: options(string(models.DiscussionOnline), string(models.DiscussionOffline), string(models.DiscussionNotAttended)),
		Value:   string(models.DiscussionNotAttended),
	},
	policy.FieldWeeklySlokaAudioPosted: {
		Label:   "Weekly Sloka Audio Posted",
		Type:    "select",
		Options: options(string(models.Yes), string(models.No)),
		Value:   string(models.No),
	},
	policy.FieldWeeklySeva: {
		Label:   "Weekly Seva",
		Type:    "select",
		Options: options(string(models.Yes), string(models.No)),
		Value:   string(models.No),
	},
}

// FieldDefinitions builds the quick-entry payload for the allowed fields,
// overriding defaults with values from an existing rendered record.
func FieldDefinitions(allowed []string, existing map[string]any) map[string]FieldDefinition {
	out := make(map[string]FieldDefinition, len(allowed))
	for _, name := range allowed {
		def, ok := fieldCatalog[name]
		if !ok {
			continue
		}
		if existing != nil {
			if v, ok := existing[name]; ok {
				def.Value = v
			}
		}
		out[name] = def
	}
	return out
}
