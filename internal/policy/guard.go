package policy

import (
	"time"

	"github.com/hkm/sadhana/internal/calendar"
)

// Violation is a write rejected by the temporal policy, not by input shape.
type Violation struct {
	Reason string
}

func (v *Violation) Error() string { return v.Reason }

// AuthorizeWrite checks the mutability window: a record may be written only
// if its date is not in the future and not before the Monday of the week
// containing today. Both checks run on calendar dates, never clock times.
func AuthorizeWrite(today, target time.Time) error {
	today = calendar.DateOf(today)
	target = calendar.DateOf(target)
	if target.After(today) {
		return &Violation{Reason: "cannot add future data"}
	}
	monday, _ := calendar.WeekBounds(today)
	if target.Before(monday) {
		return &Violation{Reason: "cannot edit previous week's data"}
	}
	return nil
}

// InWindow reports whether d falls inside the current deletable window,
// week start through today inclusive.
func InWindow(today, d time.Time) bool {
	return AuthorizeWrite(today, d) == nil
}
