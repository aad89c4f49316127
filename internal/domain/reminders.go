package domain

import (
	"sort"
	"time"
)

// DueReminder is a reminder whose fire instant fell inside a polling window.
type DueReminder struct {
	Appointment Appointment `json:"appointment"`
	FireAt      time.Time   `json:"fireAt"`
}

// DueReminders returns the enabled reminders of non-cancelled appointments
// whose fire instant (start minus the lead time) lies in (from, to], ordered
// by fire instant.
func DueReminders(appts []Appointment, from, to time.Time) []DueReminder {
	var out []DueReminder
	for _, a := range appts {
		if a.Reminder == nil || !a.Reminder.Enabled || a.Status == StatusCancelled {
			continue
		}
		lead := a.Reminder.LeadMinutes
		if lead < 0 {
			lead = 0
		}
		fire := a.Start.Add(-time.Duration(lead) * time.Minute)
		if fire.After(from) && !fire.After(to) {
			out = append(out, DueReminder{Appointment: a, FireAt: fire})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FireAt.Before(out[j].FireAt) })
	return out
}
