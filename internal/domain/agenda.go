package domain

import (
	"sort"
	"strings"
	"time"

	"minibizz/planning/internal/calendar"
)

// AgendaQuery selects the entries shown for one calendar period.
type AgendaQuery struct {
	View     calendar.View
	Date     time.Time
	Search   string
	Kind     Kind
	Priority Priority
}

// Agenda keeps the entries starting on a day of the queried period that match
// the search text (title or client name, case-insensitive) and the optional
// kind and priority filters. The result is ordered by start.
func Agenda(q AgendaQuery, entries []Entry) []Item {
	days := calendar.PeriodDays(q.View, q.Date)
	search := strings.ToLower(strings.TrimSpace(q.Search))

	out := make([]Item, 0, len(entries))
	for _, e := range entries {
		it := e.Item()
		if !onAnyDay(it.Start.In(q.Date.Location()), days) {
			continue
		}
		if q.Kind != "" && it.Kind != q.Kind {
			continue
		}
		if q.Priority != "" && it.Priority != q.Priority {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(it.Title), search) &&
			!strings.Contains(strings.ToLower(ClientName(it.Client)), search) {
			continue
		}
		out = append(out, it)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}

func onAnyDay(t time.Time, days []time.Time) bool {
	for _, d := range days {
		if calendar.IsSameDay(d, t) {
			return true
		}
	}
	return false
}
