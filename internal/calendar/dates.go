// Package calendar holds the date arithmetic shared by the calendar views and
// the free-slot finder. Weeks always start on Monday.
package calendar

import (
	"errors"
	"strings"
	"time"
)

type View string

const (
	ViewDay   View = "day"
	ViewWeek  View = "week"
	ViewMonth View = "month"
)

var ErrUnknownView = errors.New("unknown calendar view")

// ParseView accepts day, week or month; empty means week, the Planning default.
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case "", ViewWeek:
		return ViewWeek, nil
	case ViewDay:
		return ViewDay, nil
	case ViewMonth:
		return ViewMonth, nil
	default:
		return "", ErrUnknownView
	}
}

// IsSameDay reports whether a and b fall on the same calendar date. Both are
// read in a's location.
func IsSameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// AddDays shifts t by n calendar days, keeping the wall clock across DST.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekDays returns the seven dates, Monday first, of the week containing t.
func WeekDays(t time.Time) []time.Time {
	monday := AddDays(StartOfDay(t), -mondayOffset(t.Weekday()))
	days := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, AddDays(monday, i))
	}
	return days
}

// MonthDays returns every day of t's month in ascending order.
func MonthDays(t time.Time) []time.Time {
	y, m, _ := t.Date()
	first := time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	last := first.AddDate(0, 1, -1).Day()
	days := make([]time.Time, 0, last)
	for d := 0; d < last; d++ {
		days = append(days, AddDays(first, d))
	}
	return days
}

// PeriodDays returns the days displayed by view around t.
func PeriodDays(view View, t time.Time) []time.Time {
	switch view {
	case ViewDay:
		return []time.Time{StartOfDay(t)}
	case ViewMonth:
		return MonthDays(t)
	default:
		return WeekDays(t)
	}
}

// Step moves t one period forward (dir > 0) or backward (dir < 0).
func Step(view View, t time.Time, dir int) time.Time {
	if dir == 0 {
		return t
	}
	if dir > 0 {
		dir = 1
	} else {
		dir = -1
	}
	switch view {
	case ViewDay:
		return AddDays(t, dir)
	case ViewMonth:
		return t.AddDate(0, dir, 0)
	default:
		return AddDays(t, 7*dir)
	}
}

func mondayOffset(wd time.Weekday) int {
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}
