package domain

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrUnsupportedFrequency = errors.New("unsupported recurrence frequency")
	ErrInvalidWeekday       = errors.New("invalid weekday")
)

func (r Recurrence) validate() error {
	switch r.Frequency {
	case "", RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
	default:
		return ErrUnsupportedFrequency
	}
	for _, wd := range r.Weekdays {
		if wd < 0 || wd > 6 {
			return ErrInvalidWeekday
		}
	}
	return nil
}

func (r *Recurrence) repeats() bool {
	return r != nil && r.Frequency != "" && r.Frequency != RecurrenceNone
}

// ExpandBlock returns the intervals occupied by b that touch
// [windowStart, windowEnd]. Occurrences keep the block's local wall-clock
// start in loc and its duration. A block without recurrence yields its own
// interval.
func ExpandBlock(b UnavailabilityBlock, windowStart, windowEnd time.Time, loc *time.Location) ([]TimeSpan, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = windowStart.Location()
	}

	if !b.Recurrence.repeats() {
		span := TimeSpan{Start: b.Start, End: b.End}
		if touches(span, windowStart, windowEnd) {
			return []TimeSpan{span}, nil
		}
		return nil, nil
	}

	rule := b.Recurrence
	startLocal := b.Start.In(loc)
	duration := b.End.Sub(b.Start)
	firstDay := dateOnly(startLocal)

	weekdays := make(map[time.Weekday]struct{}, len(rule.Weekdays))
	for _, wd := range rule.Weekdays {
		weekdays[time.Weekday(wd)] = struct{}{}
	}
	if len(weekdays) == 0 {
		weekdays[startLocal.Weekday()] = struct{}{}
	}

	var lastDay time.Time
	if rule.Until != nil {
		lastDay = dateOnly(rule.Until.In(loc))
	}

	// An occurrence that starts on an earlier day can still spill into the window.
	spill := int(duration/(24*time.Hour)) + 1
	day := dateOnly(windowStart.In(loc)).AddDate(0, 0, -spill)
	end := dateOnly(windowEnd.In(loc))
	if day.Before(firstDay) {
		day = firstDay
	}

	out := make([]TimeSpan, 0, 4)
	for ; !day.After(end); day = day.AddDate(0, 0, 1) {
		if !lastDay.IsZero() && day.After(lastDay) {
			break
		}
		if !occursOn(rule.Frequency, weekdays, startLocal, day) {
			continue
		}
		occStart := time.Date(
			day.Year(),
			day.Month(),
			day.Day(),
			startLocal.Hour(),
			startLocal.Minute(),
			startLocal.Second(),
			startLocal.Nanosecond(),
			loc,
		)
		span := TimeSpan{Start: occStart, End: occStart.Add(duration)}
		if touches(span, windowStart, windowEnd) {
			out = append(out, span)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func occursOn(freq RecurrenceFrequency, weekdays map[time.Weekday]struct{}, first, day time.Time) bool {
	switch freq {
	case RecurrenceDaily:
		return true
	case RecurrenceWeekly:
		_, ok := weekdays[day.Weekday()]
		return ok
	case RecurrenceMonthly:
		return day.Day() == first.Day()
	}
	return false
}

func touches(s TimeSpan, windowStart, windowEnd time.Time) bool {
	return !s.Start.After(windowEnd) && !s.End.Before(windowStart)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
