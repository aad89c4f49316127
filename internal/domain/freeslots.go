package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"minibizz/planning/internal/calendar"
)

// WorkingHours is the daily window searched for free slots, as offsets from
// midnight in the day's location.
type WorkingHours struct {
	Start time.Duration
	End   time.Duration
}

var DefaultWorkingHours = WorkingHours{Start: 9 * time.Hour, End: 18 * time.Hour}

var ErrInvalidWorkingHours = errors.New("working hours start must be before end")

// NewWorkingHours parses two "15:04" clock values.
func NewWorkingHours(start, end string) (WorkingHours, error) {
	s, err := parseClock(start)
	if err != nil {
		return WorkingHours{}, err
	}
	e, err := parseClock(end)
	if err != nil {
		return WorkingHours{}, err
	}
	if s >= e {
		return WorkingHours{}, ErrInvalidWorkingHours
	}
	return WorkingHours{Start: s, End: e}, nil
}

func parseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "24:00" {
		return 24 * time.Hour, nil
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Window returns the working interval on day's date. Built from the wall
// clock so DST days keep 09:00 at 09:00.
func (w WorkingHours) Window(day time.Time) TimeSpan {
	return TimeSpan{Start: clockOn(day, w.Start), End: clockOn(day, w.End)}
}

func clockOn(day time.Time, offset time.Duration) time.Time {
	y, m, d := day.Date()
	h := int(offset / time.Hour)
	mi := int((offset % time.Hour) / time.Minute)
	return time.Date(y, m, d, h, mi, 0, 0, day.Location())
}

type FreeSlot struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Minutes int       `json:"minutes"`
}

type SlotRequest struct {
	Day     time.Time
	Minutes int
	Hours   WorkingHours
	// ExpandRecurrence expands recurring blocks before the overlap checks.
	// When false only the literal stored intervals count.
	ExpandRecurrence bool
}

// FindFreeSlots returns the gaps of at least req.Minutes inside the working
// window of req.Day that no non-cancelled entry starting that day occupies
// and no unavailable block overlaps.
func FindFreeSlots(req SlotRequest, entries []Entry, blocks []UnavailabilityBlock) ([]FreeSlot, error) {
	if req.Minutes <= 0 {
		return nil, ErrInvalidDuration
	}
	hours := req.Hours
	if hours.End <= hours.Start {
		hours = DefaultWorkingHours
	}
	window := hours.Window(req.Day)
	need := time.Duration(req.Minutes) * time.Minute

	busy := make([]Item, 0, len(entries))
	for _, e := range entries {
		it := e.Item()
		if it.Status == StatusCancelled || !calendar.IsSameDay(req.Day, it.Start) {
			continue
		}
		busy = append(busy, it)
	}
	sort.SliceStable(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	blocked, err := blockingSpans(blocks, window, req.Day.Location(), req.ExpandRecurrence)
	if err != nil {
		return nil, err
	}

	slots := make([]FreeSlot, 0, len(busy)+1)
	emit := func(from, to time.Time) {
		if to.Sub(from) < need {
			return
		}
		for _, b := range blocked {
			if b.Start.Before(to) && b.End.After(from) {
				return
			}
		}
		slots = append(slots, FreeSlot{Start: from, End: to, Minutes: int(to.Sub(from) / time.Minute)})
	}

	cursor := window.Start
	for _, it := range busy {
		gapEnd := it.Start
		if gapEnd.After(window.End) {
			gapEnd = window.End
		}
		emit(cursor, gapEnd)
		if it.End.After(cursor) {
			cursor = it.End
		}
	}
	emit(cursor, window.End)

	out := slots[:0]
	for _, s := range slots {
		if s.Minutes >= req.Minutes {
			out = append(out, s)
		}
	}
	return out, nil
}

func blockingSpans(blocks []UnavailabilityBlock, window TimeSpan, loc *time.Location, expand bool) ([]TimeSpan, error) {
	out := make([]TimeSpan, 0, len(blocks))
	for _, b := range blocks {
		if !b.Blocking() {
			continue
		}
		if !expand {
			span := TimeSpan{Start: b.Start, End: b.End}
			if touches(span, window.Start, window.End) {
				out = append(out, span)
			}
			continue
		}
		spans, err := ExpandBlock(b, window.Start, window.End, loc)
		if err != nil {
			return nil, fmt.Errorf("block %s: %w", b.ID, err)
		}
		out = append(out, spans...)
	}
	return out, nil
}
