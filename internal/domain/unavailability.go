package domain

import (
	"time"
)

type Availability string

const (
	Available   Availability = "available"
	Unavailable Availability = "unavailable"
)

type RecurrenceFrequency string

const (
	RecurrenceNone    RecurrenceFrequency = "none"
	RecurrenceDaily   RecurrenceFrequency = "daily"
	RecurrenceWeekly  RecurrenceFrequency = "weekly"
	RecurrenceMonthly RecurrenceFrequency = "monthly"
)

// Recurrence describes how a block repeats. Weekdays use 0 for Sunday
// through 6 for Saturday.
type Recurrence struct {
	Frequency RecurrenceFrequency `json:"frequency"`
	Until     *time.Time          `json:"until,omitempty"`
	Weekdays  []int               `json:"weekdays,omitempty"`
}

type UnavailabilityBlock struct {
	ID           string       `json:"id"`
	Start        time.Time    `json:"start"`
	End          time.Time    `json:"end"`
	Availability Availability `json:"availability"`
	Reason       string       `json:"reason,omitempty"`
	Recurrence   *Recurrence  `json:"recurrence,omitempty"`
}

func (b UnavailabilityBlock) Validate() error {
	if !b.End.After(b.Start) {
		return ErrInvalidSpan
	}
	if b.Recurrence != nil {
		return b.Recurrence.validate()
	}
	return nil
}

// Blocking reports whether the block removes time from free slots.
func (b UnavailabilityBlock) Blocking() bool {
	return b.Availability == "" || b.Availability == Unavailable
}

type TimeSpan struct {
	Start time.Time
	End   time.Time
}

// Overlaps uses half-open intervals.
func (s TimeSpan) Overlaps(o TimeSpan) bool {
	return s.Start.Before(o.End) && o.Start.Before(s.End)
}

func (s TimeSpan) Duration() time.Duration {
	return s.End.Sub(s.Start)
}
