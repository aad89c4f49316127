package domain

import (
	"errors"
	"testing"
	"time"
)

func at(day time.Time, h, m int) time.Time {
	y, mo, d := day.Date()
	return time.Date(y, mo, d, h, m, 0, 0, day.Location())
}

func appt(id string, start, end time.Time) Appointment {
	return Appointment{
		ID:       id,
		Title:    id,
		Client:   Unassigned{},
		Start:    start,
		End:      end,
		Kind:     KindAppointment,
		Status:   StatusScheduled,
		Priority: PriorityNormal,
	}
}

func TestFindFreeSlots(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	cancelled := appt("c", at(day, 9, 0), at(day, 17, 0))
	cancelled.Status = StatusCancelled

	tests := []struct {
		name    string
		minutes int
		entries []Entry
		blocks  []UnavailabilityBlock
		want    []FreeSlot
	}{
		{
			name:    "empty day",
			minutes: 60,
			want:    []FreeSlot{{Start: at(day, 9, 0), End: at(day, 18, 0), Minutes: 540}},
		},
		{
			name:    "short leading gap dropped",
			minutes: 90,
			entries: []Entry{appt("a", at(day, 10, 0), at(day, 11, 0))},
			want:    []FreeSlot{{Start: at(day, 11, 0), End: at(day, 18, 0), Minutes: 420}},
		},
		{
			name:    "request longer than any gap",
			minutes: 600,
			entries: []Entry{appt("a", at(day, 10, 0), at(day, 11, 0))},
			want:    nil,
		},
		{
			name:    "cancelled entries ignored",
			minutes: 60,
			entries: []Entry{cancelled},
			want:    []FreeSlot{{Start: at(day, 9, 0), End: at(day, 18, 0), Minutes: 540}},
		},
		{
			name:    "entries on other days ignored",
			minutes: 60,
			entries: []Entry{appt("a", at(day.AddDate(0, 0, 1), 10, 0), at(day.AddDate(0, 0, 1), 11, 0))},
			want:    []FreeSlot{{Start: at(day, 9, 0), End: at(day, 18, 0), Minutes: 540}},
		},
		{
			name:    "unsorted and overlapping entries",
			minutes: 30,
			entries: []Entry{
				appt("b", at(day, 14, 0), at(day, 15, 0)),
				appt("a", at(day, 9, 30), at(day, 12, 0)),
				appt("inner", at(day, 10, 0), at(day, 11, 0)),
			},
			want: []FreeSlot{
				{Start: at(day, 9, 0), End: at(day, 9, 30), Minutes: 30},
				{Start: at(day, 12, 0), End: at(day, 14, 0), Minutes: 120},
				{Start: at(day, 15, 0), End: at(day, 18, 0), Minutes: 180},
			},
		},
		{
			name:    "entry after window end clamps gap",
			minutes: 60,
			entries: []Entry{appt("late", at(day, 19, 0), at(day, 20, 0))},
			want:    []FreeSlot{{Start: at(day, 9, 0), End: at(day, 18, 0), Minutes: 540}},
		},
		{
			name:    "block overlapping a gap removes it",
			minutes: 60,
			entries: []Entry{appt("a", at(day, 12, 0), at(day, 13, 0))},
			blocks: []UnavailabilityBlock{{
				ID:           "x",
				Start:        at(day, 15, 0),
				End:          at(day, 16, 0),
				Availability: Unavailable,
			}},
			want: []FreeSlot{{Start: at(day, 9, 0), End: at(day, 12, 0), Minutes: 180}},
		},
		{
			name:    "available blocks do not block",
			minutes: 60,
			blocks: []UnavailabilityBlock{{
				ID:           "open",
				Start:        at(day, 10, 0),
				End:          at(day, 11, 0),
				Availability: Available,
			}},
			want: []FreeSlot{{Start: at(day, 9, 0), End: at(day, 18, 0), Minutes: 540}},
		},
		{
			name:    "synthesized deadline occupies the day",
			minutes: 60,
			entries: []Entry{Deadline{
				ID:    InvoiceDeadlineID("i1"),
				Start: at(day, 12, 0),
				End:   at(day.AddDate(0, 0, 1), 12, 0),
				Kind:  KindInvoiceDeadline,
			}},
			want: []FreeSlot{{Start: at(day, 9, 0), End: at(day, 12, 0), Minutes: 180}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindFreeSlots(SlotRequest{Day: day, Minutes: tt.minutes}, tt.entries, tt.blocks)
			if err != nil {
				t.Fatalf("FindFreeSlots error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("len(slots) = %d, want %d (%v)", len(got), len(tt.want), got)
			}
			for i := range got {
				if !got[i].Start.Equal(tt.want[i].Start) || !got[i].End.Equal(tt.want[i].End) || got[i].Minutes != tt.want[i].Minutes {
					t.Fatalf("slot[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFindFreeSlots_InvalidDuration(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	for _, minutes := range []int{0, -15} {
		if _, err := FindFreeSlots(SlotRequest{Day: day, Minutes: minutes}, nil, nil); !errors.Is(err, ErrInvalidDuration) {
			t.Fatalf("minutes=%d error = %v, want ErrInvalidDuration", minutes, err)
		}
	}
}

func TestFindFreeSlots_RecurringBlocks(t *testing.T) {
	day := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	lunch := UnavailabilityBlock{
		ID:           "lunch",
		Start:        time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC),
		End:          time.Date(2026, 3, 2, 13, 0, 0, 0, time.UTC),
		Availability: Unavailable,
		Recurrence:   &Recurrence{Frequency: RecurrenceDaily},
	}
	entries := []Entry{appt("a", at(day, 12, 0), at(day, 13, 0))}

	got, err := FindFreeSlots(SlotRequest{Day: day, Minutes: 60}, entries, []UnavailabilityBlock{lunch})
	if err != nil {
		t.Fatalf("FindFreeSlots error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("literal intervals: len(slots) = %d, want 2", len(got))
	}

	got, err = FindFreeSlots(SlotRequest{Day: day, Minutes: 60, ExpandRecurrence: true}, nil, []UnavailabilityBlock{lunch})
	if err != nil {
		t.Fatalf("FindFreeSlots error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expanded: len(slots) = %d, want 0 (%v)", len(got), got)
	}
}

func TestFindFreeSlots_CustomHours(t *testing.T) {
	hours, err := NewWorkingHours("08:30", "12:00")
	if err != nil {
		t.Fatalf("NewWorkingHours error: %v", err)
	}
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	got, err := FindFreeSlots(SlotRequest{Day: day, Minutes: 60, Hours: hours}, nil, nil)
	if err != nil {
		t.Fatalf("FindFreeSlots error: %v", err)
	}
	if len(got) != 1 || !got[0].Start.Equal(at(day, 8, 30)) || got[0].Minutes != 210 {
		t.Fatalf("slots = %v, want one 08:30-12:00 slot", got)
	}
}

func TestNewWorkingHours_Invalid(t *testing.T) {
	tests := []struct {
		start, end string
	}{
		{"18:00", "09:00"},
		{"09:00", "09:00"},
		{"nine", "18:00"},
		{"09:00", "25:00"},
	}
	for _, tt := range tests {
		if _, err := NewWorkingHours(tt.start, tt.end); err == nil {
			t.Fatalf("NewWorkingHours(%q, %q) expected error", tt.start, tt.end)
		}
	}
}
