package calendar

import (
	"testing"
	"time"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("LoadLocation error: %v", err)
	}
	return loc
}

func TestIsSameDay(t *testing.T) {
	paris := mustLocation(t, "Europe/Paris")

	tests := []struct {
		name string
		a, b time.Time
		want bool
	}{
		{
			name: "same date different hours",
			a:    time.Date(2025, 2, 10, 0, 0, 0, 0, paris),
			b:    time.Date(2025, 2, 10, 23, 59, 0, 0, paris),
			want: true,
		},
		{
			name: "adjacent dates",
			a:    time.Date(2025, 2, 10, 23, 59, 0, 0, paris),
			b:    time.Date(2025, 2, 11, 0, 0, 0, 0, paris),
			want: false,
		},
		{
			name: "b converted to a's zone",
			a:    time.Date(2025, 2, 11, 0, 30, 0, 0, paris),
			b:    time.Date(2025, 2, 10, 23, 30, 0, 0, time.UTC),
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSameDay(tt.a, tt.b); got != tt.want {
				t.Fatalf("IsSameDay = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddDays_DoesNotMutateAndKeepsWallClock(t *testing.T) {
	paris := mustLocation(t, "Europe/Paris")
	in := time.Date(2025, 3, 29, 10, 0, 0, 0, paris)

	out := AddDays(in, 1)
	if !in.Equal(time.Date(2025, 3, 29, 10, 0, 0, 0, paris)) {
		t.Fatalf("input mutated: %v", in)
	}
	if out.Hour() != 10 || out.Day() != 30 {
		t.Fatalf("AddDays across DST = %v, want 2025-03-30 10:00", out)
	}

	back := AddDays(in, -29)
	if back.Month() != time.February || back.Day() != 28 {
		t.Fatalf("AddDays(-29) = %v, want 2025-02-28", back)
	}
}

func TestWeekDays_StartsMondayAndContainsDate(t *testing.T) {
	paris := mustLocation(t, "Europe/Paris")
	start := time.Date(2025, 1, 1, 15, 0, 0, 0, paris)

	for i := 0; i < 40; i++ {
		d := AddDays(start, i)
		days := WeekDays(d)
		if len(days) != 7 {
			t.Fatalf("len(days) = %d, want 7", len(days))
		}
		if days[0].Weekday() != time.Monday {
			t.Fatalf("first day of %v = %v, want Monday", d, days[0].Weekday())
		}
		for j := 1; j < len(days); j++ {
			if !IsSameDay(AddDays(days[j-1], 1), days[j]) {
				t.Fatalf("days not consecutive: %v then %v", days[j-1], days[j])
			}
		}
		found := false
		for _, wd := range days {
			if IsSameDay(wd, d) {
				found = true
			}
		}
		if !found {
			t.Fatalf("%v not in its week %v", d, days)
		}
	}
}

func TestWeekDays_Sunday(t *testing.T) {
	sunday := time.Date(2025, 2, 16, 12, 0, 0, 0, time.UTC)
	days := WeekDays(sunday)
	if days[0].Day() != 10 || days[6].Day() != 16 {
		t.Fatalf("week of sunday = %v..%v, want 10..16", days[0], days[6])
	}
}

func TestMonthDays(t *testing.T) {
	tests := []struct {
		date time.Time
		want int
	}{
		{time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC), 29},
		{time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), 28},
		{time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC), 31},
		{time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC), 30},
	}
	for _, tt := range tests {
		days := MonthDays(tt.date)
		if len(days) != tt.want {
			t.Fatalf("len(MonthDays(%v)) = %d, want %d", tt.date, len(days), tt.want)
		}
		for i, d := range days {
			if d.Day() != i+1 || d.Month() != tt.date.Month() {
				t.Fatalf("day %d = %v", i, d)
			}
		}
	}
}

func TestStep(t *testing.T) {
	base := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	if got := Step(ViewDay, base, 1); got.Day() != 16 {
		t.Fatalf("day step = %v", got)
	}
	if got := Step(ViewWeek, base, -1); got.Day() != 8 {
		t.Fatalf("week step = %v", got)
	}
	if got := Step(ViewMonth, base, 1); got.Month() != time.February || got.Day() != 15 {
		t.Fatalf("month step = %v", got)
	}
	if got := Step(ViewMonth, base, 0); !got.Equal(base) {
		t.Fatalf("zero step = %v", got)
	}
}

func TestParseView(t *testing.T) {
	if v, err := ParseView(""); err != nil || v != ViewWeek {
		t.Fatalf("ParseView(\"\") = %q, %v", v, err)
	}
	if v, err := ParseView(" Month "); err != nil || v != ViewMonth {
		t.Fatalf("ParseView(Month) = %q, %v", v, err)
	}
	if _, err := ParseView("year"); err != ErrUnknownView {
		t.Fatalf("error = %v, want %v", err, ErrUnknownView)
	}
}

func TestPeriodDays(t *testing.T) {
	d := time.Date(2025, 2, 12, 14, 0, 0, 0, time.UTC)
	if got := PeriodDays(ViewDay, d); len(got) != 1 || got[0].Hour() != 0 {
		t.Fatalf("day period = %v", got)
	}
	if got := PeriodDays(ViewWeek, d); len(got) != 7 {
		t.Fatalf("week period len = %d", len(got))
	}
	if got := PeriodDays(ViewMonth, d); len(got) != 28 {
		t.Fatalf("month period len = %d", len(got))
	}
}
