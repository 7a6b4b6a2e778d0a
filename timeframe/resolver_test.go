package timeframe

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveCurrentMonth(t *testing.T) {
	ref := date(2025, time.March, 17)
	start, end, err := Resolve(CurrentMonth, ref)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !start.Equal(date(2025, time.March, 1)) {
		t.Fatalf("expected start Mar 1, got %v", start)
	}
	if !end.Equal(ref) {
		t.Fatalf("expected end %v, got %v", ref, end)
	}
}

func TestResolvePreviousMonthIsStatic(t *testing.T) {
	// Any reference date within April must resolve to the same closed March.
	for _, day := range []int{1, 15, 30} {
		start, end, err := Resolve(PreviousMonth, date(2025, time.April, day))
		if err != nil {
			t.Fatalf("resolve failed: %v", err)
		}
		if !start.Equal(date(2025, time.March, 1)) {
			t.Fatalf("ref Apr %d: expected start Mar 1, got %v", day, start)
		}
		if !end.Equal(date(2025, time.March, 31)) {
			t.Fatalf("ref Apr %d: expected end Mar 31, got %v", day, end)
		}
	}
}

func TestResolvePreviousMonthAcrossYear(t *testing.T) {
	start, end, err := Resolve(PreviousMonth, date(2025, time.January, 10))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !start.Equal(date(2024, time.December, 1)) || !end.Equal(date(2024, time.December, 31)) {
		t.Fatalf("expected Dec 2024, got %v - %v", start, end)
	}
}

func TestResolveYTD(t *testing.T) {
	start, end, err := Resolve(YearToDate, date(2025, time.June, 5))
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !start.Equal(date(2025, time.January, 1)) || !end.Equal(date(2025, time.June, 5)) {
		t.Fatalf("unexpected range %v - %v", start, end)
	}
}

func TestResolveRolling(t *testing.T) {
	ref := date(2025, time.June, 15)

	start, _, err := Resolve(Last7Days, ref)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !start.Equal(date(2025, time.June, 8)) {
		t.Fatalf("L7: expected Jun 8, got %v", start)
	}

	start, _, err = Resolve(Last30Days, ref)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if !start.Equal(date(2025, time.May, 16)) {
		t.Fatalf("L30: expected May 16, got %v", start)
	}
}

func TestResolveUnknownName(t *testing.T) {
	_, _, err := Resolve("Q3", date(2025, time.June, 15))
	if err == nil {
		t.Fatal("expected error for unknown timeframe")
	}
	var invalid ErrInvalidTimeframe
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidTimeframe, got %T", err)
	}
	if invalid.Name != "Q3" {
		t.Fatalf("expected offending name Q3, got %q", invalid.Name)
	}
}

func TestDaysBetween(t *testing.T) {
	if d := DaysBetween(date(2025, time.March, 1), date(2025, time.March, 11)); d != 10 {
		t.Fatalf("expected 10, got %d", d)
	}
	if d := DaysBetween(date(2025, time.March, 11), date(2025, time.March, 1)); d != -10 {
		t.Fatalf("expected -10, got %d", d)
	}
}

func TestIsWithinDaysFutureOnly(t *testing.T) {
	ref := date(2025, time.March, 10)
	if !IsWithinDays(date(2025, time.March, 25), ref, 30) {
		t.Fatal("15 days out should be within 30")
	}
	if IsWithinDays(date(2025, time.March, 5), ref, 30) {
		t.Fatal("past dates are never within")
	}
	if IsWithinDays(date(2025, time.April, 20), ref, 30) {
		t.Fatal("41 days out should not be within 30")
	}
	if !IsWithinDays(ref, ref, 30) {
		t.Fatal("same day counts as within")
	}
}

func TestDaysBetweenMixedLocations(t *testing.T) {
	// Source dates arrive as UTC midnights while references are host-local;
	// counts must follow calendar dates, not zone-shifted instants.
	est := time.FixedZone("EST", -5*3600)
	ref := time.Date(2026, time.January, 15, 9, 30, 0, 0, est)
	target := date(2026, time.February, 15)

	if d := DaysBetween(ref, target); d != 31 {
		t.Fatalf("expected 31 calendar days, got %d", d)
	}
	if IsWithinDays(target, ref, 30) {
		t.Fatal("31 calendar days out should not be within 30")
	}
	if !IsWithinDays(target, ref, 31) {
		t.Fatal("31 calendar days out should be within 31")
	}
}

func TestDaysBetweenAcrossSpringForward(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Mar 7 -> Mar 9 2026 spans the 23-hour spring-forward day; it is
	// still a 2-day gap.
	d1 := time.Date(2026, time.March, 7, 0, 0, 0, 0, loc)
	d2 := time.Date(2026, time.March, 9, 0, 0, 0, 0, loc)
	if d := DaysBetween(d1, d2); d != 2 {
		t.Fatalf("expected 2, got %d", d)
	}
}

func TestIsInPeriodInclusive(t *testing.T) {
	start, end := date(2025, time.March, 1), date(2025, time.March, 31)
	if !IsInPeriod(start, start, end) || !IsInPeriod(end, start, end) {
		t.Fatal("period bounds are inclusive")
	}
	if IsInPeriod(date(2025, time.April, 1), start, end) {
		t.Fatal("Apr 1 outside March")
	}
}
