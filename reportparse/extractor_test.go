package reportparse

import (
	"errors"
	"testing"
	"time"
)

var reportDate = time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC)

// Grid columns (DefaultDelinquencyLayout):
// unit, name/marker, status, deposit, prepaid, balance, current, 0-30, 31-60, 61-90, 90+
func agingGrid() [][]string {
	return [][]string{
		{"Parameters", "Status: All", "", "", "", "", "", "", "", "", ""},
		{"As of Date: 05/31/2025"},
		// Unit 101: delinquent, in eviction (status marker).
		{"101", "Reyes, Ana", "Current*", "500.00", "", "", "", "", "", "", ""},
		{"", "rent charge", "", "", "0.00", "850.00", "850.00", "", "", "", ""},
		{"", "utility charge", "", "", "0.00", "200.00", "", "200.00", "", "", ""},
		{"", "Subtotals:", "", "", "0.00", "1,050.00", "850.00", "200.00", "0.00", "0.00", "0.00"},
		// Unit 102: zero balances, must not be emitted.
		{"102", "Cho, Ben", "Current", "250.00", "", "", "", "", "", "", ""},
		{"", "Subtotals:", "", "", "0.00", "0.00", "0.00", "0.00", "0.00", "0.00", "0.00"},
		// Unit 103: former resident in collections territory.
		{"103", "Okafor, Dee", "Former", "0.00", "", "", "", "", "", "", ""},
		{"", "damages", "", "", "0.00", "200.00", "", "", "200.00", "", ""},
		{"", "Subtotals:", "", "", "0.00", "200.00", "0.00", "0.00", "200.00", "0.00", "0.00"},
		// Unit 104: prepaid only, still emitted.
		{"104", "Sato, Kimi", "Current", "300.00", "", "", "", "", "", "", ""},
		{"", "prepaid rent", "", "", "125.00", "0.00", "", "", "", "", ""},
		{"", "Subtotals:", "", "", "125.00", "0.00", "0.00", "0.00", "0.00", "0.00", "0.00"},
		// Decoy summary row: no aging data, must be skipped.
		{"", "Grand Totals: 3 units", "", "", "", "", "", "", "", "", ""},
		{"", "Grand Totals:", "", "", "125.00", "1,250.00", "850.00", "200.00", "200.00", "0.00", "0.00"},
		// Anything after the terminal row is ignored.
		{"999", "Ghost, Unit", "Current", "0.00", "", "", "", "", "", "", ""},
	}
}

func TestDelinquencyExtraction(t *testing.T) {
	ex := NewDelinquencyExtractor(DefaultDelinquencyLayout)
	units, totals, err := ex.Extract(agingGrid(), "oak01", reportDate)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}

	if len(units) != 3 {
		t.Fatalf("expected 3 emitted units (zero-balance skipped), got %d", len(units))
	}

	u101 := units[0]
	if u101.UnitNumber != "101" {
		t.Fatalf("expected unit 101 first, got %s", u101.UnitNumber)
	}
	if !u101.InEviction {
		t.Fatal("101 carries the eviction marker")
	}
	if u101.Status != "Current" {
		t.Fatalf("marker must be stripped from status, got %q", u101.Status)
	}
	if u101.DepositsHeld != 500 {
		t.Fatalf("expected deposits 500, got %v", u101.DepositsHeld)
	}
	if u101.Balance != 1050 {
		t.Fatalf("expected accumulated balance 1050, got %v", u101.Balance)
	}
	if u101.Aging.Current != 850 || u101.Aging.Days0To30 != 200 {
		t.Fatalf("unexpected aging accumulation: %+v", u101.Aging)
	}

	u103 := units[1]
	if u103.UnitNumber != "103" || u103.Aging.Days31To60 != 200 {
		t.Fatalf("unexpected unit 103: %+v", u103)
	}

	u104 := units[2]
	if u104.UnitNumber != "104" || u104.Prepaid != 125 {
		t.Fatalf("prepaid-only unit must still be emitted: %+v", u104)
	}

	if totals == nil {
		t.Fatal("expected grand totals")
	}
	if totals.Balance != 1250 || totals.Prepaid != 125 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
	if totals.Aging.Current != 850 {
		t.Fatalf("unexpected totals aging: %+v", totals.Aging)
	}

	// The row after Grand Totals must not have been scanned.
	for _, u := range units {
		if u.UnitNumber == "999" {
			t.Fatal("scan must terminate at Grand Totals")
		}
	}
	if ex.state != Done {
		t.Fatalf("expected terminal state, got %v", ex.state)
	}
}

func TestDelinquencyMissingGrandTotals(t *testing.T) {
	grid := agingGrid()[:6] // cut before the terminal row
	ex := NewDelinquencyExtractor(DefaultDelinquencyLayout)
	_, _, err := ex.Extract(grid, "oak01", reportDate)
	if err == nil {
		t.Fatal("expected error for missing Grand Totals")
	}
	var missing ErrMarkerNotFound
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMarkerNotFound, got %T", err)
	}
	if missing.Marker != "Grand Totals:" {
		t.Fatalf("error must name the missing marker, got %q", missing.Marker)
	}
}

func TestCellCoercionTolerant(t *testing.T) {
	row := []string{"", "x", "", "", "n/a", "(1,200.50)"}
	if got := cellFloat(row, 4); got != 0 {
		t.Fatalf("non-numeric cell must coerce to 0, got %v", got)
	}
	if got := cellFloat(row, 5); got != -1200.50 {
		t.Fatalf("accounting negative: expected -1200.50, got %v", got)
	}
	if got := cellFloat(row, 42); got != 0 {
		t.Fatalf("out of range cell must coerce to 0, got %v", got)
	}
}

func TestExtractRentRoll(t *testing.T) {
	grid := [][]string{
		{"Property: Oakwood Flats"},
		{"101", "A1", "Reyes, Ana", "Occupied", "650", "1200", "1150"},
		{"102", "A1", "", "Vacant Ready", "650", "1,250", ""},
		{"Totals:", "", "", "", "1300", "2450", "1150"},
	}
	rows, err := ExtractRentRoll(grid, DefaultRentRollLayout)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[1].MarketRent != 1250 || rows[1].ActualRent != 0 {
		t.Fatalf("unexpected row: %+v", rows[1])
	}

	_, err = ExtractRentRoll(grid[:3], DefaultRentRollLayout)
	var missing ErrMarkerNotFound
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMarkerNotFound without footer, got %v", err)
	}
}

func TestExtractTradeOuts(t *testing.T) {
	grid := [][]string{
		{"Unit", "Type", "Prior Rent", "New Rent"},
		{"101", "Renewal", "1800", "1885"},
		{"102", "New Lease", "1,500", "1,560"},
		{"103", "Renewal", "", ""},
		{"Totals", "", "3300", "3445"},
	}
	rows := ExtractTradeOuts(grid, DefaultTradeOutLayout)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (blank pair and totals skipped), got %d", len(rows))
	}
	if !rows[0].IsRenewal || rows[0].PriorRent != 1800 || rows[0].NewRent != 1885 {
		t.Fatalf("unexpected row: %+v", rows[0])
	}
	if rows[1].IsRenewal {
		t.Fatal("new lease must not be flagged renewal")
	}
}
