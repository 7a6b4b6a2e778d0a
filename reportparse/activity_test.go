package reportparse

import "testing"

func TestExtractLeasingActivity(t *testing.T) {
	grid := [][]string{
		{"Parameters: period=PM"},
		{"Leads:", "40"},
		{"Tours:", "15"},
		{"Applications:", "10"},
		{"Leases Signed:", "7"},
		{"Sight Unseen:", "2"},
		{"Toured and Applied:", "9"},
		{"Cancellations:", "3"},
	}

	activity, err := ExtractLeasingActivity(grid, DefaultActivityLayout, "oak01", "PM")
	if err != nil {
		t.Fatalf("ExtractLeasingActivity: %v", err)
	}
	if activity.Leads != 40 || activity.Tours != 15 || activity.Applications != 10 || activity.LeasesSigned != 7 {
		t.Errorf("unexpected funnel counts: %+v", activity)
	}
	if activity.SightUnseen != 2 || activity.TouredAndApplied != 9 {
		t.Errorf("unexpected auxiliary counts: %+v", activity)
	}
	if activity.PropertyID != "oak01" || activity.Timeframe != "PM" {
		t.Errorf("key fields not carried: %+v", activity)
	}
}

func TestExtractLeasingActivityWrongReport(t *testing.T) {
	grid := [][]string{
		{"Unit", "Resident", "Balance"},
		{"101", "Baker, T.", "250.00"},
	}

	if _, err := ExtractLeasingActivity(grid, DefaultActivityLayout, "oak01", "PM"); err == nil {
		t.Fatal("expected error for grid with no activity labels")
	}
}
