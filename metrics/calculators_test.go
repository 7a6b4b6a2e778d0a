package metrics

import (
	"testing"
	"time"

	"pms_metrics/models"
)

func TestLeasingFunnelRates(t *testing.T) {
	m := ComputeLeasingFunnel(models.LeasingActivity{
		PropertyID:   "oak01",
		Leads:        120,
		Tours:        45,
		Applications: 30,
		LeasesSigned: 21,
		SightUnseen:  2,
	}, cmWindow())

	if m.LeadToTour != 37.5 {
		t.Fatalf("expected lead->tour 37.5, got %v", m.LeadToTour)
	}
	if m.TourToApp != 66.7 {
		t.Fatalf("expected tour->app 66.7, got %v", m.TourToApp)
	}
	if m.AppToLease != 70.0 {
		t.Fatalf("expected app->lease 70.0, got %v", m.AppToLease)
	}
	if m.LeadToLease != 17.5 {
		t.Fatalf("expected lead->lease 17.5, got %v", m.LeadToLease)
	}
	if m.SightUnseen != 2 {
		t.Fatalf("sight-unseen is an auxiliary count, got %d", m.SightUnseen)
	}
}

func TestLeasingFunnelZeroDenominators(t *testing.T) {
	m := ComputeLeasingFunnel(models.LeasingActivity{PropertyID: "oak01", LeasesSigned: 3}, cmWindow())
	if m.LeadToTour != 0 || m.TourToApp != 0 || m.AppToLease != 0 || m.LeadToLease != 0 {
		t.Fatalf("zero denominators must yield 0 rates: %+v", m)
	}
}

func pricingSnapshot() *models.PropertySnapshot {
	snap := &models.PropertySnapshot{
		Property: &models.UnifiedProperty{PropertyID: "oak01"},
	}
	// Floorplan A1: 2 units, one occupied at 1000, one vacant asking 1200.
	snap.Units = append(snap.Units,
		models.UnifiedUnit{UnitNumber: "101", FloorplanCode: "A1", SqFt: 650, MarketRent: 1150, Status: models.UnitStatusOccupied},
		models.UnifiedUnit{UnitNumber: "102", FloorplanCode: "A1", SqFt: 650, MarketRent: 1200, Status: models.UnitStatusVacant},
	)
	// Floorplan B2: 8 units, four occupied at 2000, four vacant asking 2100.
	for i := 0; i < 4; i++ {
		snap.Units = append(snap.Units, models.UnifiedUnit{
			UnitNumber: "20" + string(rune('1'+i)), FloorplanCode: "B2", SqFt: 1000, MarketRent: 2050, Status: models.UnitStatusOccupied,
		})
		snap.Units = append(snap.Units, models.UnifiedUnit{
			UnitNumber: "21" + string(rune('1'+i)), FloorplanCode: "B2", SqFt: 1000, MarketRent: 2100, Status: models.UnitStatusVacant,
		})
	}
	snap.Residents = append(snap.Residents, models.UnifiedResident{
		ResidentID: "r1", UnitNumber: "101", Status: models.ResidentStatusCurrent, Rent: 1000,
	})
	for i := 0; i < 4; i++ {
		snap.Residents = append(snap.Residents, models.UnifiedResident{
			ResidentID: "r2" + string(rune('1'+i)), UnitNumber: "20" + string(rune('1'+i)),
			Status: models.ResidentStatusCurrent, Rent: 2000,
		})
	}
	return snap
}

func TestPricingPerFloorplan(t *testing.T) {
	m := ComputePricing(pricingSnapshot(), asOf)

	if len(m.Floorplans) != 2 {
		t.Fatalf("expected 2 floorplans, got %d", len(m.Floorplans))
	}
	a1 := m.Floorplans[0]
	if a1.FloorplanCode != "A1" || a1.InPlaceRent != 1000 || a1.AskingRent != 1200 {
		t.Fatalf("unexpected A1 pricing: %+v", a1)
	}
	if !almostEqual(a1.RentGrowth, 0.2) {
		t.Fatalf("expected A1 growth 0.2, got %v", a1.RentGrowth)
	}
	if !almostEqual(a1.AskingRentPSF, 1200.0/650.0) {
		t.Fatalf("unexpected A1 asking PSF: %v", a1.AskingRentPSF)
	}
}

func TestPricingTotalsUnitCountWeighted(t *testing.T) {
	m := ComputePricing(pricingSnapshot(), asOf)

	// In-place weighted by floorplan unit count: (1000*2 + 2000*8) / 10.
	if !almostEqual(m.InPlaceRent, 1800) {
		t.Fatalf("expected unit-count-weighted in-place 1800, got %v", m.InPlaceRent)
	}
	// A naive floorplan mean would be 1500; that is exactly the bug the
	// weighting exists to avoid.
	if almostEqual(m.InPlaceRent, 1500) {
		t.Fatal("totals must not be a simple average of floorplan rates")
	}
	if !almostEqual(m.AskingRent, (1200*2+2100*8)/10.0) {
		t.Fatalf("unexpected weighted asking rent: %v", m.AskingRent)
	}
}

func TestDelinquencyFormerRoutesToCollections(t *testing.T) {
	reportDate := time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC)
	units := []models.DelinquentUnit{
		{UnitNumber: "101", Status: "Current", Balance: 850, Aging: models.AgingBuckets{Current: 850}},
		{UnitNumber: "103", Status: "Former", Balance: 200, Aging: models.AgingBuckets{Days31To60: 200}},
	}
	s := AggregateDelinquency(units, "oak01", reportDate)

	if s.Collections.Days31To60 != 200 {
		t.Fatalf("former balance must land in collections 31-60, got %v", s.Collections.Days31To60)
	}
	if s.Delinquency.Days31To60 != 0 {
		t.Fatal("former balance must not touch the live delinquency aggregate")
	}
	if s.Delinquency.Current != 850 || s.DelinquentUnits != 1 || s.FormerUnits != 1 {
		t.Fatalf("unexpected summary: %+v", s)
	}
}

func TestDelinquencyEvictionStageUnknown(t *testing.T) {
	units := []models.DelinquentUnit{
		{UnitNumber: "101", Status: "Current", Balance: 500, InEviction: true},
	}
	s := AggregateDelinquency(units, "oak01", asOf)
	if s.EvictionUnits != 1 || s.EvictionBalance != 500 {
		t.Fatalf("unexpected eviction summary: %+v", s)
	}
	if s.EvictionStage != EvictionStageUnknown {
		t.Fatalf("the report carries no stage detail; expected unknown, got %q", s.EvictionStage)
	}
}

func TestTradeOutGuardRail(t *testing.T) {
	rows := []models.TradeOutRow{
		{UnitNumber: "101", PriorRent: 1800, NewRent: 1885},
		{UnitNumber: "102", PriorRent: 100, NewRent: 9000}, // swapped-column artifact
		{UnitNumber: "103", PriorRent: 0, NewRent: 1500},   // divide-by-zero artifact
	}
	s := ComputeTradeOuts(rows, "oak01", asOf)

	if s.Count != 1 {
		t.Fatalf("expected 1 retained record, got %d", s.Count)
	}
	if s.Discarded != 2 {
		t.Fatalf("expected 2 discarded, got %d", s.Discarded)
	}
	rec := s.Records[0]
	if !almostEqual(rec.PctChange, 85.0/1800.0) {
		t.Fatalf("expected pct_change ~0.0472, got %v", rec.PctChange)
	}
	if rec.DollarChange != 85 {
		t.Fatalf("expected dollar change 85, got %v", rec.DollarChange)
	}
	for _, r := range s.Records {
		if r.PctChange > 5.0 || r.PctChange < -5.0 {
			t.Fatalf("retained record violates guard rail: %+v", r)
		}
	}
}

func TestTradeOutsFromLeaseChain(t *testing.T) {
	snap := &models.PropertySnapshot{Property: &models.UnifiedProperty{PropertyID: "oak01"}}
	prior := models.UnifiedLease{
		ID: mustUUID("1b671a64-40d5-491e-99b0-da01ff1f3341"), UnitNumber: "101",
		ResidentID: "r1", Rent: 1800, LeaseStart: datePtr(2024, time.June, 1),
	}
	priorID := prior.ID
	next := models.UnifiedLease{
		ID: mustUUID("2b671a64-40d5-491e-99b0-da01ff1f3342"), UnitNumber: "101",
		ResidentID: "r1", Rent: 1885, LeaseStart: datePtr(2025, time.June, 1), PriorLeaseID: &priorID,
	}
	snap.Leases = []models.UnifiedLease{prior, next}

	rows := TradeOutsFromLeases(snap.Leases)
	if len(rows) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(rows))
	}
	if rows[0].PriorRent != 1800 || rows[0].NewRent != 1885 || !rows[0].IsRenewal {
		t.Fatalf("unexpected pair: %+v", rows[0])
	}
}
