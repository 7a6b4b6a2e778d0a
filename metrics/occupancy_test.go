package metrics

import (
	"math"
	"testing"
	"time"

	"pms_metrics/models"
)

var asOf = time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

func cmWindow() Window {
	return Window{
		Name:  "CM",
		Start: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		End:   asOf,
	}
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func unit(number string, status models.UnitStatus, ready bool) models.UnifiedUnit {
	return models.UnifiedUnit{
		UnitNumber: number,
		Status:     status,
		Ready:      ready,
		Available:  status == models.UnitStatusVacant && ready,
	}
}

// tenUnitSnapshot is the reference scenario: 8 occupied, 1 vacant ready,
// 1 down.
func tenUnitSnapshot() *models.PropertySnapshot {
	snap := &models.PropertySnapshot{
		Property: &models.UnifiedProperty{PropertyID: "oak01", TotalUnits: 10},
	}
	for i := 0; i < 8; i++ {
		snap.Units = append(snap.Units, unit(string(rune('A'+i)), models.UnitStatusOccupied, false))
	}
	snap.Units = append(snap.Units, unit("V1", models.UnitStatusVacant, true))
	snap.Units = append(snap.Units, unit("D1", models.UnitStatusDown, false))
	return snap
}

func TestOccupancyReferenceScenario(t *testing.T) {
	m := ComputeOccupancy(tenUnitSnapshot(), cmWindow())

	if m.TotalUnits != 10 || m.OccupiedUnits != 8 {
		t.Fatalf("unexpected counts: %+v", m)
	}
	if m.PhysicalOccupancy != 80.0 {
		t.Fatalf("expected physical occupancy 80.0, got %v", m.PhysicalOccupancy)
	}
	if m.LeasedPercentage != 80.0 {
		t.Fatalf("expected leased percentage 80.0 (no preleased vacant), got %v", m.LeasedPercentage)
	}
	if m.VacantReady != 1 || m.VacantNotReady != 0 {
		t.Fatalf("expected 1 vacant ready / 0 not ready, got %d/%d", m.VacantReady, m.VacantNotReady)
	}
}

func TestStatusCountsSumToTotal(t *testing.T) {
	snap := tenUnitSnapshot()
	snap.Units = append(snap.Units,
		unit("N1", models.UnitStatusNotice, false),
		unit("M1", models.UnitStatusModel, false),
	)
	m := ComputeOccupancy(snap, cmWindow())
	sum := m.OccupiedUnits + m.VacantUnits + m.NoticeUnits + m.ModelUnits + m.DownUnits
	if sum != m.TotalUnits {
		t.Fatalf("status counts sum %d != total %d", sum, m.TotalUnits)
	}
}

func TestPreleasedVacantCountsLeasedNotOccupied(t *testing.T) {
	snap := tenUnitSnapshot()
	snap.Residents = []models.UnifiedResident{
		{ResidentID: "r1", UnitNumber: "V1", Status: models.ResidentStatusFuture, MoveIn: datePtr(2025, time.July, 1)},
	}
	m := ComputeOccupancy(snap, cmWindow())

	if m.PreleasedVacant != 1 {
		t.Fatalf("expected 1 preleased vacant, got %d", m.PreleasedVacant)
	}
	if m.PhysicalOccupancy != 80.0 {
		t.Fatalf("preleasing must not move physical occupancy, got %v", m.PhysicalOccupancy)
	}
	if m.LeasedPercentage != 90.0 {
		t.Fatalf("expected leased 90.0, got %v", m.LeasedPercentage)
	}
	if m.PhysicalOccupancy > m.LeasedPercentage {
		t.Fatal("physical occupancy can never exceed leased percentage")
	}
}

func TestZeroUnitsNoDivideByZero(t *testing.T) {
	snap := &models.PropertySnapshot{Property: &models.UnifiedProperty{PropertyID: "empty"}}
	m := ComputeOccupancy(snap, cmWindow())
	if m.PhysicalOccupancy != 0 || m.LeasedPercentage != 0 {
		t.Fatalf("zero-unit property must report 0 percentages, got %+v", m)
	}
}

func TestAgedVacancy(t *testing.T) {
	snap := tenUnitSnapshot()
	snap.Units[8].DaysVacant = 120
	m := ComputeOccupancy(snap, cmWindow())
	if m.AgedVacancy90Plus != 1 {
		t.Fatalf("expected 1 aged vacancy, got %d", m.AgedVacancy90Plus)
	}
}

func TestExposureFormulaAndFloor(t *testing.T) {
	snap := tenUnitSnapshot() // 1 vacant
	snap.Residents = []models.UnifiedResident{
		{ResidentID: "n1", Status: models.ResidentStatusNotice, MoveOut: datePtr(2025, time.July, 1)},  // 16 days out
		{ResidentID: "n2", Status: models.ResidentStatusNotice, MoveOut: datePtr(2025, time.August, 5)}, // 51 days out
		{ResidentID: "f1", Status: models.ResidentStatusFuture, MoveIn: datePtr(2025, time.June, 25)},
	}

	m := ComputeExposure(snap, cmWindow())
	if m.Notices30Days != 1 || m.Notices60Days != 2 {
		t.Fatalf("expected notices 1/2, got %d/%d", m.Notices30Days, m.Notices60Days)
	}
	if m.PendingMoveIns30 != 1 {
		t.Fatalf("expected 1 pending move-in, got %d", m.PendingMoveIns30)
	}
	// 1 vacant + 1 notice - 1 pending = 1
	if m.Exposure30Days != 1 {
		t.Fatalf("expected exposure30 = 1, got %d", m.Exposure30Days)
	}

	// Over-leased: pending move-ins exceed vacancy + notices; clamp to 0.
	snap.Residents = append(snap.Residents,
		models.UnifiedResident{ResidentID: "f2", Status: models.ResidentStatusApplicant, MoveIn: datePtr(2025, time.June, 20)},
		models.UnifiedResident{ResidentID: "f3", Status: models.ResidentStatusFuture, MoveIn: datePtr(2025, time.June, 28)},
	)
	m = ComputeExposure(snap, cmWindow())
	if m.Exposure30Days != 0 {
		t.Fatalf("expected exposure30 clamped to 0, got %d", m.Exposure30Days)
	}
}

func TestNetAbsorptionStrictlyInWindow(t *testing.T) {
	snap := tenUnitSnapshot()
	snap.Residents = []models.UnifiedResident{
		{ResidentID: "a", Status: models.ResidentStatusCurrent, MoveIn: datePtr(2025, time.June, 10)},
		{ResidentID: "b", Status: models.ResidentStatusCurrent, MoveIn: datePtr(2025, time.May, 20)}, // before window
		{ResidentID: "c", Status: models.ResidentStatusPast, MoveOut: datePtr(2025, time.June, 3)},
	}
	m := ComputeExposure(snap, cmWindow())
	if m.MoveIns != 1 || m.MoveOuts != 1 {
		t.Fatalf("expected 1 move-in / 1 move-out inside window, got %d/%d", m.MoveIns, m.MoveOuts)
	}
	if m.NetAbsorption != 0 {
		t.Fatalf("expected net absorption 0, got %d", m.NetAbsorption)
	}
}

func TestCalculatorsDeterministic(t *testing.T) {
	a := ComputeOccupancy(tenUnitSnapshot(), cmWindow())
	b := ComputeOccupancy(tenUnitSnapshot(), cmWindow())
	if a != b {
		t.Fatal("same snapshot and window must produce identical metrics")
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
