// Package reportparse recovers row-level facts from semi-structured PMS
// spreadsheet exports. Layouts use repeating header/detail/subtotal row
// groups, so extraction is a state machine over a cell grid, not a
// schema-driven parse. The package never reads file bytes itself except
// through ReadWorkbook, which only turns a workbook into a grid.
package reportparse

import (
	"strings"
	"time"

	"pms_metrics/models"
)

// State is the extractor's scan state. The Grand-Totals termination and the
// subtotal emission rule are testable against these named states.
type State int

const (
	SeekingUnit State = iota
	AccumulatingDetail
	Done
)

// DelinquencyLayout fixes the column positions of a delinquency aging
// report. Positions are known in advance per report type; detail rows do
// not repeat the header, so columns are never inferred from header text.
type DelinquencyLayout struct {
	UnitCol     int
	NameCol     int
	StatusCol   int
	DepositCol  int
	MarkerCol   int // cell holding "Subtotals:" / "Grand Totals:"
	PrepaidCol  int
	BalanceCol  int
	CurrentCol  int
	Days30Col   int
	Days60Col   int
	Days90Col   int
	Days90Plus  int
}

// DefaultDelinquencyLayout matches the standard aging export both PMS
// systems produce.
var DefaultDelinquencyLayout = DelinquencyLayout{
	UnitCol:    0,
	NameCol:    1,
	StatusCol:  2,
	DepositCol: 3,
	MarkerCol:  1,
	PrepaidCol: 4,
	BalanceCol: 5,
	CurrentCol: 6,
	Days30Col:  7,
	Days60Col:  8,
	Days90Col:  9,
	Days90Plus: 10,
}

// evictionMarker flags a unit in eviction in the raw status cell.
const evictionMarker = "*"

// rows matching these prefixes are parameter/legend rows, skipped before
// any header/subtotal matching to avoid false matches.
var nonDataMarkers = []string{
	"parameters",
	"legend",
	"as of date",
	"property:",
	"page ",
}

// DelinquencyExtractor scans one delinquency aging report.
type DelinquencyExtractor struct {
	layout DelinquencyLayout
	state  State

	// per-unit accumulators, reset at each unit header row
	unit models.DelinquentUnit
}

func NewDelinquencyExtractor(layout DelinquencyLayout) *DelinquencyExtractor {
	return &DelinquencyExtractor{layout: layout, state: SeekingUnit}
}

// Extract walks the grid and returns the emitted per-unit records plus the
// property-level Grand Totals. Zero-balance units are not emitted: the
// report is dense with administrative rows. A missing Grand Totals row is a
// structured error so operators can diagnose format drift.
func (e *DelinquencyExtractor) Extract(grid [][]string, propertyID string, reportDate time.Time) ([]models.DelinquentUnit, *models.DelinquencyTotals, error) {
	var units []models.DelinquentUnit
	var totals *models.DelinquencyTotals

	for _, row := range grid {
		if e.state == Done {
			break
		}
		if isNonDataRow(row) {
			continue
		}

		marker := cell(row, e.layout.MarkerCol)

		if strings.Contains(marker, "Grand Totals:") {
			// A decoy Grand Totals summary row carries no aging data and
			// must be skipped; only the row with aging cells terminates.
			if !hasAgingData(row, e.layout) {
				continue
			}
			totals = &models.DelinquencyTotals{
				PropertyID: propertyID,
				ReportDate: reportDate,
				Prepaid:    cellFloat(row, e.layout.PrepaidCol),
				Balance:    cellFloat(row, e.layout.BalanceCol),
				Aging:      readAging(row, e.layout),
			}
			e.state = Done
			break
		}

		if strings.Contains(marker, "Subtotals:") {
			if e.state == AccumulatingDetail {
				if e.unit.Prepaid != 0 || e.unit.Balance != 0 {
					e.unit.PropertyID = propertyID
					e.unit.ReportDate = reportDate
					units = append(units, e.unit)
				}
				e.state = SeekingUnit
			}
			continue
		}

		if unitNumber := cell(row, e.layout.UnitCol); unitNumber != "" {
			// New unit header: reset accumulators.
			status := cell(row, e.layout.StatusCol)
			e.unit = models.DelinquentUnit{
				UnitNumber:   unitNumber,
				ResidentName: cell(row, e.layout.NameCol),
				Status:       strings.TrimSuffix(strings.TrimSpace(status), evictionMarker),
				InEviction:   strings.Contains(status, evictionMarker),
				DepositsHeld: cellFloat(row, e.layout.DepositCol),
			}
			e.state = AccumulatingDetail
			continue
		}

		if e.state == AccumulatingDetail {
			e.unit.Prepaid += cellFloat(row, e.layout.PrepaidCol)
			e.unit.Balance += cellFloat(row, e.layout.BalanceCol)
			aging := readAging(row, e.layout)
			e.unit.Aging.Add(aging)
		}
	}

	if totals == nil {
		return nil, nil, ErrMarkerNotFound{Report: "delinquency", Marker: "Grand Totals:"}
	}
	return units, totals, nil
}

func readAging(row []string, l DelinquencyLayout) models.AgingBuckets {
	return models.AgingBuckets{
		Current:    cellFloat(row, l.CurrentCol),
		Days0To30:  cellFloat(row, l.Days30Col),
		Days31To60: cellFloat(row, l.Days60Col),
		Days61To90: cellFloat(row, l.Days90Col),
		Days90Plus: cellFloat(row, l.Days90Plus),
	}
}

func hasAgingData(row []string, l DelinquencyLayout) bool {
	for _, col := range []int{l.CurrentCol, l.Days30Col, l.Days60Col, l.Days90Col, l.Days90Plus} {
		if cell(row, col) != "" {
			return true
		}
	}
	return false
}

func isNonDataRow(row []string) bool {
	var first string
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			first = strings.ToLower(strings.TrimSpace(c))
			break
		}
	}
	if first == "" {
		return true
	}
	for _, marker := range nonDataMarkers {
		if strings.HasPrefix(first, marker) {
			return true
		}
	}
	return false
}
