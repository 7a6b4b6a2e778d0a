package reportparse

import "pms_metrics/models"

// RentRollLayout fixes the column positions of a rent roll export.
type RentRollLayout struct {
	UnitCol      int
	FloorplanCol int
	NameCol      int
	StatusCol    int
	SqFtCol      int
	MarketCol    int
	ActualCol    int
}

var DefaultRentRollLayout = RentRollLayout{
	UnitCol:      0,
	FloorplanCol: 1,
	NameCol:      2,
	StatusCol:    3,
	SqFtCol:      4,
	MarketCol:    5,
	ActualCol:    6,
}

// ExtractRentRoll pulls one row per unit out of a rent roll grid. The scan
// stops at the "Totals" footer; a grid without one is format drift.
func ExtractRentRoll(grid [][]string, layout RentRollLayout) ([]models.RentRollRow, error) {
	var rows []models.RentRollRow
	sawFooter := false

	for _, row := range grid {
		if isNonDataRow(row) {
			continue
		}
		unit := cell(row, layout.UnitCol)
		if unit == "" {
			continue
		}
		if unit == "Totals:" || unit == "Total" {
			sawFooter = true
			break
		}
		rows = append(rows, models.RentRollRow{
			UnitNumber:    unit,
			FloorplanCode: cell(row, layout.FloorplanCol),
			ResidentName:  cell(row, layout.NameCol),
			Status:        cell(row, layout.StatusCol),
			SqFt:          cellFloat(row, layout.SqFtCol),
			MarketRent:    cellFloat(row, layout.MarketCol),
			ActualRent:    cellFloat(row, layout.ActualCol),
		})
	}

	if !sawFooter {
		return nil, ErrMarkerNotFound{Report: "rent roll", Marker: "Totals:"}
	}
	return rows, nil
}
