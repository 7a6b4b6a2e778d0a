package reportparse

import (
	"strings"

	"pms_metrics/models"
)

// TradeOutLayout fixes the column positions of a lease trade-out export.
// These wide-format sheets are the known source of swapped prior/new
// values; the guard rail for that lives in the trade-out calculator, not
// here — extraction reports what the sheet says.
type TradeOutLayout struct {
	UnitCol     int
	TypeCol     int
	PriorCol    int
	NewCol      int
}

var DefaultTradeOutLayout = TradeOutLayout{
	UnitCol:  0,
	TypeCol:  1,
	PriorCol: 2,
	NewCol:   3,
}

// ExtractTradeOuts pulls one raw prior/new rent pair per unit row.
func ExtractTradeOuts(grid [][]string, layout TradeOutLayout) []models.TradeOutRow {
	var rows []models.TradeOutRow
	for _, row := range grid {
		if isNonDataRow(row) {
			continue
		}
		unit := cell(row, layout.UnitCol)
		if unit == "" || strings.HasPrefix(unit, "Total") {
			continue
		}
		prior := cellFloat(row, layout.PriorCol)
		next := cellFloat(row, layout.NewCol)
		if prior == 0 && next == 0 {
			continue
		}
		rows = append(rows, models.TradeOutRow{
			UnitNumber: unit,
			PriorRent:  prior,
			NewRent:    next,
			IsRenewal:  strings.EqualFold(cell(row, layout.TypeCol), "renewal"),
		})
	}
	return rows
}
