package metrics

import (
	"sort"
	"time"

	"pms_metrics/models"
)

// tradeOutGuard discards any |pct_change| above this as a data-mapping
// artifact. Wide-format exports with duplicate column names are a known
// source of swapped prior/new values; reporting them would corrupt the
// portfolio average.
const tradeOutGuard = 5.0

// TradeOutsFromLeases builds raw prior/new pairs by walking each unit's
// chronological lease chain.
func TradeOutsFromLeases(leases []models.UnifiedLease) []models.TradeOutRow {
	byID := make(map[string]*models.UnifiedLease, len(leases))
	for i := range leases {
		byID[leases[i].ID.String()] = &leases[i]
	}

	var rows []models.TradeOutRow
	for i := range leases {
		l := &leases[i]
		if l.PriorLeaseID == nil {
			continue
		}
		prior, ok := byID[l.PriorLeaseID.String()]
		if !ok {
			continue
		}
		rows = append(rows, models.TradeOutRow{
			UnitNumber: l.UnitNumber,
			PriorRent:  prior.Rent,
			NewRent:    l.Rent,
			IsRenewal:  l.ResidentID == prior.ResidentID,
		})
	}
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].UnitNumber < rows[b].UnitNumber })
	return rows
}

// ComputeTradeOuts applies the guard rail and summarizes retained records:
// simple mean of retained percentages plus summed dollar changes. Count
// reflects only retained records.
func ComputeTradeOuts(rows []models.TradeOutRow, propertyID string, asOf time.Time) models.TradeOutSummary {
	s := models.TradeOutSummary{
		PropertyID: propertyID,
		AsOf:       asOf,
	}

	var pctSum float64
	for _, row := range rows {
		if row.PriorRent == 0 {
			s.Discarded++
			continue
		}
		chg := row.NewRent/row.PriorRent - 1
		if chg > tradeOutGuard || chg < -tradeOutGuard {
			s.Discarded++
			continue
		}
		rec := models.TradeOutRecord{
			UnitNumber:   row.UnitNumber,
			PriorRent:    row.PriorRent,
			NewRent:      row.NewRent,
			PctChange:    chg,
			DollarChange: row.NewRent - row.PriorRent,
			IsRenewal:    row.IsRenewal,
		}
		s.Records = append(s.Records, rec)
		pctSum += rec.PctChange
		s.TotalDollarChange += rec.DollarChange
	}

	s.Count = len(s.Records)
	if s.Count > 0 {
		s.AvgPctChange = pctSum / float64(s.Count)
	}
	return s
}
