package metrics

import (
	"fmt"

	"pms_metrics/models"
)

// PortfolioID is the property id carried by portfolio-level metric records.
const PortfolioID = "portfolio"

// PortfolioView is one aggregation pass over a set of properties. The mode
// is carried on the result so the two semantics are never silently mixed
// within one response.
type PortfolioView struct {
	Mode       models.AggregationMode
	Properties []string
	Occupancy  models.OccupancyMetrics
	Exposure   models.ExposureMetrics
}

// AggregatePortfolio combines per-property snapshots under one mode.
//
// Row-metrics mode pools all raw unit/resident rows first and computes the
// metric once: totals reconcile exactly with summed raw counts. Weighted
// mode computes each property first and combines percentages with
// unit-count weights: the "typical property" view. The two can legitimately
// disagree when property sizes vary.
func AggregatePortfolio(mode models.AggregationMode, snaps []*models.PropertySnapshot, win Window) (*PortfolioView, error) {
	view := &PortfolioView{Mode: mode}
	for _, s := range snaps {
		view.Properties = append(view.Properties, s.Property.PropertyID)
	}

	switch mode {
	case models.AggRowMetrics:
		pooled := poolSnapshots(snaps)
		view.Occupancy = ComputeOccupancy(pooled, win)
		view.Exposure = ComputeExposure(pooled, win)
	case models.AggWeighted:
		view.Occupancy = weightedOccupancy(snaps, win)
		view.Exposure = summedExposure(snaps, win)
	default:
		return nil, fmt.Errorf("unknown aggregation mode: %s", mode)
	}
	return view, nil
}

// poolSnapshots flattens all rows across properties into one synthetic
// portfolio snapshot.
func poolSnapshots(snaps []*models.PropertySnapshot) *models.PropertySnapshot {
	pooled := &models.PropertySnapshot{
		Property: &models.UnifiedProperty{PropertyID: PortfolioID},
	}
	for _, s := range snaps {
		pooled.Units = append(pooled.Units, s.Units...)
		pooled.Residents = append(pooled.Residents, s.Residents...)
		pooled.Leases = append(pooled.Leases, s.Leases...)
		pooled.Property.TotalUnits += s.Property.TotalUnits
	}
	return pooled
}

// weightedOccupancy sums counts and combines percentages weighted by each
// property's unit count.
func weightedOccupancy(snaps []*models.PropertySnapshot, win Window) models.OccupancyMetrics {
	out := models.OccupancyMetrics{
		PropertyID: PortfolioID,
		Timeframe:  win.Name,
		AsOf:       win.End,
	}

	var physSum, leasedSum, weight float64
	for _, s := range snaps {
		m := ComputeOccupancy(s, win)
		out.TotalUnits += m.TotalUnits
		out.OccupiedUnits += m.OccupiedUnits
		out.VacantUnits += m.VacantUnits
		out.NoticeUnits += m.NoticeUnits
		out.ModelUnits += m.ModelUnits
		out.DownUnits += m.DownUnits
		out.PreleasedVacant += m.PreleasedVacant
		out.VacantReady += m.VacantReady
		out.VacantNotReady += m.VacantNotReady
		out.AgedVacancy90Plus += m.AgedVacancy90Plus

		w := float64(m.TotalUnits)
		physSum += m.PhysicalOccupancy * w
		leasedSum += m.LeasedPercentage * w
		weight += w
	}

	if weight > 0 {
		out.PhysicalOccupancy = physSum / weight
		out.LeasedPercentage = leasedSum / weight
	}
	return out
}

// summedExposure sums per-property exposure; exposure is already a count
// metric, so weighted mode sums the per-property floored values (which can
// exceed the pooled row-metrics floor — that is the mode disagreeing, not
// a bug).
func summedExposure(snaps []*models.PropertySnapshot, win Window) models.ExposureMetrics {
	out := models.ExposureMetrics{
		PropertyID: PortfolioID,
		Timeframe:  win.Name,
		AsOf:       win.End,
	}
	for _, s := range snaps {
		m := ComputeExposure(s, win)
		out.VacantUnits += m.VacantUnits
		out.Notices30Days += m.Notices30Days
		out.Notices60Days += m.Notices60Days
		out.PendingMoveIns30 += m.PendingMoveIns30
		out.PendingMoveIns60 += m.PendingMoveIns60
		out.Exposure30Days += m.Exposure30Days
		out.Exposure60Days += m.Exposure60Days
		out.MoveIns += m.MoveIns
		out.MoveOuts += m.MoveOuts
	}
	out.NetAbsorption = out.MoveIns - out.MoveOuts
	return out
}

// AggregateTradeOuts combines per-property trade-out summaries. Weighted
// mode weights each property's average by its retained count; row-metrics
// mode pools the retained records and recomputes the mean once. Both agree
// here by construction, but the mode is still carried for the consumer.
func AggregateTradeOuts(mode models.AggregationMode, summaries []models.TradeOutSummary, win Window) (models.TradeOutSummary, error) {
	out := models.TradeOutSummary{PropertyID: PortfolioID, AsOf: win.End}

	switch mode {
	case models.AggWeighted:
		var pctSum float64
		for _, s := range summaries {
			pctSum += s.AvgPctChange * float64(s.Count)
			out.Count += s.Count
			out.Discarded += s.Discarded
			out.TotalDollarChange += s.TotalDollarChange
		}
		if out.Count > 0 {
			out.AvgPctChange = pctSum / float64(out.Count)
		}
	case models.AggRowMetrics:
		var pctSum float64
		for _, s := range summaries {
			for _, rec := range s.Records {
				out.Records = append(out.Records, rec)
				pctSum += rec.PctChange
				out.TotalDollarChange += rec.DollarChange
			}
			out.Discarded += s.Discarded
		}
		out.Count = len(out.Records)
		if out.Count > 0 {
			out.AvgPctChange = pctSum / float64(out.Count)
		}
	default:
		return out, fmt.Errorf("unknown aggregation mode: %s", mode)
	}
	return out, nil
}

// AggregateDelinquencySummaries sums balances across properties. Sums are
// mode-independent; the portfolio row still records which mode was asked
// for via the caller's response envelope.
func AggregateDelinquencySummaries(summaries []models.DelinquencySummary) models.DelinquencySummary {
	out := models.DelinquencySummary{
		PropertyID:    PortfolioID,
		EvictionStage: EvictionStageUnknown,
	}
	for _, s := range summaries {
		out.Delinquency.Add(s.Delinquency)
		out.Collections.Add(s.Collections)
		out.PrepaidTotal += s.PrepaidTotal
		out.DelinquentUnits += s.DelinquentUnits
		out.FormerUnits += s.FormerUnits
		out.EvictionUnits += s.EvictionUnits
		out.EvictionBalance += s.EvictionBalance
		if out.ReportDate.Before(s.ReportDate) {
			out.ReportDate = s.ReportDate
		}
	}
	return out
}
