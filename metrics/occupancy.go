package metrics

import (
	"pms_metrics/models"
	"pms_metrics/timeframe"
)

// ComputeOccupancy derives the occupancy picture for one property as of the
// window's end date. Future/applicant residents count toward leased, never
// toward occupied.
func ComputeOccupancy(snap *models.PropertySnapshot, win Window) models.OccupancyMetrics {
	m := models.OccupancyMetrics{
		PropertyID: snap.Property.PropertyID,
		Timeframe:  win.Name,
		AsOf:       win.End,
		TotalUnits: len(snap.Units),
	}

	preleasedUnits := preleasedVacantUnits(snap)

	for _, u := range snap.Units {
		switch u.Status {
		case models.UnitStatusOccupied:
			m.OccupiedUnits++
		case models.UnitStatusVacant:
			m.VacantUnits++
			if u.Ready {
				m.VacantReady++
			} else {
				m.VacantNotReady++
			}
			if u.DaysVacant >= 90 {
				m.AgedVacancy90Plus++
			}
			if preleasedUnits[u.UnitNumber] {
				m.PreleasedVacant++
			}
		case models.UnitStatusNotice:
			m.NoticeUnits++
		case models.UnitStatusModel:
			m.ModelUnits++
		case models.UnitStatusDown:
			m.DownUnits++
		}
	}

	total := float64(m.TotalUnits)
	m.PhysicalOccupancy = pct(float64(m.OccupiedUnits), total)
	m.LeasedPercentage = pct(float64(m.OccupiedUnits+m.PreleasedVacant), total)
	return m
}

// ComputeExposure derives near-term vacancy risk net of committed future
// leases. Exposure encodes "what could go empty" minus what is already
// re-leased, floored at zero.
func ComputeExposure(snap *models.PropertySnapshot, win Window) models.ExposureMetrics {
	m := models.ExposureMetrics{
		PropertyID: snap.Property.PropertyID,
		Timeframe:  win.Name,
		AsOf:       win.End,
	}

	for _, u := range snap.Units {
		if u.Status == models.UnitStatusVacant {
			m.VacantUnits++
		}
	}

	for _, r := range snap.Residents {
		switch r.Status {
		case models.ResidentStatusNotice:
			if r.MoveOut != nil {
				if timeframe.IsWithinDays(*r.MoveOut, win.End, 30) {
					m.Notices30Days++
				}
				if timeframe.IsWithinDays(*r.MoveOut, win.End, 60) {
					m.Notices60Days++
				}
			}
		case models.ResidentStatusFuture, models.ResidentStatusApplicant:
			if r.MoveIn != nil {
				if timeframe.IsWithinDays(*r.MoveIn, win.End, 30) {
					m.PendingMoveIns30++
				}
				if timeframe.IsWithinDays(*r.MoveIn, win.End, 60) {
					m.PendingMoveIns60++
				}
			}
		}

		// Net absorption counts movement strictly inside the window.
		if r.MoveIn != nil && timeframe.IsInPeriod(*r.MoveIn, win.Start, win.End) {
			m.MoveIns++
		}
		if r.MoveOut != nil && timeframe.IsInPeriod(*r.MoveOut, win.Start, win.End) {
			m.MoveOuts++
		}
	}

	m.Exposure30Days = floorZero(m.VacantUnits + m.Notices30Days - m.PendingMoveIns30)
	m.Exposure60Days = floorZero(m.VacantUnits + m.Notices60Days - m.PendingMoveIns60)
	m.NetAbsorption = m.MoveIns - m.MoveOuts
	return m
}

// preleasedVacantUnits returns the unit numbers with a signed
// future/applicant resident.
func preleasedVacantUnits(snap *models.PropertySnapshot) map[string]bool {
	out := make(map[string]bool)
	for _, r := range snap.Residents {
		if r.Status == models.ResidentStatusFuture || r.Status == models.ResidentStatusApplicant {
			out[r.UnitNumber] = true
		}
	}
	return out
}

func floorZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
