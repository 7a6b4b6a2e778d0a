package metrics

import (
	"time"

	"pms_metrics/models"
	"pms_metrics/timeframe"
)

// Renewal-risk rule table. These thresholds and point values feed
// downstream alerting and must not drift.
const (
	expire30Points = 3
	expire60Points = 2
	expire90Points = 1

	tenureUnder1YrPoints = 2
	tenureUnder2YrPoints = 1

	rentOver105Points = 2
	rentOver95Points  = 1

	highThreshold = 4
	medThreshold  = 2
)

// ScoreResident accumulates points over three independent factors:
// lease-expiration urgency, tenure, and rent-vs-market ratio. This is an
// auditable rule table, not a model.
func ScoreResident(r models.UnifiedResident, unit *models.UnifiedUnit, asOf time.Time) models.RiskScore {
	s := models.RiskScore{
		PropertyID: r.PropertyID,
		ResidentID: r.ResidentID,
		UnitNumber: r.UnitNumber,
		AsOf:       asOf,
	}

	if r.LeaseEnd != nil {
		switch {
		case timeframe.IsWithinDays(*r.LeaseEnd, asOf, 30):
			s.ExpirationPoints = expire30Points
		case timeframe.IsWithinDays(*r.LeaseEnd, asOf, 60):
			s.ExpirationPoints = expire60Points
		case timeframe.IsWithinDays(*r.LeaseEnd, asOf, 90):
			s.ExpirationPoints = expire90Points
		}
	}

	tenureStart := r.MoveIn
	if tenureStart == nil {
		tenureStart = r.LeaseStart
	}
	if tenureStart != nil {
		days := timeframe.DaysBetween(*tenureStart, asOf)
		switch {
		case days >= 0 && days < 365:
			s.TenurePoints = tenureUnder1YrPoints
		case days >= 365 && days < 730:
			s.TenurePoints = tenureUnder2YrPoints
		}
	}

	if unit != nil && unit.MarketRent > 0 {
		ratio := r.Rent / unit.MarketRent
		switch {
		case ratio > 1.05:
			s.RentRatioPoints = rentOver105Points
		case ratio > 0.95:
			s.RentRatioPoints = rentOver95Points
		}
	}

	s.TotalPoints = s.ExpirationPoints + s.TenurePoints + s.RentRatioPoints
	switch {
	case s.TotalPoints >= highThreshold:
		s.Level = models.RiskHigh
	case s.TotalPoints >= medThreshold:
		s.Level = models.RiskMed
	default:
		s.Level = models.RiskLow
	}
	return s
}

// ScoreSnapshot scores every current or on-notice resident in a snapshot.
func ScoreSnapshot(snap *models.PropertySnapshot, asOf time.Time) []models.RiskScore {
	units := make(map[string]*models.UnifiedUnit, len(snap.Units))
	for i := range snap.Units {
		units[snap.Units[i].UnitNumber] = &snap.Units[i]
	}

	var scores []models.RiskScore
	for _, r := range snap.Residents {
		if r.Status != models.ResidentStatusCurrent && r.Status != models.ResidentStatusNotice {
			continue
		}
		scores = append(scores, ScoreResident(r, units[r.UnitNumber], asOf))
	}
	return scores
}
