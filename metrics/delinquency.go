package metrics

import (
	"strings"
	"time"

	"pms_metrics/models"
)

// EvictionStageUnknown is the only stage the source report supports: it
// carries no filed-vs-writ detail and none is fabricated here.
const EvictionStageUnknown = "unknown"

// AggregateDelinquency rolls extracted report rows into one summary.
// Former-resident balances go to the collections aggregate, never to the
// live delinquency aggregate: collectibility and remediation paths differ.
func AggregateDelinquency(units []models.DelinquentUnit, propertyID string, reportDate time.Time) models.DelinquencySummary {
	s := models.DelinquencySummary{
		PropertyID:    propertyID,
		ReportDate:    reportDate,
		EvictionStage: EvictionStageUnknown,
	}

	for _, u := range units {
		s.PrepaidTotal += u.Prepaid

		if strings.Contains(strings.ToLower(u.Status), "former") {
			s.Collections.Add(u.Aging)
			s.FormerUnits++
		} else {
			s.Delinquency.Add(u.Aging)
			if u.Balance > 0 {
				s.DelinquentUnits++
			}
		}

		if u.InEviction {
			s.EvictionUnits++
			s.EvictionBalance += u.Balance
		}
	}
	return s
}
