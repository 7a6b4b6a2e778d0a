package metrics

import "pms_metrics/models"

// ComputeLeasingFunnel turns lead/tour/application/signature counts into
// sequential conversion rates, one decimal place, 0 on a zero denominator.
// Sight-unseen signings and toured-and-applied prospects stay auxiliary
// counts: they are pipeline anomalies worth surfacing, not funnel stages.
func ComputeLeasingFunnel(activity models.LeasingActivity, win Window) models.LeasingFunnelMetrics {
	return models.LeasingFunnelMetrics{
		PropertyID:       activity.PropertyID,
		Timeframe:        win.Name,
		AsOf:             win.End,
		Leads:            activity.Leads,
		Tours:            activity.Tours,
		Applications:     activity.Applications,
		LeasesSigned:     activity.LeasesSigned,
		LeadToTour:       round1(pct(float64(activity.Tours), float64(activity.Leads))),
		TourToApp:        round1(pct(float64(activity.Applications), float64(activity.Tours))),
		AppToLease:       round1(pct(float64(activity.LeasesSigned), float64(activity.Applications))),
		LeadToLease:      round1(pct(float64(activity.LeasesSigned), float64(activity.Leads))),
		SightUnseen:      activity.SightUnseen,
		TouredAndApplied: activity.TouredAndApplied,
	}
}
