package reportparse

import (
	"strings"

	"pms_metrics/models"
)

// ActivityLayout describes the label/value shape of a leasing activity
// export: one labeled count per row.
type ActivityLayout struct {
	LabelCol int
	ValueCol int
}

var DefaultActivityLayout = ActivityLayout{
	LabelCol: 0,
	ValueCol: 1,
}

var activityLabels = map[string]func(*models.LeasingActivity, int){
	"leads":              func(a *models.LeasingActivity, v int) { a.Leads = v },
	"tours":              func(a *models.LeasingActivity, v int) { a.Tours = v },
	"applications":       func(a *models.LeasingActivity, v int) { a.Applications = v },
	"leases signed":      func(a *models.LeasingActivity, v int) { a.LeasesSigned = v },
	"sight unseen":       func(a *models.LeasingActivity, v int) { a.SightUnseen = v },
	"toured and applied": func(a *models.LeasingActivity, v int) { a.TouredAndApplied = v },
}

// ExtractLeasingActivity reads the labeled counts out of a leasing activity
// grid. Unrecognized labels are ignored; a grid with no recognized labels at
// all is treated as the wrong report.
func ExtractLeasingActivity(grid [][]string, layout ActivityLayout, propertyID, timeframe string) (models.LeasingActivity, error) {
	activity := models.LeasingActivity{
		PropertyID: propertyID,
		Timeframe:  timeframe,
	}

	found := false
	for _, row := range grid {
		if isNonDataRow(row) {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(strings.TrimSuffix(cell(row, layout.LabelCol), ":")))
		set, ok := activityLabels[label]
		if !ok {
			continue
		}
		set(&activity, int(cellFloat(row, layout.ValueCol)))
		found = true
	}

	if !found {
		return activity, ErrMarkerNotFound{Report: "leasing_activity", Marker: "Leads"}
	}
	return activity, nil
}
