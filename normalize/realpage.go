package normalize

import (
	"strings"

	"pms_metrics/models"
)

// realPageNormalizer maps RealPage OData/SOAP shapes: snake_case field
// names, a single unit status string, and verbose resident status strings
// ("Current resident", "Former resident", ...).
type realPageNormalizer struct{}

func (r *realPageNormalizer) Source() models.SourceSystem { return models.SourceRealPage }

var realPageResidentStatuses = map[string]models.ResidentStatus{
	"current":          models.ResidentStatusCurrent,
	"current resident": models.ResidentStatusCurrent,
	"former":           models.ResidentStatusPast,
	"former resident":  models.ResidentStatusPast,
	"future":           models.ResidentStatusFuture,
	"future resident":  models.ResidentStatusFuture,
	"notice":           models.ResidentStatusNotice,
	"on notice":        models.ResidentStatusNotice,
	"applicant":        models.ResidentStatusApplicant,
	"pending approval": models.ResidentStatusApplicant,
}

var realPageUnitStatuses = map[string]struct {
	status models.UnitStatus
	ready  bool
}{
	"occupied":           {models.UnitStatusOccupied, false},
	"occupied on notice": {models.UnitStatusNotice, false},
	"vacant ready":       {models.UnitStatusVacant, true},
	"vacant not ready":   {models.UnitStatusVacant, false},
	"vacant":             {models.UnitStatusVacant, false},
	"model":              {models.UnitStatusModel, false},
	"down":               {models.UnitStatusDown, false},
	"admin":              {models.UnitStatusDown, false},
}

func (r *realPageNormalizer) NormalizeProperty(raw models.RawRecord) (*models.UnifiedProperty, error) {
	id := raw["site_id"]
	return &models.UnifiedProperty{
		ID:         newID(models.SourceRealPage, "property", id),
		PropertyID: id,
		Source:     models.SourceRealPage,
		Name:       raw["site_name"],
		Address:    raw["address"],
		City:       raw["city"],
		State:      raw["state"],
		Zip:        raw["zip"],
		TotalUnits: toInt(raw["unit_count"]),
	}, nil
}

func (r *realPageNormalizer) NormalizeUnit(raw models.RawRecord) (*models.UnifiedUnit, error) {
	rawStatus := strings.ToLower(strings.TrimSpace(raw["unit_status"]))
	mapped, ok := realPageUnitStatuses[rawStatus]
	if !ok {
		return nil, ErrUnmappedStatus{Source: models.SourceRealPage, Kind: "unit", Raw: raw["unit_status"]}
	}

	number := raw["unit_number"]
	return &models.UnifiedUnit{
		ID:            newID(models.SourceRealPage, "unit", number),
		Source:        models.SourceRealPage,
		UnitNumber:    number,
		FloorplanCode: raw["floor_plan_code"],
		FloorplanName: raw["floor_plan_name"],
		Bedrooms:      toInt(raw["bed_count"]),
		Bathrooms:     toFloat(raw["bath_count"]),
		SqFt:          toFloat(raw["gross_sq_ft"]),
		MarketRent:    toFloat(raw["market_rent"]),
		Status:        mapped.status,
		Ready:         mapped.ready,
		DaysVacant:    toInt(raw["days_vacant"]),
		AvailableDate: toDate(raw["available_date"]),
		OnNoticeDate:  toDate(raw["notice_date"]),
	}, nil
}

func (r *realPageNormalizer) NormalizeResident(raw models.RawRecord) (*models.UnifiedResident, error) {
	rawStatus := strings.ToLower(strings.TrimSpace(raw["status"]))
	status, ok := realPageResidentStatuses[rawStatus]
	if !ok {
		return nil, ErrUnmappedStatus{Source: models.SourceRealPage, Kind: "resident", Raw: raw["status"]}
	}

	id := raw["resident_id"]
	return &models.UnifiedResident{
		ID:         newID(models.SourceRealPage, "resident", id),
		Source:     models.SourceRealPage,
		ResidentID: id,
		Name:       raw["resident_name"],
		UnitNumber: raw["unit_number"],
		Rent:       toFloat(raw["rent_amount"]),
		Status:     status,
		LeaseStart: toDate(raw["lease_start"]),
		LeaseEnd:   toDate(raw["lease_end"]),
		MoveIn:     toDate(raw["move_in_date"]),
		MoveOut:    toDate(raw["move_out_date"]),
		NoticeDate: toDate(raw["notice_date"]),
	}, nil
}

func (r *realPageNormalizer) NormalizeLease(raw models.RawRecord) (*models.UnifiedLease, error) {
	key := raw["resident_id"] + "/" + raw["unit_number"] + "/" + raw["lease_start"]
	return &models.UnifiedLease{
		ID:         newID(models.SourceRealPage, "lease", key),
		Source:     models.SourceRealPage,
		ResidentID: raw["resident_id"],
		UnitNumber: raw["unit_number"],
		Rent:       toFloat(raw["rent_amount"]),
		LeaseStart: toDate(raw["lease_start"]),
		LeaseEnd:   toDate(raw["lease_end"]),
		TermMonths: toInt(raw["lease_term"]),
	}, nil
}
