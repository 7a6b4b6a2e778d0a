package normalize

import (
	"strings"

	"pms_metrics/models"
)

// yardiNormalizer maps Yardi SOAP report shapes: PascalCase field names,
// boolean flags as "true"/"false" strings, unit state spread across
// Vacant/Ready/Model/Down flags rather than one status field.
type yardiNormalizer struct{}

func (y *yardiNormalizer) Source() models.SourceSystem { return models.SourceYardi }

var yardiResidentStatuses = map[string]models.ResidentStatus{
	"current":   models.ResidentStatusCurrent,
	"future":    models.ResidentStatusFuture,
	"past":      models.ResidentStatusPast,
	"notice":    models.ResidentStatusNotice,
	"applicant": models.ResidentStatusApplicant,
}

func (y *yardiNormalizer) NormalizeProperty(raw models.RawRecord) (*models.UnifiedProperty, error) {
	code := raw["Code"]
	return &models.UnifiedProperty{
		ID:         newID(models.SourceYardi, "property", code),
		PropertyID: code,
		Source:     models.SourceYardi,
		Name:       raw["MarketingName"],
		Address:    raw["AddressLine1"],
		City:       raw["City"],
		State:      raw["State"],
		Zip:        raw["PostalCode"],
		TotalUnits: toInt(raw["UnitCount"]),
	}, nil
}

func (y *yardiNormalizer) NormalizeUnit(raw models.RawRecord) (*models.UnifiedUnit, error) {
	number := raw["UnitNumber"]
	u := &models.UnifiedUnit{
		ID:            newID(models.SourceYardi, "unit", number),
		Source:        models.SourceYardi,
		UnitNumber:    number,
		FloorplanCode: raw["FloorplanCode"],
		FloorplanName: raw["FloorplanName"],
		Bedrooms:      toInt(raw["Bedrooms"]),
		Bathrooms:     toFloat(raw["Bathrooms"]),
		SqFt:          toFloat(raw["SquareFeet"]),
		MarketRent:    toFloat(raw["MarketRent"]),
		Ready:         toBool(raw["Ready"]),
		DaysVacant:    toInt(raw["DaysVacant"]),
		AvailableDate: toDate(raw["AvailableDate"]),
		OnNoticeDate:  toDate(raw["NoticeDate"]),
	}

	switch {
	case toBool(raw["Model"]):
		u.Status = models.UnitStatusModel
	case toBool(raw["Down"]):
		u.Status = models.UnitStatusDown
	case toBool(raw["Vacant"]):
		u.Status = models.UnitStatusVacant
	default:
		u.Status = models.UnitStatusOccupied
	}
	return u, nil
}

func (y *yardiNormalizer) NormalizeResident(raw models.RawRecord) (*models.UnifiedResident, error) {
	rawStatus := strings.ToLower(strings.TrimSpace(raw["Status"]))
	status, ok := yardiResidentStatuses[rawStatus]
	if !ok {
		return nil, ErrUnmappedStatus{Source: models.SourceYardi, Kind: "resident", Raw: raw["Status"]}
	}

	code := raw["TenantCode"]
	return &models.UnifiedResident{
		ID:         newID(models.SourceYardi, "resident", code),
		Source:     models.SourceYardi,
		ResidentID: code,
		Name:       strings.TrimSpace(raw["FirstName"] + " " + raw["LastName"]),
		UnitNumber: raw["UnitNumber"],
		Rent:       toFloat(raw["RentAmount"]),
		Status:     status,
		LeaseStart: toDate(raw["LeaseFrom"]),
		LeaseEnd:   toDate(raw["LeaseTo"]),
		MoveIn:     toDate(raw["MoveInDate"]),
		MoveOut:    toDate(raw["MoveOutDate"]),
		NoticeDate: toDate(raw["NoticeDate"]),
	}, nil
}

func (y *yardiNormalizer) NormalizeLease(raw models.RawRecord) (*models.UnifiedLease, error) {
	key := raw["TenantCode"] + "/" + raw["UnitNumber"] + "/" + raw["LeaseFrom"]
	return &models.UnifiedLease{
		ID:         newID(models.SourceYardi, "lease", key),
		Source:     models.SourceYardi,
		ResidentID: raw["TenantCode"],
		UnitNumber: raw["UnitNumber"],
		Rent:       toFloat(raw["RentAmount"]),
		LeaseStart: toDate(raw["LeaseFrom"]),
		LeaseEnd:   toDate(raw["LeaseTo"]),
		TermMonths: toInt(raw["LeaseTerm"]),
	}, nil
}
