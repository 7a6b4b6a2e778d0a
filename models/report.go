package models

import "time"

// DelinquentUnit is one emitted row from a delinquency aging report.
// Rows are only emitted when they carry a non-zero prepaid or delinquent
// balance. Keyed (property, report_date, unit); storage is additive per
// report date, unlike the replace-wholesale canonical entities.
type DelinquentUnit struct {
	PropertyID   string       `json:"property_id" db:"property_id"`
	ReportDate   time.Time    `json:"report_date" db:"report_date"`
	UnitNumber   string       `json:"unit_number" db:"unit_number"`
	ResidentName string       `json:"resident_name" db:"resident_name"`
	Status       string       `json:"status" db:"status"`
	InEviction   bool         `json:"in_eviction" db:"in_eviction"`
	DepositsHeld float64      `json:"deposits_held" db:"deposits_held"`
	Prepaid      float64      `json:"prepaid" db:"prepaid"`
	Balance      float64      `json:"balance" db:"balance"`
	Aging        AgingBuckets `json:"aging"`
}

// DelinquencyTotals is the property-level Grand Totals row of the report.
type DelinquencyTotals struct {
	PropertyID string       `json:"property_id" db:"property_id"`
	ReportDate time.Time    `json:"report_date" db:"report_date"`
	Prepaid    float64      `json:"prepaid" db:"prepaid"`
	Balance    float64      `json:"balance" db:"balance"`
	Aging      AgingBuckets `json:"aging"`
}

// RentRollRow is one unit row from a rent roll export.
type RentRollRow struct {
	UnitNumber    string  `json:"unit_number" db:"unit_number"`
	FloorplanCode string  `json:"floorplan_code" db:"floorplan_code"`
	ResidentName  string  `json:"resident_name" db:"resident_name"`
	Status        string  `json:"status" db:"status"`
	SqFt          float64 `json:"sqft" db:"sqft"`
	MarketRent    float64 `json:"market_rent" db:"market_rent"`
	ActualRent    float64 `json:"actual_rent" db:"actual_rent"`
}

// TradeOutRow is one raw prior/new lease pair from a trade-out export,
// before the guard-rail filter is applied.
type TradeOutRow struct {
	UnitNumber string  `json:"unit_number"`
	PriorRent  float64 `json:"prior_rent"`
	NewRent    float64 `json:"new_rent"`
	IsRenewal  bool    `json:"is_renewal"`
}

// LeasingActivity is the lead/tour/application/signature tally for a
// property and timeframe, as parsed out of leasing-activity exports.
type LeasingActivity struct {
	PropertyID       string `json:"property_id"`
	Timeframe        string `json:"timeframe"`
	Leads            int    `json:"leads"`
	Tours            int    `json:"tours"`
	Applications     int    `json:"applications"`
	LeasesSigned     int    `json:"leases_signed"`
	SightUnseen      int    `json:"sight_unseen"`
	TouredAndApplied int    `json:"toured_and_applied"`
}
