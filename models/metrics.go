package models

import (
	"time"

	"github.com/google/uuid"
)

// AggregationMode selects how the portfolio aggregator combines properties.
type AggregationMode string

const (
	// AggWeighted computes each metric per property first, then combines
	// with unit-count (or resident-count) weights.
	AggWeighted AggregationMode = "weighted"
	// AggRowMetrics pools raw rows across properties, then computes once.
	AggRowMetrics AggregationMode = "row_metrics"
)

// Metric records are append-only: each computation writes a new row keyed by
// (property, timeframe or report date) and never patches an old one.

type OccupancyMetrics struct {
	ID                uuid.UUID `json:"id" db:"id"`
	PropertyID        string    `json:"property_id" db:"property_id"`
	Timeframe         string    `json:"timeframe" db:"timeframe"`
	AsOf              time.Time `json:"as_of" db:"as_of"`
	TotalUnits        int       `json:"total_units" db:"total_units"`
	OccupiedUnits     int       `json:"occupied_units" db:"occupied_units"`
	VacantUnits       int       `json:"vacant_units" db:"vacant_units"`
	NoticeUnits       int       `json:"notice_units" db:"notice_units"`
	ModelUnits        int       `json:"model_units" db:"model_units"`
	DownUnits         int       `json:"down_units" db:"down_units"`
	PreleasedVacant   int       `json:"preleased_vacant" db:"preleased_vacant"`
	PhysicalOccupancy float64   `json:"physical_occupancy" db:"physical_occupancy"`
	LeasedPercentage  float64   `json:"leased_percentage" db:"leased_percentage"`
	VacantReady       int       `json:"vacant_ready" db:"vacant_ready"`
	VacantNotReady    int       `json:"vacant_not_ready" db:"vacant_not_ready"`
	AgedVacancy90Plus int       `json:"aged_vacancy_90_plus" db:"aged_vacancy_90_plus"`
}

type ExposureMetrics struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	PropertyID          string    `json:"property_id" db:"property_id"`
	Timeframe           string    `json:"timeframe" db:"timeframe"`
	AsOf                time.Time `json:"as_of" db:"as_of"`
	VacantUnits         int       `json:"vacant_units" db:"vacant_units"`
	Notices30Days       int       `json:"notices_30_days" db:"notices_30_days"`
	Notices60Days       int       `json:"notices_60_days" db:"notices_60_days"`
	PendingMoveIns30    int       `json:"pending_moveins_30_days" db:"pending_moveins_30_days"`
	PendingMoveIns60    int       `json:"pending_moveins_60_days" db:"pending_moveins_60_days"`
	Exposure30Days      int       `json:"exposure_30_days" db:"exposure_30_days"`
	Exposure60Days      int       `json:"exposure_60_days" db:"exposure_60_days"`
	MoveIns             int       `json:"move_ins" db:"move_ins"`
	MoveOuts            int       `json:"move_outs" db:"move_outs"`
	NetAbsorption       int       `json:"net_absorption" db:"net_absorption"`
}

type LeasingFunnelMetrics struct {
	ID             uuid.UUID `json:"id" db:"id"`
	PropertyID     string    `json:"property_id" db:"property_id"`
	Timeframe      string    `json:"timeframe" db:"timeframe"`
	AsOf           time.Time `json:"as_of" db:"as_of"`
	Leads          int       `json:"leads" db:"leads"`
	Tours          int       `json:"tours" db:"tours"`
	Applications   int       `json:"applications" db:"applications"`
	LeasesSigned   int       `json:"leases_signed" db:"leases_signed"`
	LeadToTour     float64   `json:"lead_to_tour" db:"lead_to_tour"`
	TourToApp      float64   `json:"tour_to_app" db:"tour_to_app"`
	AppToLease     float64   `json:"app_to_lease" db:"app_to_lease"`
	LeadToLease    float64   `json:"lead_to_lease" db:"lead_to_lease"`
	SightUnseen    int       `json:"sight_unseen" db:"sight_unseen"`
	TouredAndApplied int     `json:"toured_and_applied" db:"toured_and_applied"`
}

// FloorplanPricing is the per-floorplan pricing/rent-growth row.
type FloorplanPricing struct {
	FloorplanCode  string  `json:"floorplan_code" db:"floorplan_code"`
	FloorplanName  string  `json:"floorplan_name" db:"floorplan_name"`
	UnitCount      int     `json:"unit_count" db:"unit_count"`
	AvgSqFt        float64 `json:"avg_sqft" db:"avg_sqft"`
	InPlaceRent    float64 `json:"in_place_rent" db:"in_place_rent"`
	AskingRent     float64 `json:"asking_rent" db:"asking_rent"`
	RentGrowth     float64 `json:"rent_growth" db:"rent_growth"`
	InPlaceRentPSF float64 `json:"in_place_rent_psf" db:"in_place_rent_psf"`
	AskingRentPSF  float64 `json:"asking_rent_psf" db:"asking_rent_psf"`
}

type PricingMetrics struct {
	ID          uuid.UUID          `json:"id" db:"id"`
	PropertyID  string             `json:"property_id" db:"property_id"`
	AsOf        time.Time          `json:"as_of" db:"as_of"`
	Floorplans  []FloorplanPricing `json:"floorplans" db:"-"`
	InPlaceRent float64            `json:"in_place_rent" db:"in_place_rent"`
	AskingRent  float64            `json:"asking_rent" db:"asking_rent"`
	RentGrowth  float64            `json:"rent_growth" db:"rent_growth"`
}

// AgingBuckets holds balances split by how long they have been outstanding.
type AgingBuckets struct {
	Current   float64 `json:"current" db:"bucket_current"`
	Days0To30 float64 `json:"days_0_30" db:"days_0_30"`
	Days31To60 float64 `json:"days_31_60" db:"days_31_60"`
	Days61To90 float64 `json:"days_61_90" db:"days_61_90"`
	Days90Plus float64 `json:"days_90_plus" db:"days_90_plus"`
}

func (b AgingBuckets) Total() float64 {
	return b.Current + b.Days0To30 + b.Days31To60 + b.Days61To90 + b.Days90Plus
}

func (b *AgingBuckets) Add(o AgingBuckets) {
	b.Current += o.Current
	b.Days0To30 += o.Days0To30
	b.Days31To60 += o.Days31To60
	b.Days61To90 += o.Days61To90
	b.Days90Plus += o.Days90Plus
}

// DelinquencySummary aggregates one delinquency report for one property.
// Former-resident balances route to Collections, never to Delinquency:
// collectibility and remediation paths differ.
type DelinquencySummary struct {
	ID              uuid.UUID    `json:"id" db:"id"`
	PropertyID      string       `json:"property_id" db:"property_id"`
	ReportDate      time.Time    `json:"report_date" db:"report_date"`
	Delinquency     AgingBuckets `json:"delinquency"`
	Collections     AgingBuckets `json:"collections"`
	PrepaidTotal    float64      `json:"prepaid_total" db:"prepaid_total"`
	DelinquentUnits int          `json:"delinquent_units" db:"delinquent_units"`
	FormerUnits     int          `json:"former_units" db:"former_units"`
	EvictionUnits   int          `json:"eviction_units" db:"eviction_units"`
	EvictionBalance float64      `json:"eviction_balance" db:"eviction_balance"`
	// EvictionStage is always "unknown": the source report carries no
	// filed-vs-writ detail and none is fabricated.
	EvictionStage string `json:"eviction_stage" db:"eviction_stage"`
}

// TradeOutRecord is one retained prior-lease/new-lease comparison.
type TradeOutRecord struct {
	UnitNumber   string  `json:"unit_number" db:"unit_number"`
	PriorRent    float64 `json:"prior_rent" db:"prior_rent"`
	NewRent      float64 `json:"new_rent" db:"new_rent"`
	PctChange    float64 `json:"pct_change" db:"pct_change"`
	DollarChange float64 `json:"dollar_change" db:"dollar_change"`
	IsRenewal    bool    `json:"is_renewal" db:"is_renewal"`
}

type TradeOutSummary struct {
	ID             uuid.UUID        `json:"id" db:"id"`
	PropertyID     string           `json:"property_id" db:"property_id"`
	AsOf           time.Time        `json:"as_of" db:"as_of"`
	Records        []TradeOutRecord `json:"records" db:"-"`
	Count          int              `json:"count" db:"count"`
	Discarded      int              `json:"discarded" db:"discarded"`
	AvgPctChange   float64          `json:"avg_pct_change" db:"avg_pct_change"`
	TotalDollarChange float64       `json:"total_dollar_change" db:"total_dollar_change"`
}

type RiskLevel string

const (
	RiskHigh RiskLevel = "HIGH"
	RiskMed  RiskLevel = "MED"
	RiskLow  RiskLevel = "LOW"
)

// RiskScore is one resident's renewal-risk classification.
type RiskScore struct {
	ID               uuid.UUID `json:"id" db:"id"`
	PropertyID       string    `json:"property_id" db:"property_id"`
	ResidentID       string    `json:"resident_id" db:"resident_id"`
	UnitNumber       string    `json:"unit_number" db:"unit_number"`
	AsOf             time.Time `json:"as_of" db:"as_of"`
	ExpirationPoints int       `json:"expiration_points" db:"expiration_points"`
	TenurePoints     int       `json:"tenure_points" db:"tenure_points"`
	RentRatioPoints  int       `json:"rent_ratio_points" db:"rent_ratio_points"`
	TotalPoints      int       `json:"total_points" db:"total_points"`
	Level            RiskLevel `json:"level" db:"level"`
}
