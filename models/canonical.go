package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceSystem identifies which PMS a record came from
type SourceSystem string

const (
	SourceYardi    SourceSystem = "yardi"
	SourceRealPage SourceSystem = "realpage"
)

type UnitStatus string

const (
	UnitStatusOccupied UnitStatus = "occupied"
	UnitStatusVacant   UnitStatus = "vacant"
	UnitStatusNotice   UnitStatus = "notice"
	UnitStatusModel    UnitStatus = "model"
	UnitStatusDown     UnitStatus = "down"
)

type ResidentStatus string

const (
	ResidentStatusCurrent   ResidentStatus = "current"
	ResidentStatusFuture    ResidentStatus = "future"
	ResidentStatusPast      ResidentStatus = "past"
	ResidentStatusNotice    ResidentStatus = "notice"
	ResidentStatusApplicant ResidentStatus = "applicant"
)

// UnifiedProperty is the canonical property record. It is replaced wholesale
// on each sync for a given (property_id, source) pair, never patched.
type UnifiedProperty struct {
	ID         uuid.UUID    `json:"id" db:"id"`
	PropertyID string       `json:"property_id" db:"property_id"`
	Source     SourceSystem `json:"source" db:"source"`
	Name       string       `json:"name" db:"name"`
	Address    string       `json:"address" db:"address"`
	City       string       `json:"city" db:"city"`
	State      string       `json:"state" db:"state"`
	Zip        string       `json:"zip" db:"zip"`
	TotalUnits int          `json:"total_units" db:"total_units"`
	SyncedAt   time.Time    `json:"synced_at" db:"synced_at"`
}

// UnifiedUnit is the canonical unit record.
// Invariant: Available == (Status == vacant && Ready).
type UnifiedUnit struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	PropertyID     string       `json:"property_id" db:"property_id"`
	Source         SourceSystem `json:"source" db:"source"`
	UnitNumber     string       `json:"unit_number" db:"unit_number"`
	FloorplanCode  string       `json:"floorplan_code" db:"floorplan_code"`
	FloorplanName  string       `json:"floorplan_name" db:"floorplan_name"`
	Bedrooms       int          `json:"bedrooms" db:"bedrooms"`
	Bathrooms      float64      `json:"bathrooms" db:"bathrooms"`
	SqFt           float64      `json:"sqft" db:"sqft"`
	MarketRent     float64      `json:"market_rent" db:"market_rent"`
	Status         UnitStatus   `json:"status" db:"status"`
	Ready          bool         `json:"ready" db:"ready"`
	Available      bool         `json:"available" db:"available"`
	DaysVacant     int          `json:"days_vacant" db:"days_vacant"`
	AvailableDate  *time.Time   `json:"available_date" db:"available_date"`
	OnNoticeDate   *time.Time   `json:"on_notice_date" db:"on_notice_date"`
	SyncedAt       time.Time    `json:"synced_at" db:"synced_at"`
}

// UnifiedResident is the canonical resident record. Future/applicant
// residents represent signed-but-not-occupied leases: they count toward
// leased metrics but never toward occupied metrics.
type UnifiedResident struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	PropertyID  string         `json:"property_id" db:"property_id"`
	Source      SourceSystem   `json:"source" db:"source"`
	ResidentID  string         `json:"resident_id" db:"resident_id"`
	Name        string         `json:"name" db:"name"`
	UnitNumber  string         `json:"unit_number" db:"unit_number"`
	Rent        float64        `json:"rent" db:"rent"`
	Status      ResidentStatus `json:"status" db:"status"`
	LeaseStart  *time.Time     `json:"lease_start" db:"lease_start"`
	LeaseEnd    *time.Time     `json:"lease_end" db:"lease_end"`
	MoveIn      *time.Time     `json:"move_in" db:"move_in"`
	MoveOut     *time.Time     `json:"move_out" db:"move_out"`
	NoticeDate  *time.Time     `json:"notice_date" db:"notice_date"`
	SyncedAt    time.Time      `json:"synced_at" db:"synced_at"`
}

// UnifiedLease is one lease in a unit's chronological lease history.
// PriorLeaseID links to the immediately preceding lease on the same unit;
// trade-out analysis walks that chain.
type UnifiedLease struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	PropertyID   string       `json:"property_id" db:"property_id"`
	Source       SourceSystem `json:"source" db:"source"`
	ResidentID   string       `json:"resident_id" db:"resident_id"`
	UnitNumber   string       `json:"unit_number" db:"unit_number"`
	Rent         float64      `json:"rent" db:"rent"`
	LeaseStart   *time.Time   `json:"lease_start" db:"lease_start"`
	LeaseEnd     *time.Time   `json:"lease_end" db:"lease_end"`
	TermMonths   int          `json:"term_months" db:"term_months"`
	PriorLeaseID *uuid.UUID   `json:"prior_lease_id" db:"prior_lease_id"`
	SyncedAt     time.Time    `json:"synced_at" db:"synced_at"`
}

// PropertySnapshot bundles the canonical entities for one property+source
// as of one sync pass. Calculators only ever see snapshots.
type PropertySnapshot struct {
	Property  *UnifiedProperty
	Units     []UnifiedUnit
	Residents []UnifiedResident
	Leases    []UnifiedLease
}

// RawRecord is a source-shaped field map as delivered by a wire client.
// All knowledge of per-source field naming lives in the normalize package.
type RawRecord map[string]string
