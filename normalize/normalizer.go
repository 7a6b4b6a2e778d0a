// Package normalize maps source-shaped PMS records into the canonical
// model. Each source system gets its own Normalizer; all field-name
// knowledge for a source lives in its mapping file and nowhere else.
package normalize

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"pms_metrics/models"
)

// Normalizer converts one source system's raw records into canonical
// entities. Implementations are stateless and safe for concurrent use.
type Normalizer interface {
	Source() models.SourceSystem
	NormalizeProperty(raw models.RawRecord) (*models.UnifiedProperty, error)
	NormalizeUnit(raw models.RawRecord) (*models.UnifiedUnit, error)
	NormalizeResident(raw models.RawRecord) (*models.UnifiedResident, error)
	NormalizeLease(raw models.RawRecord) (*models.UnifiedLease, error)
}

// New returns the Normalizer registered for a source system. Adding a third
// PMS means adding a case here and a mapping file; calculators never change.
func New(source models.SourceSystem) (Normalizer, error) {
	switch source {
	case models.SourceYardi:
		return &yardiNormalizer{}, nil
	case models.SourceRealPage:
		return &realPageNormalizer{}, nil
	default:
		return nil, fmt.Errorf("no normalizer for source: %s", source)
	}
}

// RawSnapshot is everything a wire client fetched for one property.
type RawSnapshot struct {
	Property  models.RawRecord
	Units     []models.RawRecord
	Residents []models.RawRecord
	Leases    []models.RawRecord
}

// Result carries a normalized snapshot plus the records that had to be
// skipped. A skipped record never aborts the batch.
type Result struct {
	Snapshot *models.PropertySnapshot
	Skipped  []error
}

// Snapshot normalizes a full raw snapshot: per-record mapping, then the
// cross-record passes (derived unit status, lease sequencing). Records with
// unmapped statuses are skipped and reported in Result.Skipped.
func Snapshot(n Normalizer, raw *RawSnapshot, syncedAt time.Time) (*Result, error) {
	prop, err := n.NormalizeProperty(raw.Property)
	if err != nil {
		return nil, fmt.Errorf("normalize property: %w", err)
	}
	prop.SyncedAt = syncedAt

	res := &Result{Snapshot: &models.PropertySnapshot{Property: prop}}

	for _, r := range raw.Residents {
		resident, err := n.NormalizeResident(r)
		if err != nil {
			res.Skipped = append(res.Skipped, err)
			continue
		}
		resident.PropertyID = prop.PropertyID
		resident.SyncedAt = syncedAt
		res.Snapshot.Residents = append(res.Snapshot.Residents, *resident)
	}

	for _, r := range raw.Units {
		unit, err := n.NormalizeUnit(r)
		if err != nil {
			res.Skipped = append(res.Skipped, err)
			continue
		}
		unit.PropertyID = prop.PropertyID
		unit.SyncedAt = syncedAt
		deriveUnitStatus(unit, res.Snapshot.Residents, syncedAt)
		res.Snapshot.Units = append(res.Snapshot.Units, *unit)
	}

	for _, r := range raw.Leases {
		lease, err := n.NormalizeLease(r)
		if err != nil {
			res.Skipped = append(res.Skipped, err)
			continue
		}
		lease.PropertyID = prop.PropertyID
		lease.SyncedAt = syncedAt
		res.Snapshot.Leases = append(res.Snapshot.Leases, *lease)
	}
	sequenceLeases(res.Snapshot.Leases)

	return res, nil
}

// deriveUnitStatus applies the canonical status policy: a source-declared
// vacant unit stays vacant unless a current or on-notice resident holds it.
// A future/applicant resident leaves the unit vacant; preleasing is counted
// by the occupancy calculator, not folded into unit status.
func deriveUnitStatus(u *models.UnifiedUnit, residents []models.UnifiedResident, asOf time.Time) {
	if u.Status == models.UnitStatusModel || u.Status == models.UnitStatusDown {
		u.Available = false
		return
	}

	if u.Status == models.UnitStatusVacant {
		for i := range residents {
			r := &residents[i]
			if r.UnitNumber != u.UnitNumber {
				continue
			}
			switch r.Status {
			case models.ResidentStatusCurrent:
				u.Status = models.UnitStatusOccupied
			case models.ResidentStatusNotice:
				u.Status = models.UnitStatusNotice
				if u.OnNoticeDate == nil {
					u.OnNoticeDate = r.NoticeDate
				}
			}
		}
	}

	u.Available = u.Status == models.UnitStatusVacant && u.Ready
	if u.Status != models.UnitStatusVacant {
		u.DaysVacant = 0
	}
}

// sequenceLeases links each lease to the prior lease on the same unit by
// chronological order of lease start.
func sequenceLeases(leases []models.UnifiedLease) {
	byUnit := make(map[string][]int)
	for i := range leases {
		byUnit[leases[i].UnitNumber] = append(byUnit[leases[i].UnitNumber], i)
	}

	for _, idxs := range byUnit {
		sort.SliceStable(idxs, func(a, b int) bool {
			la, lb := leases[idxs[a]], leases[idxs[b]]
			if la.LeaseStart == nil {
				return true
			}
			if lb.LeaseStart == nil {
				return false
			}
			return la.LeaseStart.Before(*lb.LeaseStart)
		})
		for i := 1; i < len(idxs); i++ {
			prior := leases[idxs[i-1]].ID
			leases[idxs[i]].PriorLeaseID = &prior
		}
	}
}

// newID derives a stable UUID from source identity so that re-normalizing
// an unchanged raw snapshot yields byte-identical entities.
func newID(source models.SourceSystem, kind, key string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(string(source)+"/"+kind+"/"+key))
}
