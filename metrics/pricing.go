package metrics

import (
	"sort"
	"time"

	"pms_metrics/models"
)

// ComputePricing derives per-floorplan in-place vs asking rent and the
// growth between them. In-place averages current residents' contractual
// rent; asking averages vacant units' market rent. Property totals are
// weighted by unit count per floorplan — a 2-unit floorplan must not weigh
// the same as a 200-unit one.
func ComputePricing(snap *models.PropertySnapshot, asOf time.Time) models.PricingMetrics {
	type fpAccum struct {
		name        string
		unitCount   int
		sqftSum     float64
		inPlaceSum  float64
		inPlaceN    int
		askingSum   float64
		askingN     int
	}

	unitFloorplans := make(map[string]string)
	accums := make(map[string]*fpAccum)

	for _, u := range snap.Units {
		fp := accums[u.FloorplanCode]
		if fp == nil {
			fp = &fpAccum{name: u.FloorplanName}
			accums[u.FloorplanCode] = fp
		}
		fp.unitCount++
		fp.sqftSum += u.SqFt
		unitFloorplans[u.UnitNumber] = u.FloorplanCode
		if u.Status == models.UnitStatusVacant {
			fp.askingSum += u.MarketRent
			fp.askingN++
		}
	}

	for _, r := range snap.Residents {
		if r.Status != models.ResidentStatusCurrent {
			continue
		}
		code, ok := unitFloorplans[r.UnitNumber]
		if !ok {
			continue
		}
		fp := accums[code]
		fp.inPlaceSum += r.Rent
		fp.inPlaceN++
	}

	m := models.PricingMetrics{
		PropertyID: snap.Property.PropertyID,
		AsOf:       asOf,
	}

	codes := make([]string, 0, len(accums))
	for code := range accums {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var weightedInPlace, weightedAsking float64
	var inPlaceWeight, askingWeight int

	for _, code := range codes {
		fp := accums[code]
		row := models.FloorplanPricing{
			FloorplanCode: code,
			FloorplanName: fp.name,
			UnitCount:     fp.unitCount,
		}
		if fp.unitCount > 0 {
			row.AvgSqFt = fp.sqftSum / float64(fp.unitCount)
		}
		if fp.inPlaceN > 0 {
			row.InPlaceRent = fp.inPlaceSum / float64(fp.inPlaceN)
			weightedInPlace += row.InPlaceRent * float64(fp.unitCount)
			inPlaceWeight += fp.unitCount
		}
		if fp.askingN > 0 {
			row.AskingRent = fp.askingSum / float64(fp.askingN)
			weightedAsking += row.AskingRent * float64(fp.unitCount)
			askingWeight += fp.unitCount
		}
		if row.InPlaceRent > 0 && row.AskingRent > 0 {
			row.RentGrowth = row.AskingRent/row.InPlaceRent - 1
		}
		if row.AvgSqFt > 0 {
			row.InPlaceRentPSF = row.InPlaceRent / row.AvgSqFt
			row.AskingRentPSF = row.AskingRent / row.AvgSqFt
		}
		m.Floorplans = append(m.Floorplans, row)
	}

	if inPlaceWeight > 0 {
		m.InPlaceRent = weightedInPlace / float64(inPlaceWeight)
	}
	if askingWeight > 0 {
		m.AskingRent = weightedAsking / float64(askingWeight)
	}
	if m.InPlaceRent > 0 && m.AskingRent > 0 {
		m.RentGrowth = m.AskingRent/m.InPlaceRent - 1
	}
	return m
}
