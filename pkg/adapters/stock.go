// Package adapters converts between the persisted storage records and the
// planner's value types, keeping decimal money handling inside the planner
// and plain numbers at the storage boundary.
package adapters

import (
	"github.com/shopspring/decimal"

	"github.com/iwvelando/stock-planner/internal/planner"
	"github.com/iwvelando/stock-planner/internal/storage"
)

// StockToPlannerEntries converts persisted stock records into planner entries.
func StockToPlannerEntries(records []storage.StockRecord) []planner.StockEntry {
	entries := make([]planner.StockEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, planner.StockEntry{
			ProductID:        rec.ProductID,
			Quantity:         rec.QuantityLiters,
			PricePerThousand: decimal.NewFromFloat(rec.MaxPricePerThousand),
			CapacityPerTrip:  rec.CapacityPerTripLiters,
			MinStockToKeep:   rec.MinKeepLiters,
			Enabled:          rec.Enabled,
		})
	}
	return entries
}

// PlanToRecord converts a computed selling plan into its persisted form.
func PlanToRecord(plan planner.SellingPlan) *storage.PlanRecord {
	rec := &storage.PlanRecord{
		TargetAmount: plan.TargetAmount.InexactFloat64(),
		TotalRevenue: plan.TotalRevenue.InexactFloat64(),
		TotalTrips:   plan.TotalTrips,
		TargetMet:    plan.TargetMet,
	}
	for _, alloc := range plan.Allocations {
		rec.Lines = append(rec.Lines, storage.PlanLineRecord{
			ProductID:  alloc.ProductID,
			VolumeSold: alloc.VolumeSold,
			TripsUsed:  alloc.TripsUsed,
			Revenue:    alloc.Revenue.InexactFloat64(),
		})
	}
	return rec
}

// RecordToPlan converts a persisted plan back into planner types, e.g. for
// re-rendering the farm's last calculated plan.
func RecordToPlan(rec *storage.PlanRecord) planner.SellingPlan {
	plan := planner.SellingPlan{
		TargetAmount: decimal.NewFromFloat(rec.TargetAmount),
		TotalRevenue: decimal.NewFromFloat(rec.TotalRevenue),
		TotalTrips:   rec.TotalTrips,
		TargetMet:    rec.TargetMet,
	}
	for _, line := range rec.Lines {
		plan.Allocations = append(plan.Allocations, planner.TripAllocation{
			ProductID:  line.ProductID,
			VolumeSold: line.VolumeSold,
			TripsUsed:  line.TripsUsed,
			Revenue:    decimal.NewFromFloat(line.Revenue),
		})
	}
	return plan
}
