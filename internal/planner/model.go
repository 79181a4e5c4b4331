// Package planner defines the data structures for commodity selling plans and
// implements the sales-objective optimizer that computes them.
package planner

import (
	"github.com/shopspring/decimal"

	"github.com/iwvelando/stock-planner/pkg/constants"
	"github.com/iwvelando/stock-planner/pkg/mathutil"
)

// StockEntry describes one sellable commodity held by a farm. Prices are
// quoted per 1000 liters; volumes are liters and may be fractional.
type StockEntry struct {
	ProductID        string
	Quantity         float64
	PricePerThousand decimal.Decimal
	CapacityPerTrip  float64
	MinStockToKeep   float64
	Enabled          bool
}

// SellableVolume returns the liters available for sale after reserving the
// minimum stock to keep. A reserve larger than the held quantity clamps to
// zero rather than going negative.
func (e StockEntry) SellableVolume() float64 {
	return mathutil.ClampNonNegative(e.Quantity - e.MinStockToKeep)
}

// RevenueCap returns the maximum revenue this entry can ever contribute.
func (e StockEntry) RevenueCap() decimal.Decimal {
	return RevenueFor(e.SellableVolume(), e.PricePerThousand)
}

// PerTripRevenue returns the revenue obtainable from one fully loaded trip,
// capped by what is actually sellable. This is the selling-priority ranking
// value: entries whose whole stock fits in a single trip are scored by that
// smaller load, not by an unreachable full trailer.
func (e StockEntry) PerTripRevenue() decimal.Decimal {
	return RevenueFor(mathutil.Min(e.CapacityPerTrip, e.SellableVolume()), e.PricePerThousand)
}

// sellable reports whether the entry can participate in optimization. Entries
// the player disabled, entries no trip can carry, malformed entries (negative
// quantity or price), and entries with nothing above their reserve are all
// excluded here rather than reported as errors.
func (e StockEntry) sellable() bool {
	return e.Enabled &&
		e.CapacityPerTrip > 0 &&
		e.Quantity >= 0 &&
		e.PricePerThousand.IsPositive() &&
		e.SellableVolume() > constants.VolumeTolerance
}

// TripAllocation is one line of a selling plan: how much of a product to
// deliver and what that earns.
type TripAllocation struct {
	ProductID  string
	VolumeSold float64
	TripsUsed  int
	Revenue    decimal.Decimal
}

// SellingPlan is the result of one optimization call. Allocations are in
// selling-priority order (highest revenue per trip first).
type SellingPlan struct {
	Allocations  []TripAllocation
	TotalTrips   int
	TotalRevenue decimal.Decimal
	TargetAmount decimal.Decimal
	TargetMet    bool
}

// RevenueFor converts a volume at a per-1000-liter price into money.
func RevenueFor(volume float64, pricePerThousand decimal.Decimal) decimal.Decimal {
	return decimal.NewFromFloat(volume).
		Mul(pricePerThousand).
		Div(decimal.NewFromFloat(constants.LitersPerPriceUnit))
}

// VolumeFor converts a revenue amount back into the liters that must be sold
// at a per-1000-liter price to earn it.
func VolumeFor(revenue, pricePerThousand decimal.Decimal) float64 {
	if !pricePerThousand.IsPositive() {
		return 0
	}
	volume, _ := revenue.
		Mul(decimal.NewFromFloat(constants.LitersPerPriceUnit)).
		Div(pricePerThousand).
		Float64()
	return mathutil.ClampNonNegative(volume)
}
