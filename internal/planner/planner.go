package planner

import (
	"errors"
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/iwvelando/stock-planner/pkg/constants"
	"github.com/iwvelando/stock-planner/pkg/mathutil"
)

// ErrInvalidTarget is returned when Optimize is invoked with a negative
// target amount. Callers are expected to validate input before invoking.
var ErrInvalidTarget = errors.New("target amount must not be negative")

var currencyTolerance = decimal.NewFromFloat(constants.CurrencyTolerance)

// productState is the per-product working state for one optimization call.
// Sellable volume decomposes into whole trailer loads plus at most one
// partial final load; all revenue figures derive from that decomposition so
// the trip accounting and the money accounting cannot drift apart.
type productState struct {
	entry        StockEntry
	sellable     float64
	fullTrips    int
	remainder    float64         // liters carried by the final partial trip
	fullValue    decimal.Decimal // revenue from one whole trailer load
	partialValue decimal.Decimal // revenue from the final partial load
	capRevenue   decimal.Decimal // revenue from selling the whole sellable volume
	priority     decimal.Decimal // PerTripRevenue of the entry, for plan ordering
}

func (s *productState) maxTrips() int {
	if s.remainder > 0 {
		return s.fullTrips + 1
	}
	return s.fullTrips
}

// revenueForTrips returns the most revenue obtainable from this product with
// the given number of trips.
func (s *productState) revenueForTrips(trips int) decimal.Decimal {
	if trips <= 0 {
		return decimal.Zero
	}
	if trips >= s.maxTrips() {
		return s.capRevenue
	}
	return s.fullValue.Mul(decimal.NewFromInt(int64(trips)))
}

// tripsForRevenue returns the number of trips spent when this product
// supplies the given revenue.
func (s *productState) tripsForRevenue(revenue decimal.Decimal) int {
	if !revenue.IsPositive() {
		return 0
	}
	trips := int(revenue.Div(s.fullValue).Ceil().IntPart())
	if max := s.maxTrips(); trips > max {
		trips = max
	}
	return trips
}

// volumeForRevenue returns the liters sold when this product supplies the
// given revenue, pinning a full sell-out to the exact sellable volume.
func (s *productState) volumeForRevenue(revenue decimal.Decimal) float64 {
	if revenue.GreaterThanOrEqual(s.capRevenue) {
		return s.sellable
	}
	return mathutil.Min(VolumeFor(revenue, s.entry.PricePerThousand), s.sellable)
}

// Optimize computes the selling plan for the given stock snapshot and target
// revenue: the plan that reaches the target with the fewest delivery trips
// and, among equally trip-optimal plans, sells the least volume (preserving
// the most stock). When the target exceeds what the eligible stock can earn,
// the returned plan sells everything eligible and reports TargetMet false.
//
// The computation is pure: it takes its own copy of the relevant entry data,
// holds no state between calls, and is safe for concurrent callers.
func Optimize(entries []StockEntry, target decimal.Decimal) (SellingPlan, error) {
	if target.IsNegative() {
		return SellingPlan{}, ErrInvalidTarget
	}

	plan := SellingPlan{
		TargetAmount: target,
		TotalRevenue: decimal.Zero,
		TargetMet:    target.IsZero(),
	}
	if target.IsZero() {
		return plan, nil
	}

	states := buildStates(entries)
	if len(states) == 0 {
		return plan, nil
	}

	minTrips, feasible := minTripsNeeded(states, target)
	if !feasible {
		// Best achievable outcome: sell the full sellable volume of every
		// eligible entry. Reported, not an error.
		for _, st := range states {
			appendAllocation(&plan, st, st.capRevenue, st.sellable, st.maxTrips())
		}
	} else {
		allocateWithinBudget(&plan, states, target, minTrips)
	}

	sortAllocations(&plan, states)
	plan.TargetMet = plan.TotalRevenue.GreaterThanOrEqual(target.Sub(currencyTolerance))
	return plan, nil
}

// buildStates filters the snapshot down to eligible entries and precomputes
// their trip decomposition. Zero-price entries are excluded along with
// malformed ones: none of their trips can contribute revenue, so including
// them could only add trips without moving the plan toward its target.
func buildStates(entries []StockEntry) []*productState {
	var states []*productState
	for _, e := range entries {
		if !e.sellable() {
			continue
		}
		sellable := e.SellableVolume()
		fullTrips := int(math.Floor(sellable / e.CapacityPerTrip))
		remainder := mathutil.ClampNonNegative(sellable - float64(fullTrips)*e.CapacityPerTrip)
		if remainder <= constants.VolumeTolerance {
			remainder = 0
		}

		fullValue := RevenueFor(e.CapacityPerTrip, e.PricePerThousand)
		partialValue := RevenueFor(remainder, e.PricePerThousand)
		states = append(states, &productState{
			entry:        e,
			sellable:     sellable,
			fullTrips:    fullTrips,
			remainder:    remainder,
			fullValue:    fullValue,
			partialValue: partialValue,
			capRevenue:   fullValue.Mul(decimal.NewFromInt(int64(fullTrips))).Add(partialValue),
			priority:     e.PerTripRevenue(),
		})
	}
	return states
}

// tripOffer is one batch of identically valued candidate trips: a product's
// whole trailer loads, or its single partial final load.
type tripOffer struct {
	value decimal.Decimal
	count int
	price decimal.Decimal
	id    string
}

// minTripsNeeded returns the smallest number of trips that can earn the
// needed amount from the given products, consuming the highest-revenue trips
// first. Within one product the partial load is only worth taking once its
// whole loads are spent, which the value ordering yields on its own since
// the partial is always worth less than a whole load. Returns false when
// even selling everything falls short.
func minTripsNeeded(states []*productState, need decimal.Decimal) (int, bool) {
	if covered(need) {
		return 0, true
	}

	var offers []tripOffer
	for _, st := range states {
		if st.fullTrips > 0 {
			offers = append(offers, tripOffer{st.fullValue, st.fullTrips, st.entry.PricePerThousand, st.entry.ProductID})
		}
		if st.remainder > 0 {
			offers = append(offers, tripOffer{st.partialValue, 1, st.entry.PricePerThousand, st.entry.ProductID})
		}
	}
	sort.Slice(offers, func(i, j int) bool {
		if c := offers[i].value.Cmp(offers[j].value); c != 0 {
			return c > 0
		}
		if c := offers[i].price.Cmp(offers[j].price); c != 0 {
			return c > 0
		}
		return offers[i].id < offers[j].id
	})

	trips := 0
	for _, offer := range offers {
		batch := offer.value.Mul(decimal.NewFromInt(int64(offer.count)))
		if need.GreaterThan(batch) {
			trips += offer.count
			need = need.Sub(batch)
			if covered(need) {
				return trips, true
			}
			continue
		}
		trips += int(need.Div(offer.value).Ceil().IntPart())
		return trips, true
	}
	return trips, covered(need)
}

// allocateWithinBudget distributes the target revenue across products under
// the minimal trip budget. Products are visited by price descending, since a
// higher price earns the same money from less volume: each product supplies
// the most revenue it can without making the remainder unreachable within the
// remaining trips, and the final trip is trimmed to exactly the outstanding
// need rather than a whole load.
func allocateWithinBudget(plan *SellingPlan, states []*productState, target decimal.Decimal, budget int) {
	order := make([]*productState, len(states))
	copy(order, states)
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if c := a.entry.PricePerThousand.Cmp(b.entry.PricePerThousand); c != 0 {
			return c > 0
		}
		if c := a.priority.Cmp(b.priority); c != 0 {
			return c > 0
		}
		return a.entry.ProductID < b.entry.ProductID
	})

	remainingNeed := target
	remainingTrips := budget
	for i, st := range order {
		if covered(remainingNeed) {
			break
		}
		rest := order[i+1:]

		maxTrips := st.maxTrips()
		if maxTrips > remainingTrips {
			maxTrips = remainingTrips
		}
		for trips := maxTrips; trips >= 0; trips-- {
			contribution := st.revenueForTrips(trips)
			if contribution.GreaterThan(remainingNeed) {
				contribution = remainingNeed
			}
			needAfter := remainingNeed.Sub(contribution)
			if !covered(needAfter) {
				restTrips, ok := minTripsNeeded(rest, needAfter)
				if !ok || restTrips > remainingTrips-trips {
					continue
				}
			}
			if contribution.IsPositive() {
				spent := st.tripsForRevenue(contribution)
				appendAllocation(plan, st, contribution, st.volumeForRevenue(contribution), spent)
				remainingTrips -= spent
				remainingNeed = needAfter
			}
			break
		}
	}
}

func appendAllocation(plan *SellingPlan, st *productState, revenue decimal.Decimal, volume float64, trips int) {
	if tripped := mathutil.CeilDiv(volume, st.entry.CapacityPerTrip); tripped != trips {
		// The trip count invariant is defined on the sold volume.
		trips = tripped
	}
	plan.Allocations = append(plan.Allocations, TripAllocation{
		ProductID:  st.entry.ProductID,
		VolumeSold: volume,
		TripsUsed:  trips,
		Revenue:    revenue,
	})
	plan.TotalTrips += trips
	plan.TotalRevenue = plan.TotalRevenue.Add(revenue)
}

// sortAllocations orders plan lines by selling priority: highest revenue per
// trip first, then higher price, then product id for determinism.
func sortAllocations(plan *SellingPlan, states []*productState) {
	byID := make(map[string]*productState, len(states))
	for _, st := range states {
		byID[st.entry.ProductID] = st
	}
	sort.SliceStable(plan.Allocations, func(i, j int) bool {
		a, b := byID[plan.Allocations[i].ProductID], byID[plan.Allocations[j].ProductID]
		if c := a.priority.Cmp(b.priority); c != 0 {
			return c > 0
		}
		if c := a.entry.PricePerThousand.Cmp(b.entry.PricePerThousand); c != 0 {
			return c > 0
		}
		return a.entry.ProductID < b.entry.ProductID
	})
}

func covered(need decimal.Decimal) bool {
	return need.LessThanOrEqual(currencyTolerance)
}
