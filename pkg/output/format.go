// Package output provides utilities for formatting and displaying stock
// summaries and selling plans.
package output

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/iwvelando/stock-planner/internal/planner"
	"github.com/iwvelando/stock-planner/internal/storage"
	"github.com/iwvelando/stock-planner/pkg/format"
)

// NameFunc resolves a product id to its localized display name.
type NameFunc func(productID string) string

// PrettyPlan outputs a human-readable rather than machine-readable plan table.
func PrettyPlan(plan planner.SellingPlan, name NameFunc) {
	p := message.NewPrinter(language.English)
	fmt.Printf("--- Selling plan for target %s ---\n", format.Currency(plan.TargetAmount.InexactFloat64()))
	if len(plan.Allocations) == 0 {
		if plan.TargetMet {
			fmt.Printf("Nothing to sell: target already met.\n")
		} else {
			fmt.Printf("No sellable stock available.\n")
		}
		return
	}

	fmt.Printf("Product              | Volume       | Trips | Revenue\n")
	fmt.Printf("_______              | ______       | _____ | _______\n")
	for _, alloc := range plan.Allocations {
		_, _ = p.Printf("%-20s | %12s | %5d | %s\n",
			name(alloc.ProductID),
			format.Liters(alloc.VolumeSold),
			alloc.TripsUsed,
			format.Currency(alloc.Revenue.InexactFloat64()),
		)
	}
	fmt.Printf("\nTotal: %d trips, %s revenue\n", plan.TotalTrips, format.Currency(plan.TotalRevenue.InexactFloat64()))
	if plan.TargetMet {
		fmt.Printf("Target met.\n")
	} else {
		fmt.Printf("Target NOT reached: stock can earn at most %s of the requested %s.\n",
			format.Currency(plan.TotalRevenue.InexactFloat64()),
			format.Currency(plan.TargetAmount.InexactFloat64()),
		)
	}
}

// CsvPlan outputs a plan in comma-separated value format.
func CsvPlan(plan planner.SellingPlan, name NameFunc) {
	fmt.Printf(`"product","volume (L)","trips","revenue"`)
	fmt.Printf("\n")
	for _, alloc := range plan.Allocations {
		fmt.Printf(`"%s","%.1f","%d","%.2f"`, name(alloc.ProductID), alloc.VolumeSold, alloc.TripsUsed, alloc.Revenue.InexactFloat64())
		fmt.Printf("\n")
	}
	fmt.Printf(`"total","","%d","%.2f"`, plan.TotalTrips, plan.TotalRevenue.InexactFloat64())
	fmt.Printf("\n")
}

// PrettyStock outputs the farm's current stock with per-product market value.
func PrettyStock(farmName string, records []storage.StockRecord, name NameFunc) {
	p := message.NewPrinter(language.English)
	fmt.Printf("--- Stock for %s ---\n", farmName)
	if len(records) == 0 {
		fmt.Printf("No stock recorded.\n")
		return
	}

	fmt.Printf("Product              | Quantity     | Price /1000L | Value        | Planned\n")
	fmt.Printf("_______              | ________     | ____________ | _____        | _______\n")
	totalValue := 0.0
	for _, rec := range records {
		value := planner.RevenueFor(rec.QuantityLiters, decimal.NewFromFloat(rec.MaxPricePerThousand)).InexactFloat64()
		totalValue += value
		planned := "yes"
		if !rec.Enabled {
			planned = "no"
		}
		_, _ = p.Printf("%-20s | %12s | %12s | %12s | %s\n",
			name(rec.ProductID),
			format.Liters(rec.QuantityLiters),
			format.Currency(rec.MaxPricePerThousand),
			format.Currency(value),
			planned,
		)
	}
	fmt.Printf("\nTotal stock value: %s\n", format.Currency(totalValue))
}

// CsvStock outputs the farm's current stock in comma-separated value format.
func CsvStock(records []storage.StockRecord, name NameFunc) {
	fmt.Printf(`"product","quantity (L)","price per 1000 L","min keep (L)","capacity per trip (L)","enabled"`)
	fmt.Printf("\n")
	for _, rec := range records {
		fmt.Printf(`"%s","%.1f","%.2f","%.1f","%.1f","%t"`,
			name(rec.ProductID), rec.QuantityLiters, rec.MaxPricePerThousand, rec.MinKeepLiters, rec.CapacityPerTripLiters, rec.Enabled)
		fmt.Printf("\n")
	}
}
