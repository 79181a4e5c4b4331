// Package validation provides common validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/stock-planner/internal/storage"
	"github.com/iwvelando/stock-planner/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %s",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// ValidateStockRecord returns warnings for stock data the planner will
// exclude or clamp, so the player learns why a product is missing from the
// plan.
func ValidateStockRecord(rec storage.StockRecord) []string {
	var warnings []string

	if rec.QuantityLiters < 0 {
		warnings = append(warnings, fmt.Sprintf("Product '%s' has a negative quantity (%.1f L) and will be ignored",
			rec.ProductID, rec.QuantityLiters))
	}
	if rec.MaxPricePerThousand < 0 {
		warnings = append(warnings, fmt.Sprintf("Product '%s' has a negative price and will be ignored", rec.ProductID))
	}
	if rec.CapacityPerTripLiters <= 0 {
		warnings = append(warnings, fmt.Sprintf("Product '%s' has no per-trip capacity and cannot be planned for sale", rec.ProductID))
	}
	if rec.MinKeepLiters > rec.QuantityLiters {
		warnings = append(warnings, fmt.Sprintf("Product '%s' reserves more stock (%.1f L) than it holds (%.1f L) - nothing is sellable",
			rec.ProductID, rec.MinKeepLiters, rec.QuantityLiters))
	}

	return warnings
}

// ValidateStock applies ValidateStockRecord across a farm's stock.
func ValidateStock(records []storage.StockRecord) []string {
	var warnings []string
	for _, rec := range records {
		warnings = append(warnings, ValidateStockRecord(rec)...)
	}
	return warnings
}
