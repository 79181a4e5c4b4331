package output

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iwvelando/stock-planner/internal/planner"
	"github.com/iwvelando/stock-planner/internal/storage"
)

func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() error = %v", err)
	}
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading captured output: %v", err)
	}
	return string(out)
}

func rawName(productID string) string { return productID }

func samplePlan() planner.SellingPlan {
	return planner.SellingPlan{
		Allocations: []planner.TripAllocation{
			{ProductID: "wheat", VolumeSold: 4500, TripsUsed: 2, Revenue: decimal.NewFromInt(900)},
		},
		TotalTrips:   2,
		TotalRevenue: decimal.NewFromInt(900),
		TargetAmount: decimal.NewFromInt(900),
		TargetMet:    true,
	}
}

func TestPrettyPlan(t *testing.T) {
	out := captureOutput(t, func() {
		PrettyPlan(samplePlan(), rawName)
	})

	for _, want := range []string{
		"Selling plan for target €900.00",
		"wheat",
		"4,500 L",
		"€900.00",
		"Total: 2 trips",
		"Target met.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PrettyPlan output missing %q:\n%s", want, out)
		}
	}
}

func TestPrettyPlanTargetNotReached(t *testing.T) {
	plan := samplePlan()
	plan.TargetAmount = decimal.NewFromInt(5000)
	plan.TargetMet = false

	out := captureOutput(t, func() {
		PrettyPlan(plan, rawName)
	})

	if !strings.Contains(out, "Target NOT reached") {
		t.Errorf("expected shortfall notice, got:\n%s", out)
	}
	if !strings.Contains(out, "€5,000.00") {
		t.Errorf("expected requested amount in the notice, got:\n%s", out)
	}
}

func TestPrettyPlanEmpty(t *testing.T) {
	out := captureOutput(t, func() {
		PrettyPlan(planner.SellingPlan{
			TargetAmount: decimal.Zero,
			TotalRevenue: decimal.Zero,
			TargetMet:    true,
		}, rawName)
	})
	if !strings.Contains(out, "Nothing to sell") {
		t.Errorf("expected empty-plan notice, got:\n%s", out)
	}

	out = captureOutput(t, func() {
		PrettyPlan(planner.SellingPlan{
			TargetAmount: decimal.NewFromInt(100),
			TotalRevenue: decimal.Zero,
			TargetMet:    false,
		}, rawName)
	})
	if !strings.Contains(out, "No sellable stock") {
		t.Errorf("expected no-stock notice, got:\n%s", out)
	}
}

func TestCsvPlan(t *testing.T) {
	out := captureOutput(t, func() {
		CsvPlan(samplePlan(), rawName)
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header, one line, and totals; got %d lines:\n%s", len(lines), out)
	}
	if lines[0] != `"product","volume (L)","trips","revenue"` {
		t.Errorf("unexpected header: %s", lines[0])
	}
	if lines[1] != `"wheat","4500.0","2","900.00"` {
		t.Errorf("unexpected plan line: %s", lines[1])
	}
	if lines[2] != `"total","","2","900.00"` {
		t.Errorf("unexpected totals line: %s", lines[2])
	}
}

func TestPrettyStock(t *testing.T) {
	records := []storage.StockRecord{
		{ProductID: "wheat", QuantityLiters: 5000, MaxPricePerThousand: 200, CapacityPerTripLiters: 3000, Enabled: true},
		{ProductID: "water", QuantityLiters: 1000, MaxPricePerThousand: 30, CapacityPerTripLiters: 5000, Enabled: false},
	}

	out := captureOutput(t, func() {
		PrettyStock("My farm", records, rawName)
	})

	for _, want := range []string{
		"Stock for My farm",
		"wheat",
		"5,000 L",
		"€1,000.00", // 5000 L at 200 per 1000 L
		"yes",
		"no",
		"Total stock value: €1,030.00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PrettyStock output missing %q:\n%s", want, out)
		}
	}
}

func TestPrettyStockEmpty(t *testing.T) {
	out := captureOutput(t, func() {
		PrettyStock("My farm", nil, rawName)
	})
	if !strings.Contains(out, "No stock recorded.") {
		t.Errorf("expected empty-stock notice, got:\n%s", out)
	}
}

func TestCsvStock(t *testing.T) {
	records := []storage.StockRecord{
		{ProductID: "wheat", QuantityLiters: 5000, MaxPricePerThousand: 858, CapacityPerTripLiters: 3000, MinKeepLiters: 500, Enabled: true},
	}

	out := captureOutput(t, func() {
		CsvStock(records, rawName)
	})

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header and one line, got %d:\n%s", len(lines), out)
	}
	if lines[1] != `"wheat","5000.0","858.00","500.0","3000.0","true"` {
		t.Errorf("unexpected stock line: %s", lines[1])
	}
}
