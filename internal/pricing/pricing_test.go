package pricing_test

import (
	"math"
	"testing"

	"greengrocer/internal/pricing"
)

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestUnitPrice_DoublesAtThreshold(t *testing.T) {
	// plenty of stock: base price
	if got := pricing.UnitPrice(25, 120, 20); got != 25 {
		t.Fatalf("want 25, got %v", got)
	}
	// at the threshold the doubled price kicks in
	if got := pricing.UnitPrice(25, 20, 20); got != 50 {
		t.Fatalf("want 50 at threshold, got %v", got)
	}
	if got := pricing.UnitPrice(25, 4, 5); got != 50 {
		t.Fatalf("want 50 below threshold, got %v", got)
	}
	// just above threshold stays at base
	if got := pricing.UnitPrice(25, 20.01, 20); got != 25 {
		t.Fatalf("want 25 just above threshold, got %v", got)
	}
}

func TestSplitQuantities(t *testing.T) {
	// 22 in stock, threshold 20: 2 kg at base, the rest doubled
	normal, doubled := pricing.SplitQuantities(22, 20, 5)
	if !almost(normal, 2) || !almost(doubled, 3) {
		t.Fatalf("want 2/3, got %v/%v", normal, doubled)
	}

	// below threshold: everything doubled
	normal, doubled = pricing.SplitQuantities(4, 5, 2)
	if !almost(normal, 0) || !almost(doubled, 2) {
		t.Fatalf("want 0/2, got %v/%v", normal, doubled)
	}

	// entire purchase above threshold: nothing doubled
	normal, doubled = pricing.SplitQuantities(100, 20, 5)
	if !almost(normal, 5) || !almost(doubled, 0) {
		t.Fatalf("want 5/0, got %v/%v", normal, doubled)
	}
}

func TestSplitTotal(t *testing.T) {
	// 2 kg at 25 + 3 kg at 50
	if got := pricing.SplitTotal(25, 22, 20, 5); !almost(got, 200) {
		t.Fatalf("want 200, got %v", got)
	}
	// 2 kg entirely at the doubled price
	if got := pricing.SplitTotal(25, 4, 5, 2); !almost(got, 100) {
		t.Fatalf("want 100, got %v", got)
	}
}
