package domain_test

import (
	"errors"
	"math"
	"testing"

	"greengrocer/internal/domain"
)

func produce(id string, price, stock, threshold float64) *domain.Product {
	return &domain.Product{
		ID: id, Name: id, Category: "vegetable",
		BasePrice: price, Stock: stock, Threshold: threshold, Active: true,
	}
}

func almost(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestCart_AddMerges(t *testing.T) {
	c := domain.NewCart("u-1")
	p := produce("tomato", 25, 120, 20)

	if err := c.AddItem(p, 1.25); err != nil {
		t.Fatal(err)
	}
	if err := c.AddItem(p, 0.75); err != nil {
		t.Fatal(err)
	}

	line, ok := c.Line("tomato")
	if !ok || !almost(line.AmountKg, 2.0) {
		t.Fatalf("want one merged line of 2.0 kg, got %+v", line)
	}
	if c.ItemCount() != 1 {
		t.Fatalf("want 1 line, got %d", c.ItemCount())
	}
}

func TestCart_AddValidation(t *testing.T) {
	c := domain.NewCart("u-1")
	p := produce("tomato", 25, 10, 5)

	if err := c.AddItem(p, 0); !errors.Is(err, domain.ErrAmountNotPositive) {
		t.Fatalf("want ErrAmountNotPositive, got %v", err)
	}
	if err := c.AddItem(p, -2); !errors.Is(err, domain.ErrAmountNotPositive) {
		t.Fatalf("want ErrAmountNotPositive, got %v", err)
	}
	if err := c.AddItem(p, 1001); !errors.Is(err, domain.ErrAmountTooLarge) {
		t.Fatalf("want ErrAmountTooLarge, got %v", err)
	}
	if err := c.AddItem(p, 11); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}

	empty := produce("spinach", 32, 0, 10)
	if err := c.AddItem(empty, 1); !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("want ErrOutOfStock, got %v", err)
	}
}

func TestCart_FailedMergeKeepsOldAmount(t *testing.T) {
	c := domain.NewCart("u-1")
	p := produce("tomato", 25, 10, 5)

	if err := c.AddItem(p, 6); err != nil {
		t.Fatal(err)
	}
	// 6 + 6 exceeds stock; the merge must fail and leave 6 in place
	if err := c.AddItem(p, 6); !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("want ErrInsufficientStock, got %v", err)
	}
	line, _ := c.Line("tomato")
	if !almost(line.AmountKg, 6) {
		t.Fatalf("merge failure must not change the line, got %v kg", line.AmountKg)
	}
}

func TestCart_Totals(t *testing.T) {
	c := domain.NewCart("u-1")
	// 4 kg at 25 = 100 subtotal
	if err := c.AddItem(produce("tomato", 25, 120, 20), 4); err != nil {
		t.Fatal(err)
	}
	if err := c.ApplyCoupon("FRESH10", 10); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLoyaltyDiscount(5); err != nil {
		t.Fatal(err)
	}

	if !almost(c.Subtotal(), 100) {
		t.Fatalf("want subtotal 100, got %v", c.Subtotal())
	}
	if !almost(c.VAT(), 18) {
		t.Fatalf("want VAT 18, got %v", c.VAT())
	}
	if !almost(c.TotalDiscount(), 15) {
		t.Fatalf("want discount 15, got %v", c.TotalDiscount())
	}
	if !almost(c.Total(), 103) {
		t.Fatalf("want total 103, got %v", c.Total())
	}
}

func TestCart_DiscountCap(t *testing.T) {
	c := domain.NewCart("u-1")
	if err := c.AddItem(produce("tomato", 25, 120, 20), 4); err != nil {
		t.Fatal(err)
	}
	if err := c.ApplyCoupon("MEGA40", 40); err != nil {
		t.Fatal(err)
	}
	if err := c.SetLoyaltyDiscount(15); err != nil {
		t.Fatal(err)
	}
	// 40 + 15 caps at 50
	if !almost(c.TotalDiscount(), 50) {
		t.Fatalf("want capped discount 50, got %v", c.TotalDiscount())
	}
}

func TestCart_SingleCoupon(t *testing.T) {
	c := domain.NewCart("u-1")

	if err := c.ApplyCoupon("ab", 10); !errors.Is(err, domain.ErrBadCouponCode) {
		t.Fatalf("want ErrBadCouponCode for short code, got %v", err)
	}
	if err := c.ApplyCoupon("HAS SPACE", 10); !errors.Is(err, domain.ErrBadCouponCode) {
		t.Fatalf("want ErrBadCouponCode for whitespace, got %v", err)
	}
	// Any interior whitespace counts, not just spaces and tabs.
	for _, code := range []string{"AB\nCD", "AB\rCD", "AB\vCD", "AB\tCD"} {
		if err := c.ApplyCoupon(code, 10); !errors.Is(err, domain.ErrBadCouponCode) {
			t.Fatalf("want ErrBadCouponCode for %q, got %v", code, err)
		}
	}
	if err := c.ApplyCoupon("FRESH10", 101); !errors.Is(err, domain.ErrBadDiscountPct) {
		t.Fatalf("want ErrBadDiscountPct, got %v", err)
	}

	if err := c.ApplyCoupon("FRESH10", 10); err != nil {
		t.Fatal(err)
	}
	if err := c.ApplyCoupon("HARVEST25", 25); !errors.Is(err, domain.ErrCouponApplied) {
		t.Fatalf("want ErrCouponApplied, got %v", err)
	}

	c.RemoveCoupon()
	if err := c.ApplyCoupon("HARVEST25", 25); err != nil {
		t.Fatal(err)
	}
	if c.CouponCode() != "HARVEST25" {
		t.Fatalf("want HARVEST25, got %s", c.CouponCode())
	}
}

func TestCart_ClearDropsCoupon(t *testing.T) {
	c := domain.NewCart("u-1")
	if err := c.AddItem(produce("tomato", 25, 120, 20), 4); err != nil {
		t.Fatal(err)
	}
	if err := c.ApplyCoupon("FRESH10", 10); err != nil {
		t.Fatal(err)
	}

	c.Clear()
	if !c.IsEmpty() || c.CouponCode() != "" {
		t.Fatalf("clear must drop lines and coupon, got %d lines, coupon %q", c.ItemCount(), c.CouponCode())
	}
}

func TestCart_LiveReprice(t *testing.T) {
	c := domain.NewCart("u-1")
	p := produce("banana", 35, 30, 25)
	if err := c.AddItem(p, 2); err != nil {
		t.Fatal(err)
	}
	if !almost(c.Subtotal(), 70) {
		t.Fatalf("want subtotal 70, got %v", c.Subtotal())
	}

	// stock drops to the threshold: the same line now prices doubled
	p.Stock = 20
	if !almost(c.Subtotal(), 140) {
		t.Fatalf("want repriced subtotal 140, got %v", c.Subtotal())
	}
}

func TestCart_MinimumOrderValue(t *testing.T) {
	c := domain.NewCart("u-1")
	if err := c.AddItem(produce("tomato", 25, 120, 20), 1); err != nil {
		t.Fatal(err)
	}
	// 25 + 4.5 VAT = 29.5, under the 50 minimum
	if c.MeetsMinimumValue() {
		t.Fatalf("total %v must not meet the minimum", c.Total())
	}
	if err := c.UpdateItemAmount("tomato", 2); err != nil {
		t.Fatal(err)
	}
	// 50 + 9 VAT = 59
	if !c.MeetsMinimumValue() {
		t.Fatalf("total %v must meet the minimum", c.Total())
	}
}
