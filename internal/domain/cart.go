package domain

import (
	"sort"
	"strings"
	"unicode"
)

const (
	// VATRate is fixed at 18%.
	VATRate = 0.18
	// MinimumOrderValue is the smallest total a cart may check out with.
	MinimumOrderValue = 50.0
	// MaxLineAmountKg is the sanity ceiling for a single line item.
	MaxLineAmountKg = 1000.0
	// MaxTotalDiscountPct caps coupon + loyalty stacking.
	MaxTotalDiscountPct = 50.0
)

// CartLine is a single product entry in a cart. The product reference is
// not owned: its stock and threshold reflect whatever the caller loaded,
// and totals are repriced from them on every computation.
type CartLine struct {
	Product  *Product
	AmountKg float64
}

// LineTotal reprices the line at the product's current effective price.
func (l *CartLine) LineTotal() float64 {
	return l.AmountKg * l.Product.EffectiveUnitPrice()
}

// Cart accumulates line items for one customer session. At most one line
// exists per product: adding the same product again merges amounts.
// At most one coupon is active at a time; the loyalty discount stacks
// additively with it under a combined 50% cap.
type Cart struct {
	CustomerID string

	lines      map[string]*CartLine
	couponCode string
	couponPct  float64
	loyaltyPct float64
}

func NewCart(customerID string) *Cart {
	return &Cart{CustomerID: customerID, lines: make(map[string]*CartLine)}
}

// AddItem merges amount into an existing line or creates a new one.
// The merged total is re-validated against stock; a failed merge leaves
// the previous amount untouched.
func (c *Cart) AddItem(p *Product, amount float64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	if err := validateStock(amount, p.Stock); err != nil {
		return err
	}
	if line, ok := c.lines[p.ID]; ok {
		merged := line.AmountKg + amount
		if err := validateAmount(merged); err != nil {
			return err
		}
		if err := validateStock(merged, p.Stock); err != nil {
			return err
		}
		line.AmountKg = merged
		line.Product = p
		return nil
	}
	c.lines[p.ID] = &CartLine{Product: p, AmountKg: amount}
	return nil
}

// RestoreItem rebuilds a persisted line without re-validating against
// stock: a line added while stock was ample must survive a later stock
// drop so the customer can still see and adjust it. Checkout re-checks.
func (c *Cart) RestoreItem(p *Product, amount float64) {
	c.lines[p.ID] = &CartLine{Product: p, AmountKg: amount}
}

// RestoreCoupon rebuilds a persisted coupon without the single-coupon
// check.
func (c *Cart) RestoreCoupon(code string, pct float64) {
	c.couponCode = code
	c.couponPct = pct
}

// RemoveItem drops the line for productID.
func (c *Cart) RemoveItem(productID string) error {
	if _, ok := c.lines[productID]; !ok {
		return ErrNotInCart
	}
	delete(c.lines, productID)
	return nil
}

// UpdateItemAmount replaces the amount of an existing line.
func (c *Cart) UpdateItemAmount(productID string, amount float64) error {
	line, ok := c.lines[productID]
	if !ok {
		return ErrNotInCart
	}
	if err := validateAmount(amount); err != nil {
		return err
	}
	if err := validateStock(amount, line.Product.Stock); err != nil {
		return err
	}
	line.AmountKg = amount
	return nil
}

// Clear empties the cart and drops any applied coupon.
func (c *Cart) Clear() {
	c.lines = make(map[string]*CartLine)
	c.couponCode = ""
	c.couponPct = 0
}

// ApplyCoupon attaches a single coupon. A second coupon is rejected until
// the first is removed; loyalty stacking happens at discount time.
func (c *Cart) ApplyCoupon(code string, pct float64) error {
	code = strings.TrimSpace(code)
	if len(code) < 4 || len(code) > 20 || strings.ContainsFunc(code, unicode.IsSpace) {
		return ErrBadCouponCode
	}
	if pct < 0 || pct > 100 {
		return ErrBadDiscountPct
	}
	if c.couponCode != "" {
		return ErrCouponApplied
	}
	c.couponCode = code
	c.couponPct = pct
	return nil
}

// RemoveCoupon clears the applied coupon, if any.
func (c *Cart) RemoveCoupon() {
	c.couponCode = ""
	c.couponPct = 0
}

// SetLoyaltyDiscount sets the per-customer loyalty percentage.
func (c *Cart) SetLoyaltyDiscount(pct float64) error {
	if pct < 0 || pct > 100 {
		return ErrBadDiscountPct
	}
	c.loyaltyPct = pct
	return nil
}

// Subtotal reprices every line at the current stock/threshold.
func (c *Cart) Subtotal() float64 {
	sum := 0.0
	for _, line := range c.lines {
		sum += line.LineTotal()
	}
	return sum
}

// VAT is charged on the subtotal at the fixed rate.
func (c *Cart) VAT() float64 {
	return c.Subtotal() * VATRate
}

// TotalDiscount applies coupon + loyalty (capped at 50%) to the pre-VAT
// subtotal.
func (c *Cart) TotalDiscount() float64 {
	pct := c.couponPct + c.loyaltyPct
	if pct > MaxTotalDiscountPct {
		pct = MaxTotalDiscountPct
	}
	return c.Subtotal() * pct / 100.0
}

// Total is subtotal + VAT - discount. The discount base is the subtotal,
// never the VAT-inclusive amount.
func (c *Cart) Total() float64 {
	return c.Subtotal() + c.VAT() - c.TotalDiscount()
}

// MeetsMinimumValue reports whether the cart may check out.
func (c *Cart) MeetsMinimumValue() bool {
	return c.Total() >= MinimumOrderValue
}

func (c *Cart) IsEmpty() bool       { return len(c.lines) == 0 }
func (c *Cart) ItemCount() int      { return len(c.lines) }
func (c *Cart) CouponCode() string  { return c.couponCode }
func (c *Cart) CouponPct() float64  { return c.couponPct }
func (c *Cart) LoyaltyPct() float64 { return c.loyaltyPct }

// Line returns the line for productID, if present.
func (c *Cart) Line(productID string) (*CartLine, bool) {
	l, ok := c.lines[productID]
	return l, ok
}

// Lines returns the cart contents ordered by product name for stable
// rendering.
func (c *Cart) Lines() []*CartLine {
	out := make([]*CartLine, 0, len(c.lines))
	for _, l := range c.lines {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Product.Name < out[j].Product.Name })
	return out
}

func validateAmount(amount float64) error {
	if amount <= 0 {
		return ErrAmountNotPositive
	}
	if amount > MaxLineAmountKg {
		return ErrAmountTooLarge
	}
	return nil
}

func validateStock(requested, available float64) error {
	if available <= 0 {
		return ErrOutOfStock
	}
	if requested > available {
		return ErrInsufficientStock
	}
	return nil
}
