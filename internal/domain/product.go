package domain

import "greengrocer/internal/pricing"

// Product is a produce item sold by the kilogram. Stock and threshold
// drive the dynamic pricing rule: once stock falls to or below the
// threshold the unit price doubles.
type Product struct {
	ID        string  `db:"id"`
	Name      string  `db:"name"`
	Category  string  `db:"category"` // vegetable | fruit
	BasePrice float64 `db:"base_price"`
	Stock     float64 `db:"stock"`
	Threshold float64 `db:"threshold"`
	ImageRef  string  `db:"image_ref"`
	Active    bool    `db:"active"`
	CreatedAt string  `db:"created_at"`
	UpdatedAt string  `db:"updated_at"`
}

// EffectiveUnitPrice is the per-kg price charged at this moment.
func (p *Product) EffectiveUnitPrice() float64 {
	return pricing.UnitPrice(p.BasePrice, p.Stock, p.Threshold)
}

// Available reports whether any stock remains.
func (p *Product) Available() bool {
	return p.Stock > 0
}

// ThresholdActive reports whether the doubled price is in effect.
// stock == threshold counts as at-or-below.
func (p *Product) ThresholdActive() bool {
	return p.Stock <= p.Threshold
}
