// Package pricing implements the threshold pricing rule: a product's unit
// price doubles once its stock falls to or below its restock threshold.
// Prices are always computed fresh from current stock, never cached.
package pricing

// UnitPrice returns the per-kg price charged right now.
// stock == threshold counts as at-or-below, so the doubled price applies.
func UnitPrice(basePrice, stock, threshold float64) float64 {
	if stock <= threshold {
		return basePrice * 2
	}
	return basePrice
}

// SplitQuantities divides a requested quantity into the portion priced
// normally (what can be taken while stock stays above the threshold) and
// the portion priced at double.
func SplitQuantities(stock, threshold, qty float64) (normal, doubled float64) {
	if stock > threshold {
		normal = stock - threshold
		if qty < normal {
			normal = qty
		}
		if normal < 0 {
			normal = 0
		}
	}
	return normal, qty - normal
}

// SplitTotal prices a requested quantity that may cross the threshold
// boundary. qty > 0 is the caller's responsibility.
func SplitTotal(basePrice, stock, threshold, qty float64) float64 {
	normal, doubled := SplitQuantities(stock, threshold, qty)
	return normal*basePrice + doubled*basePrice*2
}
