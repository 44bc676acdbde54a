package domain

import (
	"math"
	"sort"
)

// AlertLevel classifies a product's stock against its threshold.
type AlertLevel string

const (
	AlertCritical AlertLevel = "CRITICAL" // stock == 0
	AlertVeryLow  AlertLevel = "VERY_LOW" // stock <= threshold
	AlertLow      AlertLevel = "LOW"      // stock <= threshold * 1.5
	AlertNormal   AlertLevel = "NORMAL"
)

// severity orders alerts for sorting, worst first.
func (l AlertLevel) severity() int {
	switch l {
	case AlertCritical:
		return 0
	case AlertVeryLow:
		return 1
	case AlertLow:
		return 2
	}
	return 3
}

// StockAlert is derived on demand from current stock; it is never stored.
type StockAlert struct {
	Product *Product
	Level   AlertLevel
}

// ReduceStock subtracts a purchase amount. The amount must be positive
// and covered by current stock; failures leave stock untouched.
func ReduceStock(p *Product, amount float64) (StockAlert, error) {
	if err := validateAmount(amount); err != nil {
		return StockAlert{}, err
	}
	if err := validateStock(amount, p.Stock); err != nil {
		return StockAlert{}, err
	}
	p.Stock -= amount
	return CheckStockLevel(p), nil
}

// AddStock restocks a product. No upper bound applies.
func AddStock(p *Product, amount float64) error {
	if err := validateAmount(amount); err != nil {
		return err
	}
	p.Stock += amount
	return nil
}

// UpdateThreshold changes the restock threshold within the owner bounds.
func UpdateThreshold(p *Product, threshold float64) error {
	if threshold <= 0 || threshold > 10000 {
		return ErrBadThreshold
	}
	p.Threshold = threshold
	return nil
}

// CheckStockLevel classifies current stock. Zero stock is reported as
// CRITICAL even though it also satisfies the VERY_LOW comparison, so the
// check order matters.
func CheckStockLevel(p *Product) StockAlert {
	level := AlertNormal
	switch {
	case p.Stock == 0:
		level = AlertCritical
	case p.Stock <= p.Threshold:
		level = AlertVeryLow
	case p.Stock <= p.Threshold*1.5:
		level = AlertLow
	}
	return StockAlert{Product: p, Level: level}
}

// SortAlerts orders alerts worst first, then by product name.
func SortAlerts(alerts []StockAlert) {
	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].Level != alerts[j].Level {
			return alerts[i].Level.severity() < alerts[j].Level.severity()
		}
		return alerts[i].Product.Name < alerts[j].Product.Name
	})
}

// SuggestedRestock proposes an order quantity: three thresholds' worth,
// never less than 50 kg, rounded to two decimals.
func SuggestedRestock(p *Product) float64 {
	suggested := math.Max(p.Threshold*3, 50)
	return math.Round(suggested*100) / 100
}
