package services

import (
	"sort"

	"greengrocer/internal/domain"
	"greengrocer/internal/repos"
)

// StockService is the owner's inventory console: restocking, threshold
// tuning and alert reporting.
type StockService struct {
	Prods *repos.ProductRepo
}

func NewStockService(prods *repos.ProductRepo) *StockService {
	return &StockService{Prods: prods}
}

// AddStock restocks a product and returns its new alert level.
func (s *StockService) AddStock(productID string, amount float64) (domain.StockAlert, error) {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return domain.StockAlert{}, err
	}
	if err := domain.AddStock(&p, amount); err != nil {
		return domain.StockAlert{}, err
	}
	if err := s.Prods.AddStock(productID, amount); err != nil {
		return domain.StockAlert{}, err
	}
	return domain.CheckStockLevel(&p), nil
}

// ReduceStock removes spoiled or miscounted stock outside the order
// flow. The same validation applies as for a purchase.
func (s *StockService) ReduceStock(productID string, amount float64) (domain.StockAlert, error) {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return domain.StockAlert{}, err
	}
	alert, err := domain.ReduceStock(&p, amount)
	if err != nil {
		return domain.StockAlert{}, err
	}
	if err := s.Prods.DecrementStock(productID, amount); err != nil {
		return domain.StockAlert{}, err
	}
	return alert, nil
}

func (s *StockService) UpdateThreshold(productID string, threshold float64) error {
	p, err := s.Prods.Get(productID)
	if err != nil {
		return err
	}
	if err := domain.UpdateThreshold(&p, threshold); err != nil {
		return err
	}
	return s.Prods.UpdateThreshold(productID, threshold)
}

// Alerts classifies every product, worst level first within each level
// sorted by name. NORMAL products are excluded.
func (s *StockService) Alerts() ([]domain.StockAlert, error) {
	all, err := s.Prods.ListAll()
	if err != nil {
		return nil, err
	}
	var out []domain.StockAlert
	for i := range all {
		alert := domain.CheckStockLevel(&all[i])
		if alert.Level != domain.AlertNormal {
			out = append(out, alert)
		}
	}
	domain.SortAlerts(out)
	return out, nil
}

// OutOfStock returns products with zero stock.
func (s *StockService) OutOfStock() ([]domain.Product, error) {
	return s.filter(func(p *domain.Product) bool { return p.Stock == 0 })
}

// ThresholdActive returns products currently selling at the doubled
// price.
func (s *StockService) ThresholdActive() ([]domain.Product, error) {
	return s.filter(func(p *domain.Product) bool { return p.ThresholdActive() })
}

// LowStock returns products at or below 1.5x their threshold.
func (s *StockService) LowStock() ([]domain.Product, error) {
	return s.filter(func(p *domain.Product) bool {
		return domain.CheckStockLevel(p).Level != domain.AlertNormal
	})
}

func (s *StockService) filter(keep func(*domain.Product) bool) ([]domain.Product, error) {
	all, err := s.Prods.ListAll()
	if err != nil {
		return nil, err
	}
	var out []domain.Product
	for _, p := range all {
		if keep(&p) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// RestockSuggestion pairs a product needing attention with its proposed
// order quantity.
type RestockSuggestion struct {
	Product  domain.Product
	Level    domain.AlertLevel
	AmountKg float64
}

// RestockSuggestions proposes quantities for every non-NORMAL product.
func (s *StockService) RestockSuggestions() ([]RestockSuggestion, error) {
	alerts, err := s.Alerts()
	if err != nil {
		return nil, err
	}
	out := make([]RestockSuggestion, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, RestockSuggestion{
			Product:  *a.Product,
			Level:    a.Level,
			AmountKg: domain.SuggestedRestock(a.Product),
		})
	}
	return out, nil
}
