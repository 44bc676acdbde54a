package services

import (
	"greengrocer/internal/domain"
	"greengrocer/internal/repos"
	"greengrocer/internal/validate"

	"github.com/google/uuid"
)

type CatalogService struct {
	Prods *repos.ProductRepo
}

func NewCatalogService(prods *repos.ProductRepo) *CatalogService {
	return &CatalogService{Prods: prods}
}

// ProductView decorates a product with its live effective price for the
// storefront.
type ProductView struct {
	domain.Product
	EffectivePrice float64
	Doubled        bool
	Available      bool
}

func view(p domain.Product) ProductView {
	return ProductView{
		Product:        p,
		EffectivePrice: p.EffectiveUnitPrice(),
		Doubled:        p.ThresholdActive(),
		Available:      p.Available(),
	}
}

// List returns the storefront catalog, optionally narrowed by category
// and a name prefix.
func (s *CatalogService) List(category, nameFilter string) ([]ProductView, error) {
	prods, err := s.Prods.ListActive(category, nameFilter)
	if err != nil {
		return nil, err
	}
	out := make([]ProductView, 0, len(prods))
	for _, p := range prods {
		out = append(out, view(p))
	}
	return out, nil
}

func (s *CatalogService) Get(id string) (ProductView, error) {
	p, err := s.Prods.Get(id)
	if err != nil {
		return ProductView{}, err
	}
	return view(p), nil
}

func (s *CatalogService) ListAll() ([]domain.Product, error) {
	return s.Prods.ListAll()
}

// Create adds a product to the catalog after owner-side validation.
func (s *CatalogService) Create(name, category string, basePrice, stock, threshold float64, imageRef string) (domain.Product, error) {
	name, ok := validate.ProductName(name)
	if !ok {
		return domain.Product{}, domain.ErrBadProductName
	}
	category, ok = validate.Category(category)
	if !ok {
		return domain.Product{}, domain.ErrBadCategory
	}
	if basePrice <= 0 || basePrice > validate.MaxPrice {
		return domain.Product{}, domain.ErrBadPrice
	}
	if stock < 0 {
		return domain.Product{}, domain.ErrAmountNotPositive
	}
	if threshold <= 0 || threshold > validate.MaxThresholdKg {
		return domain.Product{}, domain.ErrBadThreshold
	}

	p := domain.Product{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  category,
		BasePrice: basePrice,
		Stock:     stock,
		Threshold: threshold,
		ImageRef:  imageRef,
		Active:    true,
	}
	if err := s.Prods.Create(p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

func (s *CatalogService) UpdatePrice(id string, price float64) error {
	if price <= 0 || price > validate.MaxPrice {
		return domain.ErrBadPrice
	}
	return s.Prods.UpdatePrice(id, price)
}

// Deactivate hides a product from the storefront; past orders keep
// their snapshots.
func (s *CatalogService) Deactivate(id string) error {
	return s.Prods.Deactivate(id)
}
