package services

import (
	"greengrocer/internal/domain"
	"greengrocer/internal/pricing"
	"greengrocer/internal/repos"
	"greengrocer/internal/validate"
)

// Loyalty tiers by completed order count.
const (
	loyaltyTier1Orders = 5
	loyaltyTier2Orders = 10
	loyaltyTier3Orders = 20
)

func loyaltyPctFor(completedOrders int) float64 {
	switch {
	case completedOrders >= loyaltyTier3Orders:
		return 15
	case completedOrders >= loyaltyTier2Orders:
		return 10
	case completedOrders >= loyaltyTier1Orders:
		return 5
	}
	return 0
}

type CartService struct {
	Carts   *repos.CartRepo
	Prods   *repos.ProductRepo
	Coupons *repos.CouponRepo
	Orders  *repos.OrderRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo, coupons *repos.CouponRepo, orders *repos.OrderRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods, Coupons: coupons, Orders: orders}
}

// Load hydrates the session's cart from its persisted rows, repricing
// every line at current stock.
func (s *CartService) Load(sessionID, customerID string) (*domain.Cart, string, error) {
	cartID, err := s.Carts.EnsureCart(sessionID, customerID)
	if err != nil {
		return nil, "", err
	}
	meta, err := s.Carts.Meta(cartID)
	if err != nil {
		return nil, "", err
	}
	if customerID == "" {
		customerID = meta.CustomerID
	}

	cart := domain.NewCart(customerID)
	items, err := s.Carts.Items(cartID)
	if err != nil {
		return nil, "", err
	}
	for _, it := range items {
		p, err := s.Prods.Get(it.ProductID)
		if err != nil {
			return nil, "", err
		}
		cart.RestoreItem(&p, it.AmountKg)
	}
	if meta.CouponCode != "" {
		cart.RestoreCoupon(meta.CouponCode, meta.CouponPct)
	}
	_ = cart.SetLoyaltyDiscount(meta.LoyaltyPct)
	return cart, cartID, nil
}

// Add puts amount kg of a product into the cart (merging with any
// existing line) and returns the blended price the customer would pay
// for the added quantity right now. The blended figure is display-only;
// checkout reprices from live stock.
func (s *CartService) Add(sessionID, customerID, productID string, amount float64) (float64, error) {
	cart, cartID, err := s.Load(sessionID, customerID)
	if err != nil {
		return 0, err
	}
	p, err := s.Prods.Get(productID)
	if err != nil {
		return 0, err
	}
	if !p.Active {
		return 0, domain.ErrNotFound
	}
	if err := cart.AddItem(&p, amount); err != nil {
		return 0, err
	}
	line, _ := cart.Line(productID)
	if err := s.Carts.SetAmount(cartID, productID, line.AmountKg); err != nil {
		return 0, err
	}
	return pricing.SplitTotal(p.BasePrice, p.Stock, p.Threshold, amount), nil
}

func (s *CartService) UpdateAmount(sessionID, customerID, productID string, amount float64) error {
	cart, cartID, err := s.Load(sessionID, customerID)
	if err != nil {
		return err
	}
	if err := cart.UpdateItemAmount(productID, amount); err != nil {
		return err
	}
	return s.Carts.SetAmount(cartID, productID, amount)
}

func (s *CartService) Remove(sessionID, customerID, productID string) error {
	cart, cartID, err := s.Load(sessionID, customerID)
	if err != nil {
		return err
	}
	if err := cart.RemoveItem(productID); err != nil {
		return err
	}
	return s.Carts.RemoveItem(cartID, productID)
}

func (s *CartService) Clear(sessionID, customerID string) error {
	_, cartID, err := s.Load(sessionID, customerID)
	if err != nil {
		return err
	}
	return s.Carts.Clear(cartID)
}

// ApplyCoupon resolves the code against the coupon catalog and attaches
// it. Only one coupon may be active; remove it before applying another.
func (s *CartService) ApplyCoupon(sessionID, customerID, code string) error {
	code, ok := validate.CouponCode(code)
	if !ok {
		return domain.ErrBadCouponCode
	}
	cart, cartID, err := s.Load(sessionID, customerID)
	if err != nil {
		return err
	}
	coupon, err := s.Coupons.GetActive(code)
	if err != nil {
		return err
	}
	if err := cart.ApplyCoupon(coupon.Code, coupon.DiscountPct); err != nil {
		return err
	}
	return s.Carts.SetCoupon(cartID, coupon.Code, coupon.DiscountPct)
}

func (s *CartService) RemoveCoupon(sessionID, customerID string) error {
	_, cartID, err := s.Load(sessionID, customerID)
	if err != nil {
		return err
	}
	return s.Carts.ClearCoupon(cartID)
}

// RefreshLoyalty recomputes the customer's loyalty percentage from their
// completed orders and stores it on the cart.
func (s *CartService) RefreshLoyalty(sessionID, customerID string) (float64, error) {
	_, cartID, err := s.Load(sessionID, customerID)
	if err != nil {
		return 0, err
	}
	if customerID == "" {
		return 0, nil
	}
	n, err := s.Orders.CountCompletedByCustomer(customerID)
	if err != nil {
		return 0, err
	}
	pct := loyaltyPctFor(n)
	return pct, s.Carts.SetLoyalty(cartID, pct)
}

// LineView is a priced cart line for rendering.
type LineView struct {
	Product   domain.Product
	AmountKg  float64
	UnitPrice float64
	LineTotal float64
}

type CartView struct {
	Lines        []LineView
	Subtotal     float64
	VAT          float64
	Discount     float64
	Total        float64
	CouponCode   string
	CouponPct    float64
	LoyaltyPct   float64
	MeetsMinimum bool
	MinimumValue float64
}

// View prices the whole cart at current stock levels.
func (s *CartService) View(sessionID, customerID string) (CartView, error) {
	cart, _, err := s.Load(sessionID, customerID)
	if err != nil {
		return CartView{}, err
	}
	v := CartView{
		Subtotal:     cart.Subtotal(),
		VAT:          cart.VAT(),
		Discount:     cart.TotalDiscount(),
		Total:        cart.Total(),
		CouponCode:   cart.CouponCode(),
		CouponPct:    cart.CouponPct(),
		LoyaltyPct:   cart.LoyaltyPct(),
		MeetsMinimum: cart.MeetsMinimumValue(),
		MinimumValue: domain.MinimumOrderValue,
	}
	for _, line := range cart.Lines() {
		v.Lines = append(v.Lines, LineView{
			Product:   *line.Product,
			AmountKg:  line.AmountKg,
			UnitPrice: line.Product.EffectiveUnitPrice(),
			LineTotal: line.LineTotal(),
		})
	}
	return v, nil
}
