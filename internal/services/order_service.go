package services

import (
	"time"

	"greengrocer/internal/domain"
	"greengrocer/internal/repos"

	"github.com/google/uuid"
)

type OrderService struct {
	Orders *repos.OrderRepo
	Prods  *repos.ProductRepo
	Cart   *CartService
	Carts  *repos.CartRepo
}

func NewOrderService(orders *repos.OrderRepo, prods *repos.ProductRepo, cart *CartService, carts *repos.CartRepo) *OrderService {
	return &OrderService{Orders: orders, Prods: prods, Cart: cart, Carts: carts}
}

// Place turns the session's cart into an order. The cart is repriced at
// current stock, the order is validated as a whole, then stock is
// claimed line by line with a compare-and-swap; a line that lost a race
// to concurrent checkouts rolls back the lines already claimed and the
// whole placement fails.
func (s *OrderService) Place(sessionID, customerID string, requestedDelivery time.Time, name, address, phone string) (*domain.Order, error) {
	if _, err := s.Cart.RefreshLoyalty(sessionID, customerID); err != nil {
		return nil, err
	}
	cart, cartID, err := s.Cart.Load(sessionID, customerID)
	if err != nil {
		return nil, err
	}

	order, err := domain.NewOrder(cart, requestedDelivery, name, address, phone, time.Now())
	if err != nil {
		return nil, err
	}
	order.ID = uuid.NewString()

	claimed := make([]domain.OrderItem, 0, len(order.Items))
	for _, it := range order.Items {
		if err := s.Prods.DecrementStock(it.ProductID, it.AmountKg); err != nil {
			for _, c := range claimed {
				_ = s.Prods.AddStock(c.ProductID, c.AmountKg)
			}
			return nil, err
		}
		claimed = append(claimed, it)
	}

	if err := s.Orders.Create(order, sessionID); err != nil {
		for _, c := range claimed {
			_ = s.Prods.AddStock(c.ProductID, c.AmountKg)
		}
		return nil, err
	}
	if err := s.Carts.Clear(cartID); err != nil {
		return order, err
	}
	return order, nil
}

// Get returns an order only to its owning customer.
func (s *OrderService) Get(orderID, customerID string) (*domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if customerID != "" && o.CustomerID != customerID {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

func (s *OrderService) History(customerID string) ([]*domain.Order, error) {
	return s.Orders.ListByCustomer(customerID)
}

// Cancel aborts an undelivered order and restores its stock. Allowed
// only while no carrier has picked the order up.
func (s *OrderService) Cancel(orderID, customerID string) error {
	o, err := s.Get(orderID, customerID)
	if err != nil {
		return err
	}
	if err := o.Cancel(); err != nil {
		return err
	}
	if err := s.Orders.MarkCancelled(orderID); err != nil {
		return err
	}
	for _, it := range o.Items {
		_ = s.Prods.AddStock(it.ProductID, it.AmountKg)
	}
	return nil
}
