package domain

import (
	"time"
)

type OrderStatus string

const (
	StatusAvailable  OrderStatus = "AVAILABLE"  // waiting for a carrier
	StatusSelected   OrderStatus = "SELECTED"   // carrier assigned
	StatusDelivering OrderStatus = "DELIVERING" // carrier picked up
	StatusCompleted  OrderStatus = "COMPLETED"  // delivered
	StatusCancelled  OrderStatus = "CANCELLED"
)

// Terminal reports whether the status permits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// OrderItem is an immutable snapshot of a cart line at checkout time:
// the price captured here never changes even if stock moves afterwards.
type OrderItem struct {
	ProductID string  `db:"product_id"`
	Name      string  `db:"name"`
	Category  string  `db:"category"`
	AmountKg  float64 `db:"amount_kg"`
	UnitPrice float64 `db:"unit_price"`
	LineTotal float64 `db:"line_total"`
}

// Order is a finalized cart plus delivery metadata. Once created its
// items and totals are fixed; only the delivery state machine mutates it.
type Order struct {
	ID         string
	CustomerID string
	CarrierID  string // empty until assigned
	Items      []OrderItem

	Subtotal   float64
	VATAmount  float64
	Discount   float64
	Total      float64
	CouponCode string
	CouponPct  float64
	LoyaltyPct float64

	OrderTime             time.Time
	RequestedDeliveryTime time.Time
	ActualDeliveryTime    time.Time // zero until delivered

	CustomerName    string
	CustomerAddress string
	CustomerPhone   string

	Status OrderStatus
}

// NewOrder builds an order from a finalized cart. Construction is the one
// hard-failure point in the core: an order with an out-of-window delivery
// time, bad contact details or an under-minimum cart must not exist.
func NewOrder(cart *Cart, requestedDelivery time.Time, name, address, phone string, now time.Time) (*Order, error) {
	if requestedDelivery.Before(now) || requestedDelivery.After(now.Add(48*time.Hour)) {
		return nil, ErrDeliveryWindow
	}
	if len(address) < 10 || len(address) > 200 {
		return nil, ErrBadAddress
	}
	if phone == "" || len(phone) > 20 {
		return nil, ErrBadPhone
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	if !cart.MeetsMinimumValue() {
		return nil, ErrBelowMinimum
	}

	o := &Order{
		CustomerID:            cart.CustomerID,
		Subtotal:              cart.Subtotal(),
		VATAmount:             cart.VAT(),
		Discount:              cart.TotalDiscount(),
		Total:                 cart.Total(),
		CouponCode:            cart.CouponCode(),
		CouponPct:             cart.CouponPct(),
		LoyaltyPct:            cart.LoyaltyPct(),
		OrderTime:             now,
		RequestedDeliveryTime: requestedDelivery,
		CustomerName:          name,
		CustomerAddress:       address,
		CustomerPhone:         phone,
		Status:                StatusAvailable,
	}
	for _, line := range cart.Lines() {
		p := line.Product
		unit := p.EffectiveUnitPrice()
		o.Items = append(o.Items, OrderItem{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category,
			AmountKg:  line.AmountKg,
			UnitPrice: unit,
			LineTotal: line.AmountKg * unit,
		})
	}
	return o, nil
}

// AssignCarrier moves AVAILABLE -> SELECTED. First carrier wins; a second
// assignment attempt is rejected.
func (o *Order) AssignCarrier(carrierID string) error {
	if o.CarrierID != "" {
		return ErrAlreadyAssigned
	}
	if o.Status != StatusAvailable {
		return ErrInvalidTransition
	}
	o.CarrierID = carrierID
	o.Status = StatusSelected
	return nil
}

// StartDelivery moves SELECTED -> DELIVERING for the assigned carrier.
func (o *Order) StartDelivery(carrierID string) error {
	if o.CarrierID == "" || o.CarrierID != carrierID {
		return ErrNotAssignedToYou
	}
	if o.Status != StatusSelected {
		return ErrInvalidTransition
	}
	o.Status = StatusDelivering
	return nil
}

// CompleteDelivery records the delivery and moves to COMPLETED. A carrier
// may complete straight from SELECTED without an explicit pickup.
func (o *Order) CompleteDelivery(carrierID string, at time.Time) error {
	if o.CarrierID == "" || o.CarrierID != carrierID {
		return ErrNotAssignedToYou
	}
	if o.Status != StatusSelected && o.Status != StatusDelivering {
		return ErrInvalidTransition
	}
	if at.Before(o.OrderTime) {
		return ErrDeliveryBeforeTime
	}
	o.ActualDeliveryTime = at
	o.Status = StatusCompleted
	return nil
}

// Cancel is allowed only before the carrier picks the order up.
func (o *Order) Cancel() error {
	if o.Status != StatusAvailable && o.Status != StatusSelected {
		return ErrInvalidTransition
	}
	o.Status = StatusCancelled
	return nil
}

// OnTime reports whether a completed order met its requested delivery
// time. Used for carrier statistics.
func (o *Order) OnTime() bool {
	if o.ActualDeliveryTime.IsZero() {
		return false
	}
	return !o.ActualDeliveryTime.After(o.RequestedDeliveryTime)
}
