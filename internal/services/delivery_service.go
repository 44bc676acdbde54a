package services

import (
	"time"

	"greengrocer/internal/domain"
	"greengrocer/internal/repos"
)

// MaxConcurrentDeliveries caps how many orders a carrier may hold at
// once (SELECTED or DELIVERING).
const MaxConcurrentDeliveries = 3

// UrgentWindow marks undelivered orders due within this horizon.
const UrgentWindow = 2 * time.Hour

type DeliveryService struct {
	Orders *repos.OrderRepo
}

func NewDeliveryService(orders *repos.OrderRepo) *DeliveryService {
	return &DeliveryService{Orders: orders}
}

func (s *DeliveryService) Available() ([]*domain.Order, error) {
	return s.Orders.ListAvailable()
}

func (s *DeliveryService) Current(carrierID string) ([]*domain.Order, error) {
	return s.Orders.ListCurrentByCarrier(carrierID)
}

func (s *DeliveryService) Completed(carrierID string) ([]*domain.Order, error) {
	return s.Orders.ListCompletedByCarrier(carrierID)
}

func (s *DeliveryService) Urgent() ([]*domain.Order, error) {
	return s.Orders.ListUrgent(time.Now().Add(UrgentWindow))
}

// Accept claims an available order for the carrier. The domain transition
// runs first for a precise error; the repo update is the race arbiter
// when two carriers grab the same order.
func (s *DeliveryService) Accept(orderID, carrierID string) error {
	current, err := s.Orders.ListCurrentByCarrier(carrierID)
	if err != nil {
		return err
	}
	if len(current) >= MaxConcurrentDeliveries {
		return domain.ErrCarrierBusy
	}

	o, err := s.Orders.Get(orderID)
	if err != nil {
		return err
	}
	if err := o.AssignCarrier(carrierID); err != nil {
		return err
	}
	return s.Orders.Assign(orderID, carrierID)
}

// Start marks the pickup: SELECTED -> DELIVERING.
func (s *DeliveryService) Start(orderID, carrierID string) error {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return err
	}
	if err := o.StartDelivery(carrierID); err != nil {
		return err
	}
	return s.Orders.MarkDelivering(orderID, carrierID)
}

// Complete records the delivery at the current time.
func (s *DeliveryService) Complete(orderID, carrierID string) (*domain.Order, error) {
	o, err := s.Orders.Get(orderID)
	if err != nil {
		return nil, err
	}
	if err := o.CompleteDelivery(carrierID, time.Now()); err != nil {
		return nil, err
	}
	if err := s.Orders.MarkCompleted(orderID, carrierID, o.ActualDeliveryTime); err != nil {
		return nil, err
	}
	return o, nil
}

// CarrierStats summarizes a carrier's completed deliveries.
type CarrierStats struct {
	Delivered int
	OnTime    int
	OnTimePct float64
	Revenue   float64
	AvgOrder  float64 // revenue per completed delivery
	AvgHours  float64 // order time to delivery, averaged
	InFlight  int
	SlotsLeft int
}

func (s *DeliveryService) Stats(carrierID string) (CarrierStats, error) {
	done, err := s.Orders.ListCompletedByCarrier(carrierID)
	if err != nil {
		return CarrierStats{}, err
	}
	current, err := s.Orders.ListCurrentByCarrier(carrierID)
	if err != nil {
		return CarrierStats{}, err
	}

	st := CarrierStats{
		Delivered: len(done),
		InFlight:  len(current),
		SlotsLeft: MaxConcurrentDeliveries - len(current),
	}
	var totalHours float64
	for _, o := range done {
		st.Revenue += o.Total
		if o.OnTime() {
			st.OnTime++
		}
		totalHours += o.ActualDeliveryTime.Sub(o.OrderTime).Hours()
	}
	if st.Delivered > 0 {
		st.OnTimePct = float64(st.OnTime) / float64(st.Delivered) * 100
		st.AvgOrder = st.Revenue / float64(st.Delivered)
		st.AvgHours = totalHours / float64(st.Delivered)
	}
	return st, nil
}
