package repos

import (
	"database/sql"
	"time"

	"greengrocer/internal/domain"

	"github.com/jmoiron/sqlx"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

const timeLayout = time.RFC3339

type orderRow struct {
	ID                string  `db:"id"`
	CustomerID        string  `db:"customer_id"`
	SessionID         string  `db:"session_id"`
	CarrierID         string  `db:"carrier_id"`
	Subtotal          float64 `db:"subtotal"`
	VATAmount         float64 `db:"vat_amount"`
	Discount          float64 `db:"discount"`
	Total             float64 `db:"total"`
	CouponCode        string  `db:"coupon_code"`
	CouponPct         float64 `db:"coupon_pct"`
	LoyaltyPct        float64 `db:"loyalty_pct"`
	Status            string  `db:"status"`
	OrderTime         string  `db:"order_time"`
	RequestedDelivery string  `db:"requested_delivery"`
	ActualDelivery    string  `db:"actual_delivery"`
	CustomerName      string  `db:"customer_name"`
	CustomerAddress   string  `db:"customer_address"`
	CustomerPhone     string  `db:"customer_phone"`
}

const orderColumns = `
  id, customer_id, COALESCE(session_id,'') AS session_id,
  COALESCE(carrier_id,'') AS carrier_id,
  subtotal, vat_amount, discount, total,
  COALESCE(coupon_code,'') AS coupon_code, coupon_pct, loyalty_pct,
  status, order_time, requested_delivery,
  COALESCE(actual_delivery,'') AS actual_delivery,
  customer_name, customer_address, customer_phone`

func (row orderRow) toDomain() *domain.Order {
	o := &domain.Order{
		ID:              row.ID,
		CustomerID:      row.CustomerID,
		CarrierID:       row.CarrierID,
		Subtotal:        row.Subtotal,
		VATAmount:       row.VATAmount,
		Discount:        row.Discount,
		Total:           row.Total,
		CouponCode:      row.CouponCode,
		CouponPct:       row.CouponPct,
		LoyaltyPct:      row.LoyaltyPct,
		Status:          domain.OrderStatus(row.Status),
		CustomerName:    row.CustomerName,
		CustomerAddress: row.CustomerAddress,
		CustomerPhone:   row.CustomerPhone,
	}
	o.OrderTime, _ = time.Parse(timeLayout, row.OrderTime)
	o.RequestedDeliveryTime, _ = time.Parse(timeLayout, row.RequestedDelivery)
	if row.ActualDelivery != "" {
		o.ActualDeliveryTime, _ = time.Parse(timeLayout, row.ActualDelivery)
	}
	return o
}

// Create inserts the order header and all line items in one transaction,
// so a half-written order can never be observed.
func (r *OrderRepo) Create(o *domain.Order, sessionID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders
	    (id, customer_id, session_id, subtotal, vat_amount, discount, total,
	     coupon_code, coupon_pct, loyalty_pct, status,
	     order_time, requested_delivery, customer_name, customer_address, customer_phone)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
	`, o.ID, o.CustomerID, sessionID, o.Subtotal, o.VATAmount, o.Discount, o.Total,
		o.CouponCode, o.CouponPct, o.LoyaltyPct, string(o.Status),
		o.OrderTime.Format(timeLayout), o.RequestedDeliveryTime.Format(timeLayout),
		o.CustomerName, o.CustomerAddress, o.CustomerPhone); err != nil {
		return err
	}

	for _, it := range o.Items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, product_id, name, category, amount_kg, unit_price, line_total)
		  VALUES(?,?,?,?,?,?,?)
		`, o.ID, it.ProductID, it.Name, it.Category, it.AmountKg, it.UnitPrice, it.LineTotal); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *OrderRepo) Get(id string) (*domain.Order, error) {
	var row orderRow
	if err := r.db.Get(&row, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	o := row.toDomain()

	if err := r.db.Select(&o.Items, `
	  SELECT product_id, name, category, amount_kg, unit_price, line_total
	  FROM order_items WHERE order_id = ?
	  ORDER BY name
	`, id); err != nil {
		return nil, err
	}
	return o, nil
}

// ListAvailable returns unassigned orders for the carrier board, soonest
// requested delivery first.
func (r *OrderRepo) ListAvailable() ([]*domain.Order, error) {
	return r.list(`status = 'AVAILABLE' ORDER BY requested_delivery`)
}

// ListCurrentByCarrier returns a carrier's in-flight orders.
func (r *OrderRepo) ListCurrentByCarrier(carrierID string) ([]*domain.Order, error) {
	return r.list(`carrier_id = ? AND status IN ('SELECTED','DELIVERING') ORDER BY requested_delivery`, carrierID)
}

// ListCompletedByCarrier returns delivered orders, newest delivery first.
func (r *OrderRepo) ListCompletedByCarrier(carrierID string) ([]*domain.Order, error) {
	return r.list(`carrier_id = ? AND status = 'COMPLETED' ORDER BY actual_delivery DESC`, carrierID)
}

func (r *OrderRepo) ListByCustomer(customerID string) ([]*domain.Order, error) {
	return r.list(`customer_id = ? ORDER BY order_time DESC`, customerID)
}

func (r *OrderRepo) ListLatest(limit int) ([]*domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	return r.list(`1=1 ORDER BY order_time DESC LIMIT ?`, limit)
}

// ListUrgent returns undelivered orders whose requested delivery falls
// before the cutoff.
func (r *OrderRepo) ListUrgent(cutoff time.Time) ([]*domain.Order, error) {
	return r.list(`status IN ('AVAILABLE','SELECTED','DELIVERING') AND requested_delivery < ? ORDER BY requested_delivery`,
		cutoff.Format(timeLayout))
}

func (r *OrderRepo) list(where string, args ...any) ([]*domain.Order, error) {
	var rows []orderRow
	if err := r.db.Select(&rows, `SELECT `+orderColumns+` FROM orders WHERE `+where, args...); err != nil {
		return nil, err
	}
	out := make([]*domain.Order, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// CountCompletedByCustomer feeds the loyalty tiers.
func (r *OrderRepo) CountCompletedByCustomer(customerID string) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM orders WHERE customer_id=? AND status='COMPLETED'`, customerID)
	return n, err
}

// Assign atomically claims an AVAILABLE, unassigned order for a carrier.
// Two carriers racing for the same order: first writer wins, the loser
// gets ErrAssignConflict.
func (r *OrderRepo) Assign(orderID, carrierID string) error {
	res, err := r.db.Exec(`
	  UPDATE orders SET carrier_id = ?, status = 'SELECTED'
	  WHERE id = ? AND status = 'AVAILABLE' AND carrier_id IS NULL
	`, carrierID, orderID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrAssignConflict
	}
	return nil
}

// MarkDelivering persists SELECTED -> DELIVERING for the assigned carrier.
func (r *OrderRepo) MarkDelivering(orderID, carrierID string) error {
	return r.transition(`
	  UPDATE orders SET status = 'DELIVERING'
	  WHERE id = ? AND carrier_id = ? AND status = 'SELECTED'
	`, orderID, carrierID)
}

// MarkCompleted persists the delivery with its timestamp.
func (r *OrderRepo) MarkCompleted(orderID, carrierID string, at time.Time) error {
	return r.transition(`
	  UPDATE orders SET status = 'COMPLETED', actual_delivery = ?
	  WHERE id = ? AND carrier_id = ? AND status IN ('SELECTED','DELIVERING')
	`, at.Format(timeLayout), orderID, carrierID)
}

// MarkCancelled persists a cancellation while the order is still
// cancellable.
func (r *OrderRepo) MarkCancelled(orderID string) error {
	return r.transition(`
	  UPDATE orders SET status = 'CANCELLED'
	  WHERE id = ? AND status IN ('AVAILABLE','SELECTED')
	`, orderID)
}

// transition runs a guarded status update; zero affected rows means the
// order moved on concurrently (or never existed).
func (r *OrderRepo) transition(query string, args ...any) error {
	res, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}
