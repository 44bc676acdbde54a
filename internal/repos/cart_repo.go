package repos

import (
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// CartRepo persists session carts: product amounts plus the coupon and
// loyalty percentages. Totals are never stored; the cart domain type
// recomputes them from current product rows.
type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type CartMeta struct {
	ID         string  `db:"id"`
	CustomerID string  `db:"customer_id"`
	CouponCode string  `db:"coupon_code"`
	CouponPct  float64 `db:"coupon_pct"`
	LoyaltyPct float64 `db:"loyalty_pct"`
}

type CartItemRow struct {
	ProductID string  `db:"product_id"`
	AmountKg  float64 `db:"amount_kg"`
}

func (r *CartRepo) EnsureCart(sessionID, customerID string) (string, error) {
	var cartID string
	err := r.db.Get(&cartID, `SELECT id FROM carts WHERE session_id = ?`, sessionID)
	if err == nil {
		if customerID != "" {
			_, _ = r.db.Exec(`UPDATE carts SET customer_id=? WHERE id=? AND COALESCE(customer_id,'')=''`, customerID, cartID)
		}
		return cartID, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", err
	}
	_, err = r.db.Exec(`INSERT INTO carts(id,session_id,customer_id,updated_at) VALUES(?,?,?,?)`,
		sessionID, sessionID, customerID, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", err
	}
	return sessionID, nil
}

func (r *CartRepo) Meta(cartID string) (CartMeta, error) {
	var m CartMeta
	err := r.db.Get(&m, `
	  SELECT id, COALESCE(customer_id,'') AS customer_id,
	         COALESCE(coupon_code,'') AS coupon_code, coupon_pct, loyalty_pct
	  FROM carts WHERE id = ?
	`, cartID)
	if err == sql.ErrNoRows {
		return CartMeta{ID: cartID}, nil
	}
	return m, err
}

func (r *CartRepo) Items(cartID string) ([]CartItemRow, error) {
	var out []CartItemRow
	err := r.db.Select(&out, `
	  SELECT product_id, amount_kg FROM cart_items WHERE cart_id = ?
	`, cartID)
	return out, err
}

// SetAmount writes the full (already merged and validated) amount for a
// line, inserting the row on first add.
func (r *CartRepo) SetAmount(cartID, productID string, amountKg float64) error {
	_, err := r.db.Exec(`
	  INSERT INTO cart_items(cart_id,product_id,amount_kg,created_at)
	  VALUES(?,?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(cart_id,product_id) DO UPDATE
	  SET amount_kg = excluded.amount_kg, updated_at = CURRENT_TIMESTAMP
	`, cartID, productID, amountKg)
	return err
}

func (r *CartRepo) RemoveItem(cartID, productID string) error {
	_, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id=? AND product_id=?`, cartID, productID)
	return err
}

// Clear drops all lines and the coupon, matching the cart-clear rule.
func (r *CartRepo) Clear(cartID string) error {
	if _, err := r.db.Exec(`DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		return err
	}
	_, err := r.db.Exec(`UPDATE carts SET coupon_code=NULL, coupon_pct=0, updated_at=CURRENT_TIMESTAMP WHERE id=?`, cartID)
	return err
}

func (r *CartRepo) SetCoupon(cartID, code string, pct float64) error {
	_, err := r.db.Exec(`UPDATE carts SET coupon_code=?, coupon_pct=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, code, pct, cartID)
	return err
}

func (r *CartRepo) ClearCoupon(cartID string) error {
	_, err := r.db.Exec(`UPDATE carts SET coupon_code=NULL, coupon_pct=0, updated_at=CURRENT_TIMESTAMP WHERE id=?`, cartID)
	return err
}

func (r *CartRepo) SetLoyalty(cartID string, pct float64) error {
	_, err := r.db.Exec(`UPDATE carts SET loyalty_pct=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, pct, cartID)
	return err
}
