package repos

import (
	"database/sql"

	"greengrocer/internal/domain"

	"github.com/jmoiron/sqlx"
)

type CouponRepo struct{ db *sqlx.DB }

func NewCouponRepo(db *sqlx.DB) *CouponRepo { return &CouponRepo{db: db} }

type CouponRow struct {
	Code        string  `db:"code"`
	DiscountPct float64 `db:"discount_pct"`
	Active      bool    `db:"active"`
}

// GetActive resolves a coupon code to its percentage. Inactive and
// unknown codes both report not-found so callers cannot probe the
// catalog.
func (r *CouponRepo) GetActive(code string) (CouponRow, error) {
	var c CouponRow
	err := r.db.Get(&c, `SELECT code, discount_pct, active FROM coupons WHERE code=? AND active=1`, code)
	if err == sql.ErrNoRows {
		return CouponRow{}, domain.ErrNotFound
	}
	return c, err
}

func (r *CouponRepo) List() ([]CouponRow, error) {
	var out []CouponRow
	err := r.db.Select(&out, `SELECT code, discount_pct, active FROM coupons ORDER BY code`)
	return out, err
}

func (r *CouponRepo) Create(code string, pct float64) error {
	_, err := r.db.Exec(`INSERT INTO coupons(code,discount_pct,active) VALUES(?,?,1)`, code, pct)
	return err
}

func (r *CouponRepo) Deactivate(code string) error {
	res, err := r.db.Exec(`UPDATE coupons SET active=0 WHERE code=?`, code)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
