package repos

import (
	"database/sql"

	"greengrocer/internal/domain"

	"github.com/jmoiron/sqlx"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var p domain.Product
	err := r.db.Get(&p, `
	  SELECT id, name, category, base_price, stock, threshold,
	         COALESCE(image_ref,'') AS image_ref, active,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  WHERE id = ?
	`, id)
	if err == sql.ErrNoRows {
		return domain.Product{}, domain.ErrNotFound
	}
	return p, err
}

// ListActive returns the storefront catalog, optionally filtered by
// category and/or a case-insensitive name prefix.
func (r *ProductRepo) ListActive(category, nameFilter string) ([]domain.Product, error) {
	where := `active = 1`
	args := []any{}
	if category != "" {
		where += ` AND category = ?`
		args = append(args, category)
	}
	if nameFilter != "" {
		where += ` AND LOWER(name) LIKE ?`
		args = append(args, nameFilter+"%")
	}

	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT id, name, category, base_price, stock, threshold,
	         COALESCE(image_ref,'') AS image_ref, active,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  WHERE `+where+`
	  ORDER BY category, name
	`, args...)
	return out, err
}

// ListAll includes deactivated products (owner screens).
func (r *ProductRepo) ListAll() ([]domain.Product, error) {
	var out []domain.Product
	err := r.db.Select(&out, `
	  SELECT id, name, category, base_price, stock, threshold,
	         COALESCE(image_ref,'') AS image_ref, active,
	         created_at, COALESCE(updated_at,'') AS updated_at
	  FROM products
	  ORDER BY category, name
	`)
	return out, err
}

func (r *ProductRepo) Create(p domain.Product) error {
	_, err := r.db.Exec(`
	  INSERT INTO products(id,name,category,base_price,stock,threshold,image_ref,active)
	  VALUES(?,?,?,?,?,?,?,1)
	`, p.ID, p.Name, p.Category, p.BasePrice, p.Stock, p.Threshold, p.ImageRef)
	return err
}

func (r *ProductRepo) UpdatePrice(id string, price float64) error {
	return r.touch(`UPDATE products SET base_price=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, price, id)
}

func (r *ProductRepo) UpdateThreshold(id string, threshold float64) error {
	return r.touch(`UPDATE products SET threshold=?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, threshold, id)
}

// Deactivate soft-deletes: historical orders keep their references.
func (r *ProductRepo) Deactivate(id string) error {
	return r.touch(`UPDATE products SET active=0, updated_at=CURRENT_TIMESTAMP WHERE id=?`, id)
}

// DecrementStock atomically subtracts a purchase amount, guarded against
// overselling: the update only lands if current stock covers it.
func (r *ProductRepo) DecrementStock(id string, amount float64) error {
	res, err := r.db.Exec(`
	  UPDATE products
	  SET stock = stock - ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND stock >= ?
	`, amount, id, amount)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}

// AddStock restocks without an upper bound.
func (r *ProductRepo) AddStock(id string, amount float64) error {
	return r.touch(`UPDATE products SET stock = stock + ?, updated_at=CURRENT_TIMESTAMP WHERE id=?`, amount, id)
}

func (r *ProductRepo) touch(query string, args ...any) error {
	res, err := r.db.Exec(query, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
