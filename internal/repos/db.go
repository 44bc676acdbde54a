package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Seed demo produce and accounts if the DB is empty (idempotent).
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	if err := seedUsers(db); err != nil {
		return nil, err
	}

	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Produce catalog. Products are deactivated, never deleted, so old
-- orders keep valid references.
CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  category TEXT NOT NULL CHECK (category IN ('vegetable','fruit')),
  base_price NUMERIC NOT NULL CHECK (base_price > 0),
  stock NUMERIC NOT NULL DEFAULT 0 CHECK (stock >= 0),
  threshold NUMERIC NOT NULL CHECK (threshold > 0),
  image_ref TEXT,
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
CREATE UNIQUE INDEX IF NOT EXISTS idx_products_name_nocase ON products(LOWER(name));

-- Discount coupons managed by the owner.
CREATE TABLE IF NOT EXISTS coupons(
  code TEXT PRIMARY KEY,
  discount_pct NUMERIC NOT NULL CHECK (discount_pct >= 0 AND discount_pct <= 100),
  active INTEGER NOT NULL DEFAULT 1,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

-- Session carts. Amounts are kilograms; coupon/loyalty percentages live
-- on the cart row so totals can be recomputed at any time.
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  session_id TEXT UNIQUE NOT NULL,
  customer_id TEXT,
  coupon_code TEXT,
  coupon_pct NUMERIC NOT NULL DEFAULT 0,
  loyalty_pct NUMERIC NOT NULL DEFAULT 0,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS cart_items(
  cart_id    TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  amount_kg NUMERIC NOT NULL CHECK (amount_kg > 0),
  created_at TEXT,
  updated_at TEXT,
  PRIMARY KEY (cart_id, product_id)
);

-- Orders snapshot cart totals and per-item purchase prices.
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  customer_id TEXT NOT NULL,
  session_id TEXT,
  carrier_id TEXT,
  subtotal NUMERIC NOT NULL,
  vat_amount NUMERIC NOT NULL,
  discount NUMERIC NOT NULL,
  total NUMERIC NOT NULL,
  coupon_code TEXT,
  coupon_pct NUMERIC NOT NULL DEFAULT 0,
  loyalty_pct NUMERIC NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'AVAILABLE'
    CHECK (status IN ('AVAILABLE','SELECTED','DELIVERING','COMPLETED','CANCELLED')),
  order_time TEXT NOT NULL,
  requested_delivery TEXT NOT NULL,
  actual_delivery TEXT,
  customer_name TEXT NOT NULL,
  customer_address TEXT NOT NULL,
  customer_phone TEXT NOT NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_orders_status  ON orders(status);
CREATE INDEX IF NOT EXISTS idx_orders_carrier ON orders(carrier_id);

CREATE TABLE IF NOT EXISTS order_items(
  order_id  TEXT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id),
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  amount_kg NUMERIC NOT NULL,
  unit_price NUMERIC NOT NULL,
  line_total NUMERIC NOT NULL,
  PRIMARY KEY (order_id, product_id)
);

-- Users & sessions. Roles: CUSTOMER shops, CARRIER delivers, OWNER runs
-- the store.
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('CUSTOMER','CARRIER','OWNER')),
  address TEXT,
  phone TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo produce and coupons")

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,name,category,base_price,stock,threshold,image_ref) VALUES
	  ('tomato',   'Tomato',   'vegetable', 25.00, 120, 20, 'products/tomato.jpg'),
	  ('cucumber', 'Cucumber', 'vegetable', 18.50,  80, 15, 'products/cucumber.jpg'),
	  ('spinach',  'Spinach',  'vegetable', 32.00,  12, 10, 'products/spinach.jpg'),
	  ('apple',    'Apple',    'fruit',     28.00, 200, 30, 'products/apple.jpg'),
	  ('banana',   'Banana',   'fruit',     35.00,  25, 25, 'products/banana.jpg'),
	  ('grape',    'Grape',    'fruit',     45.00,  60, 12, 'products/grape.jpg')`)

	tx.MustExec(`INSERT INTO coupons(code,discount_pct) VALUES
	  ('FRESH10',   10),
	  ('WELCOME5',   5),
	  ('HARVEST25', 25)`)

	return tx.Commit()
}

// seedUsers ensures one account per role exists (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Username, Name, Role, Address, Phone, Hash string
	}
	mk := func(id, username, name, role, address, phone, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Username: username, Name: name, Role: role, Address: address, Phone: phone, Hash: string(h)}
	}

	users := []u{
		mk("u-ayse", "ayse", "Ayse Demir", "CUSTOMER", "12 Bahar St, Kadikoy, Istanbul", "+90 532 000 0001", "customer1"),
		mk("u-mehmet", "mehmet", "Mehmet Kaya", "CUSTOMER", "4 Cinar Ave, Besiktas, Istanbul", "+90 532 000 0002", "customer2"),
		mk("u-kurye", "kurye", "Deniz Aslan", "CARRIER", "", "+90 532 000 0003", "carrier1"),
		mk("u-kurye2", "kurye2", "Ege Yildiz", "CARRIER", "", "+90 532 000 0004", "carrier2"),
		mk("u-owner", "owner", "Store Owner", "OWNER", "", "+90 532 000 0005", "owner1"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,username,name,password_hash,role,address,phone)
			VALUES(?,?,?,?,?,?,?)
			ON CONFLICT(username) DO NOTHING
		`, x.ID, x.Username, x.Name, x.Hash, x.Role, x.Address, x.Phone); err != nil {
			return err
		}
	}

	return tx.Commit()
}
