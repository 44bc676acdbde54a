package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite" // pure-Go SQLite driver

	"greengrocer/internal/domain"
	"greengrocer/internal/repos"
	"greengrocer/internal/services"
)

func userdb(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	schema := `
	CREATE TABLE users(id TEXT PRIMARY KEY, username TEXT NOT NULL UNIQUE, name TEXT NOT NULL,
	  password_hash TEXT NOT NULL, role TEXT NOT NULL, address TEXT, phone TEXT, created_at TEXT);
	CREATE TABLE sessions(id TEXT PRIMARY KEY, user_id TEXT, created_at TEXT, last_seen TEXT);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatal(err)
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte("customer1"), bcrypt.MinCost)
	db.MustExec(`INSERT INTO users(id,username,name,password_hash,role) VALUES('u-ayse','ayse','Ayse Demir',?,'CUSTOMER')`, string(hash))
	return db
}

func TestAuthService_LoginLogout(t *testing.T) {
	db := userdb(t)
	svc := &services.AuthService{Users: repos.NewUserRepo(db)}

	if _, err := svc.Login("sid-1", "ayse", "wrong"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds, got %v", err)
	}
	if _, err := svc.Login("sid-1", "nobody", "customer1"); !errors.Is(err, services.ErrBadCreds) {
		t.Fatalf("want ErrBadCreds for unknown user, got %v", err)
	}

	u, err := svc.Login("sid-1", "AYSE", "customer1") // case-insensitive username
	if err != nil {
		t.Fatal(err)
	}
	if u.ID != "u-ayse" {
		t.Fatalf("want u-ayse, got %+v", u)
	}

	cur, err := svc.CurrentUser("sid-1")
	if err != nil {
		t.Fatal(err)
	}
	if cur.Username != "ayse" {
		t.Fatalf("want bound session, got %+v", cur)
	}

	if err := svc.Logout("sid-1"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.CurrentUser("sid-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound after logout, got %v", err)
	}
}
