package domain

// Roles mirror the three storefront actors.
const (
	RoleCustomer = "CUSTOMER"
	RoleCarrier  = "CARRIER"
	RoleOwner    = "OWNER"
)

type User struct {
	ID       string `db:"id"`
	Username string `db:"username"`
	Name     string `db:"name"`
	Hash     string `db:"password_hash"`
	Role     string `db:"role"`
	Address  string `db:"address"`
	Phone    string `db:"phone"`
}
