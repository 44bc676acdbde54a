package domain

import "errors"

// Validation failures: expected, user-recoverable.
var (
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	ErrAmountTooLarge    = errors.New("amount cannot exceed 1000 kg")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrOutOfStock        = errors.New("product is out of stock")
	ErrNotInCart         = errors.New("product not in cart")
	ErrBadCouponCode     = errors.New("coupon code must be 4-20 characters without spaces")
	ErrCouponApplied     = errors.New("a coupon is already applied")
	ErrBadDiscountPct    = errors.New("discount must be between 0 and 100 percent")
	ErrBelowMinimum      = errors.New("cart does not meet the minimum order value")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrBadThreshold      = errors.New("threshold must be between 0 and 10000 kg")
	ErrBadProductName    = errors.New("product name must be letters and spaces, up to 50 characters")
	ErrBadCategory       = errors.New("category must be vegetable or fruit")
	ErrBadPrice          = errors.New("price must be positive and below 100000")
)

// Order construction and state-machine failures.
var (
	ErrDeliveryWindow     = errors.New("requested delivery must be within 48 hours")
	ErrBadName            = errors.New("name must be 1-50 characters")
	ErrBadAddress         = errors.New("address must be 10-200 characters")
	ErrBadPhone           = errors.New("invalid phone number")
	ErrAlreadyAssigned    = errors.New("order already has a carrier")
	ErrNotAssignedToYou   = errors.New("order is not assigned to this carrier")
	ErrInvalidTransition  = errors.New("order status does not allow this transition")
	ErrDeliveryBeforeTime = errors.New("delivery time cannot precede order time")
	ErrCarrierBusy        = errors.New("carrier already has the maximum number of active deliveries")
)

// Persistence-boundary failures.
var (
	ErrNotFound       = errors.New("not found")
	ErrAssignConflict = errors.New("order was taken by another carrier")
)
