package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	// MaxAmountKg is the sanity ceiling for a single cart line.
	MaxAmountKg = 1000.0
	// MaxThresholdKg bounds owner-entered restock thresholds.
	MaxThresholdKg = 10000.0
	// MaxPrice bounds owner-entered unit prices.
	MaxPrice = 100000.0
	// DeliveryWindow is how far ahead a delivery may be requested.
	DeliveryWindow = 48 * time.Hour
)

var (
	rePhone = regexp.MustCompile(`^[\d\s+()-]+$`)
	reName  = regexp.MustCompile(`^[A-Za-zğüşıöçĞÜŞİÖÇ ]+$`)
	reID    = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reCat   = regexp.MustCompile(`^(vegetable|fruit)$`)
)

// Amount parses and validates a kilogram amount: positive, at most 1000.
func Amount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, AmountValue(v)
}

// AmountValue validates an already-parsed kilogram amount.
func AmountValue(v float64) bool {
	return v > 0 && v <= MaxAmountKg
}

// Price validates a per-kg price: positive, below the sanity ceiling.
func Price(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || v > MaxPrice {
		return 0, false
	}
	return v, true
}

// Threshold validates a restock threshold in kg.
func Threshold(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 || v > MaxThresholdKg {
		return 0, false
	}
	return v, true
}

// DiscountPct validates a discount percentage (0-100).
func DiscountPct(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 || v > 100 {
		return 0, false
	}
	return v, true
}

// CouponCode validates coupon format: 4-20 chars, no whitespace of any
// kind inside the code.
func CouponCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 4 || len(s) > 20 || strings.ContainsFunc(s, unicode.IsSpace) {
		return "", false
	}
	return s, true
}

// DeliveryTime parses "2006-01-02 15:04" and checks the time falls inside
// [now, now+48h].
func DeliveryTime(s string, now time.Time) (time.Time, bool) {
	t, err := time.ParseInLocation("2006-01-02 15:04", strings.TrimSpace(s), now.Location())
	if err != nil {
		return time.Time{}, false
	}
	return t, DeliveryTimeValue(t, now)
}

// DeliveryTimeValue checks an already-parsed requested delivery time.
func DeliveryTimeValue(t, now time.Time) bool {
	return !t.Before(now) && !t.After(now.Add(DeliveryWindow))
}

// Name validates a contact name on the checkout form (1-50 chars).
func Name(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 50 {
		return "", false
	}
	return s, true
}

// ProductName: letters and spaces only, up to 50 chars.
func ProductName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 50 {
		return "", false
	}
	return s, reName.MatchString(s)
}

// Category validates the fixed produce categories.
func Category(s string) (string, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	return s, reCat.MatchString(s)
}

// Address requires a complete street address (10-200 chars).
func Address(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 10 || len(s) > 200 {
		return "", false
	}
	return s, true
}

// Phone allows digits, spaces and +()- up to 20 chars.
func Phone(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > 20 {
		return "", false
	}
	return s, rePhone.MatchString(s)
}

// ID validates a simple resource identifier (product/order/user ids).
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Username: 3-50 chars, no whitespace.
func Username(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || len(s) > 50 || strings.ContainsAny(s, " \t") {
		return "", false
	}
	return s, true
}

// Password enforces the login length window; no whitespace allowed.
func Password(s string) bool {
	if len(s) < 2 || len(s) > 50 {
		return false
	}
	return !strings.ContainsAny(s, " \t")
}
