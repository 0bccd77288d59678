package stripe

import (
	"math"
	"strings"

	stripego "github.com/stripe/stripe-go/v75"
)

// NormalizeCheckoutStatus maps a Checkout Session onto the payment states
// stored in commission_payments: pending, paid or expired.
func NormalizeCheckoutStatus(s *stripego.CheckoutSession) string {
	if s == nil {
		return "pending"
	}
	switch strings.TrimSpace(string(s.PaymentStatus)) {
	case "paid", "no_payment_required":
		return "paid"
	}
	if s.Status == stripego.CheckoutSessionStatusExpired {
		return "expired"
	}
	return "pending"
}

// ToMinorUnits converts a euro amount to cents for Stripe prices.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
