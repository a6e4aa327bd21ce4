package shared

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Quantity is a value object for counted or weighed amounts.
//
// Amounts are stored in thousandths to keep weighed goods (e.g. 1.250 kg)
// exact without floating point drift in comparisons.
type Quantity struct {
	milli int64
}

// NewQuantity creates a Quantity from a decimal amount
func NewQuantity(amount float64) (Quantity, error) {
	if amount < 0 {
		return Quantity{}, fmt.Errorf("quantity cannot be negative")
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Quantity{}, fmt.Errorf("quantity must be a finite number")
	}
	return Quantity{milli: int64(math.Round(amount * 1000))}, nil
}

// MustNewQuantity creates a Quantity, panicking if invalid
// Use this only when you're certain the amount is valid (e.g., from database)
func MustNewQuantity(amount float64) Quantity {
	q, err := NewQuantity(amount)
	if err != nil {
		panic(err)
	}
	return q
}

// ParseQuantity parses a manually entered quantity string.
// Accepts both "12" and "1.25"; comma is tolerated as decimal separator
// because handheld numeric keypads differ by locale.
func ParseQuantity(input string) (Quantity, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(input), ",", ".")
	if normalized == "" {
		return Quantity{}, fmt.Errorf("quantity cannot be empty")
	}
	amount, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return Quantity{}, fmt.Errorf("quantity %q is not a number", input)
	}
	return NewQuantity(amount)
}

// Amount returns the decimal value of the quantity
func (q Quantity) Amount() float64 {
	return float64(q.milli) / 1000
}

// IsZero returns true for a zero quantity
func (q Quantity) IsZero() bool {
	return q.milli == 0
}

// Add returns the sum of two quantities
func (q Quantity) Add(other Quantity) Quantity {
	return Quantity{milli: q.milli + other.milli}
}

// GreaterThan returns true if q exceeds other
func (q Quantity) GreaterThan(other Quantity) bool {
	return q.milli > other.milli
}

// Equals checks if two quantities are equal
func (q Quantity) Equals(other Quantity) bool {
	return q.milli == other.milli
}

// String returns the quantity without trailing zeros
func (q Quantity) String() string {
	return strconv.FormatFloat(q.Amount(), 'f', -1, 64)
}
