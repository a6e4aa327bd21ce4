package storage

import (
	"strings"

	"github.com/warelog/handheld-go/internal/domain/shared"
)

// Pallet is a value object for a movable carrier (pallet, tote, roll cage).
//
// Accepts either a depot-local label or an 18-digit SSCC. SSCC codes are
// kept verbatim so they round-trip to the server unchanged.
type Pallet struct {
	code string
}

const ssccLength = 18

// NewPallet creates a Pallet from a scanned or typed code
func NewPallet(code string) (Pallet, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return Pallet{}, shared.NewInvalidFormatError(code, "pallet code cannot be empty")
	}
	if isDigits(normalized) && len(normalized) != ssccLength && len(normalized) > 10 {
		// Long all-digit codes that are not SSCC are almost always a
		// product barcode scanned into the wrong field.
		return Pallet{}, shared.NewInvalidFormatError(code, "numeric pallet code must be an 18-digit SSCC")
	}
	return Pallet{code: normalized}, nil
}

// MustNewPallet creates a Pallet, panicking if invalid (for fixtures and tests)
func MustNewPallet(code string) Pallet {
	pallet, err := NewPallet(code)
	if err != nil {
		panic(err)
	}
	return pallet
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// Code returns the normalized pallet code
func (p Pallet) Code() string {
	return p.code
}

// IsZero returns true for the zero-value Pallet
func (p Pallet) IsZero() bool {
	return p.code == ""
}

// IsSSCC returns true when the code is an 18-digit serial shipping container code
func (p Pallet) IsSSCC() bool {
	return len(p.code) == ssccLength && isDigits(p.code)
}

// Equals checks if two pallets denote the same carrier
func (p Pallet) Equals(other Pallet) bool {
	return p.code == other.code
}

// String returns the pallet code
func (p Pallet) String() string {
	return p.code
}
