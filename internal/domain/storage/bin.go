package storage

import (
	"strings"

	"github.com/warelog/handheld-go/internal/domain/shared"
)

// Bin is a value object for a storage or placement location.
//
// Bin codes are depot-local labels ("A-01-02-03", "RAMP-1"). The engine
// only needs a normalized identity; the topology behind the code lives on
// the server side.
type Bin struct {
	code string
}

const maxBinCodeLength = 32

// NewBin creates a Bin from a scanned or typed code
func NewBin(code string) (Bin, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return Bin{}, shared.NewInvalidFormatError(code, "bin code cannot be empty")
	}
	if len(normalized) > maxBinCodeLength {
		return Bin{}, shared.NewInvalidFormatError(code, "bin code too long")
	}
	for _, r := range normalized {
		if r < 0x21 || r > 0x7e {
			return Bin{}, shared.NewInvalidFormatError(code, "bin code contains non-printable characters")
		}
	}
	return Bin{code: normalized}, nil
}

// MustNewBin creates a Bin, panicking if invalid (for fixtures and tests)
func MustNewBin(code string) Bin {
	bin, err := NewBin(code)
	if err != nil {
		panic(err)
	}
	return bin
}

// Code returns the normalized bin code
func (b Bin) Code() string {
	return b.code
}

// IsZero returns true for the zero-value Bin
func (b Bin) IsZero() bool {
	return b.code == ""
}

// Equals checks if two bins denote the same location
func (b Bin) Equals(other Bin) bool {
	return b.code == other.code
}

// String returns the bin code
func (b Bin) String() string {
	return b.code
}
