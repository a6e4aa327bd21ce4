package storage_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelog/handheld-go/internal/domain/storage"
)

func TestBin_NormalizesScannedCode(t *testing.T) {
	bin, err := storage.NewBin("  a-01-02-03 ")

	require.NoError(t, err)
	assert.Equal(t, "A-01-02-03", bin.Code())
	assert.True(t, bin.Equals(storage.MustNewBin("A-01-02-03")))
}

func TestBin_RejectsInvalidCodes(t *testing.T) {
	cases := []string{
		"",
		"   ",
		strings.Repeat("A", 40),
		"A-01\x00",
	}

	for _, code := range cases {
		_, err := storage.NewBin(code)
		assert.Error(t, err, "code: %q", code)
	}
}

func TestBin_ZeroValue(t *testing.T) {
	assert.True(t, storage.Bin{}.IsZero())
	assert.False(t, storage.MustNewBin("RAMP-1").IsZero())
}

func TestPallet_AcceptsSSCCAndLocalLabels(t *testing.T) {
	sscc, err := storage.NewPallet("001234567890123456")
	require.NoError(t, err)
	assert.True(t, sscc.IsSSCC())

	local, err := storage.NewPallet("pal-007")
	require.NoError(t, err)
	assert.False(t, local.IsSSCC())
	assert.Equal(t, "PAL-007", local.Code())
}

func TestPallet_RejectsLongNumericNonSSCC(t *testing.T) {
	// A 13-digit all-numeric code is a product barcode in the wrong field
	_, err := storage.NewPallet("4001234567890")
	assert.Error(t, err)

	// Short numeric labels stay legal
	_, err = storage.NewPallet("12345")
	assert.NoError(t, err)
}

func TestPallet_RejectsEmptyCode(t *testing.T) {
	_, err := storage.NewPallet("  ")
	assert.Error(t, err)
}
