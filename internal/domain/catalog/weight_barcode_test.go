package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warelog/handheld-go/internal/domain/catalog"
	"github.com/warelog/handheld-go/internal/domain/shared"
)

func TestParseWeightBarcode_DecodesArticleAndWeight(t *testing.T) {
	// 21 | 00042 | 01250 | 7 -> article 00042, 1.250 kg
	scan, ok := catalog.ParseWeightBarcode("2100042012507", catalog.DefaultWeightBarcodeFormat())

	require.True(t, ok)
	assert.Equal(t, "00042", scan.Article)
	assert.True(t, scan.Weight.Equals(shared.MustNewQuantity(1.25)))
}

func TestParseWeightBarcode_RejectsNonMatchingCodes(t *testing.T) {
	format := catalog.DefaultWeightBarcodeFormat()

	cases := []string{
		"4001234567890", // EAN with a retail prefix
		"210004201250",  // too short
		"21000420125078", // too long
		"21000X2012507", // non-digit article
		"2100042012X07", // non-digit weight
	}

	for _, code := range cases {
		_, ok := catalog.ParseWeightBarcode(code, format)
		assert.False(t, ok, "code: %s", code)
	}
}

func TestProduct_BarcodeAndIdentity(t *testing.T) {
	p, err := catalog.NewProduct("ART-100", "Flour 1kg", []string{"4001234567890", "4009876543210"})
	require.NoError(t, err)

	assert.True(t, p.HasBarcode("4001234567890"))
	assert.True(t, p.HasBarcode("ART-100"), "article number doubles as a code")
	assert.False(t, p.HasBarcode("0000000000000"))
	assert.Equal(t, "ART-100", p.Identity())

	other, err := catalog.NewProduct("ART-100", "Flour 1kg new label", nil)
	require.NoError(t, err)
	assert.True(t, p.SameAs(other))
}

func TestProduct_RequiresArticleAndName(t *testing.T) {
	_, err := catalog.NewProduct("", "Flour", nil)
	assert.Error(t, err)

	_, err = catalog.NewProduct("ART-1", "  ", nil)
	assert.Error(t, err)
}
