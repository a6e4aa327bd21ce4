package catalog

import (
	"strconv"

	"github.com/warelog/handheld-go/internal/domain/shared"
)

// WeightBarcodeFormat describes how scale labels encode article and weight.
//
// Scale printers emit EAN-13 style labels of the form
//
//	<prefix><article digits><weight digits><check digit>
//
// where the weight is in grams. The format is depot-specific configuration;
// the default matches the common "21" prefix with a 5-digit article and a
// 5-digit weight.
type WeightBarcodeFormat struct {
	Prefix        string
	ArticleDigits int
	WeightDigits  int
}

// DefaultWeightBarcodeFormat returns the conventional scale label layout
func DefaultWeightBarcodeFormat() WeightBarcodeFormat {
	return WeightBarcodeFormat{
		Prefix:        "21",
		ArticleDigits: 5,
		WeightDigits:  5,
	}
}

// totalLength is prefix + article + weight + check digit
func (f WeightBarcodeFormat) totalLength() int {
	return len(f.Prefix) + f.ArticleDigits + f.WeightDigits + 1
}

// WeightScan is the result of decoding a scale label
type WeightScan struct {
	Article string
	Weight  shared.Quantity
}

// ParseWeightBarcode decodes a scale label into article and weight.
// Returns ok=false when the code does not fit the format; callers fall back
// to plain barcode lookup in that case.
func ParseWeightBarcode(code string, format WeightBarcodeFormat) (WeightScan, bool) {
	if len(code) != format.totalLength() {
		return WeightScan{}, false
	}
	if code[:len(format.Prefix)] != format.Prefix {
		return WeightScan{}, false
	}

	articleStart := len(format.Prefix)
	weightStart := articleStart + format.ArticleDigits

	article := code[articleStart:weightStart]
	weightDigits := code[weightStart : weightStart+format.WeightDigits]

	grams, err := strconv.Atoi(weightDigits)
	if err != nil {
		return WeightScan{}, false
	}
	if _, err := strconv.Atoi(article); err != nil {
		return WeightScan{}, false
	}

	weight, err := shared.NewQuantity(float64(grams) / 1000)
	if err != nil {
		return WeightScan{}, false
	}

	return WeightScan{Article: article, Weight: weight}, true
}
