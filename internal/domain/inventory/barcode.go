package inventory

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mjpos/backend/internal/domain/shared"
)

const (
	maxBarcodeLength = 191
	// placeholderPrefix marks auto-generated barcodes that should be
	// replaced when the real label is scanned.
	placeholderPrefix = "AUTO-"
)

// NormalizeBarcode trims whitespace and validates length. An empty result is
// allowed; callers decide whether to generate a placeholder.
func NormalizeBarcode(barcode string) (string, error) {
	barcode = strings.TrimSpace(barcode)
	if len(barcode) > maxBarcodeLength {
		return "", shared.NewDomainErrorf(shared.CodeInvalidInput,
			"barcode exceeds %d characters", maxBarcodeLength)
	}
	return barcode, nil
}

// NewPlaceholderBarcode generates a unique stand-in barcode.
func NewPlaceholderBarcode() string {
	return placeholderPrefix + uuid.NewString()
}
