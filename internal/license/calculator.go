// Package license computes per-tier prices for catalog assets.
package license

import (
	"math"

	"stockfront/internal/domain"
)

// Multiplier returns the fixed price multiplier for a tier. Unknown tiers fall
// back to the personal multiplier so a calculator misuse never zeroes a price.
func Multiplier(tier domain.LicenseTier) float64 {
	switch tier {
	case domain.LicenseCommercial:
		return 2
	case domain.LicenseExtended:
		return 4
	default:
		return 1
	}
}

// FinalPrice computes basePrice scaled by the tier multiplier. The result is
// stored unrounded; rounding happens only at display and payment boundaries so
// totals never accumulate rounding error.
func FinalPrice(basePrice float64, tier domain.LicenseTier) float64 {
	return basePrice * Multiplier(tier)
}

// DisplayPrice rounds to two decimal places for presentation.
func DisplayPrice(price float64) float64 {
	return math.Round(price*100) / 100
}

// MinorUnits converts a major-unit amount to integer minor units (cents), the
// only form the payment collaborator accepts.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
