package domain

import (
	"fmt"
	"strings"
)

// LicenseTier is a usage-rights category that scales an image's base price by a
// fixed multiplier.
type LicenseTier string

const (
	LicensePersonal   LicenseTier = "personal"
	LicenseCommercial LicenseTier = "commercial"
	LicenseExtended   LicenseTier = "extended"
)

// Tiers lists every tier in display order.
func Tiers() []LicenseTier {
	return []LicenseTier{LicensePersonal, LicenseCommercial, LicenseExtended}
}

// ParseLicenseTier normalizes raw input into a known tier.
func ParseLicenseTier(raw string) (LicenseTier, error) {
	switch LicenseTier(strings.ToLower(strings.TrimSpace(raw))) {
	case LicensePersonal:
		return LicensePersonal, nil
	case LicenseCommercial:
		return LicenseCommercial, nil
	case LicenseExtended:
		return LicenseExtended, nil
	default:
		return "", fmt.Errorf("unknown license tier %q", raw)
	}
}

func (t LicenseTier) Valid() bool {
	switch t {
	case LicensePersonal, LicenseCommercial, LicenseExtended:
		return true
	}
	return false
}

func (t LicenseTier) String() string {
	return string(t)
}

// Title returns the tier name shown in the license picker.
func (t LicenseTier) Title() string {
	switch t {
	case LicensePersonal:
		return "Personal License"
	case LicenseCommercial:
		return "Commercial License"
	case LicenseExtended:
		return "Extended / LLC License"
	}
	return string(t)
}

// Description returns the usage summary shown in the license picker.
func (t LicenseTier) Description() string {
	switch t {
	case LicensePersonal:
		return "Use for personal projects, social media, blogs, and non-commercial purposes."
	case LicenseCommercial:
		return "Use for business websites, ads, marketing materials, and client projects."
	case LicenseExtended:
		return "Unlimited commercial usage including resale, SaaS, apps, and large-scale distribution."
	}
	return ""
}
