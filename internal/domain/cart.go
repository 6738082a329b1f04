package domain

import "time"

// CartLineItem is one (image, license) pairing in the cart. FinalPrice is
// frozen at add time so later catalog price changes never move an agreed price.
type CartLineItem struct {
	ID         string      `json:"id"`
	ImageID    string      `json:"imageId"`
	License    LicenseTier `json:"license"`
	Title      string      `json:"title,omitempty"`
	ImageURL   string      `json:"imageUrl,omitempty"`
	BasePrice  float64     `json:"basePrice"`
	FinalPrice float64     `json:"finalPrice"`
	AddedAt    time.Time   `json:"addedAt"`
}

// Matches reports whether the line item carries the given cart key.
func (l CartLineItem) Matches(imageID string, license LicenseTier) bool {
	return l.ImageID == imageID && l.License == license
}
