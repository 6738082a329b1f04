package domain

import "time"

// Purchase is a completed order as reported by the catalog collaborator.
type Purchase struct {
	ID          string    `json:"id"`
	ImageIDs    []string  `json:"imageIds"`
	TotalAmount float64   `json:"totalAmount"`
	PurchasedAt time.Time `json:"purchasedAt"`
}
