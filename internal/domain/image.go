package domain

import "time"

// Image is a purchasable catalog asset as served by the catalog collaborator.
type Image struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Price          float64   `json:"price"`
	Currency       string    `json:"currency,omitempty"`
	Category       string    `json:"category,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	ImageURL       string    `json:"imageUrl"`
	ThumbnailURL   string    `json:"thumbnailUrl,omitempty"`
	Orientation    string    `json:"orientation,omitempty"`
	PhotographerID string    `json:"photographerId,omitempty"`
	Downloads      int       `json:"downloads"`
	Likes          int       `json:"likes"`
	UploadedAt     time.Time `json:"uploadedAt,omitempty"`
}
