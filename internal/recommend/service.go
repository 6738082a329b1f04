// Package recommend implements the AI-assisted bulk buy flow: collaborator
// recommendations with a documented local fallback, plus the volume discount
// quote shown alongside the selection.
package recommend

import (
	"context"
	"errors"
	"log"
	"strings"

	"stockfront/internal/backend"
	"stockfront/internal/domain"
)

const (
	// basePerImagePrice anchors the bulk offer before volume discounts.
	basePerImagePrice = 35.0
	// fallbackLimit caps the local selection shown when the collaborator
	// is unreachable.
	fallbackLimit = 20
)

var errRequirementsMissing = errors.New("requirements required")

type recommendClient interface {
	Recommend(ctx context.Context, requirements string, quantity int, budget float64) (backend.RecommendResult, error)
}

type catalogClient interface {
	ListImages(ctx context.Context, filters backend.ListFilters) ([]domain.Image, error)
}

// Quote is the bulk-buy result: the selection plus the priced offer. Degraded
// marks a local fallback selection after a collaborator failure; it must be
// surfaced to the buyer, never passed off as the real recommendation.
type Quote struct {
	Images           []domain.Image `json:"images"`
	TotalRecommended int            `json:"totalRecommended"`
	Degraded         bool           `json:"degraded"`
	DiscountPercent  int            `json:"discountPercent"`
	OriginalTotal    float64        `json:"originalTotal"`
	DiscountAmount   float64        `json:"discountAmount"`
	FinalTotal       float64        `json:"finalTotal"`
	AveragePrice     float64        `json:"averagePrice"`
}

// Service produces bulk-buy quotes.
type Service struct {
	recommender recommendClient
	catalog     catalogClient
	logger      *log.Logger
}

func New(recommender recommendClient, catalog catalogClient, logger *log.Logger) *Service {
	return &Service{recommender: recommender, catalog: catalog, logger: logger}
}

// DiscountPercent returns the volume discount for a requested quantity.
func DiscountPercent(quantity int) int {
	switch {
	case quantity >= 2000:
		return 30
	case quantity >= 1000:
		return 25
	case quantity >= 500:
		return 20
	default:
		return 0
	}
}

// Recommend asks the collaborator for a selection. On failure it degrades to a
// local subset of the catalog and flags the quote accordingly; only when the
// fallback also fails does the buyer see an error.
func (s *Service) Recommend(ctx context.Context, requirements string, quantity int, budget float64) (Quote, error) {
	if strings.TrimSpace(requirements) == "" {
		return Quote{}, errRequirementsMissing
	}
	if quantity <= 0 {
		return Quote{}, errors.New("quantity must be positive")
	}

	quote := s.priceQuote(quantity, budget)

	result, err := s.recommender.Recommend(ctx, requirements, quantity, budget)
	if err == nil {
		quote.Images = result.Images
		quote.TotalRecommended = result.TotalRecommended
		return quote, nil
	}
	if s.logger != nil {
		s.logger.Printf("recommendation collaborator failed, falling back to catalog subset: %v", err)
	}

	limit := quantity
	if limit > fallbackLimit {
		limit = fallbackLimit
	}
	images, fbErr := s.catalog.ListImages(ctx, backend.ListFilters{Limit: limit})
	if fbErr != nil {
		return Quote{}, err
	}
	if len(images) > limit {
		images = images[:limit]
	}
	quote.Images = images
	quote.TotalRecommended = len(images)
	quote.Degraded = true
	return quote, nil
}

func (s *Service) priceQuote(quantity int, budget float64) Quote {
	discount := DiscountPercent(quantity)
	original := float64(quantity) * basePerImagePrice
	discountAmount := original * float64(discount) / 100
	avg := 0.0
	if quantity > 0 {
		avg = budget / float64(quantity)
	}
	return Quote{
		DiscountPercent: discount,
		OriginalTotal:   original,
		DiscountAmount:  discountAmount,
		FinalTotal:      original - discountAmount,
		AveragePrice:    avg,
	}
}
