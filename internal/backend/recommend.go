package backend

import (
	"context"
	"fmt"
	"net/http"

	"stockfront/internal/domain"
)

// RecommendClient calls the AI recommendation collaborator used by the bulk
// buy flow.
type RecommendClient struct {
	c *Client
}

func NewRecommendClient(c *Client) *RecommendClient { return &RecommendClient{c: c} }

type recommendRequest struct {
	Requirements string  `json:"requirements"`
	Quantity     int     `json:"quantity"`
	Budget       float64 `json:"budget"`
}

// RecommendResult is the collaborator's selection for a bulk-buy request.
type RecommendResult struct {
	Images           []domain.Image `json:"images"`
	TotalRecommended int            `json:"total_recommended"`
}

// Recommend asks for a selection matching free-text requirements within the
// given quantity and budget.
func (rc *RecommendClient) Recommend(ctx context.Context, requirements string, quantity int, budget float64) (RecommendResult, error) {
	var out RecommendResult
	req := recommendRequest{Requirements: requirements, Quantity: quantity, Budget: budget}
	if err := rc.c.do(ctx, http.MethodPost, "/api/bulk-recommend", nil, "", req, &out); err != nil {
		return RecommendResult{}, fmt.Errorf("bulk recommend: %w", err)
	}
	return out, nil
}
