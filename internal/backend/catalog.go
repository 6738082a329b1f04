package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"stockfront/internal/domain"
)

// CatalogClient reads images and purchase history from the catalog
// collaborator. Read-only.
type CatalogClient struct {
	c *Client
}

func NewCatalogClient(c *Client) *CatalogClient { return &CatalogClient{c: c} }

// ListFilters narrows a catalog listing. Zero values mean "no filter".
type ListFilters struct {
	Category    string
	Search      string
	Orientation string
	Limit       int
}

func (f ListFilters) query() url.Values {
	q := url.Values{}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Orientation != "" {
		q.Set("orientation", f.Orientation)
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

type imageList struct {
	Images []domain.Image `json:"images"`
	Total  int            `json:"total"`
}

// ListImages fetches catalog entries matching the filters.
func (cc *CatalogClient) ListImages(ctx context.Context, filters ListFilters) ([]domain.Image, error) {
	var out imageList
	if err := cc.c.do(ctx, http.MethodGet, "/api/images", filters.query(), "", nil, &out); err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return out.Images, nil
}

// GetImage fetches one catalog entry; domain.ErrNotFound when absent.
func (cc *CatalogClient) GetImage(ctx context.Context, imageID string) (*domain.Image, error) {
	var out domain.Image
	if err := cc.c.do(ctx, http.MethodGet, "/api/images/"+imageID, nil, "", nil, &out); err != nil {
		return nil, fmt.Errorf("get image %s: %w", imageID, err)
	}
	return &out, nil
}

// UserPurchases fetches the purchase history for a buyer.
func (cc *CatalogClient) UserPurchases(ctx context.Context, token, userID string) ([]domain.Purchase, error) {
	var out []domain.Purchase
	if err := cc.c.do(ctx, http.MethodGet, "/api/users/"+userID+"/purchases", nil, token, nil, &out); err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	return out, nil
}
