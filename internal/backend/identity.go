package backend

import (
	"context"
	"fmt"
	"net/http"

	"stockfront/internal/domain"
)

// IdentityClient talks to the identity collaborator for login, registration,
// and token-based session restore.
type IdentityClient struct {
	c *Client
}

func NewIdentityClient(c *Client) *IdentityClient { return &IdentityClient{c: c} }

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string          `json:"token"`
	User  domain.Identity `json:"user"`
}

// Login exchanges credentials for a token plus identity.
func (ic *IdentityClient) Login(ctx context.Context, email, password string) (string, domain.Identity, error) {
	var out authResponse
	err := ic.c.do(ctx, http.MethodPost, "/api/auth/login", nil, "", loginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("login: %w", err)
	}
	return out.Token, out.User, nil
}

// Register creates an account and returns a token plus identity.
func (ic *IdentityClient) Register(ctx context.Context, name, email, password string) (string, domain.Identity, error) {
	var out authResponse
	err := ic.c.do(ctx, http.MethodPost, "/api/auth/register", nil, "", registerRequest{Name: name, Email: email, Password: password}, &out)
	if err != nil {
		return "", domain.Identity{}, fmt.Errorf("register: %w", err)
	}
	return out.Token, out.User, nil
}

// Me resolves the identity bound to a cached token; domain.ErrUnauthorized
// when the token is expired or invalid.
func (ic *IdentityClient) Me(ctx context.Context, token string) (domain.Identity, error) {
	var out domain.Identity
	if err := ic.c.do(ctx, http.MethodGet, "/api/me", nil, token, nil, &out); err != nil {
		return domain.Identity{}, fmt.Errorf("restore session: %w", err)
	}
	return out, nil
}
