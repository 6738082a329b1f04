package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"stockfront/internal/domain"
)

// PaymentClient requests payment sessions and submits confirmations. The
// collaborator is the sole source of truth for moving money; the storefront
// never asserts success without an explicit confirmation result.
type PaymentClient struct {
	c *Client
}

func NewPaymentClient(c *Client) *PaymentClient { return &PaymentClient{c: c} }

type paymentIntentRequest struct {
	Amount   int64    `json:"amount"` // minor units, already rounded
	ImageIDs []string `json:"image_ids"`
}

type paymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// PaymentDetails carries the buyer-entered payment method fields submitted at
// confirmation time. The storefront passes them through opaquely.
type PaymentDetails struct {
	Method string `json:"method,omitempty"`
}

// CreatePaymentSession asks the collaborator for a client secret authorizing
// collection of exactly amountMinorUnits against the given images.
func (pc *PaymentClient) CreatePaymentSession(ctx context.Context, token string, amountMinorUnits int64, imageIDs []string) (string, error) {
	var out paymentIntentResponse
	req := paymentIntentRequest{Amount: amountMinorUnits, ImageIDs: imageIDs}
	if err := pc.c.do(ctx, http.MethodPost, "/api/create-payment-intent", nil, token, req, &out); err != nil {
		return "", asPaymentError(err)
	}
	if out.ClientSecret == "" {
		return "", &domain.PaymentError{Reason: "empty client secret"}
	}
	return out.ClientSecret, nil
}

// ConfirmPayment submits the confirmation for a previously issued client
// secret. A nil return is the only signal of a successful charge.
func (pc *PaymentClient) ConfirmPayment(ctx context.Context, token, clientSecret string, details PaymentDetails) error {
	q := url.Values{}
	q.Set("payment_intent_id", intentIDFromSecret(clientSecret))
	if err := pc.c.do(ctx, http.MethodPost, "/api/confirm-payment", q, token, details, nil); err != nil {
		return asPaymentError(err)
	}
	return nil
}

// intentIDFromSecret strips the secret suffix from a Stripe-style client
// secret ("pi_123_secret_456" -> "pi_123").
func intentIDFromSecret(secret string) string {
	if idx := strings.Index(secret, "_secret"); idx > 0 {
		return secret[:idx]
	}
	return secret
}

// asPaymentError converts collaborator rejections into domain.PaymentError
// while leaving transport and auth failures recognizable with errors.Is.
func asPaymentError(err error) error {
	if errors.Is(err, domain.ErrUnavailable) || errors.Is(err, domain.ErrUnauthorized) {
		return err
	}
	var pe *domain.PaymentError
	if errors.As(err, &pe) {
		return err
	}
	return &domain.PaymentError{Reason: fmt.Sprintf("%v", err)}
}
