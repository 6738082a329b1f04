package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates the cached or supplied credential was rejected.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrUnavailable indicates a collaborator could not be reached.
	ErrUnavailable = errors.New("collaborator unavailable")
	// ErrInvalidLineItem indicates a cart mutation carried malformed data.
	ErrInvalidLineItem = errors.New("invalid line item")
)

// PaymentError carries the payment collaborator's rejection verbatim so it can
// be surfaced to the buyer without translation.
type PaymentError struct {
	Reason string
}

func (e *PaymentError) Error() string {
	if e.Reason == "" {
		return "payment failed"
	}
	return "payment failed: " + e.Reason
}
