// Package checkout drives the payment flow: it turns the current cart into a
// payment session, collects the confirmation, and clears the cart only after
// the payment collaborator reports success.
package checkout

import (
	"context"
	"errors"
	"log"
	"sync"

	"stockfront/internal/backend"
	"stockfront/internal/domain"
	"stockfront/internal/license"
)

// State is the orchestrator's position in the checkout flow.
type State string

const (
	StateIdle                  State = "idle"
	StateAwaitingPaymentHandle State = "awaiting_payment_handle"
	StateReady                 State = "ready"
	StateSubmitting            State = "submitting"
	StateSucceeded             State = "succeeded"
	StateFailed                State = "failed"
)

var (
	// ErrNotReady is returned when Submit is attempted without a valid
	// payment session for the current cart.
	ErrNotReady = errors.New("checkout is not ready for submission")
	// ErrEmptyCart is returned when checkout is entered or submitted with
	// nothing to pay for.
	ErrEmptyCart = errors.New("cart is empty")
)

type cartStore interface {
	Items() []domain.CartLineItem
	Total() float64
	Count() int
	ImageIDs() []string
	Clear() error
	Subscribe(fn func()) func()
}

type paymentClient interface {
	CreatePaymentSession(ctx context.Context, token string, amountMinorUnits int64, imageIDs []string) (string, error)
	ConfirmPayment(ctx context.Context, token, clientSecret string, details backend.PaymentDetails) error
}

type tokenSource interface {
	Token() string
}

// Status is a read-only view of the orchestrator for the checkout surface.
type Status struct {
	State            State   `json:"state"`
	ClientSecret     string  `json:"clientSecret,omitempty"`
	AmountMinorUnits int64   `json:"amountMinorUnits,omitempty"`
	Total            float64 `json:"total"`
	LastError        string  `json:"lastError,omitempty"`
}

// Orchestrator owns the checkout state machine. A generation counter guards
// against applying a stale payment session to a cart that changed while the
// request was in flight.
type Orchestrator struct {
	cart     cartStore
	payments paymentClient
	tokens   tokenSource
	logger   *log.Logger

	mu           sync.Mutex
	active       bool
	state        State
	clientSecret string
	amountMinor  int64
	generation   uint64
	cartDirty    bool
	lastErr      string
	cancel       context.CancelFunc
	unsubscribe  func()
}

// New wires the orchestrator to the cart store; cart changes re-request the
// payment session per the staleness rules.
func New(cart cartStore, payments paymentClient, tokens tokenSource, logger *log.Logger) *Orchestrator {
	o := &Orchestrator{
		cart:     cart,
		payments: payments,
		tokens:   tokens,
		logger:   logger,
		state:    StateIdle,
	}
	o.unsubscribe = cart.Subscribe(o.onCartChanged)
	return o
}

// Enter marks the checkout surface active. A non-empty cart with a positive
// total triggers the payment session request; otherwise the flow stays Idle.
func (o *Orchestrator) Enter() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = true
	if o.state == StateSubmitting || o.state == StateSucceeded {
		return nil
	}
	if o.cart.Count() == 0 || o.cart.Total() <= 0 {
		o.toIdleLocked()
		return ErrEmptyCart
	}
	o.refreshLocked()
	return nil
}

// Leave deactivates the surface, cancels any in-flight session request, and
// resets to Idle. A Succeeded outcome is preserved for the confirmation view.
func (o *Orchestrator) Leave() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.active = false
	if o.state == StateSucceeded {
		return
	}
	o.toIdleLocked()
}

// Submit sends the payment confirmation. On success the cart is cleared and
// the flow transitions to Succeeded; on rejection the cart is preserved and
// the flow returns to Ready so the buyer can resubmit.
func (o *Orchestrator) Submit(ctx context.Context, details backend.PaymentDetails) error {
	o.mu.Lock()
	if o.state != StateReady {
		o.mu.Unlock()
		return ErrNotReady
	}
	if o.cart.Count() == 0 {
		o.toIdleLocked()
		o.mu.Unlock()
		return ErrEmptyCart
	}
	secret := o.clientSecret
	if secret == "" {
		o.mu.Unlock()
		return ErrNotReady
	}
	o.state = StateSubmitting
	o.lastErr = ""
	o.cartDirty = false
	o.mu.Unlock()

	err := o.payments.ConfirmPayment(ctx, o.tokens.Token(), secret, details)

	o.mu.Lock()
	if err != nil {
		// Rejection surfaces to the caller. If the cart held still the flow
		// rests in Ready so the buyer can resubmit against the same session;
		// a cart that moved mid-flight makes the secret stale, so a fresh
		// session is requested instead.
		if o.cartDirty {
			if o.cart.Count() == 0 || o.cart.Total() <= 0 {
				o.toIdleLocked()
			} else {
				o.refreshLocked()
			}
		} else {
			o.state = StateReady
		}
		o.lastErr = err.Error()
		o.mu.Unlock()
		if o.logger != nil {
			o.logger.Printf("payment confirmation failed: %v", err)
		}
		return err
	}

	o.state = StateSucceeded
	o.clientSecret = ""
	o.mu.Unlock()

	// Clearing outside the lock: the clear notification re-enters
	// onCartChanged, which sees Succeeded and stays quiet.
	if clearErr := o.cart.Clear(); clearErr != nil && o.logger != nil {
		o.logger.Printf("clear cart after payment: %v", clearErr)
	}
	return nil
}

// Retry re-requests a payment session after a failed handle request.
func (o *Orchestrator) Retry() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.active || o.state == StateSubmitting || o.state == StateSucceeded {
		return
	}
	if o.cart.Count() == 0 || o.cart.Total() <= 0 {
		o.toIdleLocked()
		return
	}
	o.refreshLocked()
}

// Status reports the current state for the checkout surface.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Status{
		State:            o.state,
		ClientSecret:     o.clientSecret,
		AmountMinorUnits: o.amountMinor,
		Total:            o.cart.Total(),
		LastError:        o.lastErr,
	}
}

// Close detaches the orchestrator from the cart store.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	unsub := o.unsubscribe
	o.unsubscribe = nil
	o.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

// onCartChanged implements the staleness rules: any cart change before
// Submitting invalidates the current session and requests a fresh one; a cart
// emptied elsewhere drops the flow back to Idle.
func (o *Orchestrator) onCartChanged() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state == StateSubmitting {
		// Too late to cancel the confirmation; remembered so the failure
		// transition re-prices instead of keeping the now-stale secret.
		o.cartDirty = true
		return
	}
	if !o.active || o.state == StateSucceeded {
		return
	}
	if o.cart.Count() == 0 || o.cart.Total() <= 0 {
		o.toIdleLocked()
		return
	}
	o.refreshLocked()
}

// refreshLocked starts a new payment session request. Bumping the generation
// first makes any response still in flight stale: it will be discarded when it
// arrives instead of being applied to a cart it no longer describes.
func (o *Orchestrator) refreshLocked() {
	o.generation++
	gen := o.generation
	o.state = StateAwaitingPaymentHandle
	o.clientSecret = ""
	o.cartDirty = false
	o.lastErr = ""

	if o.cancel != nil {
		o.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel

	amount := license.MinorUnits(o.cart.Total())
	imageIDs := o.cart.ImageIDs()
	token := o.tokens.Token()
	o.amountMinor = amount

	go func() {
		secret, err := o.payments.CreatePaymentSession(ctx, token, amount, imageIDs)
		o.applyHandle(gen, secret, err)
	}()
}

func (o *Orchestrator) applyHandle(gen uint64, secret string, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.generation || o.state != StateAwaitingPaymentHandle {
		if o.logger != nil {
			o.logger.Printf("discarding stale payment session response (gen %d)", gen)
		}
		return
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		o.state = StateFailed
		o.lastErr = err.Error()
		if o.logger != nil {
			o.logger.Printf("payment session request failed: %v", err)
		}
		return
	}
	o.state = StateReady
	o.clientSecret = secret
}

func (o *Orchestrator) toIdleLocked() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
	o.state = StateIdle
	o.clientSecret = ""
	o.amountMinor = 0
	o.cartDirty = false
}
