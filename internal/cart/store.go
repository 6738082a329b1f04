// Package cart owns the buyer's cart: ordered line items with prices frozen at
// add time, persisted to local storage after every mutation.
package cart

import (
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"stockfront/internal/domain"
	"stockfront/internal/license"
	"stockfront/internal/localstore"
)

type snapshotStore interface {
	Get(key string, v interface{}) bool
	Put(key string, v interface{}) error
}

// Store holds the cart. Mutations go through Add/Remove/Clear only; each one
// writes the full snapshot before returning, so a restart right after a
// mutation always observes the latest state.
type Store struct {
	mu        sync.Mutex
	snapshots snapshotStore
	logger    *log.Logger

	items   []domain.CartLineItem
	subs    map[int]func()
	nextSub int
}

// New restores the cart from the last snapshot, falling back to an empty cart
// on absent or malformed data.
func New(snapshots snapshotStore, logger *log.Logger) *Store {
	s := &Store{
		snapshots: snapshots,
		logger:    logger,
		subs:      make(map[int]func()),
	}
	var items []domain.CartLineItem
	if snapshots.Get(localstore.KeyCart, &items) {
		for _, it := range items {
			if it.ImageID == "" || !it.License.Valid() || !validPrice(it.FinalPrice) {
				if logger != nil {
					logger.Printf("dropping invalid persisted line item %q", it.ImageID)
				}
				continue
			}
			s.items = append(s.items, it)
		}
	}
	return s
}

// Add inserts a line item for (image, tier) with the final price computed and
// frozen now. Adding an existing (imageId, license) pair is a no-op.
func (s *Store) Add(image domain.Image, tier domain.LicenseTier) (domain.CartLineItem, bool, error) {
	if image.ID == "" || !tier.Valid() || !validPrice(image.Price) {
		return domain.CartLineItem{}, false, domain.ErrInvalidLineItem
	}

	s.mu.Lock()
	for _, it := range s.items {
		if it.Matches(image.ID, tier) {
			s.mu.Unlock()
			return it, false, nil
		}
	}
	item := domain.CartLineItem{
		ID:         uuid.NewString(),
		ImageID:    image.ID,
		License:    tier,
		Title:      image.Title,
		ImageURL:   image.ImageURL,
		BasePrice:  image.Price,
		FinalPrice: license.FinalPrice(image.Price, tier),
		AddedAt:    time.Now().UTC(),
	}
	s.items = append(s.items, item)
	if err := s.persistLocked(); err != nil {
		s.items = s.items[:len(s.items)-1]
		s.mu.Unlock()
		return domain.CartLineItem{}, false, err
	}
	s.mu.Unlock()

	s.notify()
	return item, true, nil
}

// Remove deletes the matching entry if present; a miss is a no-op.
func (s *Store) Remove(imageID string, tier domain.LicenseTier) (bool, error) {
	s.mu.Lock()
	old := s.items
	kept := make([]domain.CartLineItem, 0, len(old))
	found := false
	for _, it := range old {
		if !found && it.Matches(imageID, tier) {
			found = true
			continue
		}
		kept = append(kept, it)
	}
	if !found {
		s.mu.Unlock()
		return false, nil
	}
	s.items = kept
	if err := s.persistLocked(); err != nil {
		s.items = old
		s.mu.Unlock()
		return false, err
	}
	s.mu.Unlock()

	s.notify()
	return true, nil
}

// Clear empties the cart. Checkout calls this only after confirmed payment.
func (s *Store) Clear() error {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return nil
	}
	old := s.items
	s.items = nil
	if err := s.persistLocked(); err != nil {
		s.items = old
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.notify()
	return nil
}

// Items returns the line items in insertion order.
func (s *Store) Items() []domain.CartLineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartLineItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total sums the frozen final prices.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, it := range s.items {
		total += it.FinalPrice
	}
	return total
}

// Count returns the number of line items.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// ImageIDs returns the image identifiers in cart order, one per line item.
func (s *Store) ImageIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.items))
	for _, it := range s.items {
		ids = append(ids, it.ImageID)
	}
	return ids
}

// Subscribe registers a change callback fired after every applied mutation.
// The returned function unsubscribes.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) persistLocked() error {
	items := s.items
	if items == nil {
		items = []domain.CartLineItem{}
	}
	if err := s.snapshots.Put(localstore.KeyCart, items); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

func (s *Store) notify() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func validPrice(p float64) bool {
	return !math.IsNaN(p) && !math.IsInf(p, 0) && p >= 0
}
