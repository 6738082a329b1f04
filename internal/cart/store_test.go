package cart

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stockfront/internal/domain"
	"stockfront/internal/localstore"
)

func newSnapshots(t *testing.T, dir string) *localstore.Store {
	t.Helper()
	s, err := localstore.New(dir, nil)
	if err != nil {
		t.Fatalf("new localstore: %v", err)
	}
	return s
}

func img(id string, price float64) domain.Image {
	return domain.Image{ID: id, Title: "img " + id, Price: price, ImageURL: "/images/" + id}
}

func TestAddFreezesFinalPrice(t *testing.T) {
	s := New(newSnapshots(t, t.TempDir()), nil)
	item, added, err := s.Add(img("a", 30), domain.LicenseCommercial)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !added {
		t.Fatalf("expected item added")
	}
	if item.FinalPrice != 60 || item.BasePrice != 30 {
		t.Fatalf("unexpected prices: %+v", item)
	}
}

func TestAddDuplicateIsNoOp(t *testing.T) {
	s := New(newSnapshots(t, t.TempDir()), nil)
	if _, _, err := s.Add(img("a", 30), domain.LicensePersonal); err != nil {
		t.Fatalf("add: %v", err)
	}
	_, added, err := s.Add(img("a", 99), domain.LicensePersonal)
	if err != nil {
		t.Fatalf("add duplicate: %v", err)
	}
	if added {
		t.Fatalf("duplicate add must be a no-op")
	}
	if s.Count() != 1 {
		t.Fatalf("expected 1 item, got %d", s.Count())
	}
	// Same image under a different license is a distinct line item.
	if _, added, _ := s.Add(img("a", 30), domain.LicenseExtended); !added {
		t.Fatalf("different license must add")
	}
	if s.Count() != 2 {
		t.Fatalf("expected 2 items, got %d", s.Count())
	}
}

func TestRemoveThenReAddRecomputesPrice(t *testing.T) {
	s := New(newSnapshots(t, t.TempDir()), nil)
	if _, _, err := s.Add(img("a", 30), domain.LicensePersonal); err != nil {
		t.Fatalf("add: %v", err)
	}
	removed, err := s.Remove("a", domain.LicensePersonal)
	if err != nil || !removed {
		t.Fatalf("remove: %v removed=%v", err, removed)
	}
	item, added, err := s.Add(img("a", 40), domain.LicensePersonal)
	if err != nil || !added {
		t.Fatalf("re-add: %v added=%v", err, added)
	}
	if item.FinalPrice != 40 {
		t.Fatalf("expected freshly computed price 40, got %v", item.FinalPrice)
	}
	if s.Count() != 1 {
		t.Fatalf("expected single entry, got %d", s.Count())
	}
}

func TestRemoveMissingIsNoOp(t *testing.T) {
	s := New(newSnapshots(t, t.TempDir()), nil)
	removed, err := s.Remove("ghost", domain.LicensePersonal)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if removed {
		t.Fatalf("expected no-op remove")
	}
}

func TestTotalUsesFrozenPrices(t *testing.T) {
	s := New(newSnapshots(t, t.TempDir()), nil)
	if _, _, err := s.Add(img("a", 30), domain.LicensePersonal); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := s.Add(img("b", 50), domain.LicenseCommercial); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := s.Total(); got != 130 {
		t.Fatalf("total: got %v, want 130", got)
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	s := New(newSnapshots(t, t.TempDir()), nil)
	if _, _, err := s.Add(img("", 10), domain.LicensePersonal); !errors.Is(err, domain.ErrInvalidLineItem) {
		t.Fatalf("expected invalid line item, got %v", err)
	}
	if _, _, err := s.Add(img("a", -1), domain.LicensePersonal); !errors.Is(err, domain.ErrInvalidLineItem) {
		t.Fatalf("expected invalid line item, got %v", err)
	}
	if _, _, err := s.Add(img("a", 10), domain.LicenseTier("vip")); !errors.Is(err, domain.ErrInvalidLineItem) {
		t.Fatalf("expected invalid line item, got %v", err)
	}
	if s.Count() != 0 {
		t.Fatalf("rejected adds must not mutate the cart")
	}
}

func TestPersistReloadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := New(newSnapshots(t, dir), nil)
	if _, _, err := s.Add(img("a", 30), domain.LicensePersonal); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := s.Add(img("b", 50), domain.LicenseCommercial); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := s.Remove("a", domain.LicensePersonal); err != nil {
		t.Fatalf("remove: %v", err)
	}

	reloaded := New(newSnapshots(t, dir), nil)
	items := reloaded.Items()
	if len(items) != 1 || items[0].ImageID != "b" || items[0].FinalPrice != 100 {
		t.Fatalf("unexpected reloaded cart: %+v", items)
	}
	if reloaded.Total() != 100 {
		t.Fatalf("reloaded total: got %v", reloaded.Total())
	}
}

func TestMalformedSnapshotYieldsEmptyCart(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "cart.json"), []byte("][ nope"), 0o644); err != nil {
		t.Fatalf("write corrupt snapshot: %v", err)
	}
	s := New(newSnapshots(t, dir), nil)
	if s.Count() != 0 {
		t.Fatalf("corrupt snapshot must restore as empty cart, got %d items", s.Count())
	}
}

func TestRestoreDropsInvalidEntries(t *testing.T) {
	dir := t.TempDir()
	snaps := newSnapshots(t, dir)
	raw := []map[string]interface{}{
		{"imageId": "good", "license": "personal", "basePrice": 10, "finalPrice": 10},
		{"imageId": "bad-license", "license": "vip", "finalPrice": 10},
		{"imageId": "", "license": "personal", "finalPrice": 10},
	}
	if err := snaps.Put(localstore.KeyCart, raw); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}
	s := New(newSnapshots(t, dir), nil)
	if s.Count() != 1 {
		t.Fatalf("expected 1 valid entry, got %d", s.Count())
	}
}

func TestSubscribeFiresOnMutations(t *testing.T) {
	s := New(newSnapshots(t, t.TempDir()), nil)
	fired := 0
	unsubscribe := s.Subscribe(func() { fired++ })

	if _, _, err := s.Add(img("a", 10), domain.LicensePersonal); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := s.Add(img("a", 10), domain.LicensePersonal); err != nil {
		t.Fatalf("duplicate add: %v", err)
	}
	if _, err := s.Remove("a", domain.LicensePersonal); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if fired != 2 {
		t.Fatalf("expected 2 notifications (no-ops stay silent), got %d", fired)
	}

	unsubscribe()
	if err := s.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if fired != 2 {
		t.Fatalf("unsubscribed callback must not fire")
	}
}

type failingSnapshots struct {
	err error
}

func (f *failingSnapshots) Get(string, interface{}) bool  { return false }
func (f *failingSnapshots) Put(string, interface{}) error { return f.err }

func TestPersistFailureRollsBackMutation(t *testing.T) {
	s := New(&failingSnapshots{err: errors.New("disk full")}, nil)
	if _, _, err := s.Add(img("a", 10), domain.LicensePersonal); err == nil {
		t.Fatalf("expected persist error")
	}
	if s.Count() != 0 {
		t.Fatalf("failed add must not leave the item in the cart")
	}
}
