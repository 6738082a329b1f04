package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"stockfront/internal/domain"
	"stockfront/internal/localstore"
)

type stubAuth struct {
	loginToken    string
	loginIdentity domain.Identity
	loginErr      error
	meIdentity    domain.Identity
	meErr         error
	meCalls       int
	lastToken     string
}

func (a *stubAuth) Login(_ context.Context, _, _ string) (string, domain.Identity, error) {
	return a.loginToken, a.loginIdentity, a.loginErr
}

func (a *stubAuth) Register(_ context.Context, _, _, _ string) (string, domain.Identity, error) {
	return a.loginToken, a.loginIdentity, a.loginErr
}

func (a *stubAuth) Me(_ context.Context, token string) (domain.Identity, error) {
	a.meCalls++
	a.lastToken = token
	return a.meIdentity, a.meErr
}

func newSnapshots(t *testing.T, dir string) *localstore.Store {
	t.Helper()
	s, err := localstore.New(dir, nil)
	if err != nil {
		t.Fatalf("new localstore: %v", err)
	}
	return s
}

func TestLoginCachesSession(t *testing.T) {
	dir := t.TempDir()
	auth := &stubAuth{loginToken: "tok-1", loginIdentity: domain.Identity{ID: "u1", Name: "Jo", Email: "jo@example.com"}}
	s := New(newSnapshots(t, dir), auth, nil)

	identity, err := s.Login(context.Background(), "jo@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if identity.ID != "u1" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
	if s.Token() != "tok-1" {
		t.Fatalf("token not cached")
	}

	// A fresh store sees the cached session before any round trip.
	reloaded := New(newSnapshots(t, dir), auth, nil)
	if got, ok := reloaded.Current(); !ok || got.ID != "u1" {
		t.Fatalf("expected cached identity, got %+v ok=%v", got, ok)
	}
}

func TestRestoreWithoutTokenIsNoOp(t *testing.T) {
	auth := &stubAuth{}
	s := New(newSnapshots(t, t.TempDir()), auth, nil)
	if err := s.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if auth.meCalls != 0 {
		t.Fatalf("restore must not call the collaborator without a token")
	}
}

func TestRestoreRefreshesIdentity(t *testing.T) {
	dir := t.TempDir()
	auth := &stubAuth{loginToken: "tok-1", loginIdentity: domain.Identity{ID: "u1", Name: "Old Name"}}
	s := New(newSnapshots(t, dir), auth, nil)
	if _, err := s.Login(context.Background(), "a", "b"); err != nil {
		t.Fatalf("login: %v", err)
	}

	auth.meIdentity = domain.Identity{ID: "u1", Name: "New Name", Role: "admin"}
	reloaded := New(newSnapshots(t, dir), auth, nil)
	if err := reloaded.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if auth.lastToken != "tok-1" {
		t.Fatalf("restore used wrong token %q", auth.lastToken)
	}
	got, ok := reloaded.Current()
	if !ok || got.Name != "New Name" || !got.IsAdmin() {
		t.Fatalf("identity not refreshed: %+v", got)
	}
}

func TestRestoreExpiredTokenClearsCache(t *testing.T) {
	dir := t.TempDir()
	auth := &stubAuth{loginToken: "tok-1", loginIdentity: domain.Identity{ID: "u1"}}
	s := New(newSnapshots(t, dir), auth, nil)
	if _, err := s.Login(context.Background(), "a", "b"); err != nil {
		t.Fatalf("login: %v", err)
	}

	auth.meErr = domain.ErrUnauthorized
	reloaded := New(newSnapshots(t, dir), auth, nil)
	if err := reloaded.Restore(context.Background()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, ok := reloaded.Current(); ok {
		t.Fatalf("expired token must clear identity")
	}
	if reloaded.Token() != "" {
		t.Fatalf("expired token must be dropped")
	}
	// The snapshots are gone too: a third load starts logged out.
	third := New(newSnapshots(t, dir), auth, nil)
	if third.Token() != "" {
		t.Fatalf("token snapshot must be deleted")
	}
}

func TestRestoreNetworkFailureKeepsCachedIdentity(t *testing.T) {
	dir := t.TempDir()
	auth := &stubAuth{loginToken: "tok-1", loginIdentity: domain.Identity{ID: "u1"}}
	s := New(newSnapshots(t, dir), auth, nil)
	if _, err := s.Login(context.Background(), "a", "b"); err != nil {
		t.Fatalf("login: %v", err)
	}

	auth.meErr = domain.ErrUnavailable
	reloaded := New(newSnapshots(t, dir), auth, nil)
	if err := reloaded.Restore(context.Background()); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
	if _, ok := reloaded.Current(); !ok {
		t.Fatalf("network failure must keep the cached identity")
	}
}

func TestCorruptUserSnapshotIsLoggedOut(t *testing.T) {
	dir := t.TempDir()
	snaps := newSnapshots(t, dir)
	if err := snaps.Put(localstore.KeyToken, "tok-1"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "user.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("corrupt user snapshot: %v", err)
	}
	s := New(newSnapshots(t, dir), &stubAuth{}, nil)
	if _, ok := s.Current(); ok {
		t.Fatalf("corrupt identity snapshot must read as logged out")
	}
	if s.Token() != "tok-1" {
		t.Fatalf("token should survive a corrupt identity snapshot")
	}
}

func TestLogoutNotifiesSubscribers(t *testing.T) {
	auth := &stubAuth{loginToken: "tok-1", loginIdentity: domain.Identity{ID: "u1"}}
	s := New(newSnapshots(t, t.TempDir()), auth, nil)
	fired := 0
	s.Subscribe(func() { fired++ })

	if _, err := s.Login(context.Background(), "a", "b"); err != nil {
		t.Fatalf("login: %v", err)
	}
	s.Logout()
	if fired != 2 {
		t.Fatalf("expected 2 notifications, got %d", fired)
	}
	if _, ok := s.Current(); ok {
		t.Fatalf("logout must clear identity")
	}
}
