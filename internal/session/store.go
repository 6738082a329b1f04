// Package session owns the current authenticated identity, derived from a
// locally cached token and refreshed once at startup via the identity
// collaborator.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"stockfront/internal/domain"
	"stockfront/internal/localstore"
)

type identityClient interface {
	Login(ctx context.Context, email, password string) (string, domain.Identity, error)
	Register(ctx context.Context, name, email, password string) (string, domain.Identity, error)
	Me(ctx context.Context, token string) (domain.Identity, error)
}

type snapshotStore interface {
	Get(key string, v interface{}) bool
	Put(key string, v interface{}) error
	Delete(key string) error
}

// Store holds the optional identity plus its credential token. The cached
// copies are advisory; the collaborator remains the source of truth.
type Store struct {
	mu        sync.Mutex
	snapshots snapshotStore
	auth      identityClient
	logger    *log.Logger

	token    string
	identity *domain.Identity
	subs     map[int]func()
	nextSub  int
}

// New loads the cached token and identity. The identity stays provisional
// until Restore validates the token against the collaborator.
func New(snapshots snapshotStore, auth identityClient, logger *log.Logger) *Store {
	s := &Store{
		snapshots: snapshots,
		auth:      auth,
		logger:    logger,
		subs:      make(map[int]func()),
	}
	var token string
	if snapshots.Get(localstore.KeyToken, &token) {
		s.token = token
	}
	var cached domain.Identity
	if s.token != "" && snapshots.Get(localstore.KeyUser, &cached) {
		s.identity = &cached
	}
	return s
}

// Restore performs the one startup round trip: it validates the cached token
// and refreshes the identity. An expired or rejected token clears the cache;
// an unreachable collaborator keeps the cached identity and reports the error.
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()
	if token == "" {
		return nil
	}

	identity, err := s.auth.Me(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			if s.logger != nil {
				s.logger.Printf("cached token rejected, clearing session")
			}
			s.Logout()
			return domain.ErrUnauthorized
		}
		return fmt.Errorf("restore session: %w", err)
	}

	s.setSession(token, identity)
	return nil
}

// Login exchanges credentials for a session.
func (s *Store) Login(ctx context.Context, email, password string) (domain.Identity, error) {
	token, identity, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return domain.Identity{}, err
	}
	s.setSession(token, identity)
	return identity, nil
}

// Register creates an account and opens a session.
func (s *Store) Register(ctx context.Context, name, email, password string) (domain.Identity, error) {
	token, identity, err := s.auth.Register(ctx, name, email, password)
	if err != nil {
		return domain.Identity{}, err
	}
	s.setSession(token, identity)
	return identity, nil
}

// Logout drops the session and its cached snapshots.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.identity = nil
	if err := s.snapshots.Delete(localstore.KeyToken); err != nil && s.logger != nil {
		s.logger.Printf("drop token snapshot: %v", err)
	}
	if err := s.snapshots.Delete(localstore.KeyUser); err != nil && s.logger != nil {
		s.logger.Printf("drop user snapshot: %v", err)
	}
	s.mu.Unlock()
	s.notify()
}

// Current returns the identity, or ok=false when browsing anonymously.
func (s *Store) Current() (domain.Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.identity == nil {
		return domain.Identity{}, false
	}
	return *s.identity, true
}

// Token returns the cached credential token, empty when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// Subscribe registers a change callback; the returned function unsubscribes.
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

func (s *Store) setSession(token string, identity domain.Identity) {
	s.mu.Lock()
	s.token = token
	s.identity = &identity
	if err := s.snapshots.Put(localstore.KeyToken, token); err != nil && s.logger != nil {
		s.logger.Printf("cache token: %v", err)
	}
	if err := s.snapshots.Put(localstore.KeyUser, identity); err != nil && s.logger != nil {
		s.logger.Printf("cache identity: %v", err)
	}
	s.mu.Unlock()
	s.notify()
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
