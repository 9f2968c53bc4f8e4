package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/lexqa/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/lexqa/internal/common"
	"github.com/dmitrijs2005/lexqa/internal/logging"
	"github.com/google/uuid"
)

// IdentityStore hands out the anonymous identity of this installation.
// The value is read or created once and memoized for the process lifetime.
type IdentityStore struct {
	repo  metadata.Repository
	log   logging.Logger
	newID func() string

	mu         sync.Mutex
	id         string
	persistent bool
	degraded   error
}

// NewIdentityStore returns a store backed by repo. A nil repo means durable
// storage is unavailable and every run gets a fresh identity.
func NewIdentityStore(repo metadata.Repository, log logging.Logger) *IdentityStore {
	return &IdentityStore{repo: repo, log: logging.OrDiscard(log), newID: uuid.NewString}
}

// GetOrCreate returns the stored identity, creating and persisting one on
// first use. Storage failures are not fatal: the identity then lives only
// for this process and Degraded reports why.
func (s *IdentityStore) GetOrCreate(ctx context.Context) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.id != "" {
		return s.id
	}

	id, err := s.load(ctx)
	if err != nil {
		s.degraded = fmt.Errorf("%w: %w", common.ErrIdentityUnavailable, err)
		s.log.Warn(ctx, "identity storage unavailable, using a session-only identity", "err", err)
		id = s.newID()
	} else {
		s.persistent = true
	}

	s.id = id
	return s.id
}

func (s *IdentityStore) load(ctx context.Context) (string, error) {
	if s.repo == nil {
		return "", fmt.Errorf("no durable storage configured")
	}

	stored, err := s.repo.Get(ctx, common.IdentityKey)
	if err != nil {
		return "", err
	}
	if len(stored) > 0 {
		return string(stored), nil
	}

	id := s.newID()
	if err := s.repo.Set(ctx, common.IdentityKey, []byte(id)); err != nil {
		return "", err
	}
	s.log.Info(ctx, "created new identity", "user_id", id)
	return id, nil
}

// Persistent reports whether the identity survives a restart.
func (s *IdentityStore) Persistent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistent
}

// Degraded returns the error wrapping common.ErrIdentityUnavailable when
// the identity could not be persisted, nil otherwise.
func (s *IdentityStore) Degraded() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}
