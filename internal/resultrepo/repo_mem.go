// Package resultrepo keeps completed transfer attempts for the lifetime of the process.
package resultrepo

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-transfer/internal/domain"
)

// RepoMem is an in-memory store of completed attempts.
type RepoMem struct {
	mu       sync.RWMutex
	attempts map[uuid.UUID]domain.Attempt
}

// NewRepoMem returns an empty result store.
func NewRepoMem() *RepoMem {
	return &RepoMem{attempts: make(map[uuid.UUID]domain.Attempt)}
}

// Save records a completed attempt. Saving the same id twice keeps the latest copy.
func (r *RepoMem) Save(ctx context.Context, attempt domain.Attempt) error {
	if err := ctx.Err(); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Send()
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.attempts[attempt.ID] = attempt

	return nil
}

// Get returns the completed attempt with the given id.
func (r *RepoMem) Get(ctx context.Context, id uuid.UUID) (domain.Attempt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	attempt, ok := r.attempts[id]
	if !ok {
		zerolog.Ctx(ctx).Info().Err(domain.ErrAttemptNotFound).Str("attempt_id", id.String()).Send()
		return domain.Attempt{}, domain.ErrAttemptNotFound
	}

	return attempt, nil
}

// Len returns the number of stored attempts.
func (r *RepoMem) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.attempts)
}
