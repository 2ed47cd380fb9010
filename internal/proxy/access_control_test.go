package proxy

import (
	"context"
	"errors"
	"testing"

	"chat-threads/internal/domain/thread"
	thread_errors "chat-threads/pkg/errors"

	"github.com/stretchr/testify/assert"
)

type ownerRepo struct {
	owners map[int64]int64
	err    error
}

func (r ownerRepo) Create(ctx context.Context, t *thread.Thread) error { return nil }
func (r ownerRepo) ListByCreator(ctx context.Context, userID int64) ([]thread.Thread, error) {
	return nil, nil
}
func (r ownerRepo) Update(ctx context.Context, threadID int64, upd thread.Update) error { return nil }
func (r ownerRepo) Delete(ctx context.Context, threadID int64) error                    { return nil }

func (r ownerRepo) IsOwnedBy(ctx context.Context, threadID, userID int64) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	owner, ok := r.owners[threadID]
	return ok && owner == userID, nil
}

func TestCanAccessThread(t *testing.T) {
	ac := NewAccessControl(ownerRepo{owners: map[int64]int64{7: 42}})
	ctx := context.Background()

	assert.NoError(t, ac.CanAccessThread(ctx, 42, 7))
	assert.ErrorIs(t, ac.CanAccessThread(ctx, 99, 7), thread_errors.ErrAccessDenied)
	assert.ErrorIs(t, ac.CanAccessThread(ctx, 42, 8), thread_errors.ErrAccessDenied)
}

func TestCanAccessThreadPropagatesStorageErrors(t *testing.T) {
	cause := errors.New("timeout")
	ac := NewAccessControl(ownerRepo{err: cause})

	err := ac.CanAccessThread(context.Background(), 42, 7)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, thread_errors.ErrAccessDenied)
}

func TestNilRepositoryDenies(t *testing.T) {
	ac := NewAccessControl(nil)
	assert.ErrorIs(t, ac.CanAccessThread(context.Background(), 42, 7), thread_errors.ErrAccessDenied)
}
