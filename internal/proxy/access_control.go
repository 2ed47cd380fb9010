package proxy

import (
	"context"

	"chat-threads/internal/repository"
	thread_errors "chat-threads/pkg/errors"
)

// AccessControl gates thread operations on ownership. Build it from the
// repository of the transaction the guarded operation runs in.
type AccessControl struct {
	threadRepo repository.ThreadRepository
}

func NewAccessControl(threadRepo repository.ThreadRepository) *AccessControl {
	return &AccessControl{threadRepo: threadRepo}
}

// CanAccessThread returns ErrAccessDenied unless userID created threadID.
// Missing threads are reported the same way.
func (a *AccessControl) CanAccessThread(ctx context.Context, userID, threadID int64) error {
	if a.threadRepo == nil {
		return thread_errors.ErrAccessDenied
	}
	ok, err := a.threadRepo.IsOwnedBy(ctx, threadID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return thread_errors.ErrAccessDenied
	}
	return nil
}
