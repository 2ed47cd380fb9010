package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chat-threads/internal/domain/message"
	"chat-threads/internal/domain/thread"
	"chat-threads/internal/proxy"
	"chat-threads/internal/repository"
	thread_errors "chat-threads/pkg/errors"
	"chat-threads/pkg/logger"

	"go.uber.org/zap"
)

// ThreadCache caches the thread list of a user under a generation number.
// InvalidateThreadList moves the user to a new generation, so lists stored
// under an older one are never served again. Implemented by
// redis.CacheStore.
type ThreadCache interface {
	ListVersion(ctx context.Context, userID int64) (int64, error)
	GetThreadList(ctx context.Context, userID, version int64) ([]thread.Thread, bool, error)
	SetThreadList(ctx context.Context, userID, version int64, threads []thread.Thread) error
	InvalidateThreadList(ctx context.Context, userID int64) error
}

type ThreadService struct {
	store  repository.Store
	cache  ThreadCache
	logger *logger.Logger
	now    func() time.Time
}

// NewThreadService builds the service. cache may be nil.
func NewThreadService(store repository.Store, cache ThreadCache, l *logger.Logger) *ThreadService {
	if l == nil {
		l = logger.NewNop()
	}
	return &ThreadService{store: store, cache: cache, logger: l, now: thread.NowUTC}
}

// IsAccessible reports whether threadID exists and was created by userID.
// A missing thread and a thread owned by someone else both yield false.
func (s *ThreadService) IsAccessible(ctx context.Context, userID, threadID int64) (bool, error) {
	err := s.access().CanAccessThread(ctx, userID, threadID)
	if errors.Is(err, thread_errors.ErrAccessDenied) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *ThreadService) Create(ctx context.Context, userID int64, name string) (int64, error) {
	t := &thread.Thread{
		Name:        name,
		CreatorID:   userID,
		DateCreated: s.now(),
	}
	err := s.writeTx(ctx, userID, func(tx repository.Store) error {
		return tx.Threads().Create(ctx, t)
	})
	if err != nil {
		return 0, fmt.Errorf("create thread: %w", err)
	}

	s.logger.InfoCtx(ctx, "thread created", zap.Int64("thread_id", t.ID))
	return t.ID, nil
}

// List returns the threads of userID ordered by creation time.
func (s *ThreadService) List(ctx context.Context, userID int64) ([]thread.Thread, error) {
	if s.cache == nil {
		return s.listFromStore(ctx, userID)
	}

	version, err := s.cache.ListVersion(ctx, userID)
	if err != nil {
		s.logger.WarnCtx(ctx, "thread list cache version read failed", zap.Error(err))
		return s.listFromStore(ctx, userID)
	}

	threads, hit, err := s.cache.GetThreadList(ctx, userID, version)
	if err != nil {
		s.logger.WarnCtx(ctx, "thread list cache read failed", zap.Error(err))
	} else if hit {
		return threads, nil
	}

	threads, err = s.listFromStore(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetThreadList(ctx, userID, version, threads); err != nil {
		s.logger.WarnCtx(ctx, "thread list cache write failed", zap.Error(err))
	}
	return threads, nil
}

func (s *ThreadService) listFromStore(ctx context.Context, userID int64) ([]thread.Thread, error) {
	threads, err := s.store.Threads().ListByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	return threads, nil
}

// Delete removes the thread and all of its messages in one transaction.
func (s *ThreadService) Delete(ctx context.Context, userID, threadID int64) error {
	err := s.writeTx(ctx, userID, func(tx repository.Store) error {
		if err := deleteThreadMessages(ctx, tx, userID, threadID); err != nil {
			return err
		}
		return tx.Threads().Delete(ctx, threadID)
	})
	if err != nil {
		return fmt.Errorf("delete thread %d: %w", threadID, err)
	}

	s.logger.InfoCtx(ctx, "thread deleted", zap.Int64("thread_id", threadID))
	return nil
}

// Update changes only the fields set in upd.
func (s *ThreadService) Update(ctx context.Context, userID, threadID int64, upd thread.Update) error {
	if err := s.access().CanAccessThread(ctx, userID, threadID); err != nil {
		return fmt.Errorf("update thread %d: %w", threadID, err)
	}
	if upd.IsEmpty() {
		return fmt.Errorf("update thread %d: no update fields provided: %w", threadID, thread_errors.ErrInvalidRequest)
	}
	err := s.writeTx(ctx, userID, func(tx repository.Store) error {
		return tx.Threads().Update(ctx, threadID, upd)
	})
	if err != nil {
		return fmt.Errorf("update thread %d: %w", threadID, err)
	}
	return nil
}

// DeleteMessagesOfThread empties the thread without removing it.
func (s *ThreadService) DeleteMessagesOfThread(ctx context.Context, userID, threadID int64) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		return deleteThreadMessages(ctx, tx, userID, threadID)
	})
	if err != nil {
		return fmt.Errorf("delete messages of thread %d: %w", threadID, err)
	}
	return nil
}

func (s *ThreadService) ListMessages(ctx context.Context, userID, threadID int64) ([]message.Message, error) {
	if err := s.access().CanAccessThread(ctx, userID, threadID); err != nil {
		return nil, fmt.Errorf("list messages of thread %d: %w", threadID, err)
	}
	msgs, err := s.store.Messages().ListByThread(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("list messages of thread %d: %w", threadID, err)
	}
	return msgs, nil
}

func (s *ThreadService) access() *proxy.AccessControl {
	return proxy.NewAccessControl(s.store.Threads())
}

// writeTx runs fn in a transaction that changes the thread list of userID.
// The list generation is bumped before commit and a failed bump rolls the
// write back. A second bump after commit drops lists that a concurrent List
// cached from pre-commit rows; its failure is only logged.
func (s *ThreadService) writeTx(ctx context.Context, userID int64, fn func(repository.Store) error) error {
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := fn(tx); err != nil {
			return err
		}
		if s.cache == nil {
			return nil
		}
		if err := s.cache.InvalidateThreadList(ctx, userID); err != nil {
			return fmt.Errorf("invalidate thread list: %w: %w", thread_errors.ErrStorageFailure, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateThreadList(ctx, userID); err != nil {
			s.logger.WarnCtx(ctx, "thread list cache invalidation failed", zap.Error(err))
		}
	}
	return nil
}

func deleteThreadMessages(ctx context.Context, store repository.Store, userID, threadID int64) error {
	if err := proxy.NewAccessControl(store.Threads()).CanAccessThread(ctx, userID, threadID); err != nil {
		return err
	}
	_, err := store.Messages().DeleteByThread(ctx, threadID)
	return err
}
