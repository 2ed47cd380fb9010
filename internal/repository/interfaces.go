package repository

import (
	"context"

	"chat-threads/internal/domain/message"
	"chat-threads/internal/domain/thread"
)

type ThreadRepository interface {
	Create(ctx context.Context, t *thread.Thread) error
	IsOwnedBy(ctx context.Context, threadID, userID int64) (bool, error)
	ListByCreator(ctx context.Context, userID int64) ([]thread.Thread, error)
	Update(ctx context.Context, threadID int64, upd thread.Update) error
	Delete(ctx context.Context, threadID int64) error
}

type MessageRepository interface {
	ListByThread(ctx context.Context, threadID int64) ([]message.Message, error)
	DeleteByThread(ctx context.Context, threadID int64) (int64, error)
}

// Store hands out repositories bound to one database handle. WithTx runs fn
// against a Store whose repositories share a single transaction.
type Store interface {
	Threads() ThreadRepository
	Messages() MessageRepository
	WithTx(ctx context.Context, fn func(Store) error) error
}
