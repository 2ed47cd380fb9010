package repository

import (
	"context"
	"fmt"
	"strings"

	"chat-threads/internal/domain/thread"
	"chat-threads/pkg/database"
	thread_errors "chat-threads/pkg/errors"

	"github.com/jackc/pgx/v5"
)

// PostgresStore implements Store on top of a pool or an open transaction.
type PostgresStore struct {
	db   database.DBTX
	inTx bool
}

func NewPostgresStore(db database.DBTX) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Threads() ThreadRepository {
	return NewThreadRepository(s.db)
}

func (s *PostgresStore) Messages() MessageRepository {
	return NewMessageRepository(s.db)
}

// WithTx executes fn inside a transaction. If the store is already bound to
// a transaction, fn joins it.
func (s *PostgresStore) WithTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return database.WithTx(ctx, s.db, func(tx pgx.Tx) error {
		return fn(&PostgresStore{db: tx, inTx: true})
	})
}

// buildThreadUpdate assembles the UPDATE for the supplied fields only. Column
// names come from the fixed list below; every value is a bound parameter.
func buildThreadUpdate(threadID int64, upd thread.Update) (string, []any, error) {
	setParts := make([]string, 0, 3)
	args := make([]any, 0, 4)
	set := func(column string, value any) {
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if upd.Name != nil {
		set("name", *upd.Name)
	}
	if upd.Prompt != nil {
		set("prompt", *upd.Prompt)
	}
	if upd.PromptID != nil {
		set("prompt_id", *upd.PromptID)
	}

	if len(setParts) == 0 {
		return "", nil, fmt.Errorf("no update fields provided: %w", thread_errors.ErrInvalidRequest)
	}

	args = append(args, threadID)
	query := fmt.Sprintf("UPDATE threads SET %s WHERE id = $%d", strings.Join(setParts, ", "), len(args))
	return query, args, nil
}
