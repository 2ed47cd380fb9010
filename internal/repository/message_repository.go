package repository

import (
	"context"

	"chat-threads/internal/domain/message"
	"chat-threads/pkg/database"

	"github.com/jackc/pgx/v5"
)

const (
	listMessagesSQL = `SELECT id, thread_id, content, role, date_created
		FROM messages WHERE thread_id = $1 ORDER BY date_created, id`
	deleteThreadMessagesSQL = `DELETE FROM messages WHERE thread_id = $1`
)

type PostgresMessageRepository struct {
	db database.DBTX
}

func NewMessageRepository(db database.DBTX) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) ListByThread(ctx context.Context, threadID int64) ([]message.Message, error) {
	return database.SelectRows(ctx, r.db, scanMessage, listMessagesSQL, threadID)
}

func (r *PostgresMessageRepository) DeleteByThread(ctx context.Context, threadID int64) (int64, error) {
	return database.Exec(ctx, r.db, deleteThreadMessagesSQL, threadID)
}

func scanMessage(row pgx.CollectableRow) (message.Message, error) {
	var m message.Message
	err := row.Scan(&m.ID, &m.ThreadID, &m.Content, &m.Role, &m.DateCreated)
	return m, err
}
