package repository

import (
	"context"

	"chat-threads/internal/domain/thread"
	"chat-threads/pkg/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertThreadSQL = `INSERT INTO threads (name, creator_id, date_created) VALUES ($1, $2, $3) RETURNING id`
	countOwnedSQL   = `SELECT COUNT(*) FROM threads WHERE creator_id = $1 AND id = $2`
	listThreadsSQL  = `SELECT id, name, creator_id, date_created, prompt, prompt_id
		FROM threads WHERE creator_id = $1 ORDER BY date_created, id`
	deleteThreadSQL = `DELETE FROM threads WHERE id = $1`
)

type PostgresThreadRepository struct {
	db database.DBTX
}

func NewThreadRepository(db database.DBTX) ThreadRepository {
	return &PostgresThreadRepository{db: db}
}

func (r *PostgresThreadRepository) Create(ctx context.Context, t *thread.Thread) error {
	id, err := database.InsertReturningID(ctx, r.db, insertThreadSQL, t.Name, t.CreatorID, t.DateCreated)
	if err != nil {
		return err
	}
	t.ID = id
	return nil
}

func (r *PostgresThreadRepository) IsOwnedBy(ctx context.Context, threadID, userID int64) (bool, error) {
	var count int64
	if err := r.db.QueryRow(ctx, countOwnedSQL, userID, threadID).Scan(&count); err != nil {
		return false, database.StorageError("count threads", err)
	}
	return count > 0, nil
}

func (r *PostgresThreadRepository) ListByCreator(ctx context.Context, userID int64) ([]thread.Thread, error) {
	return database.SelectRows(ctx, r.db, scanThread, listThreadsSQL, userID)
}

func (r *PostgresThreadRepository) Update(ctx context.Context, threadID int64, upd thread.Update) error {
	query, args, err := buildThreadUpdate(threadID, upd)
	if err != nil {
		return err
	}
	_, err = database.Exec(ctx, r.db, query, args...)
	return err
}

// Delete removes the thread row. Deleting an already deleted row is a no-op.
func (r *PostgresThreadRepository) Delete(ctx context.Context, threadID int64) error {
	_, err := database.Exec(ctx, r.db, deleteThreadSQL, threadID)
	return err
}

func scanThread(row pgx.CollectableRow) (thread.Thread, error) {
	var (
		t        thread.Thread
		prompt   pgtype.Text
		promptID pgtype.Int8
	)
	if err := row.Scan(&t.ID, &t.Name, &t.CreatorID, &t.DateCreated, &prompt, &promptID); err != nil {
		return thread.Thread{}, err
	}
	if prompt.Valid {
		p := prompt.String
		t.Prompt = &p
	}
	if promptID.Valid {
		id := promptID.Int64
		t.PromptID = &id
	}
	return t, nil
}
