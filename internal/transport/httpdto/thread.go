package httpdto

import (
	"time"

	"chat-threads/internal/domain/message"
	"chat-threads/internal/domain/thread"
)

type CreateThreadRequest struct {
	Name string `json:"name"`
}

type CreateThreadResponse struct {
	ThreadID int64 `json:"thread_id"`
}

// UpdateThreadRequest uses pointers so an omitted field is told apart from
// an empty one.
type UpdateThreadRequest struct {
	Name     *string `json:"name"`
	Prompt   *string `json:"prompt"`
	PromptID *int64  `json:"prompt_id"`
}

func (r UpdateThreadRequest) ToDomain() thread.Update {
	return thread.Update{
		Name:     r.Name,
		Prompt:   r.Prompt,
		PromptID: r.PromptID,
	}
}

type ThreadDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	CreatorID   int64     `json:"creator_id"`
	DateCreated time.Time `json:"date_created"`
	Prompt      *string   `json:"prompt"`
	PromptID    *int64    `json:"prompt_id"`
}

func FromThread(t thread.Thread) ThreadDTO {
	return ThreadDTO{
		ID:          t.ID,
		Name:        t.Name,
		CreatorID:   t.CreatorID,
		DateCreated: t.DateCreated,
		Prompt:      t.Prompt,
		PromptID:    t.PromptID,
	}
}

func FromThreadSlice(items []thread.Thread) []ThreadDTO {
	out := make([]ThreadDTO, 0, len(items))
	for _, t := range items {
		out = append(out, FromThread(t))
	}
	return out
}

type MessageDTO struct {
	ID          int64     `json:"id"`
	ThreadID    int64     `json:"thread_id"`
	Content     string    `json:"content"`
	Role        string    `json:"role"`
	DateCreated time.Time `json:"date_created"`
}

func FromMessageSlice(items []message.Message) []MessageDTO {
	out := make([]MessageDTO, 0, len(items))
	for _, m := range items {
		out = append(out, MessageDTO{
			ID:          m.ID,
			ThreadID:    m.ThreadID,
			Content:     m.Content,
			Role:        m.Role,
			DateCreated: m.DateCreated,
		})
	}
	return out
}
