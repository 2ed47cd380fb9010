package message

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message represents the messages table
type Message struct {
	ID          int64     `json:"id"`
	ThreadID    int64     `json:"thread_id"`
	Content     string    `json:"content"`
	Role        string    `json:"role"`
	DateCreated time.Time `json:"date_created"`
}
