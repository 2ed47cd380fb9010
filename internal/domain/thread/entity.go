package thread

import "time"

// Thread represents the threads table
type Thread struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	CreatorID   int64     `json:"creator_id"`
	DateCreated time.Time `json:"date_created"`
	Prompt      *string   `json:"prompt"`
	PromptID    *int64    `json:"prompt_id"`
}

// Update carries the client-supplied fields of a partial update. A nil field
// keeps its stored value.
type Update struct {
	Name     *string
	Prompt   *string
	PromptID *int64
}

func (u Update) IsEmpty() bool {
	return u.Name == nil && u.Prompt == nil && u.PromptID == nil
}

// NowUTC returns the current time truncated to microseconds, the precision
// PostgreSQL stores for date_created.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
