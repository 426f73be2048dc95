package api

import "time"

// A Thought represents a persisted thought.
type Thought struct {
	ID        int64
	Content   string
	CreatedAt time.Time
}
