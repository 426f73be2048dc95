package redis

import (
	"time"

	"github.com/leopalladium/thoughtboard/api"
)

// A thought represents a thought stored as a Redis hash.
type thought struct {
	ID        int64     `redis:"id"`
	Content   string    `redis:"content"`
	CreatedAt time.Time `redis:"created_at"`
}

func (t thought) APIThought() api.Thought {
	return api.Thought{
		ID:        t.ID,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
	}
}
