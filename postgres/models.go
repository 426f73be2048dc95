package postgres

import (
	"time"

	"github.com/leopalladium/thoughtboard/api"
	"github.com/uptrace/bun"
)

// A thought represents a thought in the database.
type thought struct {
	bun.BaseModel `bun:"table:thoughts,alias:thought"`

	ID        int64     `bun:",pk,autoincrement"`
	Content   string    `bun:",notnull"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}

func (t thought) APIThought() api.Thought {
	return api.Thought{
		ID:        t.ID,
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
	}
}
