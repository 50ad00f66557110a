package audit

import (
	"context"
	"time"
)

type Event struct {
	LocationID *uint
	UserID     *uint
	Action     string
	Entity     string
	EntityID   *uint
	Metadata   any
	OccurredAt time.Time
}

// Recorder persists or forwards an audit event.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

func UintPtr(v uint) *uint {
	if v == 0 {
		return nil
	}
	return &v
}
