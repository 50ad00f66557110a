package reservation

import (
	"context"

	"github.com/BruksfildServices01/reservas-api/internal/models"
)

// SlotCache stores the available-slots answer per location and date.
// Implementations must treat their own failures as misses.
//
// Every invalidation bumps the location's generation. Get reports the
// generation it saw on a miss and Set stores nothing when it has moved since,
// so an answer computed before a write commits never outlives that write.
type SlotCache interface {
	Get(ctx context.Context, locationID uint, date models.Date) (slots []string, gen int64, ok bool)
	Set(ctx context.Context, locationID uint, date models.Date, gen int64, slots []string)
	Invalidate(ctx context.Context, locationID uint, date models.Date)
}

type noCache struct{}

func (noCache) Get(context.Context, uint, models.Date) ([]string, int64, bool) { return nil, 0, false }
func (noCache) Set(context.Context, uint, models.Date, int64, []string)        {}
func (noCache) Invalidate(context.Context, uint, models.Date)                  {}

func orNoCache(c SlotCache) SlotCache {
	if c == nil {
		return noCache{}
	}
	return c
}
