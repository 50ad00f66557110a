package testfixtures

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/BruksfildServices01/reservas-api/internal/models"
)

// SlotCache is a map-backed cache that records hits, skipped writes and
// invalidations. It keeps a generation per location like the Redis cache.
type SlotCache struct {
	mu            sync.Mutex
	entries       map[string][]string
	gens          map[uint]int64
	Hits          int
	StaleSets     int
	Invalidations []string
}

func NewSlotCache() *SlotCache {
	return &SlotCache{
		entries: map[string][]string{},
		gens:    map[uint]int64{},
	}
}

func slotKey(locationID uint, date models.Date) string {
	return fmt.Sprintf("%d:%s", locationID, date)
}

func (c *SlotCache) Get(_ context.Context, locationID uint, date models.Date) ([]string, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.entries[slotKey(locationID, date)]
	if ok {
		c.Hits++
	}
	return s, c.gens[locationID], ok
}

func (c *SlotCache) Set(_ context.Context, locationID uint, date models.Date, gen int64, slots []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gens[locationID] {
		c.StaleSets++
		return
	}
	c.entries[slotKey(locationID, date)] = slots
}

func (c *SlotCache) Invalidate(_ context.Context, locationID uint, date models.Date) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := slotKey(locationID, date)
	c.gens[locationID]++
	delete(c.entries, key)
	c.Invalidations = append(c.Invalidations, key)
}

func (c *SlotCache) InvalidateLocation(_ context.Context, locationID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[locationID]++
	prefix := fmt.Sprintf("%d:", locationID)
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.Invalidations = append(c.Invalidations, prefix+"*")
}
