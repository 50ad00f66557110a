package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/reservas-api/internal/logger"
	"github.com/BruksfildServices01/reservas-api/internal/models"
)

const (
	keyPrefix = "reservas:slots"
	genPrefix = "reservas:slotsgen"
)

// setIfGen writes KEYS[2] only while the generation in KEYS[1] still equals
// ARGV[1]. ARGV[3] is the TTL in milliseconds, 0 for none.
var setIfGen = redis.NewScript(`
local gen = redis.call('GET', KEYS[1]) or '0'
if gen ~= ARGV[1] then
	return 0
end
if tonumber(ARGV[3]) > 0 then
	redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
else
	redis.call('SET', KEYS[2], ARGV[2])
end
return 1
`)

// NewRedisClient connects to REDIS_URL and pings it. Callers fall back to
// NoopSlots when it fails.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, errors.New("redis url not configured")
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return client, nil
}

// ======================================================
// Redis
// ======================================================

// RedisSlots caches the available-slots answer per location and date.
// Cache errors are logged and treated as misses.
type RedisSlots struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewRedisSlots(client *redis.Client, ttl time.Duration, log *logger.Logger) *RedisSlots {
	if log == nil {
		log = logger.Discard()
	}
	return &RedisSlots{client: client, ttl: ttl, log: log}
}

func SlotsKey(locationID uint, date models.Date) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, locationID, date.String())
}

// GenKey holds the location's generation. It has no TTL so it only grows.
func GenKey(locationID uint) string {
	return fmt.Sprintf("%s:%d", genPrefix, locationID)
}

func locationPattern(locationID uint) string {
	return fmt.Sprintf("%s:%d:*", keyPrefix, locationID)
}

func (c *RedisSlots) Get(ctx context.Context, locationID uint, date models.Date) ([]string, int64, bool) {
	var genCmd *redis.StringCmd
	var slotsCmd *redis.StringCmd

	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		genCmd = p.Get(ctx, GenKey(locationID))
		slotsCmd = p.Get(ctx, SlotsKey(locationID, date))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn("slots cache get failed", "location_id", locationID, "error", err)
		return nil, -1, false
	}

	gen, err := parseGen(genCmd)
	if err != nil {
		c.log.Warn("slots cache generation unreadable", "location_id", locationID, "error", err)
		return nil, -1, false
	}

	raw, err := slotsCmd.Bytes()
	if err != nil {
		return nil, gen, false
	}

	var slots []string
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, gen, false
	}
	return slots, gen, true
}

func parseGen(cmd *redis.StringCmd) (int64, error) {
	raw, err := cmd.Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

// Set is skipped for a negative gen, which Get returns when the generation
// could not be read.
func (c *RedisSlots) Set(ctx context.Context, locationID uint, date models.Date, gen int64, slots []string) {
	if gen < 0 {
		return
	}
	b, err := json.Marshal(slots)
	if err != nil {
		return
	}

	keys := []string{GenKey(locationID), SlotsKey(locationID, date)}
	err = setIfGen.Run(ctx, c.client, keys, strconv.FormatInt(gen, 10), b, c.ttl.Milliseconds()).Err()
	if err != nil {
		c.log.Warn("slots cache set failed", "location_id", locationID, "error", err)
	}
}

func (c *RedisSlots) Invalidate(ctx context.Context, locationID uint, date models.Date) {
	_, err := c.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, GenKey(locationID))
		p.Del(ctx, SlotsKey(locationID, date))
		return nil
	})
	if err != nil {
		c.log.Warn("slots cache invalidate failed", "location_id", locationID, "error", err)
	}
}

// InvalidateLocation drops every cached day of a location, used when its
// operating hours change.
func (c *RedisSlots) InvalidateLocation(ctx context.Context, locationID uint) {
	if err := c.client.Incr(ctx, GenKey(locationID)).Err(); err != nil {
		c.log.Warn("slots cache generation bump failed", "location_id", locationID, "error", err)
	}

	iter := c.client.Scan(ctx, 0, locationPattern(locationID), 100).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("slots cache scan failed", "location_id", locationID, "error", err)
		return
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("slots cache invalidate failed", "location_id", locationID, "error", err)
	}
}

// ======================================================
// Noop
// ======================================================

type NoopSlots struct{}

func (NoopSlots) Get(context.Context, uint, models.Date) ([]string, int64, bool) { return nil, 0, false }
func (NoopSlots) Set(context.Context, uint, models.Date, int64, []string)        {}
func (NoopSlots) Invalidate(context.Context, uint, models.Date)                  {}
func (NoopSlots) InvalidateLocation(context.Context, uint)                       {}
