package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/JonMunkholm/bizdir/internal/config"
	"github.com/JonMunkholm/bizdir/internal/core"
	"github.com/JonMunkholm/bizdir/internal/logging"
)

// DefaultCacheTTL applies when the configured TTL is not positive.
const DefaultCacheTTL = 5 * time.Minute

// redisCommands is the subset of the go-redis client used by the cache.
type redisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// CachedCatalog decorates a CatalogStore with a Redis cache of query results.
//
// Each entity kind has a generation counter. Cache keys embed the current
// generation, and a successful insert bumps it, so stale entries are never read
// and simply expire. Redis failures are logged and the wrapped store answers.
type CachedCatalog struct {
	next  core.CatalogStore
	redis redisCommands
	ttl   time.Duration
}

var _ core.CatalogStore = (*CachedCatalog)(nil)

// NewCachedCatalog wraps next with a cache backed by client.
func NewCachedCatalog(next core.CatalogStore, client redisCommands, ttl time.Duration) *CachedCatalog {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedCatalog{next: next, redis: client, ttl: ttl}
}

// ConnectRedis opens a client from the cache configuration and verifies it.
func ConnectRedis(ctx context.Context, cfg config.CacheConfig) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// InsertBatch writes through to the store and invalidates the kind's cached queries.
func (c *CachedCatalog) InsertBatch(ctx context.Context, schema core.ColumnSchema, ownerID string, records []core.Record) ([]core.Record, error) {
	persisted, err := c.next.InsertBatch(ctx, schema, ownerID, records)
	if err != nil {
		return nil, err
	}

	if err := c.redis.Incr(ctx, generationKey(schema.Kind)).Err(); err != nil {
		logging.FromContext(ctx).Error("cache invalidation failed", "kind", schema.Kind, "error", err)
	}
	return persisted, nil
}

// Query serves from the cache when possible.
func (c *CachedCatalog) Query(ctx context.Context, schema core.ColumnSchema, filters core.FilterSet) ([]core.Record, error) {
	return c.cached(ctx, schema.Kind, "q:"+filters.Key(), func() ([]core.Record, error) {
		return c.next.Query(ctx, schema, filters)
	})
}

// QueryByCategory serves from the cache when possible.
func (c *CachedCatalog) QueryByCategory(ctx context.Context, categoryID string) ([]core.Record, error) {
	return c.cached(ctx, core.KindCompany, "category:"+categoryID, func() ([]core.Record, error) {
		return c.next.QueryByCategory(ctx, categoryID)
	})
}

func (c *CachedCatalog) cached(ctx context.Context, kind core.EntityKind, suffix string, load func() ([]core.Record, error)) ([]core.Record, error) {
	logger := logging.FromContext(ctx)

	gen, err := c.generation(ctx, kind)
	if err != nil {
		logger.Warn("cache unavailable", "kind", kind, "error", err)
		return load()
	}
	key := queryKey(kind, gen, suffix)

	if data, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		records, err := decodeRecords(data)
		if err == nil {
			return records, nil
		}
		logger.Warn("discarding unreadable cache entry", "key", key, "error", err)
	} else if !errors.Is(err, redis.Nil) {
		logger.Warn("cache read failed", "key", key, "error", err)
	}

	records, err := load()
	if err != nil {
		return nil, err
	}

	data, err := encodeRecords(records)
	if err != nil {
		logger.Warn("cache encode failed", "key", key, "error", err)
		return records, nil
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		logger.Warn("cache write failed", "key", key, "error", err)
	}
	return records, nil
}

// generation returns the current generation of a kind, 0 when never bumped.
func (c *CachedCatalog) generation(ctx context.Context, kind core.EntityKind) (int64, error) {
	v, err := c.redis.Get(ctx, generationKey(kind)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func generationKey(kind core.EntityKind) string {
	return "catalog:" + string(kind) + ":gen"
}

func queryKey(kind core.EntityKind, gen int64, suffix string) string {
	return "catalog:" + string(kind) + ":" + strconv.FormatInt(gen, 10) + ":" + suffix
}

// cachedRecord is the cache encoding of a core.Record. Decimals travel as strings.
type cachedRecord struct {
	ID        string              `json:"id"`
	OwnerID   string              `json:"ownerId,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	Text      map[string]string   `json:"text,omitempty"`
	Decimals  map[string]string   `json:"decimals,omitempty"`
	Lists     map[string][]string `json:"lists,omitempty"`
}

func encodeRecords(records []core.Record) ([]byte, error) {
	out := make([]cachedRecord, len(records))
	for i, rec := range records {
		cr := cachedRecord{
			ID:        rec.ID,
			OwnerID:   rec.OwnerID,
			CreatedAt: rec.CreatedAt,
			Text:      rec.Text,
			Lists:     rec.Lists,
		}
		if len(rec.Decimals) > 0 {
			cr.Decimals = make(map[string]string, len(rec.Decimals))
			for k, n := range rec.Decimals {
				if s, ok := core.NumericString(n); ok {
					cr.Decimals[k] = s
				}
			}
		}
		out[i] = cr
	}
	return json.Marshal(out)
}

func decodeRecords(data []byte) ([]core.Record, error) {
	var cached []cachedRecord
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	records := make([]core.Record, len(cached))
	for i, cr := range cached {
		rec := core.NewRecord(0)
		rec.ID = cr.ID
		rec.OwnerID = cr.OwnerID
		rec.CreatedAt = cr.CreatedAt
		for k, v := range cr.Text {
			rec.Text[k] = v
		}
		for k, v := range cr.Decimals {
			n := core.ToPgNumeric(v)
			if !n.Valid {
				return nil, fmt.Errorf("invalid cached decimal %s=%q", k, v)
			}
			rec.Decimals[k] = n
		}
		for k, v := range cr.Lists {
			if v == nil {
				v = []string{}
			}
			rec.Lists[k] = v
		}
		records[i] = rec
	}
	return records, nil
}
