package wallet

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	errx "github.com/aetheria-game/server/internal/core/error"
	logx "github.com/aetheria-game/server/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// CachedDataClient decorates a DataClient with a Redis read-through cache.
// The data API is rate limited and the same lookups are hit by both the chat
// tool calls and the avatar pipeline, so entries are shared per (method,
// address). Cache failures degrade to a direct call.
type CachedDataClient struct {
	inner DataClient
	rdb   redis.Cmdable
	ttl   time.Duration
}

func NewCachedDataClient(inner DataClient, rdb redis.Cmdable, ttl time.Duration) *CachedDataClient {
	return &CachedDataClient{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *CachedDataClient) cacheKey(method, address string) string {
	return fmt.Sprintf("wallet:%s:%s", method, address)
}

// through reads the cached JSON value for (method, address) into out, or
// fetches it with fill and stores the result.
func (c *CachedDataClient) through(ctx context.Context, method, address string, out any, fill func() (any, error)) error {
	key := c.cacheKey(method, address)

	cached, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		if jerr := json.Unmarshal([]byte(cached), out); jerr == nil {
			return nil
		}
		logx.Warn().Str("key", key).Msg("discarding unreadable cache entry")
	} else if err != redis.Nil {
		logx.Warn().Err(errx.WrapRedis(err)).Str("key", key).Msg("wallet cache read failed")
	}

	value, err := fill()
	if err != nil {
		return err
	}

	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("wallet cache write failed")
	}
	return json.Unmarshal(b, out)
}

func (c *CachedDataClient) NetWorth(ctx context.Context, address string) (*NetWorth, error) {
	var nw NetWorth
	err := c.through(ctx, "networth", address, &nw, func() (any, error) {
		return c.inner.NetWorth(ctx, address)
	})
	if err != nil {
		return nil, err
	}
	return &nw, nil
}

func (c *CachedDataClient) Age(ctx context.Context, address string) (string, error) {
	var age string
	err := c.through(ctx, "age", address, &age, func() (any, error) {
		return c.inner.Age(ctx, address)
	})
	return age, err
}

func (c *CachedDataClient) Holdings(ctx context.Context, address string) ([]Holding, error) {
	var holdings []Holding
	err := c.through(ctx, "holdings", address, &holdings, func() (any, error) {
		return c.inner.Holdings(ctx, address)
	})
	return holdings, err
}

func (c *CachedDataClient) ProfitAndLoss(ctx context.Context, address string) (*ProfitSummary, error) {
	var pnl ProfitSummary
	err := c.through(ctx, "pnl", address, &pnl, func() (any, error) {
		return c.inner.ProfitAndLoss(ctx, address)
	})
	if err != nil {
		return nil, err
	}
	return &pnl, nil
}

func (c *CachedDataClient) ENS(ctx context.Context, address string) (string, error) {
	var name string
	err := c.through(ctx, "ens", address, &name, func() (any, error) {
		return c.inner.ENS(ctx, address)
	})
	return name, err
}

var _ DataClient = (*CachedDataClient)(nil)
