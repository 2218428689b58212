package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

type Cache struct {
	RDB *redis.Client
	sf  singleflight.Group
}

func New(addr, pass string, db int) *Cache {
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
	}
}

func (c *Cache) Ping(ctx context.Context) error { return c.RDB.Ping(ctx).Err() }

func (c *Cache) Close() error { return c.RDB.Close() }

// GetOrLoad 读缓存；未命中或 redis 不可用时回源，并发回源经 singleflight 合并
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		_ = c.RDB.Set(ctx, key, b, ttl).Err()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// VersionedKey 把命名空间当前代数拼进 key；redis 不可用时退化为代数 0
func (c *Cache) VersionedKey(ctx context.Context, ns, key string) string {
	gen, err := c.RDB.Get(ctx, genKey(ns)).Int64()
	if err != nil {
		gen = 0
	}
	return key + ":g" + strconv.FormatInt(gen, 10)
}

// Bump 让命名空间换代：旧代 key 不再被读到，迟到的回源写入也只落在旧代上，由 TTL 回收
func (c *Cache) Bump(ctx context.Context, ns string) error {
	return c.RDB.Incr(ctx, genKey(ns)).Err()
}

func genKey(ns string) string { return ns + ":gen" }
