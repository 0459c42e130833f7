package redis

import (
	"context"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/RaquelSandblad/flocken-website-sub001/internal/content"
)

// DefinitionCache caches raw quiz documents in Redis and falls back to
// the wrapped source on a miss. Documents are stored as
// SET quiz:def:{slug} {json} with a TTL. Validation still happens in
// the content repository above this layer, so a cache hit is treated
// like any other storage read.
type DefinitionCache struct {
	client *redis.Client
	source content.Source
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewDefinitionCache(client *redis.Client, source content.Source, ttl time.Duration) *DefinitionCache {
	return &DefinitionCache{
		client: client,
		source: source,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *DefinitionCache) Load(ctx context.Context, key string) ([]byte, error) {
	raw, err := c.client.Get(ctx, c.docKey(key)).Bytes()
	if err == nil && len(raw) > 0 {
		return raw, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		raw, err := c.client.Get(ctx, c.docKey(key)).Bytes()
		if err == nil && len(raw) > 0 {
			return raw, nil
		}

		doc, err := c.source.Load(ctx, key)
		if err != nil {
			// content.ErrDocumentNotFound passes through untouched.
			return nil, err
		}
		// Best effort: a failed write just means the next read falls
		// back to the source again.
		_ = c.client.Set(ctx, c.docKey(key), doc, c.ttlWithJitter()).Err()
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// Keys is served by the backing source; the listing only feeds the
// quiz library page and is cheap enough to not cache.
func (c *DefinitionCache) Keys(ctx context.Context) ([]string, error) {
	return c.source.Keys(ctx)
}

func (c *DefinitionCache) docKey(key string) string {
	return "quiz:def:" + key
}

func (c *DefinitionCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
