package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/RaquelSandblad/flocken-website-sub001/internal/content"
)

type countingSource struct {
	content.Source
	loads int
}

func (s *countingSource) Load(ctx context.Context, key string) ([]byte, error) {
	s.loads++
	return s.Source.Load(ctx, key)
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}

func TestDefinitionCacheCachesRawDocuments(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := &countingSource{Source: content.NewStaticSource(map[string][]byte{
		"hundquiz-grunder": []byte(`{"slug":"hundquiz-grunder"}`),
	})}
	cache := NewDefinitionCache(newClient(mr), source, time.Minute)

	raw, err := cache.Load(context.Background(), "hundquiz-grunder")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(raw) != `{"slug":"hundquiz-grunder"}` {
		t.Fatalf("unexpected document %q", raw)
	}
	if source.loads != 1 {
		t.Fatalf("expected source hit once, got %d", source.loads)
	}

	// Second read is served from Redis.
	if _, err := cache.Load(context.Background(), "hundquiz-grunder"); err != nil {
		t.Fatalf("cached load: %v", err)
	}
	if source.loads != 1 {
		t.Fatalf("expected cache hit, loads=%d", source.loads)
	}
}

func TestDefinitionCacheExpiryRefetches(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	source := &countingSource{Source: content.NewStaticSource(map[string][]byte{
		"hundquiz-grunder": []byte(`{"slug":"hundquiz-grunder"}`),
	})}
	cache := NewDefinitionCache(newClient(mr), source, time.Minute)

	if _, err := cache.Load(context.Background(), "hundquiz-grunder"); err != nil {
		t.Fatalf("load: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, err := cache.Load(context.Background(), "hundquiz-grunder"); err != nil {
		t.Fatalf("load after expiry: %v", err)
	}
	if source.loads != 2 {
		t.Fatalf("expected refetch after expiry, loads=%d", source.loads)
	}
}

func TestDefinitionCachePassesThroughNotFound(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	cache := NewDefinitionCache(newClient(mr), content.NewStaticSource(nil), time.Minute)
	_, err = cache.Load(context.Background(), "finns-inte")
	if !errors.Is(err, content.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
