// Package content loads, validates and caches quiz definitions.
package content

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/RaquelSandblad/flocken-website-sub001/internal/domain"
	"github.com/RaquelSandblad/flocken-website-sub001/internal/schema"
)

// ErrDocumentNotFound is returned by a Source when no document exists
// for a key. The Repository maps it to an absent value, never an error.
var ErrDocumentNotFound = errors.New("quiz document not found")

// Source fetches raw quiz documents from a backing store (content
// directory, Postgres, cache layer).
type Source interface {
	// Load returns the raw document for a storage key, or
	// ErrDocumentNotFound when none exists.
	Load(ctx context.Context, key string) ([]byte, error)
	// Keys lists every storage key the source knows about.
	Keys(ctx context.Context) ([]string, error)
}

// Repository validates documents on first access and caches them for
// the process lifetime. The cache is append-only and values are
// immutable, so a duplicated fill is safe; singleflight just keeps the
// underlying read from being repeated needlessly.
type Repository struct {
	source Source
	sf     singleflight.Group

	mu    sync.RWMutex
	cache map[string]*domain.QuizDefinition
}

func NewRepository(source Source) *Repository {
	return &Repository{
		source: source,
		cache:  make(map[string]*domain.QuizDefinition),
	}
}

// GetBySlug returns the validated definition for a slug. The slug is
// normalized (trim, lowercase) before lookup. A missing document is
// reported as ok=false with a nil error; schema violations, slug
// mismatches and I/O failures propagate as fatal errors. Repeated
// calls return the same already-validated pointer without re-reading
// storage.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*domain.QuizDefinition, bool, error) {
	key := strings.ToLower(strings.TrimSpace(slug))
	if key == "" {
		return nil, false, nil
	}

	r.mu.RLock()
	cached := r.cache[key]
	r.mu.RUnlock()
	if cached != nil {
		return cached, true, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		return r.load(ctx, key)
	})
	if errors.Is(err, ErrDocumentNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return result.(*domain.QuizDefinition), true, nil
}

// ListAll returns every definition the source knows about, in
// lexicographic slug order.
func (r *Repository) ListAll(ctx context.Context) ([]*domain.QuizDefinition, error) {
	keys, err := r.source.Keys(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	defs := make([]*domain.QuizDefinition, 0, len(keys))
	for _, key := range keys {
		def, ok, err := r.GetBySlug(ctx, key)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Listed but gone by the time we read it; skip.
			continue
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (r *Repository) load(ctx context.Context, key string) (*domain.QuizDefinition, error) {
	r.mu.RLock()
	if cached := r.cache[key]; cached != nil {
		r.mu.RUnlock()
		return cached, nil
	}
	r.mu.RUnlock()

	raw, err := r.source.Load(ctx, key)
	if err != nil {
		return nil, err
	}

	def, err := schema.Validate(raw)
	if err != nil {
		return nil, err
	}
	if def.Slug != key {
		return nil, &domain.SlugMismatchError{Key: key, Slug: def.Slug}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Keep the first stored value so repeated lookups stay
	// referentially stable.
	if existing := r.cache[key]; existing != nil {
		return existing, nil
	}
	r.cache[key] = def
	return def, nil
}
