package content

import (
	"context"
	"sort"
)

// StaticSource is a Source backed by an in-memory map of raw documents
// (useful for tests/demos).
type StaticSource struct {
	docs map[string][]byte
}

func NewStaticSource(docs map[string][]byte) *StaticSource {
	return &StaticSource{docs: docs}
}

func (s *StaticSource) Load(_ context.Context, key string) ([]byte, error) {
	if doc, ok := s.docs[key]; ok {
		return doc, nil
	}
	return nil, ErrDocumentNotFound
}

func (s *StaticSource) Keys(_ context.Context) ([]string, error) {
	keys := make([]string, 0, len(s.docs))
	for key := range s.docs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}
