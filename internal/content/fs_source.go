package content

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FSSource reads quiz documents from a content directory, one
// <slug>.json file per quiz.
type FSSource struct {
	dir string
}

func NewFSSource(dir string) *FSSource {
	return &FSSource{dir: dir}
}

func (s *FSSource) Load(_ context.Context, key string) ([]byte, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, key+".json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return raw, nil
}

func (s *FSSource) Keys(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}
