package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/RaquelSandblad/flocken-website-sub001/internal/content"
)

// Source loads raw quiz JSONB documents from Postgres, one row per
// slug in the quizzes table.
type Source struct {
	pool *pgxpool.Pool
}

func NewSource(pool *pgxpool.Pool) *Source {
	return &Source{pool: pool}
}

func (s *Source) Load(ctx context.Context, key string) ([]byte, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM quizzes WHERE slug=$1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, content.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load quiz %q: %w", key, err)
	}
	return raw, nil
}

func (s *Source) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT slug FROM quizzes ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("scan quiz slug: %w", err)
		}
		keys = append(keys, slug)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return keys, nil
}
