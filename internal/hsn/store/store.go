package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/gstbook/internal/hsn"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) FindMatch(ctx context.Context, description string) (string, error) {
	query := `
		SELECT code
		FROM hsn_mappings
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var code string

	err := s.db.QueryRowContext(ctx, query, description).Scan(&code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding match: %w", err)
	}

	return code, nil
}

func (s *Store) CreateMapping(ctx context.Context, m *hsn.Mapping) error {
	query := `
		INSERT INTO hsn_mappings (raw_pattern, code, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`

	if err := s.db.QueryRowContext(ctx, query, m.RawPattern, m.Code).Scan(&m.ID, &m.CreatedAt); err != nil {
		return fmt.Errorf("creating mapping: %w", err)
	}

	return nil
}
