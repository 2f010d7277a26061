package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gstbook/internal/catalog"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectItemColumns = `
	id, company_id, kind, name, unit, selling_price, hsn_code, tax_rate_percent, created_at, updated_at
`

type scanner interface {
	Scan(dest ...any) error
}

// scanItem reads a catalog row in selectItemColumns order.
func scanItem(s scanner) (*catalog.Item, error) {
	var item catalog.Item

	var kind string

	var unit, hsn sql.NullString

	var rate decimal.NullDecimal

	if err := s.Scan(
		&item.ID, &item.CompanyID, &kind, &item.Name, &unit, &item.SellingPrice, &hsn, &rate,
		&item.CreatedAt, &item.UpdatedAt,
	); err != nil {
		return nil, err
	}

	item.Kind = catalog.Kind(kind)
	item.Unit = unit.String
	item.HSNCode = hsn.String

	if rate.Valid {
		item.TaxRatePercent = &rate.Decimal
	}

	return &item, nil
}

func (s *Store) CreateItem(ctx context.Context, item *catalog.Item) error {
	query := `
		INSERT INTO catalog_items (company_id, kind, name, unit, selling_price, hsn_code, tax_rate_percent, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''), $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	var rate decimal.NullDecimal
	if item.TaxRatePercent != nil {
		rate = decimal.NewNullDecimal(*item.TaxRatePercent)
	}

	err := s.db.QueryRowContext(ctx, query,
		item.CompanyID,
		item.Kind,
		item.Name,
		item.Unit,
		item.SellingPrice,
		item.HSNCode,
		rate,
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating catalog item: %w", err)
	}

	return nil
}

func (s *Store) GetItem(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM catalog_items WHERE id = $1`

	item, err := scanItem(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalog.ErrNotFound
		}

		return nil, fmt.Errorf("getting catalog item: %w", err)
	}

	return item, nil
}

func (s *Store) ListItems(ctx context.Context, filter catalog.ListFilter) ([]*catalog.Item, error) {
	query := `SELECT ` + selectItemColumns + ` FROM catalog_items WHERE company_id = $1`
	args := []any{filter.CompanyID}

	if filter.Kind != nil {
		query += " AND kind = $2"

		args = append(args, *filter.Kind)
	}

	query += " ORDER BY name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing catalog items: %w", err)
	}
	defer rows.Close()

	var items []*catalog.Item

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning catalog item: %w", err)
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating catalog rows: %w", err)
	}

	return items, nil
}
