package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gstbook/internal/company"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const selectCompanyColumns = `id, name, gstin, state_code, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanCompany(s scanner) (*company.Company, error) {
	var c company.Company

	var gstin, stateCode sql.NullString

	if err := s.Scan(&c.ID, &c.Name, &gstin, &stateCode, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	c.GSTIN = gstin.String
	c.StateCode = stateCode.String

	return &c, nil
}

func (s *Store) CreateCompany(ctx context.Context, c *company.Company) error {
	query := `
		INSERT INTO companies (name, gstin, state_code, created_at, updated_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err := s.db.QueryRowContext(ctx, query, c.Name, c.GSTIN, c.StateCode).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating company: %w", err)
	}

	return nil
}

func (s *Store) GetCompany(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	query := `SELECT ` + selectCompanyColumns + ` FROM companies WHERE id = $1`

	c, err := scanCompany(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, company.ErrNotFound
		}

		return nil, fmt.Errorf("getting company: %w", err)
	}

	return c, nil
}

func (s *Store) ListCompanies(ctx context.Context) ([]*company.Company, error) {
	query := `SELECT ` + selectCompanyColumns + ` FROM companies ORDER BY name ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing companies: %w", err)
	}
	defer rows.Close()

	var companies []*company.Company

	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning company: %w", err)
		}

		companies = append(companies, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating company rows: %w", err)
	}

	return companies, nil
}

func (s *Store) UpdateGSTIN(ctx context.Context, id uuid.UUID, gstin, stateCode string) error {
	query := `
		UPDATE companies
		SET gstin = NULLIF($1, ''), state_code = NULLIF($2, ''), updated_at = NOW()
		WHERE id = $3
	`

	res, err := s.db.ExecContext(ctx, query, gstin, stateCode, id)
	if err != nil {
		return fmt.Errorf("updating gstin: %w", err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return company.ErrNotFound
	}

	return nil
}
