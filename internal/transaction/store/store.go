package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
	"github.com/MrJamesThe3rd/gstbook/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// scanTransaction reads a header row. Column order follows selectTransactionColumns.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr, statusStr string

	if err := s.Scan(
		&tx.ID, &tx.CompanyID, &typeStr, &statusStr, &tx.Number, &tx.PartyName, &tx.Date, &tx.Notes,
		&tx.TaxEnabled, &tx.Totals.SubTotal, &tx.Totals.TaxAmount, &tx.Totals.InvoiceTotal,
		&tx.CreatedAt, &tx.UpdatedAt, &tx.DeletedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Status = transaction.Status(statusStr)

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.company_id, t.type, t.status, t.number, t.party_name, t.date, t.notes,
	t.tax_enabled, t.sub_total, t.tax_amount, t.invoice_total,
	t.created_at, t.updated_at, t.deleted_at
`

// numberLockKey serialises numbering per company and document type.
func numberLockKey(companyID uuid.UUID, typ transaction.Type) int64 {
	h := fnv.New64a()
	h.Write(companyID[:])
	h.Write([]byte{0})
	h.Write([]byte(typ))

	return int64(h.Sum64())
}

// CreateTransaction assigns the next document number for the company and
// type, then stores the header and its lines in one database transaction.
func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.ExecContext(ctx, "SELECT pg_advisory_xact_lock($1)", numberLockKey(tx.CompanyID, tx.Type)); err != nil {
		return fmt.Errorf("acquiring numbering lock: %w", err)
	}

	var seq int64

	seqQuery := `SELECT COALESCE(MAX(seq), 0) + 1 FROM transactions WHERE company_id = $1 AND type = $2`
	if err := dbTx.QueryRowContext(ctx, seqQuery, tx.CompanyID, tx.Type).Scan(&seq); err != nil {
		return fmt.Errorf("reserving number: %w", err)
	}

	tx.Number = transaction.FormatNumber(tx.Type, seq)

	query := `
		INSERT INTO transactions (
			company_id, type, status, seq, number, party_name, date, notes,
			tax_enabled, sub_total, tax_amount, invoice_total, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		tx.CompanyID,
		tx.Type,
		tx.Status,
		seq,
		tx.Number,
		tx.PartyName,
		tx.Date,
		tx.Notes,
		tx.TaxEnabled,
		tx.Totals.SubTotal,
		tx.Totals.TaxAmount,
		tx.Totals.InvoiceTotal,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	if err := insertLines(ctx, dbTx, tx.ID, tx.Lines); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func insertLines(ctx context.Context, db execer, txID uuid.UUID, lines []lineitem.Line) error {
	query := `
		INSERT INTO transaction_lines (
			transaction_id, position, item_type, product_ref, service_ref, description, unit_type,
			quantity, price_per_unit, amount, tax_rate_percent, line_tax, line_total
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	for i, l := range lines {
		_, err := db.ExecContext(ctx, query,
			txID,
			i,
			l.ItemType,
			l.ProductRef,
			l.ServiceRef,
			l.Description,
			l.UnitType,
			l.Quantity,
			l.PricePerUnit,
			l.Amount,
			l.TaxRatePercent,
			l.LineTax,
			l.LineTotal,
		)
		if err != nil {
			return fmt.Errorf("inserting line %d: %w", i+1, err)
		}
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1 AND t.deleted_at IS NULL`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	tx.Lines, err = s.lines(ctx, tx.ID)
	if err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Store) lines(ctx context.Context, txID uuid.UUID) ([]lineitem.Line, error) {
	query := `
		SELECT item_type, product_ref, service_ref, description, unit_type,
			quantity, price_per_unit, amount, tax_rate_percent, line_tax, line_total
		FROM transaction_lines
		WHERE transaction_id = $1
		ORDER BY position ASC
	`

	rows, err := s.db.QueryContext(ctx, query, txID)
	if err != nil {
		return nil, fmt.Errorf("listing lines: %w", err)
	}
	defer rows.Close()

	var lines []lineitem.Line

	for rows.Next() {
		var l lineitem.Line

		var itemType string

		if err := rows.Scan(
			&itemType, &l.ProductRef, &l.ServiceRef, &l.Description, &l.UnitType,
			&l.Quantity, &l.PricePerUnit, &l.Amount, &l.TaxRatePercent, &l.LineTax, &l.LineTotal,
		); err != nil {
			return nil, fmt.Errorf("scanning line: %w", err)
		}

		l.ItemType = lineitem.ItemType(itemType)
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating line rows: %w", err)
	}

	return lines, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.deleted_at IS NULL`

	var args []any

	argIdx := 1

	if filter.CompanyID != nil {
		query += fmt.Sprintf(" AND t.company_id = $%d", argIdx)

		args = append(args, *filter.CompanyID)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argIdx)

		args = append(args, *filter.Status)
		argIdx++
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY t.date ASC, t.number ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

// UpdateTransaction rewrites the header and replaces every stored line.
func (s *Store) UpdateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		UPDATE transactions
		SET party_name = $1, date = $2, notes = $3, tax_enabled = $4,
			sub_total = $5, tax_amount = $6, invoice_total = $7, updated_at = NOW()
		WHERE id = $8 AND deleted_at IS NULL
	`

	res, err := dbTx.ExecContext(ctx, query,
		tx.PartyName,
		tx.Date,
		tx.Notes,
		tx.TaxEnabled,
		tx.Totals.SubTotal,
		tx.Totals.TaxAmount,
		tx.Totals.InvoiceTotal,
		tx.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}

	if err := expectRow(res); err != nil {
		return err
	}

	if _, err := dbTx.ExecContext(ctx, `DELETE FROM transaction_lines WHERE transaction_id = $1`, tx.ID); err != nil {
		return fmt.Errorf("clearing lines: %w", err)
	}

	if err := insertLines(ctx, dbTx, tx.ID, tx.Lines); err != nil {
		return err
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status transaction.Status) error {
	query := `
		UPDATE transactions
		SET status = $1, updated_at = NOW()
		WHERE id = $2 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}

	return expectRow(res)
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE transactions
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return expectRow(res)
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}
