package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error

	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// TaxSource tells whether tax applies to a company's transactions.
type TaxSource interface {
	TaxEnabled(ctx context.Context, companyID uuid.UUID) (bool, error)
}

// Observer is notified after every recompute pass the service runs.
type Observer interface {
	ObserveRecompute(source string, changes lineitem.Changes)
}

type Service struct {
	repo     Repository
	taxes    TaxSource
	observer Observer
}

// NewService wires the service. observer may be nil.
func NewService(repo Repository, taxes TaxSource, observer Observer) *Service {
	return &Service{repo: repo, taxes: taxes, observer: observer}
}

type CreateParams struct {
	CompanyID uuid.UUID
	Type      Type
	PartyName string
	Date      time.Time
	Notes     string
	Lines     []lineitem.Line
	Intents   map[int]lineitem.Field
	Amount    decimal.Decimal // receipts, payments and journals only
}

type UpdateParams struct {
	PartyName *string
	Date      *time.Time
	Notes     *string
	Lines     []lineitem.Line // nil keeps the stored lines
	Intents   map[int]lineitem.Field
	Amount    *decimal.Decimal
}

type ListFilter struct {
	CompanyID *uuid.UUID
	Type      *Type
	Status    *Status
	StartDate *time.Time
	EndDate   *time.Time
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if !params.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, params.Type)
	}

	tx := &Transaction{
		CompanyID: params.CompanyID,
		Type:      params.Type,
		Status:    StatusDraft,
		PartyName: strings.TrimSpace(params.PartyName),
		Date:      params.Date,
		Notes:     params.Notes,
	}

	if err := s.settle(ctx, tx, params.Lines, params.Intents, params.Amount); err != nil {
		return nil, err
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Update applies params to a stored transaction and reconciles it again
// against the company's current tax flag.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.PartyName != nil {
		tx.PartyName = strings.TrimSpace(*params.PartyName)
	}

	if params.Date != nil {
		tx.Date = *params.Date
	}

	if params.Notes != nil {
		tx.Notes = *params.Notes
	}

	lines := tx.Lines
	if params.Lines != nil {
		lines = params.Lines
	}

	amount := tx.Totals.InvoiceTotal
	if params.Amount != nil {
		amount = *params.Amount
	}

	if err := s.settle(ctx, tx, lines, params.Intents, amount); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	return s.repo.UpdateStatus(ctx, id, status)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}

// Preview reconciles doc in place without saving anything and reports the
// written fields and any anomalies a form should surface.
func (s *Service) Preview(doc *lineitem.Document) (lineitem.Changes, []lineitem.Anomaly) {
	changes := doc.Recompute()
	s.observe("preview", changes)

	return changes, lineitem.Check(doc)
}

// TaxEnabled resolves the tax flag for companyID.
func (s *Service) TaxEnabled(ctx context.Context, companyID uuid.UUID) (bool, error) {
	return s.taxes.TaxEnabled(ctx, companyID)
}

// settle fills tx.Lines, tx.Totals and tx.TaxEnabled from the given input.
func (s *Service) settle(
	ctx context.Context, tx *Transaction, lines []lineitem.Line, intents map[int]lineitem.Field, amount decimal.Decimal,
) error {
	if !tx.Type.HasLines() {
		if len(lines) > 0 {
			return fmt.Errorf("%w: %s transactions do not carry line items", ErrInvalidLines, tx.Type)
		}

		if !amount.IsPositive() {
			return ErrInvalidAmount
		}

		amount = lineitem.Round2(amount)
		tx.Lines = nil
		tx.TaxEnabled = false
		tx.Totals = lineitem.Totals{SubTotal: amount, InvoiceTotal: amount}

		return nil
	}

	if len(lines) == 0 {
		return ErrNoLines
	}

	if err := validateInputs(lines); err != nil {
		return err
	}

	enabled, err := s.taxes.TaxEnabled(ctx, tx.CompanyID)
	if err != nil {
		return fmt.Errorf("resolving tax flag: %w", err)
	}

	doc := &lineitem.Document{
		Lines:      append([]lineitem.Line(nil), lines...),
		Intents:    lineitem.IntentsFrom(intents),
		TaxEnabled: enabled,
	}

	s.observe("save", doc.Recompute())

	if err := validateLines(doc); err != nil {
		return err
	}

	tx.Lines = doc.Lines
	tx.Totals = doc.Totals
	tx.TaxEnabled = enabled

	return nil
}

// validateInputs rejects lines the engine cannot recompute.
func validateInputs(lines []lineitem.Line) error {
	var problems []string

	for i, l := range lines {
		if l.ItemType != lineitem.ItemProduct && l.ItemType != lineitem.ItemService {
			problems = append(problems, fmt.Sprintf("line %d: unknown item type %q", i+1, l.ItemType))
		}

		if !lineitem.ValidRate(l.TaxRatePercent) {
			problems = append(problems, fmt.Sprintf("line %d: tax rate must be between 0 and 100", i+1))
		}
	}

	return invalidLines(problems)
}

func validateLines(doc *lineitem.Document) error {
	var problems []string

	for _, a := range lineitem.Check(doc) {
		problems = append(problems, a.Error())
	}

	return invalidLines(problems)
}

func invalidLines(problems []string) error {
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidLines, strings.Join(problems, "; "))
	}

	return nil
}

func (s *Service) observe(source string, changes lineitem.Changes) {
	if s.observer != nil {
		s.observer.ObserveRecompute(source, changes)
	}
}
