package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrInvalidType   = errors.New("invalid transaction type")
	ErrInvalidStatus = errors.New("invalid transaction status")
	ErrNoLines       = errors.New("transaction requires at least one line")
	ErrInvalidLines  = errors.New("invalid line items")
	ErrInvalidAmount = errors.New("amount must be positive")
)

// Type represents the kind of transaction.
type Type string

const (
	TypeSale     Type = "sale"
	TypePurchase Type = "purchase"
	TypeProforma Type = "proforma"
	TypeReceipt  Type = "receipt"
	TypePayment  Type = "payment"
	TypeJournal  Type = "journal"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	switch t {
	case TypeSale, TypePurchase, TypeProforma, TypeReceipt, TypePayment, TypeJournal:
		return true
	}

	return false
}

// HasLines reports whether transactions of type t carry line items.
// Receipts, payments and journals carry a single flat amount instead.
func (t Type) HasLines() bool {
	return t == TypeSale || t == TypePurchase || t == TypeProforma
}

// Prefix returns the document number prefix for t.
func (t Type) Prefix() string {
	switch t {
	case TypeSale:
		return "SI"
	case TypePurchase:
		return "PI"
	case TypeProforma:
		return "PF"
	case TypeReceipt:
		return "RC"
	case TypePayment:
		return "PY"
	case TypeJournal:
		return "JV"
	}

	return "TX"
}

// FormatNumber builds the document number for the seq-th transaction of type t.
func FormatNumber(t Type, seq int64) string {
	return fmt.Sprintf("%s-%06d", t.Prefix(), seq)
}

// Status represents the lifecycle state of a transaction.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusIssued    Status = "issued"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusIssued || s == StatusCancelled
}

// Transaction is a saved sales, purchase, proforma, receipt, payment or
// journal document. Lines and Totals are always reconciled before they are
// stored; TaxEnabled records the company's tax flag at save time.
type Transaction struct {
	ID         uuid.UUID
	CompanyID  uuid.UUID
	Type       Type
	Status     Status
	Number     string
	PartyName  string
	Date       time.Time
	Notes      string
	TaxEnabled bool
	Lines      []lineitem.Line // Loaded by Get only
	Totals     lineitem.Totals
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
}
