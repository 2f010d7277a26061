package catalog

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound    = errors.New("catalog item not found")
	ErrInvalidItem = errors.New("invalid catalog item")
)

// Kind distinguishes goods sold by quantity from flat-priced services.
type Kind string

const (
	KindProduct Kind = "product"
	KindService Kind = "service"
)

// Item is a product or service a company sells or buys.
type Item struct {
	ID             uuid.UUID
	CompanyID      uuid.UUID
	Kind           Kind
	Name           string
	Unit           string // products only
	SellingPrice   decimal.Decimal
	HSNCode        string // HSN for goods, SAC for services
	TaxRatePercent *decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
