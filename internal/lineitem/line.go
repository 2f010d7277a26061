package lineitem

import (
	"github.com/shopspring/decimal"
)

// ItemType tags a line as a product (quantity × price) or a service (flat amount).
type ItemType string

const (
	ItemProduct ItemType = "product"
	ItemService ItemType = "service"
)

// Field names a value on a line or on the document totals.
type Field string

const (
	FieldNone           Field = ""
	FieldQuantity       Field = "quantity"
	FieldPricePerUnit   Field = "price_per_unit"
	FieldAmount         Field = "amount"
	FieldTaxRatePercent Field = "tax_rate_percent"
	FieldLineTax        Field = "line_tax"
	FieldLineTotal      Field = "line_total"

	FieldSubTotal     Field = "sub_total"
	FieldTaxAmount    Field = "tax_amount"
	FieldInvoiceTotal Field = "invoice_total"
)

// Tracked reports whether edits to f are recorded as edit intent.
func (f Field) Tracked() bool {
	switch f {
	case FieldQuantity, FieldPricePerUnit, FieldAmount, FieldLineTotal:
		return true
	}

	return false
}

// UnitOther marks a free-text unit label.
const UnitOther = "Other"

// Units lists the unit labels offered for product lines.
var Units = []string{"Nos", "Pcs", "Kg", "Gm", "Ltr", "Mtr", "Box", "Set", "Hrs", UnitOther}

// DefaultTaxRatePercent seeds new lines.
var DefaultTaxRatePercent = decimal.NewFromInt(18)

// Line is one row of a transaction's item list. Product lines use Quantity,
// UnitType and PricePerUnit; service lines use Description. LineTax and
// LineTotal are derived by Reconcile.
type Line struct {
	ItemType ItemType

	ProductRef   string
	Quantity     decimal.Decimal
	UnitType     string
	PricePerUnit decimal.Decimal

	ServiceRef  string
	Description string

	Amount         decimal.Decimal
	TaxRatePercent decimal.Decimal
	LineTax        decimal.Decimal
	LineTotal      decimal.Decimal
}

// NewProductLine returns a product line with quantity 1, price 0 and the default tax rate.
func NewProductLine() Line {
	return Line{
		ItemType:       ItemProduct,
		Quantity:       decimal.NewFromInt(1),
		UnitType:       Units[0],
		TaxRatePercent: DefaultTaxRatePercent,
	}
}

// NewServiceLine returns a service line with amount 0 and the default tax rate.
func NewServiceLine() Line {
	return Line{
		ItemType:       ItemService,
		TaxRatePercent: DefaultTaxRatePercent,
	}
}

func (l Line) IsService() bool {
	return l.ItemType == ItemService
}

// value returns a pointer to the numeric field f, or nil when f is not a line field.
func (l *Line) value(f Field) *decimal.Decimal {
	switch f {
	case FieldQuantity:
		return &l.Quantity
	case FieldPricePerUnit:
		return &l.PricePerUnit
	case FieldAmount:
		return &l.Amount
	case FieldTaxRatePercent:
		return &l.TaxRatePercent
	case FieldLineTax:
		return &l.LineTax
	case FieldLineTotal:
		return &l.LineTotal
	}

	return nil
}
