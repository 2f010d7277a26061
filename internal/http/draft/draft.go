// Package draft holds the JSON shapes shared by handlers that send or return
// line items: transaction create/update, the recompute preview and CSV import.
package draft

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
)

type Line struct {
	ItemType       lineitem.ItemType `json:"item_type"`
	ProductRef     string            `json:"product_ref,omitempty"`
	Quantity       decimal.Decimal   `json:"quantity"`
	UnitType       string            `json:"unit_type,omitempty"`
	PricePerUnit   decimal.Decimal   `json:"price_per_unit"`
	ServiceRef     string            `json:"service_ref,omitempty"`
	Description    string            `json:"description,omitempty"`
	Amount         decimal.Decimal   `json:"amount"`
	TaxRatePercent decimal.Decimal   `json:"tax_rate_percent"`
	LineTax        decimal.Decimal   `json:"line_tax"`
	LineTotal      decimal.Decimal   `json:"line_total"`
}

type Totals struct {
	SubTotal     decimal.Decimal `json:"sub_total"`
	TaxAmount    decimal.Decimal `json:"tax_amount"`
	InvoiceTotal decimal.Decimal `json:"invoice_total"`
}

type Change struct {
	Line  int            `json:"line"`
	Field lineitem.Field `json:"field"`
}

type Anomaly struct {
	Line    int             `json:"line"`
	Field   lineitem.Field  `json:"field"`
	Value   decimal.Decimal `json:"value"`
	Message string          `json:"message"`
}

// Document is a reconciled document as returned to a form.
type Document struct {
	TaxEnabled bool                   `json:"tax_enabled"`
	Lines      []Line                 `json:"lines"`
	Intents    map[int]lineitem.Field `json:"intents,omitempty"`
	Totals     Totals                 `json:"totals"`
	Changes    []Change               `json:"changes,omitempty"`
	Anomalies  []Anomaly              `json:"anomalies,omitempty"`
}

func FromLine(l lineitem.Line) Line {
	return Line{
		ItemType:       l.ItemType,
		ProductRef:     l.ProductRef,
		Quantity:       l.Quantity,
		UnitType:       l.UnitType,
		PricePerUnit:   l.PricePerUnit,
		ServiceRef:     l.ServiceRef,
		Description:    l.Description,
		Amount:         l.Amount,
		TaxRatePercent: l.TaxRatePercent,
		LineTax:        l.LineTax,
		LineTotal:      l.LineTotal,
	}
}

func FromLines(lines []lineitem.Line) []Line {
	out := make([]Line, len(lines))
	for i, l := range lines {
		out[i] = FromLine(l)
	}

	return out
}

func FromTotals(t lineitem.Totals) Totals {
	return Totals{
		SubTotal:     t.SubTotal,
		TaxAmount:    t.TaxAmount,
		InvoiceTotal: t.InvoiceTotal,
	}
}

func (l Line) ToLine() lineitem.Line {
	return lineitem.Line{
		ItemType:       l.ItemType,
		ProductRef:     l.ProductRef,
		Quantity:       l.Quantity,
		UnitType:       l.UnitType,
		PricePerUnit:   l.PricePerUnit,
		ServiceRef:     l.ServiceRef,
		Description:    l.Description,
		Amount:         l.Amount,
		TaxRatePercent: l.TaxRatePercent,
		LineTax:        l.LineTax,
		LineTotal:      l.LineTotal,
	}
}

// ToLines converts request lines. A nil slice stays nil so callers can tell
// "not sent" from "sent empty".
func ToLines(lines []Line) []lineitem.Line {
	if lines == nil {
		return nil
	}

	out := make([]lineitem.Line, len(lines))
	for i, l := range lines {
		out[i] = l.ToLine()
	}

	return out
}

// FromDocument renders doc together with the result of its last recompute.
func FromDocument(doc *lineitem.Document, changes lineitem.Changes, anomalies []lineitem.Anomaly) Document {
	resp := Document{
		TaxEnabled: doc.TaxEnabled,
		Lines:      FromLines(doc.Lines),
		Intents:    doc.Intents.Snapshot(),
		Totals:     FromTotals(doc.Totals),
	}

	for _, c := range changes {
		resp.Changes = append(resp.Changes, Change{Line: c.Line, Field: c.Field})
	}

	for _, a := range anomalies {
		resp.Anomalies = append(resp.Anomalies, Anomaly{
			Line:    a.Line,
			Field:   a.Field,
			Value:   a.Value,
			Message: a.Error(),
		})
	}

	return resp
}
