package lineitem

import (
	"github.com/shopspring/decimal"
)

// DocumentLevel is the Change.Line value for document totals.
const DocumentLevel = -1

// Change is one field written back during a recompute pass.
type Change struct {
	Line  int
	Field Field
}

type Changes []Change

// Empty reports whether the pass converged without writing anything.
func (c Changes) Empty() bool {
	return len(c) == 0
}

// Document is the editable state of one transaction form: its lines, the
// per-line edit intents and the company's tax-enablement flag. Totals are
// derived and only written by Recompute.
type Document struct {
	Lines      []Line
	Intents    Intents
	TaxEnabled bool
	Totals     Totals
}

// NewDocument returns an empty document.
func NewDocument(taxEnabled bool) *Document {
	return &Document{TaxEnabled: taxEnabled}
}

// Recompute reconciles every line top to bottom and then the totals,
// returning the fields it wrote. Running it on a converged document is a no-op.
func (d *Document) Recompute() Changes {
	var changes Changes

	for i := range d.Lines {
		for _, f := range Reconcile(&d.Lines[i], d.Intents.IntentFor(i), d.TaxEnabled) {
			changes = append(changes, Change{Line: i, Field: f})
		}
	}

	for _, f := range d.Totals.update(Aggregate(d.Lines, d.TaxEnabled)) {
		changes = append(changes, Change{Line: DocumentLevel, Field: f})
	}

	return changes
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := &Document{
		Lines:      make([]Line, len(d.Lines)),
		Intents:    IntentsFrom(d.Intents.Snapshot()),
		TaxEnabled: d.TaxEnabled,
		Totals:     d.Totals,
	}
	copy(out.Lines, d.Lines)

	return out
}

// Recompute is the pure form of Document.Recompute: it leaves d untouched
// and returns the reconciled copy.
func Recompute(d *Document) (*Document, Changes) {
	next := d.Clone()
	changes := next.Recompute()

	return next, changes
}

// Edit sets field f of line i to v, records the edit intent for tracked
// fields and recomputes. Out-of-range indices and non-numeric fields are ignored.
func (d *Document) Edit(i int, f Field, v decimal.Decimal) Changes {
	if i < 0 || i >= len(d.Lines) {
		return nil
	}

	dst := d.Lines[i].value(f)
	if dst == nil || f == FieldLineTax {
		return nil
	}

	switch f {
	case FieldPricePerUnit, FieldAmount, FieldLineTotal:
		v = Round2(v)
	}

	*dst = v
	d.Intents.MarkEdited(i, f)

	return d.Recompute()
}

// SetTaxEnabled updates the tax flag and recomputes when it flips.
func (d *Document) SetTaxEnabled(enabled bool) Changes {
	if d.TaxEnabled == enabled {
		return nil
	}

	d.TaxEnabled = enabled

	return d.Recompute()
}

// Seed replaces line i with a catalog-seeded line, keeping its edit intent.
func (d *Document) Seed(i int, l Line) Changes {
	if i < 0 || i >= len(d.Lines) {
		return nil
	}

	d.Lines[i] = l

	return d.Recompute()
}

// AddProduct appends a default product line and returns its index.
func (d *Document) AddProduct() int {
	return d.add(NewProductLine())
}

// AddService appends a default service line and returns its index.
func (d *Document) AddService() int {
	return d.add(NewServiceLine())
}

func (d *Document) add(l Line) int {
	d.Lines = append(d.Lines, l)
	d.Recompute()

	return len(d.Lines) - 1
}

// Remove deletes line i together with its edit intent.
func (d *Document) Remove(i int) {
	if i < 0 || i >= len(d.Lines) {
		return
	}

	d.Lines = append(d.Lines[:i], d.Lines[i+1:]...)
	d.Intents.remove(i)
	d.Recompute()
}

// Duplicate appends a copy of line i without its edit intent and returns the
// new index, or -1 when i is out of range.
func (d *Document) Duplicate(i int) int {
	if i < 0 || i >= len(d.Lines) {
		return -1
	}

	return d.add(d.Lines[i])
}

// Reset replaces all lines and clears every edit intent, as when loading a
// different record or switching transaction type.
func (d *Document) Reset(lines []Line) {
	d.Lines = append([]Line(nil), lines...)
	d.Intents.reset()
	d.Recompute()
}
