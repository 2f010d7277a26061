package itemcsv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/gstbook/internal/encoding"
	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
)

var ErrNoLayout = errors.New("no matching line item layout found")

var maxTaxRate = decimal.NewFromInt(100)

// Parser reads spreadsheet exports of invoice items and produces an
// unreconciled draft document. It auto-detects the layout by matching
// column headers against known profiles and the delimiter from the header.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) (*lineitem.Document, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("%w: expected columns Item, Qty, Rate and Amount", ErrNoLayout)
	}

	doc, skipped := parseRows(profile, cols, rows[headerIdx+1:])

	slog.Info("parsed line item sheet",
		"layout", profile.Name, "charset", charset, "lines", len(doc.Lines), "skipped", skipped)

	return doc, nil
}

// sniffDelimiter picks the most frequent of comma, semicolon and tab on the
// first line that holds any of them.
func sniffDelimiter(data []byte) rune {
	for line := range bytes.Lines(data) {
		best, bestCount := ',', 0

		for _, d := range []rune{',', ';', '\t'} {
			if n := bytes.Count(line, []byte(string(d))); n > bestCount {
				best, bestCount = d, n
			}
		}

		if bestCount > 0 {
			return best
		}
	}

	return ','
}

// colIndex maps lower-cased column names to their index in the row.
type colIndex map[string]int

// at returns the index of name, or -1 when the layout has no such column.
func (c colIndex) at(name string) int {
	if name == "" {
		return -1
	}

	if i, ok := c[name]; ok {
		return i
	}

	return -1
}

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

// matchesProfile checks if all required columns of a profile are present.
func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows builds draft lines from data rows, skipping rows it cannot read.
func parseRows(p *Profile, cols colIndex, rows [][]string) (*lineitem.Document, int) {
	doc := lineitem.NewDocument(false)
	skipped := 0

	for _, row := range rows {
		if isBlank(row) {
			continue
		}

		line, intent, ok := parseLine(p, cols, row)
		if !ok {
			skipped++
			continue
		}

		i := len(doc.Lines)
		doc.Lines = append(doc.Lines, line)
		doc.Intents.MarkEdited(i, intent)
	}

	return doc, skipped
}

// parseLine reads one row. The returned intent is FieldAmount when a product
// row states an amount without a rate, so the rate is derived from it.
func parseLine(p *Profile, cols colIndex, row []string) (lineitem.Line, lineitem.Field, bool) {
	item := cellValue(row, cols.at(p.ItemCol))
	if item == "" {
		return lineitem.Line{}, lineitem.FieldNone, false
	}

	itemType, ok := parseItemType(cellValue(row, cols.at(p.TypeCol)))
	if !ok {
		return lineitem.Line{}, lineitem.FieldNone, false
	}

	qtyCell := cellValue(row, cols.at(p.QtyCol))
	rateCell := cellValue(row, cols.at(p.RateCol))

	if itemType == "" {
		itemType = lineitem.ItemProduct
		if qtyCell == "" && rateCell == "" {
			itemType = lineitem.ItemService
		}
	}

	amount, err := lineitem.ParseNumber(cellValue(row, cols.at(p.AmountCol)))
	if err != nil {
		return lineitem.Line{}, lineitem.FieldNone, false
	}

	rate, ok := parseTaxRate(cellValue(row, cols.at(p.TaxCol)))
	if !ok {
		return lineitem.Line{}, lineitem.FieldNone, false
	}

	if itemType == lineitem.ItemService {
		l := lineitem.NewServiceLine()
		l.Description = item
		l.Amount = amount
		l.TaxRatePercent = rate

		return l, lineitem.FieldNone, true
	}

	l := lineitem.NewProductLine()
	l.ProductRef = item
	l.Amount = amount
	l.TaxRatePercent = rate

	if unit := cellValue(row, cols.at(p.UnitCol)); unit != "" {
		l.UnitType = unit
	}

	if qtyCell != "" {
		qty, err := lineitem.ParseNumber(qtyCell)
		if err != nil {
			return lineitem.Line{}, lineitem.FieldNone, false
		}

		l.Quantity = qty
	}

	if rateCell == "" {
		return l, lineitem.FieldAmount, true
	}

	price, err := lineitem.ParseNumber(rateCell)
	if err != nil {
		return lineitem.Line{}, lineitem.FieldNone, false
	}

	l.PricePerUnit = price

	return l, lineitem.FieldNone, true
}

// parseItemType maps a Type cell. Blank returns "" so the caller can infer it.
func parseItemType(s string) (lineitem.ItemType, bool) {
	switch strings.ToLower(s) {
	case "":
		return "", true
	case "product", "p", "goods", "hsn":
		return lineitem.ItemProduct, true
	case "service", "s", "sac":
		return lineitem.ItemService, true
	}

	return "", false
}

// parseTaxRate reads a tax rate cell. Blank means the default rate.
func parseTaxRate(s string) (decimal.Decimal, bool) {
	if s == "" {
		return lineitem.DefaultTaxRatePercent, true
	}

	rate, err := lineitem.ParseNumber(s)
	if err != nil || rate.IsNegative() || rate.GreaterThan(maxTaxRate) {
		return decimal.Zero, false
	}

	return rate, true
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
