package itemcsv_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/gstbook/internal/importer/itemcsv"
	"github.com/MrJamesThe3rd/gstbook/internal/lineitem"
)

func TestParser_Generic(t *testing.T) {
	csv := `Quotation for Sharma Traders,,,,,,
Date,01-04-2026,,,,,

Type,Item,Qty,Unit,Rate,Amount,Tax %
product,TMT bar 12mm,2,Kg,"1,250.00",,18
service,Site survey,,,,2500,5
product,Cement bag,10,Box,,3800,28
,,,,,,
Total,,,,,,
`

	p := itemcsv.NewParser()
	doc, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, doc.Lines, 3)

	bar := doc.Lines[0]
	assert.Equal(t, lineitem.ItemProduct, bar.ItemType)
	assert.Equal(t, "TMT bar 12mm", bar.ProductRef)
	assert.Equal(t, "Kg", bar.UnitType)
	assert.Equal(t, "2", bar.Quantity.String())
	assert.Equal(t, "1250", bar.PricePerUnit.String())
	assert.Equal(t, lineitem.FieldNone, doc.Intents.IntentFor(0))

	survey := doc.Lines[1]
	assert.Equal(t, lineitem.ItemService, survey.ItemType)
	assert.Equal(t, "Site survey", survey.Description)
	assert.Equal(t, "2500", survey.Amount.String())
	assert.Equal(t, "5", survey.TaxRatePercent.String())

	cement := doc.Lines[2]
	assert.Equal(t, "3800", cement.Amount.String())
	assert.Equal(t, lineitem.FieldAmount, doc.Intents.IntentFor(2))
}

func TestParser_GenericReconciles(t *testing.T) {
	csv := "Type;Item;Qty;Rate;Amount;Tax %\nproduct;Cement bag;10;;3800;28\n"

	p := itemcsv.NewParser()
	doc, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)

	doc.TaxEnabled = true
	doc.Recompute()

	assert.Equal(t, "380.00", doc.Lines[0].PricePerUnit.StringFixed(2))
	assert.Equal(t, "4864.00", doc.Totals.InvoiceTotal.StringFixed(2))
}

func TestParser_Tally(t *testing.T) {
	csv := `Particulars;Quantity;Rate;Per;Amount;GST Rate
Copper wire 2.5 sqmm;3;"1,450.00";Nos;4350.00;18%
`

	p := itemcsv.NewParser()
	doc, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)

	l := doc.Lines[0]
	assert.Equal(t, lineitem.ItemProduct, l.ItemType)
	assert.Equal(t, "Nos", l.UnitType)
	assert.Equal(t, "1450", l.PricePerUnit.String())
	assert.Equal(t, "18", l.TaxRatePercent.String())
}

func TestParser_ServicesOnly(t *testing.T) {
	csv := "Description\tAmount\nAnnual maintenance\t₹ 12,000\nTravel\t1500\n"

	p := itemcsv.NewParser()
	doc, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, doc.Lines, 2)

	assert.Equal(t, lineitem.ItemService, doc.Lines[0].ItemType)
	assert.Equal(t, "12000", doc.Lines[0].Amount.String())
	assert.Equal(t, "18", doc.Lines[0].TaxRatePercent.String())
}

func TestParser_SkipsUnparsableRows(t *testing.T) {
	csv := `Type,Item,Qty,Rate,Amount,Tax %
bundle,Mystery,1,10,,18
product,Bad qty,two,10,,18
product,Bad rate,1,ten,,18
service,Bad tax,,,100,180
service,Good,,,100,12
`

	p := itemcsv.NewParser()
	doc, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)

	assert.Equal(t, "Good", doc.Lines[0].Description)
}

func TestParser_Windows1252Encoding(t *testing.T) {
	utf8CSV := "Item;Qty;Rate;Amount\nCafé table;1;4500;\n"

	latin1Bytes, err := charmap.Windows1252.NewEncoder().Bytes([]byte(utf8CSV))
	require.NoError(t, err)

	p := itemcsv.NewParser()
	doc, err := p.Parse(bytes.NewReader(latin1Bytes))
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)

	assert.Equal(t, "Café table", doc.Lines[0].ProductRef)
}

func TestParser_DifferentColumnOrder(t *testing.T) {
	csv := `Notes,Export
AMOUNT,Rate,QTY,ITEM,Ignored
,20,5,Washer,XXX
`

	p := itemcsv.NewParser()
	doc, err := p.Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, doc.Lines, 1)

	assert.Equal(t, "Washer", doc.Lines[0].ProductRef)
	assert.Equal(t, "5", doc.Lines[0].Quantity.String())
}

func TestParser_EmptyFile(t *testing.T) {
	p := itemcsv.NewParser()
	_, err := p.Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, itemcsv.ErrNoLayout)
}

func TestParser_HeaderOnly(t *testing.T) {
	p := itemcsv.NewParser()
	doc, err := p.Parse(strings.NewReader("Item,Qty,Rate,Amount"))
	require.NoError(t, err)
	assert.Empty(t, doc.Lines)
}
