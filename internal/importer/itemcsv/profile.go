package itemcsv

// Profile describes the column layout of a line item sheet. Column names
// are matched case-insensitively. Empty optional columns are simply absent
// from that layout.
type Profile struct {
	Name      string
	ItemCol   string
	AmountCol string
	QtyCol    string // optional; layouts without it are service-only
	RateCol   string // optional
	TypeCol   string // optional
	UnitCol   string // optional
	TaxCol    string // optional
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.ItemCol, p.AmountCol}

	if p.QtyCol != "" {
		cols = append(cols, p.QtyCol)
	}

	if p.RateCol != "" {
		cols = append(cols, p.RateCol)
	}

	return cols
}

// profiles is the ordered list of layouts tried during auto-detection.
// More specific profiles come first to avoid false matches.
var profiles = []Profile{
	{
		Name:      "generic",
		TypeCol:   "type",
		ItemCol:   "item",
		QtyCol:    "qty",
		UnitCol:   "unit",
		RateCol:   "rate",
		AmountCol: "amount",
		TaxCol:    "tax %",
	},
	{
		Name:      "tally",
		ItemCol:   "particulars",
		QtyCol:    "quantity",
		UnitCol:   "per",
		RateCol:   "rate",
		AmountCol: "amount",
		TaxCol:    "gst rate",
	},
	{
		Name:      "services",
		ItemCol:   "description",
		AmountCol: "amount",
		TaxCol:    "tax %",
	},
}
