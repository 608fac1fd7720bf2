package domain

import "github.com/shopspring/decimal"

type SummaryLine struct {
	ProductID int             `json:"product_id"`
	Title     string          `json:"title"`
	Amount    int             `json:"amount"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type Summary struct {
	Lines    []SummaryLine   `json:"lines"`
	Products int             `json:"products"`
	Units    int             `json:"units"`
	Total    decimal.Decimal `json:"total"`
}

func (c Cart) Summary() Summary {
	lines := make([]SummaryLine, 0, len(c))
	total := decimal.Zero
	units := 0

	for _, it := range c {
		subtotal := it.Price.Mul(decimal.NewFromInt(int64(it.Amount)))
		lines = append(lines, SummaryLine{
			ProductID: it.ID,
			Title:     it.Title,
			Amount:    it.Amount,
			UnitPrice: it.Price,
			Subtotal:  subtotal,
		})
		total = total.Add(subtotal)
		units += it.Amount
	}

	return Summary{
		Lines:    lines,
		Products: len(c),
		Units:    units,
		Total:    total,
	}
}
