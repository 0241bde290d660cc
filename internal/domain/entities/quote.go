package entities

import "github.com/shopspring/decimal"

type ServiceCategory string

const (
	CategoryResidentialCleaning ServiceCategory = "residential_cleaning"
	CategoryAreaCleaning        ServiceCategory = "area_cleaning"
	CategoryKeyService          ServiceCategory = "key_service"
	CategoryItemService         ServiceCategory = "item_service"
)

type LineItem struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Quote is a priced breakdown. It is never mutated once produced.
//
// Invariants:
//   - Subtotal == Round2(sum(LineItems.Amount))
//   - Subtotal >= the category minimum
//   - Total == Round2(Subtotal * (1 + TaxRate))
type Quote struct {
	Category  ServiceCategory `json:"service_category"`
	LineItems []LineItem      `json:"line_items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	TaxRate   decimal.Decimal `json:"tax_rate"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	Total     decimal.Decimal `json:"total"`
}

// Valid checks the arithmetic invariants of a quote. Orders refuse to open on
// quotes that fail it.
func (q Quote) Valid() bool {
	if q.Category == "" || len(q.LineItems) == 0 {
		return false
	}
	sum := decimal.Zero
	for _, li := range q.LineItems {
		if li.Amount.IsNegative() {
			return false
		}
		sum = sum.Add(li.Amount)
	}
	if !Round2(sum).Equal(q.Subtotal) {
		return false
	}
	if !Round2(q.Subtotal.Mul(q.TaxRate)).Equal(q.TaxAmount) {
		return false
	}
	return Round2(q.Subtotal.Mul(decimal.NewFromInt(1).Add(q.TaxRate))).Equal(q.Total) && q.Total.IsPositive()
}
