package request

import "github.com/shopspring/decimal"

type FileRefundRequest struct {
	OrderID string          `json:"order_id" binding:"required"`
	Amount  decimal.Decimal `json:"amount" swaggertype:"string"`
	Reason  string          `json:"reason" binding:"required"`
}

// RefundDecisionRequest carries an adjudicator decision. Amount is read on
// approval only and defaults to the requested amount.
type RefundDecisionRequest struct {
	Amount *decimal.Decimal `json:"amount,omitempty" swaggertype:"string"`
	Note   string           `json:"note,omitempty"`
}
