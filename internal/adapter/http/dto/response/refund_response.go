package response

import (
	"marketplace_escrow/internal/domain/entities"
	"time"
)

type RefundResponse struct {
	ID             string     `json:"id"`
	OrderID        string     `json:"order_id"`
	FiledBy        string     `json:"filed_by"`
	ContestedTxID  string     `json:"contested_tx_id"`
	Target         string     `json:"target"`
	Amount         string     `json:"amount"`
	ApprovedAmount string     `json:"approved_amount"`
	Reason         string     `json:"reason"`
	Status         string     `json:"status"`
	ReviewerID     string     `json:"reviewer_id,omitempty"`
	DecisionNote   string     `json:"decision_note,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
}

func FromRefund(r entities.RefundRequest) RefundResponse {
	return RefundResponse{
		ID:             r.ID,
		OrderID:        r.OrderID,
		FiledBy:        r.FiledBy,
		ContestedTxID:  r.ContestedTxID,
		Target:         string(r.Target),
		Amount:         entities.FormatAmount(r.Amount),
		ApprovedAmount: entities.FormatAmount(r.ApprovedAmount),
		Reason:         r.Reason,
		Status:         string(r.Status),
		ReviewerID:     r.ReviewerID,
		DecisionNote:   r.DecisionNote,
		CreatedAt:      r.CreatedAt,
		DecidedAt:      optionalTime(r.DecidedAt),
	}
}

func FromRefunds(rs []entities.RefundRequest) []RefundResponse {
	out := make([]RefundResponse, 0, len(rs))
	for _, r := range rs {
		out = append(out, FromRefund(r))
	}
	return out
}
