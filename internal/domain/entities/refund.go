package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

type RefundStatus string

const (
	RefundSubmitted   RefundStatus = "submitted"
	RefundUnderReview RefundStatus = "under_review"
	RefundApproved    RefundStatus = "approved"
	RefundRejected    RefundStatus = "rejected"
)

// RefundTarget says which funds a request contests: still locked in escrow,
// or already released to the worker and platform.
type RefundTarget string

const (
	RefundTargetLocked   RefundTarget = "locked"
	RefundTargetReleased RefundTarget = "released"
)

type RefundRequest struct {
	ID             string          `json:"id"`
	OrderID        string          `json:"order_id"`
	FiledBy        string          `json:"filed_by"`
	ContestedTxID  string          `json:"contested_tx_id"`
	Target         RefundTarget    `json:"target"`
	Amount         decimal.Decimal `json:"amount"`
	ApprovedAmount decimal.Decimal `json:"approved_amount"`
	Reason         string          `json:"reason"`
	Status         RefundStatus    `json:"status"`
	ReviewerID     string          `json:"reviewer_id,omitempty"`
	DecisionNote   string          `json:"decision_note,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DecidedAt      time.Time       `json:"decided_at,omitzero"`
	Version        int64           `json:"version"`
}

// Open reports whether the request still blocks the order's hold.
func (r RefundRequest) Open() bool {
	return r.Status == RefundSubmitted || r.Status == RefundUnderReview
}

func (r RefundRequest) illegal(action string) error {
	return &StateTransitionError{Entity: "refund", From: string(r.Status), Action: action}
}

func (r RefundRequest) StartReview(reviewerID string, now time.Time) (RefundRequest, error) {
	if r.Status != RefundSubmitted {
		return r, r.illegal("start review")
	}
	r.Status = RefundUnderReview
	r.ReviewerID = reviewerID
	r.UpdatedAt = now
	r.Version++
	return r, nil
}

// Approve settles the request. A nil amount approves the full filed amount.
func (r RefundRequest) Approve(reviewerID string, amount *decimal.Decimal, note string, now time.Time) (RefundRequest, error) {
	if !r.Open() {
		return r, r.illegal("approve")
	}
	approved := r.Amount
	if amount != nil {
		approved = Round2(*amount)
		if !approved.IsPositive() {
			return r, NewValidationError("approved_amount", "must be greater than zero")
		}
		if approved.GreaterThan(r.Amount) {
			return r, NewValidationError("approved_amount", "cannot exceed the requested amount")
		}
	}
	r.Status = RefundApproved
	r.ApprovedAmount = approved
	r.ReviewerID = reviewerID
	r.DecisionNote = note
	r.DecidedAt = now
	r.UpdatedAt = now
	r.Version++
	return r, nil
}

func (r RefundRequest) Reject(reviewerID, note string, now time.Time) (RefundRequest, error) {
	if !r.Open() {
		return r, r.illegal("reject")
	}
	r.Status = RefundRejected
	r.ApprovedAmount = decimal.Zero
	r.ReviewerID = reviewerID
	r.DecisionNote = note
	r.DecidedAt = now
	r.UpdatedAt = now
	r.Version++
	return r, nil
}
