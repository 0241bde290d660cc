package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entity kinds used in storage conflicts.
const (
	KindOrder       = "order"
	KindAccount     = "account"
	KindHold        = "hold"
	KindRefund      = "refund"
	KindTransaction = "transaction"
	KindEvent       = "event"
)

type OutboxStatus string

const (
	OutboxPending   OutboxStatus = "pending"
	OutboxPublished OutboxStatus = "published"
)

// Event types announced to the notification and adjudication collaborators.
const (
	EventOrderOpened              = "order.opened"
	EventOrderSubmitted           = "order.submitted"
	EventOrderAccepted            = "order.accepted"
	EventPermissionRequested      = "order.permission_requested"
	EventPermissionResponded      = "order.permission_responded"
	EventEvidenceAttached         = "order.evidence_attached"
	EventOrderAwaitingValidation  = "order.awaiting_validation"
	EventOrderCompleted           = "order.completed"
	EventOrderDisputed            = "order.disputed"
	EventOrderCancelled           = "order.cancelled"
	EventOrderRefunded            = "order.refunded"
	EventFundsLocked              = "funds.locked"
	EventFundsReleased            = "funds.released"
	EventFundsRefunded            = "funds.refunded"
	EventFundsReversed            = "funds.reversed"
	EventFundsDeposited           = "funds.deposited"
	EventRefundFiled              = "refund.filed"
	EventRefundUnderReview        = "refund.under_review"
	EventRefundApproved           = "refund.approved"
	EventRefundRejected           = "refund.rejected"
	EventAccountVerificationState = "account.verification_changed"
)

// OutboxEvent is written in the same commit as the change it describes and
// relayed to the broker afterwards.
type OutboxEvent struct {
	ID          string          `json:"id"`
	Type        string          `json:"type"`
	AggregateID string          `json:"aggregate_id"`
	Payload     json.RawMessage `json:"payload"`
	Status      OutboxStatus    `json:"status"`
	Attempts    int             `json:"attempts"`
	CreatedAt   time.Time       `json:"created_at"`
	PublishedAt time.Time       `json:"published_at,omitzero"`
}

func NewOutboxEvent(eventType, aggregateID string, payload any, now time.Time) (OutboxEvent, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return OutboxEvent{}, err
	}
	return OutboxEvent{
		ID:          uuid.NewString(),
		Type:        eventType,
		AggregateID: aggregateID,
		Payload:     b,
		Status:      OutboxPending,
		CreatedAt:   now,
	}, nil
}
