package entities

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle of a service order.
//
//	Draft -> Pending -> Accepted -> AwaitingValidation -> Completed
//	Pending|Accepted|AwaitingValidation -> Cancelled | Disputed
//	Disputed -> Completed | Refunded | Cancelled (adjudicator outcome)
//
// Completed, Cancelled and Refunded are terminal.
type OrderStatus string

const (
	OrderStatusDraft              OrderStatus = "draft"
	OrderStatusPending            OrderStatus = "pending"
	OrderStatusAccepted           OrderStatus = "accepted"
	OrderStatusAwaitingValidation OrderStatus = "awaiting_validation"
	OrderStatusCompleted          OrderStatus = "completed"
	OrderStatusDisputed           OrderStatus = "disputed"
	OrderStatusCancelled          OrderStatus = "cancelled"
	OrderStatusRefunded           OrderStatus = "refunded"
)

func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// FundsLocked reports whether an order in this status has an escrow hold.
func (s OrderStatus) FundsLocked() bool {
	switch s {
	case OrderStatusAccepted, OrderStatusAwaitingValidation, OrderStatusDisputed:
		return true
	}
	return false
}

type EvidencePhase string

const (
	EvidenceBefore EvidencePhase = "before"
	EvidenceAfter  EvidencePhase = "after"
)

// EvidenceItem references documentation held by the external file store.
type EvidenceItem struct {
	ID         string        `json:"id"`
	Phase      EvidencePhase `json:"phase"`
	URI        string        `json:"uri"`
	Note       string        `json:"note,omitempty"`
	AttachedAt time.Time     `json:"attached_at"`
}

// ServiceDetails carries the free-form part of an order request.
type ServiceDetails struct {
	Description           string `json:"description"`
	Address               string `json:"address"`
	City                  string `json:"city"`
	PostalCode            string `json:"postal_code"`
	PreferredTimeWindow   string `json:"preferred_time_window,omitempty"`
	PreferredWorkerGender string `json:"preferred_worker_gender,omitempty"`
	Notes                 string `json:"notes,omitempty"`
}

// Order is owned by the order lifecycle. Version increments on every
// committed transition and backs the optimistic checks in storage.
type Order struct {
	ID               string            `json:"id"`
	ClientID         string            `json:"client_id"`
	WorkerID         string            `json:"worker_id,omitempty"`
	Quote            Quote             `json:"quote"`
	Status           OrderStatus       `json:"status"`
	Details          ServiceDetails    `json:"details"`
	ScheduledFor     time.Time         `json:"scheduled_for,omitzero"`
	Permission       PermissionRequest `json:"permission"`
	Evidence         []EvidenceItem    `json:"evidence,omitempty"`
	EvidenceOverride bool              `json:"evidence_override,omitempty"`
	Complaint        string            `json:"complaint,omitempty"`
	CancelReason     string            `json:"cancel_reason,omitempty"`
	RefundedAmount   decimal.Decimal   `json:"refunded_amount"`
	CreatedAt        time.Time         `json:"created_at"`
	SubmittedAt      time.Time         `json:"submitted_at,omitzero"`
	AcceptedAt       time.Time         `json:"accepted_at,omitzero"`
	CompletedAt      time.Time         `json:"completed_at,omitzero"`
	CancelledAt      time.Time         `json:"cancelled_at,omitzero"`
	UpdatedAt        time.Time         `json:"updated_at"`
	Version          int64             `json:"version"`
}

func (o Order) illegal(action string) error {
	return &StateTransitionError{Entity: "order", From: string(o.Status), Action: action}
}

func (o Order) touch(now time.Time) Order {
	o.UpdatedAt = now
	o.Version++
	return o
}

// Submit moves a draft to pending. Location and schedule are required.
func (o Order) Submit(now time.Time) (Order, error) {
	if o.Status != OrderStatusDraft {
		return o, o.illegal("submit")
	}
	if !o.Quote.Valid() {
		return o, NewValidationError("quote", "quote is missing or inconsistent")
	}
	switch {
	case strings.TrimSpace(o.Details.Address) == "":
		return o, NewValidationError("address", "required")
	case strings.TrimSpace(o.Details.City) == "":
		return o, NewValidationError("city", "required")
	case strings.TrimSpace(o.Details.PostalCode) == "":
		return o, NewValidationError("postal_code", "required")
	case o.ScheduledFor.IsZero():
		return o, NewValidationError("scheduled_date", "required")
	}
	o.Status = OrderStatusPending
	o.SubmittedAt = now
	return o.touch(now), nil
}

// Accept assigns the worker. The caller decides whether a non-pending order
// means a lost race or an illegal action.
func (o Order) Accept(workerID string, now time.Time) (Order, error) {
	if o.Status != OrderStatusPending {
		return o, o.illegal("accept")
	}
	o.Status = OrderStatusAccepted
	o.WorkerID = workerID
	o.AcceptedAt = now
	return o.touch(now), nil
}

// SubmitForValidation hands the work to the client. When documentation was
// granted, an "after" evidence item is required unless overridden.
func (o Order) SubmitForValidation(overrideAck bool, now time.Time) (Order, error) {
	if o.Status != OrderStatusAccepted {
		return o, o.illegal("submit for validation")
	}
	if o.Permission.RequiresEvidence() && !o.HasEvidence(EvidenceAfter) {
		if !overrideAck {
			return o, NewValidationError("evidence", "an after-service evidence item is required")
		}
		o.EvidenceOverride = true
	}
	o.Status = OrderStatusAwaitingValidation
	return o.touch(now), nil
}

func (o Order) Complete(now time.Time) (Order, error) {
	if o.Status != OrderStatusAwaitingValidation {
		return o, o.illegal("complete")
	}
	o.Status = OrderStatusCompleted
	o.CompletedAt = now
	return o.touch(now), nil
}

func (o Order) Dispute(reason string, now time.Time) (Order, error) {
	switch o.Status {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusAwaitingValidation:
	default:
		return o, o.illegal("raise complaint")
	}
	if strings.TrimSpace(reason) == "" {
		return o, NewValidationError("reason", "required")
	}
	o.Status = OrderStatusDisputed
	o.Complaint = reason
	return o.touch(now), nil
}

// CloseDispute applies the adjudicator's outcome to a disputed order.
func (o Order) CloseDispute(to OrderStatus, now time.Time) (Order, error) {
	if o.Status != OrderStatusDisputed {
		return o, o.illegal("resolve dispute")
	}
	switch to {
	case OrderStatusCompleted:
		o.CompletedAt = now
	case OrderStatusRefunded, OrderStatusCancelled:
		o.CancelledAt = now
	default:
		return o, NewValidationError("outcome", "must be completed, refunded or cancelled")
	}
	o.Status = to
	return o.touch(now), nil
}

func (o Order) Cancel(reason string, now time.Time) (Order, error) {
	switch o.Status {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusAwaitingValidation:
	default:
		return o, o.illegal("cancel")
	}
	o.Status = OrderStatusCancelled
	o.CancelReason = reason
	o.CancelledAt = now
	return o.touch(now), nil
}

// MarkRefunded records a refund against the order. A full refund of a
// non-terminal order ends it in Refunded.
func (o Order) MarkRefunded(amount decimal.Decimal, fullyRefunded bool, now time.Time) Order {
	o.RefundedAmount = o.RefundedAmount.Add(amount)
	if fullyRefunded && !o.Status.Terminal() {
		o.Status = OrderStatusRefunded
		o.CancelledAt = now
	}
	return o.touch(now)
}

func (o Order) RequestPermission(requestedBy, reason string, now time.Time) (Order, error) {
	if o.Status != OrderStatusAccepted {
		return o, o.illegal("request permission")
	}
	p, err := o.Permission.Request(requestedBy, reason, now)
	if err != nil {
		return o, err
	}
	o.Permission = p
	return o.touch(now), nil
}

func (o Order) RespondPermission(granted bool, now time.Time) (Order, error) {
	if o.Status != OrderStatusAccepted {
		return o, o.illegal("respond to permission")
	}
	p, err := o.Permission.Respond(granted, now)
	if err != nil {
		return o, err
	}
	o.Permission = p
	return o.touch(now), nil
}

func (o Order) AttachEvidence(item EvidenceItem, now time.Time) (Order, error) {
	if o.Status != OrderStatusAccepted {
		return o, o.illegal("attach evidence")
	}
	if err := o.Permission.CanUpload(); err != nil {
		return o, err
	}
	if item.Phase != EvidenceBefore && item.Phase != EvidenceAfter {
		return o, NewValidationError("phase", "must be before or after")
	}
	if strings.TrimSpace(item.URI) == "" {
		return o, NewValidationError("uri", "required")
	}
	item.AttachedAt = now
	o.Evidence = append(append([]EvidenceItem(nil), o.Evidence...), item)
	return o.touch(now), nil
}

func (o Order) HasEvidence(phase EvidencePhase) bool {
	for _, e := range o.Evidence {
		if e.Phase == phase {
			return true
		}
	}
	return false
}
