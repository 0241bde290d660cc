package entities

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuote() Quote {
	return Quote{
		Category:  CategoryItemService,
		LineItems: []LineItem{{Label: "Base fee", Amount: MustAmount("30")}, {Label: "Items x2", Amount: MustAmount("40")}},
		Subtotal:  MustAmount("70"),
		TaxRate:   MustAmount("0.20"),
		TaxAmount: MustAmount("14"),
		Total:     MustAmount("84"),
	}
}

func draftOrder() Order {
	return Order{
		ID:       "o-1",
		ClientID: "client-1",
		Quote:    sampleQuote(),
		Status:   OrderStatusDraft,
		Details: ServiceDetails{
			Address:    "Rua A, 1",
			City:       "Lisbon",
			PostalCode: "1000-001",
		},
		ScheduledFor:   time.Date(2026, 11, 1, 9, 0, 0, 0, time.UTC),
		Permission:     NewPermissionRequest(),
		RefundedAmount: decimal.Zero,
		Version:        1,
	}
}

func TestQuote_Valid(t *testing.T) {
	q := sampleQuote()
	assert.True(t, q.Valid())

	t.Run("subtotal mismatch", func(t *testing.T) {
		bad := sampleQuote()
		bad.Subtotal = MustAmount("71")
		assert.False(t, bad.Valid())
	})

	t.Run("no line items", func(t *testing.T) {
		bad := sampleQuote()
		bad.LineItems = nil
		assert.False(t, bad.Valid())
	})
}

func TestOrder_Submit(t *testing.T) {
	now := time.Now().UTC()

	t.Run("draft to pending", func(t *testing.T) {
		o, err := draftOrder().Submit(now)
		require.NoError(t, err)
		assert.Equal(t, OrderStatusPending, o.Status)
		assert.Equal(t, int64(2), o.Version)
		assert.Equal(t, now, o.SubmittedAt)
	})

	t.Run("missing postal code", func(t *testing.T) {
		o := draftOrder()
		o.Details.PostalCode = " "
		_, err := o.Submit(now)
		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "postal_code", ve.Field)
	})

	t.Run("missing schedule", func(t *testing.T) {
		o := draftOrder()
		o.ScheduledFor = time.Time{}
		_, err := o.Submit(now)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("not a draft", func(t *testing.T) {
		o := draftOrder()
		o.Status = OrderStatusPending
		_, err := o.Submit(now)
		assert.ErrorIs(t, err, ErrStateTransition)
	})
}

func TestOrder_Transitions(t *testing.T) {
	now := time.Now().UTC()
	pending, err := draftOrder().Submit(now)
	require.NoError(t, err)

	accepted, err := pending.Accept("worker-1", now)
	require.NoError(t, err)
	assert.Equal(t, "worker-1", accepted.WorkerID)
	assert.True(t, accepted.Status.FundsLocked())

	_, err = accepted.Accept("worker-2", now)
	assert.ErrorIs(t, err, ErrStateTransition)

	awaiting, err := accepted.SubmitForValidation(false, now)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusAwaitingValidation, awaiting.Status)

	done, err := awaiting.Complete(now)
	require.NoError(t, err)
	assert.True(t, done.Status.Terminal())

	for name, fn := range map[string]func(Order) (Order, error){
		"cancel":   func(o Order) (Order, error) { return o.Cancel("late", now) },
		"dispute":  func(o Order) (Order, error) { return o.Dispute("bad", now) },
		"complete": func(o Order) (Order, error) { return o.Complete(now) },
	} {
		t.Run("terminal rejects "+name, func(t *testing.T) {
			_, err := fn(done)
			var se *StateTransitionError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, string(OrderStatusCompleted), se.From)
		})
	}
}

func TestOrder_Cancel(t *testing.T) {
	now := time.Now().UTC()

	t.Run("draft cannot be cancelled", func(t *testing.T) {
		_, err := draftOrder().Cancel("changed my mind", now)
		assert.ErrorIs(t, err, ErrStateTransition)
	})

	t.Run("pending cancelled", func(t *testing.T) {
		p, _ := draftOrder().Submit(now)
		c, err := p.Cancel("changed my mind", now)
		require.NoError(t, err)
		assert.Equal(t, OrderStatusCancelled, c.Status)
		assert.Equal(t, "changed my mind", c.CancelReason)
	})
}

func TestOrder_EvidenceGuard(t *testing.T) {
	now := time.Now().UTC()
	p, _ := draftOrder().Submit(now)
	accepted, _ := p.Accept("worker-1", now)

	t.Run("upload without permission", func(t *testing.T) {
		_, err := accepted.AttachEvidence(EvidenceItem{Phase: EvidenceBefore, URI: "s3://x"}, now)
		var pe *PermissionError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, PermissionUnrequested, pe.State)
	})

	requested, err := accepted.RequestPermission("worker-1", "before/after photos", now)
	require.NoError(t, err)
	granted, err := requested.RespondPermission(true, now)
	require.NoError(t, err)

	t.Run("granted requires after evidence", func(t *testing.T) {
		_, err := granted.SubmitForValidation(false, now)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("override is recorded", func(t *testing.T) {
		o, err := granted.SubmitForValidation(true, now)
		require.NoError(t, err)
		assert.True(t, o.EvidenceOverride)
	})

	t.Run("after evidence satisfies guard", func(t *testing.T) {
		withEvidence, err := granted.AttachEvidence(EvidenceItem{ID: "e1", Phase: EvidenceAfter, URI: "s3://after.jpg"}, now)
		require.NoError(t, err)
		assert.Len(t, granted.Evidence, 0)
		o, err := withEvidence.SubmitForValidation(false, now)
		require.NoError(t, err)
		assert.False(t, o.EvidenceOverride)
	})

	t.Run("unknown phase", func(t *testing.T) {
		_, err := granted.AttachEvidence(EvidenceItem{Phase: "during", URI: "s3://x"}, now)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestOrder_CloseDispute(t *testing.T) {
	now := time.Now().UTC()
	p, _ := draftOrder().Submit(now)
	accepted, _ := p.Accept("worker-1", now)
	disputed, err := accepted.Dispute("work not done", now)
	require.NoError(t, err)
	assert.Equal(t, "work not done", disputed.Complaint)

	_, err = disputed.Complete(now)
	assert.ErrorIs(t, err, ErrStateTransition)

	done, err := disputed.CloseDispute(OrderStatusCompleted, now)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCompleted, done.Status)

	_, err = disputed.CloseDispute(OrderStatusPending, now)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = accepted.CloseDispute(OrderStatusRefunded, now)
	assert.ErrorIs(t, err, ErrStateTransition)
}

func TestOrder_MarkRefunded(t *testing.T) {
	now := time.Now().UTC()
	p, _ := draftOrder().Submit(now)
	accepted, _ := p.Accept("worker-1", now)

	partial := accepted.MarkRefunded(MustAmount("10"), false, now)
	assert.Equal(t, OrderStatusAccepted, partial.Status)
	assert.True(t, partial.RefundedAmount.Equal(MustAmount("10")))

	full := partial.MarkRefunded(MustAmount("74"), true, now)
	assert.Equal(t, OrderStatusRefunded, full.Status)

	cancelled, _ := accepted.Cancel("x", now)
	after := cancelled.MarkRefunded(MustAmount("84"), true, now)
	assert.Equal(t, OrderStatusCancelled, after.Status)
}
