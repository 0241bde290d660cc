package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefundRequest(t *testing.T) {
	now := time.Now().UTC()
	r := RefundRequest{ID: "r-1", OrderID: "o-1", Amount: MustAmount("50"), Status: RefundSubmitted, Version: 1}

	t.Run("review then partial approve", func(t *testing.T) {
		rv, err := r.StartReview("sup-1", now)
		require.NoError(t, err)
		assert.True(t, rv.Open())

		part := MustAmount("20")
		ap, err := rv.Approve("sup-1", &part, "partial", now)
		require.NoError(t, err)
		assert.Equal(t, RefundApproved, ap.Status)
		assert.Equal(t, "20.00", FormatAmount(ap.ApprovedAmount))
		assert.Equal(t, int64(3), ap.Version)
		assert.False(t, ap.Open())

		_, err = ap.Reject("sup-1", "", now)
		assert.ErrorIs(t, err, ErrStateTransition)
	})

	t.Run("approve defaults to full amount", func(t *testing.T) {
		ap, err := r.Approve("sup-1", nil, "", now)
		require.NoError(t, err)
		assert.True(t, ap.ApprovedAmount.Equal(r.Amount))
	})

	t.Run("approve above requested", func(t *testing.T) {
		over := MustAmount("50.01")
		_, err := r.Approve("sup-1", &over, "", now)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("review twice", func(t *testing.T) {
		rv, _ := r.StartReview("sup-1", now)
		_, err := rv.StartReview("sup-2", now)
		assert.ErrorIs(t, err, ErrStateTransition)
	})
}
