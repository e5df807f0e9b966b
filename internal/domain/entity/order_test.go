package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
)

func newTestOrder(status valueobject.OrderStatus) *Order {
	return &Order{
		ID:        1,
		ClientID:  10,
		ServiceID: 100,
		Status:    status,
		Total:     decimal.NewFromInt(25),
	}
}

func TestOrder_HappyPathLifecycle(t *testing.T) {
	o := newTestOrder(valueobject.OrderStatusPending)

	for _, action := range []valueobject.OrderAction{
		valueobject.OrderActionApprove,
		valueobject.OrderActionMarkInReview,
		valueobject.OrderActionFinalize,
	} {
		next, err := o.PlanAction(action)
		require.NoError(t, err, action)
		o.ApplyStatus(next)
	}

	assert.Equal(t, valueobject.OrderStatusCompleted, o.Status)
	assert.True(t, o.NeedsReviewPrompt())
	require.NoError(t, o.CanReview(10))

	o.AttachReview(&Review{Rating: 5, Comment: "Great"})
	assert.False(t, o.NeedsReviewPrompt())
	assert.True(t, apperror.IsConflict(o.CanReview(10)))
	assert.NoError(t, o.CheckInvariants())
}

func TestOrder_PlanActionDoesNotMutate(t *testing.T) {
	o := newTestOrder(valueobject.OrderStatusPending)

	next, err := o.PlanAction(valueobject.OrderActionApprove)
	require.NoError(t, err)
	assert.Equal(t, valueobject.OrderStatusInProgress, next)
	assert.Equal(t, valueobject.OrderStatusPending, o.Status)
}

func TestOrder_RejectedIsTerminal(t *testing.T) {
	o := newTestOrder(valueobject.OrderStatusPending)

	next, err := o.PlanAction(valueobject.OrderActionReject)
	require.NoError(t, err)
	o.ApplyStatus(next)
	assert.Equal(t, valueobject.OrderStatusCancelled, o.Status)

	_, err = o.PlanAction(valueobject.OrderActionApprove)
	assert.Error(t, err)
	_, err = o.PlanAction(valueobject.OrderActionFinalize)
	assert.Error(t, err)

	assert.NoError(t, o.ArchiveAllowed())
}

func TestOrder_CanReview(t *testing.T) {
	o := newTestOrder(valueobject.OrderStatusInProgress)
	assert.Error(t, o.CanReview(10))

	o.Status = valueobject.OrderStatusCompleted
	assert.True(t, apperror.IsForbidden(o.CanReview(11)))
	assert.NoError(t, o.CanReview(10))
}

func TestOrder_ArchiveOnlyTerminal(t *testing.T) {
	for _, s := range []valueobject.OrderStatus{
		valueobject.OrderStatusPending,
		valueobject.OrderStatusInProgress,
		valueobject.OrderStatusAlmostDone,
	} {
		assert.Error(t, newTestOrder(s).ArchiveAllowed(), s)
	}
	assert.NoError(t, newTestOrder(valueobject.OrderStatusCompleted).ArchiveAllowed())
}

func TestOrder_IsActive(t *testing.T) {
	assert.True(t, newTestOrder(valueobject.OrderStatusPending).IsActive())
	assert.False(t, newTestOrder(valueobject.OrderStatusCancelled).IsActive())

	archived := newTestOrder(valueobject.OrderStatusCompleted)
	archived.Archived = true
	assert.False(t, archived.IsActive())
}

func TestOrder_CheckInvariants(t *testing.T) {
	o := newTestOrder(valueobject.OrderStatusInProgress)
	o.Review = &Review{Rating: 4}
	assert.Error(t, o.CheckInvariants())

	o = newTestOrder(valueobject.OrderStatusPending)
	o.Archived = true
	assert.Error(t, o.CheckInvariants())

	o = newTestOrder(valueobject.OrderStatus("UNKNOWN"))
	assert.Error(t, o.CheckInvariants())
}
