package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
)

func TestPlanArchive_Idempotent(t *testing.T) {
	svc := &Service{ID: 1, Archived: true}

	needed, err := PlanArchive(svc, true)
	require.NoError(t, err)
	assert.False(t, needed)
	assert.True(t, svc.Archived)
}

func TestPlanArchive_OrderPolicy(t *testing.T) {
	pending := &Order{ID: 1, Status: valueobject.OrderStatusPending}
	_, err := PlanArchive(pending, true)
	assert.Error(t, err)

	done := &Order{ID: 2, Status: valueobject.OrderStatusCompleted}
	needed, err := PlanArchive(done, true)
	require.NoError(t, err)
	assert.True(t, needed)
}

func TestPlanArchive_RestoreAlwaysAllowed(t *testing.T) {
	closed := &Requirement{ID: 1, Status: valueobject.RequirementStatusClosed, Archived: true}
	needed, err := PlanArchive(closed, false)
	require.NoError(t, err)
	assert.True(t, needed)

	// Даже некорректно заархивированный заказ можно восстановить.
	odd := &Order{ID: 3, Status: valueobject.OrderStatusPending, Archived: true}
	needed, err = PlanArchive(odd, false)
	require.NoError(t, err)
	assert.True(t, needed)
}

func TestPlanArchive_Nil(t *testing.T) {
	_, err := PlanArchive(nil, true)
	assert.Error(t, err)
}
