package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/campus-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/campus-gateway/internal/pkg/apperror"
)

func TestNewRequirement(t *testing.T) {
	empty := "  "
	r, err := NewRequirement(7, " Logo design ", "Need a logo", &empty)
	require.NoError(t, err)
	assert.Equal(t, "Logo design", r.Title)
	assert.Equal(t, valueobject.RequirementStatusOpen, r.Status)
	assert.Nil(t, r.TargetCareer)

	_, err = NewRequirement(7, "", "x", nil)
	assert.True(t, apperror.IsValidation(err))
	_, err = NewRequirement(7, "x", "", nil)
	assert.True(t, apperror.IsValidation(err))
}

func TestRequirement_SelectCandidateScenario(t *testing.T) {
	req := &Requirement{ID: 1, ClientID: 7, Title: "Logo design", Status: valueobject.RequirementStatusOpen}
	app1 := &Application{ID: 11, StudentID: 21, RequirementID: 1, Status: valueobject.ApplicationStatusPending}
	app2 := &Application{ID: 12, StudentID: 22, RequirementID: 1, Status: valueobject.ApplicationStatusPending}

	assert.True(t, req.SelectEnabled(7))
	require.NoError(t, req.CanSelect(7, app1))

	req.ApplySelection(app1)

	assert.Equal(t, valueobject.ApplicationStatusAccepted, app1.Status)
	assert.Equal(t, valueobject.ApplicationStatusPending, app2.Status)
	assert.Equal(t, valueobject.RequirementStatusClosed, req.Status)
	require.NotNil(t, req.SelectedApplicationID)
	assert.Equal(t, int64(11), *req.SelectedApplicationID)

	assert.False(t, req.SelectEnabled(7))
	assert.Error(t, req.CanSelect(7, app2))
	assert.NoError(t, CheckSelection(req, []*Application{app1, app2}))
}

func TestRequirement_CanSelectGuards(t *testing.T) {
	req := &Requirement{ID: 1, ClientID: 7, Status: valueobject.RequirementStatusOpen}
	app := &Application{ID: 11, RequirementID: 1, Status: valueobject.ApplicationStatusPending}

	assert.True(t, apperror.IsForbidden(req.CanSelect(8, app)))
	assert.True(t, apperror.IsNotFound(req.CanSelect(7, &Application{ID: 99, RequirementID: 2})))
	assert.True(t, apperror.IsNotFound(req.CanSelect(7, nil)))

	app.Status = valueobject.ApplicationStatusRejected
	assert.Error(t, req.CanSelect(7, app))
}

func TestRequirement_CanApply(t *testing.T) {
	req := &Requirement{ID: 1, ClientID: 7, Status: valueobject.RequirementStatusOpen}
	assert.NoError(t, req.CanApply(21))
	assert.True(t, apperror.IsForbidden(req.CanApply(7)))

	req.Archived = true
	assert.Error(t, req.CanApply(21))

	req.Archived = false
	req.Status = valueobject.RequirementStatusClosed
	assert.Error(t, req.CanApply(21))
}

func TestCheckSelection(t *testing.T) {
	req := &Requirement{ID: 1, Status: valueobject.RequirementStatusOpen}
	accepted := &Application{ID: 1, RequirementID: 1, Status: valueobject.ApplicationStatusAccepted}
	assert.Error(t, CheckSelection(req, []*Application{accepted}))

	req.Status = valueobject.RequirementStatusClosed
	assert.NoError(t, CheckSelection(req, []*Application{accepted}))

	second := &Application{ID: 2, RequirementID: 1, Status: valueobject.ApplicationStatusAccepted}
	assert.Error(t, CheckSelection(req, []*Application{accepted, second}))

	other := &Application{ID: 3, RequirementID: 2, Status: valueobject.ApplicationStatusAccepted}
	assert.NoError(t, CheckSelection(req, []*Application{accepted, other}))
}
