package intake

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWizardHasOneEmptyRole(t *testing.T) {
	w := NewWizard()
	assert.Equal(t, StepCompany, w.Step)
	require.Len(t, w.Form.DeveloperRoles, 1)
	assert.Equal(t, 1, w.Form.DeveloperRoles[0].NumberOfDevelopers)
	assert.NotEmpty(t, w.Form.DeveloperRoles[0].ID)
	assert.Empty(t, w.Form.DeveloperRoles[0].RequiredTechStack)
}

func TestWizardStepsAreClamped(t *testing.T) {
	w := NewWizard()
	w.Prev()
	assert.Equal(t, StepCompany, w.Step)

	for i := 0; i < 10; i++ {
		w.Next()
	}
	assert.Equal(t, StepConfirmation, w.Step)
	assert.True(t, w.Confirmed())

	w.Prev()
	assert.Equal(t, StepBudget, w.Step)
}

func TestWizardRolesKeepAtLeastOne(t *testing.T) {
	w := NewWizard()
	only := w.Form.DeveloperRoles[0].ID
	assert.False(t, w.RemoveRole(only))
	assert.Len(t, w.Form.DeveloperRoles, 1)

	w.AddRole()
	require.Len(t, w.Form.DeveloperRoles, 2)
	second := w.Form.DeveloperRoles[1].ID
	assert.NotEqual(t, only, second)

	assert.False(t, w.RemoveRole("unknown"))
	assert.True(t, w.RemoveRole(only))
	require.Len(t, w.Form.DeveloperRoles, 1)
	assert.Equal(t, second, w.Form.DeveloperRoles[0].ID)
}

func TestWizardSetASAPClearsStartDate(t *testing.T) {
	w := NewWizard()
	d := time.Now().Add(48 * time.Hour)
	w.Form.StartDate = &d

	w.SetASAP(false)
	assert.NotNil(t, w.Form.StartDate)

	w.SetASAP(true)
	assert.True(t, w.Form.IsASAP)
	assert.Nil(t, w.Form.StartDate)
}
