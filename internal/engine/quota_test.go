package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotaEnforcer_WithinLimit(t *testing.T) {
	q := NewQuotaEnforcer(10)

	for i := 0; i < 10; i++ {
		assert.NoError(t, q.Check(), "step %d should be allowed", i+1)
	}

	assert.Equal(t, 10, q.Current())
	assert.Equal(t, 10, q.MaxSteps())
}

func TestQuotaEnforcer_ExceedsLimit(t *testing.T) {
	q := NewQuotaEnforcer(5)
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Check())
	}

	err := q.Check()
	require.Error(t, err)

	var stepsErr *StepsExceededError
	require.ErrorAs(t, err, &stepsErr)
	assert.Equal(t, 6, stepsErr.Steps)
	assert.Equal(t, 5, stepsErr.Limit)
	assert.Equal(t, 0, stepsErr.Line)
	assert.True(t, IsStepsExceededError(err))
}

func TestQuotaEnforcer_Disabled(t *testing.T) {
	q := NewQuotaEnforcer(0)
	for i := 0; i < 1000; i++ {
		require.NoError(t, q.Check())
	}
	assert.Equal(t, 1000, q.Current())
}

func TestStepsExceededError_Error(t *testing.T) {
	err := &StepsExceededError{Steps: 11, Limit: 10}
	assert.Equal(t, "exceeded max steps quota: 11 steps > 10 limit", err.Error())

	err.Line = 4
	assert.Equal(t, "line 4: exceeded max steps quota: 11 steps > 10 limit", err.Error())
}

func TestIsStepsExceededError_Other(t *testing.T) {
	assert.False(t, IsStepsExceededError(nil))
	assert.False(t, IsStepsExceededError(&RuntimeError{Kind: KindTypeError}))
}
