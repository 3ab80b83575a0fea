package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/statusboard/internal/model"
)

func TestSummary_Counts(t *testing.T) {
	svc, _ := newTestTree(t)
	addGroup(t, svc, "root", "g")
	addMonitor(t, svc, "g", "a")
	addMonitor(t, svc, "g", "b")
	addMonitor(t, svc, "root", "c")

	_, err := svc.SetState("a", model.StateOK)
	require.NoError(t, err)
	_, err = svc.SetState("b", model.StateFailed)
	require.NoError(t, err)

	sum := svc.Summary()
	assert.Equal(t, 5, sum.Items)
	assert.Equal(t, 2, sum.Groups)
	assert.Equal(t, 3, sum.Monitors)
	assert.Equal(t, model.StateFailed, sum.Worst)
	assert.Equal(t, []StateCount{
		{State: model.StateNone, Count: 1},
		{State: model.StateOK, Count: 1},
		{State: model.StateFailed, Count: 1},
	}, sum.ByState)
}

func TestSummary_EmptyTree(t *testing.T) {
	svc, _ := newTestTree(t)
	sum := svc.Summary()
	assert.Equal(t, 1, sum.Items)
	assert.Equal(t, 1, sum.Groups)
	assert.Equal(t, 0, sum.Monitors)
	assert.Equal(t, model.StateNone, sum.Worst)
	assert.Empty(t, sum.ByState)
}
