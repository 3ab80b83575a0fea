package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/statusboard/internal/core"
	"github.com/edvin/statusboard/internal/model"
)

func TestSink_CountsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink := NewSink(reg)

	root := model.NewGroup("root")
	root.ID = "root"
	tree := core.NewTreeService(root, sink, zerolog.Nop())

	m := model.NewMonitor("api", model.KindExternal, "")
	m.ID = "api"
	require.NoError(t, tree.Add("root", m))
	_, err := tree.SetState("api", model.StateFailed)
	require.NoError(t, err)
	require.NoError(t, tree.Remove("root", "api"))

	assert.Equal(t, float64(1), testutil.ToFloat64(sink.itemsAdded))
	assert.Equal(t, float64(1), testutil.ToFloat64(sink.itemsRemoved))
	// Leaf and root both transitioned to Failed.
	assert.Equal(t, float64(2), testutil.ToFloat64(sink.stateChanges.WithLabelValues("failed")))
}

func TestTreeGauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	root := model.NewGroup("root")
	root.ID = "root"
	tree := core.NewTreeService(root, nil, zerolog.Nop())
	m := model.NewMonitor("api", model.KindExternal, "")
	m.ID = "api"
	require.NoError(t, tree.Add("root", m))

	RegisterTreeGauges(reg, tree)

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["statusboard_items"])
	assert.True(t, names["statusboard_monitors"])
	assert.True(t, names["statusboard_monitors_by_state"])
}
