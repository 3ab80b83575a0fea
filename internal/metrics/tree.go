package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/edvin/statusboard/internal/core"
)

// Sink is an event sink that counts tree churn.
type Sink struct {
	stateChanges *prometheus.CounterVec
	itemsAdded   prometheus.Counter
	itemsRemoved prometheus.Counter
}

// NewSink creates the counters on the given registerer.
func NewSink(reg prometheus.Registerer) *Sink {
	factory := promauto.With(reg)
	return &Sink{
		stateChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "statusboard_state_changes_total",
			Help: "Total state transitions, labeled by the resulting state",
		}, []string{"to"}),
		itemsAdded: factory.NewCounter(prometheus.CounterOpts{
			Name: "statusboard_items_added_total",
			Help: "Total items attached to the tree",
		}),
		itemsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "statusboard_items_removed_total",
			Help: "Total items detached from the tree",
		}),
	}
}

func (s *Sink) Publish(e core.Event) {
	switch e.Type {
	case core.EventItemAdded:
		s.itemsAdded.Inc()
	case core.EventItemRemoved:
		s.itemsRemoved.Inc()
	case core.EventStateChanged:
		s.stateChanges.WithLabelValues(e.Item.State.String()).Inc()
	}
}

// RegisterTreeGauges exposes the current tree composition as gauges
// computed at scrape time.
func RegisterTreeGauges(reg prometheus.Registerer, tree *core.TreeService) {
	reg.MustRegister(newTreeCollector(tree))
}

type treeCollector struct {
	tree     *core.TreeService
	items    *prometheus.Desc
	monitors *prometheus.Desc
	groups   *prometheus.Desc
	worst    *prometheus.Desc
	byState  *prometheus.Desc
}

func newTreeCollector(tree *core.TreeService) *treeCollector {
	return &treeCollector{
		tree: tree,
		items: prometheus.NewDesc("statusboard_items",
			"Total items in the tree", nil, nil),
		monitors: prometheus.NewDesc("statusboard_monitors",
			"Monitor leaves in the tree", nil, nil),
		groups: prometheus.NewDesc("statusboard_groups",
			"Aggregate groups in the tree", nil, nil),
		worst: prometheus.NewDesc("statusboard_worst_state",
			"Priority ordinal of the root's aggregated state", nil, nil),
		byState: prometheus.NewDesc("statusboard_monitors_by_state",
			"Monitor leaves grouped by current state", []string{"state"}, nil),
	}
}

func (c *treeCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.items
	ch <- c.monitors
	ch <- c.groups
	ch <- c.worst
	ch <- c.byState
}

func (c *treeCollector) Collect(ch chan<- prometheus.Metric) {
	sum := c.tree.Summary()
	ch <- prometheus.MustNewConstMetric(c.items, prometheus.GaugeValue, float64(sum.Items))
	ch <- prometheus.MustNewConstMetric(c.monitors, prometheus.GaugeValue, float64(sum.Monitors))
	ch <- prometheus.MustNewConstMetric(c.groups, prometheus.GaugeValue, float64(sum.Groups))
	ch <- prometheus.MustNewConstMetric(c.worst, prometheus.GaugeValue, float64(sum.Worst))
	for _, sc := range sum.ByState {
		ch <- prometheus.MustNewConstMetric(c.byState, prometheus.GaugeValue,
			float64(sc.Count), sc.State.String())
	}
}
