package core

import "github.com/edvin/statusboard/internal/model"

// StateCount holds a monitor count grouped by state.
type StateCount struct {
	State model.State `json:"state"`
	Count int         `json:"count"`
}

// Summary holds aggregate counts over the whole tree for the dashboard
// header and the notification-icon tooltip.
type Summary struct {
	Items    int          `json:"items"`
	Groups   int          `json:"groups"`
	Monitors int          `json:"monitors"`
	Worst    model.State  `json:"worst"`
	ByState  []StateCount `json:"by_state"`
}

// Summary computes dashboard counts in one pass over the tree.
func (s *TreeService) Summary() *Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := &Summary{Worst: s.root.State}
	byState := make(map[model.State]int)
	s.root.Walk(func(it *model.Item) {
		sum.Items++
		if it.Aggregate {
			sum.Groups++
			return
		}
		sum.Monitors++
		byState[it.State]++
	})
	for st := model.StateNone; st <= model.StateFailed; st++ {
		if n := byState[st]; n > 0 {
			sum.ByState = append(sum.ByState, StateCount{State: st, Count: n})
		}
	}
	return sum
}
