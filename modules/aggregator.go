// Package modules implements the module aggregator (C7) of
// spec.md §4.8: a uuid-deduplicated, append-only set of decoded
// ModuleInfo records for the current capture session.
package modules

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/uzarakhq/bpsr-uza-modules/types"
)

var modulesCaptured = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "bpsrmon_modules_captured",
	Help: "Number of distinct modules captured in the current session.",
})

func init() {
	prometheus.MustRegister(modulesCaptured)
}

// Aggregator deduplicates ModuleInfo by uuid across an entire capture
// session (spec.md §3 session invariant 3: append-only, cleared only
// on new start).
type Aggregator struct {
	mu      sync.Mutex
	byUUID  map[uint64]types.ModuleInfo
	ordered []uint64
}

// New returns an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{byUUID: make(map[uint64]types.ModuleInfo)}
}

// Add merges a freshly-extracted batch into the set, returning the
// number of genuinely new uuids it contributed (spec.md §4.8).
func (a *Aggregator) Add(batch []types.ModuleInfo) int {
	if len(batch) == 0 {
		return 0
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	added := 0

	for _, m := range batch {
		if _, exists := a.byUUID[m.UUID]; exists {
			continue
		}

		a.byUUID[m.UUID] = m
		a.ordered = append(a.ordered, m.UUID)
		added++

		m.Inc()
	}

	modulesCaptured.Set(float64(len(a.byUUID)))

	return added
}

// Snapshot returns a copy of all captured modules, safe for the
// optimizer to read without racing the pipeline thread (spec.md §5
// "the optimizer reads a snapshot").
func (a *Aggregator) Snapshot() []types.ModuleInfo {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]types.ModuleInfo, 0, len(a.ordered))
	for _, id := range a.ordered {
		out = append(out, a.byUUID[id])
	}

	return out
}

// Len reports the number of distinct modules captured.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.ordered)
}

// Clear empties the set — only called on a new `start` (spec.md §3).
func (a *Aggregator) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.byUUID = make(map[uint64]types.ModuleInfo)
	a.ordered = nil

	modulesCaptured.Set(0)
}
