// Package control implements the command/event bus (C11) of spec.md
// §4.12: the seam between the shell (UI) and the capture/optimize
// core, re-architected from callbacks into bounded queues (spec.md
// §9 "Event delivery without closures over mutable state").
package control

import "github.com/uzarakhq/bpsr-uza-modules/types"

// EventKind tags the four events the core emits upward (spec.md §4.12).
type EventKind int

const (
	EventDataCaptured EventKind = iota
	EventProgress
	EventResultsReady
	EventMonitoringStopped
)

func (k EventKind) String() string {
	switch k {
	case EventDataCaptured:
		return "dataCaptured"
	case EventProgress:
		return "progress"
	case EventResultsReady:
		return "resultsReady"
	case EventMonitoringStopped:
		return "monitoringStopped"
	default:
		return "unknown"
	}
}

// Event is one message on the core-to-shell queue.
type Event struct {
	Kind      EventKind
	Message   string
	Solutions []types.ModuleSolution
}

// eventQueueSize bounds the event channel; the shell is expected to
// drain it promptly, but a bound keeps a stalled shell from growing
// core memory without limit.
const eventQueueSize = 256
