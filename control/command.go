package control

import (
	"github.com/pkg/errors"

	"github.com/uzarakhq/bpsr-uza-modules/types"
)

// ErrInvalidInput is returned from startMonitoring/rescreenModules for
// malformed user input (spec.md §7 "only invalid user inputs produce
// structured {error} responses").
var ErrInvalidInput = errors.New("invalid input")

// ErrNoCapturedData is returned by rescreenModules when nothing has
// been captured yet (spec.md §6).
var ErrNoCapturedData = errors.New("no captured data")

// ErrAlreadyMonitoring is returned by startMonitoring if a session is
// already running.
var ErrAlreadyMonitoring = errors.New("already monitoring")

const maxPrioritizedAttrs = 6

// ScreenRequest carries the category/attribute selection shared by
// startMonitoring and rescreenModules (spec.md §6).
type ScreenRequest struct {
	Category           string
	Attributes         []string
	PrioritizedAttrs    []string
	PriorityOrderMode   bool
}

// StartMonitoringRequest is startMonitoring's full argument set
// (spec.md §6).
type StartMonitoringRequest struct {
	InterfaceName string
	ScreenRequest
}

// category resolves the user-facing category string to a
// types.ModuleCategory. "All" (and the empty string) maps to
// CategoryUnknown, which carries no category-preferred attrs, so the
// fitness category bonus is naturally zero — exactly the "no category
// preference" behavior "All" calls for. Any other string is rejected
// with ErrInvalidInput.
func category(s string) (types.ModuleCategory, error) {
	switch s {
	case "Attack":
		return types.CategoryAttack, nil
	case "Guard":
		return types.CategoryGuard, nil
	case "Support":
		return types.CategorySupport, nil
	case "All", "":
		return types.CategoryUnknown, nil
	default:
		return types.CategoryUnknown, errors.Wrap(ErrInvalidInput, "unknown category "+s)
	}
}

func validate(req ScreenRequest) error {
	if _, err := category(req.Category); err != nil {
		return err
	}

	if len(req.PrioritizedAttrs) > maxPrioritizedAttrs {
		return errors.Wrap(ErrInvalidInput, "prioritizedAttrs exceeds 6 entries")
	}

	known := make(map[string]bool)
	for _, a := range types.AllAttrNames() {
		known[a] = true
	}

	for _, a := range req.PrioritizedAttrs {
		if !known[a] {
			return errors.Wrap(ErrInvalidInput, "unknown prioritized attribute "+a)
		}
	}

	return nil
}
