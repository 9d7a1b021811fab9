package control

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
	"go.uber.org/zap"

	"github.com/uzarakhq/bpsr-uza-modules/capture"
	"github.com/uzarakhq/bpsr-uza-modules/internal/config"
	"github.com/uzarakhq/bpsr-uza-modules/internal/logging"
	"github.com/uzarakhq/bpsr-uza-modules/modules"
	"github.com/uzarakhq/bpsr-uza-modules/optimizer"
	"github.com/uzarakhq/bpsr-uza-modules/session"
)

// rescreenDebounce is the quiet period before a queued rescreen
// actually runs (spec.md §5 "Debounce rapid rescreen invocations at
// 300 ms").
const rescreenDebounce = 300 * time.Millisecond

var commandsReceived = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bpsrmon_control_commands_total",
		Help: "Commands received on the control bus, by command name.",
	},
	[]string{"command"},
)

func init() {
	prometheus.MustRegister(commandsReceived)
}

// Bus is the core's command/event seam (spec.md §4.12, §9): the shell
// calls its methods and drains Events() — never closures into core
// mutable state.
type Bus struct {
	cfg config.Config
	log *zap.Logger

	events chan Event

	mu            sync.Mutex
	monitoring    bool
	startedOnce   bool
	dataCaptured  bool
	sess          *session.Session
	agg           *modules.Aggregator
	capHandle     *capture.Handle
	cancel        context.CancelFunc
	lastReq       ScreenRequest
	rescreenTimer *time.Timer
	sessionID     string
}

// New returns an idle Bus. No capture session is running until
// StartMonitoring is called.
func New(cfg config.Config) *Bus {
	return &Bus{
		cfg:    cfg,
		log:    logging.New("control.bus", cfg.Debug),
		events: make(chan Event, eventQueueSize),
		agg:    modules.New(),
	}
}

// Events returns the core-to-shell event channel.
func (b *Bus) Events() <-chan Event {
	return b.events
}

func (b *Bus) emit(e Event) {
	select {
	case b.events <- e:
	default:
		b.log.Warn("event queue full, dropping event", zap.String("kind", e.Kind.String()))
	}
}

func (b *Bus) emitProgress(msg string) {
	b.emit(Event{Kind: EventProgress, Message: msg})
}

// CheckCaptureBackend reports whether the platform's packet capture
// backend is usable (spec.md §6 checkCaptureBackend).
func (b *Bus) CheckCaptureBackend() bool {
	return capture.CheckBackend()
}

// HasCapturedData reports whether any module has been captured in
// the current session (spec.md §6).
func (b *Bus) HasCapturedData() bool {
	return b.agg.Len() > 0
}

// StartMonitoring opens the capture backend on interfaceName and
// starts the capture + pipeline + janitor goroutines (spec.md §4.12,
// §5). It returns ErrInvalidInput for a malformed request and
// ErrAlreadyMonitoring if a session is already running.
func (b *Bus) StartMonitoring(req StartMonitoringRequest) error {
	commandsReceived.WithLabelValues("startMonitoring").Inc()

	if err := validate(req.ScreenRequest); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.monitoring {
		return ErrAlreadyMonitoring
	}

	handle, err := capture.OpenLive(req.InterfaceName)
	if err != nil {
		capture.LogOpenError(req.InterfaceName, err)
		return err
	}

	b.capHandle = handle
	b.sess = session.New()
	b.agg.Clear()
	b.lastReq = req.ScreenRequest
	b.dataCaptured = false
	b.monitoring = true
	b.startedOnce = true
	b.sessionID = xid.New().String()

	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	segs := make(chan capture.Segment, 256)

	go handle.Run(ctx, segs)
	go b.runPipeline(ctx, segs)
	go session.RunJanitor(ctx, b.sess)

	b.log.Info("monitoring started", zap.String("session", b.sessionID), zap.String("interface", req.InterfaceName))
	b.emitProgress("Listening for game traffic…")

	return nil
}

// StopMonitoring closes the capture backend, clears reassembly state
// and cancels the janitor, preserving the captured-module set
// (spec.md §5 "Cancellation and timeouts").
func (b *Bus) StopMonitoring() {
	commandsReceived.WithLabelValues("stopMonitoring").Inc()

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.monitoring {
		return
	}

	b.cancel()
	b.capHandle.Close()
	b.sess.Reset()
	b.monitoring = false

	b.log.Info("monitoring stopped", zap.String("session", b.sessionID))
	b.emit(Event{Kind: EventMonitoringStopped})
}

// RescreenModules validates the request and checks for captured data
// synchronously, then debounces the actual optimization run (spec.md
// §4.12, §5).
func (b *Bus) RescreenModules(req ScreenRequest) error {
	commandsReceived.WithLabelValues("rescreenModules").Inc()

	if err := validate(req); err != nil {
		return err
	}

	if !b.HasCapturedData() {
		return ErrNoCapturedData
	}

	b.mu.Lock()
	b.lastReq = req

	if b.rescreenTimer != nil {
		b.rescreenTimer.Stop()
	}

	b.rescreenTimer = time.AfterFunc(rescreenDebounce, func() {
		b.mu.Lock()
		r := b.lastReq
		b.mu.Unlock()

		b.runOptimization(r)
	})
	b.mu.Unlock()

	return nil
}

// runOptimization executes the full pre-filter → GA → ranker pipeline
// (C8-C10) against the current module snapshot and emits resultsReady
// (spec.md §4.9-§4.11).
func (b *Bus) runOptimization(req ScreenRequest) {
	b.emitProgress("Optimizing combinations…")

	pool := b.agg.Snapshot()

	cat, err := category(req.Category)
	if err != nil {
		b.log.Error("invalid category reached runOptimization", zap.Error(err))
		return
	}

	working, highQuality, err := optimizer.PreFilter(pool, req.PrioritizedAttrs)
	if err != nil {
		b.emitProgress("insufficient modules for optimization")
		return
	}

	workingSet := optimizer.WorkingSet(working, highQuality)

	params := optimizer.ParamsFromConfig(b.cfg.GA)
	numCampaigns := optimizer.NumCampaigns(b.cfg.GA.NumCampaigns)

	merged := optimizer.RunCampaigns(workingSet, cat, req.PrioritizedAttrs, params, numCampaigns, time.Now().UnixNano())

	var prioritized []string
	if req.PriorityOrderMode {
		prioritized = req.PrioritizedAttrs
	}

	ranked := optimizer.Rank(merged, prioritized, b.cfg.GA.TopN)

	if len(ranked) > 0 {
		b.emitProgress(fmt.Sprintf("Task %d/%d completed. Highest score: %d", numCampaigns, numCampaigns, ranked[0].Score))
	}

	b.emit(Event{Kind: EventResultsReady, Solutions: ranked})
}
