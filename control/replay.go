package control

import (
	"context"

	"go.uber.org/zap"

	"github.com/uzarakhq/bpsr-uza-modules/capture"
	"github.com/uzarakhq/bpsr-uza-modules/session"
)

// RunReplay drives an entire offline pcap file through the same
// pipeline StartMonitoring uses, blocking until the file is exhausted,
// then runs one optimization pass and emits monitoringStopped
// (SPEC_FULL.md §C offline pcap replay).
func (b *Bus) RunReplay(path string, req StartMonitoringRequest) error {
	commandsReceived.WithLabelValues("runReplay").Inc()

	if err := validate(req.ScreenRequest); err != nil {
		return err
	}

	handle, err := capture.OpenOffline(path)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.capHandle = handle
	b.sess = session.New()
	b.agg.Clear()
	b.lastReq = req.ScreenRequest
	b.dataCaptured = false
	b.monitoring = true
	b.startedOnce = true
	b.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	b.mu.Lock()
	b.cancel = cancel
	b.mu.Unlock()

	segs := make(chan capture.Segment, 256)

	go handle.Run(ctx, segs)

	b.log.Info("replay started", zap.String("path", path))
	b.emitProgress("Listening for game traffic…")

	b.runPipeline(ctx, segs)

	handle.Close()

	b.mu.Lock()
	b.monitoring = false
	b.mu.Unlock()

	if b.HasCapturedData() {
		b.runOptimization(req.ScreenRequest)
	} else {
		b.emitProgress("no modules found")
	}

	b.emit(Event{Kind: EventMonitoringStopped})

	return nil
}
