package control

import (
	"context"

	"go.uber.org/zap"

	"github.com/uzarakhq/bpsr-uza-modules/capture"
	"github.com/uzarakhq/bpsr-uza-modules/container"
	"github.com/uzarakhq/bpsr-uza-modules/frame"
	"github.com/uzarakhq/bpsr-uza-modules/session"
)

// runPipeline is the pipeline thread (C3-C7, spec.md §5 item 2): it
// consumes capture Segments, identifies and reassembles the selected
// flow, demultiplexes frames, decodes module containers and hands
// batches to the aggregator, emitting dataCaptured for every accepted
// batch. It returns when segs is closed or ctx is cancelled.
func (b *Bus) runPipeline(ctx context.Context, segs <-chan capture.Segment) {
	sess := b.sess

	for {
		select {
		case <-ctx.Done():
			return
		case seg, ok := <-segs:
			if !ok {
				return
			}

			b.handleSegment(sess, seg)
		}
	}
}

func (b *Bus) handleSegment(sess *session.Session, seg capture.Segment) {
	if _, selected := sess.SelectedFlow(); !selected {
		if sess.TryAdopt(seg.Flow, seg.Seq, seg.Payload) {
			b.emitProgress("Connected to game server…")
		}

		return
	}

	drained, accepted := sess.Ingest(seg.Flow, seg.Seq, seg.Payload)
	if !accepted || len(drained) == 0 {
		return
	}

	queue := sess.TakeQueue()

	trailing, err := frame.Demux(queue, func(payload []byte) {
		b.handleContainer(payload)
	})
	if err != nil {
		b.log.Warn("malformed outer packet, resetting flow", zap.Error(err))
		sess.Reset()

		return
	}

	sess.PutBackTrailing(trailing)
}

func (b *Bus) handleContainer(payload []byte) {
	b.emitProgress("Found container packet")

	mods, err := container.Decode(payload)
	if err != nil {
		b.log.Debug("no modules found in container payload", zap.Error(err))
		b.emitProgress("no modules found")

		return
	}

	b.emitProgress("Parsing module data…")

	if added := b.agg.Add(mods); added > 0 {
		b.emit(Event{Kind: EventDataCaptured})
		b.mu.Lock()
		b.dataCaptured = true
		b.mu.Unlock()
	}
}
