package session

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/uzarakhq/bpsr-uza-modules/internal/logging"
	"github.com/uzarakhq/bpsr-uza-modules/types"
)

const (
	// MaxCacheEntries bounds the out-of-order segment cache, spec.md §3/§4.4.
	MaxCacheEntries = 1000
	// MaxQueueBytes bounds the reassembled byte queue, spec.md §3.
	MaxQueueBytes = 10 * 1024 * 1024
	// MaxOuterPacketSize is the largest valid outer-frame size, spec.md §3.
	MaxOuterPacketSize = 0x0F_FFFF
	// CacheEntryTimeout evicts cache entries idle this long, spec.md §3.
	CacheEntryTimeout = 60 * time.Second
	// IdleResetTimeout resets the flow if the queue is idle this long, spec.md §4.4.
	IdleResetTimeout = 30 * time.Second
	// JanitorInterval is the cadence of the periodic eviction task, spec.md §4.4/§5.
	JanitorInterval = 10 * time.Second
)

var reassemblyLog = logging.New("session.reassembly", false)

var (
	cacheEvictions = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bpsrmon_reassembly_cache_evictions_total",
		Help: "Segment cache entries evicted by LRU size pressure or timeout.",
	})
	flowResets = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bpsrmon_reassembly_flow_resets_total",
		Help: "Times the selected flow was reset (desync, idle timeout, stop).",
	})
	bytesDrained = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bpsrmon_reassembly_bytes_drained_total",
		Help: "Bytes moved from the out-of-order cache into the reassembled queue.",
	})
)

func init() {
	prometheus.MustRegister(cacheEvictions, flowResets, bytesDrained)
}

// cacheEntry is a SegmentCacheEntry (spec.md §3): payload bytes keyed
// by their starting sequence number, with a last-access timestamp.
type cacheEntry struct {
	payload    []byte
	lastAccess time.Time
}

// Session owns the ReassemblyState for the single selected flow
// (spec.md §3, §5 "owns ReassemblyState").
type Session struct {
	mu sync.Mutex

	selected     *types.FlowKey
	selectedAt   time.Time
	expectedSeq  *uint32
	haveExpected bool
	queue        []byte
	cache        map[uint32]*cacheEntry
	lastActivity time.Time

	log *zap.Logger
}

// New returns an empty Session with no selected flow.
func New() *Session {
	return &Session{
		cache: make(map[uint32]*cacheEntry),
		log:   reassemblyLog,
	}
}

// SelectedFlow returns the currently selected flow, if any.
func (s *Session) SelectedFlow() (types.FlowKey, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		return types.FlowKey{}, false
	}

	return *s.selected, true
}

// Reset clears the selected flow and all reassembly state, preserving
// nothing — the next TryAdopt starts a fresh session (spec.md §4.4/§5).
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.resetLocked("explicit reset")
}

func (s *Session) resetLocked(reason string) {
	if s.selected != nil {
		flowResets.Inc()
		s.log.Info("resetting selected flow", zap.String("reason", reason), zap.String("flow", s.selected.String()))
	}

	s.selected = nil
	s.expectedSeq = nil
	s.haveExpected = false
	s.queue = nil
	s.cache = make(map[uint32]*cacheEntry)
}

// isValidOuterPrefix reports whether the first 4 bytes of buf look
// like a valid outer-packet size prefix (spec.md §4.4 step 1).
func isValidOuterPrefix(buf []byte) bool {
	if len(buf) < 4 {
		return false
	}

	size := uint32(buf[0])<<24 | uint32(buf[1])<<16 | uint32(buf[2])<<8 | uint32(buf[3])

	return size < MaxOuterPacketSize
}

// seqGEQ reports whether seq is at or after expected in unsigned
// 32-bit modular order (handles wrap-around, spec.md §3/§4.4/§8 S3).
func seqGEQ(seq, expected uint32) bool {
	return int32(seq-expected) >= 0
}

// Ingest buffers segment (seq, payload) for the selected flow and
// greedily drains any now-contiguous run into the reassembled queue.
// It returns the bytes newly appended to the queue (if any) and
// whether the segment was accepted at all (spec.md §4.4).
func (s *Session) Ingest(flow types.FlowKey, seq uint32, payload []byte) (drained []byte, accepted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil || *s.selected != flow {
		return nil, false
	}

	if !s.haveExpected {
		if !isValidOuterPrefix(payload) {
			return nil, false
		}

		e := seq
		s.expectedSeq = &e
		s.haveExpected = true
	}

	expected := *s.expectedSeq

	if !seqGEQ(seq, expected) {
		// strictly before the expected byte: stale duplicate, drop.
		return nil, false
	}

	s.cache[seq] = &cacheEntry{payload: payload, lastAccess: time.Now()}
	s.enforceCacheSizeLocked()

	before := len(s.queue)

	if !s.drainLocked() {
		// drain detected a queue overflow and reset everything.
		return nil, true
	}

	s.lastActivity = time.Now()

	if len(s.queue) > before {
		drained = s.queue[before:]
	}

	return drained, true
}

// drainLocked greedily appends cached entries whose key equals the
// current expected sequence, advancing expectedSeq each time. Returns
// false if the queue cap was exceeded and the state was reset.
func (s *Session) drainLocked() bool {
	for {
		expected := *s.expectedSeq

		entry, ok := s.cache[expected]
		if !ok {
			return true
		}

		if len(s.queue)+len(entry.payload) > MaxQueueBytes {
			s.resetLocked("reassembled queue exceeded cap")
			return false
		}

		s.queue = append(s.queue, entry.payload...)
		bytesDrained.Add(float64(len(entry.payload)))
		delete(s.cache, expected)

		next := expected + uint32(len(entry.payload))
		s.expectedSeq = &next
	}
}

// enforceCacheSizeLocked evicts the oldest-by-lastAccess entry while
// the cache exceeds MaxCacheEntries (spec.md §3/§4.4/§8 LRU eviction).
func (s *Session) enforceCacheSizeLocked() {
	for len(s.cache) > MaxCacheEntries {
		var (
			oldestSeq uint32
			oldestAt  time.Time
			first     = true
		)

		for seq, e := range s.cache {
			if first || e.lastAccess.Before(oldestAt) {
				oldestSeq = seq
				oldestAt = e.lastAccess
				first = false
			}
		}

		delete(s.cache, oldestSeq)
		cacheEvictions.Inc()
	}
}

// TakeQueue removes and returns all currently reassembled bytes,
// leaving the queue empty (used by the frame demultiplexer to read
// without holding the session lock during parsing).
func (s *Session) TakeQueue() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return nil
	}

	out := s.queue
	s.queue = nil

	return out
}

// PutBackTrailing returns unparsed trailing bytes to the front of the
// queue (spec.md §4.5 "The queue retains the trailing partial bytes").
func (s *Session) PutBackTrailing(trailing []byte) {
	if len(trailing) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.queue = append(trailing, s.queue...)
}

// EvictStale runs the janitor's per-tick work: evict cache entries
// older than CacheEntryTimeout, and reset the flow if idle longer than
// IdleResetTimeout (spec.md §4.4 step 5).
func (s *Session) EvictStale(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == nil {
		return
	}

	for seq, e := range s.cache {
		if now.Sub(e.lastAccess) > CacheEntryTimeout {
			delete(s.cache, seq)
			cacheEvictions.Inc()
		}
	}

	if now.Sub(s.lastActivity) > IdleResetTimeout {
		s.log.Warn("cannot capture next packet: reassembly idle, resetting flow",
			zap.Duration("idleFor", now.Sub(s.lastActivity)))
		s.resetLocked("idle timeout")
	}
}

// CacheSize reports the current number of buffered out-of-order
// segments, used by tests and status reporting.
func (s *Session) CacheSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.cache)
}

// QueueLen reports the current reassembled-queue length.
func (s *Session) QueueLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.queue)
}

// ExpectedSeq reports the current expected-next-sequence value, if any.
func (s *Session) ExpectedSeq() (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.haveExpected {
		return 0, false
	}

	return *s.expectedSeq, true
}
