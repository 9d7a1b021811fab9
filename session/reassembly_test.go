package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzarakhq/bpsr-uza-modules/types"
)

func testFlow() types.FlowKey {
	return types.FlowKey{
		SrcIP:     [4]byte{10, 0, 0, 1},
		SrcPort:   1234,
		DstIP:     [4]byte{10, 0, 0, 2},
		DstPort:   80,
		Transport: types.TransportTCP,
	}
}

// adopt builds a payload matching session.matchSignatureA (len>=21,
// byte 4 == 0x00, bytes 15..20 == the fixed signature) and adopts it.
func adopt(t *testing.T, s *Session, flow types.FlowKey, seq uint32, n int) {
	t.Helper()

	if n < 21 {
		n = 21
	}

	payload := make([]byte, n)
	copy(payload[15:21], []byte{0x00, 0x63, 0x33, 0x53, 0x42, 0x00})

	require.True(t, s.TryAdopt(flow, seq, payload))
}

func TestTryAdoptSelectsFlowAndSeedsExpected(t *testing.T) {
	s := New()
	flow := testFlow()

	adopt(t, s, flow, 5000, 40)

	got, ok := s.SelectedFlow()
	require.True(t, ok)
	assert.Equal(t, flow, got)

	seq, ok := s.ExpectedSeq()
	require.True(t, ok)
	assert.Equal(t, uint32(5040), seq)
}

func TestOutOfOrderReassembly_S2(t *testing.T) {
	s := New()
	flow := testFlow()

	// directly seed expected=1000 the way S2 describes, bypassing the
	// TryAdopt byte-signature requirement.
	expected := uint32(1000)
	s.selected = &flow
	s.expectedSeq = &expected
	s.haveExpected = true

	_, accepted := s.Ingest(flow, 1100, make([]byte, 100))
	require.True(t, accepted)
	assert.Equal(t, 0, s.QueueLen())

	drained, accepted := s.Ingest(flow, 1000, make([]byte, 100))
	require.True(t, accepted)
	assert.Equal(t, 200, len(drained))
	assert.Equal(t, 200, s.QueueLen())

	got, ok := s.ExpectedSeq()
	require.True(t, ok)
	assert.Equal(t, uint32(1200), got)
}

func TestWrapAround_S3(t *testing.T) {
	s := New()
	flow := testFlow()

	expected := uint32(0xFFFF_FF80)
	s.selected = &flow
	s.expectedSeq = &expected
	s.haveExpected = true

	_, accepted := s.Ingest(flow, 0xFFFF_FF80, make([]byte, 128))
	require.True(t, accepted)

	drained, accepted := s.Ingest(flow, 0x0000_0000, make([]byte, 64))
	require.True(t, accepted)
	assert.Equal(t, 192, len(drained))

	got, ok := s.ExpectedSeq()
	require.True(t, ok)
	assert.Equal(t, uint32(0x0000_0040), got)
}

func TestLRUEvictionExactlyOne(t *testing.T) {
	s := New()
	flow := testFlow()

	expected := uint32(0)
	s.selected = &flow
	s.expectedSeq = &expected
	s.haveExpected = true

	base := time.Now()

	for i := 0; i < MaxCacheEntries; i++ {
		s.cache[uint32(i+1)] = &cacheEntry{payload: []byte{0}, lastAccess: base.Add(time.Duration(i) * time.Millisecond)}
	}

	assert.Equal(t, MaxCacheEntries, len(s.cache))

	// stage one more out-of-order (non-contiguous) sequence, forcing
	// exactly one eviction.
	_, accepted := s.Ingest(flow, uint32(MaxCacheEntries+2), []byte{0})
	require.True(t, accepted)

	assert.Equal(t, MaxCacheEntries, len(s.cache))
}

func TestQueueCapResetsFlow(t *testing.T) {
	s := New()
	flow := testFlow()

	expected := uint32(0)
	s.selected = &flow
	s.expectedSeq = &expected
	s.haveExpected = true

	_, accepted := s.Ingest(flow, 0, make([]byte, MaxQueueBytes+1))
	assert.True(t, accepted)

	_, selected := s.SelectedFlow()
	assert.False(t, selected)
}

func TestEvictStaleResetsOnIdle(t *testing.T) {
	s := New()
	flow := testFlow()

	expected := uint32(0)
	s.selected = &flow
	s.expectedSeq = &expected
	s.haveExpected = true
	s.lastActivity = time.Now().Add(-2 * IdleResetTimeout)

	s.EvictStale(time.Now())

	_, selected := s.SelectedFlow()
	assert.False(t, selected)
}
