package control

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uzarakhq/bpsr-uza-modules/capture"
	"github.com/uzarakhq/bpsr-uza-modules/container"
	"github.com/uzarakhq/bpsr-uza-modules/internal/config"
	"github.com/uzarakhq/bpsr-uza-modules/session"
	"github.com/uzarakhq/bpsr-uza-modules/types"
)

const (
	testKindNotify      = 2
	testGameServiceUUID = 0x00000000_63335342
	testSyncMethodID    = 21
)

// adoptSignature builds a payload satisfying session.matchSignatureA:
// len>=21, byte[4]==0x00, bytes[15:21] == the fixed 6-byte signature.
func adoptSignature(n int) []byte {
	if n < 21 {
		n = 21
	}

	payload := make([]byte, n)
	copy(payload[15:21], []byte{0x00, 0x63, 0x33, 0x53, 0x42, 0x00})

	return payload
}

// outerNotifyFrame builds one unencrypted, uncompressed Notify outer
// packet carrying methodId=21 and the given container payload.
func outerNotifyFrame(containerPayload []byte) []byte {
	body := make([]byte, 16)
	binary.BigEndian.PutUint64(body[0:8], testGameServiceUUID)
	binary.BigEndian.PutUint32(body[8:12], 0)
	binary.BigEndian.PutUint32(body[12:16], testSyncMethodID)
	body = append(body, containerPayload...)

	header := make([]byte, 6)
	binary.BigEndian.PutUint32(header[0:4], uint32(6+len(body)))
	binary.BigEndian.PutUint16(header[4:6], testKindNotify)

	return append(header, body...)
}

// TestHandleSegmentDoesNotDuplicateDrainedBytes is a regression test
// for a bug where handleSegment re-appended the bytes Ingest had just
// drained on top of TakeQueue's already-inclusive result, corrupting
// frame boundaries for every accepted segment that drained anything.
func TestHandleSegmentDoesNotDuplicateDrainedBytes(t *testing.T) {
	b := New(config.Default())
	sess := session.New()

	flow := types.FlowKey{
		SrcIP:     [4]byte{10, 0, 0, 1},
		SrcPort:   1234,
		DstIP:     [4]byte{10, 0, 0, 2},
		DstPort:   80,
		Transport: types.TransportTCP,
	}

	adopt := adoptSignature(40)
	b.handleSegment(sess, capture.Segment{Flow: flow, Seq: 1000, Payload: adopt})

	_, selected := sess.SelectedFlow()
	require.True(t, selected)

	strengthID, _ := container.AttrIDForName("Strength Boost")
	raw := container.EncodeCharSerialize([]container.FixtureItem{
		{ItemKey: "k", ConfigID: 5500103, UUID: 7, Quality: 3, ModParts: []uint32{strengthID}, InitLinkNums: []uint8{6}},
	})

	frame := outerNotifyFrame(raw)

	expected, ok := sess.ExpectedSeq()
	require.True(t, ok)

	b.handleSegment(sess, capture.Segment{Flow: flow, Seq: expected, Payload: frame})

	assert.Equal(t, 1, b.agg.Len())

	got := b.agg.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, uint64(7), got[0].UUID)
	assert.Equal(t, "Legendary Attack", got[0].Name)

	assert.Empty(t, sess.TakeQueue(), "no duplicated/trailing bytes should remain queued")
}

// TestHandleSegmentSplitAcrossTwoSegments feeds the same outer frame in
// two pieces to exercise TakeQueue/PutBackTrailing across calls,
// confirming the reassembled buffer stays exactly sized (no
// duplication) as bytes accumulate over multiple handleSegment calls.
func TestHandleSegmentSplitAcrossTwoSegments(t *testing.T) {
	b := New(config.Default())
	sess := session.New()

	flow := types.FlowKey{
		SrcIP:     [4]byte{10, 0, 0, 1},
		SrcPort:   1234,
		DstIP:     [4]byte{10, 0, 0, 2},
		DstPort:   80,
		Transport: types.TransportTCP,
	}

	adopt := adoptSignature(40)
	b.handleSegment(sess, capture.Segment{Flow: flow, Seq: 2000, Payload: adopt})

	strengthID, _ := container.AttrIDForName("Armor")
	raw := container.EncodeCharSerialize([]container.FixtureItem{
		{ItemKey: "k2", ConfigID: 5500104, UUID: 9, Quality: 2, ModParts: []uint32{strengthID}, InitLinkNums: []uint8{5}},
	})

	frame := outerNotifyFrame(raw)
	split := len(frame) / 2

	expected, ok := sess.ExpectedSeq()
	require.True(t, ok)

	b.handleSegment(sess, capture.Segment{Flow: flow, Seq: expected, Payload: frame[:split]})
	assert.Equal(t, 0, b.agg.Len())

	b.handleSegment(sess, capture.Segment{Flow: flow, Seq: expected + uint32(split), Payload: frame[split:]})

	assert.Equal(t, 1, b.agg.Len())

	got := b.agg.Snapshot()
	require.Len(t, got, 1)
	assert.Equal(t, uint64(9), got[0].UUID)
}
