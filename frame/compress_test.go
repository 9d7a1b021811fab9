package frame

import (
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecompressRoundTrip(t *testing.T) {
	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)

	want := []byte("hello module container")
	compressed := enc.EncodeAll(want, nil)
	require.NoError(t, enc.Close())

	got, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecompressGarbageDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		_, err := Decompress([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02})
		assert.Error(t, err)
	})
}

func TestHandleNotifyDropsOnBadCompression(t *testing.T) {
	body := notifyBody(syncMethodID, []byte{0xDE, 0xAD, 0xBE, 0xEF})

	var called bool

	assert.NotPanics(t, func() {
		handleNotify(body, true, func([]byte) { called = true })
	})
	assert.False(t, called)
}
