// Package frame implements the frame demultiplexer (C5) of spec.md
// §4.5, including its zstd decompression helper (§4.6).
package frame

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/uzarakhq/bpsr-uza-modules/internal/logging"
)

// MaxDecompressedSize bounds zstd output, spec.md §4.6.
const MaxDecompressedSize = 1 * 1024 * 1024

var compressLog = logging.New("frame.compress", false)

// ErrDecompressionFailed wraps any zstd decode failure.
var ErrDecompressionFailed = errors.New("zstd decompression failed")

// Decompress decodes raw zstd data up to MaxDecompressedSize. It reads
// through a streaming decoder bounded by a fixed-size destination
// buffer rather than a DecodeAll-style single-shot call, so a crafted
// payload claiming a huge decompressed size is never expanded past the
// bound before truncation — the cap is enforced while decoding, not
// after. A failure is logged at warn and the message is dropped by the
// caller — it never panics or propagates a fatal error (spec.md
// §4.6/§7).
func Decompress(payload []byte) ([]byte, error) {
	out, err := streamDecompress(bytes.NewReader(payload))
	if err != nil {
		compressLog.Warn("zstd decode failed", zap.Error(err), zap.Int("inputLen", len(payload)))

		return nil, errors.Wrap(ErrDecompressionFailed, err.Error())
	}

	return out, nil
}

// streamDecompress reads at most MaxDecompressedSize bytes of
// decompressed output through an io.Reader-based decoder, bounding
// memory use regardless of the size the compressed stream claims to
// expand to.
func streamDecompress(r io.Reader) ([]byte, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, errors.Wrap(ErrDecompressionFailed, err.Error())
	}
	defer dec.Close()

	buf := make([]byte, MaxDecompressedSize)

	n, err := io.ReadFull(dec, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, errors.Wrap(ErrDecompressionFailed, err.Error())
	}

	return buf[:n], nil
}
