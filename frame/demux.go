package frame

import (
	"encoding/binary"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/uzarakhq/bpsr-uza-modules/internal/logging"
)

var demuxLog = logging.New("frame.demux", false)

const (
	kindNotify    = 2
	kindFrameDown = 6

	minOuterSize = 6
	maxOuterSize = 0x0F_FFFF

	compressedFlag = 0x8000
	kindMask       = 0x7FFF

	gameServiceUUID = 0x00000000_63335342
	syncMethodID    = 21
)

// ErrMalformedOuterPacket signals a protocol error that must force a
// flow reset (spec.md §4.5/§7).
var ErrMalformedOuterPacket = errors.New("malformed outer packet")

// ContainerHandler is invoked once per methodId=21 Notify payload
// found anywhere in the (possibly nested) frame tree.
type ContainerHandler func(payload []byte)

// Demux parses buf as a sequence of outer packets, recursing into
// FrameDown bodies, and invokes onContainer for every inventory
// container candidate found (spec.md §4.5). It returns the unparsed
// trailing bytes (a partial packet) and an error if a malformed outer
// packet was encountered, in which case the caller must reset the
// flow and discard any trailing bytes.
func Demux(buf []byte, onContainer ContainerHandler) (trailing []byte, err error) {
	for {
		if len(buf) < 4 {
			return buf, nil
		}

		size := binary.BigEndian.Uint32(buf[0:4])

		if size > uint32(len(buf)) {
			// partial packet: wait for more bytes.
			return buf, nil
		}

		if size < minOuterSize || size > maxOuterSize {
			demuxLog.Warn("malformed outer packet, flow must reset", zap.Uint32("size", size))

			return nil, ErrMalformedOuterPacket
		}

		packet := buf[:size]
		buf = buf[size:]

		typeTag := binary.BigEndian.Uint16(packet[4:6])
		compressed := typeTag&compressedFlag != 0
		kind := typeTag & kindMask
		innerBody := packet[6:size]

		switch kind {
		case kindNotify:
			handleNotify(innerBody, compressed, onContainer)
		case kindFrameDown:
			handleFrameDown(innerBody, compressed, onContainer)
		default:
			// unknown inner kind: skip silently, spec.md §4.5/§7.
		}
	}
}

func handleNotify(body []byte, compressed bool, onContainer ContainerHandler) {
	if len(body) < 16 {
		return
	}

	serviceUUID := binary.BigEndian.Uint64(body[0:8])
	// stubId := binary.BigEndian.Uint32(body[8:12]) // ignored, spec.md §4.5
	methodID := binary.BigEndian.Uint32(body[12:16])
	payload := body[16:]

	if serviceUUID != gameServiceUUID {
		return
	}

	if compressed {
		dec, err := Decompress(payload)
		if err != nil {
			return
		}

		payload = dec
	}

	if methodID == syncMethodID {
		onContainer(payload)
	}
}

func handleFrameDown(body []byte, compressed bool, onContainer ContainerHandler) {
	if len(body) < 4 {
		return
	}

	// sequenceId := binary.BigEndian.Uint32(body[0:4]) // ignored, spec.md §4.5
	nested := body[4:]

	if compressed {
		dec, err := Decompress(nested)
		if err != nil {
			// failed decompression aborts only this message, spec.md §4.5/§7.
			return
		}

		nested = dec
	}

	// Recurse; a malformed nested packet is swallowed here rather than
	// propagated, since FrameDown decode failure must not force a
	// reset of the whole stream — only the outer reassembler's own
	// malformed-outer-packet path does that.
	_, err := Demux(nested, onContainer)
	if err != nil {
		demuxLog.Debug("nested FrameDown packet malformed, dropping", zap.Error(err))
	}
}
