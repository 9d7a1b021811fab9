package capture

import (
	"context"

	"github.com/dreadl0ck/gopacket"
	"github.com/dreadl0ck/gopacket/layers"
	"github.com/dreadl0ck/gopacket/pcap"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/uzarakhq/bpsr-uza-modules/internal/logging"
	"github.com/uzarakhq/bpsr-uza-modules/types"
)

const (
	bpfFilter      = "tcp"
	ringBufferSize = 10 * 1024 * 1024 // 10 MiB, spec.md §4.2
	snapLen        = 65535
)

var ingressLog = logging.New("capture.ingress", false)

// Segment is one TCP payload delivered to the reassembler: the 5-tuple
// it belongs to, its starting sequence number, and its bytes
// (spec.md §4.2).
type Segment struct {
	Flow    types.FlowKey
	Seq     uint32
	Payload []byte
}

var (
	framesCaptured = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bpsrmon_capture_frames_total",
		Help: "Number of TCP frames delivered by the packet ingress.",
	})
	frameParseErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bpsrmon_capture_frame_parse_errors_total",
		Help: "Number of frames that failed to parse and were swallowed.",
	})
)

func init() {
	prometheus.MustRegister(framesCaptured, frameParseErrors)
}

// Handle wraps a live or offline gopacket capture handle.
type Handle struct {
	src  *gopacket.PacketSource
	live *pcap.Handle
}

// OpenLive opens ifaceName with the standard BPF filter, ring buffer
// size and snap length from spec.md §4.2.
func OpenLive(ifaceName string) (*Handle, error) {
	inactive, err := pcap.NewInactiveHandle(ifaceName)
	if err != nil {
		return nil, errors.Wrap(ErrBackendUnavailable, err.Error())
	}
	defer inactive.CleanUp()

	if err = inactive.SetSnapLen(snapLen); err != nil {
		return nil, errors.Wrap(err, "set snaplen")
	}

	if err = inactive.SetBufferSize(ringBufferSize); err != nil {
		return nil, errors.Wrap(err, "set buffer size")
	}

	if err = inactive.SetPromisc(true); err != nil {
		return nil, errors.Wrap(err, "set promisc")
	}

	live, err := inactive.Activate()
	if err != nil {
		return nil, errors.Wrap(ErrBackendUnavailable, err.Error())
	}

	if err = live.SetBPFFilter(bpfFilter); err != nil {
		live.Close()
		return nil, errors.Wrap(err, "set bpf filter")
	}

	src := gopacket.NewPacketSource(live, live.LinkType())
	src.NoCopy = true

	return &Handle{src: src, live: live}, nil
}

// OpenOffline replays a pcap file for deterministic end-to-end tests
// and the CLI's `replay` command (SPEC_FULL.md §C).
func OpenOffline(path string) (*Handle, error) {
	h, err := pcap.OpenOffline(path)
	if err != nil {
		return nil, errors.Wrap(err, "open offline pcap")
	}

	src := gopacket.NewPacketSource(h, h.LinkType())

	return &Handle{src: src, live: h}, nil
}

// Close releases the underlying capture handle.
func (h *Handle) Close() {
	if h.live != nil {
		h.live.Close()
	}
}

// Run delivers Segments on out until ctx is cancelled or the packet
// source is exhausted (offline replay). It never blocks the caller
// beyond channel backpressure and never returns a per-frame error —
// parse errors are counted and swallowed, per spec.md §4.2/§7.
func (h *Handle) Run(ctx context.Context, out chan<- Segment) {
	defer close(out)

	for {
		select {
		case <-ctx.Done():
			return
		case packet, ok := <-h.src.Packets():
			if !ok {
				return
			}

			seg, ok := decodeSegment(packet)
			if !ok {
				continue
			}

			framesCaptured.Inc()

			select {
			case out <- seg:
			case <-ctx.Done():
				return
			}
		}
	}
}

func decodeSegment(packet gopacket.Packet) (Segment, bool) {
	nl := packet.NetworkLayer()
	tl := packet.TransportLayer()

	if nl == nil || tl == nil {
		frameParseErrors.Inc()
		return Segment{}, false
	}

	ip4, ok := nl.(*layers.IPv4)
	if !ok {
		frameParseErrors.Inc()
		return Segment{}, false
	}

	tcp, ok := tl.(*layers.TCP)
	if !ok {
		frameParseErrors.Inc()
		return Segment{}, false
	}

	if len(tcp.Payload) == 0 {
		// zero-length payloads are dropped, spec.md §4.2
		return Segment{}, false
	}

	var flow types.FlowKey
	copy(flow.SrcIP[:], ip4.SrcIP.To4())
	copy(flow.DstIP[:], ip4.DstIP.To4())
	flow.SrcPort = uint16(tcp.SrcPort)
	flow.DstPort = uint16(tcp.DstPort)
	flow.Transport = types.TransportTCP

	return Segment{
		Flow:    flow,
		Seq:     uint32(tcp.Seq),
		Payload: tcp.Payload,
	}, true
}

// LogOpenError emits a structured "backend unavailable" warning,
// matching the degraded-state contract of spec.md §7.
func LogOpenError(ifaceName string, err error) {
	ingressLog.Warn("failed to open capture interface",
		zap.String("interface", ifaceName),
		zap.Error(err),
	)
}
