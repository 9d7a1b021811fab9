// Package session implements the server identifier (C3) and TCP
// reassembler (C4) of spec.md §4.3/§4.4, plus the janitor task of §5.
package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/uzarakhq/bpsr-uza-modules/internal/logging"
	"github.com/uzarakhq/bpsr-uza-modules/types"
)

var identifyLog = logging.New("session.identify", false)

// GameServiceUUID is the fixed service identifier carried in Notify
// bodies, spec.md §4.3/§6.
const GameServiceUUID uint64 = 0x00000000_63335342

// signatureA matches payload.len >= 21, payload[4] == 0x00, and the
// 6-byte sequence at offset 15 (spec.md §4.3).
func matchSignatureA(payload []byte) bool {
	if len(payload) < 21 {
		return false
	}

	if payload[4] != 0x00 {
		return false
	}

	sig := []byte{0x00, 0x63, 0x33, 0x53, 0x42, 0x00}

	for i, b := range sig {
		if payload[15+i] != b {
			return false
		}
	}

	return true
}

// signatureB matches an exact 0x62-byte payload with two fixed
// prefixes (spec.md §4.3).
func matchSignatureB(payload []byte) bool {
	if len(payload) != 0x62 {
		return false
	}

	prefix := []byte{0x00, 0x00, 0x00, 0x62, 0x00, 0x03, 0x00, 0x00, 0x00, 0x01}
	for i, b := range prefix {
		if payload[i] != b {
			return false
		}
	}

	mid := []byte{0x00, 0x00, 0x00, 0x00, 0x0a, 0x4e}
	for i, b := range mid {
		if payload[14+i] != b {
			return false
		}
	}

	return true
}

// Identify reports whether payload matches either server signature
// (spec.md §4.3).
func Identify(payload []byte) bool {
	return matchSignatureA(payload) || matchSignatureB(payload)
}

// TryAdopt inspects payload while no flow is selected and reports
// whether it matched. On a match it adopts flow as the selected flow,
// records the adoption timestamp, clears the cache and queue, and
// seeds the expected next seq as seq + len(payload).
func (s *Session) TryAdopt(flow types.FlowKey, seq uint32, payload []byte) bool {
	if !Identify(payload) {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = &flow
	s.selectedAt = time.Now()
	s.cache = make(map[uint32]*cacheEntry)
	s.queue = s.queue[:0]
	next := seq + uint32(len(payload))
	s.expectedSeq = &next
	s.haveExpected = true
	s.lastActivity = time.Now()

	identifyLog.Info("adopted game server flow",
		zap.String("flow", flow.String()),
		zap.Uint32("expectedNextSeq", next),
	)

	return true
}
