// Package types holds the data model shared across the capture,
// decoding and optimization pipeline (spec.md §3).
package types

import (
	"sort"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// ModulePart is a single named attribute on a module (spec.md §3).
// Values are small — observed range 1..10.
type ModulePart struct {
	AttrID   uint32
	AttrName string
	Value    uint8
}

// ModuleCategory classifies a module by its preferred attribute set
// (spec.md §3, §4.10 "Category bonus").
type ModuleCategory int

const (
	CategoryUnknown ModuleCategory = iota
	CategoryAttack
	CategoryGuard
	CategorySupport
)

func (c ModuleCategory) String() string {
	switch c {
	case CategoryAttack:
		return "Attack"
	case CategoryGuard:
		return "Guard"
	case CategorySupport:
		return "Support"
	default:
		return "Unknown"
	}
}

// ModuleInfo is a decoded inventory record (spec.md §3). Equality and
// deduplication are by UUID alone.
type ModuleInfo struct {
	Name     string
	ConfigID uint32
	UUID     uint64
	Quality  uint8
	Parts    []ModulePart
}

// Category derives the module's ModuleCategory from its ConfigID via
// the fixed table in CategoryForConfigID.
func (m *ModuleInfo) Category() ModuleCategory {
	return CategoryForConfigID(m.ConfigID)
}

var moduleRecordFields = []string{
	"Name",
	"ConfigID",
	"UUID",
	"Quality",
	"NumParts",
}

// CSVHeader returns the CSV header for module audit records, in the
// style of the teacher's audit-record types.
func (m *ModuleInfo) CSVHeader() []string {
	return moduleRecordFields
}

// CSVRecord returns the CSV record for this module.
func (m *ModuleInfo) CSVRecord() []string {
	return []string{
		m.Name,
		strconv.FormatUint(uint64(m.ConfigID), 10),
		strconv.FormatUint(m.UUID, 10),
		strconv.Itoa(int(m.Quality)),
		strconv.Itoa(len(m.Parts)),
	}
}

var moduleDecodedMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bpsrmon_modules_decoded_total",
		Help: "Number of distinct inventory modules decoded from container payloads",
	},
	[]string{"category"},
)

// Inc increments the decode-count metric for this module's category.
func (m *ModuleInfo) Inc() {
	moduleDecodedMetric.WithLabelValues(m.Category().String()).Inc()
}

// ModuleSolution is an unordered 4-subset of distinct ModuleInfo,
// canonicalized by ascending UUID (spec.md §3).
type ModuleSolution struct {
	Modules           [4]ModuleInfo
	AttrBreakdown     map[string]int
	Score             uint32
	OptimizationScore float64
}

// Canonicalize sorts the four modules by UUID ascending and recomputes
// AttrBreakdown. Idempotent per spec.md §8.
func (s *ModuleSolution) Canonicalize() {
	sort.Slice(s.Modules[:], func(i, j int) bool {
		return s.Modules[i].UUID < s.Modules[j].UUID
	})

	s.AttrBreakdown = make(map[string]int)
	for _, m := range s.Modules {
		for _, p := range m.Parts {
			s.AttrBreakdown[p.AttrName] += int(p.Value)
		}
	}
}

// UUIDs returns the four UUIDs in their current (canonical) order.
func (s *ModuleSolution) UUIDs() [4]uint64 {
	var out [4]uint64
	for i, m := range s.Modules {
		out[i] = m.UUID
	}

	return out
}

// HasDistinctUUIDs reports whether all four modules have distinct UUIDs.
func (s *ModuleSolution) HasDistinctUUIDs() bool {
	seen := make(map[uint64]struct{}, 4)
	for _, m := range s.Modules {
		if _, ok := seen[m.UUID]; ok {
			return false
		}

		seen[m.UUID] = struct{}{}
	}

	return true
}

// signatureKey is the attribute-level dedup signature from spec.md §4.11:
// the sorted (attrName, level(value)) pairs of a solution.
func (s *ModuleSolution) signatureKey() string {
	type pair struct {
		name  string
		level int
	}

	pairs := make([]pair, 0, len(s.AttrBreakdown))
	for name, v := range s.AttrBreakdown {
		pairs = append(pairs, pair{name, Level(v)})
	}

	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].name != pairs[j].name {
			return pairs[i].name < pairs[j].name
		}

		return pairs[i].level < pairs[j].level
	})

	var b strings.Builder
	for _, p := range pairs {
		b.WriteString(p.name)
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(p.level))
		b.WriteByte(';')
	}

	return b.String()
}

// SignatureKey exposes signatureKey for the ranker/deduper package.
func (s *ModuleSolution) SignatureKey() string {
	return s.signatureKey()
}

// Level buckets a summed attribute value into [0,6] per the fixed
// thresholds in spec.md §4.10/§4.11/GLOSSARY.
func Level(v int) int {
	switch {
	case v >= 20:
		return 6
	case v >= 16:
		return 5
	case v >= 12:
		return 4
	case v >= 8:
		return 3
	case v >= 4:
		return 2
	case v >= 1:
		return 1
	default:
		return 0
	}
}
