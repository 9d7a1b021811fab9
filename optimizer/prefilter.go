// Package optimizer implements the pre-filter (C8), GA engine (C9) and
// ranker/deduper (C10) of spec.md §4.9-§4.11.
package optimizer

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/uzarakhq/bpsr-uza-modules/types"
)

// ErrInsufficientModules is returned when the working pool has fewer
// than 4 modules after pre-filtering (spec.md §4.9/§7).
var ErrInsufficientModules = errors.New("insufficient modules")

const (
	topKPerAttr    = 60
	topMByTotal    = 100
	highQualityMin = 12
)

func totalValue(m *types.ModuleInfo) int {
	total := 0
	for _, p := range m.Parts {
		total += int(p.Value)
	}

	return total
}

func attrValue(m *types.ModuleInfo, attr string) int {
	total := 0
	for _, p := range m.Parts {
		if p.AttrName == attr {
			total += int(p.Value)
		}
	}

	return total
}

// PreFilter reduces pool to the union of the top-100-by-total-value
// modules and, per attribute, the top-60-by-that-attribute's-value
// modules, then splits off a high-quality subset (spec.md §4.9).
func PreFilter(pool []types.ModuleInfo, prioritizedAttrs []string) (working []types.ModuleInfo, highQuality []types.ModuleInfo, err error) {
	if len(pool) == 0 {
		return nil, nil, errors.Wrap(ErrInsufficientModules, "empty pool")
	}

	a := topByTotalValue(pool, topMByTotal)

	attrs := prioritizedAttrs
	if len(attrs) == 0 {
		attrs = presentAttrs(pool)
	}

	seen := make(map[uint64]types.ModuleInfo)
	for _, m := range a {
		seen[m.UUID] = m
	}

	for _, attr := range attrs {
		for _, m := range topByAttrValue(pool, attr, topKPerAttr) {
			seen[m.UUID] = m
		}
	}

	working = make([]types.ModuleInfo, 0, len(seen))
	for _, m := range seen {
		working = append(working, m)
	}

	sort.Slice(working, func(i, j int) bool { return working[i].UUID < working[j].UUID })

	if len(working) < 4 {
		return nil, nil, errors.Wrap(ErrInsufficientModules, "working pool below 4 modules")
	}

	for _, m := range working {
		if totalValue(&m) >= highQualityMin {
			highQuality = append(highQuality, m)
		}
	}

	return working, highQuality, nil
}

// WorkingSet chooses which pool the GA actually operates on: the
// high-quality subset if it has at least 4 modules, else the full
// working pool (spec.md §4.9).
func WorkingSet(working, highQuality []types.ModuleInfo) []types.ModuleInfo {
	if len(highQuality) >= 4 {
		return highQuality
	}

	return working
}

func topByTotalValue(pool []types.ModuleInfo, k int) []types.ModuleInfo {
	sorted := append([]types.ModuleInfo(nil), pool...)
	sort.Slice(sorted, func(i, j int) bool {
		vi, vj := totalValue(&sorted[i]), totalValue(&sorted[j])
		if vi != vj {
			return vi > vj
		}

		return sorted[i].UUID < sorted[j].UUID
	})

	if len(sorted) > k {
		sorted = sorted[:k]
	}

	return sorted
}

func topByAttrValue(pool []types.ModuleInfo, attr string, k int) []types.ModuleInfo {
	sorted := append([]types.ModuleInfo(nil), pool...)
	sort.Slice(sorted, func(i, j int) bool {
		vi, vj := attrValue(&sorted[i], attr), attrValue(&sorted[j], attr)
		if vi != vj {
			return vi > vj
		}

		return sorted[i].UUID < sorted[j].UUID
	})

	if len(sorted) > k {
		sorted = sorted[:k]
	}

	return sorted
}

func presentAttrs(pool []types.ModuleInfo) []string {
	seen := make(map[string]bool)

	var out []string

	for _, m := range pool {
		for _, p := range m.Parts {
			if !seen[p.AttrName] {
				seen[p.AttrName] = true
				out = append(out, p.AttrName)
			}
		}
	}

	sort.Strings(out)

	return out
}
