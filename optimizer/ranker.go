package optimizer

import (
	"sort"

	"github.com/uzarakhq/bpsr-uza-modules/types"
)

const defaultTopN = 40

// ComputeScore fills sol.Score with the combat-power score (spec.md
// §4.11): the sum of each attribute's per-attribute power plus the
// global total-value bonus. sol must already be canonicalized.
func ComputeScore(sol *types.ModuleSolution) {
	score := 0

	total := 0
	for name, v := range sol.AttrBreakdown {
		score += AttrPower(name, v)
		total += v
	}

	score += TotalAttrPower(total)

	if score < 0 {
		score = 0
	}

	sol.Score = uint32(score)
}

// Dedup collapses solutions sharing an attribute-level signature
// (spec.md §4.11 "Attribute-level dedup"), keeping the first
// occurrence in its current order.
func Dedup(pop []types.ModuleSolution) []types.ModuleSolution {
	seen := make(map[string]bool, len(pop))
	out := make([]types.ModuleSolution, 0, len(pop))

	for _, sol := range pop {
		k := sol.SignatureKey()
		if seen[k] {
			continue
		}

		seen[k] = true

		out = append(out, sol)
	}

	return out
}

// priorityRankKey is the lexicographic sort key for priority-order
// mode (spec.md §4.11): how many of the top-4 priority attributes
// (chosen by level desc, then user-declared index asc) land in each
// level bucket 6..1, then their summed level, then score, then fitness.
type priorityRankKey struct {
	counts  [7]int // counts[6..1] used, counts[0] unused
	sumLvl  int
	score   uint32
	fitness float64
}

func less(a, b priorityRankKey) bool {
	for lvl := 6; lvl >= 1; lvl-- {
		if a.counts[lvl] != b.counts[lvl] {
			return a.counts[lvl] > b.counts[lvl]
		}
	}

	if a.sumLvl != b.sumLvl {
		return a.sumLvl > b.sumLvl
	}

	if a.score != b.score {
		return a.score > b.score
	}

	return a.fitness > b.fitness
}

func priorityKey(sol *types.ModuleSolution, prioritizedAttrs []string) priorityRankKey {
	type scored struct {
		idx int
		lvl int
	}

	ranked := make([]scored, 0, len(prioritizedAttrs))
	for i, a := range prioritizedAttrs {
		ranked = append(ranked, scored{idx: i, lvl: types.Level(sol.AttrBreakdown[a])})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].lvl != ranked[j].lvl {
			return ranked[i].lvl > ranked[j].lvl
		}

		return ranked[i].idx < ranked[j].idx
	})

	top := ranked
	if len(top) > 4 {
		top = top[:4]
	}

	var k priorityRankKey
	for _, t := range top {
		k.counts[t.lvl]++
		k.sumLvl += t.lvl
	}

	k.score = sol.Score
	k.fitness = sol.OptimizationScore

	return k
}

// Rank scores, dedups and sorts a merged GA population, returning at
// most topN solutions (spec.md §4.11). When prioritizedAttrs is
// non-empty, priority-order mode is used; otherwise solutions sort by
// score descending.
func Rank(pop []types.ModuleSolution, prioritizedAttrs []string, topN int) []types.ModuleSolution {
	if topN <= 0 {
		topN = defaultTopN
	}

	for i := range pop {
		ComputeScore(&pop[i])
	}

	deduped := Dedup(pop)

	if len(prioritizedAttrs) > 0 {
		sort.SliceStable(deduped, func(i, j int) bool {
			return less(priorityKey(&deduped[i], prioritizedAttrs), priorityKey(&deduped[j], prioritizedAttrs))
		})
	} else {
		sort.SliceStable(deduped, func(i, j int) bool {
			if deduped[i].Score != deduped[j].Score {
				return deduped[i].Score > deduped[j].Score
			}

			return deduped[i].OptimizationScore > deduped[j].OptimizationScore
		})
	}

	if len(deduped) > topN {
		deduped = deduped[:topN]
	}

	return deduped
}
