package optimizer

import "github.com/uzarakhq/bpsr-uza-modules/types"

// priorityLevelScore rewards a prioritized attribute's bucketed level
// (spec.md §4.10). Level 0 contributes nothing.
var priorityLevelScore = map[int]float64{
	6: 5000,
	5: 2000,
	4: 500,
	3: 100,
	2: 50,
	1: 10,
}

// thresholdBonus rewards any attribute (prioritized or not) that clears
// a raw-value threshold, independent of the level buckets (spec.md §4.10).
func thresholdBonus(v int) float64 {
	switch {
	case v >= 20:
		return 1000 + 20*float64(v-20)
	case v >= 16:
		return 500 + 15*float64(v-16)
	case v >= 12:
		return 100 + 5*float64(v-12)
	default:
		return 0
	}
}

func sumAttrs(breakdown map[string]int, names []string) int {
	total := 0
	for _, n := range names {
		total += breakdown[n]
	}

	return total
}

// Fitness scores a candidate solution per spec.md §4.10. sol must
// already be canonicalized (AttrBreakdown populated).
func Fitness(sol *types.ModuleSolution, category types.ModuleCategory, prioritizedAttrs []string) float64 {
	if !sol.HasDistinctUUIDs() {
		return 0
	}

	var score float64

	if len(prioritizedAttrs) > 0 {
		covered := 0

		for _, a := range prioritizedAttrs {
			v := sol.AttrBreakdown[a]
			score += priorityLevelScore[types.Level(v)]

			if v > 0 {
				covered++
			}
		}

		score += 100 * float64(covered)

		prioritized := make(map[string]bool, len(prioritizedAttrs))
		for _, a := range prioritizedAttrs {
			prioritized[a] = true
		}

		for name, v := range sol.AttrBreakdown {
			if !prioritized[name] {
				score -= 5 * float64(v)
			}
		}
	}

	for _, v := range sol.AttrBreakdown {
		score += thresholdBonus(v)
	}

	for _, attr := range types.CategoryPreferredAttrs(category) {
		score += 5 * float64(sol.AttrBreakdown[attr])
	}

	physical := sumAttrs(sol.AttrBreakdown, types.PhysicalAttrs)
	magic := sumAttrs(sol.AttrBreakdown, types.MagicAttrs)
	conflict := physical
	if magic < conflict {
		conflict = magic
	}

	score -= 10 * float64(conflict)

	total := 0
	for _, v := range sol.AttrBreakdown {
		total += v
	}

	score += 0.1 * float64(total)

	if score < 0 {
		return 0
	}

	return score
}
