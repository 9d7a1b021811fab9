package optimizer

import (
	"math/rand"
	"sort"
	"strconv"

	"github.com/uzarakhq/bpsr-uza-modules/types"
)

// newSolution builds a canonicalized ModuleSolution from four modules.
func newSolution(mods [4]types.ModuleInfo) types.ModuleSolution {
	sol := types.ModuleSolution{Modules: mods}
	sol.Canonicalize()

	return sol
}

// key returns a dedup key for a canonicalized solution (sorted uuids).
func key(sol *types.ModuleSolution) string {
	uuids := sol.UUIDs()

	var b []byte
	for _, u := range uuids {
		b = strconv.AppendUint(b, u, 10)
		b = append(b, ';')
	}

	return string(b)
}

func containsUUID(mods [4]types.ModuleInfo, uuid uint64) bool {
	for _, m := range mods {
		if m.UUID == uuid {
			return true
		}
	}

	return false
}

// comb4 returns C(n,4), clamped to avoid overflow for large pools — it
// is only ever compared against populationSize, so a clamp above any
// realistic population is harmless.
func comb4(n int) int {
	if n < 4 {
		return 0
	}

	const clamp = 1 << 30

	f := float64(n) * float64(n-1) * float64(n-2) * float64(n-3) / 24

	if f > clamp {
		return clamp
	}

	return int(f)
}

// randomSolution draws 4 distinct modules from pool uniformly at random.
func randomSolution(rng *rand.Rand, pool []types.ModuleInfo) types.ModuleSolution {
	idx := rng.Perm(len(pool))[:4]

	var mods [4]types.ModuleInfo
	for i, j := range idx {
		mods[i] = pool[j]
	}

	return newSolution(mods)
}

// initPopulation seeds a population of up to size distinct solutions
// (spec.md §4.10 "initial population: uniform random 4-combinations,
// rejecting duplicates").
func initPopulation(rng *rand.Rand, pool []types.ModuleInfo, size int) []types.ModuleSolution {
	cap := comb4(len(pool))
	if size > cap {
		size = cap
	}

	seen := make(map[string]bool, size)
	out := make([]types.ModuleSolution, 0, size)

	// Bound the attempt count generously; duplicate collisions become
	// vanishingly rare well before this limit is reached.
	maxAttempts := size * 50
	if maxAttempts < 1000 {
		maxAttempts = 1000
	}

	for attempt := 0; len(out) < size && attempt < maxAttempts; attempt++ {
		sol := randomSolution(rng, pool)

		k := key(&sol)
		if seen[k] {
			continue
		}

		seen[k] = true

		out = append(out, sol)
	}

	return out
}

func sortByFitnessDesc(pop []types.ModuleSolution) {
	sort.SliceStable(pop, func(i, j int) bool {
		return pop[i].OptimizationScore > pop[j].OptimizationScore
	})
}
