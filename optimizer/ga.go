package optimizer

import (
	"math/rand"

	"github.com/uzarakhq/bpsr-uza-modules/types"
)

// Params controls one GA campaign (spec.md §4.10, §6 control API
// defaults are applied by internal/config).
type Params struct {
	PopulationSize  int
	Generations     int
	TournamentSize  int
	CrossoverRate   float64
	MutationRate    float64
	ElitismRate     float64
	LocalSearchRate float64
}

func evaluate(pop []types.ModuleSolution, category types.ModuleCategory, prioritized []string) {
	for i := range pop {
		pop[i].OptimizationScore = Fitness(&pop[i], category, prioritized)
	}
}

// tournamentSelect picks one parent via tournament selection of size
// params.TournamentSize (spec.md §4.10).
func tournamentSelect(rng *rand.Rand, pop []types.ModuleSolution, size int) types.ModuleSolution {
	if size > len(pop) {
		size = len(pop)
	}

	best := pop[rng.Intn(len(pop))]

	for i := 1; i < size; i++ {
		cand := pop[rng.Intn(len(pop))]
		if cand.OptimizationScore > best.OptimizationScore {
			best = cand
		}
	}

	return best
}

// crossover produces two children from two canonicalized parents: each
// child keeps its own parent's first two (lowest-uuid) modules and
// fills the remaining two slots by scanning the other parent for
// modules not already present (spec.md §4.10). A child that can't
// reach 4 distinct modules this way falls back to a copy of its parent.
func crossover(a, b types.ModuleSolution) (types.ModuleSolution, types.ModuleSolution) {
	childA := fillFromOther(a.Modules, b.Modules)
	childB := fillFromOther(b.Modules, a.Modules)

	return newSolution(childA), newSolution(childB)
}

func fillFromOther(base, other [4]types.ModuleInfo) [4]types.ModuleInfo {
	var child [4]types.ModuleInfo
	child[0], child[1] = base[0], base[1]

	filled := 2

	for _, m := range other {
		if filled == 4 {
			break
		}

		if containsUUID(child, m.UUID) {
			continue
		}

		child[filled] = m
		filled++
	}

	if filled < 4 {
		return base
	}

	return child
}

// mutate replaces one random slot with a pool module not already in
// the chromosome, with probability params.MutationRate (spec.md §4.10).
func mutate(rng *rand.Rand, sol types.ModuleSolution, pool []types.ModuleInfo, rate float64) types.ModuleSolution {
	if rng.Float64() >= rate {
		return sol
	}

	pos := rng.Intn(4)

	candidates := make([]types.ModuleInfo, 0, len(pool))

	for _, m := range pool {
		if !containsUUID(sol.Modules, m.UUID) {
			candidates = append(candidates, m)
		}
	}

	if len(candidates) == 0 {
		return sol
	}

	mods := sol.Modules
	mods[pos] = candidates[rng.Intn(len(candidates))]

	return newSolution(mods)
}

// hillClimb applies first-improvement-over-positions,
// best-improvement-over-candidates local search (spec.md §4.10): scan
// slots 0..3 in order, for the first slot with any improving
// replacement apply the single largest-gain candidate, then restart
// the scan; stop when a full pass finds no improvement.
func hillClimb(sol types.ModuleSolution, pool []types.ModuleInfo, category types.ModuleCategory, prioritized []string) types.ModuleSolution {
	current := sol

	for {
		improved := false

		for pos := 0; pos < 4; pos++ {
			base := current.OptimizationScore

			var (
				bestGain float64
				bestMod  types.ModuleInfo
				found    bool
			)

			for _, cand := range pool {
				if containsUUID(current.Modules, cand.UUID) {
					continue
				}

				trialMods := current.Modules
				trialMods[pos] = cand
				trial := newSolution(trialMods)
				trial.OptimizationScore = Fitness(&trial, category, prioritized)

				gain := trial.OptimizationScore - base
				if gain > 0 && (!found || gain > bestGain) {
					bestGain = gain
					bestMod = cand
					found = true
				}
			}

			if found {
				mods := current.Modules
				mods[pos] = bestMod
				current = newSolution(mods)
				current.OptimizationScore = Fitness(&current, category, prioritized)
				improved = true

				break
			}
		}

		if !improved {
			break
		}
	}

	return current
}

// RunCampaign executes one full GA run over pool and returns its final
// population, each solution evaluated and local-searched (spec.md §4.10).
func RunCampaign(rng *rand.Rand, pool []types.ModuleInfo, category types.ModuleCategory, prioritized []string, p Params) []types.ModuleSolution {
	pop := initPopulation(rng, pool, p.PopulationSize)
	if len(pop) == 0 {
		return nil
	}

	evaluate(pop, category, prioritized)

	elites := int(float64(len(pop)) * p.ElitismRate)
	localSearchN := int(float64(len(pop)) * p.LocalSearchRate)

	for gen := 0; gen < p.Generations; gen++ {
		sortByFitnessDesc(pop)

		next := make([]types.ModuleSolution, 0, len(pop))
		next = append(next, pop[:min(elites, len(pop))]...)

		for len(next) < len(pop) {
			pa := tournamentSelect(rng, pop, p.TournamentSize)
			pb := tournamentSelect(rng, pop, p.TournamentSize)

			var childA, childB types.ModuleSolution
			if rng.Float64() < p.CrossoverRate {
				childA, childB = crossover(pa, pb)
			} else {
				childA, childB = pa, pb
			}

			childA = mutate(rng, childA, pool, p.MutationRate)
			childB = mutate(rng, childB, pool, p.MutationRate)

			next = append(next, childA)
			if len(next) < len(pop) {
				next = append(next, childB)
			}
		}

		evaluate(next, category, prioritized)
		sortByFitnessDesc(next)

		for i := 0; i < min(localSearchN, len(next)); i++ {
			next[i] = hillClimb(next[i], pool, category, prioritized)
		}

		pop = next
	}

	sortByFitnessDesc(pop)

	return pop
}

func min(a, b int) int {
	if a < b {
		return a
	}

	return b
}
