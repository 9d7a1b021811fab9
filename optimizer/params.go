package optimizer

import (
	"runtime"

	"github.com/uzarakhq/bpsr-uza-modules/internal/config"
)

// ParamsFromConfig adapts the user-facing GA config into the
// optimizer's internal Params.
func ParamsFromConfig(ga config.GA) Params {
	return Params{
		PopulationSize:  ga.PopulationSize,
		Generations:     ga.Generations,
		TournamentSize:  ga.TournamentSize,
		CrossoverRate:   ga.CrossoverRate,
		MutationRate:    ga.MutationRate,
		ElitismRate:     ga.ElitismRate,
		LocalSearchRate: ga.LocalSearchRate,
	}
}

// NumCampaigns resolves the configured campaign count, defaulting to
// runtime.NumCPU()-1 (minimum 1) when unset (spec.md §4.10).
func NumCampaigns(configured int) int {
	if configured > 0 {
		return configured
	}

	n := runtime.NumCPU() - 1
	if n < 1 {
		n = 1
	}

	return n
}
