package optimizer

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/uzarakhq/bpsr-uza-modules/internal/logging"
	"github.com/uzarakhq/bpsr-uza-modules/types"
)

var driverLog = logging.New("optimizer.driver", false)

var campaignDuration = newCampaignDurationMetric()

// RunCampaigns runs numCampaigns independent GA campaigns in parallel,
// each with its own rand source derived from seed, and merges their
// final populations (spec.md §4.10 "parallel campaigns"). A campaign
// that panics is logged and retried sequentially once the parallel
// phase completes; a campaign that still fails is dropped from the
// merge.
func RunCampaigns(pool []types.ModuleInfo, category types.ModuleCategory, prioritized []string, p Params, numCampaigns int, seed int64) []types.ModuleSolution {
	if numCampaigns < 1 {
		numCampaigns = 1
	}

	results := make([][]types.ModuleSolution, numCampaigns)
	failed := make([]bool, numCampaigns)

	var wg sync.WaitGroup

	for i := 0; i < numCampaigns; i++ {
		wg.Add(1)

		go func(idx int) {
			defer wg.Done()

			defer func() {
				if r := recover(); r != nil {
					driverLog.Error("campaign panicked", zap.Int("campaign", idx), zap.Any("recover", r))
					failed[idx] = true
				}
			}()

			start := time.Now()
			rng := rand.New(rand.NewSource(seed + int64(idx)))
			results[idx] = RunCampaign(rng, pool, category, prioritized, p)
			campaignDuration.Observe(time.Since(start).Seconds())
		}(i)
	}

	wg.Wait()

	for i := 0; i < numCampaigns; i++ {
		if !failed[i] {
			continue
		}

		driverLog.Warn("retrying failed campaign sequentially", zap.Int("campaign", i))

		func() {
			defer func() {
				if r := recover(); r != nil {
					driverLog.Error("campaign failed again, dropping", zap.Int("campaign", i), zap.Any("recover", r))
				}
			}()

			rng := rand.New(rand.NewSource(seed + int64(i)))
			results[i] = RunCampaign(rng, pool, category, prioritized, p)
		}()
	}

	var merged []types.ModuleSolution
	for _, r := range results {
		merged = append(merged, r...)
	}

	return merged
}
