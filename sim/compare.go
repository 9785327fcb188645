package sim

import (
	"fmt"
	"sync"
)

// CompareMetric selects the average used to rank policies.
type CompareMetric string

const (
	MetricWaiting    CompareMetric = "waiting"
	MetricTurnaround CompareMetric = "turnaround"
	MetricResponse   CompareMetric = "response"
)

// CompareAll runs every policy over procs, one goroutine per policy.
// Each run owns a private copy of procs, so results do not depend on
// execution order. Results come back in AllPolicies() order.
func CompareAll(procs []Process, opts Options) ([]*AlgorithmResult, error) {
	policies := AllPolicies()
	results := make([]*AlgorithmResult, len(policies))
	errs := make([]error, len(policies))

	var wg sync.WaitGroup
	for i, policy := range policies {
		wg.Add(1)
		go func(i int, policy Policy) {
			defer wg.Done()
			results[i], errs[i] = Run(policy, procs, opts)
		}(i, policy)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", policies[i], err)
		}
	}
	return results, nil
}

// BestBy returns the result with the lowest average for metric.
// Ties keep the earlier policy. Returns nil for an empty slice.
func BestBy(results []*AlgorithmResult, metric CompareMetric) *AlgorithmResult {
	var best *AlgorithmResult
	for _, r := range results {
		if r == nil {
			continue
		}
		if best == nil || metricValue(r, metric) < metricValue(best, metric) {
			best = r
		}
	}
	return best
}

func metricValue(r *AlgorithmResult, metric CompareMetric) float64 {
	switch metric {
	case MetricTurnaround:
		return r.AvgTurnaroundTime
	case MetricResponse:
		return r.AvgResponseTime
	default:
		return r.AvgWaitingTime
	}
}
