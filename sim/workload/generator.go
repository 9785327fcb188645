package workload

import (
	"fmt"
)

// GeneratorConfig controls random workload generation.
type GeneratorConfig struct {
	Seed        int64
	Count       int     // number of processes
	MaxArrival  int64   // arrivals drawn from [0, MaxArrival]
	MaxBurst    int64   // bursts drawn from [1, MaxBurst]
	MaxPriority int     // priorities drawn from [0, MaxPriority]
	UnsetRatio  float64 // fraction of processes left without a priority
	Quantum     int
}

// DefaultGeneratorConfig returns settings that exercise ties, idle gaps and
// unset priorities within a small workload.
func DefaultGeneratorConfig(seed int64) GeneratorConfig {
	return GeneratorConfig{
		Seed:        seed,
		Count:       8,
		MaxArrival:  12,
		MaxBurst:    6,
		MaxPriority: 4,
		UnsetRatio:  0.2,
		Quantum:     2,
	}
}

// Generate produces a random workload. Same config = same workload.
func Generate(cfg GeneratorConfig) (*WorkloadSpec, error) {
	if cfg.Count < 0 {
		return nil, fmt.Errorf("count must be non-negative, got %d", cfg.Count)
	}
	if cfg.MaxArrival < 0 {
		return nil, fmt.Errorf("max arrival must be non-negative, got %d", cfg.MaxArrival)
	}
	if cfg.MaxBurst < 1 {
		return nil, fmt.Errorf("max burst must be >= 1, got %d", cfg.MaxBurst)
	}
	if cfg.MaxPriority < 0 {
		return nil, fmt.Errorf("max priority must be non-negative, got %d", cfg.MaxPriority)
	}
	if cfg.UnsetRatio < 0 || cfg.UnsetRatio > 1 {
		return nil, fmt.Errorf("unset ratio must be in [0, 1], got %f", cfg.UnsetRatio)
	}

	rng := newSeedStreams(cfg.Seed)
	arrivals, bursts, priorities := rng.stream(streamArrival), rng.stream(streamBurst), rng.stream(streamPriority)
	spec := &WorkloadSpec{Version: "1", Quantum: cfg.Quantum, Processes: make([]ProcessSpec, cfg.Count)}
	for i := range spec.Processes {
		ps := ProcessSpec{
			ID:      i,
			Name:    fmt.Sprintf("P%d", i),
			Arrival: arrivals.Int63n(cfg.MaxArrival + 1),
			Burst:   1 + bursts.Int63n(cfg.MaxBurst),
		}
		// Two draws per process keep the stream aligned whatever the ratio.
		unset, value := priorities.Float64(), priorities.Intn(cfg.MaxPriority+1)
		if unset >= cfg.UnsetRatio {
			ps.Priority = prio(value)
		}
		spec.Processes[i] = ps
	}
	// Shuffle so input order differs from ID order.
	order := rng.stream(streamOrder)
	order.Shuffle(len(spec.Processes), func(i, j int) {
		spec.Processes[i], spec.Processes[j] = spec.Processes[j], spec.Processes[i]
	})
	return spec, nil
}
