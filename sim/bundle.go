package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cpu-sched-sim/sim/trace"
)

// PolicyBundle holds run configuration loadable from a YAML file.
// Nil pointer fields mean "not set in YAML" and do not override CLI flags.
// String fields use empty string for "not set".
type PolicyBundle struct {
	Policy   string `yaml:"policy"`
	Quantum  *int   `yaml:"quantum"`
	MaxTicks *int64 `yaml:"max_ticks"`
	Trace    string `yaml:"trace"`
}

// LoadPolicyBundle reads and parses a YAML policy configuration file.
// Unknown keys are rejected.
func LoadPolicyBundle(path string) (*PolicyBundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading policy config: %w", err)
	}
	var bundle PolicyBundle
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&bundle); err != nil {
		return nil, fmt.Errorf("parsing policy config: %w", err)
	}
	return &bundle, nil
}

// Validate checks that the policy name and parameter ranges in the bundle are valid.
func (b *PolicyBundle) Validate() error {
	if b.Policy != "" {
		if _, err := ParsePolicy(b.Policy); err != nil {
			return err
		}
	}
	if !trace.IsValidTraceLevel(b.Trace) {
		return fmt.Errorf("%w: unknown trace level %q", ErrInvalidInput, b.Trace)
	}
	if b.Quantum != nil && *b.Quantum < 1 {
		return fmt.Errorf("%w: quantum must be >= 1, got %d", ErrInvalidInput, *b.Quantum)
	}
	if b.MaxTicks != nil && *b.MaxTicks < 0 {
		return fmt.Errorf("%w: max_ticks must be non-negative, got %d", ErrInvalidInput, *b.MaxTicks)
	}
	return nil
}

// Apply overlays the fields set in the bundle onto policy and opts.
func (b *PolicyBundle) Apply(policy Policy, opts Options) (Policy, Options, error) {
	if err := b.Validate(); err != nil {
		return policy, opts, err
	}
	if b.Policy != "" {
		p, _ := ParsePolicy(b.Policy)
		policy = p
	}
	if b.Quantum != nil {
		opts.Quantum = *b.Quantum
	}
	if b.MaxTicks != nil {
		opts.MaxTicks = *b.MaxTicks
	}
	if b.Trace != "" {
		opts.TraceLevel = trace.TraceLevel(b.Trace)
	}
	return policy, opts, nil
}
