package workload

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cpu-sched-sim/sim"
)

// WorkloadSpec is the top-level workload file: a process list plus an
// optional default quantum. Loaded from YAML via LoadWorkloadSpec(path).
type WorkloadSpec struct {
	Version   string        `yaml:"version,omitempty"`
	Quantum   int           `yaml:"quantum,omitempty"` // 0 = use the CLI/default quantum
	Processes []ProcessSpec `yaml:"processes"`
}

// ProcessSpec describes one input process.
type ProcessSpec struct {
	ID       int    `yaml:"id" json:"id"`
	Name     string `yaml:"name,omitempty" json:"name,omitempty"`
	Arrival  int64  `yaml:"arrival" json:"arrival"`
	Burst    int64  `yaml:"burst" json:"burst"`
	Priority *int   `yaml:"priority,omitempty" json:"priority,omitempty"` // omitted = unset
	Color    string `yaml:"color,omitempty" json:"color,omitempty"`
}

// LoadWorkloadSpec reads a YAML workload file with strict field checking.
func LoadWorkloadSpec(path string) (*WorkloadSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading workload spec: %w", err)
	}
	spec, err := ParseWorkloadSpec(data)
	if err != nil {
		return nil, fmt.Errorf("workload %s: %w", path, err)
	}
	return spec, nil
}

// ParseWorkloadSpec decodes YAML bytes. Unknown keys are rejected so typos
// never silently become defaults.
func ParseWorkloadSpec(data []byte) (*WorkloadSpec, error) {
	var spec WorkloadSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parsing workload spec: %w", err)
	}
	return &spec, nil
}

// Validate checks the process list against the engine's input contract.
func (s *WorkloadSpec) Validate() error {
	if s.Quantum < 0 {
		return fmt.Errorf("%w: quantum must be non-negative, got %d", sim.ErrInvalidInput, s.Quantum)
	}
	return sim.ValidateProcesses(s.ToProcesses())
}

// ToProcesses converts the spec into engine input, in file order.
func (s *WorkloadSpec) ToProcesses() []sim.Process {
	procs := make([]sim.Process, len(s.Processes))
	for i, ps := range s.Processes {
		var prio *int
		if ps.Priority != nil {
			prio = sim.IntPtr(*ps.Priority)
		}
		p := sim.NewProcess(ps.ID, ps.Name, ps.Arrival, ps.Burst, prio)
		p.Color = ps.Color
		procs[i] = p
	}
	return procs
}

// FromProcesses builds a spec from engine input.
func FromProcesses(procs []sim.Process, quantum int) *WorkloadSpec {
	spec := &WorkloadSpec{Version: "1", Quantum: quantum, Processes: make([]ProcessSpec, len(procs))}
	for i, p := range procs {
		var prio *int
		if p.Priority != nil {
			prio = sim.IntPtr(*p.Priority)
		}
		spec.Processes[i] = ProcessSpec{
			ID: p.ID, Name: p.Name, Arrival: p.ArrivalTime, Burst: p.BurstTime, Priority: prio, Color: p.Color,
		}
	}
	return spec
}

// Marshal renders the spec as YAML.
func (s *WorkloadSpec) Marshal() ([]byte, error) {
	return yaml.Marshal(s)
}
