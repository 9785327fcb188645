package sim

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inference-sim/cpu-sched-sim/sim/trace"
)

func writeTempYAML(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "policy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPolicyBundle_ValidYAML(t *testing.T) {
	path := writeTempYAML(t, `
policy: round-robin
quantum: 3
max_ticks: 500
trace: decisions
`)
	bundle, err := LoadPolicyBundle(path)
	require.NoError(t, err)
	require.NoError(t, bundle.Validate())

	policy, opts, err := bundle.Apply(PolicyFCFS, Options{Quantum: 1})
	require.NoError(t, err)
	assert.Equal(t, PolicyRoundRobin, policy)
	assert.Equal(t, 3, opts.Quantum)
	assert.Equal(t, int64(500), opts.MaxTicks)
	assert.Equal(t, trace.TraceLevelDecisions, opts.TraceLevel)
}

func TestLoadPolicyBundle_UnsetFieldsKeepFlags(t *testing.T) {
	bundle, err := LoadPolicyBundle(writeTempYAML(t, "trace: none\n"))
	require.NoError(t, err)

	policy, opts, err := bundle.Apply(PolicySJF, Options{Quantum: 4, MaxTicks: 10})
	require.NoError(t, err)
	assert.Equal(t, PolicySJF, policy)
	assert.Equal(t, 4, opts.Quantum)
	assert.Equal(t, int64(10), opts.MaxTicks)
}

func TestLoadPolicyBundle_UnknownKey(t *testing.T) {
	_, err := LoadPolicyBundle(writeTempYAML(t, "quantom: 2\n"))
	assert.Error(t, err)
}

func TestLoadPolicyBundle_NonexistentFile(t *testing.T) {
	_, err := LoadPolicyBundle(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestPolicyBundle_Validate_Invalid(t *testing.T) {
	zero, negative := 0, int64(-1)
	tests := []struct {
		name   string
		bundle PolicyBundle
	}{
		{"unknown policy", PolicyBundle{Policy: "lottery"}},
		{"zero quantum", PolicyBundle{Quantum: &zero}},
		{"negative max ticks", PolicyBundle{MaxTicks: &negative}},
		{"unknown trace level", PolicyBundle{Trace: "verbose"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.bundle.Validate())
			_, _, err := tc.bundle.Apply(PolicyFCFS, Options{})
			assert.Error(t, err)
		})
	}
}

func TestPolicyBundle_Validate_EmptyIsValid(t *testing.T) {
	assert.NoError(t, (&PolicyBundle{}).Validate())
}
