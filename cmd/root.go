package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/cpu-sched-sim/sim"
	"github.com/inference-sim/cpu-sched-sim/sim/trace"
	"github.com/inference-sim/cpu-sched-sim/sim/workload"
)

var (
	// CLI flags shared by run, compare and step
	workloadPath     string // Path to a workload YAML file
	presetName       string // Built-in or defaults.yaml preset
	policyName       string // Scheduling policy
	quantum          int    // Round Robin time quantum
	maxTicks         int64  // Safety ceiling (0 = derived)
	traceLevel       string // Decision trace level
	policyConfigPath string // Policy bundle YAML
	defaultsFilePath string // Path to defaults.yaml
	logLevel         string // Log verbosity level

	outputFormat string // table, json or yaml
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "cpu-sched-sim",
	Short: "Tick-based CPU scheduling simulator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// runCmd executes one policy and prints its result
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one scheduling policy over a workload",
	Run: func(cmd *cobra.Command, args []string) {
		policy, opts, procs, err := resolveRun(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		res, err := sim.Run(policy, procs, opts)
		if err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
		if err := writeResult(cmd.OutOrStdout(), res, outputFormat); err != nil {
			logrus.Fatalf("Writing result failed: %v", err)
		}
		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadWorkload resolves --workload or --preset into a validated spec.
// With neither flag the textbook preset is used.
func loadWorkload(path, preset, defaultsPath string) (*workload.WorkloadSpec, Config, error) {
	cfg, err := applyDefaults(defaultsPath)
	if err != nil {
		return nil, cfg, err
	}
	if path != "" && preset != "" {
		return nil, cfg, fmt.Errorf("--workload and --preset are mutually exclusive")
	}
	var spec *workload.WorkloadSpec
	if path != "" {
		spec, err = workload.LoadWorkloadSpec(path)
	} else {
		if preset == "" {
			preset = workload.PresetTextbook
		}
		spec, err = workload.Preset(preset)
	}
	if err != nil {
		return nil, cfg, err
	}
	if err := spec.Validate(); err != nil {
		return nil, cfg, err
	}
	return spec, cfg, nil
}

// resolveRun combines the workload, the policy bundle and the flags.
// Precedence, lowest first: defaults.yaml, workload file, policy bundle, explicit flags.
func resolveRun(cmd *cobra.Command) (sim.Policy, sim.Options, []sim.Process, error) {
	spec, cfg, err := loadWorkload(workloadPath, presetName, defaultsFilePath)
	if err != nil {
		return "", sim.Options{}, nil, err
	}
	policy, err := sim.ParsePolicy(policyName)
	if err != nil {
		return "", sim.Options{}, nil, err
	}
	opts := sim.Options{
		Quantum:    quantumOr(spec.Quantum, cfg.DefaultQuantum),
		TraceLevel: trace.TraceLevelNone,
	}

	if policyConfigPath != "" {
		bundle, err := sim.LoadPolicyBundle(policyConfigPath)
		if err != nil {
			return "", sim.Options{}, nil, err
		}
		if policy, opts, err = bundle.Apply(policy, opts); err != nil {
			return "", sim.Options{}, nil, fmt.Errorf("policy config %s: %w", policyConfigPath, err)
		}
		logrus.Infof("Loaded policy config from %s", policyConfigPath)
	}

	flags := cmd.Flags()
	if flags.Changed("policy") {
		policy, _ = sim.ParsePolicy(policyName)
	}
	if flags.Changed("quantum") {
		opts.Quantum = quantum
	}
	if flags.Changed("max-ticks") {
		opts.MaxTicks = maxTicks
	}
	if flags.Changed("trace") {
		opts.TraceLevel = trace.TraceLevel(traceLevel)
	}
	if err := sim.ValidateOptions(policy, opts); err != nil {
		return "", sim.Options{}, nil, err
	}
	logrus.Infof("Resolved run: policy=%s quantum=%d max_ticks=%d trace=%s processes=%d",
		policy, opts.Quantum, opts.MaxTicks, opts.TraceLevel, len(spec.Processes))
	return policy, opts, spec.ToProcesses(), nil
}

// addWorkloadFlags registers the flags every simulation command shares.
func addWorkloadFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&workloadPath, "workload", "", "Path to workload YAML file")
	cmd.Flags().StringVar(&presetName, "preset", "", "Named workload preset (textbook, convoy, starvation, idle-gap, rr-rotation)")
	cmd.Flags().IntVar(&quantum, "quantum", fallbackQuantum, "Round Robin time quantum (ticks)")
	cmd.Flags().Int64Var(&maxTicks, "max-ticks", 0, "Safety tick ceiling (0 = derived from workload)")
	cmd.Flags().StringVar(&defaultsFilePath, "defaults-filepath", "defaults.yaml", "Path to defaults.yaml")
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	addWorkloadFlags(runCmd)
	runCmd.Flags().StringVar(&policyName, "policy", string(sim.PolicyFCFS), "Scheduling policy (fcfs, sjf, srtf, priority-np, priority-p, rr)")
	runCmd.Flags().StringVar(&outputFormat, "output", "table", "Output format (table, json, yaml)")
	runCmd.Flags().StringVar(&traceLevel, "trace", string(trace.TraceLevelNone), "Decision trace level (none, decisions)")
	runCmd.Flags().StringVar(&policyConfigPath, "policy-config", "", "Path to policy bundle YAML (policy, quantum, max_ticks, trace)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
