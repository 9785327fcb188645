package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/cpu-sched-sim/sim"
)

var compareMetric string

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run every policy over one workload and rank them",
	Run: func(cmd *cobra.Command, args []string) {
		spec, cfg, err := loadWorkload(workloadPath, presetName, defaultsFilePath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		opts := sim.Options{Quantum: quantumOr(spec.Quantum, cfg.DefaultQuantum), MaxTicks: maxTicks}
		if cmd.Flags().Changed("quantum") {
			opts.Quantum = quantum
		}
		metric, err := parseCompareMetric(compareMetric)
		if err != nil {
			logrus.Fatalf("%v", err)
		}

		results, err := sim.CompareAll(spec.ToProcesses(), opts)
		if err != nil {
			logrus.Fatalf("Comparison failed: %v", err)
		}
		writeComparison(cmd.OutOrStdout(), results, metric)
	},
}

func parseCompareMetric(name string) (sim.CompareMetric, error) {
	switch m := sim.CompareMetric(name); m {
	case sim.MetricWaiting, sim.MetricTurnaround, sim.MetricResponse:
		return m, nil
	default:
		return "", fmt.Errorf("invalid --metric %q; valid values: waiting, turnaround, response", name)
	}
}

func init() {
	addWorkloadFlags(compareCmd)
	compareCmd.Flags().StringVar(&compareMetric, "metric", string(sim.MetricWaiting), "Ranking metric (waiting, turnaround, response)")

	rootCmd.AddCommand(compareCmd)
}
