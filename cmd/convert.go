package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/cpu-sched-sim/sim/workload"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert external process lists to workload YAML",
	Long:  "Convert process CSV files and presets to WorkloadSpec YAML. Output is written to stdout for piping.",
}

// --- convert csv ---

var csvPath string

var convertCSVCmd = &cobra.Command{
	Use:   "csv",
	Short: "Convert an id,burst,arrival[,priority] CSV file",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := workload.ConvertCSV(csvPath)
		if err != nil {
			logrus.Fatalf("CSV conversion failed: %v", err)
		}
		writeSpec(cmd, spec)
	},
}

// --- convert preset ---

var (
	convertPresetName  string
	presetDefaultsPath string
)

var convertPresetCmd = &cobra.Command{
	Use:   "preset",
	Short: "Print a named workload preset",
	Run: func(cmd *cobra.Command, args []string) {
		if _, err := applyDefaults(presetDefaultsPath); err != nil {
			logrus.Fatalf("%v", err)
		}
		spec, err := workload.Preset(convertPresetName)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		writeSpec(cmd, spec)
	},
}

// --- convert generate ---

var generateConfig = workload.DefaultGeneratorConfig(42)

var convertGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a seeded random workload",
	Run: func(cmd *cobra.Command, args []string) {
		spec, err := workload.Generate(generateConfig)
		if err != nil {
			logrus.Fatalf("Generation failed: %v", err)
		}
		writeSpec(cmd, spec)
	},
}

// writeSpec marshals a WorkloadSpec to YAML on the command's stdout.
func writeSpec(cmd *cobra.Command, spec *workload.WorkloadSpec) {
	data, err := spec.Marshal()
	if err != nil {
		logrus.Fatalf("YAML marshal failed: %v", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
}

func init() {
	convertCSVCmd.Flags().StringVar(&csvPath, "file", "", "Path to process CSV file")
	_ = convertCSVCmd.MarkFlagRequired("file")

	convertPresetCmd.Flags().StringVar(&convertPresetName, "name", "", "Preset name (e.g., textbook, convoy)")
	convertPresetCmd.Flags().StringVar(&presetDefaultsPath, "defaults-filepath", "defaults.yaml", "Path to defaults.yaml")
	_ = convertPresetCmd.MarkFlagRequired("name")

	convertGenerateCmd.Flags().Int64Var(&generateConfig.Seed, "seed", generateConfig.Seed, "Random seed")
	convertGenerateCmd.Flags().IntVar(&generateConfig.Count, "count", generateConfig.Count, "Number of processes")
	convertGenerateCmd.Flags().Int64Var(&generateConfig.MaxArrival, "max-arrival", generateConfig.MaxArrival, "Latest arrival tick")
	convertGenerateCmd.Flags().Int64Var(&generateConfig.MaxBurst, "max-burst", generateConfig.MaxBurst, "Longest burst")
	convertGenerateCmd.Flags().IntVar(&generateConfig.MaxPriority, "max-priority", generateConfig.MaxPriority, "Highest priority number")
	convertGenerateCmd.Flags().Float64Var(&generateConfig.UnsetRatio, "unset-ratio", generateConfig.UnsetRatio, "Fraction of processes without a priority")
	convertGenerateCmd.Flags().IntVar(&generateConfig.Quantum, "quantum", generateConfig.Quantum, "Quantum recorded in the workload")

	convertCmd.AddCommand(convertCSVCmd)
	convertCmd.AddCommand(convertPresetCmd)
	convertCmd.AddCommand(convertGenerateCmd)

	rootCmd.AddCommand(convertCmd)
}
