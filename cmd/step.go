package cmd

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/inference-sim/cpu-sched-sim/sim"
)

var stepDelay time.Duration

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Replay a policy tick by tick",
	Long:  "Pull one event per tick from the stepwise engine and print it. --delay sets the playback cadence between ticks.",
	Run: func(cmd *cobra.Command, args []string) {
		policy, opts, procs, err := resolveRun(cmd)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		stepper, err := sim.NewStepper(policy, procs, opts)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if err := playSteps(cmd.OutOrStdout(), stepper, stepDelay); err != nil {
			logrus.Fatalf("Stepwise run failed: %v", err)
		}
		if res := stepper.Result(); res != nil {
			res.Print(cmd.OutOrStdout())
		}
	},
}

// playSteps prints every event, sleeping delay between pulls.
// The engine itself never waits; the cadence belongs to the consumer.
func playSteps(w io.Writer, stepper *sim.Stepper, delay time.Duration) error {
	for {
		ev, done, err := stepper.Next()
		if err != nil {
			return err
		}
		writeTickEvent(w, ev)
		if done {
			return nil
		}
		if delay > 0 {
			time.Sleep(delay)
		}
	}
}

func init() {
	addWorkloadFlags(stepCmd)
	stepCmd.Flags().StringVar(&policyName, "policy", string(sim.PolicyFCFS), "Scheduling policy (fcfs, sjf, srtf, priority-np, priority-p, rr)")
	stepCmd.Flags().StringVar(&policyConfigPath, "policy-config", "", "Path to policy bundle YAML (policy, quantum, max_ticks, trace)")
	stepCmd.Flags().DurationVar(&stepDelay, "delay", 0, "Pause between ticks (e.g. 250ms)")

	rootCmd.AddCommand(stepCmd)
}
