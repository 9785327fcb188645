package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/inference-sim/cpu-sched-sim/sim"
	"github.com/inference-sim/cpu-sched-sim/sim/trace"
)

// Output formats accepted by --output.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// writeResult renders one AlgorithmResult in the requested format.
func writeResult(w io.Writer, res *sim.AlgorithmResult, format string) error {
	switch format {
	case formatTable:
		writeGantt(w, res.Timeline, res.TotalTime)
		writeProcessTable(w, res)
		_, _ = fmt.Fprintln(w)
		res.Print(w)
		if res.Trace != nil {
			writeTrace(w, res)
		}
		return nil
	case formatJSON:
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("JSON marshal failed: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case formatYAML:
		data, err := yaml.Marshal(res)
		if err != nil {
			return fmt.Errorf("YAML marshal failed: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format %q; valid formats: table, json, yaml", format)
	}
}

// writeGantt prints the timeline as labelled segments, marking idle gaps.
func writeGantt(w io.Writer, timeline []sim.GanttEntry, total int64) {
	_, _ = fmt.Fprintln(w, "Gantt schedule")
	var sb strings.Builder
	var clock int64
	for _, g := range timeline {
		if g.Start > clock {
			fmt.Fprintf(&sb, "| idle [%d,%d) ", clock, g.Start)
		}
		fmt.Fprintf(&sb, "| P%d [%d,%d) ", g.ProcessID, g.Start, g.End)
		clock = g.End
	}
	if clock < total {
		fmt.Fprintf(&sb, "| idle [%d,%d) ", clock, total)
	}
	if sb.Len() > 0 {
		sb.WriteString("|")
	}
	_, _ = fmt.Fprintf(w, "%s\n\n", sb.String())
}

// writeProcessTable prints per-process metrics with averages in the footer.
func writeProcessTable(w io.Writer, res *sim.AlgorithmResult) {
	_, _ = fmt.Fprintln(w, "Schedule table")
	rows := make([][]string, 0, len(res.Processes))
	for _, p := range res.Processes {
		prio := "-"
		if p.Priority != nil {
			prio = fmt.Sprint(*p.Priority)
		}
		rows = append(rows, []string{
			fmt.Sprint(p.ID), p.Label(), prio,
			fmt.Sprint(p.ArrivalTime), fmt.Sprint(p.BurstTime),
			fmt.Sprint(p.WaitingTime), fmt.Sprint(p.TurnaroundTime),
			fmt.Sprint(p.ResponseTime), fmt.Sprint(p.CompletionTime),
		})
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Name", "Priority", "Arrival", "Burst", "Wait", "Turnaround", "Response", "Exit"})
	table.AppendBulk(rows)
	table.SetFooter([]string{"", "", "", "", "",
		fmt.Sprintf("Average\n%.2f", res.AvgWaitingTime),
		fmt.Sprintf("Average\n%.2f", res.AvgTurnaroundTime),
		fmt.Sprintf("Average\n%.2f", res.AvgResponseTime),
		fmt.Sprintf("Throughput\n%.2f/t", res.Throughput)})
	table.Render()
}

// writeComparison prints one row per policy and the winner by metric.
func writeComparison(w io.Writer, results []*sim.AlgorithmResult, metric sim.CompareMetric) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Policy", "Avg Wait", "Avg Turnaround", "Avg Response", "Total Time", "CPU Util", "Switches"})
	for _, r := range results {
		table.Append([]string{
			r.PolicyName,
			fmt.Sprintf("%.2f", r.AvgWaitingTime),
			fmt.Sprintf("%.2f", r.AvgTurnaroundTime),
			fmt.Sprintf("%.2f", r.AvgResponseTime),
			fmt.Sprint(r.TotalTime),
			fmt.Sprintf("%.1f%%", r.CPUUtilization*100),
			fmt.Sprint(r.ContextSwitches),
		})
	}
	table.Render()
	if best := sim.BestBy(results, metric); best != nil {
		_, _ = fmt.Fprintf(w, "Best policy by average %s time: %s (%s)\n", metric, best.PolicyName, best.Policy)
	}
}

// writeTrace prints the decision trace, one record per line.
func writeTrace(w io.Writer, res *sim.AlgorithmResult) {
	_, _ = fmt.Fprintln(w, "\n=== Decision Trace ===")
	for _, d := range res.Trace.Decisions {
		who := "cpu"
		if d.ProcessID != sim.NoProcess {
			who = fmt.Sprintf("P%d", d.ProcessID)
		}
		line := fmt.Sprintf("[tick %04d] %-16s %s", d.Clock, d.Kind, who)
		if d.Kind == trace.KindPreempt && d.PreemptedBy != nil {
			line += fmt.Sprintf(" by P%d", *d.PreemptedBy)
		}
		if d.Reason != "" {
			line += " (" + d.Reason + ")"
		}
		_, _ = fmt.Fprintln(w, line)
	}
	summary := trace.Summarize(res.Trace)
	_, _ = fmt.Fprintf(w, "Decisions: %d (dispatches=%d preemptions=%d quantum expiries=%d idle=%d)\n",
		summary.TotalDecisions, summary.Dispatches, summary.Preemptions, summary.QuantumExpiries, summary.IdleTicks)
}

// writeTickEvent prints one stepwise event as a single line.
func writeTickEvent(w io.Writer, ev sim.TickEvent) {
	running := "idle"
	if !ev.Idle() {
		running = fmt.Sprintf("P%d", ev.RunningID)
	}
	ready := make([]string, len(ev.ReadyQueueIDs))
	for i, id := range ev.ReadyQueueIDs {
		ready[i] = fmt.Sprintf("P%d", id)
	}
	_, _ = fmt.Fprintf(w, "t=%-4d cpu=%-6s ready=[%s]  %s\n", ev.Time, running, strings.Join(ready, " "), ev.Message)
}
