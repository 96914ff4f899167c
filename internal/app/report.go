package app

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/markphelps/optional"

	"github.com/vk/dagsched/internal/metrics"
)

// writeReport renders the task and core tables plus a short summary to the
// app's output writer.
func (a *App) writeReport(r *metrics.Report) error {
	tw := tabwriter.NewWriter(a.outW, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "run %s\t(%d ticks elapsed)\n\n", r.RunID, r.Elapsed)

	fmt.Fprintln(tw, "ID\tNAME\tDURATION\tPERIOD\tPRIORITY\tSTART\tFINISH\tTURNAROUND")
	for _, t := range r.Tasks {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\t%s\t%s\n",
			t.ID, t.Name, t.Duration, t.Period, t.Priority,
			fmtTick(t.Start), fmtTick(t.Finish), fmtTick(t.Turnaround))
	}

	fmt.Fprintln(tw, "\nCORE\tBUSY\tIDLE\tUTILIZATION")
	for _, c := range r.Cores {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%.2f%%\n", c.ID, c.BusyTime, c.IdleTime, c.Utilization)
	}

	fmt.Fprintf(tw, "\naverage turnaround\t%.2f ticks\n", r.AverageTurnaround())
	fmt.Fprintf(tw, "average utilization\t%.2f%%\n", r.AverageUtilization())

	if !r.Converged {
		fmt.Fprintf(tw, "\nWARNING: run did not converge; incomplete tasks: %s\n",
			strings.Join(r.Incomplete(), ", "))
	}

	return tw.Flush()
}

// fmtTick renders an optional tick value, using "-" when it was never
// recorded.
func fmtTick(v optional.Int) string {
	if n, err := v.Get(); err == nil {
		return strconv.Itoa(n)
	}
	return "-"
}
