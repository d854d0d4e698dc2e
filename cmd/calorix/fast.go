package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lg/calorix-api/internal/fasting"
	"lg/calorix-api/internal/ledger"
)

var flagCompleted bool

var fastCmd = &cobra.Command{
	Use:   "fast",
	Short: "Start, stop and follow a fast",
}

var fastStartCmd = &cobra.Command{
	Use:   "start <rabbit|fox|lion|hours>",
	Short: "Start a fast from a protocol or a custom number of hours",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		hours, err := parseFastArg(args[0])
		if err != nil {
			return err
		}
		return a.startFast(ctx, cmd.OutOrStdout(), hours)
	}),
}

var fastStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running fast",
	Long: `Stops the running fast and records it in history. Without --completed
the fast counts as completed only if its planned duration has elapsed.`,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
		var completed *bool
		if cmd.Flags().Changed("completed") {
			completed = &flagCompleted
		}
		return a.stopFast(ctx, cmd.OutOrStdout(), completed)
	}),
}

var fastStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running fast and recent history",
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
		return a.fastStatus(ctx, cmd.OutOrStdout())
	}),
}

func init() {
	fastStopCmd.Flags().BoolVar(&flagCompleted, "completed", false, "mark the fast completed (or --completed=false for a broken fast)")
	fastCmd.AddCommand(fastStartCmd, fastStopCmd, fastStatusCmd, fastWatchCmd)
	rootCmd.AddCommand(fastCmd)
}

// parseFastArg resolves a protocol id or a custom length in hours.
func parseFastArg(s string) (float64, error) {
	if p, ok := fasting.ProtocolByID(s); ok {
		return p.Hours, nil
	}
	return fasting.ParseHours(s)
}

func (a *app) startFast(ctx context.Context, w io.Writer, hours float64) error {
	now := a.clock.Now()
	rec, err := a.fasts.Update(ctx, a.uid, func(r fasting.Record) (fasting.Record, error) {
		return fasting.Start(r, hours, now)
	})
	if err != nil {
		return err
	}
	pts := a.award(ctx, ledger.ActionStartFasting)

	act, _ := rec.Active()
	p := fasting.ProtocolFor(hours)
	fmt.Fprintf(w, "  Started %s fast (%gh), ends %s\n",
		headerStyle.Render(p.Name), hours, valueStyle.Render(act.EndTime.Format("Mon 15:04")))
	if pts > 0 {
		fmt.Fprintf(w, "  %s %s\n", goodStyle.Render(fmt.Sprintf("+%d", pts)), mutedStyle.Render(string(ledger.ActionStartFasting)))
	}
	return nil
}

func (a *app) stopFast(ctx context.Context, w io.Writer, completed *bool) error {
	now := a.clock.Now()
	var entry fasting.Log
	_, err := a.fasts.Update(ctx, a.uid, func(r fasting.Record) (fasting.Record, error) {
		done := fasting.Remaining(r, now) == 0
		if completed != nil {
			done = *completed
		}
		next, l, err := fasting.Stop(r, done, now, uuid.NewString())
		entry = l
		return next, err
	})
	if err != nil {
		return err
	}

	elapsed := entry.EndTime.Sub(entry.StartTime)
	if entry.Completed {
		pts := a.award(ctx, ledger.ActionCompleteFasting)
		fmt.Fprintf(w, "  %s after %s\n", goodStyle.Render("Fast complete!"), formatDuration(elapsed))
		if pts > 0 {
			fmt.Fprintf(w, "  %s %s\n", goodStyle.Render(fmt.Sprintf("+%d", pts)), mutedStyle.Render(string(ledger.ActionCompleteFasting)))
		}
		return nil
	}
	fmt.Fprintf(w, "  %s after %s of %gh\n", warnStyle.Render("Fast ended early"), formatDuration(elapsed), entry.TargetHours)
	return nil
}

func (a *app) fastStatus(ctx context.Context, w io.Writer) error {
	rec, err := a.fasts.Load(ctx, a.uid)
	if err != nil {
		return err
	}
	now := a.clock.Now()

	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTitle("Fasting"))
	fmt.Fprintln(w)

	if act, ok := rec.Active(); ok {
		p := fasting.ProtocolFor(act.DurationHours)
		fmt.Fprintf(w, "  %s  %s\n", headerStyle.Render(p.Name), mutedStyle.Render(fmt.Sprintf("%gh", act.DurationHours)))
		fmt.Fprintf(w, "  %s %s\n", progressBar(fasting.Progress(rec, now), 40),
			valueStyle.Render(fmt.Sprintf("%.0f%%", fasting.Progress(rec, now))))
		if rem := fasting.Remaining(rec, now); rem > 0 {
			fmt.Fprintf(w, "  %s %s\n", mutedStyle.Render("Remaining"), valueStyle.Render(formatDuration(rem)))
		} else {
			fmt.Fprintf(w, "  %s\n", goodStyle.Render("Goal reached. Run `calorix fast stop` to log it."))
		}
	} else {
		fmt.Fprintln(w, "  "+mutedStyle.Render("Not fasting."))
	}
	fmt.Fprintln(w)

	if len(rec.History) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(rec.History))
	for _, l := range rec.History {
		status := "broken"
		if l.Completed {
			status = "completed"
		}
		rows = append(rows, []string{
			l.StartTime.Format("Jan 02 15:04"),
			formatDuration(l.EndTime.Sub(l.StartTime).Truncate(time.Minute)),
			fmt.Sprintf("%gh", l.TargetHours),
			status,
		})
	}
	fmt.Fprint(w, renderTable(table{
		Title:   fmt.Sprintf("History · %d completed", fasting.CompletedCount(rec)),
		Headers: []string{"Started", "Lasted", "Target", "Status"},
		Rows:    rows,
	}))
	return nil
}
