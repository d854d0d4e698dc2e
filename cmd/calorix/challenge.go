package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"lg/calorix-api/internal/challenge"
)

var challengeCmd = &cobra.Command{
	Use:     "challenge",
	Aliases: []string{"ch"},
	Short:   "List, select and claim challenges",
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
		return a.listChallenges(ctx, cmd.OutOrStdout())
	}),
}

var challengeSelectCmd = &cobra.Command{
	Use:   "select <id>",
	Short: "Make a challenge the active one",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		return a.selectChallenge(ctx, cmd.OutOrStdout(), args[0])
	}),
}

var challengeProgressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Score the active challenge over its window",
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
		return a.challengeProgress(ctx, cmd.OutOrStdout())
	}),
}

var challengeClaimCmd = &cobra.Command{
	Use:   "claim",
	Short: "Claim the medal the active challenge has earned",
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
		return a.claimChallenge(ctx, cmd.OutOrStdout())
	}),
}

func init() {
	challengeCmd.AddCommand(challengeSelectCmd, challengeProgressCmd, challengeClaimCmd)
	rootCmd.AddCommand(challengeCmd)
}

// challengeInput gathers logs, fasting history and the calorie goal.
func (a *app) challengeInput(ctx context.Context) (challenge.Input, error) {
	p, err := a.profiles.Load(ctx, a.uid)
	if err != nil {
		return challenge.Input{}, err
	}
	logs, err := a.logs.All(ctx, a.uid)
	if err != nil {
		return challenge.Input{}, err
	}
	rec, err := a.fasts.Load(ctx, a.uid)
	if err != nil {
		return challenge.Input{}, err
	}
	return challenge.Input{Logs: logs, Fasts: rec.History, CalorieGoal: p.Goals.Calories, Today: a.clock.Now()}, nil
}

func (a *app) listChallenges(ctx context.Context, w io.Writer) error {
	ach, err := a.achievements.Load(ctx, a.uid)
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTitle(fmt.Sprintf("Challenges · %d pts", ach.Points)))
	fmt.Fprintln(w)

	rows := [][]string{}
	for _, c := range ach.All() {
		status := ""
		switch {
		case c.ID == ach.ActiveChallengeID:
			status = "active"
		case ach.Completed(c.ID):
			status = "done"
		}
		rows = append(rows, []string{c.ID, c.Title, fmt.Sprintf("%dd", c.DaysToComplete), status})
	}
	fmt.Fprint(w, renderTable(table{Headers: []string{"ID", "Challenge", "Days", "Status"}, Rows: rows}))
	fmt.Fprintf(w, "\n  %s  🥇 %d  🥈 %d  🥉 %d\n", mutedStyle.Render("Medals"),
		ach.Medals.Gold, ach.Medals.Silver, ach.Medals.Bronze)
	if len(ach.Badges) > 0 {
		fmt.Fprintf(w, "  %s  %s\n", mutedStyle.Render("Badges"), strings.Join(ach.Badges, ", "))
	}
	return nil
}

func (a *app) selectChallenge(ctx context.Context, w io.Writer, id string) error {
	ach, err := a.achievements.Update(ctx, a.uid, func(ach challenge.Achievements) (challenge.Achievements, error) {
		return ach.Select(id)
	})
	if err != nil {
		return err
	}
	c, _ := ach.Active()
	fmt.Fprintf(w, "  %s %s: %s\n", goodStyle.Render("Selected"), headerStyle.Render(c.Title), c.Description)
	return nil
}

func (a *app) challengeProgress(ctx context.Context, w io.Writer) error {
	ach, err := a.achievements.Load(ctx, a.uid)
	if err != nil {
		return err
	}
	c, ok := ach.Active()
	if !ok {
		return challenge.ErrNoActiveChallenge
	}
	in, err := a.challengeInput(ctx)
	if err != nil {
		return err
	}
	printProgress(w, c, challenge.ComputeProgress(c, in))
	return nil
}

func (a *app) claimChallenge(ctx context.Context, w io.Writer) error {
	in, err := a.challengeInput(ctx)
	if err != nil {
		return err
	}
	var p challenge.Progress
	_, err = a.achievements.Update(ctx, a.uid, func(ach challenge.Achievements) (challenge.Achievements, error) {
		next, prog, err := ach.Claim(in)
		p = prog
		return next, err
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  %s %s medal for %s (%d/%d days)\n", goodStyle.Render("Claimed"),
		headerStyle.Render(string(p.Tier)), p.ChallengeID, p.SuccessDays, p.TotalDays)
	return nil
}

func printProgress(w io.Writer, c challenge.Challenge, p challenge.Progress) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTitle(c.Title))
	fmt.Fprintln(w)

	var marks strings.Builder
	for _, d := range p.Days {
		switch {
		case d.Success:
			marks.WriteString(goodStyle.Render("●"))
		case d.Logged:
			marks.WriteString(badStyle.Render("○"))
		default:
			marks.WriteString(dimStyle.Render("·"))
		}
		marks.WriteString(" ")
	}
	fmt.Fprintf(w, "  %s\n", marks.String())
	fmt.Fprintf(w, "  %s %s\n", progressBar(p.Percent, 30),
		valueStyle.Render(fmt.Sprintf("%d/%d days", p.SuccessDays, p.TotalDays)))
	fmt.Fprintf(w, "  %s %s\n", mutedStyle.Render("Medal if claimed now:"), headerStyle.Render(string(p.Tier)))
}
