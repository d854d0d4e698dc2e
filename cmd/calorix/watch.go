package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"lg/calorix-api/internal/clock"
	"lg/calorix-api/internal/fasting"
)

var fastWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow the running fast with a live countdown",
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
		rec, err := a.fasts.Load(ctx, a.uid)
		if err != nil {
			return err
		}
		if _, ok := rec.Active(); !ok {
			return fasting.ErrNotFasting
		}

		m := newWatchModel(rec, a.clock)
		final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		if !final.(watchModel).done {
			return nil
		}

		// Mark completion so the server watcher does not signal it again.
		if _, err := a.fasts.Update(ctx, a.uid, func(r fasting.Record) (fasting.Record, error) {
			next, _ := fasting.Tick(r, a.clock.Now())
			return next, nil
		}); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), goodStyle.Render("Fast complete!")+" Run `calorix fast stop` to log it.")
		return nil
	}),
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// watchModel is a bubbletea countdown for one running fast.
type watchModel struct {
	rec   fasting.Record
	clock clock.Clock
	bar   progress.Model
	width int
	done  bool
}

func newWatchModel(rec fasting.Record, clk clock.Clock) watchModel {
	bar := progress.New(
		progress.WithSolidFill(string(colorAccent)),
		progress.WithWidth(40),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(colorTextDim)
	return watchModel{rec: rec, clock: clk, bar: bar}
}

func (m watchModel) Init() tea.Cmd {
	return tick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = max(10, min(60, msg.Width-8))
	case tickMsg:
		if fasting.Remaining(m.rec, m.clock.Now()) == 0 {
			m.done = true
			return m, tea.Quit
		}
		return m, tick()
	}
	return m, nil
}

func (m watchModel) View() string {
	now := m.clock.Now()
	act, _ := m.rec.Active()
	p := fasting.ProtocolFor(act.DurationHours)
	pct := fasting.Progress(m.rec, now)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(renderTitle(fmt.Sprintf("%s fast · %gh", p.Name, act.DurationHours)))
	b.WriteString("\n\n  ")
	b.WriteString(m.bar.ViewAs(pct / 100))
	b.WriteString(" " + valueStyle.Render(fmt.Sprintf("%.0f%%", pct)))
	b.WriteString("\n\n  ")
	b.WriteString(mutedStyle.Render("Remaining "))
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorText).Render(formatDuration(fasting.Remaining(m.rec, now))))
	b.WriteString("\n  ")
	b.WriteString(mutedStyle.Render("Ends      "))
	b.WriteString(valueStyle.Render(act.EndTime.Format("Mon 15:04")))
	b.WriteString("\n\n  ")
	b.WriteString(dimStyle.Render("q to quit"))
	b.WriteString("\n")
	return b.String()
}
