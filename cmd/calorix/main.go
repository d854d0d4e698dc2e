// Command calorix is a terminal client for the same store the API serves:
// goals, the daily log, fasting and challenges.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lg/calorix-api/internal/challenge"
	"lg/calorix-api/internal/clock"
	"lg/calorix-api/internal/config"
	"lg/calorix-api/internal/fasting"
	"lg/calorix-api/internal/ledger"
	"lg/calorix-api/internal/nutrition"
	"lg/calorix-api/internal/store"
)

var flagUser string

var rootCmd = &cobra.Command{
	Use:   "calorix",
	Short: "Nutrition goals, daily log and fasting from the terminal",
	Long: `calorix reads and writes the same records as calorix-api.
Run a subcommand for goals, the daily log, fasting or challenges.`,
	SilenceUsage: true,
}

func init() {
	user := os.Getenv("CALORIX_USER")
	if user == "" {
		user = "local"
	}
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", user, "user id to act as (env CALORIX_USER)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the repositories every subcommand works against.
type app struct {
	store        store.Store
	clock        clock.Clock
	uid          string
	profiles     *nutrition.Repository
	logs         *ledger.Repository
	fasts        *fasting.Repository
	achievements *challenge.Repository
}

func newApp(s store.Store, clk clock.Clock, uid string) *app {
	return &app{
		store:        s,
		clock:        clk,
		uid:          uid,
		profiles:     nutrition.NewRepository(s),
		logs:         ledger.NewRepository(s),
		fasts:        fasting.NewRepository(s),
		achievements: challenge.NewRepository(s),
	}
}

// openApp opens the configured store for the --user flag.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	s, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DBURL, cfg.Store.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Driver, err)
	}
	return newApp(s, clock.Real{}, flagUser), nil
}

// withApp adapts an app method to a cobra RunE, opening and closing the store
// around it.
func withApp(run func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.store.Close()
		return run(ctx, a, cmd, args)
	}
}

// award credits the points for action. A failure only warns; the write that
// earned them has already happened.
func (a *app) award(ctx context.Context, action ledger.Action) int {
	n := ledger.Points[action]
	if _, err := a.achievements.AddPoints(ctx, a.uid, n); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not award points: %v\n", err)
		return 0
	}
	return n
}
