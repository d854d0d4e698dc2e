package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/spf13/cobra"

	"lg/calorix-api/internal/challenge"
	"lg/calorix-api/internal/ledger"
	"lg/calorix-api/internal/nutrition"
)

var (
	flagDate     string
	flagMeal     string
	flagProtein  float64
	flagCarbs    float64
	flagFat      float64
	flagCategory string
	flagServing  string
)

var dayCmd = &cobra.Command{
	Use:   "day [YYYY-MM-DD]",
	Short: "Show a day's meals, totals and remaining budget",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		date := nutrition.DateKey(a.clock.Now())
		if len(args) == 1 {
			date = args[0]
		}
		return a.day(ctx, cmd.OutOrStdout(), date)
	}),
}

var eatCmd = &cobra.Command{
	Use:   "eat <name> <kcal>",
	Short: "Log a food item to a meal",
	Args:  cobra.ExactArgs(2),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		kcal, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("calories must be a number: %q", args[1])
		}
		f := nutrition.Food{
			Name:        args[0],
			Category:    nutrition.FoodCategory(flagCategory),
			Calories:    kcal,
			ProteinG:    flagProtein,
			CarbsG:      flagCarbs,
			FatG:        flagFat,
			ServingSize: flagServing,
		}
		return a.eat(ctx, cmd.OutOrStdout(), dateOrToday(a), flagMeal, f)
	}),
}

var drinkCmd = &cobra.Command{
	Use:   "drink [ml]",
	Short: "Add water, one glass by default",
	Args:  cobra.MaximumNArgs(1),
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, args []string) error {
		ml := ledger.GlassML
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("ml must be a positive whole number: %q", args[0])
			}
			ml = n
		}
		return a.drink(ctx, cmd.OutOrStdout(), dateOrToday(a), ml)
	}),
}

func init() {
	for _, c := range []*cobra.Command{eatCmd, drinkCmd} {
		c.Flags().StringVar(&flagDate, "date", "", "date to log to (default today)")
	}
	f := eatCmd.Flags()
	f.StringVarP(&flagMeal, "meal", "m", "Snack", "meal slot name")
	f.Float64Var(&flagProtein, "protein", 0, "protein in g")
	f.Float64Var(&flagCarbs, "carbs", 0, "carbs in g")
	f.Float64Var(&flagFat, "fat", 0, "fat in g")
	f.StringVar(&flagCategory, "category", "", "food category")
	f.StringVar(&flagServing, "serving", "", "serving size label")

	rootCmd.AddCommand(dayCmd, eatCmd, drinkCmd)
}

func dateOrToday(a *app) string {
	if flagDate != "" {
		return flagDate
	}
	return nutrition.DateKey(a.clock.Now())
}

func (a *app) day(ctx context.Context, w io.Writer, date string) error {
	if _, err := nutrition.ParseDate(date); err != nil {
		return err
	}
	p, err := a.profiles.Load(ctx, a.uid)
	if err != nil {
		return err
	}
	l, _, err := a.logs.Day(ctx, a.uid, date, p.MealCategories)
	if err != nil {
		return err
	}
	printDay(w, date, l, p.Goals)
	return nil
}

func (a *app) eat(ctx context.Context, w io.Writer, date, meal string, f nutrition.Food) error {
	return a.mutate(ctx, w, date, func(l nutrition.DailyLog) (nutrition.DailyLog, error) {
		return ledger.AddFood(l, meal, f, a.clock.Now())
	})
}

func (a *app) drink(ctx context.Context, w io.Writer, date string, ml int) error {
	return a.mutate(ctx, w, date, func(l nutrition.DailyLog) (nutrition.DailyLog, error) {
		return ledger.AddWater(l, ml), nil
	})
}

// mutate applies fn to the day's log, credits the rewards and badges it
// earned and prints the updated day.
func (a *app) mutate(ctx context.Context, w io.Writer, date string, fn func(nutrition.DailyLog) (nutrition.DailyLog, error)) error {
	p, err := a.profiles.Load(ctx, a.uid)
	if err != nil {
		return err
	}
	change, err := a.logs.Update(ctx, a.uid, date, p.MealCategories, fn)
	if err != nil {
		return err
	}
	printDay(w, date, change.Next, p.Goals)

	rewards := ledger.Rewards(change)
	logs, err := a.logs.All(ctx, a.uid)
	if err != nil {
		return err
	}
	day, err := nutrition.ParseDate(date)
	if err != nil {
		return err
	}
	earned := challenge.EarnedBadges(logs, day)

	var fresh []string
	ach, err := a.achievements.Update(ctx, a.uid, func(ach challenge.Achievements) (challenge.Achievements, error) {
		ach = ach.AddPoints(ledger.Total(rewards))
		ach, fresh = ach.UnlockBadges(earned)
		return ach, nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, r := range rewards {
		fmt.Fprintf(w, "  %s %s\n", goodStyle.Render(fmt.Sprintf("+%d", r.Points)), mutedStyle.Render(string(r.Action)))
	}
	for _, id := range fresh {
		for _, b := range challenge.Badges {
			if b.ID == id {
				fmt.Fprintf(w, "  %s Badge unlocked: %s\n", b.Icon, headerStyle.Render(b.Name))
			}
		}
	}
	fmt.Fprintf(w, "  %s %d\n", mutedStyle.Render("Points:"), ach.Points)
	return nil
}

func printDay(w io.Writer, date string, l nutrition.DailyLog, goals nutrition.NutritionalGoals) {
	s := ledger.Summarize(l, goals)

	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTitle("Calorix · "+date))
	fmt.Fprintln(w)

	var rows [][]string
	for _, m := range l.Meals {
		for _, f := range m.Items {
			rows = append(rows, []string{
				m.Name + " · " + f.Name,
				fmt.Sprintf("%.0f", f.Calories),
				fmt.Sprintf("%.0f", f.ProteinG),
				fmt.Sprintf("%.0f", f.CarbsG),
				fmt.Sprintf("%.0f", f.FatG),
			})
		}
	}
	for _, wo := range l.Workouts {
		rows = append(rows, []string{"Workout · " + wo.Name, fmt.Sprintf("-%.0f", wo.CaloriesBurned), "", "", ""})
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "  "+mutedStyle.Render("Nothing logged yet."))
	} else {
		fmt.Fprint(w, renderTable(table{
			Title:   "Log",
			Headers: []string{"Item", "kcal", "P", "C", "F"},
			Rows:    rows,
		}))
	}
	fmt.Fprintln(w)

	remaining := remainingStyle(s.Remaining, goals.Calories).Render(strconv.Itoa(s.Remaining))
	fmt.Fprintf(w, "  %-12s %s\n", mutedStyle.Render("Goal"), valueStyle.Render(strconv.Itoa(goals.Calories)))
	fmt.Fprintf(w, "  %-12s %s\n", mutedStyle.Render("Eaten"), valueStyle.Render(strconv.Itoa(s.Intake)))
	fmt.Fprintf(w, "  %-12s %s\n", mutedStyle.Render("Burned"), valueStyle.Render(strconv.Itoa(s.Burned)))
	fmt.Fprintf(w, "  %-12s %s\n", mutedStyle.Render("Remaining"), remaining)
	fmt.Fprintf(w, "  %-12s %s %s\n", mutedStyle.Render("Water"),
		valueStyle.Render(fmt.Sprintf("%d / %d ml", s.WaterML, goals.WaterML)),
		progressBar(waterPercent(s.WaterML, goals.WaterML), 20))
}

func waterPercent(ml, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	return math.Min(100, float64(ml)/float64(goal)*100)
}
