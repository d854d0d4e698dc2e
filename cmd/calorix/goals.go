package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"lg/calorix-api/internal/nutrition"
)

var (
	flagName     string
	flagSex      string
	flagAge      int
	flagWeight   float64
	flagHeight   float64
	flagActivity string
	flagGoal     string
	flagCalories int
	flagReset    bool
)

var goalsCmd = &cobra.Command{
	Use:   "goals",
	Short: "Show or update your profile and daily goals",
	Long: `Without flags, prints the profile and the daily goals derived from it.
Profile flags recompute the goals; --calories pins a manual calorie target
until --reset or the next change to weight, height, age, sex, activity or goal.`,
	RunE: withApp(func(ctx context.Context, a *app, cmd *cobra.Command, _ []string) error {
		patch, err := goalsPatch(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("calories") {
			return a.overrideCalories(ctx, cmd.OutOrStdout(), flagCalories)
		}
		if flagReset {
			return a.resetGoals(ctx, cmd.OutOrStdout())
		}
		return a.goals(ctx, cmd.OutOrStdout(), patch)
	}),
}

func init() {
	f := goalsCmd.Flags()
	f.StringVar(&flagName, "name", "", "display name")
	f.StringVar(&flagSex, "sex", "", "male, female or other")
	f.IntVar(&flagAge, "age", 0, "age in years")
	f.Float64Var(&flagWeight, "weight", 0, "weight in kg")
	f.Float64Var(&flagHeight, "height", 0, "height in cm")
	f.StringVar(&flagActivity, "activity", "", "sedentary, light, moderate, active, very_active or a multiplier")
	f.StringVar(&flagGoal, "goal", "", "lose, maintain or gain")
	f.IntVar(&flagCalories, "calories", 0, "override the daily calorie target")
	f.BoolVar(&flagReset, "reset", false, "drop a manual override and recompute goals")
	rootCmd.AddCommand(goalsCmd)
}

// goalsPatch builds a patch from the flags the user actually set.
func goalsPatch(cmd *cobra.Command) (nutrition.ProfilePatch, error) {
	var pp nutrition.ProfilePatch
	f := cmd.Flags()
	if f.Changed("name") {
		pp.Name = &flagName
	}
	if f.Changed("sex") {
		sex := nutrition.Sex(flagSex)
		pp.Sex = &sex
	}
	if f.Changed("age") {
		pp.Age = &flagAge
	}
	if f.Changed("weight") {
		pp.WeightKG = &flagWeight
	}
	if f.Changed("height") {
		pp.HeightCM = &flagHeight
	}
	if f.Changed("activity") {
		m, err := parseActivity(flagActivity)
		if err != nil {
			return pp, err
		}
		pp.ActivityLevel = &m
	}
	if f.Changed("goal") {
		goal := nutrition.GoalType(flagGoal)
		pp.Goal = &goal
	}
	return pp, nil
}

// parseActivity accepts a level name or its multiplier.
func parseActivity(s string) (float64, error) {
	if m, ok := nutrition.ActivityMultipliers[s]; ok {
		return m, nil
	}
	m, err := strconv.ParseFloat(s, 64)
	if err != nil || !nutrition.ValidActivityLevel(m) {
		return 0, fmt.Errorf("unknown activity level %q", s)
	}
	return m, nil
}

func (a *app) goals(ctx context.Context, w io.Writer, patch nutrition.ProfilePatch) error {
	var (
		p   nutrition.Profile
		err error
	)
	if patch.Empty() {
		p, err = a.profiles.Load(ctx, a.uid)
	} else {
		p, err = a.profiles.Update(ctx, a.uid, func(cur nutrition.Profile) (nutrition.Profile, error) {
			return cur.Apply(patch)
		})
	}
	if err != nil {
		return err
	}
	printGoals(w, p)
	return nil
}

func (a *app) overrideCalories(ctx context.Context, w io.Writer, kcal int) error {
	if kcal <= 0 {
		return fmt.Errorf("calories must be positive")
	}
	p, err := a.profiles.Update(ctx, a.uid, func(cur nutrition.Profile) (nutrition.Profile, error) {
		g := cur.Goals
		g.Calories = kcal
		return cur.OverrideGoals(g), nil
	})
	if err != nil {
		return err
	}
	printGoals(w, p)
	return nil
}

func (a *app) resetGoals(ctx context.Context, w io.Writer) error {
	p, err := a.profiles.Update(ctx, a.uid, func(cur nutrition.Profile) (nutrition.Profile, error) {
		return cur.ResetGoals(), nil
	})
	if err != nil {
		return err
	}
	printGoals(w, p)
	return nil
}

func printGoals(w io.Writer, p nutrition.Profile) {
	title := "Daily Goals"
	if p.Name != "" {
		title += " · " + p.Name
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderTitle(title))
	fmt.Fprintln(w)

	fmt.Fprint(w, renderTable(table{
		Title:   "Profile",
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Sex", string(p.Sex)},
			{"Age", strconv.Itoa(p.Age)},
			{"Weight", fmt.Sprintf("%.1f kg", p.WeightKG)},
			{"Height", fmt.Sprintf("%.0f cm", p.HeightCM)},
			{"Activity", strconv.FormatFloat(p.ActivityLevel, 'f', -1, 64)},
			{"Goal", string(p.Goal)},
		},
	}))
	fmt.Fprintln(w)

	calories := fmt.Sprintf("%d kcal", p.Goals.Calories)
	if p.GoalsOverridden {
		calories += " (manual)"
	}
	rows := [][]string{
		{"Calories", calories},
		{"Protein", fmt.Sprintf("%d g", p.Goals.ProteinG)},
		{"Carbs", fmt.Sprintf("%d g", p.Goals.CarbsG)},
		{"Fat", fmt.Sprintf("%d g", p.Goals.FatG)},
		{"Water", fmt.Sprintf("%d ml", p.Goals.WaterML)},
	}
	names := make([]string, 0, len(p.Goals.Micronutrients))
	for k := range p.Goals.Micronutrients {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		rows = append(rows, []string{k, strconv.Itoa(p.Goals.Micronutrients[k])})
	}
	fmt.Fprint(w, renderTable(table{Title: "Targets", Headers: []string{"Target", "Per day"}, Rows: rows}))
}
