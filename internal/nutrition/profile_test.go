package nutrition

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"lg/calorix-api/internal/store"
)

func ptr[T any](v T) *T { return &v }

func TestApply_MergesOntoDefault(t *testing.T) {
	p, err := DefaultProfile().Apply(ProfilePatch{
		Name:     ptr("Ana"),
		Sex:      ptr(SexFemale),
		WeightKG: ptr(62.0),
	})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if p.Name != "Ana" || p.Sex != SexFemale || p.WeightKG != 62 {
		t.Errorf("patched fields not applied: %+v", p)
	}
	// Untouched fields keep the canonical default.
	if p.HeightCM != 170 || p.Age != 30 || p.Goal != GoalMaintain {
		t.Errorf("defaults lost: %+v", p)
	}
	if len(p.MealCategories) != len(DefaultMealCategories) {
		t.Errorf("meal categories = %d, want %d", len(p.MealCategories), len(DefaultMealCategories))
	}
	if p.Goals.Calories != ComputeGoals(p).Calories {
		t.Errorf("goals not recomputed after physiological change")
	}
}

func TestApply_OverrideSurvivesNameChange(t *testing.T) {
	manual := NutritionalGoals{Calories: 1800, ProteinG: 150, CarbsG: 150, FatG: 60, WaterML: 2500}
	p := DefaultProfile().OverrideGoals(manual)

	p, err := p.Apply(ProfilePatch{Name: ptr("Bruno")})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !p.GoalsOverridden || p.Goals.Calories != 1800 {
		t.Errorf("override lost on non-physiological patch: %+v", p.Goals)
	}
}

func TestApply_OverrideClearedOnWeightChange(t *testing.T) {
	p := DefaultProfile().OverrideGoals(NutritionalGoals{Calories: 1800})

	p, err := p.Apply(ProfilePatch{WeightKG: ptr(75.0)})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if p.GoalsOverridden {
		t.Error("override should be cleared when weight changes")
	}
	if want := ComputeGoals(p); p.Goals.Calories != want.Calories {
		t.Errorf("calories = %d, want recomputed %d", p.Goals.Calories, want.Calories)
	}
}

func TestApply_SameValueKeepsOverride(t *testing.T) {
	p := DefaultProfile().OverrideGoals(NutritionalGoals{Calories: 1800})

	p, err := p.Apply(ProfilePatch{WeightKG: ptr(p.WeightKG)})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !p.GoalsOverridden {
		t.Error("re-sending an unchanged weight should not clear the override")
	}
}

func TestApply_Validation(t *testing.T) {
	cases := []struct {
		name  string
		patch ProfilePatch
	}{
		{"unknown sex", ProfilePatch{Sex: ptr(Sex("robot"))}},
		{"unknown goal", ProfilePatch{Goal: ptr(GoalType("bulk"))}},
		{"negative age", ProfilePatch{Age: ptr(-1)}},
		{"zero weight", ProfilePatch{WeightKG: ptr(0.0)}},
		{"NaN height", ProfilePatch{HeightCM: ptr(math.NaN())}},
		{"unknown activity", ProfilePatch{ActivityLevel: ptr(1.3)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			before := DefaultProfile()
			after, err := before.Apply(tc.patch)
			if !errors.Is(err, ErrInvalidProfile) {
				t.Fatalf("err = %v, want ErrInvalidProfile", err)
			}
			if after.WeightKG != before.WeightKG || after.Sex != before.Sex {
				t.Error("rejected patch must not change the profile")
			}
		})
	}
}

func TestResetGoals(t *testing.T) {
	p := DefaultProfile().OverrideGoals(NutritionalGoals{Calories: 1})
	p = p.ResetGoals()
	if p.GoalsOverridden || p.Goals.Calories != ComputeGoals(p).Calories {
		t.Errorf("ResetGoals did not re-derive: %+v", p.Goals)
	}
}

func TestOverrideGoals_Micronutrients(t *testing.T) {
	base := DefaultProfile()
	want := base.Goals.Micronutrients[MicroIron]

	kept := base.OverrideGoals(NutritionalGoals{Calories: 1800})
	if len(kept.Goals.Micronutrients) != len(base.Goals.Micronutrients) || kept.Goals.Micronutrients[MicroIron] != want {
		t.Errorf("omitted map should keep targets: got %v", kept.Goals.Micronutrients)
	}
	kept.Goals.Micronutrients[MicroIron] = -1
	if base.Goals.Micronutrients[MicroIron] != want {
		t.Error("override shares its micronutrient map with the previous goals")
	}

	replaced := base.OverrideGoals(NutritionalGoals{Calories: 1800, Micronutrients: map[string]int{MicroFiber: 40}})
	if len(replaced.Goals.Micronutrients) != 1 || replaced.Goals.Micronutrients[MicroFiber] != 40 {
		t.Errorf("explicit map should replace targets: got %v", replaced.Goals.Micronutrients)
	}
}

func TestOverrideGoals_ClampsNegatives(t *testing.T) {
	p := DefaultProfile().OverrideGoals(NutritionalGoals{Calories: -5, CarbsG: -10})
	if p.Goals.Calories != 0 || p.Goals.CarbsG != 0 {
		t.Errorf("negative override not clamped: %+v", p.Goals)
	}
}

/* ─── Daily log shape ────────────────────────────────────────────────── */

func TestNewDailyLog_HasEverySlot(t *testing.T) {
	l := NewDailyLog(DefaultMealCategories)
	if len(l.Meals) != 4 {
		t.Fatalf("meals = %d, want 4", len(l.Meals))
	}
	for i, m := range l.Meals {
		if m.Name != DefaultMealCategories[i].Name || len(m.Items) != 0 {
			t.Errorf("slot %d = %+v", i, m)
		}
	}
	if l.WaterIntakeML != 0 || len(l.Workouts) != 0 {
		t.Errorf("new log not empty: %+v", l)
	}
}

func TestWithSlots_AddsMissingKeepsItems(t *testing.T) {
	old := DailyLog{Meals: []Meal{
		{Name: "Dinner", Items: []Food{{ID: "a", Calories: 500}}},
		{Name: "Brunch", Items: []Food{{ID: "b", Calories: 300}}},
		{Name: "Elevenses", Items: []Food{}},
	}}
	got := old.WithSlots(DefaultMealCategories)

	names := make([]string, len(got.Meals))
	for i, m := range got.Meals {
		names[i] = m.Name
	}
	want := []string{"Breakfast", "Lunch", "Dinner", "Snack", "Brunch"}
	if len(names) != len(want) {
		t.Fatalf("slots = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("slots = %v, want %v", names, want)
		}
	}
	if got.Meals[2].Items[0].ID != "a" {
		t.Error("existing items lost")
	}
}

func TestClone_DoesNotAlias(t *testing.T) {
	l := NewDailyLog(nil)
	c := l.Clone()
	c.Meals[0].Items = append(c.Meals[0].Items, Food{ID: "x"})
	if len(l.Meals[0].Items) != 0 {
		t.Error("clone shares item slices with the original")
	}
}

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2026-02-30"); err == nil {
		t.Error("expected error for impossible date")
	}
	d, err := ParseDate("2026-10-19")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if DateKey(d) != "2026-10-19" || d.Location() != time.Local {
		t.Errorf("round trip = %s (%v)", DateKey(d), d.Location())
	}
}

func TestNormalizeCategory(t *testing.T) {
	cases := map[FoodCategory]FoodCategory{
		"fruits":     CategoryFruits,
		" Dairy ":    CategoryDairy,
		"verduras":   CategoryGreens,
		"laticínios": CategoryDairy,
		"":           CategoryOther,
		"snacks":     CategoryOther,
	}
	for in, want := range cases {
		if got := NormalizeCategory(in); got != want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRepository_LoadDefaultsThenUpdate(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(store.NewMemory())

	p, err := repo.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Goals.Calories != DefaultProfile().Goals.Calories || len(p.MealCategories) != len(DefaultMealCategories) {
		t.Errorf("Load without record = %+v, want defaults", p.Goals)
	}

	next, err := repo.Update(ctx, "u1", func(p Profile) (Profile, error) {
		return p.Apply(ProfilePatch{WeightKG: ptr(90.0)})
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, _ := repo.Load(ctx, "u1")
	if got.WeightKG != 90 || got.Goals.Calories != next.Goals.Calories {
		t.Errorf("stored profile = %+v", got)
	}

	_, err = repo.Update(ctx, "u1", func(p Profile) (Profile, error) {
		return p.Apply(ProfilePatch{Age: ptr(-1)})
	})
	if !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("invalid patch: err = %v", err)
	}
	if got, _ := repo.Load(ctx, "u1"); got.Age != 30 {
		t.Errorf("failed update changed the record: age = %d", got.Age)
	}
}
