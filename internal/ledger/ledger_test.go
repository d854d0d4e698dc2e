package ledger

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"lg/calorix-api/internal/nutrition"
	"lg/calorix-api/internal/store"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

func mustAddFood(t *testing.T, l nutrition.DailyLog, meal string, f nutrition.Food) nutrition.DailyLog {
	t.Helper()
	out, err := AddFood(l, meal, f, now)
	if err != nil {
		t.Fatalf("AddFood: %v", err)
	}
	return out
}

/* ─── Aggregate / Summarize ──────────────────────────────────────────── */

func TestAggregate_EmptyLog(t *testing.T) {
	got := Aggregate(nutrition.NewDailyLog(nil))
	want := Totals{Micronutrients: map[string]float64{}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Aggregate(empty) = %+v, want %+v", got, want)
	}
}

// TestAggregate_SparseMicronutrients checks only keys present on some item
// appear in the total.
func TestAggregate_SparseMicronutrients(t *testing.T) {
	l := nutrition.NewDailyLog(nil)
	l = mustAddFood(t, l, "Breakfast", nutrition.Food{Name: "Oats", Calories: 150, CarbsG: 27,
		Micronutrients: map[string]float64{nutrition.MicroFiber: 4}})
	l = mustAddFood(t, l, "Lunch", nutrition.Food{Name: "Orange", Calories: 60,
		Micronutrients: map[string]float64{nutrition.MicroFiber: 3, nutrition.MicroVitaminC: 70}})
	l = mustAddFood(t, l, "Dinner", nutrition.Food{Name: "Rice", Calories: 200})

	got := Aggregate(l)
	want := map[string]float64{nutrition.MicroFiber: 7, nutrition.MicroVitaminC: 70}
	if !reflect.DeepEqual(got.Micronutrients, want) {
		t.Errorf("micronutrients = %v, want %v", got.Micronutrients, want)
	}
	if got.Calories != 410 || got.CarbsG != 27 {
		t.Errorf("calories/carbs = %v/%v, want 410/27", got.Calories, got.CarbsG)
	}
}

func TestSummarize_NetAndRemaining(t *testing.T) {
	l := nutrition.NewDailyLog(nil)
	l = mustAddFood(t, l, "Lunch", nutrition.Food{Name: "Plate", Calories: 1500})
	l, _ = AddWorkout(l, nutrition.Workout{Name: "Run", CaloriesBurned: 300}, now)

	s := Summarize(l, nutrition.NutritionalGoals{Calories: 2000, WaterML: 2000})
	if s.Net != 1200 || s.Remaining != 800 {
		t.Errorf("net/remaining = %d/%d, want 1200/800", s.Net, s.Remaining)
	}
	if s.WaterRemainingML != 2000 || !s.HasData {
		t.Errorf("water remaining = %d hasData = %v", s.WaterRemainingML, s.HasData)
	}
}

func TestSummarize_OverBudgetIsNegative(t *testing.T) {
	l := mustAddFood(t, nutrition.NewDailyLog(nil), "Snack", nutrition.Food{Name: "Cake", Calories: 2500})
	if s := Summarize(l, nutrition.NutritionalGoals{Calories: 2000}); s.Remaining != -500 {
		t.Errorf("remaining = %d, want -500", s.Remaining)
	}
}

func TestSummarizeRange_MarksGaps(t *testing.T) {
	start := time.Date(2026, 3, 9, 0, 0, 0, 0, time.Local)
	logs := map[string]nutrition.DailyLog{
		"2026-03-10": mustAddFood(t, nutrition.NewDailyLog(nil), "Lunch", nutrition.Food{Name: "Soup", Calories: 300}),
	}
	days := SummarizeRange(logs, nutrition.NutritionalGoals{Calories: 2000}, start, start.AddDate(0, 0, 6))
	if len(days) != 7 {
		t.Fatalf("days = %d, want 7", len(days))
	}
	if days[0].Date != "2026-03-09" || days[0].HasData {
		t.Errorf("day 0 = %s hasData=%v", days[0].Date, days[0].HasData)
	}
	if !days[1].HasData || days[1].Intake != 300 {
		t.Errorf("day 1 = %+v", days[1])
	}
}

func TestMonday(t *testing.T) {
	cases := map[string]string{
		"2026-03-09": "2026-03-09", // Monday
		"2026-03-12": "2026-03-09",
		"2026-03-15": "2026-03-09", // Sunday
	}
	for in, want := range cases {
		d, _ := nutrition.ParseDate(in)
		if got := nutrition.DateKey(Monday(d)); got != want {
			t.Errorf("Monday(%s) = %s, want %s", in, got, want)
		}
	}
}

/* ─── Mutations ──────────────────────────────────────────────────────── */

func TestAddFood_UnknownMeal(t *testing.T) {
	l := nutrition.NewDailyLog(nil)
	_, err := AddFood(l, "Supper", nutrition.Food{Name: "x"}, now)
	if !errors.Is(err, ErrMealNotFound) {
		t.Errorf("err = %v, want ErrMealNotFound", err)
	}
}

func TestAddFood_DoesNotMutateInput(t *testing.T) {
	l := nutrition.NewDailyLog(nil)
	next := mustAddFood(t, l, "breakfast", nutrition.Food{Name: "Egg", Calories: 70})
	if l.ItemCount() != 0 {
		t.Error("input log was mutated")
	}
	f := next.Meals[0].Items[0]
	if f.ID == "" || !f.CreatedAt.Equal(now) || f.Category != nutrition.CategoryOther {
		t.Errorf("added item not stamped: %+v", f)
	}
}

func TestEditFood_KeepsIdentity(t *testing.T) {
	l := mustAddFood(t, nutrition.NewDailyLog(nil), "Lunch", nutrition.Food{Name: "Pasta", Calories: 400})
	id := l.Meals[1].Items[0].ID

	next, err := EditFood(l, id, nutrition.Food{ID: "other", Name: "Pasta", Calories: 550})
	if err != nil {
		t.Fatalf("EditFood: %v", err)
	}
	got := next.Meals[1].Items[0]
	if got.ID != id || got.Calories != 550 || !got.CreatedAt.Equal(now) {
		t.Errorf("edited item = %+v", got)
	}
	if l.Meals[1].Items[0].Calories != 400 {
		t.Error("input log was mutated")
	}
}

func TestRemoveFood(t *testing.T) {
	l := mustAddFood(t, nutrition.NewDailyLog(nil), "Dinner", nutrition.Food{Name: "A"})
	l = mustAddFood(t, l, "Dinner", nutrition.Food{Name: "B"})
	first := l.Meals[2].Items[0].ID

	next, err := RemoveFood(l, first)
	if err != nil {
		t.Fatalf("RemoveFood: %v", err)
	}
	if len(next.Meals[2].Items) != 1 || next.Meals[2].Items[0].Name != "B" {
		t.Errorf("dinner = %+v", next.Meals[2].Items)
	}
	if len(l.Meals[2].Items) != 2 || l.Meals[2].Items[1].Name != "B" {
		t.Error("input log was mutated")
	}
	if _, err := RemoveFood(next, first); !errors.Is(err, ErrFoodNotFound) {
		t.Errorf("second remove err = %v, want ErrFoodNotFound", err)
	}
}

func TestRemoveWorkout(t *testing.T) {
	l, _ := AddWorkout(nutrition.NewDailyLog(nil), nutrition.Workout{Name: "Swim", CaloriesBurned: 400}, now)
	next, err := RemoveWorkout(l, l.Workouts[0].ID)
	if err != nil || len(next.Workouts) != 0 {
		t.Errorf("RemoveWorkout = %+v, %v", next.Workouts, err)
	}
	if _, err := RemoveWorkout(next, "missing"); !errors.Is(err, ErrWorkoutNotFound) {
		t.Errorf("err = %v, want ErrWorkoutNotFound", err)
	}
}

func TestWater_ClampsAtZero(t *testing.T) {
	l := SetWater(nutrition.NewDailyLog(nil), 500)
	if got := AddWater(l, -800).WaterIntakeML; got != 0 {
		t.Errorf("water = %d, want 0", got)
	}
	if got := AddWater(l, GlassML).WaterIntakeML; got != 750 {
		t.Errorf("water = %d, want 750", got)
	}
}

/* ─── Rewards ────────────────────────────────────────────────────────── */

func TestGlasses(t *testing.T) {
	cases := []struct{ prev, next, want int }{
		{1000, 1600, 2},
		{0, 249, 0},
		{0, 250, 1},
		{1600, 1000, 0},
	}
	for _, tc := range cases {
		if got := Glasses(tc.prev, tc.next); got != tc.want {
			t.Errorf("Glasses(%d, %d) = %d, want %d", tc.prev, tc.next, got, tc.want)
		}
	}
}

func TestRewards_DiffOfExistingLog(t *testing.T) {
	prev := SetWater(nutrition.NewDailyLog(nil), 1000)
	next := SetWater(prev, 1600)
	next = mustAddFood(t, next, "Lunch", nutrition.Food{Name: "Salad"})
	next, _ = AddWorkout(next, nutrition.Workout{Name: "Bike"}, now)

	rs := Rewards(Change{Existed: true, Prev: prev, Next: next})
	if len(rs) != 3 {
		t.Fatalf("rewards = %+v, want 3", rs)
	}
	if Total(rs) != 10+2*2+50 {
		t.Errorf("total = %d, want 64", Total(rs))
	}
}

func TestRewards_FirstWriteEarnsNothing(t *testing.T) {
	next := mustAddFood(t, nutrition.NewDailyLog(nil), "Lunch", nutrition.Food{Name: "Salad"})
	if rs := Rewards(Change{Existed: false, Prev: nutrition.NewDailyLog(nil), Next: next}); len(rs) != 0 {
		t.Errorf("rewards = %+v, want none", rs)
	}
}

/* ─── Repository ─────────────────────────────────────────────────────── */

func TestRepository_SynthesizesMissingDay(t *testing.T) {
	repo := NewRepository(store.NewMemory())
	cats := []nutrition.MealCategory{{ID: "1", Name: "Morning"}, {ID: "2", Name: "Evening"}}

	l, ok, err := repo.Day(context.Background(), "u1", "2026-03-10", cats)
	if err != nil {
		t.Fatalf("Day: %v", err)
	}
	if ok || len(l.Meals) != 2 || l.Meals[0].Name != "Morning" || l.WaterIntakeML != 0 {
		t.Errorf("synthesized log = %+v ok=%v", l, ok)
	}
}

func TestRepository_UpdateReplacesWholeRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(store.NewMemory())

	c, err := repo.Update(ctx, "u1", "2026-03-10", nil, func(l nutrition.DailyLog) (nutrition.DailyLog, error) {
		return SetWater(l, 500), nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if c.Existed {
		t.Error("first update should report Existed=false")
	}

	c, err = repo.Update(ctx, "u1", "2026-03-10", nil, func(l nutrition.DailyLog) (nutrition.DailyLog, error) {
		return AddWater(l, 600), nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !c.Existed || c.Prev.WaterIntakeML != 500 || c.Next.WaterIntakeML != 1100 {
		t.Errorf("change = %+v", c)
	}

	all, _ := repo.All(ctx, "u1")
	if len(all) != 1 || all["2026-03-10"].WaterIntakeML != 1100 {
		t.Errorf("stored logs = %+v", all)
	}
}

func TestRepository_FailedMutationLeavesRecord(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(store.NewMemory())
	_, err := repo.Update(ctx, "u1", "2026-03-10", nil, func(l nutrition.DailyLog) (nutrition.DailyLog, error) {
		return RemoveFood(l, "nope")
	})
	if !errors.Is(err, ErrFoodNotFound) {
		t.Fatalf("err = %v, want ErrFoodNotFound", err)
	}
	if all, _ := repo.All(ctx, "u1"); len(all) != 0 {
		t.Errorf("failed update wrote %+v", all)
	}
}

func TestRepository_RejectsBadDate(t *testing.T) {
	repo := NewRepository(store.NewMemory())
	_, err := repo.Update(context.Background(), "u1", "10/03/2026", nil, func(l nutrition.DailyLog) (nutrition.DailyLog, error) {
		return l, nil
	})
	if err == nil {
		t.Error("expected error for malformed date")
	}
}
