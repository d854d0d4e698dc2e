package challenge

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"lg/calorix-api/internal/fasting"
	"lg/calorix-api/internal/nutrition"
	"lg/calorix-api/internal/store"
)

var today = time.Date(2026, 5, 20, 18, 0, 0, 0, time.Local)

func dayKey(offset int) string {
	return nutrition.DateKey(today.AddDate(0, 0, -offset))
}

// waterLogs returns logs for the last n days (ending today) where the first
// hits days reach ml and the rest fall short.
func waterLogs(n, hits, ml int) map[string]nutrition.DailyLog {
	logs := map[string]nutrition.DailyLog{}
	for i := 0; i < n; i++ {
		l := nutrition.NewDailyLog(nil)
		l.WaterIntakeML = 100
		if i < hits {
			l.WaterIntakeML = ml
		}
		logs[dayKey(i)] = l
	}
	return logs
}

func food(cal float64) nutrition.Food {
	return nutrition.Food{ID: "f", Name: "x", Calories: cal}
}

/* ─── Tiers ──────────────────────────────────────────────────────────── */

func TestResolveTier(t *testing.T) {
	cases := []struct {
		success, total int
		want           Tier
	}{
		{7, 7, TierGold},
		{6, 7, TierSilver},
		{4, 7, TierBronze},
		{2, 7, TierNone},
		{4, 5, TierSilver},
		{0, 0, TierNone},
	}
	for _, tc := range cases {
		if got := ResolveTier(tc.success, tc.total); got != tc.want {
			t.Errorf("ResolveTier(%d, %d) = %s, want %s", tc.success, tc.total, got, tc.want)
		}
	}
}

/* ─── Progress ───────────────────────────────────────────────────────── */

func TestWindow(t *testing.T) {
	w := Window(today, 3)
	if len(w) != 3 || w[0] != "2026-05-18" || w[2] != "2026-05-20" {
		t.Errorf("Window = %v", w)
	}
}

func TestComputeProgress_WaterTiers(t *testing.T) {
	h2o, _ := NewAchievements().Find("h2o_hero")
	cases := []struct {
		hits int
		want Tier
	}{
		{7, TierGold},
		{6, TierSilver},
		{4, TierBronze},
		{2, TierNone},
	}
	for _, tc := range cases {
		p := ComputeProgress(h2o, Input{Logs: waterLogs(7, tc.hits, 2500), Today: today})
		if p.SuccessDays != tc.hits || p.Tier != tc.want {
			t.Errorf("%d hits: success=%d tier=%s, want %s", tc.hits, p.SuccessDays, p.Tier, tc.want)
		}
	}
}

func TestComputeProgress_MissingDaysDoNotCount(t *testing.T) {
	h2o, _ := NewAchievements().Find("h2o_hero")
	logs := waterLogs(7, 7, 3000)
	delete(logs, dayKey(3))
	logs["2026-01-01"] = logs[dayKey(0)] // outside the window

	p := ComputeProgress(h2o, Input{Logs: logs, Today: today})
	if p.SuccessDays != 6 || p.Days[3].Logged {
		t.Errorf("progress = %+v", p)
	}
}

func TestComputeProgress_Workout(t *testing.T) {
	ch := Challenge{ID: "w", Type: TypeWorkout, TargetValue: 300, DaysToComplete: 2}
	l := nutrition.NewDailyLog(nil)
	l.Workouts = []nutrition.Workout{{CaloriesBurned: 200}, {CaloriesBurned: 150}}
	short := nutrition.NewDailyLog(nil)
	short.Workouts = []nutrition.Workout{{CaloriesBurned: 299}}

	p := ComputeProgress(ch, Input{Logs: map[string]nutrition.DailyLog{dayKey(0): l, dayKey(1): short}, Today: today})
	if p.SuccessDays != 1 || !p.Days[1].Success {
		t.Errorf("progress = %+v", p)
	}
}

func TestComputeProgress_CaloriesWithinGoal(t *testing.T) {
	ch := Challenge{ID: "c", Type: TypeCalories, TargetValue: 1, DaysToComplete: 3}
	within := nutrition.NewDailyLog(nil)
	within.Meals[0].Items = []nutrition.Food{food(1800)}
	over := nutrition.NewDailyLog(nil)
	over.Meals[0].Items = []nutrition.Food{food(2100)}
	empty := nutrition.NewDailyLog(nil)

	logs := map[string]nutrition.DailyLog{dayKey(0): within, dayKey(1): over, dayKey(2): empty}
	p := ComputeProgress(ch, Input{Logs: logs, CalorieGoal: 2000, Today: today})
	if p.SuccessDays != 1 {
		t.Errorf("success = %d, want 1 (empty days and over-goal days fail)", p.SuccessDays)
	}
}

// TestComputeProgress_FastingChecksDuration counts only completed fasts that
// reached the target length.
func TestComputeProgress_FastingChecksDuration(t *testing.T) {
	ch, _ := NewAchievements().Find("fasting_fanatic")
	end := func(offset int) time.Time { return today.AddDate(0, 0, -offset).Add(-2 * time.Hour) }
	fasts := []fasting.Log{
		{ID: "a", StartTime: end(0).Add(-16 * time.Hour), EndTime: end(0), TargetHours: 16, Completed: true},
		{ID: "b", StartTime: end(1).Add(-10 * time.Hour), EndTime: end(1), TargetHours: 12, Completed: true},
		{ID: "c", StartTime: end(2).Add(-15 * time.Hour), EndTime: end(2), TargetHours: 16, Completed: false},
	}
	p := ComputeProgress(ch, Input{Fasts: fasts, Today: today})
	if p.SuccessDays != 1 || !p.Days[2].Success {
		t.Errorf("progress = %+v", p)
	}
}

/* ─── Selection and claiming ─────────────────────────────────────────── */

func TestSelect(t *testing.T) {
	a, err := NewAchievements().Select("h2o_hero")
	if err != nil || a.ActiveChallengeID != "h2o_hero" {
		t.Fatalf("Select = %+v, %v", a, err)
	}
	if _, err := a.Select("workout_warrior"); !errors.Is(err, ErrChallengeActive) {
		t.Errorf("switch err = %v, want ErrChallengeActive", err)
	}
	if _, err := a.Select("nope"); !errors.Is(err, ErrUnknownChallenge) {
		t.Errorf("unknown err = %v, want ErrUnknownChallenge", err)
	}
	a, err = a.Abandon()
	if err != nil || a.ActiveChallengeID != "" {
		t.Errorf("Abandon = %+v, %v", a, err)
	}
	if _, err := a.Abandon(); !errors.Is(err, ErrNoActiveChallenge) {
		t.Errorf("second abandon err = %v", err)
	}
}

func TestClaim_GoldThenRejectsRepeat(t *testing.T) {
	a, _ := NewAchievements().Select("h2o_hero")
	in := Input{Logs: waterLogs(7, 7, 2500), Today: today}

	a, p, err := a.Claim(in)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if p.Tier != TierGold || a.Medals.Gold != 1 || a.ActiveChallengeID != "" {
		t.Errorf("after claim: tier=%s achievements=%+v", p.Tier, a)
	}
	if len(a.CompletedChallenges) != 1 || a.CompletedChallenges[0] != "h2o_hero" {
		t.Errorf("completed = %v", a.CompletedChallenges)
	}

	// The completed challenge is filtered from the pool and cannot be re-run.
	for _, c := range a.Available() {
		if c.ID == "h2o_hero" {
			t.Error("completed challenge still available")
		}
	}
	if _, err := a.Select("h2o_hero"); !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("reselect err = %v, want ErrAlreadyCompleted", err)
	}

	// A forged record pointing back at a completed id must not double count.
	forged := a
	forged.ActiveChallengeID = "h2o_hero"
	after, _, err := forged.Claim(in)
	if !errors.Is(err, ErrAlreadyCompleted) || after.Medals.Gold != 1 {
		t.Errorf("double claim: err=%v gold=%d", err, after.Medals.Gold)
	}
}

func TestClaim_NoMedalKeepsChallengeActive(t *testing.T) {
	a, _ := NewAchievements().Select("h2o_hero")
	after, p, err := a.Claim(Input{Logs: waterLogs(7, 2, 2500), Today: today})
	if !errors.Is(err, ErrNoMedal) {
		t.Fatalf("err = %v, want ErrNoMedal", err)
	}
	if p.Tier != TierNone || after.ActiveChallengeID != "h2o_hero" || after.Medals != (Medals{}) {
		t.Errorf("after = %+v", after)
	}
}

func TestClaim_NoActive(t *testing.T) {
	if _, _, err := NewAchievements().Claim(Input{Today: today}); !errors.Is(err, ErrNoActiveChallenge) {
		t.Errorf("err = %v, want ErrNoActiveChallenge", err)
	}
}

func TestCreateCustom(t *testing.T) {
	a, c, err := NewAchievements().CreateCustom(Challenge{
		Title: "Big Water", Type: TypeWater, TargetValue: 3000, DaysToComplete: 10,
	})
	if err != nil {
		t.Fatalf("CreateCustom: %v", err)
	}
	if !strings.HasPrefix(c.ID, "custom-") || !c.IsCustom {
		t.Errorf("custom challenge = %+v", c)
	}
	if _, ok := a.Find(c.ID); !ok {
		t.Error("custom challenge not findable")
	}
	if len(a.All()) != len(Weekly)+1 {
		t.Errorf("all = %d", len(a.All()))
	}

	bad := []Challenge{
		{Type: TypeWater, TargetValue: 1, DaysToComplete: 1},
		{Title: "x", Type: "sleep", TargetValue: 1, DaysToComplete: 1},
		{Title: "x", Type: TypeWater, TargetValue: 0, DaysToComplete: 1},
		{Title: "x", Type: TypeWater, TargetValue: 1, DaysToComplete: 0},
	}
	for _, b := range bad {
		if _, _, err := a.CreateCustom(b); !errors.Is(err, ErrInvalidChallenge) {
			t.Errorf("CreateCustom(%+v) err = %v, want ErrInvalidChallenge", b, err)
		}
	}
}

/* ─── Badges ─────────────────────────────────────────────────────────── */

func TestEarnedBadges(t *testing.T) {
	logs := map[string]nutrition.DailyLog{}
	for i := 0; i < 3; i++ {
		l := nutrition.NewDailyLog(nil)
		l.Meals[1].Items = []nutrition.Food{food(500)}
		logs[dayKey(i)] = l
	}
	l := logs[dayKey(0)]
	l.WaterIntakeML = 2200
	l.Workouts = []nutrition.Workout{{CaloriesBurned: 550}}
	logs[dayKey(0)] = l

	got := EarnedBadges(logs, today)
	want := []string{"water_1", "workout_1", "workout_2", "consistency_1"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("EarnedBadges = %v, want %v", got, want)
	}
}

func TestUnlockBadges_OnlyNew(t *testing.T) {
	a := NewAchievements()
	a.Badges = []string{"water_1"}
	next, fresh := a.UnlockBadges([]string{"water_1", "workout_1", "workout_1"})
	if len(fresh) != 1 || fresh[0] != "workout_1" || len(next.Badges) != 2 {
		t.Errorf("fresh=%v badges=%v", fresh, next.Badges)
	}
	if len(a.Badges) != 1 {
		t.Error("input mutated")
	}
}

/* ─── Repository ─────────────────────────────────────────────────────── */

func TestRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(store.NewMemory())

	if _, err := repo.Update(ctx, "u1", func(a Achievements) (Achievements, error) { return a.Select("h2o_hero") }); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := repo.AddPoints(ctx, "u1", 15); err != nil {
		t.Fatalf("AddPoints: %v", err)
	}
	a, err := repo.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if a.ActiveChallengeID != "h2o_hero" || a.Points != 15 || a.CompletedChallenges == nil {
		t.Errorf("loaded = %+v", a)
	}
}
