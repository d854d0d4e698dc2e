package nutrition

import (
	"math"
	"reflect"
	"testing"
)

// makeProfile constructs a fully-populated profile for ComputeGoals tests.
func makeProfile(sex Sex, age int, weightKG, heightCM, activity float64, goal GoalType) Profile {
	return Profile{
		Sex:           sex,
		Age:           age,
		WeightKG:      weightKG,
		HeightCM:      heightCM,
		ActivityLevel: activity,
		Goal:          goal,
	}
}

/* ─── Known-value tests ──────────────────────────────────────────────── */

// TestComputeGoals_MaleMaintain checks every output for a worked example.
//
// BMR = 10*80 + 6.25*180 - 5*30 + 5 = 1780; TDEE = 1780*1.55 = 2759.
// Protein 160g (640 kcal), fat 689.75/9 ≈ 77g (693 kcal),
// carbs (2759-640-693)/4 = 356.5 → 357g. Water 80*35 = 2800ml.
func TestComputeGoals_MaleMaintain(t *testing.T) {
	g := ComputeGoals(makeProfile(SexMale, 30, 80, 180, 1.55, GoalMaintain))

	want := NutritionalGoals{
		Calories: 2759,
		ProteinG: 160,
		CarbsG:   357,
		FatG:     77,
		WaterML:  2800,
		Micronutrients: map[string]int{
			MicroFiber: 25, MicroSodium: 2300, MicroPotassium: 3500,
			MicroCalcium: 1000, MicroIron: 8, MicroVitaminC: 90,
		},
	}
	if !reflect.DeepEqual(g, want) {
		t.Errorf("ComputeGoals =\n  %+v\nwant\n  %+v", g, want)
	}
}

// TestComputeGoals_FemaleLose covers the -161 constant, the 500 kcal deficit
// and the female-under-50 micronutrient targets.
//
// BMR = 600 + 1031.25 - 125 - 161 = 1345.25; TDEE*1.2 = 1614.3; -500 = 1114.3.
func TestComputeGoals_FemaleLose(t *testing.T) {
	g := ComputeGoals(makeProfile(SexFemale, 25, 60, 165, 1.2, GoalLose))

	if g.Calories != 1114 {
		t.Errorf("calories = %d, want 1114", g.Calories)
	}
	if g.ProteinG != 120 || g.FatG != 31 || g.CarbsG != 89 {
		t.Errorf("macros = P%d F%d C%d, want P120 F31 C89", g.ProteinG, g.FatG, g.CarbsG)
	}
	if g.WaterML != 2100 {
		t.Errorf("water = %d, want 2100", g.WaterML)
	}
	if g.Micronutrients[MicroIron] != 18 || g.Micronutrients[MicroVitaminC] != 75 {
		t.Errorf("iron/vitC = %d/%d, want 18/75", g.Micronutrients[MicroIron], g.Micronutrients[MicroVitaminC])
	}
}

// TestComputeGoals_GainAddsSurplus verifies the +300 kcal shift relative to
// the same profile on maintain.
func TestComputeGoals_GainAddsSurplus(t *testing.T) {
	base := makeProfile(SexMale, 40, 90, 185, 1.725, GoalMaintain)
	gain := base
	gain.Goal = GoalGain

	diff := ComputeGoals(gain).Calories - ComputeGoals(base).Calories
	if diff != 300 {
		t.Errorf("gain - maintain = %d kcal, want 300", diff)
	}
}

// TestComputeGoals_IronByAgeAndSex walks the iron / vitamin C table.
func TestComputeGoals_IronByAgeAndSex(t *testing.T) {
	cases := []struct {
		sex      Sex
		age      int
		wantIron int
		wantVitC int
	}{
		{SexFemale, 49, 18, 75},
		{SexFemale, 50, 8, 75},
		{SexMale, 25, 8, 90},
		{SexOther, 25, 8, 75},
	}
	for _, tc := range cases {
		g := ComputeGoals(makeProfile(tc.sex, tc.age, 70, 170, 1.2, GoalMaintain))
		if g.Micronutrients[MicroIron] != tc.wantIron || g.Micronutrients[MicroVitaminC] != tc.wantVitC {
			t.Errorf("%s/%d: iron=%d vitC=%d, want %d/%d", tc.sex, tc.age,
				g.Micronutrients[MicroIron], g.Micronutrients[MicroVitaminC], tc.wantIron, tc.wantVitC)
		}
	}
}

/* ─── Properties ─────────────────────────────────────────────────────── */

// TestComputeGoals_Deterministic calls ComputeGoals repeatedly on the same input.
func TestComputeGoals_Deterministic(t *testing.T) {
	p := makeProfile(SexFemale, 33, 64.3, 168.5, 1.375, GoalLose)
	first := ComputeGoals(p)
	for i := 0; i < 50; i++ {
		if got := ComputeGoals(p); !reflect.DeepEqual(got, first) {
			t.Fatalf("call %d differs: %+v vs %+v", i, got, first)
		}
	}
}

// TestComputeGoals_MacrosSumToCalories checks 4/9/4 kcal per gram adds back
// up to the target within ±3 kcal across a grid of profiles.
func TestComputeGoals_MacrosSumToCalories(t *testing.T) {
	for _, sex := range []Sex{SexMale, SexFemale} {
		for _, goal := range []GoalType{GoalLose, GoalMaintain, GoalGain} {
			for _, act := range []float64{1.2, 1.375, 1.55, 1.725, 1.9} {
				for w := 45.0; w <= 140; w += 7.3 {
					p := makeProfile(sex, 35, w, 172, act, goal)
					g := ComputeGoals(p)
					sum := g.ProteinG*4 + g.FatG*9 + g.CarbsG*4
					if d := sum - g.Calories; d < -3 || d > 3 {
						t.Errorf("%+v: macros sum %d vs calories %d", p, sum, g.Calories)
					}
				}
			}
		}
	}
}

/* ─── Degenerate input ───────────────────────────────────────────────── */

// TestComputeGoals_NaNCoercedToZero verifies NaN / negative fields never leak
// into the output and nothing goes negative.
func TestComputeGoals_NaNCoercedToZero(t *testing.T) {
	p := makeProfile(SexFemale, 30, math.NaN(), math.Inf(1), 1.2, GoalLose)
	g := ComputeGoals(p)

	if g.Calories != 0 || g.CarbsG != 0 || g.FatG != 0 || g.ProteinG != 0 || g.WaterML != 0 {
		t.Errorf("degenerate profile produced %+v, want zeros", g)
	}
}

// TestComputeGoals_UnknownActivityFallsBack treats an unknown multiplier as sedentary.
func TestComputeGoals_UnknownActivityFallsBack(t *testing.T) {
	unknown := ComputeGoals(makeProfile(SexMale, 30, 80, 180, 0, GoalMaintain))
	sedentary := ComputeGoals(makeProfile(SexMale, 30, 80, 180, 1.2, GoalMaintain))
	if unknown.Calories != sedentary.Calories {
		t.Errorf("calories = %d, want sedentary %d", unknown.Calories, sedentary.Calories)
	}
}

// TestComputeGoals_CarbsNeverNegative uses a heavy, short, old profile on an
// aggressive deficit where protein alone exceeds the calorie target.
func TestComputeGoals_CarbsNeverNegative(t *testing.T) {
	g := ComputeGoals(makeProfile(SexFemale, 90, 150, 100, 1.2, GoalLose))
	if g.CarbsG < 0 {
		t.Errorf("carbs = %d, want >= 0", g.CarbsG)
	}
}
