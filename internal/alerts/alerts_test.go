package alerts

import (
	"testing"
	"time"

	"lg/calorix-api/internal/fasting"
	"lg/calorix-api/internal/nutrition"
)

var now = time.Date(2026, 6, 1, 20, 0, 0, 0, time.Local)

func logWith(waterML int, calories float64) nutrition.DailyLog {
	l := nutrition.NewDailyLog(nil)
	l.WaterIntakeML = waterML
	if calories > 0 {
		l.Meals[2].Items = []nutrition.Food{{ID: "x", Name: "Dinner", Calories: calories}}
	}
	return l
}

func completedFasts(n int, lastEnd time.Time) fasting.Record {
	r := fasting.Record{State: fasting.Idle{}}
	for i := 0; i < n; i++ {
		end := lastEnd.Add(-time.Duration(i) * 24 * time.Hour)
		r.History = append(r.History, fasting.Log{StartTime: end.Add(-16 * time.Hour), EndTime: end, TargetHours: 16, Completed: true})
	}
	return r
}

func types(as []Alert) []Type {
	var out []Type
	for _, a := range as {
		out = append(out, a.Type)
	}
	return out
}

func TestEvaluate(t *testing.T) {
	goals := nutrition.NutritionalGoals{Calories: 2000, WaterML: 2500}
	cases := []struct {
		name string
		in   Input
		want []Type
	}{
		{"one glass left", Input{Log: logWith(2300, 0), Goals: goals}, []Type{TypeWater}},
		{"water goal met", Input{Log: logWith(2500, 0), Goals: goals}, nil},
		{"water far off", Input{Log: logWith(1000, 0), Goals: goals}, nil},
		{"close to calorie goal", Input{Log: logWith(0, 1950), Goals: goals}, []Type{TypeCalories}},
		{"calorie goal passed", Input{Log: logWith(0, 2050), Goals: goals}, nil},
		{"third fast just finished", Input{Log: logWith(0, 0), Goals: goals, Fasting: completedFasts(3, now.Add(-10*time.Minute)), Now: now}, []Type{TypeFasting}},
		{"third fast long ago", Input{Log: logWith(0, 0), Goals: goals, Fasting: completedFasts(3, now.Add(-3*time.Hour)), Now: now}, nil},
		{"second fast", Input{Log: logWith(0, 0), Goals: goals, Fasting: completedFasts(2, now.Add(-10*time.Minute)), Now: now}, nil},
		{"everything", Input{Log: logWith(2400, 1990), Goals: goals, Fasting: completedFasts(6, now.Add(-time.Minute)), Now: now},
			[]Type{TypeWater, TypeCalories, TypeFasting}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := types(Evaluate(Defaults(), tc.in))
			if len(got) != len(tc.want) {
				t.Fatalf("alerts = %v, want %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("alerts = %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestEvaluate_RespectsSettings(t *testing.T) {
	in := Input{Log: logWith(2400, 1990), Goals: nutrition.NutritionalGoals{Calories: 2000, WaterML: 2500}}

	s := Defaults()
	s.Types[TypeWater] = false
	if got := types(Evaluate(s, in)); len(got) != 1 || got[0] != TypeCalories {
		t.Errorf("alerts = %v, want [calories]", got)
	}

	s.Enabled = false
	if got := Evaluate(s, in); len(got) != 0 {
		t.Errorf("disabled settings produced %v", got)
	}
}
