package nutrition

import (
	"testing"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

func TestCalculateTDEE_MaleModerate(t *testing.T) {
	// BMR = 10*75 + 6.25*175 - 5*25 + 5 = 1756.25; TDEE = round(1756.25*1.55)
	got := CalculateTDEE(domain.SexMale, 75, 175, 25, domain.ActivityModerate)
	if got != 2722 {
		t.Fatalf("expected TDEE 2722, got %d", got)
	}
}

func TestCalculateTDEE_FemaleSedentary(t *testing.T) {
	// BMR = 10*60 + 6.25*165 - 5*30 - 161 = 1320.25; TDEE = round(1320.25*1.20)
	got := CalculateTDEE(domain.SexFemale, 60, 165, 30, domain.ActivitySedentary)
	if got != 1584 {
		t.Fatalf("expected TDEE 1584, got %d", got)
	}
}

func TestCalculateMacros_DefaultGoalFactor(t *testing.T) {
	targets := CalculateMacros(2722, 75, domain.GoalExtremeDeficit)

	if targets.TargetCalories != 2110 { // round(2722 * 0.775)
		t.Fatalf("expected 2110 kcal target, got %d", targets.TargetCalories)
	}
	if targets.ProteinG != 180 { // round(75 * 2.4)
		t.Fatalf("expected 180g protein, got %d", targets.ProteinG)
	}
	if targets.CarbsClamped {
		t.Fatal("did not expect carb clamping for a standard input")
	}
}

func TestCalculateMacros_SplitSumsToTargetCalories(t *testing.T) {
	cases := []struct {
		name     string
		tdee     int
		weightKg float64
		goal     domain.Goal
	}{
		{name: "male cut", tdee: 2722, weightKg: 75, goal: domain.GoalExtremeDeficit},
		{name: "female cut", tdee: 1584, weightKg: 60, goal: domain.GoalExtremeDeficit},
		{name: "light deficit", tdee: 2400, weightKg: 82, goal: domain.GoalLightDeficit},
		{name: "recomposition", tdee: 3100, weightKg: 95, goal: domain.GoalRecomposition},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			targets := CalculateMacros(tc.tdee, tc.weightKg, tc.goal)
			sum := targets.ProteinG*4 + targets.FatG*9 + targets.CarbsG*4
			diff := sum - targets.TargetCalories
			if diff < -2 || diff > 2 {
				t.Fatalf("macro split sums to %d kcal, target %d (off by %d)", sum, targets.TargetCalories, diff)
			}
		})
	}
}

func TestCalculateMacros_ClampsNegativeCarbs(t *testing.T) {
	// A very heavy user on a very low TDEE: protein alone outruns calories.
	targets := CalculateMacros(1000, 120, domain.GoalExtremeDeficit)

	if targets.CarbsG != 0 {
		t.Fatalf("expected carbs clamped to 0, got %d", targets.CarbsG)
	}
	if !targets.CarbsClamped {
		t.Fatal("expected CarbsClamped flag when protein+fat exceed the calorie budget")
	}
}

func TestCalculateMacros_UnknownGoalFallsBackToDefault(t *testing.T) {
	known := CalculateMacros(2500, 80, domain.GoalExtremeDeficit)
	unknown := CalculateMacros(2500, 80, domain.Goal("keto"))
	if known != unknown {
		t.Fatalf("expected unknown goal to use the default factor: %+v vs %+v", known, unknown)
	}
}
