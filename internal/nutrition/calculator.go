/**
 * @description
 * The deterministic energy/macro core: Mifflin-St Jeor BMR, activity-scaled
 * TDEE, and the goal-based macro split. Pure arithmetic, no I/O. Inputs are
 * trusted to be positive; validation happens at the input-collection
 * boundary (the onboarding handler).
 */
package nutrition

import (
	"math"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

// activityMultipliers scales BMR up to maintenance calories.
var activityMultipliers = map[domain.ActivityLevel]float64{
	domain.ActivitySedentary:  1.20,
	domain.ActivityLight:      1.375,
	domain.ActivityModerate:   1.55,
	domain.ActivityActive:     1.725,
	domain.ActivityVeryActive: 1.90,
}

// goalFactors encodes the deficit/surplus applied to TDEE per goal tier.
// This is a configuration table, not a law of nature; extreme_deficit is the
// observed product default (22.5% deficit).
var goalFactors = map[domain.Goal]float64{
	domain.GoalLightDeficit:   0.85,
	domain.GoalExtremeDeficit: 0.775,
	domain.GoalRecomposition:  1.00,
}

const (
	proteinPerKg   = 2.4  // g/kg, midpoint of the 2.2-2.6 range
	fatCalShare    = 0.25 // fat supplies 25% of target calories
	kcalPerGramP   = 4
	kcalPerGramC   = 4
	kcalPerGramFat = 9
)

// MacroTargets is the calculator's output: daily calorie target and gram
// targets per macro. CarbsClamped is set when the protein and fat budgets
// alone exceed the calorie target, in which case carbs are clamped to zero
// instead of going negative.
type MacroTargets struct {
	TargetCalories int  `json:"target_calories"`
	ProteinG       int  `json:"protein_g"`
	CarbsG         int  `json:"carbs_g"`
	FatG           int  `json:"fat_g"`
	CarbsClamped   bool `json:"carbs_clamped,omitempty"`
}

// CalculateTDEE applies the Mifflin-St Jeor equation and the fixed activity
// multiplier table, rounding to the nearest kcal.
func CalculateTDEE(sex domain.Sex, weightKg, heightCm float64, age int, activity domain.ActivityLevel) int {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	if sex == domain.SexMale {
		bmr += 5
	} else {
		bmr -= 161
	}
	return int(math.Round(bmr * activityMultipliers[activity]))
}

// CalculateMacros derives the daily targets from TDEE, body weight and goal:
// calories scaled by the goal factor, protein at a fixed g/kg, fat at a
// fixed share of calories, carbs from the remainder.
func CalculateMacros(tdee int, weightKg float64, goal domain.Goal) MacroTargets {
	factor, ok := goalFactors[goal]
	if !ok {
		factor = goalFactors[domain.GoalExtremeDeficit]
	}

	targetCalories := int(math.Round(float64(tdee) * factor))
	proteinG := int(math.Round(weightKg * proteinPerKg))
	fatG := int(math.Round(float64(targetCalories) * fatCalShare / kcalPerGramFat))

	// The remainder is taken from the rounded gram values so the split sums
	// back to the calorie target instead of drifting with rounding.
	carbsCal := targetCalories - proteinG*kcalPerGramP - fatG*kcalPerGramFat
	targets := MacroTargets{
		TargetCalories: targetCalories,
		ProteinG:       proteinG,
		FatG:           fatG,
	}
	if carbsCal < 0 {
		// Protein+fat budgets exceed the calorie target. Clamp instead of
		// emitting a physically meaningless negative gram value.
		targets.CarbsG = 0
		targets.CarbsClamped = true
		return targets
	}
	targets.CarbsG = int(math.Round(float64(carbsCal) / kcalPerGramC))
	return targets
}
