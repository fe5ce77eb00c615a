/**
 * @description
 * Domain models for meal scans and daily logs. A MealScan is one confirmed,
 * logged eating event with its per-food breakdown; a DailyLog is the per-day
 * aggregate of all of a user's meal scans.
 */
package domain

import "time"

// MealType tags a confirmed scan with the eating occasion.
type MealType string

const (
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
	MealSnack     MealType = "snack"
)

// ValidMealType reports whether m is one of the four supported tags.
func ValidMealType(m MealType) bool {
	switch m {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// FoodItem is one recognized food within a scan. OriginalGrams is captured
// when the vision model first returns the item and never changes afterwards;
// it is the baseline every portion rescale is computed from.
type FoodItem struct {
	Name          string  `json:"name"`
	Grams         float64 `json:"grams"`
	OriginalGrams float64 `json:"original_grams"`
	Calories      int     `json:"calories"`
	Protein       float64 `json:"protein"`
	Carbs         float64 `json:"carbs"`
	Fat           float64 `json:"fat"`
}

// MacroTotals is the aggregated macro sum over a set of foods.
type MacroTotals struct {
	Calories int     `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// ScanResult is the validated output of a food-scan analysis. Totals are
// always recomputed locally from Foods, never trusted from the model.
type ScanResult struct {
	Foods  []FoodItem  `json:"foods"`
	Totals MacroTotals `json:"totals"`
}

// MealScan represents a row in the `meal_scans` table. Append-only once
// saved; deletable by its owner.
type MealScan struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	DailyLogID    string      `json:"daily_log_id"`
	MealType      MealType    `json:"meal_type"`
	PhotoURL      *string     `json:"photo_url,omitempty"`
	Foods         []FoodItem  `json:"foods"`
	TotalCalories int         `json:"total_calories"`
	TotalProtein  float64     `json:"total_protein"`
	TotalCarbs    float64     `json:"total_carbs"`
	TotalFat      float64     `json:"total_fat"`
	CreatedAt     time.Time   `json:"created_at"`
}

// DailyLog represents a row in the `daily_logs` table: one user, one date,
// running macro totals. Created lazily on the first save of the day. The
// meal-scan write path updates it in the same database transaction as the
// scan insert so the aggregate can never drift from its scans.
type DailyLog struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	Date          string    `json:"date"` // YYYY-MM-DD in the user's submitted day
	TotalCalories int       `json:"total_calories"`
	TotalProtein  float64   `json:"total_protein"`
	TotalCarbs    float64   `json:"total_carbs"`
	TotalFat      float64   `json:"total_fat"`
	CreatedAt     time.Time `json:"created_at"`
}

// SumFoods recomputes macro totals from a foods slice. This is the
// trust-but-verify step applied to every model response and every save.
func SumFoods(foods []FoodItem) MacroTotals {
	var t MacroTotals
	for _, f := range foods {
		t.Calories += f.Calories
		t.Protein += f.Protein
		t.Carbs += f.Carbs
		t.Fat += f.Fat
	}
	return t
}
