/**
 * @description
 * Portion rescaling for a recognized food item. The item's macros at its
 * immutable original gram weight are the baseline; rescaling derives the
 * implied per-original-portion density from the current values and applies
 * the new ratio, so repeated rescales stay consistent with a direct
 * computation from the baseline.
 */
package nutrition

import (
	"errors"
	"math"

	"github.com/josediaztrainer-sudo/josediazfitscan/internal/domain"
)

// ErrNegativeGrams is returned when a rescale target below zero is requested.
var ErrNegativeGrams = errors.New("nutrition: target grams must not be negative")

// RescalePortion returns a copy of food with its grams set to newGrams and
// its macros scaled proportionally against the original-grams baseline.
// Calories round to the nearest integer, the remaining macros to one
// decimal place. newGrams of 0 yields zero macros.
func RescalePortion(food domain.FoodItem, newGrams float64) (domain.FoodItem, error) {
	if newGrams < 0 {
		return domain.FoodItem{}, ErrNegativeGrams
	}
	if food.OriginalGrams <= 0 || food.Grams <= 0 {
		// No usable baseline; keep the item but pin it to the requested weight.
		out := food
		out.Grams = newGrams
		return out, nil
	}

	currentRatio := food.Grams / food.OriginalGrams
	newRatio := newGrams / food.OriginalGrams

	out := food
	out.Grams = newGrams
	out.Calories = int(math.Round(float64(food.Calories) / currentRatio * newRatio))
	out.Protein = round1(food.Protein / currentRatio * newRatio)
	out.Carbs = round1(food.Carbs / currentRatio * newRatio)
	out.Fat = round1(food.Fat / currentRatio * newRatio)
	return out, nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
