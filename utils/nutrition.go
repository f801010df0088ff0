// utils/nutrition.go
package utils

import (
	"math"
	"strconv"
	"strings"

	"nutriscan/models"
)

// NutrientKeys is the fixed order nutrition rows are produced and stored in.
var NutrientKeys = []string{"protein", "calcium", "fat", "carbohydrates", "vitamins"}

var activityMultipliers = map[string]float64{
	"sedentary":   1.2,
	"light":       1.375,
	"moderate":    1.55,
	"active":      1.725,
	"very_active": 1.9,
}

var goalAdjustments = map[string]float64{
	"lose":     0.85,
	"maintain": 1.0,
	"gain":     1.15,
}

// CalculateDailyNeeds derives the daily intake target from a profile using
// the Mifflin-St Jeor equation. Unknown activity levels fall back to
// "moderate", unknown goals to "maintain".
func CalculateDailyNeeds(p models.Profile) models.DailyNeeds {
	var bmr float64
	if p.Gender == "male" {
		bmr = 10*p.Weight + 6.25*p.Height - 5*p.Age + 5
	} else {
		bmr = 10*p.Weight + 6.25*p.Height - 5*p.Age - 161
	}

	mult, ok := activityMultipliers[p.ActivityLevel]
	if !ok {
		mult = activityMultipliers["moderate"]
	}
	tdee := bmr * mult

	adj, ok := goalAdjustments[p.Goal]
	if !ok {
		adj = goalAdjustments["maintain"]
	}
	calories := tdee * adj

	// 30% protein / 25% fat / 45% carbs at 4/9/4 kcal per gram.
	return models.DailyNeeds{
		DailyCalories: int(math.Round(calories)),
		Protein:       int(math.Round(calories * 0.3 / 4)),
		Fat:           int(math.Round(calories * 0.25 / 9)),
		Carbs:         int(math.Round(calories * 0.45 / 4)),
		SugarLimit:    int(math.Round(calories * 0.1 / 4)),
		FiberTarget:   25,
	}
}

// ScaleNutrition converts a per-100g nutrient map to rows for the given
// quantity in grams, in NutrientKeys order. Missing keys scale to 0. The
// second return is the calorie estimate: per-100g calories scaled when
// known, otherwise 4p+4c+9f derived from the scaled rows.
func ScaleNutrition(per100g map[string]float64, quantity, caloriesPer100g float64) ([]models.Nutrient, float64) {
	factor := quantity / 100.0

	rows := make([]models.Nutrient, 0, len(NutrientKeys))
	for _, k := range NutrientKeys {
		rows = append(rows, models.Nutrient{Name: k, Value: Round2(per100g[k] * factor)})
	}

	var calories float64
	if caloriesPer100g != 0 {
		calories = Round2(caloriesPer100g * factor)
	} else {
		p := rows[0].Value
		f := rows[2].Value
		c := rows[3].Value
		calories = Round2(p*4 + c*4 + f*9)
	}
	return rows, calories
}

// SafeFloat coerces x to a float64, tolerating numeric strings with commas
// and surrounding whitespace. Anything unparseable becomes 0.
func SafeFloat(x any) float64 {
	f, _ := AsFloat(x)
	return f
}

// AsFloat reports whether x carries a usable numeric value.
func AsFloat(x any) (float64, bool) {
	switch v := x.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func Round1(v float64) float64 { return math.Round(v*10) / 10 }

func Round2(v float64) float64 { return math.Round(v*100) / 100 }
