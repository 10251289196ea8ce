package services

import (
	"github.com/ApranavC/mypcf/internal/models"
	"github.com/shopspring/decimal"
)

// DefaultQuantity is the portion in grams assumed when a dish request omits it
const DefaultQuantity = 100.0

var hundred = decimal.NewFromInt(100)

// ScaleNutrients converts a per-100g profile into the absolute amounts for
// quantity grams: field * quantity / 100. A quantity of 0 yields zeros and
// negative quantities scale linearly.
func ScaleNutrients(per100g models.Nutrients, quantity float64) models.Nutrients {
	factor := decimal.NewFromFloat(quantity).Div(hundred)
	scale := func(v float64) float64 {
		f, _ := decimal.NewFromFloat(v).Mul(factor).Float64()
		return f
	}
	return models.Nutrients{
		Protein:  scale(per100g.Protein),
		Carbs:    scale(per100g.Carbs),
		Fats:     scale(per100g.Fats),
		Calories: scale(per100g.Calories),
	}
}

// SumNutrients adds nutrient sets element-wise
func SumNutrients(items ...models.Nutrients) models.Nutrients {
	var p, c, f, cal decimal.Decimal
	for _, n := range items {
		p = p.Add(decimal.NewFromFloat(n.Protein))
		c = c.Add(decimal.NewFromFloat(n.Carbs))
		f = f.Add(decimal.NewFromFloat(n.Fats))
		cal = cal.Add(decimal.NewFromFloat(n.Calories))
	}
	return models.Nutrients{
		Protein:  p.InexactFloat64(),
		Carbs:    c.InexactFloat64(),
		Fats:     f.InexactFloat64(),
		Calories: cal.InexactFloat64(),
	}
}

// MealTotals sums every dish of one meal
func MealTotals(meal models.Meal) models.Nutrients {
	items := make([]models.Nutrients, 0, len(meal.Dishes))
	for _, d := range meal.Dishes {
		items = append(items, d.Nutrients)
	}
	return SumNutrients(items...)
}

// DayTotals sums every dish of every meal. This is the only source of an
// intake's stored totals.
func DayTotals(meals []models.Meal) models.Nutrients {
	var items []models.Nutrients
	for _, m := range meals {
		for _, d := range m.Dishes {
			items = append(items, d.Nutrients)
		}
	}
	return SumNutrients(items...)
}

// clampNutrients raises negative profile values to 0
func clampNutrients(n models.Nutrients) models.Nutrients {
	return models.Nutrients{
		Protein:  max(n.Protein, 0),
		Carbs:    max(n.Carbs, 0),
		Fats:     max(n.Fats, 0),
		Calories: max(n.Calories, 0),
	}
}
