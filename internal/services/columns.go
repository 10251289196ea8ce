package services

import (
	"fmt"
	"strings"

	"github.com/ApranavC/mypcf/internal/types"
)

// Spreadsheet column aliases, matched case-insensitively. The first alias
// holding a non-empty value wins.
var (
	nameColumns     = []string{"dish", "food", "name"}
	proteinColumns  = []string{"protein", "p"}
	carbsColumns    = []string{"carbs", "c"}
	fatsColumns     = []string{"fats", "f"}
	caloriesColumns = []string{"calories", "cal"}
)

// FoodInputFromRow maps one tabular import row onto a FoodInput.
// It reports false when the row has no usable name.
func FoodInputFromRow(row map[string]any) (FoodInput, bool) {
	normalized := make(map[string]any, len(row))
	for k, v := range row {
		key := strings.ToLower(strings.TrimSpace(k))
		if existing, ok := normalized[key]; ok && !isBlank(existing) {
			continue
		}
		normalized[key] = v
	}

	nameValue := lookupColumn(normalized, nameColumns)
	if nameValue == nil {
		return FoodInput{}, false
	}
	name := strings.TrimSpace(fmt.Sprint(nameValue))
	if name == "" {
		return FoodInput{}, false
	}

	return FoodInput{
		Name:     name,
		Protein:  types.LenientFloat(lookupColumn(normalized, proteinColumns)),
		Carbs:    types.LenientFloat(lookupColumn(normalized, carbsColumns)),
		Fats:     types.LenientFloat(lookupColumn(normalized, fatsColumns)),
		Calories: types.LenientFloat(lookupColumn(normalized, caloriesColumns)),
	}, true
}

func lookupColumn(row map[string]any, aliases []string) any {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok && !isBlank(v) {
			return v
		}
	}
	return nil
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	}
	return false
}
