package helpers

import (
	"testing"

	"github.com/ApranavC/mypcf/internal/models"
	"gorm.io/gorm"
)

// CreateTestFood stores a food directly, bypassing the service layer
func CreateTestFood(t *testing.T, db *gorm.DB, userID, name string, n models.Nutrients) models.FoodItem {
	t.Helper()
	food := models.FoodItem{UserID: userID, Name: name, Nutrients: n}
	if err := db.Create(&food).Error; err != nil {
		t.Fatalf("Failed to create food %s: %v", name, err)
	}
	return food
}

// SeedFoods stores the reference foods used across scenarios, keyed by name
func SeedFoods(t *testing.T, db *gorm.DB, userID string) map[string]models.FoodItem {
	t.Helper()
	return map[string]models.FoodItem{
		"Chicken Breast": CreateTestFood(t, db, userID, "Chicken Breast", models.Nutrients{Protein: 31, Carbs: 0, Fats: 3.6, Calories: 165}),
		"Rice":           CreateTestFood(t, db, userID, "Rice", models.Nutrients{Protein: 2.7, Carbs: 28, Fats: 0.3, Calories: 130}),
	}
}

// CountIntakes returns how many intake records exist for (userID, date)
func CountIntakes(t *testing.T, db *gorm.DB, userID, date string) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.DailyIntake{}).Where("user_id = ? AND date = ?", userID, date).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count intakes: %v", err)
	}
	return count
}
