package models

import (
	"time"
)

// Nutrients holds the four tracked macro values. On a FoodItem they are
// amounts per 100 grams; on a Dish or an intake total they are absolute.
type Nutrients struct {
	Protein  float64 `gorm:"not null;default:0" json:"protein"`
	Carbs    float64 `gorm:"not null;default:0" json:"carbs"`
	Fats     float64 `gorm:"not null;default:0" json:"fats"`
	Calories float64 `gorm:"not null;default:0" json:"calories"`
}

// FoodItem represents a user-owned food with a per-100g nutrient profile
type FoodItem struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string `gorm:"size:64;not null;index:idx_food_user_created,priority:1" json:"userId"`
	Name      string `gorm:"size:255;not null" json:"name"`
	Nutrients `gorm:"embedded"`
	CreatedAt time.Time `gorm:"index:idx_food_user_created,priority:2" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the table name for FoodItem
func (FoodItem) TableName() string {
	return "food_items"
}
