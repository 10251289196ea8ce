package models

import (
	"strings"
	"time"
)

// MealType tags a meal with one of the fixed meal categories
type MealType string

const (
	MealTypeBreakfast MealType = "Breakfast"
	MealTypeLunch     MealType = "Lunch"
	MealTypeDinner    MealType = "Dinner"
	MealTypeSnack     MealType = "Snack"
)

// MealTypes lists the accepted meal categories in display order
var MealTypes = []MealType{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack}

// ParseMealType matches s case-insensitively against the known meal types
// and returns the canonical spelling.
func ParseMealType(s string) (MealType, bool) {
	s = strings.TrimSpace(s)
	for _, mt := range MealTypes {
		if strings.EqualFold(s, string(mt)) {
			return mt, true
		}
	}
	return "", false
}

// Dish is an immutable snapshot of one food line in a meal. Nutrients are
// already scaled to Quantity grams.
type Dish struct {
	FoodID   uint64  `json:"foodId,omitempty"`
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Nutrients
}

// Meal is one eating occasion inside a DailyIntake
type Meal struct {
	ID       string    `gorm:"type:char(36);primaryKey" json:"id"`
	IntakeID uint64    `gorm:"not null;index" json:"-"`
	Type     MealType  `gorm:"column:meal_type;size:32;not null" json:"type"`
	Dishes   DishList  `gorm:"not null" json:"dishes"`
	LoggedAt time.Time `gorm:"not null;index" json:"timestamp"`
}

// TableName overrides the table name for Meal
func (Meal) TableName() string {
	return "meals"
}

// DailyIntake aggregates every meal a user logged on one calendar date.
// Totals is derived from Meals and is only written by the recompute step.
type DailyIntake struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id,omitempty"`
	UserID    string    `gorm:"size:64;not null;index:idx_intake_user_date,unique" json:"userId,omitempty"`
	Date      string    `gorm:"type:char(10);not null;index:idx_intake_user_date,unique" json:"date"`
	Meals     []Meal    `gorm:"foreignKey:IntakeID;constraint:OnDelete:CASCADE" json:"meals"`
	Totals    Nutrients `gorm:"embedded;embeddedPrefix:total_" json:"totals"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the table name for DailyIntake
func (DailyIntake) TableName() string {
	return "daily_intakes"
}
