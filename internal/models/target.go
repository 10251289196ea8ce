package models

import "time"

// DietType is a display hint for progress coloring. It never affects totals.
type DietType string

const (
	DietTypeMaintenance DietType = "maintenance"
	DietTypeDeficit     DietType = "deficit"
	DietTypeSurplus     DietType = "surplus"
)

// Valid reports whether d is one of the known diet types
func (d DietType) Valid() bool {
	switch d {
	case DietTypeMaintenance, DietTypeDeficit, DietTypeSurplus:
		return true
	}
	return false
}

// Target holds a user's absolute daily nutrient goals
type Target struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string `gorm:"size:64;not null;uniqueIndex" json:"userId"`
	Nutrients `gorm:"embedded"`
	DietType  DietType  `gorm:"size:16;not null;default:maintenance" json:"dietType"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the table name for Target
func (Target) TableName() string {
	return "targets"
}

// DefaultTarget returns the goals every user starts with
func DefaultTarget(userID string) Target {
	return Target{
		UserID: userID,
		Nutrients: Nutrients{
			Protein:  150,
			Carbs:    200,
			Fats:     65,
			Calories: 2000,
		},
		DietType: DietTypeMaintenance,
	}
}
