package services

import (
	"context"

	"github.com/ApranavC/mypcf/internal/models"
	"github.com/shopspring/decimal"
)

// ProgressStatus is the traffic-light band for one nutrient
type ProgressStatus string

const (
	StatusGreen  ProgressStatus = "green"
	StatusYellow ProgressStatus = "yellow"
	StatusRed    ProgressStatus = "red"
)

// NutrientProgress compares one consumed total against its target
type NutrientProgress struct {
	Consumed float64        `json:"consumed"`
	Target   float64        `json:"target"`
	Percent  float64        `json:"percent"`
	Status   ProgressStatus `json:"status"`
}

// DayProgress is the per-nutrient progress report for one date
type DayProgress struct {
	Date     string           `json:"date"`
	DietType models.DietType  `json:"dietType"`
	Protein  NutrientProgress `json:"protein"`
	Carbs    NutrientProgress `json:"carbs"`
	Fats     NutrientProgress `json:"fats"`
	Calories NutrientProgress `json:"calories"`
}

// ProgressService joins a day's intake totals with the user's targets
type ProgressService struct {
	intakes *IntakeService
	targets *TargetService
}

// NewProgressService creates a ProgressService
func NewProgressService(intakes *IntakeService, targets *TargetService) *ProgressService {
	return &ProgressService{intakes: intakes, targets: targets}
}

// GetProgress reports the user's progress toward their targets on date
func (s *ProgressService) GetProgress(ctx context.Context, userID, date string) (*DayProgress, error) {
	intake, err := s.intakes.GetIntake(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	target, err := s.targets.GetTargets(ctx, userID)
	if err != nil {
		return nil, err
	}
	return BuildProgress(intake, target), nil
}

// BuildProgress computes the report from an intake and a target
func BuildProgress(intake *models.DailyIntake, target *models.Target) *DayProgress {
	measure := func(consumed, goal float64) NutrientProgress {
		pct := ratio(consumed, goal)
		return NutrientProgress{
			Consumed: consumed,
			Target:   goal,
			Percent:  pct.Round(1).InexactFloat64(),
			Status:   StatusFor(pct.InexactFloat64(), target.DietType),
		}
	}
	return &DayProgress{
		Date:     intake.Date,
		DietType: target.DietType,
		Protein:  measure(intake.Totals.Protein, target.Protein),
		Carbs:    measure(intake.Totals.Carbs, target.Carbs),
		Fats:     measure(intake.Totals.Fats, target.Fats),
		Calories: measure(intake.Totals.Calories, target.Calories),
	}
}

// ratio returns consumed as a percentage of goal. A goal of zero or less yields 0.
func ratio(consumed, goal float64) decimal.Decimal {
	if goal <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromFloat(consumed).
		Mul(hundred).
		Div(decimal.NewFromFloat(goal))
}

// StatusFor bands a percentage according to the diet type
func StatusFor(percent float64, diet models.DietType) ProgressStatus {
	switch diet {
	case models.DietTypeDeficit:
		switch {
		case percent < 90:
			return StatusGreen
		case percent < 110:
			return StatusYellow
		}
		return StatusRed
	case models.DietTypeSurplus:
		switch {
		case percent > 110:
			return StatusGreen
		case percent > 90:
			return StatusYellow
		}
		return StatusRed
	}

	switch {
	case percent > 95 && percent < 105:
		return StatusGreen
	case percent > 85 && percent < 115:
		return StatusYellow
	}
	return StatusRed
}
