package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ApranavC/mypcf/internal/logging"
	"github.com/ApranavC/mypcf/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TargetPatch carries a partial target update. Nil fields keep their current value.
type TargetPatch struct {
	Protein  *float64
	Carbs    *float64
	Fats     *float64
	Calories *float64
	DietType *string
}

// TargetService stores one daily target record per user
type TargetService struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewTargetService creates a TargetService
func NewTargetService(db *gorm.DB, log *slog.Logger) *TargetService {
	return &TargetService{db: db, log: logging.OrDiscard(log)}
}

// GetTargets returns the user's targets, creating the defaults on first read
func (s *TargetService) GetTargets(ctx context.Context, userID string) (*models.Target, error) {
	target, err := s.getOrCreate(s.db.WithContext(ctx), userID)
	if err != nil {
		return nil, persistenceError("get targets", err)
	}
	return target, nil
}

// getOrCreate inserts the default record with ON CONFLICT DO NOTHING so that
// concurrent first reads converge on a single row.
func (s *TargetService) getOrCreate(tx *gorm.DB, userID string) (*models.Target, error) {
	var target models.Target
	err := quiet(tx).Where("user_id = ?", userID).First(&target).Error
	if err == nil {
		return &target, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	target = models.DefaultTarget(userID)
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&target)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected > 0 {
		s.log.Info("created default targets", "user", userID)
		return &target, nil
	}

	target = models.Target{}
	if err := tx.Where("user_id = ?", userID).First(&target).Error; err != nil {
		return nil, err
	}
	return &target, nil
}

// SetTargets applies patch over the existing (or default) targets
func (s *TargetService) SetTargets(ctx context.Context, userID string, patch TargetPatch) (*models.Target, error) {
	var diet models.DietType
	if patch.DietType != nil {
		diet = models.DietType(strings.ToLower(strings.TrimSpace(*patch.DietType)))
		if !diet.Valid() {
			return nil, validationErrorf("invalid diet type %q", *patch.DietType)
		}
	}

	var result *models.Target
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		target, err := s.getOrCreate(tx, userID)
		if err != nil {
			return err
		}

		if patch.Protein != nil {
			target.Protein = *patch.Protein
		}
		if patch.Carbs != nil {
			target.Carbs = *patch.Carbs
		}
		if patch.Fats != nil {
			target.Fats = *patch.Fats
		}
		if patch.Calories != nil {
			target.Calories = *patch.Calories
		}
		if patch.DietType != nil {
			target.DietType = diet
		}

		if err := tx.Save(target).Error; err != nil {
			return err
		}
		result = target
		return nil
	})
	if err != nil {
		return nil, persistenceError("set targets", err)
	}
	return result, nil
}
