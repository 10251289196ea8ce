package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ApranavC/mypcf/internal/logging"
	"github.com/ApranavC/mypcf/internal/metrics"
	"github.com/ApranavC/mypcf/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// FoodInput is the caller-supplied description of a new food, per 100g
type FoodInput struct {
	Name     string
	Protein  float64
	Carbs    float64
	Fats     float64
	Calories float64
}

// FoodService manages each user's food catalog
type FoodService struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewFoodService creates a FoodService
func NewFoodService(db *gorm.DB, log *slog.Logger) *FoodService {
	return &FoodService{db: db, log: logging.OrDiscard(log)}
}

func newFoodItem(userID string, in FoodInput) (models.FoodItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return models.FoodItem{}, validationErrorf("food name is required")
	}
	return models.FoodItem{
		UserID: userID,
		Name:   name,
		Nutrients: clampNutrients(models.Nutrients{
			Protein:  in.Protein,
			Carbs:    in.Carbs,
			Fats:     in.Fats,
			Calories: in.Calories,
		}),
	}, nil
}

// CreateFood stores a new food for userID
func (s *FoodService) CreateFood(ctx context.Context, userID string, in FoodInput) (*models.FoodItem, error) {
	food, err := newFoodItem(userID, in)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&food).Error; err != nil {
		return nil, persistenceError("create food", err)
	}
	return &food, nil
}

// ListFoods returns the user's foods, most recently created first
func (s *FoodService) ListFoods(ctx context.Context, userID string) ([]models.FoodItem, error) {
	foods := []models.FoodItem{}
	err := s.db.WithContext(ctx).
		Clauses(hints.Comment("select", "food_items.list")).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&foods).Error
	if err != nil {
		return nil, persistenceError("list foods", err)
	}
	return foods, nil
}

// GetFood loads one food owned by userID
func (s *FoodService) GetFood(ctx context.Context, userID string, id uint64) (*models.FoodItem, error) {
	var food models.FoodItem
	err := s.db.WithContext(ctx).
		Session(&gorm.Session{Logger: s.db.Logger.LogMode(logger.Silent)}).
		Where("id = ? AND user_id = ?", id, userID).
		First(&food).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("food %d", id)
	}
	if err != nil {
		return nil, persistenceError("get food", err)
	}
	return &food, nil
}

// FindFoods loads the subset of ids owned by userID, keyed by id
func (s *FoodService) FindFoods(ctx context.Context, userID string, ids []uint64) (map[uint64]models.FoodItem, error) {
	found := make(map[uint64]models.FoodItem, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	var foods []models.FoodItem
	err := s.db.WithContext(ctx).
		Clauses(hints.Comment("select", "food_items.resolve")).
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&foods).Error
	if err != nil {
		return nil, persistenceError("find foods", err)
	}
	for _, f := range foods {
		found[f.ID] = f
	}
	return found, nil
}

// DeleteFood removes a food. Meals that already reference it keep their snapshots.
func (s *FoodService) DeleteFood(ctx context.Context, userID string, id uint64) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.FoodItem{})
	if res.Error != nil {
		return persistenceError("delete food", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFoundf("food %d", id)
	}
	return nil
}

// BulkCreateFoods maps tabular rows onto foods and inserts them in one
// transaction. Rows without a name are skipped. source labels the import
// metric ("rows", "xlsx", "csv").
func (s *FoodService) BulkCreateFoods(ctx context.Context, userID, source string, rows []map[string]any) ([]models.FoodItem, error) {
	foods := make([]models.FoodItem, 0, len(rows))
	for _, row := range rows {
		in, ok := FoodInputFromRow(row)
		if !ok {
			continue
		}
		food, err := newFoodItem(userID, in)
		if err != nil {
			continue
		}
		foods = append(foods, food)
	}

	if len(foods) == 0 {
		s.log.Info("bulk import produced no foods", "user", userID, "rows", len(rows))
		return foods, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&foods, 100).Error
	})
	if err != nil {
		return nil, persistenceError("bulk create foods", err)
	}

	metrics.FoodsImported.WithLabelValues(source).Add(float64(len(foods)))
	s.log.Info("bulk imported foods", "user", userID, "rows", len(rows), "created", len(foods), "source", source)
	return foods, nil
}
