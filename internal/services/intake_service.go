// intake_service.go
//
// Daily nutrition intake tracking service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of mypcf.
// mypcf is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// mypcf is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with mypcf.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/ApranavC/mypcf/internal/logging"
	"github.com/ApranavC/mypcf/internal/metrics"
	"github.com/ApranavC/mypcf/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// DateLayout is the calendar key format for daily intakes
const DateLayout = "2006-01-02"

// DishRequest asks for quantity grams of a catalog food. A nil Quantity means 100g.
type DishRequest struct {
	FoodID   uint64
	Quantity *float64
}

// IntakeService owns the daily intake aggregate: meals, dish snapshots and totals
type IntakeService struct {
	db    *gorm.DB
	foods *FoodService
	locks *KeyedMutex
	log   *slog.Logger
	now   func() time.Time
}

// NewIntakeService creates an IntakeService
func NewIntakeService(db *gorm.DB, foods *FoodService, log *slog.Logger) *IntakeService {
	return &IntakeService{
		db:    db,
		foods: foods,
		locks: NewKeyedMutex(),
		log:   logging.OrDiscard(log),
		now:   time.Now,
	}
}

// ParseDateKey validates a YYYY-MM-DD calendar key and returns it normalized
func ParseDateKey(date string) (string, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(date))
	if err != nil {
		return "", validationErrorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return t.Format(DateLayout), nil
}

func emptyIntake(date string) *models.DailyIntake {
	return &models.DailyIntake{Date: date, Meals: []models.Meal{}}
}

func quiet(tx *gorm.DB) *gorm.DB {
	return tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)})
}

// GetIntake returns the stored intake for (userID, date), or an unsaved empty
// one with zero totals. It never creates a record.
func (s *IntakeService) GetIntake(ctx context.Context, userID, date string) (*models.DailyIntake, error) {
	key, err := ParseDateKey(date)
	if err != nil {
		return nil, err
	}

	intake, err := loadIntake(s.db.WithContext(ctx), userID, key)
	if errors.Is(err, ErrNotFound) {
		return emptyIntake(key), nil
	}
	if err != nil {
		return nil, persistenceError("get intake", err)
	}
	return intake, nil
}

func loadIntake(tx *gorm.DB, userID, date string) (*models.DailyIntake, error) {
	var intake models.DailyIntake
	err := quiet(tx).
		Clauses(hints.Comment("select", "daily_intakes.get")).
		Preload("Meals", func(db *gorm.DB) *gorm.DB {
			return db.Order("logged_at ASC")
		}).
		Where("user_id = ? AND date = ?", userID, date).
		First(&intake).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFoundf("no intake for %s", date)
	}
	if err != nil {
		return nil, err
	}
	if intake.Meals == nil {
		intake.Meals = []models.Meal{}
	}
	return &intake, nil
}

// ResolveDish builds the scaled snapshot for one dish request
func (s *IntakeService) ResolveDish(ctx context.Context, userID string, req DishRequest) (models.Dish, error) {
	food, err := s.foods.GetFood(ctx, userID, req.FoodID)
	if err != nil {
		return models.Dish{}, err
	}
	return buildDish(*food, req), nil
}

func buildDish(food models.FoodItem, req DishRequest) models.Dish {
	quantity := DefaultQuantity
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	return models.Dish{
		FoodID:    food.ID,
		Name:      food.Name,
		Quantity:  quantity,
		Nutrients: ScaleNutrients(food.Nutrients, quantity),
	}
}

// resolveDishes keeps request order and drops requests whose food is unknown
func (s *IntakeService) resolveDishes(ctx context.Context, userID string, reqs []DishRequest) ([]models.Dish, error) {
	ids := make([]uint64, 0, len(reqs))
	seen := make(map[uint64]struct{}, len(reqs))
	for _, r := range reqs {
		if _, ok := seen[r.FoodID]; !ok {
			seen[r.FoodID] = struct{}{}
			ids = append(ids, r.FoodID)
		}
	}

	foods, err := s.foods.FindFoods(ctx, userID, ids)
	if err != nil {
		return nil, err
	}

	dishes := make([]models.Dish, 0, len(reqs))
	for _, r := range reqs {
		food, ok := foods[r.FoodID]
		if !ok {
			metrics.DishesDropped.Inc()
			s.log.Debug("dropping dish with unknown food", "user", userID, "food_id", r.FoodID)
			continue
		}
		dishes = append(dishes, buildDish(food, r))
	}
	return dishes, nil
}

func lockKey(userID, date string) string {
	return userID + "|" + date
}

// transact runs fn in a transaction, retrying once when a concurrent writer
// created the same intake first.
func (s *IntakeService) transact(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	err := s.db.WithContext(ctx).Transaction(fn)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		s.log.Warn("intake created concurrently, retrying", "op", op)
		err = s.db.WithContext(ctx).Transaction(fn)
	}
	return persistenceError(op, err)
}

// AddMeal appends a meal built from reqs to the (userID, date) intake,
// creating the intake if needed, and recomputes the day totals. Requests for
// unknown foods are dropped; if none resolve the call fails without writing.
func (s *IntakeService) AddMeal(ctx context.Context, userID, date, mealType string, reqs []DishRequest) (*models.DailyIntake, error) {
	key, err := ParseDateKey(date)
	if err != nil {
		return nil, err
	}
	mt, ok := models.ParseMealType(mealType)
	if !ok {
		return nil, validationErrorf("invalid meal type %q", mealType)
	}

	dishes, err := s.resolveDishes(ctx, userID, reqs)
	if err != nil {
		return nil, err
	}
	if len(dishes) == 0 {
		return nil, validationErrorf("no dish references a known food")
	}

	unlock := s.locks.Lock(lockKey(userID, key))
	defer unlock()

	mealID := uuid.NewString()
	loggedAt := s.now().UTC()

	var result *models.DailyIntake
	err = s.transact(ctx, "add meal", func(tx *gorm.DB) error {
		intake, err := s.lockOrCreateIntake(tx, userID, key)
		if err != nil {
			return err
		}

		meal := models.Meal{
			ID:       mealID,
			IntakeID: intake.ID,
			Type:     mt,
			Dishes:   dishes,
			LoggedAt: loggedAt,
		}
		if err := tx.Create(&meal).Error; err != nil {
			return err
		}

		if err := recomputeTotals(tx, intake); err != nil {
			return err
		}
		result = intake
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.MealsAdded.Inc()
	return result, nil
}

func (s *IntakeService) lockOrCreateIntake(tx *gorm.DB, userID, date string) (*models.DailyIntake, error) {
	var intake models.DailyIntake
	err := quiet(tx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND date = ?", userID, date).
		First(&intake).Error
	if err == nil {
		return &intake, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	intake = models.DailyIntake{UserID: userID, Date: date}
	if err := tx.Create(&intake).Error; err != nil {
		return nil, err
	}
	s.log.Info("created daily intake", "user", userID, "date", date)
	return &intake, nil
}

// recomputeTotals reloads every meal of the intake and rewrites its totals
// from the full sum.
func recomputeTotals(tx *gorm.DB, intake *models.DailyIntake) error {
	meals := []models.Meal{}
	if err := tx.Where("intake_id = ?", intake.ID).Order("logged_at ASC").Find(&meals).Error; err != nil {
		return err
	}

	totals := DayTotals(meals)
	err := tx.Model(&models.DailyIntake{}).
		Where("id = ?", intake.ID).
		Updates(map[string]any{
			"total_protein":  totals.Protein,
			"total_carbs":    totals.Carbs,
			"total_fats":     totals.Fats,
			"total_calories": totals.Calories,
		}).Error
	if err != nil {
		return err
	}

	intake.Meals = meals
	intake.Totals = totals
	return nil
}

// DeleteMeal removes mealID from the (userID, date) intake and recomputes
// totals. Deleting an absent meal leaves the intake unchanged. The intake is
// kept even when its last meal is removed.
func (s *IntakeService) DeleteMeal(ctx context.Context, userID, date, mealID string) (*models.DailyIntake, error) {
	key, err := ParseDateKey(date)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(lockKey(userID, key))
	defer unlock()

	var result *models.DailyIntake
	var removed int64
	err = s.transact(ctx, "delete meal", func(tx *gorm.DB) error {
		var intake models.DailyIntake
		err := quiet(tx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND date = ?", userID, key).
			First(&intake).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundf("no intake for %s", key)
		}
		if err != nil {
			return err
		}

		res := tx.Where("id = ? AND intake_id = ?", mealID, intake.ID).Delete(&models.Meal{})
		if res.Error != nil {
			return res.Error
		}
		removed = res.RowsAffected

		if err := recomputeTotals(tx, &intake); err != nil {
			return err
		}
		result = &intake
		return nil
	})
	if err != nil {
		return nil, err
	}

	if removed > 0 {
		metrics.MealsDeleted.Inc()
	}
	return result, nil
}
