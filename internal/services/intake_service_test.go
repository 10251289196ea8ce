package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ApranavC/mypcf/internal/models"
	"github.com/ApranavC/mypcf/internal/testutil"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	foods   *FoodService
	intakes *IntakeService
	targets *TargetService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	foods := NewFoodService(db, nil)
	return &fixture{
		db:      db,
		foods:   foods,
		intakes: NewIntakeService(db, foods, nil),
		targets: NewTargetService(db, nil),
	}
}

func (f *fixture) food(t *testing.T, userID string, in FoodInput) *models.FoodItem {
	t.Helper()
	food, err := f.foods.CreateFood(context.Background(), userID, in)
	if err != nil {
		t.Fatalf("CreateFood(%q) failed: %v", in.Name, err)
	}
	return food
}

func qty(q float64) *float64 {
	return &q
}

var (
	chicken = FoodInput{Name: "Chicken Breast", Protein: 31, Carbs: 0, Fats: 3.6, Calories: 165}
	rice    = FoodInput{Name: "Rice", Protein: 2.7, Carbs: 28, Fats: 0.3, Calories: 130}
)

func TestAddMealScenarios(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const user = "user-a"

	c := f.food(t, user, chicken)
	r := f.food(t, user, rice)

	// A: single dish
	intake, err := f.intakes.AddMeal(ctx, user, "2024-01-01", "Lunch", []DishRequest{{FoodID: c.ID, Quantity: qty(150)}})
	if err != nil {
		t.Fatalf("AddMeal failed: %v", err)
	}
	if len(intake.Meals) != 1 || len(intake.Meals[0].Dishes) != 1 {
		t.Fatalf("expected one meal with one dish, got %+v", intake.Meals)
	}
	dish := intake.Meals[0].Dishes[0]
	if dish.Protein != 46.5 || dish.Calories != 247.5 || dish.Name != "Chicken Breast" || dish.Quantity != 150 {
		t.Errorf("unexpected dish snapshot: %+v", dish)
	}
	if intake.Totals.Protein != 46.5 || intake.Totals.Calories != 247.5 {
		t.Errorf("unexpected totals after first meal: %+v", intake.Totals)
	}
	if intake.Meals[0].Type != models.MealTypeLunch || intake.Meals[0].ID == "" {
		t.Errorf("unexpected meal: %+v", intake.Meals[0])
	}

	// B: a second meal on the same date
	intake, err = f.intakes.AddMeal(ctx, user, "2024-01-01", "Dinner", []DishRequest{{FoodID: r.ID, Quantity: qty(200)}})
	if err != nil {
		t.Fatalf("AddMeal failed: %v", err)
	}
	if len(intake.Meals) != 2 {
		t.Fatalf("expected two meals, got %d", len(intake.Meals))
	}
	second := intake.Meals[1].Dishes[0]
	if second.Carbs != 56 || second.Calories != 260 {
		t.Errorf("unexpected rice snapshot: %+v", second)
	}
	if intake.Totals.Calories != 507.5 {
		t.Errorf("Totals.Calories = %v, want 507.5", intake.Totals.Calories)
	}

	// The stored record matches what AddMeal returned
	stored, err := f.intakes.GetIntake(ctx, user, "2024-01-01")
	if err != nil {
		t.Fatalf("GetIntake failed: %v", err)
	}
	if stored.ID != intake.ID || stored.Totals != intake.Totals || len(stored.Meals) != 2 {
		t.Errorf("stored intake differs: %+v vs %+v", stored, intake)
	}
	if stored.Meals[0].Type != models.MealTypeLunch {
		t.Errorf("meals should be ordered by creation time, got %v first", stored.Meals[0].Type)
	}
}

func TestAddMealUnknownFoodOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.intakes.AddMeal(ctx, "user-c", "2024-01-01", "Lunch", []DishRequest{{FoodID: 9999, Quantity: qty(100)}})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	var count int64
	f.db.Model(&models.DailyIntake{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no intake to be created, found %d", count)
	}
}

func TestAddMealDropsUnresolvedDishes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.food(t, "owner", chicken)
	other := f.food(t, "someone-else", rice)

	intake, err := f.intakes.AddMeal(ctx, "owner", "2024-02-02", "breakfast", []DishRequest{
		{FoodID: 424242},
		{FoodID: c.ID},
		{FoodID: other.ID, Quantity: qty(100)},
	})
	if err != nil {
		t.Fatalf("AddMeal failed: %v", err)
	}
	dishes := intake.Meals[0].Dishes
	if len(dishes) != 1 {
		t.Fatalf("expected only the owned food to resolve, got %d dishes", len(dishes))
	}
	if dishes[0].Quantity != DefaultQuantity || dishes[0].Protein != 31 {
		t.Errorf("omitted quantity should default to 100g: %+v", dishes[0])
	}
	if intake.Meals[0].Type != models.MealTypeBreakfast {
		t.Errorf("meal type should be canonicalized, got %q", intake.Meals[0].Type)
	}
}

func TestAddMealValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.food(t, "u", chicken)
	reqs := []DishRequest{{FoodID: c.ID}}

	tests := []struct {
		name     string
		date     string
		mealType string
	}{
		{"bad date", "2024-13-01", "Lunch"},
		{"not a date", "yesterday", "Lunch"},
		{"bad meal type", "2024-01-01", "Brunch"},
		{"empty meal type", "2024-01-01", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.intakes.AddMeal(ctx, "u", tt.date, tt.mealType, reqs); !errors.Is(err, ErrValidation) {
				t.Errorf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestAddMealQuantityEdgeCases(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.food(t, "u", chicken)

	intake, err := f.intakes.AddMeal(ctx, "u", "2024-03-03", "Snack", []DishRequest{
		{FoodID: c.ID, Quantity: qty(0)},
		{FoodID: c.ID, Quantity: qty(-50)},
	})
	if err != nil {
		t.Fatalf("AddMeal failed: %v", err)
	}
	dishes := intake.Meals[0].Dishes
	if dishes[0].Calories != 0 || dishes[0].Quantity != 0 {
		t.Errorf("zero quantity should contribute nothing: %+v", dishes[0])
	}
	if dishes[1].Calories != -82.5 {
		t.Errorf("negative quantity should scale linearly: %+v", dishes[1])
	}
	if intake.Totals.Calories != -82.5 {
		t.Errorf("Totals.Calories = %v, want -82.5", intake.Totals.Calories)
	}
}

func TestGetIntakeEmptyDoesNotCreate(t *testing.T) {
	f := newFixture(t)

	intake, err := f.intakes.GetIntake(context.Background(), "nobody", "2024-05-05")
	if err != nil {
		t.Fatalf("GetIntake failed: %v", err)
	}
	if intake.ID != 0 || intake.Date != "2024-05-05" || len(intake.Meals) != 0 || intake.Totals != (models.Nutrients{}) {
		t.Errorf("expected a synthesized empty intake, got %+v", intake)
	}
	if intake.Meals == nil {
		t.Error("meals should be an empty list, not nil")
	}

	var count int64
	f.db.Model(&models.DailyIntake{}).Count(&count)
	if count != 0 {
		t.Errorf("GetIntake must not create records, found %d", count)
	}

	if _, err := f.intakes.GetIntake(context.Background(), "nobody", "05/05/2024"); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for a malformed date, got %v", err)
	}
}

func TestDeleteMeal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const user = "user-d"
	c := f.food(t, user, chicken)
	r := f.food(t, user, rice)

	if _, err := f.intakes.DeleteMeal(ctx, user, "2024-01-01", "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound without an intake, got %v", err)
	}

	if _, err := f.intakes.AddMeal(ctx, user, "2024-01-01", "Lunch", []DishRequest{{FoodID: c.ID, Quantity: qty(150)}}); err != nil {
		t.Fatal(err)
	}
	intake, err := f.intakes.AddMeal(ctx, user, "2024-01-01", "Dinner", []DishRequest{{FoodID: r.ID, Quantity: qty(200)}})
	if err != nil {
		t.Fatal(err)
	}

	// D: deleting an absent meal id changes nothing
	unchanged, err := f.intakes.DeleteMeal(ctx, user, "2024-01-01", "00000000-0000-0000-0000-000000000000")
	if err != nil {
		t.Fatalf("DeleteMeal of absent meal failed: %v", err)
	}
	if len(unchanged.Meals) != 2 || unchanged.Totals != intake.Totals {
		t.Errorf("expected unchanged intake, got %+v", unchanged)
	}

	lunchID := intake.Meals[0].ID
	after, err := f.intakes.DeleteMeal(ctx, user, "2024-01-01", lunchID)
	if err != nil {
		t.Fatalf("DeleteMeal failed: %v", err)
	}
	if len(after.Meals) != 1 || after.Meals[0].Type != models.MealTypeDinner {
		t.Fatalf("expected only dinner to remain, got %+v", after.Meals)
	}
	if after.Totals.Calories != 260 || after.Totals.Protein != 5.4 {
		t.Errorf("totals not recomputed: %+v", after.Totals)
	}

	// deleting the same meal twice equals deleting it once
	again, err := f.intakes.DeleteMeal(ctx, user, "2024-01-01", lunchID)
	if err != nil {
		t.Fatalf("second DeleteMeal failed: %v", err)
	}
	if again.Totals != after.Totals || len(again.Meals) != len(after.Meals) {
		t.Errorf("second delete changed state: %+v vs %+v", again, after)
	}

	// removing the last meal keeps an empty intake with zero totals
	empty, err := f.intakes.DeleteMeal(ctx, user, "2024-01-01", after.Meals[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty.Meals) != 0 || empty.Totals != (models.Nutrients{}) || empty.ID != intake.ID {
		t.Errorf("expected kept intake with zero totals, got %+v", empty)
	}
}

func TestTotalsMatchFullSum(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const user = "user-sum"
	c := f.food(t, user, chicken)
	r := f.food(t, user, rice)

	var last *models.DailyIntake
	for i := 0; i < 6; i++ {
		reqs := []DishRequest{{FoodID: c.ID, Quantity: qty(float64(10 * (i + 1)))}, {FoodID: r.ID, Quantity: qty(33.3)}}
		intake, err := f.intakes.AddMeal(ctx, user, "2024-06-01", string(models.MealTypes[i%4]), reqs)
		if err != nil {
			t.Fatal(err)
		}
		if intake.Totals != DayTotals(intake.Meals) {
			t.Fatalf("totals %v != full sum %v after add %d", intake.Totals, DayTotals(intake.Meals), i)
		}
		last = intake
	}

	for _, m := range last.Meals[:3] {
		intake, err := f.intakes.DeleteMeal(ctx, user, "2024-06-01", m.ID)
		if err != nil {
			t.Fatal(err)
		}
		if intake.Totals != DayTotals(intake.Meals) {
			t.Fatalf("totals %v != full sum %v after delete", intake.Totals, DayTotals(intake.Meals))
		}
	}
}

func TestOneIntakePerUserAndDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.food(t, "u1", chicken)
	c2 := f.food(t, "u2", chicken)

	for i := 0; i < 3; i++ {
		if _, err := f.intakes.AddMeal(ctx, "u1", "2024-01-01", "Snack", []DishRequest{{FoodID: c.ID}}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := f.intakes.AddMeal(ctx, "u1", "2024-01-02", "Snack", []DishRequest{{FoodID: c.ID}}); err != nil {
		t.Fatal(err)
	}
	if _, err := f.intakes.AddMeal(ctx, "u2", "2024-01-01", "Snack", []DishRequest{{FoodID: c2.ID}}); err != nil {
		t.Fatal(err)
	}

	var count int64
	f.db.Model(&models.DailyIntake{}).Where("user_id = ? AND date = ?", "u1", "2024-01-01").Count(&count)
	if count != 1 {
		t.Errorf("expected one intake for (u1, 2024-01-01), found %d", count)
	}
	f.db.Model(&models.DailyIntake{}).Count(&count)
	if count != 3 {
		t.Errorf("expected three intakes overall, found %d", count)
	}
}

func TestConcurrentAddMeal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const user = "user-conc"
	c := f.food(t, user, chicken)

	const workers = 12
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			date := "2024-07-01"
			if i%3 == 0 {
				date = "2024-07-02"
			}
			_, err := f.intakes.AddMeal(ctx, user, date, "Lunch", []DishRequest{{FoodID: c.ID, Quantity: qty(100)}})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent AddMeal failed: %v", err)
		}
	}

	day1, err := f.intakes.GetIntake(ctx, user, "2024-07-01")
	if err != nil {
		t.Fatal(err)
	}
	day2, err := f.intakes.GetIntake(ctx, user, "2024-07-02")
	if err != nil {
		t.Fatal(err)
	}
	if len(day1.Meals) != 8 || len(day2.Meals) != 4 {
		t.Fatalf("expected 8 and 4 meals, got %d and %d", len(day1.Meals), len(day2.Meals))
	}
	if day1.Totals.Calories != 8*165 || day2.Totals.Calories != 4*165 {
		t.Errorf("totals lost an update: %v, %v", day1.Totals.Calories, day2.Totals.Calories)
	}

	var count int64
	f.db.Model(&models.DailyIntake{}).Count(&count)
	if count != 2 {
		t.Errorf("expected exactly two intakes, found %d", count)
	}
	if f.intakes.locks.Len() != 0 {
		t.Errorf("lock table should be empty after all writers finish, has %d", f.intakes.locks.Len())
	}
}

func TestMealIDsAreUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.food(t, "u", chicken)

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	f.intakes.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		intake, err := f.intakes.AddMeal(ctx, "u", "2024-01-01", "Snack", []DishRequest{{FoodID: c.ID}})
		if err != nil {
			t.Fatal(err)
		}
		latest := intake.Meals[len(intake.Meals)-1]
		if seen[latest.ID] {
			t.Fatalf("duplicate meal id %s", latest.ID)
		}
		seen[latest.ID] = true
		if !latest.LoggedAt.Equal(base.Add(time.Duration(i+1) * time.Minute)) {
			t.Errorf("meal %d logged at %v", i, latest.LoggedAt)
		}
	}
}

func TestResolveDish(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.food(t, "u", chicken)

	dish, err := f.intakes.ResolveDish(ctx, "u", DishRequest{FoodID: c.ID, Quantity: qty(150)})
	if err != nil {
		t.Fatal(err)
	}
	if dish.Protein != 46.5 || dish.Fats != 5.4 || dish.FoodID != c.ID {
		t.Errorf("unexpected dish: %+v", dish)
	}

	if _, err := f.intakes.ResolveDish(ctx, "other-user", DishRequest{FoodID: c.ID}); !errors.Is(err, ErrNotFound) {
		t.Errorf("foods must be scoped to their owner, got %v", err)
	}
}

func TestParseDateKey(t *testing.T) {
	for _, in := range []string{"2024-01-01", " 2024-02-29 "} {
		if _, err := ParseDateKey(in); err != nil {
			t.Errorf("ParseDateKey(%q) failed: %v", in, err)
		}
	}
	for _, in := range []string{"", "2023-02-29", "2024-1-1", "2024-01-01T00:00:00Z"} {
		if _, err := ParseDateKey(in); !errors.Is(err, ErrValidation) {
			t.Errorf("ParseDateKey(%q) = %v, want ErrValidation", in, err)
		}
	}
}

func ExampleScaleNutrients() {
	n := ScaleNutrients(models.Nutrients{Protein: 31, Fats: 3.6, Calories: 165}, 150)
	fmt.Println(n.Protein, n.Fats, n.Calories)
	// Output: 46.5 5.4 247.5
}
