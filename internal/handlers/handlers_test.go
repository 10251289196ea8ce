package handlers_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/ApranavC/mypcf/data"
	"github.com/ApranavC/mypcf/internal/models"
	"github.com/ApranavC/mypcf/internal/services"
	"github.com/ApranavC/mypcf/internal/testutil"
	"github.com/ApranavC/mypcf/tests/helpers"
	"github.com/gofiber/fiber/v2"
)

func do(t *testing.T, app *fiber.App, req *http.Request, userID string) *http.Response {
	t.Helper()
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}
	return resp
}

func mealOfType(intake models.DailyIntake, mealType models.MealType) *models.Meal {
	for i := range intake.Meals {
		if intake.Meals[i].Type == mealType {
			return &intake.Meals[i]
		}
	}
	return nil
}

func TestIntakeLifecycle(t *testing.T) {
	db := testutil.NewTestDB(t)
	app := helpers.NewTestServer(t, db, helpers.ServerOptions{})
	user := helpers.RandomUserID()
	foods := helpers.SeedFoods(t, db, user)
	chicken, rice := foods["Chicken Breast"], foods["Rice"]

	// empty day
	resp := do(t, app, httptest.NewRequest("GET", "/api/daily-intakes/2024-01-01", nil), user)
	helpers.AssertStatus(t, resp, fiber.StatusOK)
	var intake models.DailyIntake
	helpers.ParseJSON(t, resp, &intake)
	if intake.Date != "2024-01-01" || len(intake.Meals) != 0 || intake.Totals.Calories != 0 {
		t.Fatalf("expected empty intake, got %+v", intake)
	}

	// foodId as a string, quantity as a string
	body := fmt.Sprintf(`{"date":"2024-01-01","mealType":"Lunch","dishes":[{"foodId":"%d","quantity":"150"}]}`, chicken.ID)
	resp = do(t, app, helpers.JSONRequest(t, "POST", "/api/daily-intakes", body), user)
	helpers.AssertStatus(t, resp, fiber.StatusCreated)
	helpers.ParseJSON(t, resp, &intake)
	if intake.Totals.Protein != 46.5 || intake.Totals.Calories != 247.5 {
		t.Errorf("unexpected totals: %+v", intake.Totals)
	}

	// a single dish object instead of an array, with the default quantity
	body = fmt.Sprintf(`{"date":"2024-01-01","mealType":"dinner","dishes":{"foodId":%d}}`, rice.ID)
	resp = do(t, app, helpers.JSONRequest(t, "POST", "/api/daily-intakes", body), user)
	helpers.AssertStatus(t, resp, fiber.StatusCreated)
	helpers.ParseJSON(t, resp, &intake)
	if len(intake.Meals) != 2 || intake.Totals.Calories != 377.5 {
		t.Fatalf("unexpected intake after second meal: %+v", intake)
	}
	lunch, dinner := mealOfType(intake, models.MealTypeLunch), mealOfType(intake, models.MealTypeDinner)
	if lunch == nil || dinner == nil || dinner.Dishes[0].Quantity != 100 {
		t.Fatalf("unexpected meals: %+v", intake.Meals)
	}

	// delete the lunch
	lunchID := lunch.ID
	resp = do(t, app, httptest.NewRequest("DELETE", "/api/daily-intakes/2024-01-01/"+lunchID, nil), user)
	helpers.AssertStatus(t, resp, fiber.StatusOK)
	helpers.ParseJSON(t, resp, &intake)
	if len(intake.Meals) != 1 || intake.Totals.Calories != 130 {
		t.Errorf("unexpected intake after delete: %+v", intake)
	}

	// deleting it again is a no-op
	resp = do(t, app, httptest.NewRequest("DELETE", "/api/daily-intakes/2024-01-01/"+lunchID, nil), user)
	helpers.AssertStatus(t, resp, fiber.StatusOK)

	// no intake on another date
	resp = do(t, app, httptest.NewRequest("DELETE", "/api/daily-intakes/2024-01-02/"+lunchID, nil), user)
	if typ := helpers.AssertErrorEnvelope(t, resp, fiber.StatusNotFound); typ != "intakes.delete" {
		t.Errorf("unexpected error type %q", typ)
	}

	// another user sees nothing
	resp = do(t, app, httptest.NewRequest("GET", "/api/daily-intakes/2024-01-01", nil), helpers.RandomUserID())
	helpers.ParseJSON(t, resp, &intake)
	if len(intake.Meals) != 0 {
		t.Errorf("intakes leaked across users: %+v", intake)
	}
}

func TestAddMealErrors(t *testing.T) {
	db := testutil.NewTestDB(t)
	app := helpers.NewTestServer(t, db, helpers.ServerOptions{})
	user := helpers.RandomUserID()
	chicken := helpers.SeedFoods(t, db, user)["Chicken Breast"]

	tests := []struct {
		name string
		body string
	}{
		{"unknown food only", `{"date":"2024-01-01","mealType":"Lunch","dishes":[{"foodId":999999}]}`},
		{"bad date", fmt.Sprintf(`{"date":"2024-02-30","mealType":"Lunch","dishes":[{"foodId":%d}]}`, chicken.ID)},
		{"bad meal type", fmt.Sprintf(`{"date":"2024-01-01","mealType":"Elevenses","dishes":[{"foodId":%d}]}`, chicken.ID)},
		{"missing dishes", `{"date":"2024-01-01","mealType":"Lunch"}`},
		{"empty dishes", `{"date":"2024-01-01","mealType":"Lunch","dishes":[]}`},
		{"not json", `{"date":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, app, helpers.JSONRequest(t, "POST", "/api/daily-intakes", tt.body), user)
			helpers.AssertErrorEnvelope(t, resp, fiber.StatusBadRequest)
		})
	}

	if n := helpers.CountIntakes(t, db, user, "2024-01-01"); n != 0 {
		t.Errorf("failed requests must not create intakes, found %d", n)
	}
}

func TestConcurrentMealsOverHTTP(t *testing.T) {
	db := testutil.NewTestDB(t)
	app := helpers.NewTestServer(t, db, helpers.ServerOptions{})
	user := helpers.RandomUserID()
	chicken := helpers.SeedFoods(t, db, user)["Chicken Breast"]

	const n = 8
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body := fmt.Sprintf(`{"date":"2024-09-09","mealType":"Snack","dishes":[{"foodId":%d,"quantity":100}]}`, chicken.ID)
			req := helpers.JSONRequest(t, "POST", "/api/daily-intakes", body)
			req.Header.Set("X-User-ID", user)
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Errorf("request failed: %v", err)
				return
			}
			if resp.StatusCode != fiber.StatusCreated {
				t.Errorf("unexpected status %d", resp.StatusCode)
			}
		}()
	}
	wg.Wait()

	var intake models.DailyIntake
	resp := do(t, app, httptest.NewRequest("GET", "/api/daily-intakes/2024-09-09", nil), user)
	helpers.ParseJSON(t, resp, &intake)
	if len(intake.Meals) != n || intake.Totals.Calories != n*165 {
		t.Errorf("expected %d meals and %d calories, got %d and %v", n, n*165, len(intake.Meals), intake.Totals.Calories)
	}
	if c := helpers.CountIntakes(t, db, user, "2024-09-09"); c != 1 {
		t.Errorf("expected one intake record, found %d", c)
	}
}

func TestFoodEndpoints(t *testing.T) {
	db := testutil.NewTestDB(t)
	app := helpers.NewTestServer(t, db, helpers.ServerOptions{})
	user := helpers.RandomUserID()

	resp := do(t, app, helpers.JSONRequest(t, "POST", "/api/food-items",
		`{"name":"Lentils","protein":"9g","carbs":20.1,"fats":null,"calories":"abc"}`), user)
	helpers.AssertStatus(t, resp, fiber.StatusCreated)
	var food models.FoodItem
	helpers.ParseJSON(t, resp, &food)
	if food.ID == 0 || food.Protein != 9 || food.Carbs != 20.1 || food.Fats != 0 || food.Calories != 0 {
		t.Errorf("unexpected food: %+v", food)
	}

	resp = do(t, app, helpers.JSONRequest(t, "POST", "/api/food-items", `{"protein":1}`), user)
	helpers.AssertErrorEnvelope(t, resp, fiber.StatusBadRequest)

	resp = do(t, app, helpers.JSONRequest(t, "POST", "/api/food-items", `{"name":"   "}`), user)
	helpers.AssertErrorEnvelope(t, resp, fiber.StatusBadRequest)

	resp = do(t, app, httptest.NewRequest("GET", "/api/food-items", nil), user)
	helpers.AssertStatus(t, resp, fiber.StatusOK)
	var list []models.FoodItem
	helpers.ParseJSON(t, resp, &list)
	if len(list) != 1 || list[0].Name != "Lentils" {
		t.Errorf("unexpected list: %+v", list)
	}

	resp = do(t, app, httptest.NewRequest("DELETE", fmt.Sprintf("/api/food-items/%d", food.ID), nil), helpers.RandomUserID())
	helpers.AssertErrorEnvelope(t, resp, fiber.StatusNotFound)

	resp = do(t, app, httptest.NewRequest("DELETE", fmt.Sprintf("/api/food-items/%d", food.ID), nil), user)
	helpers.AssertStatus(t, resp, fiber.StatusNoContent)
	helpers.AssertNoContent(t, resp)

	resp = do(t, app, httptest.NewRequest("DELETE", "/api/food-items/abc", nil), user)
	helpers.AssertErrorEnvelope(t, resp, fiber.StatusBadRequest)
}

func TestBulkFoods(t *testing.T) {
	db := testutil.NewTestDB(t)
	app := helpers.NewTestServer(t, db, helpers.ServerOptions{})
	user := helpers.RandomUserID()

	body := map[string]interface{}{
		"rows": []map[string]interface{}{
			{"Dish": "Paneer", "P": 18.3, "C": 1.2, "F": 20.8, "Cal": 265},
			{"Food": "Tofu", "Protein": "8", "Carbs": "1.9", "Fats": "4.8", "Calories": "76"},
			{"Protein": 3},
		},
	}
	resp := do(t, app, helpers.JSONRequest(t, "POST", "/api/food-items/bulk", body), user)
	helpers.AssertStatus(t, resp, fiber.StatusCreated)

	var result struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Count   int               `json:"count"`
		Items   []models.FoodItem `json:"items"`
	}
	helpers.ParseJSON(t, resp, &result)
	if !result.Success || result.Count != 2 || len(result.Items) != 2 || result.Message != "Successfully imported 2 food items" {
		t.Errorf("unexpected bulk result: %+v", result)
	}
	if result.Items[1].Name != "Tofu" || result.Items[1].Calories != 76 {
		t.Errorf("unexpected tofu: %+v", result.Items[1])
	}

	resp = do(t, app, helpers.JSONRequest(t, "POST", "/api/food-items/bulk", `{"rows":[]}`), user)
	helpers.AssertStatus(t, resp, fiber.StatusCreated)
	helpers.ParseJSON(t, resp, &result)
	if result.Count != 0 || result.Items == nil {
		t.Errorf("empty import should report zero items: %+v", result)
	}
}

type recordingArchiver struct {
	mu    sync.Mutex
	files []string
}

func (r *recordingArchiver) Archive(_ context.Context, userID, filename string, body []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, userID+"/"+filename)
	return "memory://" + filename, nil
}

func multipartUpload(t *testing.T, target, field, filename string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest("POST", target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestImportFoods(t *testing.T) {
	db := testutil.NewTestDB(t)
	archiver := &recordingArchiver{}
	app := helpers.NewTestServer(t, db, helpers.ServerOptions{Archive: archiver, MaxImportBytes: 4096})
	user := helpers.RandomUserID()

	for _, target := range []string{"/api/upload-excel", "/api/food-items/import"} {
		resp := do(t, app, multipartUpload(t, target, "excelFile", "foods.csv", data.SampleFoodsCSV), user)
		helpers.AssertStatus(t, resp, fiber.StatusCreated)

		var result struct {
			Count int               `json:"count"`
			Items []models.FoodItem `json:"items"`
		}
		helpers.ParseJSON(t, resp, &result)
		if result.Count != 4 {
			t.Errorf("%s: expected 4 foods (nameless row dropped), got %d", target, result.Count)
		}
	}
	if len(archiver.files) != 2 || archiver.files[0] != user+"/foods.csv" {
		t.Errorf("uploads not archived: %v", archiver.files)
	}

	resp := do(t, app, multipartUpload(t, "/api/upload-excel", "excelFile", "foods.txt", []byte("x")), user)
	helpers.AssertErrorEnvelope(t, resp, fiber.StatusBadRequest)

	resp = do(t, app, multipartUpload(t, "/api/upload-excel", "other", "foods.csv", data.SampleFoodsCSV), user)
	helpers.AssertErrorEnvelope(t, resp, fiber.StatusBadRequest)

	big := bytes.Repeat([]byte("Dish,Protein\nx,1\n"), 500)
	resp = do(t, app, multipartUpload(t, "/api/upload-excel", "excelFile", "big.csv", big), user)
	helpers.AssertErrorEnvelope(t, resp, fiber.StatusRequestEntityTooLarge)
}

func TestTargetsAndProgress(t *testing.T) {
	db := testutil.NewTestDB(t)
	app := helpers.NewTestServer(t, db, helpers.ServerOptions{})
	user := helpers.RandomUserID()
	chicken := helpers.SeedFoods(t, db, user)["Chicken Breast"]

	resp := do(t, app, httptest.NewRequest("GET", "/api/targets", nil), user)
	helpers.AssertStatus(t, resp, fiber.StatusOK)
	var target models.Target
	helpers.ParseJSON(t, resp, &target)
	if target.Protein != 150 || target.Carbs != 200 || target.Fats != 65 || target.Calories != 2000 || target.DietType != models.DietTypeMaintenance {
		t.Errorf("unexpected default targets: %+v", target)
	}

	resp = do(t, app, helpers.JSONRequest(t, "PUT", "/api/targets", `{"calories":250,"dietType":"surplus"}`), user)
	helpers.AssertStatus(t, resp, fiber.StatusOK)
	helpers.ParseJSON(t, resp, &target)
	if target.Calories != 250 || target.Protein != 150 || target.DietType != models.DietTypeSurplus {
		t.Errorf("unexpected updated targets: %+v", target)
	}

	resp = do(t, app, helpers.JSONRequest(t, "PUT", "/api/targets", `{"dietType":"bulking"}`), user)
	helpers.AssertErrorEnvelope(t, resp, fiber.StatusBadRequest)

	body := fmt.Sprintf(`{"date":"2024-04-04","mealType":"Lunch","dishes":[{"foodId":%d,"quantity":150}]}`, chicken.ID)
	resp = do(t, app, helpers.JSONRequest(t, "POST", "/api/daily-intakes", body), user)
	helpers.AssertStatus(t, resp, fiber.StatusCreated)

	resp = do(t, app, httptest.NewRequest("GET", "/api/progress/2024-04-04", nil), user)
	helpers.AssertStatus(t, resp, fiber.StatusOK)
	var progress services.DayProgress
	helpers.ParseJSON(t, resp, &progress)
	if progress.Calories.Percent != 99 || progress.Calories.Status != services.StatusYellow {
		t.Errorf("unexpected calorie progress: %+v", progress.Calories)
	}
	if progress.Protein.Status != services.StatusRed {
		t.Errorf("unexpected protein progress: %+v", progress.Protein)
	}
}

func TestAuthAndRouting(t *testing.T) {
	db := testutil.NewTestDB(t)

	headerApp := helpers.NewTestServer(t, db, helpers.ServerOptions{})
	resp := do(t, headerApp, httptest.NewRequest("GET", "/api/targets", nil), "")
	if typ := helpers.AssertErrorEnvelope(t, resp, fiber.StatusUnauthorized); typ != "auth.credential" {
		t.Errorf("unexpected error type %q", typ)
	}

	resp = do(t, headerApp, httptest.NewRequest("GET", "/api/nope", nil), "u")
	helpers.AssertErrorEnvelope(t, resp, fiber.StatusNotFound)

	req := httptest.NewRequest("GET", "/api/targets", nil)
	req.Header.Set("X-Api-Version", "3.0.0")
	resp = do(t, headerApp, req, "u")
	helpers.AssertErrorEnvelope(t, resp, fiber.StatusBadRequest)

	resp = do(t, headerApp, httptest.NewRequest("GET", "/api/health", nil), "")
	helpers.AssertStatus(t, resp, fiber.StatusOK)
	var health services.HealthCheckResult
	helpers.ParseJSON(t, resp, &health)
	if health.Status != "healthy" || health.Database != "ok" {
		t.Errorf("unexpected health: %+v", health)
	}

	jwtApp := helpers.NewTestServer(t, db, helpers.ServerOptions{AuthMode: "jwt"})
	req = httptest.NewRequest("GET", "/api/targets", nil)
	req.Header.Set("Authorization", "Bearer "+helpers.SignToken(t, helpers.TestSecret, "jwt-user", time.Hour))
	resp = do(t, jwtApp, req, "")
	helpers.AssertStatus(t, resp, fiber.StatusOK)
	var target models.Target
	helpers.ParseJSON(t, resp, &target)
	if target.UserID != "jwt-user" {
		t.Errorf("token user not propagated, got %q", target.UserID)
	}

	req = httptest.NewRequest("GET", "/api/targets", nil)
	req.Header.Set("Authorization", "Bearer "+helpers.SignToken(t, "wrong", "jwt-user", time.Hour))
	resp = do(t, jwtApp, req, "")
	if typ := helpers.AssertErrorEnvelope(t, resp, fiber.StatusUnauthorized); typ != "auth.session" {
		t.Errorf("unexpected error type %q", typ)
	}
}
