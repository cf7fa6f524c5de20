package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/meal-hub/internal/feedback"
	"github.com/fdg312/meal-hub/internal/nutrition"
	"github.com/fdg312/meal-hub/internal/plans"
	"github.com/fdg312/meal-hub/internal/recipes"
	"github.com/fdg312/meal-hub/internal/storage"
	"github.com/fdg312/meal-hub/internal/storage/memory"
	"github.com/fdg312/meal-hub/internal/userctx"
	"github.com/google/uuid"
)

// setupTestService seeds a user, a recipe catalog and one generated plan,
// returning a local-mode reports service.
func setupTestService(t *testing.T) (*Service, string, string) {
	t.Helper()
	ctx := context.Background()
	store := memory.New()

	user := &storage.User{Email: "reports@example.com", Name: "Reporter"}
	if err := store.GetUsersStorage().CreateUser(ctx, user); err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	recipeService := recipes.NewService(store.GetRecipesStorage())
	seed := []recipes.UpsertRecipeRequest{
		{Title: "Oatmeal", Tags: []string{"breakfast", "main course"}, Calories: 200, Protein: 8},
		{Title: "Apple", Tags: []string{"breakfast", "fruit"}, Calories: 80},
		{Title: "Yogurt", Tags: []string{"breakfast", "dairy"}, Calories: 100},
		{Title: "Chicken Bowl", Tags: []string{"lunch", "main course"}, Calories: 400, Protein: 35},
		{Title: "Tomato Soup", Tags: []string{"lunch", "soup"}, Calories: 120},
		{Title: "Baked Salmon", Tags: []string{"dinner", "main course"}, Calories: 280, Protein: 30},
		{Title: "Miso Soup", Tags: []string{"dinner", "soup"}, Calories: 100},
		{Title: "Banana Toast", Tags: []string{"pre-workout", "main course"}, Calories: 150},
		{Title: "Protein Shake", Tags: []string{"post-workout", "main course"}, Calories: 150, Protein: 25},
	}
	for i := 0; i < 21; i++ {
		seed = append(seed, recipes.UpsertRecipeRequest{
			Title:    fmt.Sprintf("Vegan Filler %d", i),
			Tags:     []string{"vegan"},
			Calories: 100,
		})
	}
	for _, req := range seed {
		if _, err := recipeService.Create(ctx, req); err != nil {
			t.Fatalf("failed to seed recipe %q: %v", req.Title, err)
		}
	}

	planService := plans.NewService(plans.Options{
		Plans:     store.GetMealPlansStorage(),
		Users:     store.GetUsersStorage(),
		Recipes:   recipeService,
		Feedback:  feedback.NewService(store.GetFeedbackStorage(), store.GetRecipesStorage()),
		Nutrition: nutrition.NewService(store.GetNutritionTargetsStorage()),
	})

	plan, err := planService.Generate(ctx, user.ID, plans.GeneratePlanRequest{DailyCalories: 2000, Seed: 5})
	if err != nil {
		t.Fatalf("failed to generate plan: %v", err)
	}

	service := NewService(
		store.GetReportsStorage(),
		planService,
		NewGenerator(recipeService),
		nil, // no S3, local mode
		900, // presign TTL
		"",
		false,
	)

	return service, user.ID, plan.ID
}

func authedRequest(userID, method, target string, body []byte) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	return req.WithContext(userctx.WithUserID(context.Background(), userID))
}

func TestHandleCreate_PDF_Success(t *testing.T) {
	service, userID, planID := setupTestService(t)
	handler := NewHandlers(service)

	body, _ := json.Marshal(CreateReportRequest{PlanID: planID})
	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(userID, "POST", "/v1/reports", body))

	if w.Code != http.StatusCreated {
		t.Errorf("expected status 201, got %d. Body: %s", w.Code, w.Body.String())
	}

	var resp ReportDTO
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Format != FormatPDF {
		t.Errorf("expected format pdf, got %s", resp.Format)
	}
	if resp.PlanID != planID {
		t.Errorf("expected plan id %s, got %s", planID, resp.PlanID)
	}
	if resp.DownloadURL == "" {
		t.Error("expected download URL")
	}
	if resp.SizeBytes == 0 {
		t.Error("expected non-empty report body")
	}
}

func TestHandleCreate_PlanNotFound(t *testing.T) {
	service, userID, _ := setupTestService(t)
	handler := NewHandlers(service)

	body, _ := json.Marshal(CreateReportRequest{PlanID: "missing"})
	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(userID, "POST", "/v1/reports", body))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestHandleCreate_MissingPlanID(t *testing.T) {
	service, userID, _ := setupTestService(t)
	handler := NewHandlers(service)

	body, _ := json.Marshal(CreateReportRequest{})
	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(userID, "POST", "/v1/reports", body))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestHandleList(t *testing.T) {
	service, userID, planID := setupTestService(t)
	handler := NewHandlers(service)

	if _, err := service.CreateReport(context.Background(), userID, CreateReportRequest{PlanID: planID}); err != nil {
		t.Fatalf("failed to create report: %v", err)
	}

	w := httptest.NewRecorder()
	handler.HandleList(w, authedRequest(userID, "GET", "/v1/reports", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp ReportsResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Reports) != 1 {
		t.Errorf("expected 1 report, got %d", len(resp.Reports))
	}
}

func TestHandleDownload_LocalMode(t *testing.T) {
	service, userID, planID := setupTestService(t)
	handler := NewHandlers(service)

	report, err := service.CreateReport(context.Background(), userID, CreateReportRequest{PlanID: planID})
	if err != nil {
		t.Fatalf("failed to create report: %v", err)
	}

	req := authedRequest(userID, "GET", fmt.Sprintf("/v1/reports/%s/download", report.ID), nil)
	req.SetPathValue("id", report.ID.String())
	w := httptest.NewRecorder()
	handler.HandleDownload(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/pdf" {
		t.Errorf("expected content type application/pdf, got %s", w.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("expected body to be a PDF document")
	}
}

func TestHandleDownload_ForeignOwner(t *testing.T) {
	service, userID, planID := setupTestService(t)
	handler := NewHandlers(service)

	report, err := service.CreateReport(context.Background(), userID, CreateReportRequest{PlanID: planID})
	if err != nil {
		t.Fatalf("failed to create report: %v", err)
	}

	req := authedRequest("someone-else", "GET", fmt.Sprintf("/v1/reports/%s/download", report.ID), nil)
	req.SetPathValue("id", report.ID.String())
	w := httptest.NewRecorder()
	handler.HandleDownload(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for foreign owner, got %d", w.Code)
	}
}

func TestHandleDelete(t *testing.T) {
	service, userID, planID := setupTestService(t)
	handler := NewHandlers(service)

	report, err := service.CreateReport(context.Background(), userID, CreateReportRequest{PlanID: planID})
	if err != nil {
		t.Fatalf("failed to create report: %v", err)
	}

	req := authedRequest(userID, "DELETE", fmt.Sprintf("/v1/reports/%s", report.ID), nil)
	req.SetPathValue("id", report.ID.String())
	w := httptest.NewRecorder()
	handler.HandleDelete(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected status 204, got %d", w.Code)
	}

	if _, err := service.GetReport(context.Background(), userID, report.ID); err == nil {
		t.Error("expected report to be deleted")
	}
}

func TestHandleDelete_NotFound(t *testing.T) {
	service, userID, _ := setupTestService(t)
	handler := NewHandlers(service)

	id := uuid.New()
	req := authedRequest(userID, "DELETE", fmt.Sprintf("/v1/reports/%s", id), nil)
	req.SetPathValue("id", id.String())
	w := httptest.NewRecorder()
	handler.HandleDelete(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
