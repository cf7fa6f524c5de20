package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	token      string
	client     = &http.Client{Timeout: 60 * time.Second}
	createdIDs = make(map[string]string) // track created resources for cleanup
)

func main() {
	fmt.Println("=== Meal Hub E2E Smoke Test ===")
	fmt.Println()

	apiBase = getEnv("API_BASE_URL", defaultAPIBase)
	token = getEnv("SMOKE_TOKEN", "")

	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Printf("Token: %s\n", maskString(token))
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Dev Auth", testDevAuth},
		{"Get Me", testGetMe},
		{"Seed Recipes", testSeedRecipes},
		{"Upsert Nutrition Targets", testUpsertTargets},
		{"Generate Plan", testGeneratePlan},
		{"Export Plan", testExportPlan},
		{"Recipe Feedback", testRecipeFeedback},
		{"Create Report (PDF)", testCreateReport},
		{"Download Report", testDownloadReport},
		{"Delete Report", testDeleteReport},
		{"Delete Plan", testDeletePlan},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("❌ FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("✅ OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("❌ SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("✅ ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	resp, err := doRequest("GET", "/healthz", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, http.StatusOK)
}

func testDevAuth() error {
	// If a token was provided via env, skip
	if token != "" {
		return nil
	}

	payload := map[string]string{
		"email": fmt.Sprintf("smoke+%d@example.com", time.Now().Unix()),
		"name":  "Smoke Tester",
	}
	resp, err := doRequest("POST", "/v1/auth/dev", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var result struct {
		AccessToken string `json:"access_token"`
		UserID      string `json:"user_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.AccessToken == "" {
		return fmt.Errorf("empty access token")
	}

	token = result.AccessToken
	return nil
}

func testGetMe() error {
	resp, err := doRequest("GET", "/v1/users/me", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, http.StatusOK)
}

// testSeedRecipes fills the catalog past the minimum pool size: one
// recipe per meal part plus fillers.
func testSeedRecipes() error {
	type recipe struct {
		Title    string   `json:"title"`
		Tags     []string `json:"tags"`
		Calories float64  `json:"calories"`
		Protein  float64  `json:"protein"`
	}

	seed := []recipe{
		{"Smoke Oatmeal", []string{"breakfast", "main course"}, 250, 9},
		{"Smoke Apple", []string{"breakfast", "fruit"}, 80, 0},
		{"Smoke Yogurt", []string{"breakfast", "dairy"}, 110, 8},
		{"Smoke Chicken Bowl", []string{"lunch", "main course"}, 450, 38},
		{"Smoke Lentil Soup", []string{"lunch", "soup"}, 140, 8},
		{"Smoke Baked Cod", []string{"dinner", "main course"}, 320, 32},
		{"Smoke Miso Soup", []string{"dinner", "soup"}, 90, 4},
		{"Smoke Banana Toast", []string{"pre-workout", "main course"}, 180, 5},
		{"Smoke Recovery Shake", []string{"post-workout", "main course"}, 200, 28},
	}
	for i := 0; i < 25; i++ {
		seed = append(seed, recipe{
			Title:    fmt.Sprintf("Smoke Filler %d", i),
			Tags:     []string{"breakfast", "main course"},
			Calories: 150 + float64(i*10),
			Protein:  6,
		})
	}

	for _, r := range seed {
		resp, err := doRequest("POST", "/v1/recipes", r)
		if err != nil {
			return err
		}
		err = expectStatus(resp, http.StatusCreated)
		resp.Body.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func testUpsertTargets() error {
	payload := map[string]interface{}{
		"daily_calories": 2200,
		"goal":           "muscle_gain",
	}
	resp, err := doRequest("PUT", "/v1/nutrition/targets", payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return expectStatus(resp, http.StatusOK)
}

func testGeneratePlan() error {
	resp, err := doRequest("POST", "/v1/plans/generate", map[string]interface{}{})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return err
	}

	var result struct {
		ID               string `json:"id"`
		GenerationMethod string `json:"generation_method"`
		Plan             struct {
			Days []json.RawMessage `json:"days"`
		} `json:"plan"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if len(result.Plan.Days) != 3 {
		return fmt.Errorf("expected 3 days, got %d", len(result.Plan.Days))
	}

	createdIDs["plan"] = result.ID
	return nil
}

func testExportPlan() error {
	planID := createdIDs["plan"]
	if planID == "" {
		return fmt.Errorf("no plan ID to export")
	}

	resp, err := doRequest("GET", "/v1/plans/"+planID+"/export", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusOK); err != nil {
		return err
	}

	var plan struct {
		Title string `json:"meal_plan_title"`
		Days  []struct {
			DayType string `json:"day_type"`
		} `json:"days"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if plan.Title == "" || len(plan.Days) != 3 {
		return fmt.Errorf("export shape wrong: title=%q days=%d", plan.Title, len(plan.Days))
	}
	return nil
}

func testRecipeFeedback() error {
	rating := 5
	liked := true
	resp, err := doRequest("POST", "/v1/recipes/1/feedback", map[string]interface{}{
		"rating": rating,
		"liked":  liked,
	})
	if err != nil {
		return err
	}
	err = expectStatus(resp, http.StatusOK)
	resp.Body.Close()
	if err != nil {
		return err
	}

	resp, err = doRequest("POST", "/v1/recipes/1/cooked", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return expectStatus(resp, http.StatusOK)
}

func testCreateReport() error {
	planID := createdIDs["plan"]
	if planID == "" {
		return fmt.Errorf("no plan ID for report")
	}

	resp, err := doRequest("POST", "/v1/reports", map[string]string{"plan_id": planID})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := expectStatus(resp, http.StatusCreated); err != nil {
		return err
	}

	var result struct {
		ID        string `json:"id"`
		SizeBytes int64  `json:"size_bytes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("decode failed: %w", err)
	}
	if result.SizeBytes < 100 {
		return fmt.Errorf("report size is %d bytes (too small)", result.SizeBytes)
	}

	createdIDs["report"] = result.ID
	return nil
}

func testDownloadReport() error {
	reportID := createdIDs["report"]
	if reportID == "" {
		return fmt.Errorf("no report ID to download")
	}

	// Don't follow redirects automatically - S3 mode answers with 302
	originalCheckRedirect := client.CheckRedirect
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	defer func() { client.CheckRedirect = originalCheckRedirect }()

	resp, err := doRequest("GET", "/v1/reports/"+reportID+"/download", nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Direct serve (local mode)
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read body: %w", err)
		}
		if !bytes.HasPrefix(data, []byte("%PDF")) {
			return fmt.Errorf("body is not a PDF document")
		}
		return nil

	case http.StatusFound:
		// Redirect (S3 mode)
		location := resp.Header.Get("Location")
		if location == "" {
			return fmt.Errorf("redirect without Location header")
		}

		getResp, err := client.Get(location)
		if err != nil {
			return fmt.Errorf("failed to follow redirect: %w", err)
		}
		defer getResp.Body.Close()

		if getResp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(getResp.Body, 4096))
			return fmt.Errorf("redirect failed: status=%d body=%s", getResp.StatusCode, string(body))
		}
		return nil

	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("unexpected status=%d body=%s", resp.StatusCode, string(body))
	}
}

func testDeleteReport() error {
	reportID := createdIDs["report"]
	if reportID == "" {
		return fmt.Errorf("no report ID to delete")
	}

	resp, err := doRequest("DELETE", "/v1/reports/"+reportID, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return expectStatus(resp, http.StatusNoContent)
}

func testDeletePlan() error {
	planID := createdIDs["plan"]
	if planID == "" {
		return fmt.Errorf("no plan ID to delete")
	}

	resp, err := doRequest("DELETE", "/v1/plans/"+planID, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return expectStatus(resp, http.StatusNoContent)
}

// Helper functions

func doRequest(method, path string, payload interface{}) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return client.Do(req)
}

func expectStatus(resp *http.Response, want int) error {
	if resp.StatusCode != want {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func maskString(s string) string {
	if s == "" {
		return "(not set)"
	}
	if len(s) <= 8 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}
