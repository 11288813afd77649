package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase    string
	client     = &http.Client{Timeout: 30 * time.Second}
	createdIDs = make(map[string]string) // track created resources for cleanup
)

func main() {
	fmt.Println("=== NutriLog E2E Smoke Test ===")
	fmt.Println()

	apiBase = strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBase), "/")
	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Println()

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Get Goals", testGetGoals},
		{"Create Reminder", testCreateReminder},
		{"Toggle Reminder", testToggleReminder},
		{"Add Manual Meal", testAddManualMeal},
		{"Estimate Meal", testEstimateMeal},
		{"Meal Summary", testMealSummary},
		{"Complete Workout", testCompleteWorkout},
		{"Dashboard Chart", testDashboardChart},
		{"Weekly Report (CSV)", testWeeklyReport},
		{"Delete Meal", testDeleteMeal},
		{"Delete Reminder", testDeleteReminder},
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
	_, err := doJSON("GET", "/healthz", nil, http.StatusOK, nil)
	return err
}

func testGetGoals() error {
	var goals struct {
		Calories float64 `json:"calories"`
	}
	if _, err := doJSON("GET", "/v1/goals", nil, http.StatusOK, &goals); err != nil {
		return err
	}
	if goals.Calories <= 0 {
		return fmt.Errorf("calorie goal not positive: %v", goals.Calories)
	}
	return nil
}

func testCreateReminder() error {
	var created struct {
		ID     string `json:"id"`
		Active bool   `json:"active"`
	}
	payload := map[string]string{"title": "Smoke reminder", "time": "06:45"}
	if _, err := doJSON("POST", "/v1/reminders", payload, http.StatusCreated, &created); err != nil {
		return err
	}
	if created.ID == "" || !created.Active {
		return fmt.Errorf("unexpected reminder: %+v", created)
	}
	createdIDs["reminder"] = created.ID
	return nil
}

func testToggleReminder() error {
	var toggled struct {
		Active bool `json:"active"`
	}
	if _, err := doJSON("POST", "/v1/reminders/"+createdIDs["reminder"]+"/toggle", nil, http.StatusOK, &toggled); err != nil {
		return err
	}
	if toggled.Active {
		return fmt.Errorf("reminder still active after toggle")
	}
	return nil
}

func testAddManualMeal() error {
	var meal struct {
		ID string `json:"id"`
	}
	payload := map[string]interface{}{"name": "Smoke toast", "calories": 180, "carbs": 30}
	if _, err := doJSON("POST", "/v1/meals", payload, http.StatusCreated, &meal); err != nil {
		return err
	}
	createdIDs["meal"] = meal.ID
	return nil
}

func testEstimateMeal() error {
	var task struct {
		ID    string `json:"id"`
		State string `json:"state"`
		Error string `json:"error"`
	}
	payload := map[string]string{"description": "a bowl of oatmeal with banana"}
	if _, err := doJSON("POST", "/v1/meals/estimate", payload, http.StatusAccepted, &task); err != nil {
		return err
	}

	deadline := time.Now().Add(60 * time.Second)
	for task.State == "pending" {
		if time.Now().After(deadline) {
			return fmt.Errorf("task %s still pending", task.ID)
		}
		time.Sleep(500 * time.Millisecond)
		if _, err := doJSON("GET", "/v1/tasks/"+task.ID, nil, http.StatusOK, &task); err != nil {
			return err
		}
	}

	if task.State != "succeeded" {
		return fmt.Errorf("estimate ended %s: %s", task.State, task.Error)
	}
	return nil
}

func testMealSummary() error {
	var summary struct {
		Totals struct {
			Calories float64 `json:"calories"`
		} `json:"totals"`
	}
	if _, err := doJSON("GET", "/v1/meals/summary", nil, http.StatusOK, &summary); err != nil {
		return err
	}
	if summary.Totals.Calories < 180 {
		return fmt.Errorf("summary calories too low: %v", summary.Totals.Calories)
	}
	return nil
}

func testCompleteWorkout() error {
	payload := map[string]interface{}{"title": "Smoke Cardio", "duration": "20 minutes", "calories_burned": 150}
	_, err := doJSON("POST", "/v1/workouts/complete", payload, http.StatusCreated, nil)
	return err
}

func testDashboardChart() error {
	var chart struct {
		Points []struct {
			Label string `json:"label"`
		} `json:"points"`
	}
	if _, err := doJSON("GET", "/v1/dashboard/chart", nil, http.StatusOK, &chart); err != nil {
		return err
	}
	if len(chart.Points) != 7 {
		return fmt.Errorf("expected 7 chart points, got %d", len(chart.Points))
	}
	return nil
}

func testWeeklyReport() error {
	body, err := doJSON("GET", "/v1/reports/weekly?format=csv", nil, http.StatusOK, nil)
	if err != nil {
		return err
	}
	if !bytes.Contains(body, []byte("Today")) {
		return fmt.Errorf("report has no row for today")
	}
	return nil
}

func testDeleteMeal() error {
	_, err := doJSON("DELETE", "/v1/meals/"+createdIDs["meal"], nil, http.StatusNoContent, nil)
	return err
}

func testDeleteReminder() error {
	_, err := doJSON("DELETE", "/v1/reminders/"+createdIDs["reminder"], nil, http.StatusNoContent, nil)
	return err
}

// doJSON sends payload (if any), checks the status and decodes into out (if any).
func doJSON(method, path string, payload interface{}, wantStatus int, out interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiBase+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != wantStatus {
		return nil, fmt.Errorf("status=%d body=%s", resp.StatusCode, truncate(string(body), 4096))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("decode failed: %w", err)
		}
	}
	return body, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
