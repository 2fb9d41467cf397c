package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/macroscoach/mcctl/internal/api"
	"github.com/macroscoach/mcctl/internal/output"
)

func TestWeightLog_PostsMeasurement(t *testing.T) {
	srv := newFakeAPI(t)
	buf := setupCmdTest(t)
	resetFlags(t, weightLogCmd)
	rootCmd.SetArgs([]string{"weight", "log", "78.4", "--when", "2024-05-13 07:30", "--base-url", srv.url, "--token", "tok"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("weight log failed: %v", err)
	}

	var entry api.WeightEntry
	srv.decodeBody(t, "POST /weight", &entry)
	if entry.Kg != 78.4 {
		t.Errorf("expected kg 78.4, got %v", entry.Kg)
	}
	if want := time.Date(2024, 5, 13, 7, 30, 0, 0, time.Local); entry.When == nil || !entry.When.Equal(want) {
		t.Errorf("expected when %v, got %v", want, entry.When)
	}
	if !strings.Contains(buf.String(), "Logged 78.4 kg") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestWeightLog_RejectsNonNumber(t *testing.T) {
	srv := newFakeAPI(t)
	setupCmdTest(t)
	resetFlags(t, weightLogCmd)
	rootCmd.SetArgs([]string{"weight", "log", "heavy", "--base-url", srv.url, "--token", "tok"})

	err := rootCmd.Execute()
	if code := exitCode(t, err); code != output.ExitUsageError {
		t.Errorf("expected exit code %d, got %d", output.ExitUsageError, code)
	}
	if len(srv.calls) != 0 {
		t.Errorf("expected no requests, got %v", srv.calls)
	}
}

func TestWeightList_InvalidRange(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"start without end", []string{"--start", "2024-05-01"}},
		{"end without start", []string{"--end", "2024-05-31"}},
		{"end before start", []string{"--start", "2024-05-10", "--end", "2024-05-01"}},
		{"bad start", []string{"--start", "01/05/2024", "--end", "2024-05-31"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeAPI(t)
			setupCmdTest(t)
			resetFlags(t, weightListCmd)
			rootCmd.SetArgs(append([]string{"weight", "list", "--base-url", srv.url, "--token", "tok"}, tt.args...))

			err := rootCmd.Execute()
			if code := exitCode(t, err); code != output.ExitUsageError {
				t.Errorf("expected exit code %d, got %d", output.ExitUsageError, code)
			}
			if len(srv.calls) != 0 {
				t.Errorf("expected no requests, got %v", srv.calls)
			}
		})
	}
}

func TestWeightList_RangeQuery(t *testing.T) {
	srv := newFakeAPI(t)
	buf := setupCmdTest(t)
	resetFlags(t, weightListCmd)
	rootCmd.SetArgs([]string{"weight", "list", "--start", "2024-05-01", "--end", "2024-05-31", "--base-url", srv.url, "--token", "tok"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("weight list failed: %v", err)
	}
	if got := srv.queries["/weights/range"]; got != "end=2024-05-31&start=2024-05-01" {
		t.Errorf("unexpected range query %q", got)
	}
	if srv.called("GET /weights/all") != 0 {
		t.Errorf("expected only the range endpoint, calls: %v", srv.calls)
	}
	if !strings.Contains(buf.String(), "78.4") {
		t.Errorf("expected the measurement in output:\n%s", buf.String())
	}
}

func TestMealLog_PostsItemsAndSlot(t *testing.T) {
	srv := newFakeAPI(t)
	setupCmdTest(t)
	resetFlags(t, mealLogCmd)
	rootCmd.SetArgs([]string{"meal", "log",
		"--item", "caffè: ristretto:30",
		"--item", "petto di pollo:200:31:0:3.6",
		"--slot", "pranzo",
		"--base-url", srv.url, "--token", "tok"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("meal log failed: %v", err)
	}

	var meal api.Meal
	srv.decodeBody(t, "POST /meals", &meal)
	if meal.Slot != "pranzo" || meal.When != nil {
		t.Errorf("unexpected slot or time: %+v", meal)
	}
	if len(meal.Items) != 2 {
		t.Fatalf("expected 2 items, got %+v", meal.Items)
	}
	if meal.Items[0].FoodName != "caffè: ristretto" || meal.Items[0].Grams != 30 {
		t.Errorf("unexpected first item: %+v", meal.Items[0])
	}
	if meal.Items[1].Pro != 31 || meal.Items[1].Fat != 3.6 {
		t.Errorf("unexpected second item: %+v", meal.Items[1])
	}
}

func TestMealLog_InvalidItemSendsNothing(t *testing.T) {
	srv := newFakeAPI(t)
	setupCmdTest(t)
	resetFlags(t, mealLogCmd)
	rootCmd.SetArgs([]string{"meal", "log", "--item", "mela:x", "--base-url", srv.url, "--token", "tok"})

	err := rootCmd.Execute()
	if code := exitCode(t, err); code != output.ExitUsageError {
		t.Errorf("expected exit code %d, got %d", output.ExitUsageError, code)
	}
	if len(srv.calls) != 0 {
		t.Errorf("expected no requests, got %v", srv.calls)
	}
}

func TestMealUpdate(t *testing.T) {
	srv := newFakeAPI(t)
	buf := setupCmdTest(t)
	resetFlags(t, mealUpdateCmd)
	rootCmd.SetArgs([]string{"meal", "update", "7", "--grams", "90", "--base-url", srv.url, "--token", "tok"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("meal update failed: %v", err)
	}

	var body map[string]any
	srv.decodeBody(t, "PATCH /meals/7", &body)
	if body["grams"] != 90.0 {
		t.Errorf("expected grams 90, got %v", body)
	}
	if _, ok := body["food_name"]; ok {
		t.Errorf("expected food_name to be left out, got %v", body)
	}
	if !strings.Contains(buf.String(), "Updated meal 7") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestMealUpdate_NothingToUpdate(t *testing.T) {
	srv := newFakeAPI(t)
	setupCmdTest(t)
	resetFlags(t, mealUpdateCmd)
	rootCmd.SetArgs([]string{"meal", "update", "7", "--base-url", srv.url, "--token", "tok"})

	err := rootCmd.Execute()
	if code := exitCode(t, err); code != output.ExitUsageError {
		t.Errorf("expected exit code %d, got %d", output.ExitUsageError, code)
	}
	if len(srv.calls) != 0 {
		t.Errorf("expected no requests, got %v", srv.calls)
	}
}

func TestMealBarcode(t *testing.T) {
	srv := newFakeAPI(t)
	buf := setupCmdTest(t)
	resetFlags(t, mealBarcodeCmd)
	rootCmd.SetArgs([]string{"meal", "barcode", "8001120791234", "--grams", "40", "--slot", "colazione", "--base-url", srv.url, "--token", "tok"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("meal barcode failed: %v", err)
	}
	if got := srv.queries["/meals/add_from_barcode"]; got != "code=8001120791234&grams=40&slot=colazione" {
		t.Errorf("unexpected query %q", got)
	}
	if !strings.Contains(buf.String(), "Logged meal 8") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestMealBarcode_NonNumericCodeSendsNothing(t *testing.T) {
	srv := newFakeAPI(t)
	setupCmdTest(t)
	resetFlags(t, mealBarcodeCmd)
	rootCmd.SetArgs([]string{"meal", "barcode", "abc", "--grams", "40", "--base-url", srv.url, "--token", "tok"})

	err := rootCmd.Execute()
	if code := exitCode(t, err); code != output.ExitUsageError {
		t.Errorf("expected exit code %d, got %d", output.ExitUsageError, code)
	}
	if len(srv.calls) != 0 {
		t.Errorf("expected no requests, got %v", srv.calls)
	}
}

func TestWorkoutLog_PostsSets(t *testing.T) {
	srv := newFakeAPI(t)
	buf := setupCmdTest(t)
	resetFlags(t, workoutLogCmd)
	rootCmd.SetArgs([]string{"workout", "log", "--set", "squat:5:100", "--set", "trazioni:10", "--base-url", srv.url, "--token", "tok"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("workout log failed: %v", err)
	}

	var workout api.Workout
	srv.decodeBody(t, "POST /workouts", &workout)
	want := []api.WorkoutSet{{Exercise: "squat", Reps: 5, WeightKg: 100}, {Exercise: "trazioni", Reps: 10}}
	if len(workout.Sets) != len(want) {
		t.Fatalf("expected %d sets, got %+v", len(want), workout.Sets)
	}
	for i := range want {
		if workout.Sets[i] != want[i] {
			t.Errorf("set %d = %+v, want %+v", i, workout.Sets[i], want[i])
		}
	}
	if !strings.Contains(buf.String(), "Logged workout 3 (2 sets)") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestAuth_PostsCredentials(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		call     string
		timezone string
	}{
		{"register", []string{"auth", "register", "--timezone", "Europe/Rome"}, "POST /auth/register", "Europe/Rome"},
		{"login", []string{"auth", "login"}, "POST /auth/login", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeAPI(t)
			buf := setupCmdTest(t)
			resetFlags(t, authRegisterCmd, authLoginCmd)
			rootCmd.SetArgs(append(tt.args, "--email", "anna@example.com", "--password", "segreta", "--base-url", srv.url))

			if err := rootCmd.Execute(); err != nil {
				t.Fatalf("%s failed: %v", tt.name, err)
			}

			var creds api.Credentials
			srv.decodeBody(t, tt.call, &creds)
			if creds.Email != "anna@example.com" || creds.Password != "segreta" || creds.Timezone != tt.timezone {
				t.Errorf("unexpected credentials: %+v", creds)
			}
			if !strings.Contains(buf.String(), "Authenticated as anna@example.com") {
				t.Errorf("unexpected output:\n%s", buf.String())
			}
		})
	}
}

func TestAuthLogin_InvalidEmailSendsNothing(t *testing.T) {
	srv := newFakeAPI(t)
	setupCmdTest(t)
	resetFlags(t, authLoginCmd)
	rootCmd.SetArgs([]string{"auth", "login", "--email", "anna", "--password", "segreta", "--base-url", srv.url})

	err := rootCmd.Execute()
	if code := exitCode(t, err); code != output.ExitUsageError {
		t.Errorf("expected exit code %d, got %d", output.ExitUsageError, code)
	}
	if len(srv.calls) != 0 {
		t.Errorf("expected no requests, got %v", srv.calls)
	}
}

func TestHealth_DB(t *testing.T) {
	srv := newFakeAPI(t)
	buf := setupCmdTest(t)
	resetFlags(t, healthCmd)
	rootCmd.SetArgs([]string{"health", "--db", "--base-url", srv.url})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("health --db failed: %v", err)
	}
	if srv.called("GET /debug/pingdb") != 1 {
		t.Errorf("expected a database check, calls: %v", srv.calls)
	}
	for _, want := range []string{"healthy", "users", "14"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, buf.String())
		}
	}
}

func TestPlanShow(t *testing.T) {
	srv := newFakeAPI(t)
	buf := setupCmdTest(t)
	rootCmd.SetArgs([]string{"plan", "show", "--base-url", srv.url, "--token", "tok"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("plan show failed: %v", err)
	}
	for _, want := range []string{"2600", "2200", "12:00-15:00", "none", "100.0"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, buf.String())
		}
	}
}

const planYAML = `on_limits: {kcal: 2600, carb: 360, pro: 194, fat: 45}
off_limits: {kcal: 2200, carb: 200, pro: 194, fat: 55}
on_distributions:
  - {name: pranzo, sort_order: 0, start_min: 720, end_min: 900}
  - {name: cena, sort_order: 1, start_min: 1140, end_min: 1320}
off_distributions:
  - {name: cena, sort_order: 0}
on_pcts:
  - {name: pranzo, pct_carb: 60, pct_pro: 50, pct_fat: 40}
  - {name: cena, pct_carb: 40, pct_pro: 50, pct_fat: 60}
`

func TestPlanSet_FromFile(t *testing.T) {
	srv := newFakeAPI(t)
	buf := setupCmdTest(t)
	resetFlags(t, planSetCmd)
	path := filepath.Join(t.TempDir(), "plan.yaml")
	if err := os.WriteFile(path, []byte(planYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	rootCmd.SetArgs([]string{"plan", "set", "--file", path, "--base-url", srv.url, "--token", "tok"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("plan set failed: %v", err)
	}

	var plan api.Plan
	srv.decodeBody(t, "PUT /plan", &plan)
	if plan.OnLimits.Kcal != 2600 || plan.OffLimits.Fat != 55 {
		t.Errorf("unexpected limits: %+v %+v", plan.OnLimits, plan.OffLimits)
	}
	if len(plan.OnDistributions) != 2 || plan.OnDistributions[1].StartMin == nil || *plan.OnDistributions[1].StartMin != 1140 {
		t.Errorf("unexpected ON slots: %+v", plan.OnDistributions)
	}
	if len(plan.OffDistributions) != 1 || plan.OffDistributions[0].StartMin != nil {
		t.Errorf("unexpected OFF slots: %+v", plan.OffDistributions)
	}
	if !strings.Contains(buf.String(), "Plan saved (2 ON slots, 1 OFF slots)") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestPlanSet_FromStdinJSON(t *testing.T) {
	srv := newFakeAPI(t)
	setupCmdTest(t)
	resetFlags(t, planSetCmd)
	plan := `{"on_limits": {"kcal": 2500, "carb": 300, "pro": 180, "fat": 60}, "on_distributions": [{"name": "pranzo", "sort_order": 0, "start_min": null, "end_min": null}]}`
	rootCmd.SetIn(strings.NewReader(plan))
	t.Cleanup(func() { rootCmd.SetIn(nil) })
	rootCmd.SetArgs([]string{"plan", "set", "--file", "-", "--base-url", srv.url, "--token", "tok"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("plan set from stdin failed: %v", err)
	}

	var sent api.Plan
	srv.decodeBody(t, "PUT /plan", &sent)
	if sent.OnLimits.Kcal != 2500 || len(sent.OnDistributions) != 1 {
		t.Errorf("unexpected plan: %+v", sent)
	}
}

func TestPlanSet_RejectedLocally(t *testing.T) {
	tests := []struct {
		name string
		plan string
	}{
		{"percentages off", "on_pcts:\n  - {name: pranzo, pct_carb: 90, pct_pro: 100, pct_fat: 100}\n"},
		{"window past midnight", "on_distributions:\n  - {name: cena, start_min: 1200, end_min: 1500}\n"},
		{"not yaml", "on_limits: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeAPI(t)
			setupCmdTest(t)
			resetFlags(t, planSetCmd)
			path := filepath.Join(t.TempDir(), "plan.yaml")
			if err := os.WriteFile(path, []byte(tt.plan), 0o600); err != nil {
				t.Fatal(err)
			}
			rootCmd.SetArgs([]string{"plan", "set", "--file", path, "--base-url", srv.url, "--token", "tok"})

			err := rootCmd.Execute()
			if code := exitCode(t, err); code != output.ExitUsageError {
				t.Errorf("expected exit code %d, got %d", output.ExitUsageError, code)
			}
			if len(srv.calls) != 0 {
				t.Errorf("expected no requests, got %v", srv.calls)
			}
		})
	}
}

func TestScheduleShow(t *testing.T) {
	srv := newFakeAPI(t)
	buf := setupCmdTest(t)
	rootCmd.SetArgs([]string{"schedule", "show", "--base-url", srv.url, "--token", "tok"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("schedule show failed: %v", err)
	}
	for _, want := range []string{"ON:  mon wed fri", "OFF: tue thu sat sun"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, buf.String())
		}
	}
}

func TestScheduleSet_SendsServerWeekdays(t *testing.T) {
	srv := newFakeAPI(t)
	buf := setupCmdTest(t)
	resetFlags(t, scheduleSetCmd)
	rootCmd.SetArgs([]string{"schedule", "set", "--on", "mon,wednesday,5", "--off", "Sun", "--base-url", srv.url, "--token", "tok"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("schedule set failed: %v", err)
	}

	var schedule api.Schedule
	srv.decodeBody(t, "PUT /schedule", &schedule)
	on, _ := json.Marshal(schedule.OnDays)
	off, _ := json.Marshal(schedule.OffDays)
	if string(on) != "[0,2,4]" || string(off) != "[6]" {
		t.Errorf("unexpected days: on %s, off %s", on, off)
	}
	if !strings.Contains(buf.String(), "ON:  mon wed fri") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}

func TestScheduleSet_RejectedLocally(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no days", nil},
		{"unknown day", []string{"--on", "funday"}},
		{"day on both lists", []string{"--on", "mon,tue", "--off", "tue"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFakeAPI(t)
			setupCmdTest(t)
			resetFlags(t, scheduleSetCmd)
			rootCmd.SetArgs(append([]string{"schedule", "set", "--base-url", srv.url, "--token", "tok"}, tt.args...))

			err := rootCmd.Execute()
			if code := exitCode(t, err); code != output.ExitUsageError {
				t.Errorf("expected exit code %d, got %d", output.ExitUsageError, code)
			}
			if len(srv.calls) != 0 {
				t.Errorf("expected no requests, got %v", srv.calls)
			}
		})
	}
}

func TestFoodSearch(t *testing.T) {
	srv := newFakeAPI(t)
	buf := setupCmdTest(t)
	resetFlags(t, foodSearchCmd)
	rootCmd.SetArgs([]string{"food", "search", "riso", "--limit", "5", "--base-url", srv.url, "--token", "tok"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("food search failed: %v", err)
	}
	if got := srv.queries["/foods/search"]; got != "limit=5&q=riso" {
		t.Errorf("unexpected query %q", got)
	}
	if !strings.Contains(buf.String(), "riso basmati") {
		t.Errorf("expected the food in output:\n%s", buf.String())
	}
}

func TestFoodRecent_BySlot(t *testing.T) {
	srv := newFakeAPI(t)
	buf := setupCmdTest(t)
	resetFlags(t, foodRecentCmd)
	rootCmd.SetArgs([]string{"food", "recent", "--slot", "colazione", "--base-url", srv.url, "--token", "tok"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("food recent failed: %v", err)
	}
	if srv.called("GET /foods/recent_by_slot") != 1 || srv.queries["/foods/recent_by_slot"] != "slot=colazione" {
		t.Errorf("expected the per-slot endpoint, calls: %v", srv.calls)
	}
	if !strings.Contains(buf.String(), "yogurt greco") {
		t.Errorf("expected the food in output:\n%s", buf.String())
	}
}

func TestFoodBarcode(t *testing.T) {
	srv := newFakeAPI(t)
	buf := setupCmdTest(t)
	rootCmd.SetArgs([]string{"food", "barcode", "8001120791234", "--base-url", srv.url})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("food barcode failed: %v", err)
	}
	for _, want := range []string{"fiocchi d'avena", "372.0", "13.0"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected %q in output:\n%s", want, buf.String())
		}
	}
}

func TestFoodSave_SendsOnlyGivenMacros(t *testing.T) {
	srv := newFakeAPI(t)
	buf := setupCmdTest(t)
	resetFlags(t, foodSaveCmd)
	rootCmd.SetArgs([]string{"food", "save", "8001120791234", "--name", "fiocchi d'avena", "--kcal", "372", "--base-url", srv.url, "--token", "tok"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("food save failed: %v", err)
	}

	var product api.ProductConfirm
	srv.decodeBody(t, "PUT /foods/barcode/8001120791234", &product)
	if product.Name != "fiocchi d'avena" {
		t.Errorf("unexpected name %q", product.Name)
	}
	if product.Per100g.Kcal == nil || *product.Per100g.Kcal != 372 || product.Per100g.Pro != nil {
		t.Errorf("unexpected macros: %+v", product.Per100g)
	}
	if !strings.Contains(buf.String(), "as food 9") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}
}
