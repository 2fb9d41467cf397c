package smoke

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macroscoach/mcctl/internal/api"
)

// fakeAPI records the requests it receives and answers like the real server
type fakeAPI struct {
	mu       sync.Mutex
	calls    []string
	queries  map[string]string
	token    string
	failPath string
}

func (f *fakeAPI) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.calls = append(f.calls, r.Method+" "+r.URL.Path)
		if f.queries == nil {
			f.queries = map[string]string{}
		}
		f.queries[r.URL.Path] = r.URL.RawQuery
		f.mu.Unlock()

		if r.URL.Path == f.failPath {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		if r.URL.Path != "/health" && r.URL.Path != "/users/demo" && f.token != "" {
			assert.Equal(t, "Bearer "+f.token, r.Header.Get("Authorization"), r.URL.Path)
		}

		var body any
		switch r.URL.Path {
		case "/health":
			body = map[string]any{"ok": true}
		case "/users/demo":
			body = map[string]any{"user_id": 1, "access_token": f.token}
		case "/weight", "/meals", "/workouts":
			body = map[string]any{"ok": true, "user_id": 1}
		case "/meals/today":
			body = map[string]any{"is_on": false, "meals": []any{}}
		case "/summary/day":
			body = map[string]any{"user_id": 1, "kcal": 0}
		case "/summary/week":
			body = map[string]any{"week_start": r.URL.Query().Get("start"), "totals": map[string]any{}}
		default:
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}
}

func newRunner(t *testing.T, fake *fakeAPI, auth string, opts Options) *Runner {
	t.Helper()
	server := httptest.NewServer(fake.handler(t))
	t.Cleanup(server.Close)

	client, err := api.NewClient(api.Options{BaseURL: server.URL, Timeout: 5 * time.Second, Auth: auth})
	require.NoError(t, err)

	if opts.Now == nil {
		// Thursday
		opts.Now = func() time.Time { return time.Date(2024, 5, 16, 18, 30, 0, 0, time.Local) }
	}
	return NewRunner(client, opts)
}

func statuses(r *Report) []string {
	out := make([]string, len(r.Results))
	for i, res := range r.Results {
		out[i] = res.Step + "=" + res.Status
	}
	return out
}

func TestRunner_AllStepsPass(t *testing.T) {
	fake := &fakeAPI{token: "tok"}
	runner := newRunner(t, fake, api.AuthBearer, Options{})

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Failed())

	assert.Equal(t, []string{
		"GET /health",
		"POST /users/demo",
		"POST /weight",
		"POST /meals",
		"POST /workouts",
		"GET /meals/today",
		"GET /summary/day",
		"GET /summary/week",
	}, fake.calls)

	assert.Equal(t, "date=2024-05-16", fake.queries["/summary/day"])
	assert.Equal(t, "start=2024-05-13", fake.queries["/summary/week"])
	assert.Equal(t, "2024-05-13", report.WeekStart.Format("2006-01-02"))

	for _, res := range report.Results {
		assert.Equal(t, StatusPass, res.Status, res.Step)
		assert.NotNil(t, res.Body, res.Step)
	}
}

func TestRunner_MissingTokenAbortsInBearerMode(t *testing.T) {
	fake := &fakeAPI{}
	runner := newRunner(t, fake, api.AuthBearer, Options{KeepGoing: true})

	report, err := runner.Run(context.Background())
	require.Error(t, err)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepDemoUser, stepErr.Step)
	assert.True(t, api.IsKind(err, api.KindUnauthorized))
	assert.ErrorIs(t, err, api.ErrNoToken)

	assert.Equal(t, []string{"GET /health", "POST /users/demo"}, fake.calls)
	assert.Equal(t, []string{
		"health=pass", "demo-user=fail", "log-weight=skip", "log-meal=skip",
		"log-workout=skip", "meals-today=skip", "summary-day=skip", "summary-week=skip",
	}, statuses(report))
}

func TestRunner_TokenlessModeContinues(t *testing.T) {
	fake := &fakeAPI{}
	runner := newRunner(t, fake, api.AuthNone, Options{})

	report, err := runner.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, fake.calls, 8)
	assert.Equal(t, 0, report.Failed())
}

func TestRunner_StopsAtFirstFailure(t *testing.T) {
	fake := &fakeAPI{token: "tok", failPath: "/meals"}
	runner := newRunner(t, fake, api.AuthBearer, Options{})

	report, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smoke step log-meal failed")
	assert.True(t, api.IsKind(err, api.KindStatus))

	assert.Equal(t, []string{"GET /health", "POST /users/demo", "POST /weight", "POST /meals"}, fake.calls)
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, StatusSkip, report.Results[len(report.Results)-1].Status)
}

func TestRunner_KeepGoing(t *testing.T) {
	fake := &fakeAPI{token: "tok", failPath: "/meals"}
	runner := newRunner(t, fake, api.AuthBearer, Options{KeepGoing: true})

	report, err := runner.Run(context.Background())
	require.Error(t, err)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepLogMeal, stepErr.Step)

	assert.Len(t, fake.calls, 8)
	assert.Equal(t, 1, report.Failed())
}

func TestRunner_HealthNotOK(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": false}`))
	}))
	t.Cleanup(server.Close)

	client, err := api.NewClient(api.Options{BaseURL: server.URL, Timeout: time.Second})
	require.NoError(t, err)

	report, err := NewRunner(client, Options{}).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusFail, report.Results[0].Status)
	assert.Equal(t, StatusSkip, report.Results[1].Status)
}

func TestRunner_StepsOrder(t *testing.T) {
	runner := NewRunner(nil, Options{})
	var names []string
	for _, s := range runner.Steps(time.Now()) {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		StepHealth, StepDemoUser, StepLogWeight, StepLogMeal,
		StepLogWorkout, StepMealsToday, StepSummaryDay, StepSummaryWeek,
	}, names)
}

func TestSamplePayloadsAreValid(t *testing.T) {
	assert.NotEmpty(t, SampleMeal.Items)
	assert.NotEmpty(t, SampleWorkout.Sets)
	assert.Greater(t, SampleWeight.Kg, 0.0)
}
