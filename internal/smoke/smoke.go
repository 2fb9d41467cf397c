// Package smoke runs a minimal end-to-end check against a running API
package smoke

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/macroscoach/mcctl/internal/api"
	"github.com/macroscoach/mcctl/internal/week"
)

// Client is the part of the API the smoke test exercises
type Client interface {
	Health(ctx context.Context) (*api.Health, error)
	LoginDemo(ctx context.Context) (*api.DemoUser, error)
	LogWeight(ctx context.Context, entry api.WeightEntry) (*api.Created, error)
	LogMeal(ctx context.Context, meal api.Meal) (*api.Created, error)
	LogWorkout(ctx context.Context, workout api.Workout) (*api.Created, error)
	MealsToday(ctx context.Context) (*api.MealsToday, error)
	DaySummary(ctx context.Context, date time.Time) (*api.DaySummary, error)
	WeekSummary(ctx context.Context, start time.Time) (*api.WeekSummary, error)
}

// Step names, in execution order
const (
	StepHealth      = "health"
	StepDemoUser    = "demo-user"
	StepLogWeight   = "log-weight"
	StepLogMeal     = "log-meal"
	StepLogWorkout  = "log-workout"
	StepMealsToday  = "meals-today"
	StepSummaryDay  = "summary-day"
	StepSummaryWeek = "summary-week"
)

// Sample payloads posted by the smoke test
var (
	SampleWeight = api.WeightEntry{Kg: 78.4}

	SampleMeal = api.Meal{
		Slot: "pranzo",
		Items: []api.MealItem{
			{FoodName: "petto di pollo", Grams: 200, Pro: 31, Carb: 0, Fat: 3.6},
			{FoodName: "riso basmati", Grams: 80, Pro: 7, Carb: 78, Fat: 0.6},
		},
	}

	SampleWorkout = api.Workout{
		Sets: []api.WorkoutSet{
			{Exercise: "squat", Reps: 5, WeightKg: 100},
			{Exercise: "panca piana", Reps: 8, WeightKg: 70},
		},
	}
)

// Step is one checked request
type Step struct {
	Name string
	Run  func(ctx context.Context) (any, error)
}

// Result records the outcome of a step
type Result struct {
	Step     string
	Status   string
	Duration time.Duration
	Body     any
	Err      error
}

// Report collects the results of a run
type Report struct {
	Today     time.Time
	WeekStart time.Time
	Results   []Result
}

// Failed returns the number of failed steps
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusFail {
			n++
		}
	}
	return n
}

// Step result statuses
const (
	StatusPass = "pass"
	StatusFail = "fail"
	StatusSkip = "skip"
)

// StepError is returned when a step fails
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("smoke step %s failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Options configures a Runner
type Options struct {
	// KeepGoing continues past failed steps, except a failed token check
	KeepGoing bool
	Now       func() time.Time
	Logger    *slog.Logger
}

// Runner executes the smoke steps strictly in order
type Runner struct {
	client Client
	opts   Options
}

// NewRunner creates a smoke test runner
func NewRunner(client Client, opts Options) *Runner {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{client: client, opts: opts}
}

// Steps returns the ordered steps for a run on today
func (r *Runner) Steps(today time.Time) []Step {
	weekStart := week.Start(today)

	return []Step{
		{StepHealth, func(ctx context.Context) (any, error) {
			h, err := r.client.Health(ctx)
			if err != nil {
				return nil, err
			}
			if !h.OK {
				return h, errors.New("health endpoint did not report ok")
			}
			return h, nil
		}},
		{StepDemoUser, func(ctx context.Context) (any, error) {
			return r.client.LoginDemo(ctx)
		}},
		{StepLogWeight, func(ctx context.Context) (any, error) {
			return r.client.LogWeight(ctx, SampleWeight)
		}},
		{StepLogMeal, func(ctx context.Context) (any, error) {
			return r.client.LogMeal(ctx, SampleMeal)
		}},
		{StepLogWorkout, func(ctx context.Context) (any, error) {
			return r.client.LogWorkout(ctx, SampleWorkout)
		}},
		{StepMealsToday, func(ctx context.Context) (any, error) {
			return r.client.MealsToday(ctx)
		}},
		{StepSummaryDay, func(ctx context.Context) (any, error) {
			return r.client.DaySummary(ctx, today)
		}},
		{StepSummaryWeek, func(ctx context.Context) (any, error) {
			return r.client.WeekSummary(ctx, weekStart)
		}},
	}
}

// Run executes every step. It returns the report together with a *StepError
// for the first failure. A failed demo-user step always stops the run since
// every later step depends on its token.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	today := week.Today(r.opts.Now)
	report := &Report{Today: today, WeekStart: week.Start(today)}

	var firstErr error
	stopped := false

	for _, step := range r.Steps(today) {
		if stopped {
			report.Results = append(report.Results, Result{Step: step.Name, Status: StatusSkip})
			continue
		}

		start := time.Now()
		body, err := step.Run(ctx)
		res := Result{Step: step.Name, Duration: time.Since(start), Body: body, Err: err, Status: StatusPass}

		if err != nil {
			res.Status = StatusFail
			r.opts.Logger.Debug("smoke step failed", "step", step.Name, "error", err)
			if firstErr == nil {
				firstErr = &StepError{Step: step.Name, Err: err}
			}
			if !r.opts.KeepGoing || step.Name == StepDemoUser || ctx.Err() != nil {
				stopped = true
			}
		} else {
			r.opts.Logger.Debug("smoke step passed", "step", step.Name, "duration", res.Duration)
		}

		report.Results = append(report.Results, res)
	}

	return report, firstErr
}
