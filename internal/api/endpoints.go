package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/macroscoach/mcctl/internal/week"
)

// Health checks that the API is up
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, request{method: http.MethodGet, path: "/health"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDemoUser creates (or reuses) the demo account and returns its token
func (c *Client) CreateDemoUser(ctx context.Context) (*DemoUser, error) {
	var out DemoUser
	if err := c.do(ctx, request{method: http.MethodPost, path: "/users/demo"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its token
func (c *Client) Register(ctx context.Context, creds Credentials) (*Token, error) {
	var out Token
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: creds}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a token
func (c *Client) Login(ctx context.Context, creds Credentials) (*Token, error) {
	var out Token
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: creds}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the authenticated user
func (c *Client) Me(ctx context.Context) (*Me, error) {
	var out Me
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/me", authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LogWeight records a body weight measurement
func (c *Client) LogWeight(ctx context.Context, entry WeightEntry) (*Created, error) {
	var out Created
	if err := c.do(ctx, request{method: http.MethodPost, path: "/weight", body: entry, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Weights returns every measurement, oldest first
func (c *Client) Weights(ctx context.Context) ([]WeightLog, error) {
	var out []WeightLog
	if err := c.do(ctx, request{method: http.MethodGet, path: "/weights/all", authed: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WeightsRange returns the measurements between two dates, both inclusive
func (c *Client) WeightsRange(ctx context.Context, start, end time.Time) ([]WeightLog, error) {
	q := url.Values{}
	q.Set("start", week.Format(start))
	q.Set("end", week.Format(end))

	var out []WeightLog
	if err := c.do(ctx, request{method: http.MethodGet, path: "/weights/range", query: q, authed: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WeeklyWeights returns per-week weight statistics
func (c *Client) WeeklyWeights(ctx context.Context) ([]WeeklyWeight, error) {
	var out []WeeklyWeight
	if err := c.do(ctx, request{method: http.MethodGet, path: "/weights/weekly", authed: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// WeightTrend returns the weekly weight slope
func (c *Client) WeightTrend(ctx context.Context) (*WeightTrend, error) {
	var out WeightTrend
	if err := c.do(ctx, request{method: http.MethodGet, path: "/weights/trend", authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteWeight removes one measurement
func (c *Client) DeleteWeight(ctx context.Context, id int) (*Deleted, error) {
	var out Deleted
	path := "/weights/" + strconv.Itoa(id)
	if err := c.do(ctx, request{method: http.MethodDelete, path: path, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LogMeal records a meal
func (c *Client) LogMeal(ctx context.Context, meal Meal) (*Created, error) {
	var out Created
	if err := c.do(ctx, request{method: http.MethodPost, path: "/meals", body: meal, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MealsToday returns today's meals, totals and per-slot targets
func (c *Client) MealsToday(ctx context.Context) (*MealsToday, error) {
	var out MealsToday
	if err := c.do(ctx, request{method: http.MethodGet, path: "/meals/today", authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Meal returns one stored meal
func (c *Client) Meal(ctx context.Context, id int) (*MealDetail, error) {
	var out MealDetail
	path := "/meals/" + strconv.Itoa(id)
	if err := c.do(ctx, request{method: http.MethodGet, path: path, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteMeal removes one meal and its items
func (c *Client) DeleteMeal(ctx context.Context, id int) (*Deleted, error) {
	var out Deleted
	path := "/meals/" + strconv.Itoa(id)
	if err := c.do(ctx, request{method: http.MethodDelete, path: path, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateMeal renames or resizes the first item of a meal
func (c *Client) UpdateMeal(ctx context.Context, id int, update MealUpdate) (*MealItemUpdated, error) {
	var out MealItemUpdated
	path := "/meals/" + strconv.Itoa(id)
	if err := c.do(ctx, request{method: http.MethodPatch, path: path, body: update, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LogBarcodeMeal records a one-food meal, looking the product up by barcode.
// The parameters travel in the query string.
func (c *Client) LogBarcodeMeal(ctx context.Context, p BarcodeMealParams) (*BarcodeMeal, error) {
	const path = "/meals/add_from_barcode"
	if err := c.validate.Struct(p); err != nil {
		return nil, &Error{Kind: KindValidation, Method: http.MethodPost, Path: path, Err: err}
	}

	q := url.Values{}
	q.Set("code", p.Code)
	q.Set("grams", formatFloat(p.Grams))
	if p.Slot != "" {
		q.Set("slot", p.Slot)
	}
	if p.When != nil {
		q.Set("when", p.When.Format(time.RFC3339))
	}

	var out BarcodeMeal
	if err := c.do(ctx, request{method: http.MethodPost, path: path, query: q, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchFoods finds catalog foods whose name contains q. A zero limit uses the server default.
func (c *Client) SearchFoods(ctx context.Context, q string, limit int) ([]Food, error) {
	query := url.Values{}
	query.Set("q", q)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var out []Food
	if err := c.do(ctx, request{method: http.MethodGet, path: "/foods/search", query: query, authed: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentFoods returns the foods used most recently, restricted to one meal slot when slot is set
func (c *Client) RecentFoods(ctx context.Context, slot string, limit int) ([]RecentFood, error) {
	path := "/foods/recent"
	q := url.Values{}
	if slot != "" {
		path = "/foods/recent_by_slot"
		q.Set("slot", slot)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var out []RecentFood
	if err := c.do(ctx, request{method: http.MethodGet, path: path, query: q, authed: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// LookupBarcode asks the server to resolve a product barcode
func (c *Client) LookupBarcode(ctx context.Context, code string) (*Product, error) {
	var out Product
	path := "/foods/barcode/" + url.PathEscape(code)
	if err := c.do(ctx, request{method: http.MethodGet, path: path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveBarcode stores a product under a barcode, creating or replacing the catalog entry
func (c *Client) SaveBarcode(ctx context.Context, code string, product ProductConfirm) (*StoredFood, error) {
	var out StoredFood
	path := "/foods/barcode/" + url.PathEscape(code)
	if err := c.do(ctx, request{method: http.MethodPut, path: path, body: product, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Plan returns the user's macro plan; the server creates a default one on first access
func (c *Client) Plan(ctx context.Context) (*Plan, error) {
	var out Plan
	if err := c.do(ctx, request{method: http.MethodGet, path: "/plan", authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetPlan replaces the limits, slots and slot percentages of the plan
func (c *Client) SetPlan(ctx context.Context, plan Plan) (*OK, error) {
	var out OK
	if err := c.do(ctx, request{method: http.MethodPut, path: "/plan", body: plan, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Schedule returns the ON and OFF weekdays
func (c *Client) Schedule(ctx context.Context) (*Schedule, error) {
	var out Schedule
	if err := c.do(ctx, request{method: http.MethodGet, path: "/schedule", authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetSchedule replaces the ON and OFF weekdays
func (c *Client) SetSchedule(ctx context.Context, schedule Schedule) (*Schedule, error) {
	var out Schedule
	if err := c.do(ctx, request{method: http.MethodPut, path: "/schedule", body: schedule, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PingDB returns row counts from the server's database
func (c *Client) PingDB(ctx context.Context) (*DBStatus, error) {
	var out DBStatus
	if err := c.do(ctx, request{method: http.MethodGet, path: "/debug/pingdb"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LogWorkout records a training session
func (c *Client) LogWorkout(ctx context.Context, workout Workout) (*Created, error) {
	var out Created
	if err := c.do(ctx, request{method: http.MethodPost, path: "/workouts", body: workout, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Workouts returns every training session, newest first
func (c *Client) Workouts(ctx context.Context) ([]WorkoutLog, error) {
	var out []WorkoutLog
	if err := c.do(ctx, request{method: http.MethodGet, path: "/workouts/all", authed: true}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DaySummary returns the macros eaten on date
func (c *Client) DaySummary(ctx context.Context, date time.Time) (*DaySummary, error) {
	q := url.Values{}
	q.Set("date", week.Format(date))

	var out DaySummary
	if err := c.do(ctx, request{method: http.MethodGet, path: "/summary/day", query: q, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WeekSummary returns the macro totals of the week beginning at start
func (c *Client) WeekSummary(ctx context.Context, start time.Time) (*WeekSummary, error) {
	q := url.Values{}
	q.Set("start", week.Format(start))

	var out WeekSummary
	if err := c.do(ctx, request{method: http.MethodGet, path: "/summary/week", query: q, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// WeeklyCheck evaluates the weekly missions for the week beginning at p.Start
func (c *Client) WeeklyCheck(ctx context.Context, p WeeklyCheckParams) (*WeeklyCheck, error) {
	q := url.Values{}
	q.Set("start", week.Format(p.Start))
	q.Set("protein_target_g", formatFloat(p.ProteinTargetG))
	if p.KcalTarget > 0 {
		q.Set("kcal_target", formatFloat(p.KcalTarget))
	}
	q.Set("min_workouts", strconv.Itoa(p.MinWorkouts))

	var out WeeklyCheck
	if err := c.do(ctx, request{method: http.MethodGet, path: "/check/weekly", query: q, authed: true}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
