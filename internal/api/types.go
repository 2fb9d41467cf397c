package api

import (
	"encoding/json"
	"time"
)

// Health is the /health response
type Health struct {
	OK bool `json:"ok"`
}

// DemoUser is returned when the demo account is created or reused
type DemoUser struct {
	UserID      int    `json:"user_id"`
	AccessToken string `json:"access_token"`
}

// Token is returned by register and login
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Credentials are sent to register and login
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Timezone string `json:"timezone,omitempty" validate:"omitempty,timezone"`
}

// Me describes the authenticated user
type Me struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Timezone string `json:"timezone"`
}

// Created is the acknowledgement returned by the write endpoints
type Created struct {
	OK        bool   `json:"ok"`
	UserID    int    `json:"user_id"`
	MealID    int    `json:"meal_id,omitempty"`
	WorkoutID int    `json:"workout_id,omitempty"`
	Slot      string `json:"slot,omitempty"`
}

// Deleted is the acknowledgement returned by the delete endpoints
type Deleted struct {
	OK              bool `json:"ok"`
	DeletedMealID   int  `json:"deleted_meal_id,omitempty"`
	DeletedWeightID int  `json:"deleted_weight_id,omitempty"`
}

// WeightEntry is a body weight measurement to record
type WeightEntry struct {
	When *time.Time `json:"when,omitempty"`
	Kg   float64    `json:"kg" validate:"gt=0,lt=1000"`
}

// WeightLog is a stored weight measurement
type WeightLog struct {
	ID   int     `json:"id"`
	When string  `json:"when"`
	Kg   float64 `json:"kg"`
}

// WeeklyWeight aggregates the measurements of one week
type WeeklyWeight struct {
	WeekStart string  `json:"week_start"`
	Avg       float64 `json:"avg"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	N         int     `json:"n"`
}

// WeightTrend is the least-squares weight slope; nil when there are fewer than two points
type WeightTrend struct {
	SlopeKgPerWeek *float64 `json:"slope_kg_per_week"`
}

// MealItem is one food in a meal, macros given per 100 g
type MealItem struct {
	FoodName string  `json:"food_name" validate:"required"`
	Grams    float64 `json:"grams" validate:"gt=0"`
	Pro      float64 `json:"pro" validate:"gte=0"`
	Carb     float64 `json:"carb" validate:"gte=0"`
	Fat      float64 `json:"fat" validate:"gte=0"`
}

// Meal is a meal to record. An empty slot lets the server pick one from the schedule.
type Meal struct {
	When  *time.Time `json:"when,omitempty"`
	Slot  string     `json:"slot,omitempty"`
	Items []MealItem `json:"items" validate:"required,min=1,dive"`
}

// MealDetail is a stored meal
type MealDetail struct {
	MealID int        `json:"meal_id"`
	When   string     `json:"when"`
	Slot   string     `json:"slot"`
	Items  []MealItem `json:"items"`
}

// Macros are energy and macronutrient totals
type Macros struct {
	Kcal float64 `json:"kcal"`
	Pro  float64 `json:"pro"`
	Carb float64 `json:"carb"`
	Fat  float64 `json:"fat"`
}

// MealSummary is one meal of today with its computed macros
type MealSummary struct {
	MealID int    `json:"meal_id"`
	When   string `json:"when"`
	Slot   string `json:"slot"`
	Macros
}

// SlotUsage compares the macros eaten in a slot with its target
type SlotUsage struct {
	Slot   string `json:"slot"`
	Used   Macros `json:"used"`
	Target Macros `json:"target"`
}

// MealsToday is the /meals/today response
type MealsToday struct {
	KcalLimits Macros        `json:"kcal_limits"`
	IsOn       bool          `json:"is_on"`
	DayTotals  Macros        `json:"day_totals"`
	BySlot     []SlotUsage   `json:"by_slot"`
	Meals      []MealSummary `json:"meals"`
}

// WorkoutSet is one set of an exercise
type WorkoutSet struct {
	Exercise string  `json:"exercise" validate:"required"`
	Reps     int     `json:"reps" validate:"gte=1"`
	WeightKg float64 `json:"weight_kg" validate:"gte=0"`
}

// Workout is a training session to record
type Workout struct {
	When *time.Time   `json:"when,omitempty"`
	Sets []WorkoutSet `json:"sets" validate:"dive"`
}

// WorkoutLog is a stored training session
type WorkoutLog struct {
	ID   int          `json:"id"`
	When string       `json:"when"`
	Sets []WorkoutSet `json:"sets"`
}

// DaySummary is the /summary/day response
type DaySummary struct {
	Macros
	UserID int `json:"user_id"`
}

// WeekSummary is the /summary/week response
type WeekSummary struct {
	WeekStart string `json:"week_start"`
	Totals    Macros `json:"totals"`
}

// Mission is one goal of the weekly check
type Mission struct {
	Name    string `json:"name"`
	DaysHit *int   `json:"days_hit,omitempty"`
	Done    *int   `json:"done,omitempty"`
	Target  *int   `json:"target,omitempty"`
}

// DayStats are the macros of one day of the checked week
type DayStats struct {
	Date string `json:"date"`
	Macros
}

// kcalDaysKey is how the server names the kcal mission; it is not a valid struct tag
const kcalDaysKey = "kcal_days_within_±10%"

// WeeklyCheck is the /check/weekly response
type WeeklyCheck struct {
	WeekStart string     `json:"week_start"`
	Missions  []Mission  `json:"missions"`
	Daily     []DayStats `json:"daily"`
	// KcalDaysOK counts days within 10% of the kcal target; nil without a target.
	// It travels under kcalDaysKey in both directions.
	KcalDaysOK *int `json:"-"`
}

// UnmarshalJSON reads the server's kcal mission key in addition to the tagged fields
func (w *WeeklyCheck) UnmarshalJSON(data []byte) error {
	type plain WeeklyCheck
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if raw, ok := fields[kcalDaysKey]; ok {
		var n *int
		if err := json.Unmarshal(raw, &n); err != nil {
			return err
		}
		p.KcalDaysOK = n
	}

	*w = WeeklyCheck(p)
	return nil
}

// MarshalJSON writes the kcal mission back under the server's key
func (w WeeklyCheck) MarshalJSON() ([]byte, error) {
	type plain WeeklyCheck
	data, err := json.Marshal(plain(w))
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	kcal, err := json.Marshal(w.KcalDaysOK)
	if err != nil {
		return nil, err
	}
	fields[kcalDaysKey] = kcal
	return json.Marshal(fields)
}

// WeeklyCheckParams are the query parameters of the weekly check
type WeeklyCheckParams struct {
	Start          time.Time
	ProteinTargetG float64
	// KcalTarget is omitted from the query when zero
	KcalTarget  float64
	MinWorkouts int
}

// MealUpdate changes the first item of a stored meal. Nil fields are left as is.
type MealUpdate struct {
	FoodName *string  `json:"food_name,omitempty" validate:"omitempty,min=1"`
	Grams    *float64 `json:"grams,omitempty" validate:"omitempty,gt=0"`
}

// MealItemUpdated is the item returned by a meal update
type MealItemUpdated struct {
	MealID   int     `json:"meal_id"`
	FoodName string  `json:"food_name"`
	Grams    float64 `json:"grams"`
	Pro      float64 `json:"pro"`
	Carb     float64 `json:"carb"`
	Fat      float64 `json:"fat"`
}

// BarcodeMealParams log a single-food meal from a product barcode
type BarcodeMealParams struct {
	Code  string     `json:"code" validate:"required,numeric"`
	Grams float64    `json:"grams" validate:"gt=0"`
	Slot  string     `json:"slot,omitempty"`
	When  *time.Time `json:"when,omitempty"`
}

// BarcodeMeal acknowledges a meal logged from a barcode
type BarcodeMeal struct {
	OK     bool    `json:"ok"`
	MealID int     `json:"meal_id"`
	Food   string  `json:"food"`
	Grams  float64 `json:"grams"`
	Slot   string  `json:"slot"`
}

// Per100g are the macros of a food per 100 g; nil when the source does not say
type Per100g struct {
	Kcal *float64 `json:"kcal"`
	Pro  *float64 `json:"pro"`
	Carb *float64 `json:"carb"`
	Fat  *float64 `json:"fat"`
}

// Food is a food from the server's catalog
type Food struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Barcode      *string  `json:"barcode"`
	Per100g      Per100g  `json:"per_100g"`
	GramsPerUnit *float64 `json:"grams_per_unit"`
}

// RecentFood is a food the user logged recently. FoodID is nil for foods
// typed in by name rather than picked from the catalog.
type RecentFood struct {
	FoodID       *int     `json:"food_id"`
	Name         string   `json:"name"`
	Barcode      *string  `json:"barcode"`
	Per100g      Per100g  `json:"per_100g"`
	GramsPerUnit *float64 `json:"grams_per_unit"`
}

// Product is a barcode lookup result
type Product struct {
	Name    string  `json:"name"`
	Per100g Per100g `json:"per_100g"`
}

// ProductConfirm stores a product under a barcode in the catalog
type ProductConfirm struct {
	Name    string  `json:"name" validate:"required"`
	Per100g Per100g `json:"per_100g"`
}

// StoredFood is the catalog entry written by a product confirmation
type StoredFood struct {
	FoodID  int     `json:"food_id"`
	Name    string  `json:"name"`
	Barcode string  `json:"barcode"`
	Per100g Per100g `json:"per_100g"`
}

// PlanLimits are the daily macro limits of an ON or OFF day
type PlanLimits struct {
	Kcal int `json:"kcal" yaml:"kcal" validate:"gte=0"`
	Carb int `json:"carb" yaml:"carb" validate:"gte=0"`
	Pro  int `json:"pro" yaml:"pro" validate:"gte=0"`
	Fat  int `json:"fat" yaml:"fat" validate:"gte=0"`
}

// Distribution is a meal slot of the day. StartMin and EndMin are minutes
// after midnight; a window may wrap past midnight. Without a window the
// slot is never picked automatically.
type Distribution struct {
	Name      string `json:"name" yaml:"name" validate:"required"`
	SortOrder int    `json:"sort_order" yaml:"sort_order"`
	StartMin  *int   `json:"start_min" yaml:"start_min" validate:"omitempty,gte=0,lt=1440"`
	EndMin    *int   `json:"end_min" yaml:"end_min" validate:"omitempty,gte=0,lt=1440"`
}

// DistributionPct is the share of the daily carbs, protein and fat given to a slot
type DistributionPct struct {
	Name    string  `json:"name" yaml:"name" validate:"required"`
	PctCarb float64 `json:"pct_carb" yaml:"pct_carb" validate:"gte=0,lte=100"`
	PctPro  float64 `json:"pct_pro" yaml:"pct_pro" validate:"gte=0,lte=100"`
	PctFat  float64 `json:"pct_fat" yaml:"pct_fat" validate:"gte=0,lte=100"`
}

// Plan holds the macro limits and meal slots for ON (training) and OFF days
type Plan struct {
	OnDistributions  []Distribution    `json:"on_distributions" yaml:"on_distributions" validate:"dive"`
	OffDistributions []Distribution    `json:"off_distributions" yaml:"off_distributions" validate:"dive"`
	OnLimits         PlanLimits        `json:"on_limits" yaml:"on_limits"`
	OffLimits        PlanLimits        `json:"off_limits" yaml:"off_limits"`
	OnPcts           []DistributionPct `json:"on_pcts" yaml:"on_pcts" validate:"dive"`
	OffPcts          []DistributionPct `json:"off_pcts" yaml:"off_pcts" validate:"dive"`
}

// Schedule lists the ON and OFF weekdays, 0 for Monday through 6 for Sunday
type Schedule struct {
	OnDays  []int `json:"on_days" validate:"dive,gte=0,lte=6"`
	OffDays []int `json:"off_days" validate:"dive,gte=0,lte=6"`
}

// OK is the bare acknowledgement of an update
type OK struct {
	OK bool `json:"ok"`
}

// DBStatus is the /debug/pingdb response
type DBStatus struct {
	OK     bool           `json:"ok"`
	Counts map[string]int `json:"counts"`
}
