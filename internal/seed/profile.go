// Package seed populates a running API with demo data for the current week
package seed

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/macroscoach/mcctl/internal/api"
)

// defaultAt is used when an entry has no time of day
const defaultAt = "12:00"

// Profile is a named set of demo entries
type Profile struct {
	Name        string        `yaml:"name" json:"name"`
	Description string        `yaml:"description" json:"description"`
	Weights     []WeightSeed  `yaml:"weights" json:"weights"`
	Meals       []MealSeed    `yaml:"meals" json:"meals"`
	Workouts    []WorkoutSeed `yaml:"workouts" json:"workouts"`
}

// Offset places an entry relative to today
type Offset struct {
	DaysAgo int    `yaml:"days_ago" json:"days_ago"`
	At      string `yaml:"at" json:"at"`
}

// Time resolves the offset against today's date in today's location
func (o Offset) Time(today time.Time) (time.Time, error) {
	at := o.At
	if at == "" {
		at = defaultAt
	}
	clock, err := time.Parse("15:04", at)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time of day %q (want HH:MM)", o.At)
	}
	y, m, d := today.Date()
	return time.Date(y, m, d-o.DaysAgo, clock.Hour(), clock.Minute(), 0, 0, today.Location()), nil
}

// WeightSeed is a weight measurement to post
type WeightSeed struct {
	Offset `yaml:",inline"`
	Kg     float64 `yaml:"kg" json:"kg"`
}

// MealSeed is a meal to post
type MealSeed struct {
	Offset `yaml:",inline"`
	Slot   string     `yaml:"slot" json:"slot"`
	Items  []ItemSeed `yaml:"items" json:"items"`
}

// ItemSeed is one food of a seeded meal, macros per 100 g
type ItemSeed struct {
	Food  string  `yaml:"food" json:"food"`
	Grams float64 `yaml:"grams" json:"grams"`
	Pro   float64 `yaml:"pro" json:"pro"`
	Carb  float64 `yaml:"carb" json:"carb"`
	Fat   float64 `yaml:"fat" json:"fat"`
}

// WorkoutSeed is a training session to post
type WorkoutSeed struct {
	Offset `yaml:",inline"`
	Sets   []SetSeed `yaml:"sets" json:"sets"`
}

// SetSeed is one set of a seeded workout
type SetSeed struct {
	Exercise string  `yaml:"exercise" json:"exercise"`
	Reps     int     `yaml:"reps" json:"reps"`
	WeightKg float64 `yaml:"weight_kg" json:"weight_kg"`
}

// Parse decodes and validates a YAML profile
func Parse(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing seed profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Validate checks the profile without contacting the API
func (p *Profile) Validate() error {
	var errs []string

	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, "name is required")
	}
	if len(p.Weights)+len(p.Meals)+len(p.Workouts) == 0 {
		errs = append(errs, "profile has no entries")
	}

	check := func(kind string, i int, o Offset) {
		if o.DaysAgo < 0 {
			errs = append(errs, fmt.Sprintf("%s %d: days_ago must not be negative", kind, i+1))
		}
		if _, err := o.Time(time.Now()); err != nil {
			errs = append(errs, fmt.Sprintf("%s %d: %v", kind, i+1, err))
		}
	}
	for i, w := range p.Weights {
		check("weight", i, w.Offset)
	}
	for i, m := range p.Meals {
		check("meal", i, m.Offset)
		if len(m.Items) == 0 {
			errs = append(errs, fmt.Sprintf("meal %d: no items", i+1))
		}
	}
	for i, w := range p.Workouts {
		check("workout", i, w.Offset)
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid seed profile %q: %w", p.Name, errors.New(strings.Join(errs, "; ")))
	}
	return nil
}

// Weight converts the seed to a request payload
func (w WeightSeed) Weight(today time.Time) (api.WeightEntry, error) {
	when, err := w.Time(today)
	if err != nil {
		return api.WeightEntry{}, err
	}
	return api.WeightEntry{When: &when, Kg: w.Kg}, nil
}

// Meal converts the seed to a request payload
func (m MealSeed) Meal(today time.Time) (api.Meal, error) {
	when, err := m.Time(today)
	if err != nil {
		return api.Meal{}, err
	}
	items := make([]api.MealItem, len(m.Items))
	for i, it := range m.Items {
		items[i] = api.MealItem{FoodName: it.Food, Grams: it.Grams, Pro: it.Pro, Carb: it.Carb, Fat: it.Fat}
	}
	return api.Meal{When: &when, Slot: m.Slot, Items: items}, nil
}

// Workout converts the seed to a request payload
func (w WorkoutSeed) Workout(today time.Time) (api.Workout, error) {
	when, err := w.Time(today)
	if err != nil {
		return api.Workout{}, err
	}
	sets := make([]api.WorkoutSet, len(w.Sets))
	for i, s := range w.Sets {
		sets[i] = api.WorkoutSet{Exercise: s.Exercise, Reps: s.Reps, WeightKg: s.WeightKg}
	}
	return api.Workout{When: &when, Sets: sets}, nil
}
