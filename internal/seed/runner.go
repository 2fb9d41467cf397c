package seed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/macroscoach/mcctl/internal/api"
	"github.com/macroscoach/mcctl/internal/week"
)

// Sink receives the seeded entries and answers the weekly queries
type Sink interface {
	LogWeight(ctx context.Context, entry api.WeightEntry) (*api.Created, error)
	LogMeal(ctx context.Context, meal api.Meal) (*api.Created, error)
	LogWorkout(ctx context.Context, workout api.Workout) (*api.Created, error)
	WeekSummary(ctx context.Context, start time.Time) (*api.WeekSummary, error)
	WeeklyCheck(ctx context.Context, p api.WeeklyCheckParams) (*api.WeeklyCheck, error)
}

// Targets are the weekly check goals
type Targets struct {
	ProteinG    float64
	Kcal        float64
	MinWorkouts int
}

// Entry kinds
const (
	KindWeight  = "weight"
	KindMeal    = "meal"
	KindWorkout = "workout"
)

// Entry is one planned request
type Entry struct {
	Kind string
	// Ordinal is the 1-based position among the profile entries of the same kind
	Ordinal int
	When    time.Time
	Summary string

	weight  api.WeightEntry
	meal    api.Meal
	workout api.Workout
}

// Report summarizes a seeding run
type Report struct {
	Profile   string
	WeekStart time.Time
	Posted    map[string]int
	DryRun    bool
	Entries   []Entry
	Week      *api.WeekSummary
	Check     *api.WeeklyCheck
}

// EntryError identifies the entry that stopped a run. Index is the
// position in the plan; the message names the entry by kind and ordinal.
type EntryError struct {
	Index int
	Entry Entry
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("seeding %s %d (%s): %v", e.Entry.Kind, e.Entry.Ordinal, e.Entry.When.Format("2006-01-02 15:04"), e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Runner posts profile entries in order
type Runner struct {
	sink    Sink
	targets Targets
	dryRun  bool
	logger  *slog.Logger
}

// NewRunner creates a seeding runner. A nil logger discards output.
func NewRunner(sink Sink, targets Targets, dryRun bool, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Runner{sink: sink, targets: targets, dryRun: dryRun, logger: logger}
}

// Plan expands a profile into the requests it would send, weights first,
// then meals, then workouts, each in profile order
func Plan(p *Profile, today time.Time) ([]Entry, error) {
	var entries []Entry

	for i, w := range p.Weights {
		payload, err := w.Weight(today)
		if err != nil {
			return nil, fmt.Errorf("weight %d: %w", i+1, err)
		}
		entries = append(entries, Entry{
			Kind:    KindWeight,
			Ordinal: i + 1,
			When:    *payload.When,
			Summary: fmt.Sprintf("%.1f kg", payload.Kg),
			weight:  payload,
		})
	}

	for i, m := range p.Meals {
		payload, err := m.Meal(today)
		if err != nil {
			return nil, fmt.Errorf("meal %d: %w", i+1, err)
		}
		slot := payload.Slot
		if slot == "" {
			slot = "auto"
		}
		entries = append(entries, Entry{
			Kind:    KindMeal,
			Ordinal: i + 1,
			When:    *payload.When,
			Summary: fmt.Sprintf("%s, %d items", slot, len(payload.Items)),
			meal:    payload,
		})
	}

	for i, w := range p.Workouts {
		payload, err := w.Workout(today)
		if err != nil {
			return nil, fmt.Errorf("workout %d: %w", i+1, err)
		}
		entries = append(entries, Entry{
			Kind:    KindWorkout,
			Ordinal: i + 1,
			When:    *payload.When,
			Summary: fmt.Sprintf("%d sets", len(payload.Sets)),
			workout: payload,
		})
	}

	return entries, nil
}

// Run posts every entry of the profile and then queries the week containing
// today. The first failed request stops the run with an *EntryError.
func (r *Runner) Run(ctx context.Context, p *Profile, now time.Time) (*Report, error) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	entries, err := Plan(p, today)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Profile:   p.Name,
		WeekStart: week.Start(today),
		Posted:    map[string]int{},
		DryRun:    r.dryRun,
		Entries:   entries,
	}
	if r.dryRun {
		return report, nil
	}

	for i, e := range entries {
		if err := r.post(ctx, e); err != nil {
			return report, &EntryError{Index: i, Entry: e, Err: err}
		}
		report.Posted[e.Kind]++
		r.logger.Debug("seeded entry", "kind", e.Kind, "when", e.When, "summary", e.Summary)
	}

	report.Week, err = r.sink.WeekSummary(ctx, report.WeekStart)
	if err != nil {
		return report, fmt.Errorf("fetching week summary: %w", err)
	}

	report.Check, err = r.sink.WeeklyCheck(ctx, api.WeeklyCheckParams{
		Start:          report.WeekStart,
		ProteinTargetG: r.targets.ProteinG,
		KcalTarget:     r.targets.Kcal,
		MinWorkouts:    r.targets.MinWorkouts,
	})
	if err != nil {
		return report, fmt.Errorf("fetching weekly check: %w", err)
	}

	return report, nil
}

func (r *Runner) post(ctx context.Context, e Entry) error {
	var err error
	switch e.Kind {
	case KindWeight:
		_, err = r.sink.LogWeight(ctx, e.weight)
	case KindMeal:
		_, err = r.sink.LogMeal(ctx, e.meal)
	case KindWorkout:
		_, err = r.sink.LogWorkout(ctx, e.workout)
	default:
		err = fmt.Errorf("unknown entry kind %q", e.Kind)
	}
	return err
}
