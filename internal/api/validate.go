package api

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// validator checks request payloads before they are sent
type validator struct {
	validate *playground.Validate
}

func newValidator() *validator {
	v := playground.New(playground.WithRequiredStructEnabled())

	// Report JSON field names so messages match the wire format
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	v.RegisterStructValidation(validatePlan, Plan{})
	v.RegisterStructValidation(validateSchedule, Schedule{})

	return &validator{validate: v}
}

// pctTolerance is how far a group's percentages may stray from 100
const pctTolerance = 0.5

func validatePlan(sl playground.StructLevel) {
	p := sl.Current().Interface().(Plan)
	if !pctsSumTo100(p.OnPcts) {
		sl.ReportError(p.OnPcts, "on_pcts", "OnPcts", "pctsum", "")
	}
	if !pctsSumTo100(p.OffPcts) {
		sl.ReportError(p.OffPcts, "off_pcts", "OffPcts", "pctsum", "")
	}
}

// pctsSumTo100 reports whether carbs, protein and fat each add up to 100%.
// An empty group is left to the server defaults.
func pctsSumTo100(pcts []DistributionPct) bool {
	if len(pcts) == 0 {
		return true
	}
	var carb, pro, fat float64
	for _, x := range pcts {
		carb += x.PctCarb
		pro += x.PctPro
		fat += x.PctFat
	}
	for _, sum := range []float64{carb, pro, fat} {
		if math.Abs(sum-100) > pctTolerance {
			return false
		}
	}
	return true
}

func validateSchedule(sl playground.StructLevel) {
	s := sl.Current().Interface().(Schedule)
	if len(s.OnDays)+len(s.OffDays) == 0 {
		sl.ReportError(s.OnDays, "on_days", "OnDays", "required", "")
		return
	}
	on := make(map[int]bool, len(s.OnDays))
	for _, d := range s.OnDays {
		on[d] = true
	}
	for _, d := range s.OffDays {
		if on[d] {
			sl.ReportError(s.OffDays, "off_days", "OffDays", "disjoint", "")
			return
		}
	}
}

// Struct validates a payload. Non-struct payloads are accepted as is.
func (v *validator) Struct(payload any) error {
	rv := reflect.ValueOf(payload)
	for rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	err := v.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs playground.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return newValidationError(verrs)
}

// ValidationError lists the payload fields that failed validation
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	msgs := make([]string, len(keys))
	for i, k := range keys {
		msgs[i] = e.Fields[k]
	}
	return "invalid payload: " + strings.Join(msgs, ", ")
}

func newValidationError(errs playground.ValidationErrors) *ValidationError {
	fields := make(map[string]string, len(errs))
	for _, fe := range errs {
		// Namespace is "Meal.items[0].grams"; drop the root type name
		field := fe.Namespace()
		if i := strings.IndexByte(field, '.'); i >= 0 {
			field = field[i+1:]
		}

		switch fe.Tag() {
		case "required":
			fields[field] = fmt.Sprintf("%s is required", field)
		case "email":
			fields[field] = fmt.Sprintf("%s must be a valid email address", field)
		case "timezone":
			fields[field] = fmt.Sprintf("%s must be an IANA time zone", field)
		case "gt":
			fields[field] = fmt.Sprintf("%s must be greater than %s", field, fe.Param())
		case "gte":
			fields[field] = fmt.Sprintf("%s must be at least %s", field, fe.Param())
		case "lt":
			fields[field] = fmt.Sprintf("%s must be less than %s", field, fe.Param())
		case "min":
			fields[field] = fmt.Sprintf("%s must have at least %s entries", field, fe.Param())
		case "lte":
			fields[field] = fmt.Sprintf("%s must be at most %s", field, fe.Param())
		case "numeric":
			fields[field] = fmt.Sprintf("%s must contain only digits", field)
		case "pctsum":
			fields[field] = fmt.Sprintf("%s percentages must sum to 100 for each macro", field)
		case "disjoint":
			fields[field] = fmt.Sprintf("%s must not repeat a day of on_days", field)
		default:
			fields[field] = fmt.Sprintf("%s failed %s validation", field, fe.Tag())
		}
	}
	return &ValidationError{Fields: fields}
}
