package week

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := Parse(s)
	require.NoError(t, err)
	return d
}

func TestStart_Examples(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"thursday mid month", "2024-03-14", "2024-03-11"},
		{"monday new year", "2024-01-01", "2024-01-01"},
		{"monday unchanged", "2024-03-04", "2024-03-04"},
		{"tuesday after new year", "2024-01-02", "2024-01-01"},
		{"monday after year boundary", "2023-01-02", "2023-01-02"},
		{"sunday across year boundary", "2023-01-01", "2022-12-26"},
		{"sunday across month boundary", "2024-03-03", "2024-02-26"},
		{"leap day", "2024-02-29", "2024-02-26"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Start(date(t, tt.input))
			assert.Equal(t, tt.want, Format(got))
		})
	}
}

func TestStart_Properties(t *testing.T) {
	day := time.Date(2019, time.December, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	for ; day.Before(end); day = day.AddDate(0, 0, 1) {
		ws := Start(day)

		if ws.Weekday() != time.Monday {
			t.Fatalf("Start(%s) = %s, which is a %s", Format(day), Format(ws), ws.Weekday())
		}
		if ws.After(day) {
			t.Fatalf("Start(%s) = %s is after the input", Format(day), Format(ws))
		}
		if day.Sub(ws) >= Length*24*time.Hour {
			t.Fatalf("Start(%s) = %s is a week or more before the input", Format(day), Format(ws))
		}
		if day.Weekday() == time.Monday && !ws.Equal(day) {
			t.Fatalf("Start(%s) = %s, want the Monday itself", Format(day), Format(ws))
		}
	}
}

func TestStart_DropsTimeOfDayAndKeepsLocation(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	in := time.Date(2024, time.March, 14, 23, 45, 10, 5, loc)

	got := Start(in)

	assert.Equal(t, time.Date(2024, time.March, 11, 0, 0, 0, 0, loc), got)
	assert.Equal(t, loc, got.Location())
}

func TestISOWeekday(t *testing.T) {
	assert.Equal(t, Monday, ISOWeekday(date(t, "2024-03-11")))
	assert.Equal(t, Thursday, ISOWeekday(date(t, "2024-03-14")))
	assert.Equal(t, Saturday, ISOWeekday(date(t, "2024-03-16")))
	assert.Equal(t, Sunday, ISOWeekday(date(t, "2024-03-17")))
}

func TestRange(t *testing.T) {
	r := Of(date(t, "2024-03-14"))

	assert.Equal(t, "2024-03-11", Format(r.Start))
	assert.Equal(t, "2024-03-18", Format(r.End()))
	assert.Equal(t, "2024-03-11..2024-03-17", r.String())

	days := r.Days()
	require.Len(t, days, Length)
	assert.Equal(t, "2024-03-11", Format(days[0]))
	assert.Equal(t, "2024-03-17", Format(days[6]))

	assert.True(t, r.Contains(date(t, "2024-03-11")))
	assert.True(t, r.Contains(date(t, "2024-03-17").Add(23*time.Hour)))
	assert.False(t, r.Contains(date(t, "2024-03-18")))
	assert.False(t, r.Contains(date(t, "2024-03-10")))
}

func TestParse_Invalid(t *testing.T) {
	for _, s := range []string{"", "2024-13-01", "14/03/2024", "2024-03-14T10:00:00"} {
		_, err := Parse(s)
		assert.Error(t, err, "Parse(%q)", s)
	}
}

func TestToday(t *testing.T) {
	now := func() time.Time { return time.Date(2024, time.March, 14, 18, 30, 0, 0, time.UTC) }

	assert.Equal(t, time.Date(2024, time.March, 14, 0, 0, 0, 0, time.UTC), Today(now))
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"mon", Monday},
		{"Monday", Monday},
		{"THU", Thursday},
		{"wednes", Wednesday},
		{"sun", Sunday},
		{"7", Sunday},
		{" 1 ", Monday},
	}
	for _, tt := range tests {
		got, err := ParseDay(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	for _, bad := range []string{"", "mo", "0", "8", "monkey", "funday"} {
		_, err := ParseDay(bad)
		assert.Error(t, err, bad)
	}
}

func TestDayName(t *testing.T) {
	assert.Equal(t, "mon", DayName(Monday))
	assert.Equal(t, "sun", DayName(Sunday))
	assert.Equal(t, "", DayName(0))
	assert.Equal(t, "", DayName(8))
}
