package duedate

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, time.June, day, hour, minute, 0, 0, time.UTC)
}

func TestCalculateDueDate(t *testing.T) {
	tests := []struct {
		name  string
		hours float64
		start time.Time
		want  time.Time
	}{
		{
			name:  "zero duration keeps start",
			hours: 0,
			start: at(10, 10, 0),
			want:  at(10, 10, 0),
		},
		{
			name:  "fits in the same day",
			hours: 3,
			start: at(10, 10, 0),
			want:  at(10, 13, 0),
		},
		{
			name:  "overflows to next day",
			hours: 10,
			start: at(10, 10, 0),
			want:  at(11, 12, 0),
		},
		{
			name:  "fractional hours",
			hours: 2.5,
			start: at(10, 10, 0),
			want:  at(10, 12, 30),
		},
		{
			name:  "minimum duration",
			hours: 0.1,
			start: at(10, 10, 0),
			want:  at(10, 10, 6),
		},
		{
			name:  "ends exactly at close",
			hours: 0.5,
			start: at(14, 16, 30),
			want:  at(14, 17, 0),
		},
		{
			name:  "thursday late start spills into friday",
			hours: 1,
			start: at(13, 16, 30),
			want:  at(14, 9, 30),
		},
		{
			name:  "friday overflow lands on monday",
			hours: 1,
			start: at(14, 16, 30),
			want:  at(17, 9, 30),
		},
		{
			name:  "before opening snaps to nine",
			hours: 1,
			start: at(10, 7, 15),
			want:  at(10, 10, 0),
		},
		{
			name:  "after close moves to next day",
			hours: 2,
			start: at(10, 18, 0),
			want:  at(11, 11, 0),
		},
		{
			name:  "friday after close skips weekend",
			hours: 2,
			start: at(14, 17, 30),
			want:  at(17, 11, 0),
		},
		{
			name:  "saturday start",
			hours: 1,
			start: at(15, 10, 0),
			want:  at(17, 10, 0),
		},
		{
			name:  "sunday start",
			hours: 8,
			start: at(16, 12, 0),
			want:  at(17, 17, 0),
		},
		{
			name:  "zero duration on saturday is not moved",
			hours: 0,
			start: at(15, 10, 0),
			want:  at(15, 10, 0),
		},
		{
			name:  "zero duration after close is normalized",
			hours: 0,
			start: at(16, 20, 0),
			want:  at(17, 9, 0),
		},
		{
			name:  "full working week",
			hours: 40,
			start: at(10, 9, 0),
			want:  at(14, 17, 0),
		},
		{
			name:  "one hour past a full week",
			hours: 41,
			start: at(10, 9, 0),
			want:  at(17, 10, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateDueDate(tt.hours, tt.start)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestCalculateDueDate_NeverEndsOnWeekend(t *testing.T) {
	start := at(10, 9, 0)
	for quarter := 1; quarter <= 200; quarter++ {
		got, err := CalculateDueDate(float64(quarter)*0.25, start)
		require.NoError(t, err)
		assert.False(t, isWeekend(got), "%v hours ended on %s", float64(quarter)*0.25, got)
	}
}

func TestCalculateDueDate_InvalidDuration(t *testing.T) {
	for _, hours := range []float64{-1, -0.1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := CalculateDueDate(hours, at(10, 10, 0))
		assert.ErrorIs(t, err, ErrInvalidDuration)
	}
}

func TestCalculateDueDate_LargeDurations(t *testing.T) {
	got, err := CalculateDueDate(8*5*52, at(10, 9, 0))
	require.NoError(t, err)
	assert.True(t, at(10, 9, 0).AddDate(0, 0, 7*52-3).Add(8*time.Hour).Equal(got))

	_, err = CalculateDueDate(1e7, at(10, 9, 0))
	assert.ErrorIs(t, err, ErrDurationTooLarge)
}

func TestCalculateDueDate_KeepsLocation(t *testing.T) {
	loc := time.FixedZone("CST", -6*60*60)
	start := time.Date(2024, time.June, 10, 16, 0, 0, 0, loc)

	got, err := CalculateDueDate(2, start)
	require.NoError(t, err)
	assert.Equal(t, loc, got.Location())
	assert.True(t, time.Date(2024, time.June, 11, 10, 0, 0, 0, loc).Equal(got), "got %s", got)
}

func TestCalendar_Custom(t *testing.T) {
	morning := Calendar{StartHour: 8, EndHour: 12}

	got, err := morning.DueDate(5, at(10, 8, 0))
	require.NoError(t, err)
	assert.True(t, at(11, 9, 0).Equal(got), "got %s", got)
}

func TestCalendar_Validate(t *testing.T) {
	assert.NoError(t, Standard.Validate())
	assert.NoError(t, Calendar{StartHour: 0, EndHour: 24}.Validate())

	for _, c := range []Calendar{{17, 9}, {9, 9}, {-1, 10}, {9, 25}} {
		_, err := c.DueDate(1, at(10, 10, 0))
		assert.ErrorIs(t, err, ErrInvalidCalendar)
	}
}
