package model_test

import (
	"testing"
	"time"

	"remind/src-server/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeUntil(t *testing.T) {
	loc := time.UTC
	event := &model.Event{ID: "a", Date: "2026-10-20", Time: "12:00"}
	instant, ok := event.Instant(loc)
	require.True(t, ok)

	t.Run("none at or after instant", func(t *testing.T) {
		assert.Nil(t, model.TimeUntil(event, instant, loc))
		assert.Nil(t, model.TimeUntil(event, instant.Add(time.Minute), loc))
	})

	t.Run("any gap before the instant is some", func(t *testing.T) {
		for _, gap := range []time.Duration{time.Nanosecond, 500 * time.Microsecond, 999 * time.Millisecond} {
			got := model.TimeUntil(event, instant.Add(-gap), loc)
			require.NotNil(t, got, gap.String())
			assert.Equal(t, model.TimeRemaining{}, *got)
			assert.Equal(t, "in 0m", got.Text())
		}
	})

	t.Run("unparsable instant", func(t *testing.T) {
		bad := &model.Event{ID: "b", Date: "tomorrow", Time: "noon"}
		assert.Nil(t, model.TimeUntil(bad, instant, loc))
	})

	t.Run("recombines to the delta", func(t *testing.T) {
		for _, delta := range []time.Duration{
			time.Second,
			59 * time.Second,
			time.Hour + 2*time.Minute + 3*time.Second,
			23*time.Hour + 59*time.Minute + 59*time.Second,
			24 * time.Hour,
			3*24*time.Hour + 4*time.Hour + 5*time.Minute + 6*time.Second,
			400 * 24 * time.Hour,
		} {
			got := model.TimeUntil(event, instant.Add(-delta), loc)
			require.NotNil(t, got, delta.String())
			assert.GreaterOrEqual(t, got.Days, 0)
			assert.True(t, got.Hours >= 0 && got.Hours < 24)
			assert.True(t, got.Minutes >= 0 && got.Minutes < 60)
			assert.True(t, got.Seconds >= 0 && got.Seconds < 60)
			assert.Equal(t, delta, got.Duration())
		}
	})

	t.Run("breakdown", func(t *testing.T) {
		got := model.TimeUntil(event, instant.Add(-(26*time.Hour + 30*time.Minute + 1500*time.Millisecond)), loc)
		require.NotNil(t, got)
		assert.Equal(t, model.TimeRemaining{Days: 1, Hours: 2, Minutes: 30, Seconds: 1}, *got)
		assert.Equal(t, 1*1440+2*60+30, got.TotalMinutes())
	})
}

func TestTimeRemainingText(t *testing.T) {
	tests := []struct {
		name string
		in   *model.TimeRemaining
		want string
	}{
		{name: "nil", in: nil, want: "soon"},
		{name: "days hours", in: &model.TimeRemaining{Days: 2, Hours: 3, Minutes: 4}, want: "in 2d 3h"},
		{name: "days minutes", in: &model.TimeRemaining{Days: 2, Minutes: 4}, want: "in 2d 4m"},
		{name: "hours minutes", in: &model.TimeRemaining{Hours: 1, Minutes: 5}, want: "in 1h 5m"},
		{name: "hours only", in: &model.TimeRemaining{Hours: 4}, want: "in 4h"},
		{name: "minutes", in: &model.TimeRemaining{Minutes: 3, Seconds: 20}, want: "in 3m"},
		{name: "seconds only", in: &model.TimeRemaining{Seconds: 20}, want: "in 0m"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.in.Text())
		})
	}
}

func TestTimeRemainingBand(t *testing.T) {
	tests := []struct {
		in   *model.TimeRemaining
		want model.Band
	}{
		{in: nil, want: model.BandUrgent},
		{in: &model.TimeRemaining{Minutes: 5}, want: model.BandUrgent},
		{in: &model.TimeRemaining{Hours: 1}, want: model.BandUrgent},
		{in: &model.TimeRemaining{Hours: 1, Minutes: 1}, want: model.BandSoon},
		{in: &model.TimeRemaining{Days: 1}, want: model.BandSoon},
		{in: &model.TimeRemaining{Days: 1, Minutes: 1}, want: model.BandApproaching},
		{in: &model.TimeRemaining{Days: 3}, want: model.BandApproaching},
		{in: &model.TimeRemaining{Days: 3, Hours: 1}, want: model.BandNormal},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, tc.in.Band(), "%+v", tc.in)
	}
}
