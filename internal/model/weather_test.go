package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	for _, name := range []string{"SUNNY", "CLOUDY", "RAINY", "STORMY", "SNOWY", "FOGGY"} {
		c, err := ParseCondition(name)
		require.NoError(t, err)
		assert.Equal(t, Condition(name), c)
	}

	_, err := ParseCondition("HAIL")
	assert.Error(t, err)
}

func TestWeatherSnapshot_Freshness(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	window := 30 * time.Minute

	tests := []struct {
		name      string
		age       time.Duration
		fresh     bool
		expiresIn time.Duration
		near      bool
	}{
		{name: "just captured", age: 0, fresh: true, expiresIn: 30 * time.Minute, near: false},
		{name: "almost stale", age: 27 * time.Minute, fresh: true, expiresIn: 3 * time.Minute, near: true},
		{name: "exactly at window", age: 30 * time.Minute, fresh: false, expiresIn: 0, near: true},
		{name: "days old", age: 72 * time.Hour, fresh: false, expiresIn: 0, near: true},
		{name: "captured in the future", age: -10 * time.Minute, fresh: false, expiresIn: 0, near: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WeatherSnapshot{CapturedAt: now.Add(-tt.age)}
			assert.Equal(t, tt.fresh, w.IsFresh(now, window))
			assert.Equal(t, tt.expiresIn, w.ExpiresIn(now, window))
			assert.Equal(t, tt.near, w.NearExpiration(now, window))
			assert.Equal(t, tt.age, w.Age(now))
		})
	}
}
