package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeekStart(t *testing.T) {
	cases := map[string]time.Time{
		"monday":         time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC),
		"midweek":        time.Date(2025, 8, 6, 15, 30, 0, 0, time.UTC),
		"sunday":         time.Date(2025, 8, 10, 23, 59, 0, 0, time.UTC),
		"other timezone": time.Date(2025, 8, 9, 22, 0, 0, 0, time.FixedZone("BRT", -3*3600)),
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			got := WeekStart(in)
			assert.Equal(t, time.Date(2025, 8, 4, 0, 0, 0, 0, time.UTC), got)
			assert.Equal(t, time.Monday, got.Weekday())
		})
	}

	assert.Equal(t, "2025-08-11", WeekKey(time.Date(2025, 8, 11, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2024-12-30", WeekKey(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParseWeek(t *testing.T) {
	now := time.Date(2025, 8, 7, 10, 0, 0, 0, time.UTC)

	w, err := ParseWeek("2025-08-06", now)
	require.NoError(t, err)
	assert.Equal(t, "2025-08-04", w.Format("2006-01-02"))

	for _, raw := range []string{"", "current", " CURRENT "} {
		w, err = ParseWeek(raw, now)
		require.NoError(t, err)
		assert.Equal(t, "2025-08-04", w.Format("2006-01-02"))
	}

	_, err = ParseWeek("06/08/2025", now)
	assert.ErrorIs(t, err, ErrInvalidWeek)
}
