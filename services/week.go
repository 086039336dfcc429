package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/factory-app/models"
)

// WeekStart returns the Monday 00:00 UTC of the ISO week containing t's calendar date.
func WeekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func WeekKey(t time.Time) string {
	return WeekStart(t).Format(models.WeekLayout)
}

// ParseWeek accepts YYYY-MM-DD or "current" and returns the normalised week start.
func ParseWeek(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "current") {
		return WeekStart(now), nil
	}
	t, err := time.Parse(models.WeekLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidWeek, raw)
	}
	return WeekStart(t), nil
}
