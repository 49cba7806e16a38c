package database

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

const (
	defaultTimezone       = "UTC"
	defaultGamingDayStart = "06:00"
)

// GamingDay returns the business date that now falls in. Times before the
// configured start of day belong to the previous gaming day.
func GamingDay(now time.Time, timezone, startTime string) (string, error) {
	if timezone == "" {
		timezone = defaultTimezone
	}
	if startTime == "" {
		startTime = defaultGamingDayStart
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("load timezone %q: %w", timezone, err)
	}

	start, err := time.Parse("15:04", startTime)
	if err != nil {
		start, err = time.Parse("15:04:05", startTime)
		if err != nil {
			return "", fmt.Errorf("parse gaming day start %q: %w", startTime, err)
		}
	}

	local := now.In(loc)
	boundary := time.Date(local.Year(), local.Month(), local.Day(), start.Hour(), start.Minute(), start.Second(), 0, loc)
	if local.Before(boundary) {
		local = local.AddDate(0, 0, -1)
	}
	return local.Format("2006-01-02"), nil
}
