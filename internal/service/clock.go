package service

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// parseHHMM converts a zero-padded "HH:MM" string to minutes past midnight.
func parseHHMM(s string) (int, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return 0, fmt.Errorf("bad time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ValidHHMM reports whether s is a zero-padded "HH:MM" time of day. Exposed
// for the transport layer's binding rules.
func ValidHHMM(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := parseHHMM(s)
	return err == nil
}

// combine builds the wall-clock instant for a date + "HH:MM" pair in the
// given location.
func combine(date, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+hhmm, loc)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}
