// Package slot defines the canonical half-hour slot representation shared by
// every layer: a Key is "YYYY-MM-DDTHH:MM" with the minute fixed to :00 or
// :30. Keys are zero padded, so lexicographic order equals chronological
// order and sorted string slices need no further interpretation.
package slot

import (
	"fmt"
	"time"
)

type Key string

const (
	keyLayout  = "2006-01-02T15:04"
	dateLayout = "2006-01-02"
)

func MakeKey(date string, hour, minute int) Key {
	return Key(fmt.Sprintf("%sT%02d:%02d", date, hour, minute))
}

// Parse validates that s is a canonical slot key. Non padded fields and
// minutes other than :00/:30 are rejected.
func Parse(s string) (Key, error) {
	t, err := time.ParseInLocation(keyLayout, s, time.Local)
	if err != nil {
		return "", fmt.Errorf("invalid slot key %q: %w", s, err)
	}
	if t.Format(keyLayout) != s {
		return "", fmt.Errorf("invalid slot key %q: not in canonical form", s)
	}
	if m := t.Minute(); m != 0 && m != 30 {
		return "", fmt.Errorf("invalid slot key %q: minute must be 00 or 30", s)
	}
	return Key(s), nil
}

func ParseDate(s string) error {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	if t.Format(dateLayout) != s {
		return fmt.Errorf("invalid date %q: not in canonical form", s)
	}
	return nil
}

func (k Key) Date() string {
	if len(k) < len(dateLayout) {
		return ""
	}
	return string(k)[:len(dateLayout)]
}

// StartTime interprets the key as wall clock time in the local zone. Keys
// deliberately carry no zone information; everyone who opens the same link
// reads the same wall clock labels.
func (k Key) StartTime() (time.Time, error) {
	return time.ParseInLocation(keyLayout, string(k), time.Local)
}

// StartsBefore reports whether the slot begins before t. Malformed keys are
// treated as past so they can never be selected.
func (k Key) StartsBefore(t time.Time) bool {
	start, err := k.StartTime()
	if err != nil {
		return true
	}
	return start.Before(t)
}
