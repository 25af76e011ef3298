package models

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the textual format every persisted timestamp uses,
// both inside JSON documents and in history ledger lines.
const TimeLayout = "2006-01-02 15:04:05"

// Timestamp is a time.Time that marshals to the fixed TimeLayout string.
type Timestamp struct {
	time.Time
}

// Now returns the current time normalized through TimeLayout, so that a
// round trip through the on-disk format is lossless.
func Now() Timestamp {
	return NewTimestamp(time.Now())
}

// NewTimestamp wraps t normalized through TimeLayout: second precision,
// no zone, exactly what a reload from disk would produce.
func NewTimestamp(t time.Time) Timestamp {
	normalized, _ := time.Parse(TimeLayout, t.Format(TimeLayout))
	return Timestamp{normalized}
}

// ParseTimestamp parses a TimeLayout string.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return Timestamp{t}, nil
}

// String renders the timestamp in TimeLayout.
func (t Timestamp) String() string {
	return t.Format(TimeLayout)
}

// Add returns the timestamp shifted by d.
func (t Timestamp) Add(d time.Duration) Timestamp {
	return Timestamp{t.Time.Add(d)}
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.Format(TimeLayout) + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(TimeLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	t.Time = parsed
	return nil
}
