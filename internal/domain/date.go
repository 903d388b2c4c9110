package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// ============================================================
// Datas
// ============================================================

// dateLayouts are tried in order when decoding a Date.
var dateLayouts = []string{
	time.RFC3339Nano, // covers RFC3339 with or without fractional seconds
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// Date is a timestamp exchanged as text. Decoding never fails on format:
// ISO timestamps and plain YYYY-MM-DD dates are parsed, anything else is
// kept as text with a zero Time. The decoded text is written back
// unchanged, so stored values survive a load/save cycle as they were.
type Date struct {
	time.Time
	raw string
}

// DateOf wraps t. It is encoded as RFC3339 with nanoseconds.
func DateOf(t time.Time) Date { return Date{Time: t} }

// ParseDate reads s with the accepted layouts. Unparseable text yields a
// Date with a zero Time that still encodes as s.
func ParseDate(s string) Date {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t, raw: s}
		}
	}
	return Date{raw: s}
}

// Valid reports whether the date holds a real instant.
func (d Date) Valid() bool { return !d.Time.IsZero() }

// IsZero reports whether the date is unset: no instant and no text.
func (d Date) IsZero() bool { return d.Time.IsZero() && d.raw == "" }

// Equal compares the instants, ignoring the original text.
func (d Date) Equal(o Date) bool { return d.Time.Equal(o.Time) }

// String returns the text the date encodes as.
func (d Date) String() string {
	if d.raw != "" {
		return d.raw
	}
	if d.Time.IsZero() {
		return ""
	}
	return d.Time.Format(time.RFC3339Nano)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// non-string values (e.g. epoch numbers) are kept as text
		*d = Date{raw: string(data)}
		return nil
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	*d = ParseDate(s)
	return nil
}
