package entity

import (
	"encoding/json"
	"strings"
	"time"
)

// Difficulty is the practice level shared by dialogs and phrases.
type Difficulty string

const (
	DifficultyUnspecified  Difficulty = ""
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// Difficulties lists the supported levels in display order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}
}

// ParseDifficulty maps any casing of a known level to its canonical value.
// Unknown values are kept verbatim so that nothing the server sent is lost.
func ParseDifficulty(raw string) Difficulty {
	trimmed := strings.TrimSpace(raw)
	switch strings.ToLower(trimmed) {
	case "beginner":
		return DifficultyBeginner
	case "intermediate":
		return DifficultyIntermediate
	case "advanced":
		return DifficultyAdvanced
	case "":
		return DifficultyUnspecified
	default:
		return Difficulty(trimmed)
	}
}

// Valid reports whether d is one of the supported levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return true
	default:
		return false
	}
}

// OrDefault falls back to Intermediate, the server-side default.
func (d Difficulty) OrDefault() Difficulty {
	if d == DifficultyUnspecified {
		return DifficultyIntermediate
	}
	return d
}

// Encode renders the level the way the given schema version expects it.
func (d Difficulty) Encode(v SchemaVersion) string {
	if v == SchemaV1 {
		return strings.ToLower(string(d))
	}
	return string(d)
}

func (d *Difficulty) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*d = DifficultyUnspecified
		return nil
	}
	*d = ParseDifficulty(*raw)
	return nil
}

// Timestamp decodes the server's datetimes, which may be RFC 3339 or naive
// ISO 8601 without an offset (interpreted as UTC). Zero encodes as null.
type Timestamp struct {
	time.Time
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func NewTimestamp(t time.Time) Timestamp { return Timestamp{Time: t} }

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		t.Time = time.Time{}
		return nil
	}
	value := strings.TrimSpace(*raw)
	if parsed, err := time.Parse(time.RFC3339Nano, value); err == nil {
		t.Time = parsed
		return nil
	}
	var lastErr error
	for _, layout := range naiveLayouts {
		parsed, err := time.ParseInLocation(layout, value, time.UTC)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// DisplayName mirrors how category labels are shown: the first underscore
// becomes a space ("IELTS_Part1" → "IELTS Part1").
func DisplayName(name string) string {
	return strings.Replace(name, "_", " ", 1)
}

func optionalString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// StringPtr returns nil for blank input, which keeps optional fields unset.
func StringPtr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
