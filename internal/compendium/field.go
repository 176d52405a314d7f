package compendium

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Field is a compendium source value in one of three shapes: a bare number,
// a free-text string, or an object carrying a value plus a note. The zero
// Field is empty.
type Field struct {
	Num  *float64
	Text string
	Note string
}

type fieldObject struct {
	Value   json.RawMessage `json:"value"`
	Note    string          `json:"note,omitempty"`
	Special string          `json:"special,omitempty"`
}

// UnmarshalJSON accepts a number, a string, or an object with a value.
// Unrecognized shapes degrade to an empty Field rather than erroring; the
// source data is inherently inconsistent.
func (f *Field) UnmarshalJSON(data []byte) error {
	*f = Field{}
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		return nil
	}

	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		f.Num = &num
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		f.Text = text
		return nil
	}

	var obj fieldObject
	if err := json.Unmarshal(data, &obj); err == nil {
		note := obj.Note
		if note == "" {
			note = obj.Special
		}
		f.Note = note
		if len(obj.Value) > 0 {
			var inner Field
			if err := inner.UnmarshalJSON(obj.Value); err == nil {
				f.Num = inner.Num
				f.Text = inner.Text
			}
		}
		return nil
	}

	return nil
}

// MarshalJSON emits the most specific shape the field still holds.
func (f Field) MarshalJSON() ([]byte, error) {
	if f.Note != "" {
		obj := map[string]any{"note": f.Note}
		if f.Num != nil {
			obj["value"] = *f.Num
		} else if f.Text != "" {
			obj["value"] = f.Text
		}
		return json.Marshal(obj)
	}
	if f.Num != nil {
		return json.Marshal(*f.Num)
	}
	return json.Marshal(f.Text)
}

// IsZero reports whether the field carries no value at all.
func (f Field) IsZero() bool {
	return f.Num == nil && f.Text == "" && f.Note == ""
}

// String renders the canonical display form: the numeric or text value,
// with the note appended in parentheses when present.
func (f Field) String() string {
	var value string
	switch {
	case f.Num != nil:
		value = formatNum(*f.Num)
	default:
		value = strings.TrimSpace(f.Text)
	}
	if f.Note != "" {
		if value == "" {
			return f.Note
		}
		return value + " (" + f.Note + ")"
	}
	return value
}

var leadingIntPattern = regexp.MustCompile(`^\s*(\d+)`)

// Int extracts an integer from the field: the number itself, or the leading
// integer of the text form. The second return reports success.
func (f Field) Int() (int, bool) {
	if f.Num != nil {
		return int(*f.Num), true
	}
	match := leadingIntPattern.FindStringSubmatch(f.Text)
	if match == nil {
		return 0, false
	}
	value, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return value, true
}

func formatNum(value float64) string {
	if value == math.Trunc(value) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
