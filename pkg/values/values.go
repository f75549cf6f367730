// Package values defines the typed entries stored in a form's value map.
package values

import (
	"sort"
	"strconv"
	"strings"
)

// Value is the closed set of entries a field can hold: Text, Number or
// Selection.
type Value interface {
	// Empty reports whether the value counts as missing for required checks.
	Empty() bool
	// String renders the value for display and form encoding.
	String() string
	isValue()
}

// Text holds free text, a chosen option value, or a numeric string typed into
// a number field.
type Text string

// Number holds a slider position.
type Number float64

// Selection is an ordered set of selected option values.
type Selection []string

func (Text) isValue()      {}
func (Number) isValue()    {}
func (Selection) isValue() {}

// Empty reports whether the text has zero length.
func (t Text) Empty() bool { return len(t) == 0 }

// Empty is always false; a number has no length to be zero.
func (Number) Empty() bool { return false }

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool { return len(s) == 0 }

func (t Text) String() string { return string(t) }

func (n Number) String() string { return FormatNumber(float64(n)) }

func (s Selection) String() string {
	return strings.Join(s, ",")
}

// Contains reports whether option is part of the selection.
func (s Selection) Contains(option string) bool {
	for _, v := range s {
		if v == option {
			return true
		}
	}
	return false
}

// Toggle returns a new selection with option removed when present, or appended
// when absent. The receiver is never modified.
func (s Selection) Toggle(option string) Selection {
	if s.Contains(option) {
		out := make(Selection, 0, len(s)-1)
		for _, v := range s {
			if v != option {
				out = append(out, v)
			}
		}
		return out
	}
	out := make(Selection, 0, len(s)+1)
	out = append(out, s...)
	return append(out, option)
}

// Equal compares selections as sets.
func (s Selection) Equal(other Selection) bool {
	if len(s) != len(other) {
		return false
	}
	a := append([]string(nil), s...)
	b := append([]string(nil), other...)
	sort.Strings(a)
	sort.Strings(b)
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// IsEmpty reports whether v is absent or has zero length.
func IsEmpty(v Value) bool {
	return v == nil || v.Empty()
}

// FormatNumber renders a float without trailing zeros ("1950", "2.5").
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
