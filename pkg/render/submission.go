package render

import (
	"fmt"
	"slices"
	"strings"
)

// HiddenField is a hidden input emitted alongside the visible controls.
type HiddenField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// SessionField carries the form session id so submissions land in the same
// storage slot as the live changes.
func SessionField(name, id string) HiddenField {
	return Hidden(name, id)
}

// HiddenMap folds fields into a name/value map. Empty names are dropped and
// later fields win on collisions; nil when nothing remains.
func HiddenMap(fields ...HiddenField) map[string]string {
	var out map[string]string
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(fields))
		}
		out[name] = field.Value
	}
	return out
}

// NormalizeHidden deduplicates fields like HiddenMap and returns them sorted
// by name for deterministic markup.
func NormalizeHidden(fields ...HiddenField) []HiddenField {
	merged := HiddenMap(fields...)
	if len(merged) == 0 {
		return nil
	}
	out := make([]HiddenField, 0, len(merged))
	for name, value := range merged {
		out = append(out, HiddenField{Name: name, Value: value})
	}
	slices.SortFunc(out, func(a, b HiddenField) int { return strings.Compare(a.Name, b.Name) })
	return out
}
