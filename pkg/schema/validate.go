package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError collects structural problems found in a decoded form.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	return "schema: invalid form: " + strings.Join(e.Issues, "; ")
}

// ErrInvalidForm is matched by every *ValidationError via errors.Is.
var ErrInvalidForm = errors.New("schema: invalid form")

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidForm
}

// Validate checks the structural invariants the engine relies on: unique,
// non-empty field names, non-empty option lists with unique values on choice
// kinds and coherent numeric bounds.
func Validate(form Form) error {
	var issues []string
	seen := make(map[string]struct{})

	for gi, group := range form.Groups {
		for fi, field := range group.Fields {
			name := field.Meta().Name
			where := fmt.Sprintf("groups[%d].fields[%d]", gi, fi)
			if name == "" {
				issues = append(issues, where+": name is required")
				continue
			}
			if _, dup := seen[name]; dup {
				issues = append(issues, fmt.Sprintf("%s: duplicate field name %q", where, name))
			}
			seen[name] = struct{}{}

			switch f := field.(type) {
			case DropdownField:
				issues = append(issues, checkOptions(name, f.Options)...)
			case RadioField:
				issues = append(issues, checkOptions(name, f.Options)...)
			case CheckboxField:
				issues = append(issues, checkOptions(name, f.Options)...)
			case NumberField:
				if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
					issues = append(issues, fmt.Sprintf("field %q: min %v exceeds max %v", name, *f.Min, *f.Max))
				}
			case SliderField:
				if f.Min > f.Max {
					issues = append(issues, fmt.Sprintf("field %q: min %v exceeds max %v", name, f.Min, f.Max))
				}
				if f.Step <= 0 {
					issues = append(issues, fmt.Sprintf("field %q: step must be positive", name))
				}
			}
		}
	}

	if len(issues) == 0 {
		return nil
	}
	return &ValidationError{Issues: issues}
}

func checkOptions(name string, opts []Option) []string {
	if len(opts) == 0 {
		return []string{fmt.Sprintf("field %q: options are required", name)}
	}
	var issues []string
	values := make(map[string]struct{}, len(opts))
	for _, opt := range opts {
		if _, dup := values[opt.Value]; dup {
			issues = append(issues, fmt.Sprintf("field %q: duplicate option %q", name, opt.Value))
		}
		values[opt.Value] = struct{}{}
	}
	return issues
}
