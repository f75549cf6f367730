package field

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-dynaform/pkg/schema"
	"github.com/goliatone/go-dynaform/pkg/values"
)

// Render builds the control for f. The result is a pure function of its
// inputs; onChange is only invoked through the control's input methods. The
// boolean is false when f is nil, which renders nothing.
func Render(f schema.Field, v values.Value, touched bool, onChange ChangeFunc) (Control, bool) {
	if f == nil {
		return Control{}, false
	}
	meta := f.Meta()
	c := Control{
		Kind:        f.Kind(),
		Name:        meta.Name,
		Label:       meta.Label,
		Placeholder: meta.Placeholder,
		Required:    meta.Required,
		Value:       v,
		Touched:     touched,
		field:       f,
		onChange:    onChange,
	}

	switch f := f.(type) {
	case schema.TextField:
		c.InputType = "text"
		if f.IsPhone() {
			c.InputType = "tel"
			c.InputMode = "numeric"
			c.Pattern = "[0-9]*"
			c.MaxLength = PhoneDigits
		}
		c.Display = text(v)
	case schema.NumberField:
		c.InputType = "number"
		if f.Min != nil {
			c.Min = values.FormatNumber(*f.Min)
		}
		if f.Max != nil {
			c.Max = values.FormatNumber(*f.Max)
		}
		c.Display = text(v)
	case schema.TextareaField:
		c.Rows = TextareaRows
		c.Display = text(v)
	case schema.DropdownField:
		c.Display = text(v)
		c.Options = options(f.Options, func(o string) bool { return o == c.Display })
	case schema.RadioField:
		c.Display = text(v)
		c.Options = options(f.Options, func(o string) bool { return o == c.Display })
	case schema.CheckboxField:
		sel, _ := v.(values.Selection)
		c.Value = sel
		c.Display = sel.String()
		c.Options = options(f.Options, sel.Contains)
	case schema.SliderField:
		pos := f.Min
		if n, ok := v.(values.Number); ok {
			pos = float64(n)
		}
		c.Value = values.Number(pos)
		c.Min = values.FormatNumber(f.Min)
		c.Max = values.FormatNumber(f.Max)
		c.Step = values.FormatNumber(f.Step)
		c.Display = values.FormatNumber(pos)
	default:
		return Control{}, false
	}

	if touched {
		c.Error = Message(f, v)
		c.Invalid = c.Error != ""
	}
	return c, true
}

// Message returns the inline error for f holding v, ignoring the touched
// flag. Format constraints take precedence over the required message.
func Message(f schema.Field, v values.Value) string {
	switch f := f.(type) {
	case schema.TextField:
		if f.IsPhone() && len(text(v)) != PhoneDigits {
			return PhoneMessage
		}
	case schema.NumberField:
		if f.IsGraduationYear() && yearOutOfRange(text(v)) {
			return GraduationYearMessage
		}
	}
	if f.Meta().Required && values.IsEmpty(v) {
		return f.Meta().Label + requiredSuffix
	}
	return ""
}

// Accept applies the field's input shaping to raw and returns the value to
// store. Checkbox and slider fields do not take raw text.
func Accept(f schema.Field, raw string) (values.Value, bool) {
	switch f := f.(type) {
	case schema.TextField:
		if f.IsPhone() && !validPhoneInput(raw) {
			return nil, false
		}
		return values.Text(raw), true
	case schema.TextareaField:
		return values.Text(raw), true
	case schema.NumberField:
		raw = strings.TrimSpace(raw)
		if raw != "" {
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				return nil, false
			}
		}
		return values.Text(raw), true
	case schema.DropdownField:
		if raw != "" && !hasOption(f.Options, raw) {
			return nil, false
		}
		return values.Text(raw), true
	case schema.RadioField:
		if raw != "" && !hasOption(f.Options, raw) {
			return nil, false
		}
		return values.Text(raw), true
	default:
		return nil, false
	}
}

func validPhoneInput(raw string) bool {
	if len(raw) > PhoneDigits {
		return false
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// yearOutOfRange treats an empty value as 0, so an untouched-then-cleared
// year reports the range error. Non-numeric input never reaches a number
// field and is not flagged.
func yearOutOfRange(raw string) bool {
	raw = strings.TrimSpace(raw)
	year := 0.0
	if raw != "" {
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return false
		}
		year = n
	}
	return year < GraduationYearMin || year > GraduationYearMax
}

func text(v values.Value) string {
	if v == nil {
		return ""
	}
	return v.String()
}

func options(opts []schema.Option, selected func(string) bool) []Option {
	out := make([]Option, 0, len(opts))
	for _, opt := range opts {
		out = append(out, Option{Label: opt.Label, Value: opt.Value, Selected: selected(opt.Value)})
	}
	return out
}
