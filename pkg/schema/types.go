package schema

// Kind is the declared type of a field descriptor.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindTextarea Kind = "textarea"
	KindDropdown Kind = "dropdown"
	KindRadio    Kind = "radio"
	KindCheckbox Kind = "checkbox"
	KindSlider   Kind = "slider"
)

// Kinds lists every supported field kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindText, KindNumber, KindTextarea, KindDropdown, KindRadio, KindCheckbox, KindSlider}
}

// Known reports whether k is one of the supported kinds.
func (k Kind) Known() bool {
	for _, candidate := range Kinds() {
		if k == candidate {
			return true
		}
	}
	return false
}

// Format hints that switch on field-local rules for text and number fields.
const (
	FormatPhone          = "phone"
	FormatGraduationYear = "graduationYear"
)

// Field names that designate the phone and graduation-year rules when no
// explicit format is declared.
const (
	PhoneFieldName          = "phoneNumber"
	GraduationYearFieldName = "graduationYear"
)

// Field is the closed set of field descriptors. Implementations live in this
// package only: TextField, NumberField, TextareaField, DropdownField,
// RadioField, CheckboxField and SliderField.
type Field interface {
	Kind() Kind
	Meta() FieldMeta
	isField()
}

// FieldMeta carries the attributes shared by every field kind.
type FieldMeta struct {
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Required    bool   `json:"required,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Meta returns the shared descriptor attributes.
func (m FieldMeta) Meta() FieldMeta { return m }

// Option is a single choice for dropdown, radio and checkbox fields. Plain
// string options decode with Label == Value.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// TextField is a single-line string input.
type TextField struct {
	FieldMeta
	Format string `json:"format,omitempty"`
}

// NumberField holds a numeric string; Min/Max are input hints only.
type NumberField struct {
	FieldMeta
	Format string   `json:"format,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// TextareaField is a multi-line string input.
type TextareaField struct {
	FieldMeta
}

// DropdownField selects one value out of Options.
type DropdownField struct {
	FieldMeta
	Options []Option `json:"options"`
}

// RadioField selects one option value out of Options.
type RadioField struct {
	FieldMeta
	Options []Option `json:"options"`
}

// CheckboxField selects a set of option values.
type CheckboxField struct {
	FieldMeta
	Options []Option `json:"options"`
}

// SliderField picks a number in [Min, Max] using Step increments.
type SliderField struct {
	FieldMeta
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

func (TextField) Kind() Kind     { return KindText }
func (NumberField) Kind() Kind   { return KindNumber }
func (TextareaField) Kind() Kind { return KindTextarea }
func (DropdownField) Kind() Kind { return KindDropdown }
func (RadioField) Kind() Kind    { return KindRadio }
func (CheckboxField) Kind() Kind { return KindCheckbox }
func (SliderField) Kind() Kind   { return KindSlider }

func (TextField) isField()     {}
func (NumberField) isField()   {}
func (TextareaField) isField() {}
func (DropdownField) isField() {}
func (RadioField) isField()    {}
func (CheckboxField) isField() {}
func (SliderField) isField()   {}

// IsPhone reports whether the text field follows the 10-digit phone rules.
func (f TextField) IsPhone() bool {
	return f.Format == FormatPhone || (f.Format == "" && f.Name == PhoneFieldName)
}

// IsGraduationYear reports whether the number field enforces the graduation
// year range.
func (f NumberField) IsGraduationYear() bool {
	return f.Format == FormatGraduationYear || (f.Format == "" && f.Name == GraduationYearFieldName)
}

// Group is a titled, ordered list of fields.
type Group struct {
	Title  string
	Fields []Field
}

// Form is the read-only schema driving the engine.
type Form struct {
	Title       string
	Description string
	Groups      []Group
}

// Fields returns every field across every group in schema order.
func (f Form) Fields() []Field {
	var out []Field
	for _, group := range f.Groups {
		out = append(out, group.Fields...)
	}
	return out
}

// Field looks up a field descriptor by name.
func (f Form) Field(name string) (Field, bool) {
	for _, group := range f.Groups {
		for _, field := range group.Fields {
			if field.Meta().Name == name {
				return field, true
			}
		}
	}
	return nil, false
}

// Names returns the declared field names in schema order.
func (f Form) Names() []string {
	fields := f.Fields()
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.Meta().Name)
	}
	return out
}
