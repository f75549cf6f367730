package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFieldType is returned when a descriptor declares a type outside
// the supported kinds and lenient decoding is disabled.
var ErrUnknownFieldType = errors.New("schema: unknown field type")

// DecodeOption configures Decode.
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	lenient   bool
	onSkipped func(group, name, kind string)
	yaml      bool
}

// WithLenientTypes drops fields with unknown types instead of failing. The
// optional callback is invoked for every dropped descriptor.
func WithLenientTypes(onSkipped func(group, name, kind string)) DecodeOption {
	return func(opts *decodeOptions) {
		opts.lenient = true
		opts.onSkipped = onSkipped
	}
}

// WithYAML forces YAML decoding regardless of payload sniffing.
func WithYAML() DecodeOption {
	return func(opts *decodeOptions) {
		opts.yaml = true
	}
}

type documentFile struct {
	Form formFile `json:"form" yaml:"form"`
}

type formFile struct {
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description" yaml:"description"`
	Groups      []groupFile `json:"groups" yaml:"groups"`
}

type groupFile struct {
	Title  string      `json:"title" yaml:"title"`
	Fields []fieldFile `json:"fields" yaml:"fields"`
}

type fieldFile struct {
	Name        string       `json:"name" yaml:"name"`
	Label       string       `json:"label" yaml:"label"`
	Type        string       `json:"type" yaml:"type"`
	Required    bool         `json:"required" yaml:"required"`
	Placeholder string       `json:"placeholder" yaml:"placeholder"`
	Format      string       `json:"format" yaml:"format"`
	Min         *float64     `json:"min" yaml:"min"`
	Max         *float64     `json:"max" yaml:"max"`
	Step        *float64     `json:"step" yaml:"step"`
	Options     []optionFile `json:"options" yaml:"options"`
}

// optionFile accepts either a bare string or a {label, value} object.
type optionFile Option

func (o *optionFile) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*o = optionFile{Label: value, Value: value}
		return nil
	}
	var obj Option
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	*o = normalizeOption(obj)
	return nil
}

func (o *optionFile) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*o = optionFile{Label: node.Value, Value: node.Value}
		return nil
	}
	var obj struct {
		Label string `yaml:"label"`
		Value string `yaml:"value"`
	}
	if err := node.Decode(&obj); err != nil {
		return err
	}
	*o = normalizeOption(Option{Label: obj.Label, Value: obj.Value})
	return nil
}

func normalizeOption(opt Option) optionFile {
	if opt.Value == "" {
		opt.Value = opt.Label
	}
	if opt.Label == "" {
		opt.Label = opt.Value
	}
	return optionFile(opt)
}

// DecodeDocument decodes a loaded document, selecting YAML for .yaml/.yml
// locations.
func DecodeDocument(doc Document, options ...DecodeOption) (Form, error) {
	if doc.IsYAML() {
		options = append(options, WithYAML())
	}
	form, err := Decode(doc.Raw(), options...)
	if err != nil {
		return Form{}, fmt.Errorf("schema: decode %s: %w", doc.Location(), err)
	}
	return form, nil
}

// Decode parses a `{ form: { title, description, groups } }` document. JSON is
// tried first with YAML as a fallback, then the result is validated.
func Decode(data []byte, options ...DecodeOption) (Form, error) {
	opts := decodeOptions{}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Form{}, errors.New("schema: document is empty")
	}

	var file documentFile
	if opts.yaml {
		if err := yaml.Unmarshal(data, &file); err != nil {
			return Form{}, fmt.Errorf("schema: parse yaml: %w", err)
		}
	} else if err := json.Unmarshal(data, &file); err != nil {
		file = documentFile{}
		if yamlErr := yaml.Unmarshal(data, &file); yamlErr != nil {
			return Form{}, fmt.Errorf("schema: invalid JSON or YAML: %w", err)
		}
	}

	form := Form{
		Title:       strings.TrimSpace(file.Form.Title),
		Description: strings.TrimSpace(file.Form.Description),
		Groups:      make([]Group, 0, len(file.Form.Groups)),
	}
	for gi, rawGroup := range file.Form.Groups {
		group := Group{Title: strings.TrimSpace(rawGroup.Title)}
		for fi, rawField := range rawGroup.Fields {
			field, err := buildField(rawField)
			if errors.Is(err, ErrUnknownFieldType) && opts.lenient {
				if opts.onSkipped != nil {
					opts.onSkipped(group.Title, rawField.Name, rawField.Type)
				}
				continue
			}
			if err != nil {
				return Form{}, fmt.Errorf("schema: groups[%d].fields[%d]: %w", gi, fi, err)
			}
			group.Fields = append(group.Fields, field)
		}
		form.Groups = append(form.Groups, group)
	}

	if err := Validate(form); err != nil {
		return Form{}, err
	}
	return form, nil
}

func buildField(raw fieldFile) (Field, error) {
	meta := FieldMeta{
		Name:        strings.TrimSpace(raw.Name),
		Label:       strings.TrimSpace(raw.Label),
		Required:    raw.Required,
		Placeholder: raw.Placeholder,
	}
	if meta.Label == "" {
		meta.Label = meta.Name
	}
	format := strings.TrimSpace(raw.Format)

	switch Kind(strings.ToLower(strings.TrimSpace(raw.Type))) {
	case KindText:
		return TextField{FieldMeta: meta, Format: format}, nil
	case KindNumber:
		return NumberField{FieldMeta: meta, Format: format, Min: raw.Min, Max: raw.Max}, nil
	case KindTextarea:
		return TextareaField{FieldMeta: meta}, nil
	case KindDropdown:
		return DropdownField{FieldMeta: meta, Options: options(raw.Options)}, nil
	case KindRadio:
		return RadioField{FieldMeta: meta, Options: options(raw.Options)}, nil
	case KindCheckbox:
		return CheckboxField{FieldMeta: meta, Options: options(raw.Options)}, nil
	case KindSlider:
		slider := SliderField{FieldMeta: meta, Min: 0, Max: 100, Step: 1}
		if raw.Min != nil {
			slider.Min = *raw.Min
		}
		if raw.Max != nil {
			slider.Max = *raw.Max
		}
		if raw.Step != nil {
			slider.Step = *raw.Step
		}
		return slider, nil
	default:
		return nil, fmt.Errorf("%w %q for field %q", ErrUnknownFieldType, raw.Type, meta.Name)
	}
}

func options(raw []optionFile) []Option {
	if len(raw) == 0 {
		return nil
	}
	out := make([]Option, 0, len(raw))
	for _, opt := range raw {
		out = append(out, Option(opt))
	}
	return out
}
