package render

import (
	"strings"

	"github.com/goliatone/go-dynaform/pkg/engine"
)

// ErrorMapping splits the visible errors of a view into field-level messages
// keyed by field name and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string `json:"fields,omitempty"`
	Form   []string            `json:"form,omitempty"`
}

// Empty reports whether no error is present.
func (m ErrorMapping) Empty() bool {
	return len(m.Fields) == 0 && len(m.Form) == 0
}

// CollectErrors gathers the inline errors of every control in view. A failed
// submit notice is reported as a form-level message.
func CollectErrors(view engine.View, notice engine.Notice) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	for _, group := range view.Groups {
		for _, ctrl := range group.Controls {
			if ctrl.Error == "" {
				continue
			}
			mapping.Fields[ctrl.Name] = append(mapping.Fields[ctrl.Name], ctrl.Error)
		}
	}
	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	if notice.Level == engine.NoticeError {
		mapping.Form = MergeFormErrors(mapping.Form, notice.Message)
	}
	return mapping
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(messages))
	out := make([]string, 0, len(messages))
	for _, msg := range messages {
		msg = strings.TrimSpace(msg)
		if msg == "" {
			continue
		}
		if _, ok := seen[msg]; ok {
			continue
		}
		seen[msg] = struct{}{}
		out = append(out, msg)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
