package components

import (
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-dynaform/pkg/field"
	rendertemplate "github.com/goliatone/go-dynaform/pkg/render/template"
)

// Renderer writes the markup of one control into buf, usually through the
// supplied template renderer.
type Renderer func(buf *bytes.Buffer, ctrl field.Control, data ComponentData) error

// ComponentData carries helpers and theme overrides for component renderers.
type ComponentData struct {
	Template rendertemplate.TemplateRenderer
	// ThemePartials maps partial keys ("fields.text") to replacement template
	// paths.
	ThemePartials map[string]string
	// Classes exposes the chrome class names to templates.
	Classes map[string]string
}

// Script is a browser script a component needs, emitted once per page.
type Script struct {
	Src   string
	Defer bool
}

// Descriptor bundles a kind's renderer with its script dependencies.
type Descriptor struct {
	Name     string
	Renderer Renderer
	Scripts  []Script
}

// Registry maps field kinds to descriptors. Registering a kind again
// replaces its markup.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{components: make(map[string]Descriptor)}
}

// Clone copies the registry so overrides do not leak into the original.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cloned := New()
	for name, descriptor := range r.components {
		descriptor.Scripts = slices.Clone(descriptor.Scripts)
		cloned.components[name] = descriptor
	}
	return cloned
}

// Register associates a descriptor with a field kind name.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	if name = normalize(name); name == "" {
		return fmt.Errorf("components: component name is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor.Name = name
	descriptor.Scripts = slices.Clone(descriptor.Scripts)
	r.components[name] = descriptor
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor fetches a descriptor by kind name.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	descriptor, ok := r.components[normalize(name)]
	if !ok {
		return Descriptor{}, false
	}
	descriptor.Scripts = slices.Clone(descriptor.Scripts)
	return descriptor, true
}

// Names returns the registered kind names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.components))
}

// Scripts collects the scripts of the named components, deduplicated by
// source in first-seen order. Unknown names are skipped.
func (r *Registry) Scripts(names []string) []Script {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Script
	seen := make(map[string]struct{})
	for _, name := range names {
		for _, script := range r.components[normalize(name)].Scripts {
			if script.Src == "" {
				continue
			}
			if _, dup := seen[script.Src]; dup {
				continue
			}
			seen[script.Src] = struct{}{}
			out = append(out, script)
		}
	}
	return out
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
