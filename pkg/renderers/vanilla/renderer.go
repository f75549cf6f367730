package vanilla

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-dynaform/pkg/engine"
	"github.com/goliatone/go-dynaform/pkg/render"
	rendertemplate "github.com/goliatone/go-dynaform/pkg/render/template"
	gotemplate "github.com/goliatone/go-dynaform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-dynaform/pkg/renderers/vanilla/components"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	policy           *bluemonday.Policy
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the per-kind component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithDescriptionPolicy overrides the sanitiser applied to the form
// description. The default allows user-generated-content markup.
func WithDescriptionPolicy(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithInlineStyles embeds the default stylesheet in standalone pages instead
// of linking to it.
func WithInlineStyles(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStyles = enabled
	}
}

// Renderer renders a form view as HTML, one template partial per field kind.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	registry     *components.Registry
	policy       *bluemonday.Policy
	inlineStyles bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:    renderer,
		registry:     cfg.registry,
		policy:       cfg.policy,
		inlineStyles: cfg.inlineStyles,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

type groupMarkup struct {
	Title  string   `json:"title"`
	Fields []string `json:"fields"`
}

// Render produces the form markup. With RenderOptions.Standalone the form is
// wrapped in a full HTML page.
func (r *Renderer) Render(ctx context.Context, view engine.View, opts render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	classes := chromeClasses()
	data := components.ComponentData{
		Template:      r.templates,
		ThemePartials: themePartials(opts.Theme),
		Classes:       classes,
	}

	used := make([]string, 0, 7)
	seen := make(map[string]struct{})
	groups := make([]groupMarkup, 0, len(view.Groups))
	for _, group := range view.Groups {
		gm := groupMarkup{Title: group.Title, Fields: make([]string, 0, len(group.Controls))}
		for _, ctrl := range group.Controls {
			name := string(ctrl.Kind)
			descriptor, ok := r.registry.Descriptor(name)
			if !ok {
				return nil, fmt.Errorf("vanilla renderer: component %q not registered for field %q", name, ctrl.Name)
			}
			var buf bytes.Buffer
			if err := descriptor.Renderer(&buf, ctrl, data); err != nil {
				return nil, fmt.Errorf("vanilla renderer: field %q: %w", ctrl.Name, err)
			}
			gm.Fields = append(gm.Fields, buf.String())
			if _, dup := seen[name]; !dup {
				seen[name] = struct{}{}
				used = append(used, name)
			}
		}
		groups = append(groups, gm)
	}

	scripts := r.registry.Scripts(used)
	scriptURLs := make([]string, 0, len(scripts))
	if opts.ChangeAction != "" {
		for _, script := range scripts {
			if script.Src != "" {
				scriptURLs = append(scriptURLs, assetURL(opts.Theme, script.Src))
			}
		}
	}

	payload := map[string]any{
		"form": map[string]any{
			"title":       view.Title,
			"description": r.sanitize(view.Description),
			"groups":      groups,
		},
		"action":        opts.Action,
		"change_action": opts.ChangeAction,
		"notice":        opts.Notice,
		"hidden":        render.NormalizeHidden(opts.Hidden...),
		"classes":       classes,
		"theme":         buildThemeContext(opts.Theme),
		"scripts":       scriptURLs,
	}

	formHTML, err := r.templates.RenderTemplate("templates/form.tmpl", payload)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	if !opts.Standalone {
		return []byte(formHTML), nil
	}

	page := map[string]any{
		"title":      view.Title,
		"body":       formHTML,
		"classes":    classes,
		"theme":      payload["theme"],
		"scripts":    scriptURLs,
		"stylesheet": assetURL(opts.Theme, StylesheetName),
	}
	if r.inlineStyles {
		page["inline_styles"] = defaultStylesheet()
	}
	pageHTML, err := r.templates.RenderTemplate("templates/page.tmpl", page)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(pageHTML), nil
}

func (r *Renderer) sanitize(description string) string {
	description = strings.TrimSpace(description)
	if description == "" || r.policy == nil {
		return description
	}
	return r.policy.Sanitize(description)
}
