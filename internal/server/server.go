// Package server exposes a form over HTTP. Each browser session gets its own
// engine, mounted through the shell on a per-session storage slot.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	theme "github.com/goliatone/go-theme"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-dynaform/pkg/engine"
	"github.com/goliatone/go-dynaform/pkg/openapi"
	"github.com/goliatone/go-dynaform/pkg/render"
	"github.com/goliatone/go-dynaform/pkg/renderers/jsonview"
	"github.com/goliatone/go-dynaform/pkg/renderers/vanilla"
	"github.com/goliatone/go-dynaform/pkg/schema"
	"github.com/goliatone/go-dynaform/pkg/shell"
	"github.com/goliatone/go-dynaform/pkg/store"
)

const (
	// DefaultCookieName holds the session id.
	DefaultCookieName = "dynaform_session"
	// SessionFieldName is the hidden input that carries the session id for
	// clients without cookies.
	SessionFieldName = "_session"
	assetsPrefix     = "/assets/"

	// DefaultSessionTTL is how long an idle session stays mounted.
	DefaultSessionTTL = 30 * time.Minute
)

// Server serves one form.
type Server struct {
	form       schema.Form
	store      store.Store
	key        string
	cookieName string
	theme      *theme.RendererConfig
	renderers  *render.Registry
	openapi    *openapi.Generator
	logger     *zap.Logger

	sessionTTL time.Duration
	now        func() time.Time

	mu        sync.Mutex
	sessions  map[string]*session
	lastSweep time.Time
}

// session serialises access to a single engine; the engine itself is not
// safe for concurrent use.
type session struct {
	mu     sync.Mutex
	id     string
	engine *engine.Engine
	notice engine.Notice

	// lastSeen is guarded by Server.mu.
	lastSeen time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithKey sets the storage key prefix; slots are "<key>:<session id>".
func WithKey(key string) Option {
	return func(s *Server) {
		if key != "" {
			s.key = key
		}
	}
}

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.cookieName = name
		}
	}
}

// WithSessionTTL sets how long an idle session stays mounted. Evicted
// sessions are re-mounted from their storage slot on the next request.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithTheme applies a theme to the rendered pages.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithRenderers replaces the renderer registry. It must contain "vanilla".
func WithRenderers(registry *render.Registry) Option {
	return func(s *Server) {
		if registry != nil {
			s.renderers = registry
		}
	}
}

// WithLogger attaches a zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New builds a server for form persisting into st.
func New(form schema.Form, st store.Store, opts ...Option) (*Server, error) {
	if st == nil {
		return nil, errors.New("server: store is required")
	}
	s := &Server{
		form:       form,
		store:      st,
		key:        shell.DefaultKey,
		cookieName: DefaultCookieName,
		logger:     zap.NewNop(),
		sessionTTL: DefaultSessionTTL,
		now:        time.Now,
		sessions:   make(map[string]*session),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	if s.renderers == nil {
		html, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderers = render.NewRegistry()
		s.renderers.MustRegister(html)
		s.renderers.MustRegister(jsonview.New())
	}
	if !s.renderers.Has("vanilla") {
		return nil, errors.New("server: renderer registry has no vanilla renderer")
	}
	s.openapi = openapi.NewGenerator(form)
	return s, nil
}

// Routes returns the router with all routes configured.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/openapi.json", s.openapi.Handler())
	r.Handle(assetsPrefix+"*", http.StripPrefix(assetsPrefix, http.FileServer(http.FS(vanilla.AssetsFS()))))

	r.Get("/", s.handleForm)
	r.Post("/change", s.handleChange)
	r.Post("/submit", s.handleSubmit)
	r.Get("/values", s.handleValues)

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// slot returns the storage key for a session.
func (s *Server) slot(id string) string {
	return s.key + ":" + id
}

// session resolves the caller's session, creating and mounting one when the
// request carries no known id. The id is refreshed in the response cookie.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session {
	id := ""
	if c, err := r.Cookie(s.cookieName); err == nil {
		id = c.Value
	}
	if id == "" {
		id = r.FormValue(SessionFieldName)
	}
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.evictIdle(now)
	if sess, ok := s.sessions[id]; ok {
		sess.lastSeen = now
		return sess
	}
	sh := shell.New(s.store, shell.WithKey(s.slot(id)), shell.WithLogger(s.logger.With(zap.String("session", id))))
	sess := &session{
		id:       id,
		engine:   sh.Mount(context.WithoutCancel(r.Context()), s.form, engine.WithLogger(s.logger)),
		lastSeen: now,
	}
	s.sessions[id] = sess
	s.logger.Debug("session mounted", zap.String("session", id))
	return sess
}

// evictIdle drops sessions unused for longer than the TTL. Values live in
// the store, so an evicted session loses only its last notice. Sweeps run at
// most twice per TTL. Callers hold s.mu.
func (s *Server) evictIdle(now time.Time) {
	if now.Sub(s.lastSweep) < s.sessionTTL/2 {
		return
	}
	s.lastSweep = now
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.sessionTTL {
			delete(s.sessions, id)
			s.logger.Debug("session evicted", zap.String("session", id))
		}
	}
}

func (s *Server) renderOptions(sess *session) render.RenderOptions {
	return render.RenderOptions{
		Action:       "/submit",
		ChangeAction: "/change",
		Notice:       sess.notice,
		Hidden:       []render.HiddenField{render.SessionField(SessionFieldName, sess.id)},
		Theme:        s.themeWithAssets(),
		Standalone:   true,
	}
}

// themeWithAssets points asset lookups at the embedded asset handler unless
// the theme resolves them itself.
func (s *Server) themeWithAssets() *theme.RendererConfig {
	var cfg theme.RendererConfig
	if s.theme != nil {
		cfg = *s.theme
	}
	if cfg.AssetURL == nil {
		cfg.AssetURL = func(name string) string {
			return assetsPrefix + strings.TrimPrefix(name, "/")
		}
	}
	return &cfg
}
