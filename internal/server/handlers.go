package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-dynaform/pkg/engine"
	"github.com/goliatone/go-dynaform/pkg/schema"
	"github.com/goliatone/go-dynaform/pkg/values"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error string `json:"error"`
}

type fieldErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field"`
}

type rejectedResponse struct {
	Value string `json:"value"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleForm renders the session's form. ?format=json selects the JSON view.
func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.renderPage(w, r, sess, http.StatusOK)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, sess *session, status int) {
	name := "vanilla"
	if r.URL.Query().Get("format") == "json" && s.renderers.Has("json") {
		name = "json"
	}
	body, contentType, err := s.renderers.Render(r.Context(), name, sess.engine.View(r.Context()), s.renderOptions(sess))
	if err != nil {
		s.logger.Error("render form", zap.String("renderer", name), zap.Error(err))
		http.Error(w, "failed to render form", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// handleChange applies a single field update. The body carries "field" and
// either "value" (shaped like typed input) or "toggle" (checkbox option).
func (s *Server) handleChange(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid form body"})
		return
	}
	sess := s.session(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	name := r.PostForm.Get("field")
	f, ok := s.form.Field(name)
	if !ok {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown field " + strconv.Quote(name)})
		return
	}

	eng := sess.engine
	ctx := r.Context()
	var err error
	switch {
	case r.PostForm.Has("toggle"):
		if f.Kind() != schema.KindCheckbox {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "toggle is only valid for checkbox fields"})
			return
		}
		option := r.PostForm.Get("toggle")
		current, _ := eng.Value(name).(values.Selection)
		if !declared(f.(schema.CheckboxField).Options, option) {
			s.writeJSON(w, http.StatusConflict, rejectedResponse{Value: current.String()})
			return
		}
		err = eng.Change(ctx, name, current.Toggle(option))
	case r.PostForm.Has("value"):
		raw := r.PostForm.Get("value")
		var accepted bool
		accepted, err = applyRaw(ctx, eng, f, raw)
		if err == nil && !accepted {
			current := ""
			if v := eng.Value(name); v != nil {
				current = v.String()
			}
			s.writeJSON(w, http.StatusConflict, rejectedResponse{Value: current})
			return
		}
	default:
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "value or toggle is required"})
		return
	}
	if err != nil {
		s.writeChangeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, eng.Values())
}

// handleSubmit applies the posted fields and submits. Form posts get the page
// back with the notice; JSON requests get the submit result.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	jsonRequest := isJSON(r.Header.Get("Content-Type"))
	var posted values.Map
	if jsonRequest {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read body"})
			return
		}
		if len(strings.TrimSpace(string(data))) > 0 {
			posted, err = values.Parse(data)
			if err != nil {
				s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
				return
			}
		}
	} else if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	sess := s.session(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	ctx := r.Context()
	eng := sess.engine
	var applyErr error
	if jsonRequest {
		applyErr = s.applyMap(r, eng, posted)
	} else {
		applyErr = s.applyForm(r, eng)
	}
	if applyErr != nil {
		s.writeChangeError(w, applyErr)
		return
	}

	res, err := eng.Submit(ctx)
	if err != nil {
		s.logger.Error("submit", zap.String("session", sess.id), zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "submit failed"})
		return
	}
	sess.notice = res.Notice

	status := http.StatusOK
	if !res.Valid {
		status = http.StatusUnprocessableEntity
	}
	if jsonRequest || wantsJSON(r) {
		s.writeJSON(w, status, res)
		return
	}
	s.renderPage(w, r, sess, status)
}

func (s *Server) handleValues(w http.ResponseWriter, r *http.Request) {
	sess := s.session(w, r)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	s.writeJSON(w, http.StatusOK, sess.engine.Values())
}

// applyForm copies urlencoded fields into the engine. Checkbox groups are
// only touched when their hidden presence input was posted, so an absent
// group keeps its value and an empty group clears it. Items that are not
// declared options are dropped, and rejected text keeps the previous value.
func (s *Server) applyForm(r *http.Request, eng *engine.Engine) error {
	ctx := r.Context()
	for _, f := range s.form.Fields() {
		name := f.Meta().Name
		posted, ok := r.PostForm[name]
		if !ok {
			continue
		}
		if f.Kind() == schema.KindCheckbox {
			sel := values.Selection{}
			opts := f.(schema.CheckboxField).Options
			for _, item := range posted {
				if declared(opts, item) && !sel.Contains(item) {
					sel = append(sel, item)
				}
			}
			if err := eng.Change(ctx, name, sel); err != nil {
				return err
			}
			continue
		}
		if _, err := applyRaw(ctx, eng, f, r.PostForm.Get(name)); err != nil {
			return err
		}
	}
	return nil
}

// applyMap copies a decoded JSON map into the engine, ignoring keys the form
// does not declare. Values pass the same shaping as browser input.
func (s *Server) applyMap(r *http.Request, eng *engine.Engine, m values.Map) error {
	ctx := r.Context()
	for _, name := range m.Keys() {
		f, ok := s.form.Field(name)
		if !ok {
			s.logger.Debug("ignoring undeclared field", zap.String("field", name))
			continue
		}
		if err := applyValue(ctx, eng, f, m[name]); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) writeChangeError(w http.ResponseWriter, err error) {
	var rejected *rejectedError
	switch {
	case errors.As(err, &rejected):
		s.writeJSON(w, http.StatusConflict, fieldErrorResponse{Error: err.Error(), Field: rejected.field})
	case errors.Is(err, engine.ErrUnknownField), errors.Is(err, engine.ErrInvalidValue):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("apply change", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to persist change"})
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("encode response", zap.Error(err))
	}
}

func isJSON(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && mediaType == "application/json"
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
