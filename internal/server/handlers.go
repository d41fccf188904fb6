package server

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-lotse/pkg/answers"
	"github.com/goliatone/go-lotse/pkg/flow"
	"github.com/goliatone/go-lotse/pkg/lotse"
	"github.com/goliatone/go-lotse/pkg/model"
	"github.com/goliatone/go-lotse/pkg/orchestrator"
	"github.com/goliatone/go-lotse/pkg/render"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleShow(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	step := r.PathValue("step")
	session, err := s.session(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if step == flow.StartStep {
		target := s.orchestrator.Wizard().First()
		if s.orchestrator.DebugData() {
			target = lotse.DebugStep
		}
		http.Redirect(w, r, model.DefaultAction(target), http.StatusSeeOther)
		return
	}

	page, decision, err := s.orchestrator.Show(ctx, step, session.Answers)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !decision.Allowed {
		s.redirect(w, r, session, decision)
		return
	}
	if session.Flash != "" {
		page.Redirected = true
		page.Reason = session.Flash
		session.Flash = ""
		if err := s.sessions.Save(ctx, session); err != nil {
			s.fail(w, r, err)
			return
		}
	}
	s.render(w, r, http.StatusOK, page, session, render.RenderOptions{})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("step")
	session, err := s.session(w, r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}
	if !validToken(session.CSRF, r.PostForm.Get(render.HiddenCSRF)) {
		logger(ctx).Warn("server: csrf token mismatch", zap.String("step", name))
		writeError(w, http.StatusForbidden, "invalid csrf token")
		return
	}
	if posted := r.PostForm.Get(render.HiddenStep); posted != "" && posted != name {
		writeError(w, http.StatusBadRequest, "form was posted for another step")
		return
	}

	step, err := s.orchestrator.Wizard().Step(name)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	input := FormInput(step, r.PostForm)

	result, err := s.orchestrator.Submit(ctx, name, session.Answers, input)
	var incomplete *orchestrator.IncompleteError
	if errors.As(err, &incomplete) {
		page, _, showErr := s.orchestrator.Show(ctx, name, session.Answers)
		if showErr != nil {
			s.fail(w, r, showErr)
			return
		}
		s.render(w, r, http.StatusUnprocessableEntity, page, session, render.RenderOptions{
			Values: submittedValues(step, input),
			Errors: incomplete.Fields,
		})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !result.Decision.Allowed {
		s.redirect(w, r, session, result.Decision)
		return
	}

	session.Answers = result.Values
	session.Flash = ""
	if err := s.sessions.Save(ctx, session); err != nil {
		s.fail(w, r, err)
		return
	}
	next := result.Next
	if next == "" {
		next = name
	}
	logger(ctx).Debug("server: step submitted", zap.String("step", name), zap.String("next", next))
	http.Redirect(w, r, model.DefaultAction(next), http.StatusSeeOther)
}

// handleVisibility evaluates the field states of a step for the answers the
// filer has entered so far. Stored answers fill in what the body lacks, so
// rules depending on earlier steps see them.
func (s *Server) handleVisibility(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	name := r.PathValue("step")
	step, err := s.orchestrator.Wizard().Step(name)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	input, err := readInput(r, step)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	stored := answers.New(nil)
	if session, ok := s.existingSession(r); ok {
		stored = session.Answers
	}
	values := stored.Without(step.FieldNames()...).Merge(input)

	states, err := s.orchestrator.Visibility(ctx, name, values)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fields": states})
}

func (s *Server) redirect(w http.ResponseWriter, r *http.Request, session Session, decision flow.Decision) {
	logger(r.Context()).Debug("server: redirect",
		zap.String("requested", decision.Requested),
		zap.String("target", decision.Step),
		zap.String("reason", decision.Reason),
	)
	session.Flash = decision.Reason
	if err := s.sessions.Save(r.Context(), session); err != nil {
		s.fail(w, r, err)
		return
	}
	http.Redirect(w, r, model.DefaultAction(decision.Step), http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page model.Page, session Session, opts render.RenderOptions) {
	renderer, err := s.orchestrator.Registry().Negotiate(r.Header.Get("Accept"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	opts.Hidden = render.MergeHiddenFields(opts.Hidden, render.CSRFToken(session.CSRF))
	opts.Translator = s.translator
	opts.Locale = s.translator.Match(r.Header.Get("Accept-Language"), s.locale)

	output, err := s.orchestrator.Render(r.Context(), page, renderer.Name(), opts)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(output)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	log := logger(r.Context())
	switch {
	case errors.Is(err, flow.ErrUnknownStep):
		log.Error("server: unknown step", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusNotFound, "unknown step")
	case errors.Is(err, context.Canceled):
		log.Debug("server: request canceled", zap.Error(err))
	default:
		log.Error("server: request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// session returns the session of the request, starting a new one when the
// cookie is missing or the session expired.
// session returns the filer's session, starting one when the cookie is
// missing or stale. Every call pushes the expiry ttl into the future.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (Session, error) {
	if session, ok := s.existingSession(r); ok {
		session.Expires = s.now().Add(s.ttl)
		if err := s.sessions.Save(r.Context(), session); err != nil {
			return Session{}, err
		}
		s.setSessionCookie(w, session)
		return session, nil
	}
	session := newSession(s.ttl, s.now())
	if err := s.sessions.Save(r.Context(), session); err != nil {
		return Session{}, err
	}
	s.setSessionCookie(w, session)
	logger(r.Context()).Debug("server: session started", zap.String("session", session.ID))
	return session, nil
}

func (s *Server) setSessionCookie(w http.ResponseWriter, session Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
}

func (s *Server) existingSession(r *http.Request) (Session, bool) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return Session{}, false
	}
	session, err := s.sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		return Session{}, false
	}
	return session, true
}

func validToken(want, got string) bool {
	if want == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(got)) == 1
}

// FormInput converts posted form values into answers for step. Only the
// step's fields are read; empty inputs are treated as absent. Entries
// textareas are split into one entry per line.
func FormInput(step flow.Step, form url.Values) answers.Store {
	out := make(map[string]any, len(step.Fields))
	for _, field := range step.Fields {
		raw, ok := form[field.Name]
		if !ok || len(raw) == 0 {
			continue
		}
		if field.Kind == flow.KindEntries {
			if entries := splitLines(raw); len(entries) > 0 {
				out[field.Name] = entries
			}
			continue
		}
		value := strings.TrimSpace(raw[len(raw)-1])
		if value == "" {
			continue
		}
		out[field.Name] = value
	}
	return answers.New(out)
}

func splitLines(raw []string) []any {
	var out []any
	for _, value := range raw {
		for _, line := range strings.Split(value, "\n") {
			if trimmed := strings.TrimSpace(line); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// submittedValues shows the posted input back, with absent fields empty so
// stored answers do not reappear.
func submittedValues(step flow.Step, input answers.Store) map[string]any {
	out := make(map[string]any, len(step.Fields))
	for _, field := range step.Fields {
		value, ok := input.Lookup(field.Name)
		switch {
		case field.Kind == flow.KindCheckbox:
			out[field.Name] = input.Checked(field.Name)
		case ok:
			out[field.Name] = value
		default:
			out[field.Name] = ""
		}
	}
	return out
}

func readInput(r *http.Request, step flow.Step) (answers.Store, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			return answers.Store{}, errors.New("invalid json body")
		}
		return answers.New(payload), nil
	case "multipart/form-data":
		// The visibility script posts FormData.
		if err := r.ParseMultipartForm(maxBodyBytes); err != nil {
			return answers.Store{}, errors.New("invalid form body")
		}
	default:
		if err := r.ParseForm(); err != nil {
			return answers.Store{}, errors.New("invalid form body")
		}
	}
	return FormInput(step, r.PostForm), nil
}
