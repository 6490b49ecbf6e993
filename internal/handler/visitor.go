package handler

import (
	"context"
	"net/http"
	"strconv"
	"sync"

	"github.com/mtlprog/earth/internal/config"
	"github.com/mtlprog/earth/internal/feedback"
	"github.com/mtlprog/earth/internal/session"
)

// Visitor is the server-side state of one browser session.
type Visitor struct {
	Gate    *session.Gate
	Contact *feedback.Controller

	mu   sync.Mutex
	form feedback.Form // contact form values kept after a failed submission
}

// NewVisitor creates visitor state around gate and contact.
func NewVisitor(gate *session.Gate, contact *feedback.Controller) *Visitor {
	return &Visitor{Gate: gate, Contact: contact}
}

func (v *Visitor) keepForm(f feedback.Form) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.form = f
}

// takeForm returns the retained form values and clears them.
func (v *Visitor) takeForm() feedback.Form {
	v.mu.Lock()
	defer v.mu.Unlock()
	f := v.form
	v.form = feedback.Form{}
	return f
}

type visitorKey struct{}

func withVisitor(ctx context.Context, v *Visitor) context.Context {
	return context.WithValue(ctx, visitorKey{}, v)
}

func visitorFrom(ctx context.Context) *Visitor {
	v, _ := ctx.Value(visitorKey{}).(*Visitor)
	return v
}

// visitor returns the state for the request's session cookie.
// A missing or unknown cookie yields false; sessions are only started by a successful login.
func (h *Handler) visitor(r *http.Request) (*Visitor, string, bool) {
	c, err := r.Cookie(config.SessionCookie)
	if err != nil {
		return nil, "", false
	}
	v, ok := h.visitors.Get(c.Value)
	if !ok {
		return nil, "", false
	}
	return v, c.Value, true
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// viewportWidth reads the width from the w query parameter, then the viewport cookie.
// Returns 0 when neither holds a positive integer.
func viewportWidth(r *http.Request) int {
	if w, err := strconv.Atoi(r.URL.Query().Get("w")); err == nil && w > 0 {
		return w
	}
	if c, err := r.Cookie(config.ViewportCookie); err == nil {
		if w, err := strconv.Atoi(c.Value); err == nil && w > 0 {
			return w
		}
	}
	return 0
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 0 {
		return 0
	}
	return page
}
