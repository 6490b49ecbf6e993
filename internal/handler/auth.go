package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/mtlprog/earth/internal/session"
)

// LoginData holds data for the login page template.
type LoginData struct {
	Layout
	Username string
	Error    string
	Next     string
}

// requireAuth redirects anonymous visitors to the login page. A visitor whose token no
// longer verifies is logged out first.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, _, ok := h.visitor(r)
		if !ok {
			redirectToLogin(w, r)
			return
		}

		st := v.Gate.State()
		if st.Status == session.StatusAuthenticated && h.tokens != nil {
			if _, err := h.tokens.Parse(st.Token); err != nil {
				h.logger.Info("session token rejected, logging out", "error", err)
				v.Gate.Logout()
			}
		}

		if !v.Gate.IsAuthenticated() {
			redirectToLogin(w, r)
			return
		}

		next(w, r.WithContext(withVisitor(r.Context(), v)))
	}
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := "/login"
	if r.URL.Path != "/" {
		target += "?next=" + url.QueryEscape(r.URL.RequestURI())
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// LoginPage renders the login form. Authenticated visitors go straight home.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if v, _, ok := h.visitor(r); ok && v.Gate.IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.render(w, http.StatusOK, "login.html", LoginData{
		Layout: Layout{Title: "Log in"},
		Next:   safeNext(r.URL.Query().Get("next")),
	})
}

// Login checks the submitted credentials. A visitor without a session gets one, kept only
// when the login succeeds.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	v, _, ok := h.visitor(r)
	var started string
	if !ok {
		started, v = h.visitors.Create()
	}

	if err := r.ParseForm(); err != nil {
		h.discard(started)
		h.renderError(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	creds := session.Credentials{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}
	next := safeNext(r.PostFormValue("next"))

	_, err := v.Gate.Login(r.Context(), creds)
	h.metrics.Login(err)
	if err != nil {
		h.logger.Info("login failed", "username", creds.Username, "error", err)
		h.discard(started)
		h.render(w, http.StatusUnauthorized, "login.html", LoginData{
			Layout:   Layout{Title: "Log in"},
			Username: creds.Username,
			Error:    v.Gate.State().Error,
			Next:     next,
		})
		return
	}

	if started != "" {
		h.setSessionCookie(w, started)
	}
	h.logger.Info("login succeeded", "username", creds.Username)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout ends the visitor's session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if v, id, ok := h.visitor(r); ok {
		v.Gate.Logout()
		h.visitors.Delete(id)
	}
	h.clearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// discard drops a session started by a login attempt that did not succeed.
func (h *Handler) discard(id string) {
	if id != "" {
		h.visitors.Delete(id)
	}
}

// safeNext accepts only local absolute paths.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return "/"
	}
	return next
}
