package handler

import (
	"net/http"

	"github.com/mtlprog/earth/internal/feedback"
)

// ContactData holds data for the contact page template.
type ContactData struct {
	Layout
	Form  feedback.Form
	Error string
	Sent  bool
}

// ContactPage renders the feedback form with the outcome of the last submission, once.
func (h *Handler) ContactPage(w http.ResponseWriter, r *http.Request) {
	v := visitorFrom(r.Context())
	st := v.Contact.State()

	data := ContactData{
		Layout: h.layout(r, "Contact", ""),
		Form:   v.takeForm(),
		Error:  st.Error,
		Sent:   st.Status == feedback.StatusSuccess,
	}
	v.Contact.Reset()
	h.render(w, http.StatusOK, "contact.html", data)
}

// Contact submits the feedback form and redirects back to the form page.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	v := visitorFrom(r.Context())

	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, http.StatusBadRequest, "Invalid form")
		return
	}
	form := feedback.Form{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Message: r.PostFormValue("message"),
	}

	ack, err := v.Contact.Submit(r.Context(), form)
	switch {
	case err != nil:
		v.keepForm(form)
	case ack.ClearFields:
		v.keepForm(feedback.Form{})
	}
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}
