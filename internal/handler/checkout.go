package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/kozymacro/papara-checkout/internal/catalog"
	"github.com/kozymacro/papara-checkout/internal/checkout"
	"github.com/kozymacro/papara-checkout/internal/config"
	"github.com/kozymacro/papara-checkout/internal/model"
)

// PricingData is rendered by pricing.html.
type PricingData struct {
	Lang     string
	Packages []model.Package
	Form     checkout.View
	Error    string
}

// Pricing handles GET / and GET /tr - the package list and checkout modal.
func (h *Handler) Pricing(w http.ResponseWriter, r *http.Request) {
	lang := "en"
	if strings.HasPrefix(r.URL.Path, "/tr") {
		lang = "tr"
	}

	view := checkout.View{Quantity: checkout.FieldState{Value: "1"}}
	if form, ok := h.existingForm(r); ok {
		view = form.View()
	}

	h.renderPricing(w, http.StatusOK, lang, view, "")
}

// Checkout handles POST /checkout - events from the checkout modal.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	lang := checkout.ResolveLanguage(r.FormValue("lang"))

	form, err := h.sessionForm(w, r)
	if err != nil {
		slog.Error("failed to start checkout session", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	switch r.FormValue("action") {
	case "select":
		dayCount, err := strconv.Atoi(r.FormValue("day_count"))
		pkg, ok := h.catalog.Find(dayCount)
		if err != nil || !ok {
			h.renderPricing(w, http.StatusBadRequest, lang, form.View(), "Unknown package")
			return
		}
		form.SelectPackage(catalog.Selection(pkg))

	case "input":
		field, ok := checkout.ParseField(r.FormValue("field"))
		if !ok {
			h.renderPricing(w, http.StatusBadRequest, lang, form.View(), "Unknown field")
			return
		}
		form.Input(field, r.FormValue(string(field)))

	case "toggle_discount":
		applyPosted(form, r)

	case "submit":
		applyPosted(form, r)
		out := form.Submit(r.Context(), r.FormValue("lang"))
		if out.Status == checkout.StatusRedirect {
			http.Redirect(w, r, out.RedirectURL, http.StatusSeeOther)
			return
		}

	case "close":
		form.Close()
	}

	h.renderPricing(w, http.StatusOK, lang, form.View(), "")
}

// applyPosted copies the modal inputs of a full form post into form without
// validating them. The discount box is toggled only when its state changed.
func applyPosted(form *checkout.Form, r *http.Request) {
	for _, field := range checkout.Fields {
		if values, ok := r.PostForm[string(field)]; ok && len(values) > 0 {
			form.SetValue(field, values[0])
		}
	}

	checked := r.PostForm.Get("has_discount") != ""
	if checked != form.View().HasDiscount {
		form.ToggleDiscount(checked)
	}
}

// existingForm returns the visitor's form without starting a session.
func (h *Handler) existingForm(r *http.Request) (*checkout.Form, bool) {
	c, err := r.Cookie(config.SessionCookie)
	if err != nil {
		return nil, false
	}
	return h.sessions.Get(c.Value)
}

// sessionForm returns the visitor's form, starting a session if needed.
func (h *Handler) sessionForm(w http.ResponseWriter, r *http.Request) (*checkout.Form, error) {
	if form, ok := h.existingForm(r); ok {
		return form, nil
	}

	id, form, err := h.sessions.Create()
	if err != nil {
		return nil, err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     config.SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return form, nil
}

func (h *Handler) renderPricing(w http.ResponseWriter, status int, lang string, view checkout.View, errorMsg string) {
	data := PricingData{
		Lang:     lang,
		Packages: h.catalog.Packages(),
		Form:     view,
		Error:    errorMsg,
	}

	var buf bytes.Buffer
	if err := h.tmpl.Render(&buf, "pricing.html", data); err != nil {
		slog.Error("failed to render pricing page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("failed to write response", "error", err)
	}
}
