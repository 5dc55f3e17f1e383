package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/kozymacro/papara-checkout/internal/catalog"
	"github.com/kozymacro/papara-checkout/internal/checkout"
	"github.com/kozymacro/papara-checkout/internal/static"
)

// TemplateRenderer renders a named page template.
type TemplateRenderer interface {
	Render(w io.Writer, name string, data any) error
}

// SessionStore hands out the checkout form of a visitor.
type SessionStore interface {
	Get(id string) (*checkout.Form, bool)
	Create() (string, *checkout.Form, error)
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	catalog  *catalog.Catalog
	sessions SessionStore
	tmpl     TemplateRenderer
}

// New creates a new Handler with the given dependencies.
func New(cat *catalog.Catalog, sessions SessionStore, tmpl TemplateRenderer) (*Handler, error) {
	if cat == nil {
		return nil, errors.New("package catalog is required")
	}
	if sessions == nil {
		return nil, errors.New("session store is required")
	}
	if tmpl == nil {
		return nil, errors.New("templates are required")
	}
	return &Handler{
		catalog:  cat,
		sessions: sessions,
		tmpl:     tmpl,
	}, nil
}

// RegisterRoutes registers all HTTP routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.Pricing)
	mux.HandleFunc("GET /tr", h.Pricing)
	mux.HandleFunc("GET /tr/{$}", h.Pricing)
	mux.HandleFunc("POST /checkout", h.Checkout)
	mux.Handle("GET /static/", http.StripPrefix("/static/", static.Handler()))
	mux.Handle("GET /favicon.svg", static.Handler())
}
